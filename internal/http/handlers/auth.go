package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/geocoder89/usershub/internal/auth"
	"github.com/geocoder89/usershub/internal/domain/user"
	"github.com/geocoder89/usershub/internal/http/middlewares"
	"github.com/geocoder89/usershub/internal/observability"
	"github.com/gin-gonic/gin"
)

type Authenticator interface {
	Login(ctx context.Context, email, password string) (string, user.User, error)
	Register(ctx context.Context, username, email, password string) (string, user.User, error)
}

type AuthHandler struct {
	auth    Authenticator
	metrics *observability.Prom
}

// NewAuthHandler builds the handler; metrics may be nil.
func NewAuthHandler(a Authenticator, metrics *observability.Prom) *AuthHandler {
	return &AuthHandler{auth: a, metrics: metrics}
}

type tokenResponse struct {
	Status    string `json:"status"`
	Message   string `json:"message"`
	AuthToken string `json:"auth_token"`
}

func (h *AuthHandler) Login(ctx *gin.Context) {
	var req user.LoginRequest

	if !BindJSON(ctx, &req) {
		return
	}
	// short timeout for DB lookup
	cctx, cancel := requestContext(ctx, 2*time.Second)
	defer cancel()

	token, _, err := h.auth.Login(cctx, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			h.metrics.ObserveAuth("login", "invalid")
			RespondNotFound(ctx, "User does not exist.")
			return
		}

		h.metrics.ObserveAuth("login", "error")
		RespondInternal(ctx, err)
		return
	}

	h.metrics.ObserveAuth("login", "ok")
	ctx.JSON(http.StatusOK, tokenResponse{
		Status:    StatusSuccess,
		Message:   "Successfully logged in.",
		AuthToken: token,
	})
}

func (h *AuthHandler) Register(ctx *gin.Context) {
	var req user.CreateUserRequest

	if !BindJSON(ctx, &req) {
		return
	}

	cctx, cancel := requestContext(ctx, 3*time.Second)
	defer cancel()

	token, _, err := h.auth.Register(cctx, req.Username, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, user.ErrEmailTaken) {
			h.metrics.ObserveAuth("register", "invalid")
			RespondFail(ctx, http.StatusBadRequest, "Sorry. That user already exists.", nil)
			return
		}

		h.metrics.ObserveAuth("register", "error")
		RespondInternal(ctx, err)
		return
	}

	h.metrics.ObserveAuth("register", "ok")
	ctx.JSON(http.StatusCreated, tokenResponse{
		Status:    StatusSuccess,
		Message:   "Successfully registered.",
		AuthToken: token,
	})
}

// Logout runs behind RequireAuth. Tokens are stateless, so there is nothing to revoke.
func (h *AuthHandler) Logout(ctx *gin.Context) {
	RespondSuccess(ctx, http.StatusOK, "Successfully logged out.", nil)
}

// Status runs behind RequireAuth and returns the caller.
func (h *AuthHandler) Status(ctx *gin.Context) {
	u, ok := middlewares.UserFromContext(ctx)
	if !ok {
		RespondFail(ctx, http.StatusUnauthorized, middlewares.MsgProvideToken, nil)
		return
	}

	RespondSuccess(ctx, http.StatusOK, "success", u)
}
