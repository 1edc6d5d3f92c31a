package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/geocoder89/usershub/internal/domain/user"
	"github.com/gin-gonic/gin"
)

type UserReader interface {
	GetByID(ctx context.Context, id int64) (user.User, error)
	List(ctx context.Context) ([]user.User, error)
}

type UserCreator interface {
	CreateUser(ctx context.Context, username, email, password string) (user.User, error)
}

type UsersHandler struct {
	users   UserReader
	creator UserCreator
}

func NewUsersHandler(users UserReader, creator UserCreator) *UsersHandler {
	return &UsersHandler{users: users, creator: creator}
}

// requestContext bounds store calls by the request lifetime and a short timeout.
func requestContext(ctx *gin.Context, d time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx.Request.Context(), d)
}

func (h *UsersHandler) Ping(ctx *gin.Context) {
	RespondSuccess(ctx, http.StatusOK, "pong!", nil)
}

// CreateUser runs behind RequireAuth + RequireAdmin.
func (h *UsersHandler) CreateUser(ctx *gin.Context) {
	var req user.CreateUserRequest

	if !BindJSON(ctx, &req) {
		return
	}

	cctx, cancel := requestContext(ctx, 3*time.Second)
	defer cancel()

	u, err := h.creator.CreateUser(cctx, req.Username, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, user.ErrEmailTaken) {
			RespondFail(ctx, http.StatusBadRequest, MsgEmailTaken, nil)
			return
		}

		RespondInternal(ctx, err)
		return
	}

	RespondSuccess(ctx, http.StatusCreated, u.Email+" was added!", nil)
}

func (h *UsersHandler) GetUser(ctx *gin.Context) {
	// non-numeric ids are simply users that do not exist
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		RespondNotFound(ctx, MsgUserNotFound)
		return
	}

	cctx, cancel := requestContext(ctx, 2*time.Second)
	defer cancel()

	u, err := h.users.GetByID(cctx, id)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			RespondNotFound(ctx, MsgUserNotFound)
			return
		}

		RespondInternal(ctx, err)
		return
	}

	RespondUsersWithETag(ctx, u)
}

func (h *UsersHandler) ListUsers(ctx *gin.Context) {
	cctx, cancel := requestContext(ctx, 2*time.Second)
	defer cancel()

	users, err := h.users.List(cctx)
	if err != nil {
		RespondInternal(ctx, err)
		return
	}

	RespondUsersWithETag(ctx, gin.H{"users": users})
}
