package middlewares

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/geocoder89/usershub/internal/actorctx"
	"github.com/geocoder89/usershub/internal/auth"
	"github.com/geocoder89/usershub/internal/domain/user"
	"github.com/gin-gonic/gin"
)

const (
	MsgProvideToken   = "Provide a valid auth token."
	MsgInvalidToken   = "Invalid token. Please log in again."
	MsgExpiredToken   = "Signature expired. Please log in again."
	MsgNoPermission   = "You do not have permission to do that."
	MsgSomethingWrong = "Something went wrong. Please try again."
)

// Keep this small interface so tests can fake it easily.
type Authenticator interface {
	Authenticate(raw string) (int64, error)
	CurrentUser(ctx context.Context, userID int64) (user.User, error)
	RequireAdmin(ctx context.Context, userID int64) (user.User, error)
}

type AuthMiddleware struct {
	auth Authenticator
}

func NewAuthMiddleware(a Authenticator) *AuthMiddleware {
	return &AuthMiddleware{auth: a}
}

// RequireAuth verifies the bearer token and resolves it to an active user.
func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			abortFail(c, http.StatusUnauthorized, MsgProvideToken)
			return
		}

		userID, err := m.auth.Authenticate(raw)
		if err != nil {
			abortAuthError(c, err)
			return
		}

		u, err := m.auth.CurrentUser(c.Request.Context(), userID)
		if err != nil {
			abortAuthError(c, err)
			return
		}

		// Stash identity on both the gin and request contexts
		c.Set(CtxUserID, u.ID)
		c.Set(CtxUser, u)
		c.Request = c.Request.WithContext(actorctx.WithUserID(c.Request.Context(), u.ID))

		c.Next()
	}
}

func bearerToken(header string) (string, bool) {
	scheme, raw, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}

	raw = strings.TrimSpace(raw)
	return raw, raw != ""
}

func abortAuthError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, auth.ErrMissingToken):
		abortFail(c, http.StatusUnauthorized, MsgProvideToken)
	case errors.Is(err, auth.ErrExpiredToken):
		abortFail(c, http.StatusUnauthorized, MsgExpiredToken)
	case errors.Is(err, auth.ErrInvalidToken):
		abortFail(c, http.StatusUnauthorized, MsgInvalidToken)
	case errors.Is(err, auth.ErrPermissionDenied):
		abortFail(c, http.StatusUnauthorized, MsgNoPermission)
	default:
		slog.Default().ErrorContext(c.Request.Context(), "auth check failed", "err", err)
		abortFail(c, http.StatusInternalServerError, MsgSomethingWrong)
	}
}

// Optional helpers so handlers don’t need to know the magic keys.

func UserIDFromContext(c *gin.Context) (int64, bool) {
	v, ok := c.Get(CtxUserID)
	if !ok {
		return 0, false
	}
	id, ok := v.(int64)
	return id, ok
}

func UserFromContext(c *gin.Context) (user.User, bool) {
	v, ok := c.Get(CtxUser)
	if !ok {
		return user.User{}, false
	}
	u, ok := v.(user.User)
	return u, ok
}
