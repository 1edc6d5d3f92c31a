package middlewares

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RequireAdmin must run after RequireAuth.
func (m *AuthMiddleware) RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := UserIDFromContext(c)

		if !ok {
			abortFail(c, http.StatusUnauthorized, MsgProvideToken)
			return
		}

		u, err := m.auth.RequireAdmin(c.Request.Context(), userID)
		if err != nil {
			abortAuthError(c, err)
			return
		}

		c.Set(CtxUser, u)
		c.Next()
	}
}
