package middlewares

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const MsgInvalidPayload = "Invalid payload."

// RequireJSON rejects write requests whose body is declared as something other than JSON
// with the same 400 the handlers give for an unreadable body.
// An absent Content-Type is let through so the handler reports it.
func RequireJSON() gin.HandlerFunc {
	return func(c *gin.Context) {
		switch c.Request.Method {
		case http.MethodPost, http.MethodPut, http.MethodPatch:
			ct := c.GetHeader("Content-Type")
			// allow "application/json; charset=utf-8"
			if ct != "" && !strings.HasPrefix(strings.ToLower(ct), "application/json") {
				abortFail(c, http.StatusBadRequest, MsgInvalidPayload)
				return
			}
		}
		c.Next()
	}
}
