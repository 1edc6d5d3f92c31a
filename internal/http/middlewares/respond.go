package middlewares

import "github.com/gin-gonic/gin"

// abortFail writes the fail envelope the handlers use and stops the chain.
func abortFail(c *gin.Context, status int, message string) {
	body := gin.H{
		"status":  "fail",
		"message": message,
	}

	if id := c.GetString(CtxRequestID); id != "" {
		body["request_id"] = id
	}

	c.AbortWithStatusJSON(status, body)
}
