package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
)

const (
	StatusSuccess = "success"
	StatusFail    = "fail"

	MsgInvalidPayload = "Invalid payload."
	MsgEmailTaken     = "Sorry, that email already exists"
	MsgUserNotFound   = "User does not exist"
	MsgInternal       = "Something went wrong. Please try again."
)

// Envelope is the uniform response wrapper.
type Envelope struct {
	Status    string      `json:"status"`
	Message   string      `json:"message,omitempty"`
	Data      interface{} `json:"data,omitempty"`
	Details   interface{} `json:"details,omitempty"`
	RequestID string      `json:"request_id,omitempty"`
}

func requestIDFrom(ctx *gin.Context) string {
	v, ok := ctx.Get("request_id")

	if ok {
		s, ok := v.(string)
		if ok && s != "" {
			return s
		}
	}

	// fallback header
	return ctx.GetHeader("X-Request-Id")
}

func RespondSuccess(ctx *gin.Context, status int, message string, data interface{}) {
	ctx.JSON(status, Envelope{
		Status:  StatusSuccess,
		Message: message,
		Data:    data,
	})
}

func RespondFail(ctx *gin.Context, status int, message string, details interface{}) {
	ctx.JSON(status, Envelope{
		Status:    StatusFail,
		Message:   message,
		Details:   details,
		RequestID: requestIDFrom(ctx),
	})
}

func RespondInvalidPayload(ctx *gin.Context, details interface{}) {
	RespondFail(ctx, http.StatusBadRequest, MsgInvalidPayload, details)
}

func RespondNotFound(ctx *gin.Context, message string) {
	RespondFail(ctx, http.StatusNotFound, message, nil)
}

// RespondInternal logs err and hides it from the client.
func RespondInternal(ctx *gin.Context, err error) {
	_ = ctx.Error(err)
	slog.Default().ErrorContext(ctx.Request.Context(), "request failed", "err", err, "request_id", requestIDFrom(ctx))
	RespondFail(ctx, http.StatusInternalServerError, MsgInternal, nil)
}
