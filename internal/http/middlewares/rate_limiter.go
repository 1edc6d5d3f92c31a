package middlewares

import (
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/geocoder89/usershub/internal/ratelimit"
	"github.com/gin-gonic/gin"
)

const MsgTooManyRequests = "Too many requests. Please try again shortly."

type RateLimiter struct {
	store  ratelimit.Store
	window time.Duration
	limit  int64
}

func NewRateLimiter(store ratelimit.Store, limit int, window time.Duration) *RateLimiter {
	return &RateLimiter{
		store:  store,
		limit:  int64(limit),
		window: window,
	}
}

// RateLimiterMiddleware enforces the limit for a key derived from the request.
// A failing store lets the request through.
func (rl *RateLimiter) RateLimiterMiddleware(scope string, keyFn func(*gin.Context) string) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := keyFn(c)

		if key == "" {
			// fallback to IP if key cannot be derived

			key = clientIP(c)
		}

		count, resetIn, err := rl.store.Hit(c.Request.Context(), scope+":"+key, rl.window)
		if err != nil {
			slog.Default().WarnContext(c.Request.Context(), "rate limiter unavailable", "err", err)
			c.Next()
			return
		}

		if count > rl.limit {
			retryAfter := int(resetIn.Seconds())

			if retryAfter < 0 {
				retryAfter = 0
			}

			c.Header("Retry-After", strconv.Itoa(retryAfter))
			abortFail(c, http.StatusTooManyRequests, MsgTooManyRequests)

			return
		}

		c.Next()
	}
}

// helper functions

// for unauthenticated endpoints: rate limit by IP
func KeyByIP(c *gin.Context) string {
	return clientIP(c)
}

// For authenticated endpoints: rate limit by userID if available

func KeyByUserOrIP(c *gin.Context) string {
	id, ok := UserIDFromContext(c)

	if ok && id > 0 {
		return "user:" + strconv.FormatInt(id, 10)
	}

	return clientIP(c)
}

func clientIP(c *gin.Context) string {
	// Gin’s ClientIP respects X-Forwarded-For / X-Real-IP if configured.
	ip := c.ClientIP()

	host, _, err := net.SplitHostPort(ip)

	if err == nil && host != "" {
		return host
	}

	return ip
}
