package middleware

import (
	"net/http"
	"strconv"

	"github.com/salwynchristopher/portfolio/internal/api/dto/common"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// RateLimitConfig defines configuration for the global rate limiter
type RateLimitConfig struct {
	// Requests per second
	RPS int
	// Burst size (number of requests that can be made in a single burst)
	Burst int
}

// RateLimitMiddleware caps the request rate of the whole router. It sits in
// front of the per-client contact limiter and protects the process, not
// individual clients.
func RateLimitMiddleware(config RateLimitConfig) gin.HandlerFunc {
	if config.RPS <= 0 {
		return func(c *gin.Context) { c.Next() }
	}

	limiter := rate.NewLimiter(rate.Limit(config.RPS), config.Burst)

	return func(c *gin.Context) {
		if !limiter.Allow() {
			c.Header("Retry-After", "1")
			c.AbortWithStatusJSON(http.StatusTooManyRequests,
				common.NewErrorResponse("Too many requests. Please try again later."))
			return
		}

		c.Header("X-Global-RateLimit-Limit", strconv.Itoa(config.RPS))
		c.Next()
	}
}
