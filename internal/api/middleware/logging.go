package middleware

import (
	"time"

	"github.com/salwynchristopher/portfolio/internal/api/constants"
	"github.com/salwynchristopher/portfolio/internal/logging"
	"github.com/salwynchristopher/portfolio/internal/utils"

	"github.com/gin-gonic/gin"
)

// HTTPObserver records per-request metrics
type HTTPObserver interface {
	ObserveHTTP(method, route string, status int, d time.Duration)
}

// RequestLogger logs each request through logger (when LOG_REQUESTS is on)
// and records it on observer. Unmatched paths are grouped under one route
// label.
func RequestLogger(logger *logging.Logger, observer HTTPObserver) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		latency := time.Since(start)
		status := c.Writer.Status()

		logger.LogHTTPRequest(
			c.Request.Method,
			c.Request.URL.Path,
			utils.ClientKey(c.Request),
			c.GetString(constants.ContextKeyRequestID),
			status,
			c.Writer.Size(),
			latency.String(),
		)

		if observer != nil {
			route := c.FullPath()
			if route == "" {
				route = "unmatched"
			}
			observer.ObserveHTTP(c.Request.Method, route, status, latency)
		}
	}
}
