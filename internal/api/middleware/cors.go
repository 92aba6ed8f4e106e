package middleware

import (
	"strings"
	"time"

	"github.com/salwynchristopher/portfolio/internal/api/constants"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// CORS allows the portfolio site to call the API from the browser. A "*"
// entry in allowedOrigins allows every origin without credentials.
func CORS(allowedOrigins []string) gin.HandlerFunc {
	config := cors.Config{
		AllowMethods: []string{"GET", "POST", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type", "Accept", constants.HeaderRequestID},
		ExposeHeaders: []string{
			"Content-Length",
			constants.HeaderRequestID,
			constants.HeaderRetryAfter,
			constants.HeaderRateLimitLimit,
			constants.HeaderRateLimitRemaining,
			constants.HeaderRateLimitReset,
		},
		MaxAge: 12 * time.Hour,
	}

	for _, origin := range allowedOrigins {
		origin = strings.TrimSpace(origin)
		if origin == "" {
			continue
		}
		if origin == "*" {
			config.AllowAllOrigins = true
			config.AllowOrigins = nil
			break
		}
		config.AllowOrigins = append(config.AllowOrigins, origin)
	}

	if len(config.AllowOrigins) == 0 {
		config.AllowAllOrigins = true
	}
	config.AllowCredentials = !config.AllowAllOrigins

	return cors.New(config)
}
