package routes

import (
	"net/http"
	"strings"

	"github.com/salwynchristopher/portfolio/internal/api/middleware"
	"github.com/salwynchristopher/portfolio/internal/logging"

	"github.com/gin-gonic/gin"
)

// MiddlewareConfig selects the global middleware behaviour
type MiddlewareConfig struct {
	AllowedOrigins []string
	Production     bool
	RateLimit      middleware.RateLimitConfig
	MaxBodySize    int64
	Observer       middleware.HTTPObserver
}

// Setup configures all route groups
func Setup(router *gin.Engine, h *Handlers, logger *logging.Logger) {
	SetupHealthRoutes(router, h.Health, h.Metrics)
	SetupContactRoutes(router, h.Contact)

	logger.Info("All routes have been set up successfully")
}

// SetupGlobalMiddleware configures middleware that applies to all routes
func SetupGlobalMiddleware(router *gin.Engine, cfg MiddlewareConfig, logger *logging.Logger) {
	router.Use(middleware.RequestID())
	router.Use(middleware.RequestLogger(logger, cfg.Observer))
	router.Use(middleware.Recovery(logger))
	router.Use(middleware.CORS(cfg.AllowedOrigins))
	router.Use(middleware.SecurityHeaders(cfg.Production))
	router.Use(middleware.BodySizeLimit(cfg.MaxBodySize))
	router.Use(middleware.RateLimitMiddleware(cfg.RateLimit))
}

// TrimTrailingSlash wraps the engine so that /api/v1/contact/ matches
// /api/v1/contact. It has to run before routing, so it cannot be gin
// middleware.
func TrimTrailingSlash(router *gin.Engine) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if path := r.URL.Path; path != "/" && strings.HasSuffix(path, "/") {
			r.URL.Path = strings.TrimRight(path, "/")
			if r.URL.Path == "" {
				r.URL.Path = "/"
			}
		}
		router.ServeHTTP(w, r)
	})
}
