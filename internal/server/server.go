package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/salwynchristopher/portfolio/internal/api/middleware"
	"github.com/salwynchristopher/portfolio/internal/config"
	"github.com/salwynchristopher/portfolio/internal/logging"
	"github.com/salwynchristopher/portfolio/internal/server/routes"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
)

// Server represents the HTTP server
type Server struct {
	router  *gin.Engine
	handler http.Handler
	cfg     *config.Config
	logger  *logging.Logger
}

// NewServer creates a server with all middleware and routes installed.
// observer may be nil.
func NewServer(cfg *config.Config, h *routes.Handlers, observer middleware.HTTPObserver, logger *logging.Logger) *Server {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	// Request logging goes through our own logger
	gin.DisableConsoleColor()
	gin.DefaultWriter = io.Discard

	router := gin.New()
	router.HandleMethodNotAllowed = true

	if cfg.OTLPEndpoint != "" {
		router.Use(otelgin.Middleware(cfg.ServiceName))
	}

	routes.SetupGlobalMiddleware(router, routes.MiddlewareConfig{
		AllowedOrigins: cfg.AllowedOrigins,
		Production:     cfg.IsProduction(),
		RateLimit: middleware.RateLimitConfig{
			RPS:   cfg.GlobalRPS,
			Burst: cfg.GlobalBurst,
		},
		MaxBodySize: middleware.DefaultMaxBodySize,
		Observer:    observer,
	}, logger)

	routes.Setup(router, h, logger)

	return &Server{
		router:  router,
		handler: routes.TrimTrailingSlash(router),
		cfg:     cfg,
		logger:  logger,
	}
}

// Handler returns the root HTTP handler
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Run listens on the configured port and serves until ctx is cancelled
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", ":"+s.cfg.Port)
	if err != nil {
		return fmt.Errorf("failed to listen on port %s: %w", s.cfg.Port, err)
	}
	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln until ctx is cancelled, then drains
// in-flight requests for at most ShutdownTimeout.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	httpServer := &http.Server{
		Handler:           s.handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("HTTP server listening on %s", ln.Addr())
		errCh <- httpServer.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	s.logger.Info("Shutting down HTTP server...")

	timeout := s.cfg.ShutdownTimeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http server shutdown: %w", err)
	}

	s.logger.Info("HTTP server stopped")
	return nil
}
