package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/salwynchristopher/portfolio/internal/api/dto/common"
	"github.com/salwynchristopher/portfolio/internal/version"

	"github.com/gin-gonic/gin"
	"github.com/heptiolabs/healthcheck"
)

const checkTimeout = 2 * time.Second

// Pinger is a dependency that can be pinged for readiness
type Pinger func(ctx context.Context) error

type HealthHandler struct {
	checks healthcheck.Handler
}

func NewHealthHandler() *HealthHandler {
	h := &HealthHandler{checks: healthcheck.NewHandler()}
	h.checks.AddLivenessCheck("goroutine-threshold", healthcheck.GoroutineCountCheck(10000))
	return h
}

// AddReadinessCheck registers a check that must pass before traffic is routed
func (h *HealthHandler) AddReadinessCheck(name string, check healthcheck.Check) {
	h.checks.AddReadinessCheck(name, check)
}

// AddPinger registers a readiness check bounded by a short timeout
func (h *HealthHandler) AddPinger(name string, ping Pinger) {
	h.checks.AddReadinessCheck(name, healthcheck.Timeout(func() error {
		ctx, cancel := context.WithTimeout(context.Background(), checkTimeout)
		defer cancel()
		return ping(ctx)
	}, checkTimeout))
}

// Check handles GET /health
func (h *HealthHandler) Check(c *gin.Context) {
	c.JSON(http.StatusOK, common.HealthResponse{
		Status:  "ok",
		Version: version.Version,
	})
}

// Live handles GET /health/live
func (h *HealthHandler) Live(c *gin.Context) {
	h.checks.LiveEndpoint(c.Writer, c.Request)
}

// Ready handles GET /health/ready
func (h *HealthHandler) Ready(c *gin.Context) {
	h.checks.ReadyEndpoint(c.Writer, c.Request)
}
