package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/salwynchristopher/portfolio/internal/config"
	"github.com/salwynchristopher/portfolio/internal/logging"
	"github.com/salwynchristopher/portfolio/internal/mail"
)

type captureTransport struct {
	mu   sync.Mutex
	sent []mail.Message
}

func (c *captureTransport) Send(_ context.Context, msg mail.Message) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sent = append(c.sent, msg)
	return nil
}

func testConfig() *config.Config {
	return &config.Config{
		Environment:     "test",
		Port:            "0",
		AllowedOrigins:  []string{"*"},
		GlobalRPS:       100,
		GlobalBurst:     100,
		ShutdownTimeout: time.Second,
		Mail: config.MailConfig{
			Host:      "smtp.example.com",
			Port:      "587",
			Username:  "bot",
			Password:  "secret",
			Sender:    "owner@example.com",
			OwnerName: "Salwyn Christopher",
			Timeout:   time.Second,
		},
		RateLimit: config.RateLimitConfig{
			MaxRequests:   2,
			Window:        time.Hour,
			SweepInterval: time.Minute,
		},
	}
}

func TestNewInMemory(t *testing.T) {
	gin.SetMode(gin.TestMode)
	transport := &captureTransport{}

	a, err := New(context.Background(), testConfig(), logging.NewNop(), WithTransport(transport))
	require.NoError(t, err)
	defer a.Close()

	assert.NotNil(t, a.sweeper)
	assert.Nil(t, a.redis)
	assert.Equal(t, 1.0, testutil.ToFloat64(a.Metrics.RateLimitStoreUp))

	body := `{"name":"Jo","email":"jo@x.com","subject":"Hi","message":"Hello there, nice site!"}`
	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/contact", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		a.Server.Handler().ServeHTTP(w, req)
		codes = append(codes, w.Code)
	}

	// RATE_LIMIT_MAX is honoured
	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
	assert.Len(t, transport.sent, 4)
}

func TestReadinessReportsMissingMailConfig(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cfg := testConfig()
	cfg.Mail.Host = ""

	a, err := New(context.Background(), cfg, logging.NewNop(), WithTransport(&captureTransport{}))
	require.NoError(t, err)

	w := httptest.NewRecorder()
	a.Server.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health/ready", nil))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestNewRedisUnreachable(t *testing.T) {
	cfg := testConfig()
	cfg.Redis.Addr = "127.0.0.1:1"

	_, err := New(context.Background(), cfg, logging.NewNop())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to connect to Redis")
}

func TestRunStopsOnCancel(t *testing.T) {
	gin.SetMode(gin.TestMode)

	a, err := New(context.Background(), testConfig(), logging.NewNop(), WithTransport(&captureTransport{}))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- a.Run(ctx) }()

	time.Sleep(100 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("app did not stop")
	}
}
