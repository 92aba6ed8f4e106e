// Package metrics exposes Prometheus metrics for the contact service.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the service collectors
type Metrics struct {
	registry *prometheus.Registry

	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	SubmissionsTotal *prometheus.CounterVec
	MailSendDuration *prometheus.HistogramVec
	MailSendErrors   *prometheus.CounterVec
	RateLimitStoreUp prometheus.Gauge
}

// New creates the collectors on a fresh registry
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,

		HTTPRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "portfolio_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "route", "status_code"},
		),

		HTTPRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "portfolio_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),

		SubmissionsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "portfolio_contact_submissions_total",
				Help: "Contact form submissions by outcome",
			},
			[]string{"outcome"},
		),

		MailSendDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "portfolio_mail_send_duration_seconds",
				Help:    "Time spent delivering one email",
				Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10},
			},
			[]string{"kind"},
		),

		MailSendErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "portfolio_mail_send_errors_total",
				Help: "Failed email deliveries",
			},
			[]string{"kind"},
		),

		RateLimitStoreUp: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "portfolio_ratelimit_store_up",
				Help: "1 when the rate limit store answered its last health check",
			},
		),
	}
}

// ObserveSubmission implements contact.Recorder
func (m *Metrics) ObserveSubmission(outcome string) {
	m.SubmissionsTotal.WithLabelValues(outcome).Inc()
}

// ObserveSend implements contact.Recorder
func (m *Metrics) ObserveSend(kind string, d time.Duration, err error) {
	m.MailSendDuration.WithLabelValues(kind).Observe(d.Seconds())
	if err != nil {
		m.MailSendErrors.WithLabelValues(kind).Inc()
	}
}

// ObserveHTTP records one finished request
func (m *Metrics) ObserveHTTP(method, route string, status int, d time.Duration) {
	m.HTTPRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

// ObserveStoreHealth records the result of a rate limit store health check
func (m *Metrics) ObserveStoreHealth(err error) {
	if err != nil {
		m.RateLimitStoreUp.Set(0)
		return
	}
	m.RateLimitStoreUp.Set(1)
}

// Registry returns the underlying registry
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus text format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
