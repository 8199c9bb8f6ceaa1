// Package metrics provides Prometheus metrics for marketplace SDK operations.
package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for SDK operations.
type Metrics struct {
	enabled bool

	// Sign-in metrics
	loginTotal    *prometheus.CounterVec
	loginFailures *prometheus.CounterVec

	// Backend request metrics
	requestsTotal   *prometheus.CounterVec
	requestDuration prometheus.Histogram

	// Guard metrics
	guardDenialsTotal *prometheus.CounterVec
}

// New creates and registers Prometheus metrics.
// If enabled is false, returns a no-op Metrics instance.
func New(enabled bool) *Metrics {
	m := &Metrics{enabled: enabled}

	if !enabled {
		return m
	}

	m.loginTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "rentroam_logins_total",
		Help: "Total sign-in attempts",
	}, []string{"result", "role"})

	m.loginFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "rentroam_login_failures_total",
		Help: "Total sign-in failures",
	}, []string{"reason"})

	m.requestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "rentroam_api_requests_total",
		Help: "Total backend API requests",
	}, []string{"method", "status"})

	m.requestDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "rentroam_api_request_duration_seconds",
		Help:    "Backend API request duration in seconds",
		Buckets: prometheus.DefBuckets,
	})

	m.guardDenialsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "rentroam_guard_denials_total",
		Help: "Total route guard denials",
	}, []string{"reason"})

	return m
}

// RecordLoginSuccess records a successful sign-in for the resolved role.
func (m *Metrics) RecordLoginSuccess(role string) {
	if !m.enabled {
		return
	}
	m.loginTotal.WithLabelValues("success", role).Inc()
}

// RecordLoginFailure records a failed sign-in with its reason.
func (m *Metrics) RecordLoginFailure(reason string) {
	if !m.enabled {
		return
	}
	m.loginTotal.WithLabelValues("failure", "").Inc()
	m.loginFailures.WithLabelValues(reason).Inc()
}

// RecordRequest records a backend request outcome. status 0 means the
// request never produced a response (transport failure).
func (m *Metrics) RecordRequest(method string, status int, durationSeconds float64) {
	if !m.enabled {
		return
	}
	label := "error"
	if status > 0 {
		label = strconv.Itoa(status)
	}
	m.requestsTotal.WithLabelValues(method, label).Inc()
	m.requestDuration.Observe(durationSeconds)
}

// RecordGuardDenial records a route guard redirect.
func (m *Metrics) RecordGuardDenial(reason string) {
	if !m.enabled {
		return
	}
	m.guardDenialsTotal.WithLabelValues(reason).Inc()
}
