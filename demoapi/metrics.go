// ABOUTME: Prometheus metrics for the demo API, registered on a private registry so tests can build many servers.
// ABOUTME: Tracks requests by route and status, request latency, rejected API keys, and the stored call count.
package demoapi

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics collects Prometheus metrics for the demo server.
type Metrics struct {
	registry        *prometheus.Registry
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	authFailures    prometheus.Counter
	storedCalls     prometheus.Gauge
}

// NewMetrics creates a metrics set on its own registry.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)
	return &Metrics{
		registry: reg,
		requestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "calldeck_demo_requests_total",
				Help: "Total number of demo API requests",
			},
			[]string{"route", "status"},
		),
		requestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "calldeck_demo_request_duration_seconds",
				Help:    "Demo API request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"route"},
		),
		authFailures: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "calldeck_demo_auth_failures_total",
				Help: "Requests rejected for a missing or invalid API key",
			},
		),
		storedCalls: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "calldeck_demo_stored_calls",
				Help: "Number of calls in the demo store",
			},
		),
	}
}

// RecordRequest records one finished request.
func (m *Metrics) RecordRequest(route string, status int, seconds float64) {
	m.requestsTotal.WithLabelValues(route, strconv.Itoa(status)).Inc()
	m.requestDuration.WithLabelValues(route).Observe(seconds)
}

// RecordAuthFailure counts a rejected API key.
func (m *Metrics) RecordAuthFailure() {
	m.authFailures.Inc()
}

// SetStoredCalls updates the stored call gauge.
func (m *Metrics) SetStoredCalls(n int) {
	m.storedCalls.Set(float64(n))
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
