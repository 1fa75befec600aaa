package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the service's Prometheus collectors on a private registry.
type Metrics struct {
	registry        *prometheus.Registry
	requestCount    *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	errorCount      *prometheus.CounterVec
	mirrorOps       *prometheus.CounterVec
}

// NewMetrics initializes and registers collectors.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		requestCount: prometheus.NewCounterVec(
			prometheus.CounterOpts{Name: "lostfound_http_requests_total", Help: "HTTP requests by route, method and status"},
			[]string{"route", "method", "status"},
		),
		requestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{Name: "lostfound_http_request_duration_seconds", Help: "HTTP request latency", Buckets: prometheus.DefBuckets},
			[]string{"route", "method"},
		),
		errorCount: prometheus.NewCounterVec(
			prometheus.CounterOpts{Name: "lostfound_http_errors_total", Help: "Error responses by domain code"},
			[]string{"route", "method", "code"},
		),
		mirrorOps: prometheus.NewCounterVec(
			prometheus.CounterOpts{Name: "lostfound_mirror_operations_total", Help: "Collection mirror operations by outcome"},
			[]string{"collection", "op", "outcome"},
		),
	}
	m.registry.MustRegister(m.requestCount, m.requestDuration, m.errorCount, m.mirrorOps)
	return m
}

// RecordRequest increments counters for requests.
func (m *Metrics) RecordRequest(route, method string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	m.requestCount.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	m.requestDuration.WithLabelValues(route, method).Observe(duration.Seconds())
}

// RecordError increments error counters.
func (m *Metrics) RecordError(route, method, code string) {
	if m == nil {
		return
	}
	m.errorCount.WithLabelValues(route, method, code).Inc()
}

// RecordMirrorOp counts a list/create/update/delete against a collection.
func (m *Metrics) RecordMirrorOp(collection, op, outcome string) {
	if m == nil {
		return
	}
	m.mirrorOps.WithLabelValues(collection, op, outcome).Inc()
}

// Registry exposes the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
