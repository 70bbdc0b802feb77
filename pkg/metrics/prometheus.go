// Package metrics provides Prometheus metrics for the icingview dashboard.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager holds all Prometheus metrics for the service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	enabled          bool
	registry         prometheus.Registerer

	// Inbound HTTP metrics.
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Upstream (monitoring backend) metrics.
	upstreamRequests        *prometheus.CounterVec
	upstreamRequestDuration prometheus.Histogram
	upstreamErrors          *prometheus.CounterVec
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid the default Go collectors.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithRegistry(customRegistry))
}

// NewManager creates a metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "icingview",
		subsystem:        "dashboard",
		histogramBuckets: prometheus.DefBuckets,
		enabled:          true,
		registry:         prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.httpRequests = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests by route, method and status code",
		},
		[]string{"route", "method", "status_code"},
	)

	m.httpRequestDuration = auto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds by route and method",
			Buckets:   m.histogramBuckets,
		},
		[]string{"route", "method"},
	)

	m.upstreamRequests = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "upstream_requests_total",
			Help:      "Total number of requests to the monitoring backend by object type and status code",
		},
		[]string{"objtype", "status_code"},
	)

	m.upstreamRequestDuration = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "upstream_request_duration_seconds",
		Help:      "Monitoring backend request duration in seconds",
		Buckets:   m.histogramBuckets,
	})

	m.upstreamErrors = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "upstream_errors_total",
			Help:      "Total number of failed upstream exchanges by stage (transport, contract)",
		},
		[]string{"stage"},
	)
}

// RecordHTTPRequest increments the inbound request counter.
func (m *Manager) RecordHTTPRequest(route, method, statusCode string) {
	if !m.enabled {
		return
	}
	m.httpRequests.WithLabelValues(route, method, statusCode).Inc()
}

// RecordHTTPRequestDuration observes an inbound request duration.
func (m *Manager) RecordHTTPRequestDuration(route, method string, seconds float64) {
	if !m.enabled {
		return
	}
	m.httpRequestDuration.WithLabelValues(route, method).Observe(seconds)
}

// RecordUpstreamRequest increments the upstream request counter.
func (m *Manager) RecordUpstreamRequest(objtype, statusCode string) {
	if !m.enabled {
		return
	}
	m.upstreamRequests.WithLabelValues(objtype, statusCode).Inc()
}

// RecordUpstreamRequestDuration observes an upstream exchange duration.
func (m *Manager) RecordUpstreamRequestDuration(seconds float64) {
	if !m.enabled {
		return
	}
	m.upstreamRequestDuration.Observe(seconds)
}

// RecordUpstreamError increments the upstream error counter for a stage.
func (m *Manager) RecordUpstreamError(stage string) {
	if !m.enabled {
		return
	}
	m.upstreamErrors.WithLabelValues(stage).Inc()
}

// Package-level helpers operating on the global manager.

// RecordHTTPRequest increments the inbound request counter.
func RecordHTTPRequest(route, method, statusCode string) {
	globalManager.RecordHTTPRequest(route, method, statusCode)
}

// RecordHTTPRequestDuration observes an inbound request duration.
func RecordHTTPRequestDuration(route, method string, seconds float64) {
	globalManager.RecordHTTPRequestDuration(route, method, seconds)
}

// RecordUpstreamRequest increments the upstream request counter.
func RecordUpstreamRequest(objtype, statusCode string) {
	globalManager.RecordUpstreamRequest(objtype, statusCode)
}

// RecordUpstreamRequestDuration observes an upstream exchange duration.
func RecordUpstreamRequestDuration(seconds float64) {
	globalManager.RecordUpstreamRequestDuration(seconds)
}

// RecordUpstreamError increments the upstream error counter for a stage.
func RecordUpstreamError(stage string) {
	globalManager.RecordUpstreamError(stage)
}

// GetRegistry returns the registry backing the global manager, for the
// /metrics handler.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
