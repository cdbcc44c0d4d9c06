// Package metrics provides Prometheus metrics for the beachvis service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager manages all Prometheus metrics for the beachvis service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	constLabels      prometheus.Labels
	registry         prometheus.Registerer

	// HTTP Performance Metrics
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Error Metrics
	errorRateByType     *prometheus.CounterVec
	errorRateByEndpoint *prometheus.CounterVec

	// Cache Metrics - per resource kind
	cacheHits      *prometheus.CounterVec
	cacheMisses    *prometheus.CounterVec
	cacheEntries   *prometheus.GaugeVec
	cacheEvictions *prometheus.CounterVec

	// Upstream Metrics - VIS calls per operation
	upstreamRequests *prometheus.CounterVec
	upstreamLatency  *prometheus.HistogramVec
	upstreamErrors   *prometheus.CounterVec

	// Fallback Metrics
	fallbacks *prometheus.CounterVec

	// System Performance Metrics
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
	systemGCPauseTime    prometheus.Histogram
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

// Initialize global metrics.
func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "beachvis",
		subsystem:        "api",
		histogramBuckets: []float64{5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000, 10000},
		registry:         prometheus.DefaultRegisterer,
	}

	// Apply all options
	for _, opt := range opts {
		opt(m)
	}

	// Initialize metrics
	m.initializeMetrics()

	return m
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() { //nolint:funlen // long function required for comprehensive metrics initialization
	// Ensure metrics are registered on the configured registry (custom by default)
	auto := promauto.With(m.registry)

	counterVec := func(name, help string, labels ...string) *prometheus.CounterVec {
		return auto.NewCounterVec(prometheus.CounterOpts{
			Namespace:   m.namespace,
			Subsystem:   m.subsystem,
			Name:        name,
			Help:        help,
			ConstLabels: m.constLabels,
		}, labels)
	}

	// HTTP Performance Metrics - User experience indicators
	m.httpRequests = counterVec("http_requests_total",
		"Total number of HTTP requests by endpoint and method",
		"endpoint", "method", "status_code")

	m.httpRequestDuration = auto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace:   m.namespace,
			Subsystem:   m.subsystem,
			Name:        "http_request_duration_milliseconds",
			Help:        "HTTP request duration in milliseconds (user experience)",
			Buckets:     m.histogramBuckets,
			ConstLabels: m.constLabels,
		},
		[]string{"endpoint", "method", "status_code"},
	)

	// Error Metrics - classified failures
	m.errorRateByType = counterVec("errors_by_type_total",
		"Total number of classified errors by type and severity",
		"error_type", "severity")

	m.errorRateByEndpoint = counterVec("errors_by_endpoint_total",
		"Total number of classified errors by route",
		"endpoint", "error_type")

	// Cache Metrics
	m.cacheHits = counterVec("cache_hits_total",
		"Total number of fresh cache hits by resource",
		"resource")

	m.cacheMisses = counterVec("cache_misses_total",
		"Total number of cache misses (absent or stale) by resource",
		"resource")

	m.cacheEntries = auto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "cache_entries",
		Help:        "Current number of entries held per resource cache",
		ConstLabels: m.constLabels,
	}, []string{"resource"})

	m.cacheEvictions = counterVec("cache_evictions_total",
		"Total number of expired entries swept by resource",
		"resource")

	// Upstream Metrics - VIS request volume and health
	m.upstreamRequests = counterVec("upstream_requests_total",
		"Total number of VIS requests by operation and outcome",
		"operation", "outcome")

	m.upstreamLatency = auto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace:   m.namespace,
			Subsystem:   m.subsystem,
			Name:        "upstream_latency_milliseconds",
			Help:        "VIS request latency in milliseconds",
			Buckets:     m.histogramBuckets,
			ConstLabels: m.constLabels,
		},
		[]string{"operation"},
	)

	m.upstreamErrors = counterVec("upstream_errors_total",
		"Total number of failed VIS requests by operation and error type",
		"operation", "error_type")

	// Fallback Metrics - degraded answers served
	m.fallbacks = counterVec("fallbacks_total",
		"Total number of responses served by a fallback strategy",
		"resource", "strategy")

	// System Performance Metrics
	m.systemMemoryUsage = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "system_memory_usage_bytes",
		Help:        "System memory usage in bytes",
		ConstLabels: m.constLabels,
	})

	m.systemGoroutineCount = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "system_goroutine_count",
		Help:        "Number of goroutines",
		ConstLabels: m.constLabels,
	})

	m.systemGCPauseTime = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "system_gc_pause_time_milliseconds",
		Help:        "GC pause time in milliseconds",
		Buckets:     []float64{0.1, 0.5, 1, 2, 5, 10, 25, 50, 100, 250, 500, 1000},
		ConstLabels: m.constLabels,
	})
}

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// RecordErrorByType records an error with type and severity labels.
func RecordErrorByType(errorType, severity string) {
	globalManager.errorRateByType.WithLabelValues(errorType, severity).Inc()
}

// RecordErrorByEndpoint records an error with endpoint and error type labels.
func RecordErrorByEndpoint(endpoint, errorType string) {
	globalManager.errorRateByEndpoint.WithLabelValues(endpoint, errorType).Inc()
}

// Cache Metrics Functions.

// RecordCacheHit increments the hit counter of a resource cache.
func RecordCacheHit(resource string) {
	globalManager.cacheHits.WithLabelValues(resource).Inc()
}

// RecordCacheMiss increments the miss counter of a resource cache.
func RecordCacheMiss(resource string) {
	globalManager.cacheMisses.WithLabelValues(resource).Inc()
}

// UpdateCacheEntries sets the number of entries held by a resource cache.
func UpdateCacheEntries(resource string, count int) {
	globalManager.cacheEntries.WithLabelValues(resource).Set(float64(count))
}

// RecordCacheEvictions adds swept entries to the eviction counter.
func RecordCacheEvictions(resource string, count int) {
	if count <= 0 {
		return
	}
	globalManager.cacheEvictions.WithLabelValues(resource).Add(float64(count))
}

// Upstream Metrics Functions.

// RecordUpstreamRequest records one VIS call and its latency.
// outcome is "ok" or the error type.
func RecordUpstreamRequest(operation, outcome string, latencyMs float64) {
	globalManager.upstreamRequests.WithLabelValues(operation, outcome).Inc()
	globalManager.upstreamLatency.WithLabelValues(operation).Observe(latencyMs)
}

// RecordUpstreamError increments the failed VIS call counter.
func RecordUpstreamError(operation, errorType string) {
	globalManager.upstreamErrors.WithLabelValues(operation, errorType).Inc()
}

// RecordFallback counts a response served by a non-primary strategy.
func RecordFallback(resource, strategy string) {
	globalManager.fallbacks.WithLabelValues(resource, strategy).Inc()
}

// System Performance Metrics Functions.

// UpdateSystemMemoryUsage sets the system memory usage in bytes.
func UpdateSystemMemoryUsage(bytes uint64) {
	globalManager.systemMemoryUsage.Set(float64(bytes))
}

// UpdateSystemGoroutineCount sets the number of goroutines.
func UpdateSystemGoroutineCount(count int) {
	globalManager.systemGoroutineCount.Set(float64(count))
}

// RecordSystemGCPauseTime records GC pause time in milliseconds.
func RecordSystemGCPauseTime(pauseMs float64) {
	globalManager.systemGCPauseTime.Observe(pauseMs)
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
