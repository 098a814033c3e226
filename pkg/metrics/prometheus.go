// Package metrics provides Prometheus metrics for the paddock service.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Default metrics configuration constants.
const (
	defaultNamespace       = "paddock"
	defaultSubsystem       = "standings"
	defaultRefreshInterval = 10 * time.Second
)

// Manager manages all Prometheus metrics for the paddock service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	refreshInterval  time.Duration
	constLabels      map[string]string
	registry         prometheus.Registerer

	// Standings computation
	computations        *prometheus.CounterVec
	computationDuration prometheus.Histogram
	sessionsProcessed   prometheus.Counter
	shapeFallbacks      *prometheus.CounterVec
	orphanedPositions   prometheus.Counter
	cachedSeasons       prometheus.Gauge

	// Upstream (OpenF1) fetches
	upstreamRequests *prometheus.CounterVec
	upstreamDuration *prometheus.HistogramVec
	upstreamCache    *prometheus.CounterVec

	// Refresh queue and workers
	queueSize      prometheus.Gauge
	queueRejected  *prometheus.CounterVec
	workerCount    prometheus.Gauge
	workerJobs     prometheus.Counter
	workerErrors   prometheus.Counter
	workerDuration prometheus.Histogram

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Errors
	errorsByComponent *prometheus.CounterVec
	errorsByType      *prometheus.CounterVec

	// System
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // metrics registry

func init() { //nolint:gochecknoinits // global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        defaultNamespace,
		subsystem:        defaultSubsystem,
		histogramBuckets: []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000, 10000},
		refreshInterval:  defaultRefreshInterval,
		constLabels:      make(map[string]string),
		registry:         prometheus.NewRegistry(),
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()
	return m
}

func (m *Manager) counter(name, help string) prometheus.Counter {
	return promauto.With(m.registry).NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, ConstLabels: m.constLabels,
	})
}

func (m *Manager) counterVec(name, help string, labels ...string) *prometheus.CounterVec {
	return promauto.With(m.registry).NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, ConstLabels: m.constLabels,
	}, labels)
}

func (m *Manager) gauge(name, help string) prometheus.Gauge {
	return promauto.With(m.registry).NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, ConstLabels: m.constLabels,
	})
}

func (m *Manager) histogram(name, help string) prometheus.Histogram {
	return promauto.With(m.registry).NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help,
		Buckets: m.histogramBuckets, ConstLabels: m.constLabels,
	})
}

func (m *Manager) histogramVec(name, help string, labels ...string) *prometheus.HistogramVec {
	return promauto.With(m.registry).NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help,
		Buckets: m.histogramBuckets, ConstLabels: m.constLabels,
	}, labels)
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() {
	m.computations = m.counterVec("computations_total", "Standings computations by outcome", "outcome")
	m.computationDuration = m.histogram("computation_duration_milliseconds", "Duration of a full standings computation")
	m.sessionsProcessed = m.counter("sessions_processed_total", "Race sessions folded into standings")
	m.shapeFallbacks = m.counterVec("position_shape_total", "Position batches by decoded response shape", "shape")
	m.orphanedPositions = m.counter("orphaned_positions_total", "Final positions ignored because the driver is not in the roster")
	m.cachedSeasons = m.gauge("cached_seasons", "Seasons with a stored standings snapshot")

	m.upstreamRequests = m.counterVec("upstream_requests_total", "OpenF1 requests by endpoint and status", "endpoint", "status")
	m.upstreamDuration = m.histogramVec("upstream_request_duration_milliseconds", "OpenF1 request latency", "endpoint")
	m.upstreamCache = m.counterVec("upstream_cache_total", "OpenF1 response cache lookups", "endpoint", "result")

	m.queueSize = m.gauge("refresh_queue_size", "Pending refresh jobs")
	m.queueRejected = m.counterVec("refresh_queue_rejected_total", "Refresh jobs rejected by reason", "reason")
	m.workerCount = m.gauge("refresh_worker_count", "Refresh workers running")
	m.workerJobs = m.counter("refresh_jobs_total", "Refresh jobs completed")
	m.workerErrors = m.counter("refresh_errors_total", "Refresh jobs that failed")
	m.workerDuration = m.histogram("refresh_duration_milliseconds", "Duration of a refresh job")

	m.httpRequests = m.counterVec("http_requests_total", "HTTP requests by endpoint, method and status", "endpoint", "method", "status_code")
	m.httpRequestDuration = m.histogramVec("http_request_duration_milliseconds", "HTTP request duration", "endpoint", "method", "status_code")

	m.errorsByComponent = m.counterVec("errors_by_component_total", "Errors by component and type", "component", "error_type")
	m.errorsByType = m.counterVec("errors_by_type_total", "Errors by type and severity", "error_type", "severity")

	m.systemMemoryUsage = m.gauge("system_memory_bytes", "Heap bytes allocated")
	m.systemGoroutineCount = m.gauge("system_goroutines", "Number of goroutines")
}

// RefreshInterval returns how often gauges should be refreshed by callers.
func (m *Manager) RefreshInterval() time.Duration { return m.refreshInterval }

// Standings computation.

// RecordComputation counts a standings computation with its outcome ("ok", "empty").
func RecordComputation(outcome string, durationMs float64) {
	globalManager.computations.WithLabelValues(outcome).Inc()
	globalManager.computationDuration.Observe(durationMs)
}

// RecordSessionProcessed counts one session folded into standings.
func RecordSessionProcessed() { globalManager.sessionsProcessed.Inc() }

// RecordPositionShape counts a decoded position batch by shape.
func RecordPositionShape(shape string) { globalManager.shapeFallbacks.WithLabelValues(shape).Inc() }

// RecordOrphanedPosition counts a final position whose driver is not in the roster.
func RecordOrphanedPosition() { globalManager.orphanedPositions.Inc() }

// UpdateCachedSeasons sets the number of stored snapshots.
func UpdateCachedSeasons(count int) { globalManager.cachedSeasons.Set(float64(count)) }

// Upstream.

// RecordUpstreamRequest records one OpenF1 request.
func RecordUpstreamRequest(endpoint, status string, durationMs float64) {
	globalManager.upstreamRequests.WithLabelValues(endpoint, status).Inc()
	globalManager.upstreamDuration.WithLabelValues(endpoint).Observe(durationMs)
}

// RecordUpstreamCache records a response cache lookup ("hit" or "miss").
func RecordUpstreamCache(endpoint, result string) {
	globalManager.upstreamCache.WithLabelValues(endpoint, result).Inc()
}

// Refresh queue and workers.

// UpdateQueueSize sets the number of pending refresh jobs.
func UpdateQueueSize(size int) { globalManager.queueSize.Set(float64(size)) }

// RecordQueueRejected counts a refresh job that could not be enqueued.
func RecordQueueRejected(reason string) { globalManager.queueRejected.WithLabelValues(reason).Inc() }

// UpdateWorkerCount sets the number of running refresh workers.
func UpdateWorkerCount(count int) { globalManager.workerCount.Set(float64(count)) }

// RecordWorkerJob records a completed refresh job.
func RecordWorkerJob(durationMs float64) {
	globalManager.workerJobs.Inc()
	globalManager.workerDuration.Observe(durationMs)
}

// RecordWorkerError counts a failed refresh job.
func RecordWorkerError() { globalManager.workerErrors.Inc() }

// HTTP.

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string, durationMs float64) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(durationMs)
}

// Errors.

// RecordErrorByComponent records an error with component and type labels.
func RecordErrorByComponent(component, errorType string) {
	globalManager.errorsByComponent.WithLabelValues(component, errorType).Inc()
}

// RecordErrorByType records an error with type and severity labels.
func RecordErrorByType(errorType, severity string) {
	globalManager.errorsByType.WithLabelValues(errorType, severity).Inc()
}

// System.

// UpdateSystemMemoryUsage sets the heap bytes in use.
func UpdateSystemMemoryUsage(bytes uint64) { globalManager.systemMemoryUsage.Set(float64(bytes)) }

// UpdateSystemGoroutineCount sets the number of goroutines.
func UpdateSystemGoroutineCount(count int) { globalManager.systemGoroutineCount.Set(float64(count)) }

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
