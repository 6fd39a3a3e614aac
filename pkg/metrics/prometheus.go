// Package metrics provides Prometheus metrics for the stride motion editing service.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Default metrics configuration constants.
const (
	defaultRefreshInterval = 10 * time.Second
)

// Manager manages all Prometheus metrics for the stride service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	iterationBuckets []float64
	enabled          bool
	refreshInterval  time.Duration
	registry         prometheus.Registerer

	// Motion operations
	operationsTotal   *prometheus.CounterVec
	operationDuration *prometheus.HistogramVec
	framesProcessed   *prometheus.CounterVec

	// Solver quality
	fabrikIterations prometheus.Histogram
	contactRuns      *prometheus.CounterVec

	// Store
	clipsStored       prometheus.Gauge
	storeLatency      *prometheus.HistogramVec
	errorsByComponent *prometheus.CounterVec

	// Worker pool
	workerCount        prometheus.Gauge
	workerTasks        *prometheus.CounterVec
	workerErrors       *prometheus.CounterVec
	workerBatchLatency *prometheus.HistogramVec

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	errorRateByEndpoint *prometheus.CounterVec

	// System
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
	systemGCPauseTime    prometheus.Histogram
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "stride",
		subsystem:        "motion",
		histogramBuckets: prometheus.DefBuckets,
		iterationBuckets: []float64{0, 1, 2, 3, 5, 8, 12, 20, 50},
		enabled:          true,
		refreshInterval:  defaultRefreshInterval,
		registry:         prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()

	return m
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() { //nolint:funlen // long function required for comprehensive metrics initialization
	auto := promauto.With(m.registry)

	m.operationsTotal = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "operations_total",
			Help:      "Total number of motion operations by operation and status",
		},
		[]string{"operation", "status"},
	)

	m.operationDuration = auto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "operation_duration_milliseconds",
			Help:      "Motion operation latency in milliseconds",
			Buckets:   m.histogramBuckets,
		},
		[]string{"operation"},
	)

	m.framesProcessed = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "frames_processed_total",
			Help:      "Total number of frames produced by motion operations",
		},
		[]string{"operation"},
	)

	m.fabrikIterations = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "fabrik_iterations",
		Help:      "FABRIK iterations needed per leg solve",
		Buckets:   m.iterationBuckets,
	})

	m.contactRuns = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "contact_runs_total",
			Help:      "Total number of detected foot contact runs",
		},
		[]string{"foot"},
	)

	m.clipsStored = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "clips_stored",
		Help:      "Number of clips currently held by the clip store",
	})

	m.workerCount = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "worker_count",
		Help:      "Configured fork-join worker limit",
	})

	m.workerTasks = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "worker_tasks_total",
			Help:      "Total number of tasks executed by worker pools",
		},
		[]string{"pool"},
	)

	m.storeLatency = auto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "store_latency_milliseconds",
			Help:      "Clip store call latency in milliseconds",
			Buckets:   m.histogramBuckets,
		},
		[]string{"call"},
	)

	m.errorsByComponent = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "errors_by_component_total",
			Help:      "Total number of errors by component and error type",
		},
		[]string{"component", "error_type"},
	)

	m.workerErrors = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "worker_errors_total",
			Help:      "Total number of failed worker batches",
		},
		[]string{"pool"},
	)

	m.workerBatchLatency = auto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "worker_batch_latency_milliseconds",
			Help:      "Fork-join batch latency in milliseconds",
			Buckets:   m.histogramBuckets,
		},
		[]string{"pool"},
	)

	m.httpRequests = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"endpoint", "method", "status_code"},
	)

	m.httpRequestDuration = auto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "http_request_duration_milliseconds",
			Help:      "HTTP request duration in milliseconds",
			Buckets:   m.histogramBuckets,
		},
		[]string{"endpoint", "method", "status_code"},
	)

	m.errorRateByEndpoint = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "errors_by_endpoint_total",
			Help:      "Total number of errors by endpoint",
		},
		[]string{"endpoint", "method", "error_type"},
	)

	m.systemMemoryUsage = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "system_memory_usage_bytes",
		Help:      "System memory usage in bytes",
	})

	m.systemGoroutineCount = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "system_goroutine_count",
		Help:      "Number of goroutines",
	})

	m.systemGCPauseTime = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "system_gc_pause_time_milliseconds",
		Help:      "GC pause time in milliseconds",
		Buckets:   []float64{0.1, 0.5, 1, 2, 5, 10, 25, 50, 100, 250, 500, 1000},
	})
}

// RecordOperation counts a finished operation with its status ("ok" or "error").
func RecordOperation(operation, status string) {
	if !globalManager.enabled {
		return
	}
	globalManager.operationsTotal.WithLabelValues(operation, status).Inc()
}

// RecordOperationDuration records operation latency in milliseconds.
func RecordOperationDuration(operation string, latencyMs float64) {
	if !globalManager.enabled {
		return
	}
	globalManager.operationDuration.WithLabelValues(operation).Observe(latencyMs)
}

// RecordFramesProcessed adds frames produced by an operation.
func RecordFramesProcessed(operation string, frames int) {
	if !globalManager.enabled || frames <= 0 {
		return
	}
	globalManager.framesProcessed.WithLabelValues(operation).Add(float64(frames))
}

// RecordFabrikIterations observes the iteration count of one leg solve.
func RecordFabrikIterations(iterations int) {
	globalManager.fabrikIterations.Observe(float64(iterations))
}

// RecordContactRuns adds detected contact runs for a foot.
func RecordContactRuns(foot string, runs int) {
	globalManager.contactRuns.WithLabelValues(foot).Add(float64(runs))
}

// UpdateClipsStored sets the number of stored clips.
func UpdateClipsStored(count int) {
	globalManager.clipsStored.Set(float64(count))
}

// RecordStoreLatency records the latency of a clip store call.
func RecordStoreLatency(call string, latencyMs float64) {
	globalManager.storeLatency.WithLabelValues(call).Observe(latencyMs)
}

// RecordErrorByComponent records an error with component and error type labels.
func RecordErrorByComponent(component, errorType string) {
	globalManager.errorsByComponent.WithLabelValues(component, errorType).Inc()
}

// UpdateWorkerCount sets the current worker limit.
func UpdateWorkerCount(count int) {
	globalManager.workerCount.Set(float64(count))
}

// RecordWorkerBatch records a completed fork-join batch.
func RecordWorkerBatch(pool string, tasks int, latencyMs float64) {
	globalManager.workerTasks.WithLabelValues(pool).Add(float64(tasks))
	globalManager.workerBatchLatency.WithLabelValues(pool).Observe(latencyMs)
}

// RecordWorkerError increments the worker error counter.
func RecordWorkerError(pool string) {
	globalManager.workerErrors.WithLabelValues(pool).Inc()
}

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// RecordErrorByEndpoint records an error with endpoint, method, and error type labels.
func RecordErrorByEndpoint(endpoint, method, errorType string) {
	globalManager.errorRateByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
}

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

// RefreshInterval returns how often gauge updaters should run.
func RefreshInterval() time.Duration {
	return globalManager.refreshInterval
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
