// Package metrics provides Prometheus metrics for the sinfonia staffing service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager manages all Prometheus metrics for the sinfonia service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	registry         prometheus.Registerer

	// Staffing metrics
	contractsCreated prometheus.Counter
	hireSpend        prometheus.Counter
	songHires        *prometheus.CounterVec
	trainings        *prometheus.CounterVec
	contractRemovals prometheus.Counter

	// Session metrics
	activeSessions prometheus.Gauge
	sessionsOpened prometheus.Counter
	sessionLatency prometheus.Histogram

	// Solver metrics
	solverLatency       prometheus.Histogram
	solverErrors        prometheus.Counter
	solverJobs          *prometheus.CounterVec
	solverQueueSize     prometheus.Gauge
	solverQueueRejected *prometheus.CounterVec
	solverWorkers       prometheus.Gauge

	// HTTP metrics
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Error metrics
	errorRateByComponent *prometheus.CounterVec
	errorRateByType      *prometheus.CounterVec
	errorRateByEndpoint  *prometheus.CounterVec

	// System metrics
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
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
		namespace:        "sinfonia",
		subsystem:        "staffing",
		histogramBuckets: prometheus.DefBuckets,
		registry:         prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

func (m *Manager) initializeMetrics() { //nolint:funlen // one place for every metric
	auto := promauto.With(m.registry)

	m.contractsCreated = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "contracts_created_total",
		Help:      "Total number of contracts created by hiring",
	})

	m.hireSpend = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "hire_spend_total",
		Help:      "Sum of prices paid over all created contracts",
	})

	m.songHires = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "song_hires_total",
			Help:      "Per-song hiring outcomes (complete, failed, skipped)",
		},
		[]string{"outcome"},
	)

	m.trainings = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "trainings_total",
			Help:      "Training attempts by outcome",
		},
		[]string{"outcome"},
	)

	m.contractRemovals = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "contract_removals_total",
		Help:      "Total number of contracts removed",
	})

	m.activeSessions = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "active_sessions",
		Help:      "Number of open staffing sessions",
	})

	m.sessionsOpened = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "sessions_opened_total",
		Help:      "Total number of sessions opened",
	})

	m.sessionLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "session_operation_latency_milliseconds",
		Help:      "Time spent holding a session, lock wait included",
		Buckets:   m.histogramBuckets,
	})

	m.solverLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "solver_latency_milliseconds",
		Help:      "Training solver evaluation latency in milliseconds",
		Buckets:   m.histogramBuckets,
	})

	m.solverErrors = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "solver_errors_total",
		Help:      "Total number of training solver failures",
	})

	m.solverJobs = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "solver_jobs_total",
			Help:      "Solver jobs handled by the worker pool by outcome",
		},
		[]string{"outcome"},
	)

	m.solverQueueSize = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "solver_queue_size",
		Help:      "Solver jobs waiting for a worker",
	})

	m.solverQueueRejected = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "solver_queue_rejected_total",
			Help:      "Solver jobs refused by the queue by reason",
		},
		[]string{"reason"},
	)

	m.solverWorkers = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "solver_workers",
		Help:      "Number of running solver workers",
	})

	m.httpRequests = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests by endpoint and method",
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

	m.errorRateByComponent = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "errors_by_component_total",
			Help:      "Errors by component and type",
		},
		[]string{"component", "error_type"},
	)

	m.errorRateByType = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "errors_by_type_total",
			Help:      "Errors by type and severity",
		},
		[]string{"error_type", "severity"},
	)

	m.errorRateByEndpoint = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "errors_by_endpoint_total",
			Help:      "Errors by HTTP endpoint",
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
}

// Song hiring outcomes.
const (
	OutcomeComplete = "complete"
	OutcomeFailed   = "failed"
	OutcomeSkipped  = "skipped"
)

// RecordContractCreated counts one contract and adds its price to the spend.
func RecordContractCreated(price float64) {
	globalManager.contractsCreated.Inc()
	globalManager.hireSpend.Add(price)
}

// RecordSongHire counts one per-song hiring outcome.
func RecordSongHire(outcome string) {
	globalManager.songHires.WithLabelValues(outcome).Inc()
}

// RecordSongHires adds n to the given outcome.
func RecordSongHires(outcome string, n int) {
	if n > 0 {
		globalManager.songHires.WithLabelValues(outcome).Add(float64(n))
	}
}

// RecordTraining counts one training attempt.
func RecordTraining(outcome string) {
	globalManager.trainings.WithLabelValues(outcome).Inc()
}

// RecordContractRemovals counts removed contracts.
func RecordContractRemovals(n int) {
	if n > 0 {
		globalManager.contractRemovals.Add(float64(n))
	}
}

// UpdateActiveSessions sets the number of open sessions.
func UpdateActiveSessions(count int) {
	globalManager.activeSessions.Set(float64(count))
}

// RecordSessionOpened increments the opened sessions counter.
func RecordSessionOpened() {
	globalManager.sessionsOpened.Inc()
}

// RecordSessionLatency records how long a session was held in milliseconds.
func RecordSessionLatency(latencyMs float64) {
	globalManager.sessionLatency.Observe(latencyMs)
}

// RecordSolverLatency records solver latency in milliseconds.
func RecordSolverLatency(latencyMs float64) {
	globalManager.solverLatency.Observe(latencyMs)
}

// RecordSolverError increments the solver errors counter.
func RecordSolverError() {
	globalManager.solverErrors.Inc()
}

// RecordSolverJob counts one pooled solver job by outcome.
func RecordSolverJob(outcome string) {
	globalManager.solverJobs.WithLabelValues(outcome).Inc()
}

// UpdateSolverQueueSize sets the number of waiting solver jobs.
func UpdateSolverQueueSize(size int) {
	globalManager.solverQueueSize.Set(float64(size))
}

// RecordSolverQueueRejected counts a refused solver job.
func RecordSolverQueueRejected(reason string) {
	globalManager.solverQueueRejected.WithLabelValues(reason).Inc()
}

// UpdateSolverWorkers sets the number of running solver workers.
func UpdateSolverWorkers(count int) {
	globalManager.solverWorkers.Set(float64(count))
}

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// RecordErrorByComponent records an error by component and type.
func RecordErrorByComponent(component, errorType string) {
	globalManager.errorRateByComponent.WithLabelValues(component, errorType).Inc()
}

// RecordErrorByType records an error by type and severity.
func RecordErrorByType(errorType, severity string) {
	globalManager.errorRateByType.WithLabelValues(errorType, severity).Inc()
}

// RecordErrorByEndpoint records an error by endpoint.
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

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
