// Package metrics provides Prometheus metrics for the kitchen challenge service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager owns every collector exported by the service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	constLabels      prometheus.Labels
	registry         prometheus.Registerer

	// Game
	roundsStarted   prometheus.Counter
	roundsScored    prometheus.Counter
	roundsAbandoned prometheus.Counter
	roundScore      prometheus.Histogram
	activeRounds    prometheus.Gauge

	// AI collaborator
	aiRequests  *prometheus.CounterVec
	aiLatency   *prometheus.HistogramVec
	aiFallbacks *prometheus.CounterVec

	// Leaderboard
	leaderboardUpdates prometheus.Counter
	leaderboardPlayers prometheus.Gauge
	leaderboardLatency *prometheus.HistogramVec
	roundsDuplicate    prometheus.Counter

	// Bulk generation
	queueSize       prometheus.Gauge
	queueCapacity   prometheus.Gauge
	queueEnqueued   prometheus.Counter
	queueRejected   prometheus.Counter
	workerCount     prometheus.Gauge
	workerProcessed *prometheus.CounterVec
	workerLatency   prometheus.Histogram
	bulkRowsWritten prometheus.Counter
	bulkRowsSkipped prometheus.Counter

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Errors
	errorsByComponent *prometheus.CounterVec
	errorsByEndpoint  *prometheus.CounterVec

	// System
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
}

var globalManager *Manager //nolint:gochecknoglobals // singleton metrics manager

// customRegistry keeps default Go collectors out of /healthz.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // metrics registry

func init() { //nolint:gochecknoinits // global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a metrics manager registered on the configured registry.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "kitchen",
		subsystem:        "challenge",
		histogramBuckets: []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000, 10000, 30000},
		registry:         prometheus.DefaultRegisterer,
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

func (m *Manager) gauge(name, help string) prometheus.Gauge {
	return promauto.With(m.registry).NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, ConstLabels: m.constLabels,
	})
}

func (m *Manager) counterVec(name, help string, labels ...string) *prometheus.CounterVec {
	return promauto.With(m.registry).NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, ConstLabels: m.constLabels,
	}, labels)
}

func (m *Manager) histogram(name, help string, buckets []float64) prometheus.Histogram {
	return promauto.With(m.registry).NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, ConstLabels: m.constLabels,
		Buckets: buckets,
	})
}

func (m *Manager) histogramVec(name, help string, labels ...string) *prometheus.HistogramVec {
	return promauto.With(m.registry).NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, ConstLabels: m.constLabels,
		Buckets: m.histogramBuckets,
	}, labels)
}

func (m *Manager) initializeMetrics() {
	m.roundsStarted = m.counter("rounds_started_total", "Rounds whose scenario was generated")
	m.roundsScored = m.counter("rounds_scored_total", "Rounds that reached the scored state")
	m.roundsAbandoned = m.counter("rounds_abandoned_total", "Unfinished rounds discarded by a newer round")
	m.roundScore = m.histogram("round_score", "Distribution of extracted round scores",
		[]float64{0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10})
	m.activeRounds = m.gauge("active_rounds", "Rounds currently held in memory")

	m.aiRequests = m.counterVec("ai_requests_total", "AI generation requests by kind and outcome", "kind", "outcome")
	m.aiLatency = m.histogramVec("ai_latency_milliseconds", "AI generation latency in milliseconds", "kind")
	m.aiFallbacks = m.counterVec("ai_fallbacks_total", "Responses replaced with the fallback message", "kind", "reason")

	m.leaderboardUpdates = m.counter("leaderboard_updates_total", "Leaderboard score increments applied")
	m.leaderboardPlayers = m.gauge("leaderboard_players", "Players present on the leaderboard")
	m.leaderboardLatency = m.histogramVec("leaderboard_latency_milliseconds", "Leaderboard operation latency", "backend", "op")
	m.roundsDuplicate = m.counter("rounds_duplicate_total", "Submissions rejected because the round was already credited")

	m.queueSize = m.gauge("queue_size", "Jobs waiting in the bulk generation queue")
	m.queueCapacity = m.gauge("queue_capacity", "Bulk generation queue capacity")
	m.queueEnqueued = m.counter("queue_enqueued_total", "Jobs accepted by the bulk generation queue")
	m.queueRejected = m.counter("queue_rejected_total", "Jobs rejected by the bulk generation queue")
	m.workerCount = m.gauge("worker_count", "Bulk generation workers running")
	m.workerProcessed = m.counterVec("worker_processed_total", "Jobs processed by workers", "outcome")
	m.workerLatency = m.histogram("worker_latency_milliseconds", "Per-job processing latency", m.histogramBuckets)
	m.bulkRowsWritten = m.counter("bulk_rows_written_total", "Recipe rows written to the bulk CSV")
	m.bulkRowsSkipped = m.counter("bulk_rows_skipped_total", "Recipe responses too short to form a row")

	m.httpRequests = m.counterVec("http_requests_total", "HTTP requests by endpoint, method and status", "endpoint", "method", "status_code")
	m.httpRequestDuration = m.histogramVec("http_request_duration_milliseconds", "HTTP request duration in milliseconds", "endpoint", "method", "status_code")

	m.errorsByComponent = m.counterVec("errors_by_component_total", "Errors by component and type", "component", "error_type")
	m.errorsByEndpoint = m.counterVec("errors_by_endpoint_total", "HTTP errors by endpoint", "endpoint", "method", "error_type")

	m.systemMemoryUsage = m.gauge("system_memory_usage_bytes", "Heap bytes allocated")
	m.systemGoroutineCount = m.gauge("system_goroutine_count", "Number of goroutines")
}

// RecordRoundStarted increments the started rounds counter.
func RecordRoundStarted() { globalManager.roundsStarted.Inc() }

// RecordRoundScored counts a scored round and observes its score.
func RecordRoundScored(score int) {
	globalManager.roundsScored.Inc()
	globalManager.roundScore.Observe(float64(score))
}

// RecordRoundAbandoned counts a round replaced before it was scored.
func RecordRoundAbandoned() { globalManager.roundsAbandoned.Inc() }

// UpdateActiveRounds sets the number of rounds held in memory.
func UpdateActiveRounds(n int) { globalManager.activeRounds.Set(float64(n)) }

// RecordAIRequest records one AI call with its outcome and latency.
func RecordAIRequest(kind, outcome string, latencyMs float64) {
	globalManager.aiRequests.WithLabelValues(kind, outcome).Inc()
	globalManager.aiLatency.WithLabelValues(kind).Observe(latencyMs)
}

// RecordAIFallback counts a fallback substitution.
func RecordAIFallback(kind, reason string) {
	globalManager.aiFallbacks.WithLabelValues(kind, reason).Inc()
}

// RecordLeaderboardUpdate increments the leaderboard updates counter.
func RecordLeaderboardUpdate() { globalManager.leaderboardUpdates.Inc() }

// UpdateLeaderboardPlayers sets the number of players on the board.
func UpdateLeaderboardPlayers(n int) { globalManager.leaderboardPlayers.Set(float64(n)) }

// RecordLeaderboardLatency observes a store operation latency.
func RecordLeaderboardLatency(backend, op string, latencyMs float64) {
	globalManager.leaderboardLatency.WithLabelValues(backend, op).Observe(latencyMs)
}

// RecordRoundDuplicate counts a duplicate credit attempt.
func RecordRoundDuplicate() { globalManager.roundsDuplicate.Inc() }

// UpdateQueueSize sets the bulk queue length.
func UpdateQueueSize(n int) { globalManager.queueSize.Set(float64(n)) }

// UpdateQueueCapacity sets the bulk queue capacity.
func UpdateQueueCapacity(n int) { globalManager.queueCapacity.Set(float64(n)) }

// RecordQueueEnqueue counts an accepted job.
func RecordQueueEnqueue() { globalManager.queueEnqueued.Inc() }

// RecordQueueRejected counts a rejected job.
func RecordQueueRejected() { globalManager.queueRejected.Inc() }

// UpdateWorkerCount sets the number of running workers.
func UpdateWorkerCount(n int) { globalManager.workerCount.Set(float64(n)) }

// RecordWorkerProcessed counts a processed job and observes its latency.
func RecordWorkerProcessed(outcome string, latencyMs float64) {
	globalManager.workerProcessed.WithLabelValues(outcome).Inc()
	globalManager.workerLatency.Observe(latencyMs)
}

// RecordBulkRow counts a bulk CSV row as written or skipped.
func RecordBulkRow(written bool) {
	if written {
		globalManager.bulkRowsWritten.Inc()
		return
	}
	globalManager.bulkRowsSkipped.Inc()
}

// RecordHTTPRequest records an HTTP request and its duration.
func RecordHTTPRequest(endpoint, method, statusCode string, durationMs float64) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(durationMs)
}

// RecordErrorByComponent records an error with component and type labels.
func RecordErrorByComponent(component, errorType string) {
	globalManager.errorsByComponent.WithLabelValues(component, errorType).Inc()
}

// RecordErrorByEndpoint records an HTTP error.
func RecordErrorByEndpoint(endpoint, method, errorType string) {
	globalManager.errorsByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
}

// UpdateSystemMemoryUsage sets heap usage in bytes.
func UpdateSystemMemoryUsage(bytes uint64) { globalManager.systemMemoryUsage.Set(float64(bytes)) }

// UpdateSystemGoroutineCount sets the goroutine count.
func UpdateSystemGoroutineCount(n int) { globalManager.systemGoroutineCount.Set(float64(n)) }

// GetRegistry returns the registry backing /healthz.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
