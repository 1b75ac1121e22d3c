// Package metrics provides Prometheus metrics for the league service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager owns every Prometheus collector of the league service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	constLabels      prometheus.Labels
	registry         prometheus.Registerer

	// League domain
	standingsComputed  prometheus.Counter
	standingsLatency   prometheus.Histogram
	schedulesGenerated prometheus.Counter
	matchesScheduled   prometheus.Counter
	matchesRecorded    prometheus.Counter
	achievements       prometheus.Counter
	couponsScored      prometheus.Counter
	predictionOutcomes *prometheus.CounterVec
	reconcileRuns      prometheus.Counter
	reconcileFinalized prometheus.Counter

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Storage
	repositoryLatency *prometheus.HistogramVec

	// Recompute jobs
	queueSize     prometheus.Gauge
	queueCapacity prometheus.Gauge
	queueEnqueued prometheus.Counter
	queueDequeued prometheus.Counter
	queueErrors   prometheus.Counter
	jobsCoalesced prometheus.Counter
	workerCount   prometheus.Gauge
	workerActive  prometheus.Gauge
	workerLatency *prometheus.HistogramVec
	workerErrors  prometheus.Counter

	// Outbound adapters
	eventsPublished *prometheus.CounterVec
	eventErrors     *prometheus.CounterVec
	boardPublishes  prometheus.Counter
	boardErrors     prometheus.Counter

	// Errors
	errorsByComponent *prometheus.CounterVec
	errorsByEndpoint  *prometheus.CounterVec

	// System
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
}

var globalManager *Manager //nolint:gochecknoglobals // singleton used by the Record helpers

var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // registry served on /metrics

func init() { //nolint:gochecknoinits // global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a metrics manager and registers its collectors.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "fcleague",
		subsystem:        "league",
		histogramBuckets: []float64{0.5, 1, 2.5, 5, 10, 25, 50, 100, 250, 500, 1000},
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
		ConstLabels: m.constLabels, Buckets: m.histogramBuckets,
	})
}

func (m *Manager) histogramVec(name, help string, labels ...string) *prometheus.HistogramVec {
	return promauto.With(m.registry).NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help,
		ConstLabels: m.constLabels, Buckets: m.histogramBuckets,
	}, labels)
}

func (m *Manager) initializeMetrics() {
	m.standingsComputed = m.counter("standings_computed_total", "Total number of standings tables computed")
	m.standingsLatency = m.histogram("standings_latency_milliseconds", "Standings load and compute latency in milliseconds")
	m.schedulesGenerated = m.counter("schedules_generated_total", "Total number of round-robin schedules generated")
	m.matchesScheduled = m.counter("matches_scheduled_total", "Total number of matches produced by the schedule generator")
	m.matchesRecorded = m.counter("matches_recorded_total", "Total number of match results recorded")
	m.achievements = m.counter("achievements_derived_total", "Total number of achievements derived")
	m.couponsScored = m.counter("coupons_scored_total", "Total number of coupons scored")
	m.predictionOutcomes = m.counterVec("prediction_outcomes_total", "Scored predictions by type and outcome", "type", "outcome")
	m.reconcileRuns = m.counter("reconcile_runs_total", "Total number of reconcile sweeps")
	m.reconcileFinalized = m.counter("reconcile_finalized_total", "Tournaments closed by the reconcile sweep")

	m.httpRequests = m.counterVec("http_requests_total", "Total number of HTTP requests by endpoint and method",
		"endpoint", "method", "status_code")
	m.httpRequestDuration = m.histogramVec("http_request_duration_milliseconds", "HTTP request duration in milliseconds",
		"endpoint", "method", "status_code")

	m.repositoryLatency = m.histogramVec("repository_latency_milliseconds", "Store operation latency in milliseconds", "operation")

	m.queueSize = m.gauge("queue_size", "Current number of pending recompute jobs")
	m.queueCapacity = m.gauge("queue_capacity", "Maximum number of pending recompute jobs")
	m.queueEnqueued = m.counter("queue_enqueue_total", "Total number of jobs enqueued")
	m.queueDequeued = m.counter("queue_dequeue_total", "Total number of jobs dequeued")
	m.queueErrors = m.counter("queue_enqueue_errors_total", "Total number of rejected enqueues")
	m.jobsCoalesced = m.counter("jobs_coalesced_total", "Jobs dropped because an identical job was pending")
	m.workerCount = m.gauge("worker_count", "Number of started workers")
	m.workerActive = m.gauge("worker_active_count", "Number of workers running a job")
	m.workerLatency = m.histogramVec("worker_processing_latency_milliseconds", "Job processing latency in milliseconds", "kind")
	m.workerErrors = m.counter("worker_errors_total", "Total number of failed jobs")

	m.eventsPublished = m.counterVec("events_published_total", "Domain events published", "type")
	m.eventErrors = m.counterVec("event_publish_errors_total", "Domain events that failed to publish", "type")
	m.boardPublishes = m.counter("board_publishes_total", "Bettor board snapshots written")
	m.boardErrors = m.counter("board_errors_total", "Bettor board writes that failed")

	m.errorsByComponent = m.counterVec("errors_by_component_total", "Total number of errors by component",
		"component", "error_type")
	m.errorsByEndpoint = m.counterVec("errors_by_endpoint_total", "Total number of errors by endpoint",
		"endpoint", "method", "error_type")

	m.systemMemoryUsage = m.gauge("system_memory_usage_bytes", "Heap memory in use in bytes")
	m.systemGoroutineCount = m.gauge("system_goroutine_count", "Number of goroutines")
}

// RecordStandingsComputed counts a standings computation and its latency.
func RecordStandingsComputed(latencyMs float64) {
	globalManager.standingsComputed.Inc()
	globalManager.standingsLatency.Observe(latencyMs)
}

// RecordScheduleGenerated counts a generated schedule and its matches.
func RecordScheduleGenerated(matches int) {
	globalManager.schedulesGenerated.Inc()
	globalManager.matchesScheduled.Add(float64(matches))
}

// RecordMatchRecorded increments the recorded results counter.
func RecordMatchRecorded() {
	globalManager.matchesRecorded.Inc()
}

// RecordAchievementsDerived adds n derived achievements.
func RecordAchievementsDerived(n int) {
	globalManager.achievements.Add(float64(n))
}

// RecordCouponsScored adds n scored coupons.
func RecordCouponsScored(n int) {
	globalManager.couponsScored.Add(float64(n))
}

// RecordPredictionOutcome counts one scored prediction. Outcome is correct, incorrect or unjudged.
func RecordPredictionOutcome(predictionType, outcome string) {
	globalManager.predictionOutcomes.WithLabelValues(predictionType, outcome).Inc()
}

// RecordReconcileRun counts a reconcile sweep and the tournaments it closed.
func RecordReconcileRun(finalized int) {
	globalManager.reconcileRuns.Inc()
	globalManager.reconcileFinalized.Add(float64(finalized))
}

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// RecordRepositoryLatency records the latency of a store operation.
func RecordRepositoryLatency(operation string, latencyMs float64) {
	globalManager.repositoryLatency.WithLabelValues(operation).Observe(latencyMs)
}

// UpdateQueueSize sets the current queue size.
func UpdateQueueSize(size int) {
	globalManager.queueSize.Set(float64(size))
}

// UpdateQueueCapacity sets the maximum queue capacity.
func UpdateQueueCapacity(capacity int) {
	globalManager.queueCapacity.Set(float64(capacity))
}

// RecordQueueEnqueue increments the enqueue counter.
func RecordQueueEnqueue() {
	globalManager.queueEnqueued.Inc()
}

// RecordQueueDequeue increments the dequeue counter.
func RecordQueueDequeue() {
	globalManager.queueDequeued.Inc()
}

// RecordQueueEnqueueError increments the enqueue error counter.
func RecordQueueEnqueueError() {
	globalManager.queueErrors.Inc()
}

// RecordJobCoalesced increments the coalesced jobs counter.
func RecordJobCoalesced() {
	globalManager.jobsCoalesced.Inc()
}

// UpdateWorkerCount sets the number of started workers.
func UpdateWorkerCount(count int) {
	globalManager.workerCount.Set(float64(count))
}

// UpdateWorkerActiveCount sets the number of busy workers.
func UpdateWorkerActiveCount(count int) {
	globalManager.workerActive.Set(float64(count))
}

// RecordWorkerProcessingLatency records how long a job of kind took.
func RecordWorkerProcessingLatency(kind string, latencyMs float64) {
	globalManager.workerLatency.WithLabelValues(kind).Observe(latencyMs)
}

// RecordWorkerError increments the worker error counter.
func RecordWorkerError() {
	globalManager.workerErrors.Inc()
}

// RecordEventPublished counts a published domain event.
func RecordEventPublished(eventType string) {
	globalManager.eventsPublished.WithLabelValues(eventType).Inc()
}

// RecordEventPublishError counts a domain event that failed to publish.
func RecordEventPublishError(eventType string) {
	globalManager.eventErrors.WithLabelValues(eventType).Inc()
}

// RecordBoardPublish counts a bettor board write.
func RecordBoardPublish() {
	globalManager.boardPublishes.Inc()
}

// RecordBoardError counts a failed bettor board write.
func RecordBoardError() {
	globalManager.boardErrors.Inc()
}

// RecordErrorByComponent records an error with component and type labels.
func RecordErrorByComponent(component, errorType string) {
	globalManager.errorsByComponent.WithLabelValues(component, errorType).Inc()
}

// RecordErrorByEndpoint records an error with endpoint, method, and error type labels.
func RecordErrorByEndpoint(endpoint, method, errorType string) {
	globalManager.errorsByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
}

// UpdateSystemMemoryUsage sets the heap usage in bytes.
func UpdateSystemMemoryUsage(bytes uint64) {
	globalManager.systemMemoryUsage.Set(float64(bytes))
}

// UpdateSystemGoroutineCount sets the number of goroutines.
func UpdateSystemGoroutineCount(count int) {
	globalManager.systemGoroutineCount.Set(float64(count))
}

// GetRegistry returns the registry served on /metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
