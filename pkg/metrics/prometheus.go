// Package metrics provides Prometheus metrics for the promille engine.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Manager owns all Prometheus instruments for the service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	registry         prometheus.Registerer

	// Business metrics
	drinksLogged       prometheus.Counter
	drinksBackfilled   prometheus.Counter
	drinksUndone       prometheus.Counter
	milestonesDetected prometheus.Counter
	rankingBuilds      prometheus.Counter
	rankingLatency     prometheus.Histogram

	// Store metrics
	storeEvents     prometheus.Gauge
	storeUsers      prometheus.Gauge
	storeShardCount prometheus.Gauge
	storeOpLatency  prometheus.Histogram

	// Announcement pipeline metrics
	queueSize          prometheus.Gauge
	queueCapacity      prometheus.Gauge
	queueUtilization   prometheus.Gauge
	queueEnqueues      prometheus.Counter
	queueEnqueueErrors prometheus.Counter
	announcementsSent  prometheus.Counter
	announcementErrors prometheus.Counter
	workerCount        prometheus.Gauge
}

// Global metrics manager on a custom registry, so the default Go collector
// noise stays out of the scrape.
var (
	customRegistry = prometheus.NewRegistry()                           //nolint:gochecknoglobals // singleton metrics registry
	globalManager  = NewManager(WithPrometheusRegistry(customRegistry)) //nolint:gochecknoglobals // singleton metrics manager
)

// NewManager creates a metrics manager and registers its instruments.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "blakkis",
		subsystem:        "engine",
		histogramBuckets: prometheus.DefBuckets,
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

	m.drinksLogged = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "drinks_logged_total",
		Help:      "Total number of drinks logged live",
	})
	m.drinksBackfilled = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "drinks_backfilled_total",
		Help:      "Total number of drinks inserted by the retroactive planner",
	})
	m.drinksUndone = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "drinks_undone_total",
		Help:      "Total number of most-recent-drink undo operations",
	})
	m.milestonesDetected = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "milestones_detected_total",
		Help:      "Total number of group drink-count milestones crossed",
	})
	m.rankingBuilds = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "ranking_builds_total",
		Help:      "Total number of group leaderboard computations",
	})
	m.rankingLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "ranking_build_latency_milliseconds",
		Help:      "Group leaderboard build latency in milliseconds",
		Buckets:   m.histogramBuckets,
	})

	m.storeEvents = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "store_events",
		Help:      "Current number of drink events held by the store",
	})
	m.storeUsers = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "store_users",
		Help:      "Current number of users with at least one stored event",
	})
	m.storeShardCount = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "store_shard_count",
		Help:      "Number of shards in the event store",
	})
	m.storeOpLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "store_operation_latency_milliseconds",
		Help:      "Event store operation latency in milliseconds",
		Buckets:   m.histogramBuckets,
	})

	m.queueSize = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "announce_queue_size",
		Help:      "Current size of the announcement queue",
	})
	m.queueCapacity = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "announce_queue_capacity",
		Help:      "Maximum announcement queue capacity",
	})
	m.queueUtilization = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "announce_queue_utilization_ratio",
		Help:      "Announcement queue utilization (size / capacity)",
	})
	m.queueEnqueues = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "announce_enqueue_total",
		Help:      "Total number of announcements enqueued",
	})
	m.queueEnqueueErrors = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "announce_enqueue_errors_total",
		Help:      "Total number of announcement enqueue failures",
	})
	m.announcementsSent = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "announcements_sent_total",
		Help:      "Total number of milestone announcements delivered",
	})
	m.announcementErrors = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "announcement_errors_total",
		Help:      "Total number of failed announcement deliveries",
	})
	m.workerCount = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "announce_worker_count",
		Help:      "Number of announcement workers",
	})
}

// GetRegistry returns the gatherer backing the global manager, for scraping.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}

// Handler returns an HTTP handler serving the global registry.
func Handler() http.Handler {
	return promhttp.HandlerFor(customRegistry, promhttp.HandlerOpts{})
}

// Package-level helpers for the global manager.

func RecordDrinkLogged() { globalManager.drinksLogged.Inc() }
func RecordDrinkBackfilled() { globalManager.drinksBackfilled.Inc() }
func RecordDrinkUndone() { globalManager.drinksUndone.Inc() }
func RecordMilestone() { globalManager.milestonesDetected.Inc() }
func RecordRankingBuild() { globalManager.rankingBuilds.Inc() }
func RecordAnnouncementSent() { globalManager.announcementsSent.Inc() }

func RecordRankingLatency(latencyMs float64) { globalManager.rankingLatency.Observe(latencyMs) }
func RecordStoreOpLatency(latencyMs float64) { globalManager.storeOpLatency.Observe(latencyMs) }

func RecordQueueEnqueue() { globalManager.queueEnqueues.Inc() }
func RecordQueueEnqueueError() { globalManager.queueEnqueueErrors.Inc() }
func RecordAnnouncementError() { globalManager.announcementErrors.Inc() }

func UpdateStoreEvents(count int) { globalManager.storeEvents.Set(float64(count)) }
func UpdateStoreUsers(count int) { globalManager.storeUsers.Set(float64(count)) }
func UpdateStoreShardCount(count int) { globalManager.storeShardCount.Set(float64(count)) }

func UpdateQueueSize(size int) { globalManager.queueSize.Set(float64(size)) }
func UpdateQueueCapacity(capacity int) { globalManager.queueCapacity.Set(float64(capacity)) }
func UpdateQueueUtilization(ratio float64) { globalManager.queueUtilization.Set(ratio) }
func UpdateWorkerCount(count int) { globalManager.workerCount.Set(float64(count)) }
