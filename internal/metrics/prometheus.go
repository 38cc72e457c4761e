package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus metrics for the pick'em service

var (
	// Schedule feed metrics
	FeedCallsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pickem_feed_calls_total",
			Help: "Total number of schedule feed calls",
		},
		[]string{"operation", "status"},
	)

	FeedCallDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "pickem_feed_call_duration_seconds",
			Help:    "Duration of schedule feed calls in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"},
	)

	// Database metrics
	DBQueriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pickem_db_queries_total",
			Help: "Total number of database queries",
		},
		[]string{"operation", "table", "status"},
	)

	DBQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "pickem_db_query_duration_seconds",
			Help:    "Duration of database queries in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation", "table"},
	)

	// Cache metrics
	CacheHitsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "pickem_cache_hits_total",
			Help: "Total number of cache hits",
		},
	)

	CacheMissesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "pickem_cache_misses_total",
			Help: "Total number of cache misses",
		},
	)

	CacheOperationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "pickem_cache_operation_duration_seconds",
			Help:    "Duration of cache operations in seconds",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
		},
		[]string{"operation"},
	)

	// Game metrics
	SubmissionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pickem_submissions_total",
			Help: "Total number of pick submissions",
		},
		[]string{"status"},
	)

	LeaderboardsComputed = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "pickem_leaderboards_computed_total",
			Help: "Total number of leaderboard computations",
		},
	)

	// Notification metrics
	NotificationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pickem_notifications_total",
			Help: "Total number of SMS notifications requested",
		},
		[]string{"kind", "status"},
	)

	// Error metrics
	ErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pickem_errors_total",
			Help: "Total number of errors",
		},
		[]string{"component", "error_type"},
	)

	// System metrics
	SystemUptime = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "pickem_system_uptime_seconds",
			Help: "System uptime in seconds",
		},
	)
)

// RecordFeedCall records a schedule feed call metric
func RecordFeedCall(operation, status string, duration float64) {
	FeedCallsTotal.WithLabelValues(operation, status).Inc()
	FeedCallDuration.WithLabelValues(operation).Observe(duration)
}

// RecordDBQuery records a database query metric
func RecordDBQuery(operation, table, status string, duration float64) {
	DBQueriesTotal.WithLabelValues(operation, table, status).Inc()
	DBQueryDuration.WithLabelValues(operation, table).Observe(duration)
}

// RecordCacheHit records a cache hit
func RecordCacheHit() {
	CacheHitsTotal.Inc()
}

// RecordCacheMiss records a cache miss
func RecordCacheMiss() {
	CacheMissesTotal.Inc()
}

// RecordCacheOperation records a cache operation duration
func RecordCacheOperation(operation string, duration float64) {
	CacheOperationDuration.WithLabelValues(operation).Observe(duration)
}

// RecordSubmission records a pick submission attempt
func RecordSubmission(status string) {
	SubmissionsTotal.WithLabelValues(status).Inc()
}

// RecordLeaderboard records a leaderboard computation
func RecordLeaderboard() {
	LeaderboardsComputed.Inc()
}

// RecordNotification records an SMS notification request
func RecordNotification(kind, status string) {
	NotificationsTotal.WithLabelValues(kind, status).Inc()
}

// RecordError records an error
func RecordError(component, errorType string) {
	ErrorsTotal.WithLabelValues(component, errorType).Inc()
}
