package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"gorm.io/gorm"
)

var (
	// RedisErrors counts Redis errors by operation type.
	RedisErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bondtree_redis_error_total",
		Help: "Total number of Redis errors by operation type",
	}, []string{"operation"})

	// DatabaseQueryLatency records database query latency by operation and table.
	DatabaseQueryLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "bondtree_database_query_latency_seconds",
		Help:    "Database query latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation", "table"})

	// PasscodeVerifications counts passcode verification attempts by result
	// (ok, wrong_code, invalid_format).
	PasscodeVerifications = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bondtree_passcode_verifications_total",
		Help: "Total passcode verification attempts by result",
	}, []string{"result"})

	// FriendRequestTransitions counts friend request state transitions
	// (sent, accepted, rejected, removed).
	FriendRequestTransitions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bondtree_friend_request_transitions_total",
		Help: "Total friend request state transitions",
	}, []string{"transition"})

	// MediaCleanupFailures counts best-effort blob deletions that failed.
	MediaCleanupFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "bondtree_media_cleanup_failures_total",
		Help: "Total media blob deletions that failed (logged, non-fatal)",
	})

	// WebSocketConnectionsTotal is the gauge of active WebSocket connections.
	WebSocketConnectionsTotal = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "bondtree_websocket_connections_total",
		Help: "Total number of active WebSocket connections",
	})

	// WebSocketBackpressureDrops counts messages dropped because a client's
	// send buffer was full or closed.
	WebSocketBackpressureDrops = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bondtree_websocket_backpressure_drops_total",
		Help: "Total websocket messages dropped due to backpressure",
	}, []string{"hub", "reason"})

	// EventsPublished counts notification events published by type.
	EventsPublished = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bondtree_events_published_total",
		Help: "Total notification events published by type",
	}, []string{"event_type"})
)

// DatabaseMetrics wraps DB access for recording query latency.
type DatabaseMetrics struct {
	db *gorm.DB
}

// NewDatabaseMetrics returns a new DatabaseMetrics instance.
func NewDatabaseMetrics(db *gorm.DB) *DatabaseMetrics {
	return &DatabaseMetrics{db: db}
}

// ObserveQuery records the latency of a database query.
func (m *DatabaseMetrics) ObserveQuery(operation, table string, start time.Time) {
	latency := time.Since(start).Seconds()
	DatabaseQueryLatency.WithLabelValues(operation, table).Observe(latency)
}

// TrackQuery returns a function that records query latency when called (e.g. defer).
func (m *DatabaseMetrics) TrackQuery(operation, table string) func() {
	start := time.Now()
	return func() {
		m.ObserveQuery(operation, table, start)
	}
}
