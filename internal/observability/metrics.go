package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RedisErrors counts failed Redis commands by command name.
	RedisErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "heartline_redis_errors_total",
		Help: "Total number of Redis command errors",
	}, []string{"command"})

	// DatabaseQueryLatency records database query latency by operation.
	DatabaseQueryLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "heartline_database_query_latency_seconds",
		Help:    "Database query latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation"})

	// LikesToggled counts like toggles by resulting action (added, removed).
	LikesToggled = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "heartline_likes_toggled_total",
		Help: "Total number of like toggles",
	}, []string{"action"})

	// PhotosModerated counts moderation decisions (approved, rejected, skipped).
	PhotosModerated = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "heartline_photos_moderated_total",
		Help: "Total number of photo moderation decisions",
	}, []string{"decision"})
)
