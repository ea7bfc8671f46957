package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RedisErrorRate counts Redis errors by operation type.
	RedisErrorRate = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ronotbroyt_redis_error_rate_total",
		Help: "Total number of Redis errors by operation type",
	}, []string{"operation"})

	// DatabaseQueryLatency records database query latency by operation and table.
	DatabaseQueryLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "ronotbroyt_database_query_latency_seconds",
		Help:    "Database query latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation", "table"})

	// ModerationChecksTotal counts moderation verdicts by outcome
	// (passed, rejected, unavailable).
	ModerationChecksTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ronotbroyt_moderation_checks_total",
		Help: "Total moderation checks by outcome",
	}, []string{"outcome"})

	// ModerationLatency records outbound moderation call latency.
	ModerationLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "ronotbroyt_moderation_latency_seconds",
		Help:    "Moderation service call latency in seconds",
		Buckets: prometheus.DefBuckets,
	})

	// CascadeDeletesTotal counts post deletions that cascaded to comments.
	CascadeDeletesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ronotbroyt_cascade_deletes_total",
		Help: "Total cascading post deletions by post kind",
	}, []string{"kind"})
)

// TrackQuery returns a function that records query latency when called (e.g. defer).
func TrackQuery(operation, table string) func() {
	start := time.Now()
	return func() {
		DatabaseQueryLatency.WithLabelValues(operation, table).Observe(time.Since(start).Seconds())
	}
}

// ObserveModeration records one moderation call outcome and its latency.
func ObserveModeration(outcome string, start time.Time) {
	ModerationChecksTotal.WithLabelValues(outcome).Inc()
	ModerationLatency.Observe(time.Since(start).Seconds())
}
