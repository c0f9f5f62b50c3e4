// Package metrics declares the domain Prometheus collectors. They register
// with the default registry, which the /metrics route serves.
package metrics

import (
	"database/sql"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "lofreports"

var (
	// ReportsSubmitted counts accepted submissions by report kind.
	ReportsSubmitted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "reports",
			Name:      "submitted_total",
			Help:      "Total number of accepted report submissions",
		},
		[]string{"kind"},
	)

	// ReportsArchived counts reports moved out of live state by year-end archival.
	ReportsArchived = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "reports",
			Name:      "archived_total",
			Help:      "Total number of reports removed by year-end archival",
		},
		[]string{"kind"},
	)

	// PersistenceFailures counts state document saves that failed.
	PersistenceFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "state",
			Name:      "save_failures_total",
			Help:      "Total number of failed state document saves",
		},
	)

	// AggregationDuration observes roll-up computation time per level.
	AggregationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "aggregation",
			Name:      "duration_seconds",
			Help:      "Aggregation duration in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"level"},
	)

	// NarrativeRequests counts narrative summary calls by outcome.
	NarrativeRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "narrative",
			Name:      "requests_total",
			Help:      "Total number of narrative summary requests",
		},
		[]string{"status"},
	)

	// DBConnPoolStats mirrors database/sql pool statistics.
	DBConnPoolStats = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "db",
			Name:      "connection_pool",
			Help:      "Database connection pool statistics",
		},
		[]string{"stat"},
	)
)

// RecordPoolStats copies sql.DBStats into DBConnPoolStats.
func RecordPoolStats(stats sql.DBStats) {
	DBConnPoolStats.WithLabelValues("open").Set(float64(stats.OpenConnections))
	DBConnPoolStats.WithLabelValues("in_use").Set(float64(stats.InUse))
	DBConnPoolStats.WithLabelValues("idle").Set(float64(stats.Idle))
	DBConnPoolStats.WithLabelValues("wait_count").Set(float64(stats.WaitCount))
}
