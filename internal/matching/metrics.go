package matching

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// FindMatchesDuration tracks how long a full matching pass takes.
	FindMatchesDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "storylift",
			Subsystem: "matching",
			Name:      "find_matches_duration_seconds",
			Help:      "Duration of matching passes in seconds",
			Buckets:   prometheus.DefBuckets,
		},
	)

	// DegradedResults counts matching passes that returned empty because a dependency failed.
	DegradedResults = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "storylift",
			Subsystem: "matching",
			Name:      "degraded_results_total",
			Help:      "Total number of matching passes degraded to an empty result",
		},
	)

	// MappingOperations counts map and unmap calls.
	// Labels: operation (map, unmap), result (success, error)
	MappingOperations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "storylift",
			Subsystem: "matching",
			Name:      "mapping_operations_total",
			Help:      "Total number of mapping operations",
		},
		[]string{"operation", "result"},
	)
)
