package embeddings

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// CacheHits counts EmbedCached calls served from the cache.
	CacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "storylift",
			Subsystem: "embeddings",
			Name:      "cache_hits_total",
			Help:      "Total number of embedding cache hits",
		},
	)

	// CacheMisses counts EmbedCached calls that had to compute a vector.
	CacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "storylift",
			Subsystem: "embeddings",
			Name:      "cache_misses_total",
			Help:      "Total number of embedding cache misses",
		},
	)

	// CacheEvictions counts entries dropped because the cache was full.
	CacheEvictions = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "storylift",
			Subsystem: "embeddings",
			Name:      "cache_evictions_total",
			Help:      "Total number of embeddings evicted by capacity",
		},
	)

	// GenerationDuration tracks provider latency per embedding.
	GenerationDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "storylift",
			Subsystem: "embeddings",
			Name:      "generation_duration_seconds",
			Help:      "Duration of embedding generation in seconds",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0},
		},
	)

	// GenerationErrors counts failures by stage.
	// Labels: stage (load, embed)
	GenerationErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "storylift",
			Subsystem: "embeddings",
			Name:      "errors_total",
			Help:      "Total embedding errors by stage",
		},
		[]string{"stage"},
	)
)
