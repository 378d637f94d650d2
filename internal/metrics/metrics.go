// Package metrics defines the Prometheus instrumentation for the search
// pipeline and the category cache.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// SearchesTotal counts dispatcher invocations by outcome
	// (success, empty, error).
	SearchesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "tubeseek",
		Name:      "searches_total",
		Help:      "Total number of search pipeline invocations by outcome.",
	}, []string{"outcome"})

	// SearchDuration observes end-to-end pipeline latency.
	SearchDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "tubeseek",
		Name:      "search_duration_seconds",
		Help:      "End-to-end search pipeline duration in seconds.",
		Buckets:   prometheus.DefBuckets,
	})

	// CategoryCacheHits counts category requests served from the day-cache.
	CategoryCacheHits = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "tubeseek",
		Name:      "category_cache_hits_total",
		Help:      "Category requests served from the shared day-cache.",
	}, []string{"category"})

	// CategoryCacheMisses counts category requests that required a refresh.
	CategoryCacheMisses = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "tubeseek",
		Name:      "category_cache_misses_total",
		Help:      "Category requests that fell through to the dispatcher.",
	}, []string{"category"})

	// CacheStoreErrors counts swallowed category cache store failures.
	CacheStoreErrors = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "tubeseek",
		Name:      "category_cache_store_errors_total",
		Help:      "Category cache store read/write failures (non-fatal).",
	})

	// UpstreamErrors counts failed calls to external collaborators.
	UpstreamErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "tubeseek",
		Name:      "upstream_errors_total",
		Help:      "Failed calls to external collaborators by target.",
	}, []string{"target"})
)
