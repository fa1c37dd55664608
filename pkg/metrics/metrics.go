// Package metrics exposes the service's Prometheus instrumentation.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Queries counts resolved queries by the shape of their filters
	// (global, year, prefix, year_prefix).
	Queries = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "nombres_queries_total",
		Help: "Total resolved queries by filter shape",
	}, []string{"shape"})

	// CacheHits counts first tokens answered from the classification cache.
	CacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "nombres_classifier_cache_hits_total",
		Help: "First tokens answered from the classification cache",
	})

	// CacheMisses counts first tokens that required an external lookup.
	CacheMisses = promauto.NewCounter(prometheus.CounterOpts{
		Name: "nombres_classifier_cache_misses_total",
		Help: "First tokens missing from the classification cache",
	})

	// ClassifierRequests counts batch calls to the external gender service
	// by outcome (ok, error).
	ClassifierRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "nombres_classifier_requests_total",
		Help: "Batch requests to the external gender service by outcome",
	}, []string{"outcome"})

	// ClassifierDuration observes external batch call latency.
	ClassifierDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "nombres_classifier_request_seconds",
		Help:    "Latency of external gender service batch calls",
		Buckets: prometheus.DefBuckets,
	})
)
