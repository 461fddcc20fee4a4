// api/cache/metrics.go

package cache

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	requestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "harvest_cache_requests_total",
		Help: "Cache lookups by result (hit: fresh entry, miss: started a fetch, join: waited on a running fetch)",
	}, []string{"cache", "result"})
	fetchesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "harvest_cache_fetches_total",
		Help: "Upstream fetches started by the cache, by outcome",
	}, []string{"cache", "outcome"})
	fetchDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name: "harvest_cache_fetch_duration_seconds",
		Help: "Upstream fetch time",
		// 12 buckets from 5ms to 10s.
		Buckets: prometheus.ExponentialBucketsRange(0.005, 10, 12),
	}, []string{"cache"})
)
