package discovery

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Custom Prometheus metrics for the discovery pipeline. Registered once
// at package load; the /metrics endpoint exposes them alongside the
// per-route HTTP metrics.
var (
	recommendationRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "lyricverse_recommendations_total",
		Help: "Total personalized recommendation requests by serving algorithm",
	}, []string{"variant"})

	cacheHits = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "lyricverse_discovery_cache_hits_total",
		Help: "Recommendation cache hits by list type",
	}, []string{"list"})

	cacheMisses = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "lyricverse_discovery_cache_misses_total",
		Help: "Recommendation cache misses by list type",
	}, []string{"list"})
)
