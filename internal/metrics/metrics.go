// Package metrics holds the Prometheus instrumentation for the lookup path.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics groups the counters the orchestration layer increments.
type Metrics struct {
	Lookups     *prometheus.CounterVec // platform, op, outcome
	CacheHits   prometheus.Counter
	CacheMisses prometheus.Counter
	Fallbacks   *prometheus.CounterVec // platform, op
	RateLimited prometheus.Counter
}

func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		Lookups: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "creatorscout_lookups_total",
			Help: "Lookup requests by platform, operation, and outcome.",
		}, []string{"platform", "op", "outcome"}),
		CacheHits: factory.NewCounter(prometheus.CounterOpts{
			Name: "creatorscout_cache_hits_total",
			Help: "Lookups served from the local cache.",
		}),
		CacheMisses: factory.NewCounter(prometheus.CounterOpts{
			Name: "creatorscout_cache_misses_total",
			Help: "Lookups that had to consult a provider.",
		}),
		Fallbacks: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "creatorscout_fallbacks_total",
			Help: "Lookups answered by the generative provider after an authoritative failure.",
		}, []string{"platform", "op"}),
		RateLimited: factory.NewCounter(prometheus.CounterOpts{
			Name: "creatorscout_rate_limited_total",
			Help: "Requests denied by the per-client rate limiter.",
		}),
	}
}
