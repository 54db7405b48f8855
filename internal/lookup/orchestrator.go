package lookup

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"creatorscout/internal/cache"
	"creatorscout/internal/classify"
	"creatorscout/internal/metrics"
	"creatorscout/internal/ratelimit"
)

// resolver is what the orchestrator delegates cache misses to.
type resolver interface {
	Resolve(ctx context.Context, spec Spec) (any, Source, *classify.ProviderError)
}

// Orchestrator is the per-request entry point: rate check, cache consult,
// chain delegation, cache write-back.
type Orchestrator struct {
	limiter *ratelimit.Limiter
	cache   *cache.Store
	chain   resolver
	log     zerolog.Logger
	met     *metrics.Metrics
}

func NewOrchestrator(limiter *ratelimit.Limiter, store *cache.Store, chain resolver, log zerolog.Logger, met *metrics.Metrics) *Orchestrator {
	return &Orchestrator{
		limiter: limiter,
		cache:   store,
		chain:   chain,
		log:     log.With().Str("component", "orchestrator").Logger(),
		met:     met,
	}
}

// Handle runs one lookup for a client.
//
// A rate-limit denial is decided before the cache or any provider is touched,
// so an abusive client cannot even read cached data. Failures are never
// cached: an identical follow-up lookup retries the providers fresh.
func (o *Orchestrator) Handle(ctx context.Context, clientID string, spec Spec) Result {
	lookupID := uuid.NewString()
	log := o.log.With().
		Str("lookup_id", lookupID).
		Str("platform", string(spec.Platform)).
		Str("op", string(spec.Op)).
		Logger()

	if d := o.limiter.Check(clientID); !d.Allowed {
		log.Warn().Str("client", clientID).Int("retry_after", d.RetryAfterSeconds).Msg("rate limited")
		o.met.RateLimited.Inc()
		o.met.Lookups.WithLabelValues(string(spec.Platform), string(spec.Op), string(StatusRateLimited)).Inc()
		return Result{Status: StatusRateLimited, RetryAfterSeconds: d.RetryAfterSeconds}
	}

	key := spec.CacheKey()
	if payload, ok := o.cache.Get(key); ok {
		log.Debug().Str("key", key).Msg("cache hit")
		o.met.CacheHits.Inc()
		o.met.Lookups.WithLabelValues(string(spec.Platform), string(spec.Op), string(StatusHit)).Inc()
		return Result{Status: StatusHit, Payload: payload}
	}
	o.met.CacheMisses.Inc()

	payload, source, perr := o.chain.Resolve(ctx, spec)
	if perr != nil {
		log.Error().Str("kind", string(perr.Kind)).Str("detail", perr.Detail).Msg("lookup failed")
		o.met.Lookups.WithLabelValues(string(spec.Platform), string(spec.Op), string(StatusFailed)).Inc()
		return Result{Status: StatusFailed, Err: perr}
	}

	o.cache.Set(key, payload)
	log.Info().Str("key", key).Str("source", string(source)).Msg("resolved")
	o.met.Lookups.WithLabelValues(string(spec.Platform), string(spec.Op), string(StatusResolved)).Inc()
	return Result{Status: StatusResolved, Payload: payload, Source: source}
}
