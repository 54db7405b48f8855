// cmd/api/main.go
package main

import (
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/gregjones/httpcache"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"

	"creatorscout/internal/cache"
	"creatorscout/internal/clock"
	"creatorscout/internal/config"
	"creatorscout/internal/generative"
	"creatorscout/internal/http/routes"
	"creatorscout/internal/lookup"
	"creatorscout/internal/metrics"
	"creatorscout/internal/providers"
	"creatorscout/internal/ratelimit"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}

	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	logger := zerolog.New(os.Stdout).Level(level).With().Timestamp().Logger()

	if err := cfg.Validate(); err != nil {
		logger.Fatal().Err(err).Msg("invalid configuration")
	}

	// Platform API responses that carry cache headers are reused across
	// lookups; everything else flows through unchanged.
	httpClient := &http.Client{
		Transport: httpcache.NewMemoryCacheTransport(),
		Timeout:   20 * time.Second,
	}

	auth := map[lookup.Platform]providers.Authoritative{}
	if cfg.HasYouTube() {
		yt, err := providers.NewYouTube(cfg.YouTube.APIKey, providers.WithHTTPClient(httpClient))
		if err != nil {
			logger.Fatal().Err(err).Msg("youtube client")
		}
		auth[lookup.PlatformYouTube] = yt
	}
	if cfg.HasTwitter() {
		tw, err := providers.NewTwitter(cfg.Twitter.BearerToken, providers.WithHTTPClient(httpClient))
		if err != nil {
			logger.Fatal().Err(err).Msg("twitter client")
		}
		auth[lookup.PlatformTwitter] = tw
	}
	logger.Info().
		Bool("youtube", cfg.HasYouTube()).
		Bool("twitter", cfg.HasTwitter()).
		Str("model", cfg.OpenAI.Model).
		Msg("providers configured")

	reg := prometheus.NewRegistry()
	met := metrics.New(reg)
	clk := clock.System{}
	store := cache.New(cfg.Cache.TTL, clk)
	limiter := ratelimit.New(cfg.RateLimit.Window, cfg.RateLimit.MaxRequests, clk)

	chain := lookup.NewChain(auth, generative.NewOpenAI(cfg.OpenAI.APIKey, cfg.OpenAI.Model), clk, logger, met)
	orch := lookup.NewOrchestrator(limiter, store, chain, logger, met)

	s := routes.New(routes.ServerOptions{
		Orch:     orch,
		Cache:    store,
		Clk:      clk,
		Log:      logger,
		Gatherer: reg,
	})

	h := hlog.AccessHandler(func(r *http.Request, status, size int, duration time.Duration) {
		hlog.FromRequest(r).Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", status).
			Dur("duration", duration).
			Msg("request")
	})(s.Router)
	h = hlog.NewHandler(logger)(h)

	addr := fmt.Sprintf(":%d", cfg.Port)
	logger.Info().Str("addr", addr).Msg("starting api")
	srv := &http.Server{Addr: addr, Handler: h, ReadHeaderTimeout: 10 * time.Second}
	if err := srv.ListenAndServe(); err != nil {
		logger.Fatal().Err(err).Msg("server exited")
	}
}
