// Package routes wires the lookup orchestrator to its HTTP surface.
package routes

import (
	"net"
	"net/http"
	"net/url"
	"runtime"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/goccy/go-json"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"creatorscout/internal/cache"
	"creatorscout/internal/classify"
	"creatorscout/internal/clock"
	"creatorscout/internal/lookup"
)

type Server struct {
	Router  *chi.Mux
	Orch    *lookup.Orchestrator
	Cache   *cache.Store
	Clk     clock.Clock
	Log     zerolog.Logger
	started time.Time
}

type ServerOptions struct {
	Orch     *lookup.Orchestrator
	Cache    *cache.Store
	Clk      clock.Clock
	Log      zerolog.Logger
	Gatherer prometheus.Gatherer
}

func New(opts ServerOptions) *Server {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)

	s := &Server{
		Router:  r,
		Orch:    opts.Orch,
		Cache:   opts.Cache,
		Clk:     opts.Clk,
		Log:     opts.Log,
		started: opts.Clk.Now(),
	}

	r.Get("/api/test", s.handleTest)
	r.Get("/api/health", s.handleHealth)
	r.Get("/api/cache/status", s.handleCacheStatus)
	r.Get("/api/{platform}/channels", s.handleChannels)
	r.Get("/api/youtube/channel/{channelName}", s.handleYouTubeChannel)
	r.Get("/api/youtube/channel/{channelID}/marketing-analysis", s.handleMarketingAnalysis)
	r.Get("/api/twitter/account/{username}", s.handleTwitterAccount)
	r.Get("/api/facebook/account/{accountName}", s.handleFacebookAccount)

	if opts.Gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(opts.Gatherer, promhttp.HandlerOpts{}))
	}

	return s
}

func (s *Server) handleTest(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]any{"message": "API is working!"})
}

func (s *Server) handleChannels(w http.ResponseWriter, r *http.Request) {
	platform, ok := lookup.ParsePlatform(chi.URLParam(r, "platform"))
	if !ok {
		s.writeJSON(w, http.StatusBadRequest, errorEnvelope{Error: "Unsupported platform"})
		return
	}
	industry := strings.TrimSpace(r.URL.Query().Get("industry"))
	if industry == "" {
		s.writeJSON(w, http.StatusBadRequest, errorEnvelope{Error: "Industry parameter is required"})
		return
	}
	s.serve(w, r, lookup.Spec{Platform: platform, Op: lookup.OpSearch, Industry: industry})
}

func (s *Server) handleYouTubeChannel(w http.ResponseWriter, r *http.Request) {
	s.serve(w, r, lookup.Spec{
		Platform:   lookup.PlatformYouTube,
		Op:         lookup.OpDetail,
		Identifier: pathParam(r, "channelName"),
	})
}

func (s *Server) handleMarketingAnalysis(w http.ResponseWriter, r *http.Request) {
	s.serve(w, r, lookup.Spec{
		Platform:   lookup.PlatformYouTube,
		Op:         lookup.OpAnalysis,
		Identifier: pathParam(r, "channelID"),
	})
}

func (s *Server) handleTwitterAccount(w http.ResponseWriter, r *http.Request) {
	s.serve(w, r, lookup.Spec{
		Platform:   lookup.PlatformTwitter,
		Op:         lookup.OpDetail,
		Identifier: pathParam(r, "username"),
	})
}

func (s *Server) handleFacebookAccount(w http.ResponseWriter, r *http.Request) {
	s.serve(w, r, lookup.Spec{
		Platform:   lookup.PlatformFacebook,
		Op:         lookup.OpDetail,
		Identifier: pathParam(r, "accountName"),
	})
}

// serve runs one lookup and maps the result onto the wire.
func (s *Server) serve(w http.ResponseWriter, r *http.Request, spec lookup.Spec) {
	if spec.Param() == "" {
		s.writeJSON(w, http.StatusBadRequest, errorEnvelope{Error: "Identifier is required"})
		return
	}

	res := s.Orch.Handle(r.Context(), clientIP(r), spec)
	switch res.Status {
	case lookup.StatusHit, lookup.StatusResolved:
		s.writeJSON(w, http.StatusOK, res.Payload)
	case lookup.StatusRateLimited:
		s.writeJSON(w, http.StatusTooManyRequests, errorEnvelope{
			Error:      "Too many requests, please try again later.",
			RetryAfter: res.RetryAfterSeconds,
		})
	default:
		s.writeJSON(w, statusFor(res.Err), envelopeFor(res.Err))
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)

	now := s.Clk.Now()
	s.writeJSON(w, http.StatusOK, map[string]any{
		"status":    "ok",
		"timestamp": now.UTC().Format(time.RFC3339),
		"uptime":    now.Sub(s.started).Round(time.Second).String(),
		"memory": map[string]any{
			"allocMB":      mem.Alloc / 1024 / 1024,
			"totalAllocMB": mem.TotalAlloc / 1024 / 1024,
			"sysMB":        mem.Sys / 1024 / 1024,
			"numGC":        mem.NumGC,
		},
		"cache": map[string]any{
			"size": s.Cache.Len(),
			"keys": s.Cache.Keys(),
		},
	})
}

func (s *Server) handleCacheStatus(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]any{
		"totalCached": s.Cache.Len(),
		"keys":        s.Cache.Keys(),
		"timestamp":   s.Clk.Now().UTC().Format(time.RFC3339),
	})
}

// errorEnvelope is the wire form of a failed or denied lookup.
type errorEnvelope struct {
	Error       string `json:"error"`
	Details     string `json:"details,omitempty"`
	RetryAfter  int    `json:"retryAfter,omitempty"`
	MonthlyCap  bool   `json:"monthlyLimitHit,omitempty"`
	RawResponse string `json:"rawResponse,omitempty"`
}

func statusFor(perr *classify.ProviderError) int {
	if perr == nil {
		return http.StatusInternalServerError
	}
	switch perr.Kind {
	case classify.KindNotFound:
		return http.StatusNotFound
	case classify.KindRateLimit, classify.KindQuota:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

func envelopeFor(perr *classify.ProviderError) errorEnvelope {
	if perr == nil {
		return errorEnvelope{Error: "Internal server error"}
	}
	return errorEnvelope{
		Error:       perr.Label,
		Details:     perr.Detail,
		RetryAfter:  perr.RetryAfterSeconds,
		MonthlyCap:  perr.MonthlyCapHit,
		RawResponse: perr.Raw,
	}
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.Log.Error().Err(err).Msg("write response")
	}
}

// pathParam returns a decoded URL path segment. Channel names can carry
// spaces, which arrive percent-encoded.
func pathParam(r *http.Request, name string) string {
	raw := chi.URLParam(r, name)
	if dec, err := url.PathUnescape(raw); err == nil {
		return dec
	}
	return raw
}

// clientIP is the rate-limit bucket key. RealIP has already folded any
// forwarding headers into RemoteAddr; this strips the port.
func clientIP(r *http.Request) string {
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}
