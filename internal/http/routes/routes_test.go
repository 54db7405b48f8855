package routes

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"creatorscout/internal/cache"
	"creatorscout/internal/classify"
	"creatorscout/internal/lookup"
	"creatorscout/internal/metrics"
	"creatorscout/internal/prompt"
	"creatorscout/internal/providers"
	"creatorscout/internal/ratelimit"
)

type fakeClock struct {
	t time.Time
}

func (f *fakeClock) Now() time.Time { return f.t }

type fakeGenerator struct {
	text  string
	calls int
	last  prompt.Spec
}

func (f *fakeGenerator) GenerateText(ctx context.Context, p prompt.Spec) (string, error) {
	f.calls++
	f.last = p
	return f.text, nil
}

type fakeAuthoritative struct {
	details    map[string]any
	detailsErr *classify.RawError
}

func (f *fakeAuthoritative) Resolve(ctx context.Context, query string) (string, *classify.RawError) {
	return query, nil
}

func (f *fakeAuthoritative) Details(ctx context.Context, identifier string) (map[string]any, *classify.RawError) {
	if f.detailsErr != nil {
		return nil, f.detailsErr
	}
	out := make(map[string]any, len(f.details))
	for k, v := range f.details {
		out[k] = v
	}
	return out, nil
}

const searchBody = `[
  {"name":"Creator One","url":"https://youtube.com/channel/a","subscribers":"1.2M","description":"Tech reviews","influence":"Widely cited"},
  {"name":"Creator Two","url":"https://youtube.com/channel/b","subscribers":"800K","description":"Coding streams","influence":"Engaged audience"}
]`

func newTestServer(t *testing.T, gen *fakeGenerator, auth map[lookup.Platform]providers.Authoritative, maxRequests int) (*Server, *fakeClock) {
	t.Helper()
	clk := &fakeClock{t: time.Unix(1700000000, 0)}
	reg := prometheus.NewRegistry()
	met := metrics.New(reg)
	store := cache.New(24*time.Hour, clk)
	chain := lookup.NewChain(auth, gen, clk, zerolog.Nop(), met)
	orch := lookup.NewOrchestrator(
		ratelimit.New(15*time.Minute, maxRequests, clk),
		store, chain, zerolog.Nop(), met,
	)
	s := New(ServerOptions{
		Orch:     orch,
		Cache:    store,
		Clk:      clk,
		Log:      zerolog.Nop(),
		Gatherer: reg,
	})
	return s, clk
}

func do(s *Server, target string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	s.Router.ServeHTTP(rec, req)
	return rec
}

func TestChannelsEndToEnd(t *testing.T) {
	gen := &fakeGenerator{text: searchBody}
	s, _ := newTestServer(t, gen, nil, 100)

	rec := do(s, "/api/youtube/channels?industry=Technology")
	require.Equal(t, http.StatusOK, rec.Code)

	var records []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &records))
	require.Len(t, records, 2)
	for _, r := range records {
		require.Equal(t, "youtube", r["platform"])
	}
	require.Contains(t, gen.last.User, "Technology")

	// Second identical request is served from cache.
	rec = do(s, "/api/youtube/channels?industry=Technology")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, 1, gen.calls)
}

func TestChannelsMissingIndustry(t *testing.T) {
	s, _ := newTestServer(t, &fakeGenerator{}, nil, 100)

	rec := do(s, "/api/youtube/channels")
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Contains(t, rec.Body.String(), "Industry parameter is required")
}

func TestChannelsUnsupportedPlatform(t *testing.T) {
	s, _ := newTestServer(t, &fakeGenerator{}, nil, 100)

	rec := do(s, "/api/tiktok/channels?industry=Dance")
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Contains(t, rec.Body.String(), "Unsupported platform")
}

func TestRateLimitedResponse(t *testing.T) {
	gen := &fakeGenerator{text: searchBody}
	s, _ := newTestServer(t, gen, nil, 1)

	require.Equal(t, http.StatusOK, do(s, "/api/youtube/channels?industry=Tech").Code)

	rec := do(s, "/api/youtube/channels?industry=Tech")
	require.Equal(t, http.StatusTooManyRequests, rec.Code)

	var envelope struct {
		Error      string `json:"error"`
		RetryAfter int    `json:"retryAfter"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	require.Contains(t, envelope.Error, "Too many requests")
	require.Greater(t, envelope.RetryAfter, 0)
	require.Equal(t, 1, gen.calls)
}

func TestAccountNotFound(t *testing.T) {
	auth := map[lookup.Platform]providers.Authoritative{
		lookup.PlatformTwitter: &fakeAuthoritative{detailsErr: &classify.RawError{Status: 404, Message: "User ghost not found"}},
	}
	s, _ := newTestServer(t, &fakeGenerator{}, auth, 100)

	rec := do(s, "/api/twitter/account/ghost")
	require.Equal(t, http.StatusNotFound, rec.Code)
	require.Contains(t, rec.Body.String(), "Twitter Not Found")
}

func TestAuthoritativeDetailServed(t *testing.T) {
	auth := map[lookup.Platform]providers.Authoritative{
		lookup.PlatformTwitter: &fakeAuthoritative{details: map[string]any{"name": "Some One", "username": "someone"}},
	}
	gen := &fakeGenerator{}
	s, _ := newTestServer(t, gen, auth, 100)

	rec := do(s, "/api/twitter/account/someone")
	require.Equal(t, http.StatusOK, rec.Code)

	var profile map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &profile))
	require.Equal(t, "twitter", profile["platform"])
	require.NotEmpty(t, profile["fetchedAt"])
	require.Zero(t, gen.calls)
}

func TestMalformedGenerationReturns500(t *testing.T) {
	gen := &fakeGenerator{text: "Sure! Here are two great creators."}
	s, _ := newTestServer(t, gen, nil, 100)

	rec := do(s, "/api/facebook/channels?industry=Cooking")
	require.Equal(t, http.StatusInternalServerError, rec.Code)

	var envelope struct {
		Error       string `json:"error"`
		RawResponse string `json:"rawResponse"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	require.Equal(t, "Failed to parse generated data", envelope.Error)
	require.NotEmpty(t, envelope.RawResponse)
}

func TestCacheStatusEndpoint(t *testing.T) {
	gen := &fakeGenerator{text: searchBody}
	s, _ := newTestServer(t, gen, nil, 100)

	require.Equal(t, http.StatusOK, do(s, "/api/youtube/channels?industry=Technology").Code)

	rec := do(s, "/api/cache/status")
	require.Equal(t, http.StatusOK, rec.Code)

	var status struct {
		TotalCached int      `json:"totalCached"`
		Keys        []string `json:"keys"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &status))
	require.Equal(t, 1, status.TotalCached)
	require.Equal(t, []string{"youtube:search:Technology"}, status.Keys)
}

func TestHealthEndpoint(t *testing.T) {
	s, clk := newTestServer(t, &fakeGenerator{}, nil, 100)
	clk.t = clk.t.Add(90 * time.Second)

	rec := do(s, "/api/health")
	require.Equal(t, http.StatusOK, rec.Code)

	var health map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &health))
	require.Equal(t, "ok", health["status"])
	require.Equal(t, "1m30s", health["uptime"])
	require.NotNil(t, health["memory"])
}

func TestTestEndpoint(t *testing.T) {
	s, _ := newTestServer(t, &fakeGenerator{}, nil, 100)

	rec := do(s, "/api/test")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "API is working")
}

func TestMetricsEndpoint(t *testing.T) {
	gen := &fakeGenerator{text: searchBody}
	s, _ := newTestServer(t, gen, nil, 100)
	do(s, "/api/youtube/channels?industry=Technology")

	rec := do(s, "/metrics")
	require.Equal(t, http.StatusOK, rec.Code)
	require.True(t, strings.Contains(rec.Body.String(), "creatorscout_lookups_total"))
}
