package lookup

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"creatorscout/internal/classify"
	"creatorscout/internal/clock"
	"creatorscout/internal/generative"
	"creatorscout/internal/metrics"
	"creatorscout/internal/prompt"
	"creatorscout/internal/providers"
	"creatorscout/internal/validate"
)

// Required-field sets per platform and operation. These mirror the contracts
// the prompt package writes into its instructions.
var searchShapes = map[Platform]validate.Shape{
	PlatformYouTube: {
		Platform: "youtube", Count: 2,
		Required: []string{"name", "url", "subscribers", "description", "influence"},
	},
	PlatformTwitter: {
		Platform: "twitter", Count: 2,
		Required: []string{"name", "url", "subscribers", "description", "influence", "username"},
	},
	PlatformFacebook: {
		Platform: "facebook", Count: 2,
		Required: []string{"name", "url", "subscribers", "description", "influence", "username"},
	},
}

var detailShapes = map[Platform]validate.Shape{
	PlatformYouTube: {
		Platform: "youtube",
		Required: []string{"name", "url", "subscribers", "description"},
	},
	PlatformTwitter: {
		Platform: "twitter",
		Required: []string{"name", "username", "url", "followers", "description"},
	},
	PlatformFacebook: {
		Platform: "facebook",
		Required: []string{"name", "url", "followers", "likes", "description"},
	},
}

// Chain resolves a lookup by trying the authoritative provider first where
// one exists, classifying any failure, and substituting a validated
// synthesized result when the failure is fallback-eligible. Provider failures
// are never retried within a request.
type Chain struct {
	auth map[Platform]providers.Authoritative
	gen  generative.TextGenerator
	clk  clock.Clock
	log  zerolog.Logger
	met  *metrics.Metrics
}

func NewChain(auth map[Platform]providers.Authoritative, gen generative.TextGenerator, clk clock.Clock, log zerolog.Logger, met *metrics.Metrics) *Chain {
	return &Chain{
		auth: auth,
		gen:  gen,
		clk:  clk,
		log:  log.With().Str("component", "chain").Logger(),
		met:  met,
	}
}

// Resolve runs the fallback chain for spec.
func (c *Chain) Resolve(ctx context.Context, spec Spec) (any, Source, *classify.ProviderError) {
	if spec.Op == OpAnalysis {
		return c.resolveAnalysis(ctx, spec)
	}

	// Discovery has no authoritative endpoint on any platform, and Facebook
	// has no authoritative client at all; both go straight to synthesis.
	if auth, ok := c.auth[spec.Platform]; ok && spec.Op == OpDetail {
		payload, perr := c.resolveAuthoritative(ctx, auth, spec)
		if perr == nil {
			return payload, SourceAuthoritative, nil
		}
		if !perr.Kind.FallbackEligible() {
			return nil, "", perr
		}
		c.log.Warn().
			Str("platform", string(spec.Platform)).
			Str("kind", string(perr.Kind)).
			Msg("authoritative provider failed, substituting synthesized result")
		c.met.Fallbacks.WithLabelValues(string(spec.Platform), string(spec.Op)).Inc()
	}

	return c.resolveGenerative(ctx, spec)
}

func (c *Chain) resolveAuthoritative(ctx context.Context, auth providers.Authoritative, spec Spec) (map[string]any, *classify.ProviderError) {
	id, raw := auth.Resolve(ctx, spec.Param())
	if raw != nil {
		return nil, c.classifyRaw(spec, raw)
	}
	details, raw := auth.Details(ctx, id)
	if raw != nil {
		return nil, c.classifyRaw(spec, raw)
	}
	details["platform"] = string(spec.Platform)
	details["fetchedAt"] = c.clk.Now().UTC().Format(time.RFC3339)
	return details, nil
}

func (c *Chain) resolveGenerative(ctx context.Context, spec Spec) (any, Source, *classify.ProviderError) {
	var p prompt.Spec
	if spec.Op == OpSearch {
		p = prompt.Discovery(string(spec.Platform), spec.Param())
	} else {
		p = prompt.Detail(string(spec.Platform), spec.Param())
	}

	text, err := c.gen.GenerateText(ctx, p)
	if err != nil {
		return nil, "", &classify.ProviderError{
			Kind:   classify.KindUnknown,
			Label:  "Generative Provider Error",
			Detail: err.Error(),
		}
	}

	// A malformed synthesized response is terminal: no retry, no repair.
	if spec.Op == OpSearch {
		records, f := validate.Records(text, searchShapes[spec.Platform])
		if f != nil {
			return nil, "", c.validationError(spec, f)
		}
		return records, SourceSynthesized, nil
	}

	rec, f := validate.Record(text, detailShapes[spec.Platform])
	if f != nil {
		return nil, "", c.validationError(spec, f)
	}
	rec["fetchedAt"] = c.clk.Now().UTC().Format(time.RFC3339)
	rec["dataSource"] = fmt.Sprintf("AI estimate (%s API unavailable)", spec.Platform)
	return rec, SourceSynthesized, nil
}

// resolveAnalysis performs the derived marketing-analysis operation: an
// authoritative detail lookup plus recent titles, then one free-form
// generative call. The stats the analysis is about cannot be synthesized, so
// authoritative failures are terminal here regardless of eligibility.
func (c *Chain) resolveAnalysis(ctx context.Context, spec Spec) (any, Source, *classify.ProviderError) {
	auth, ok := c.auth[spec.Platform]
	if !ok {
		return nil, "", &classify.ProviderError{
			Kind:   classify.KindUnknown,
			Label:  "Unsupported Operation",
			Detail: fmt.Sprintf("marketing analysis is not available for %s", spec.Platform),
		}
	}
	lister, ok := auth.(providers.ContentLister)
	if !ok {
		return nil, "", &classify.ProviderError{
			Kind:   classify.KindUnknown,
			Label:  "Unsupported Operation",
			Detail: fmt.Sprintf("%s cannot list recent content", spec.Platform),
		}
	}

	details, raw := auth.Details(ctx, spec.Param())
	if raw != nil {
		return nil, "", c.classifyRaw(spec, raw)
	}
	titles, raw := lister.RecentTitles(ctx, spec.Param(), 10)
	if raw != nil {
		return nil, "", c.classifyRaw(spec, raw)
	}

	text, err := c.gen.GenerateText(ctx, prompt.Analysis(prompt.AnalysisInput{
		Name:         asString(details["name"]),
		Description:  asString(details["description"]),
		Subscribers:  asString(details["subscriberCount"]),
		Videos:       asString(details["videoCount"]),
		Views:        asString(details["viewCount"]),
		RecentTitles: titles,
	}))
	if err != nil {
		return nil, "", &classify.ProviderError{
			Kind:   classify.KindUnknown,
			Label:  "Generative Provider Error",
			Detail: err.Error(),
		}
	}

	payload := map[string]any{
		"platform":    string(spec.Platform),
		"channelName": details["name"],
		"channelStats": map[string]any{
			"subscribers": details["subscriberCount"],
			"videos":      details["videoCount"],
			"views":       details["viewCount"],
		},
		"analysisText": text,
		"generatedAt":  c.clk.Now().UTC().Format(time.RFC3339),
	}
	return payload, SourceAuthoritative, nil
}

// classifyRaw maps a raw provider failure into the taxonomy. An empty result
// set (404) is NotFound and bypasses the family rule tables.
func (c *Chain) classifyRaw(spec Spec, raw *classify.RawError) *classify.ProviderError {
	if raw.Status == http.StatusNotFound {
		return classify.NotFound(spec.family(), raw.Message)
	}
	return classify.Classify(spec.family(), raw, c.clk.Now())
}

func (c *Chain) validationError(spec Spec, f *validate.Failure) *classify.ProviderError {
	c.log.Error().
		Str("platform", string(spec.Platform)).
		Str("op", string(spec.Op)).
		Str("stage", string(f.Stage)).
		Msg("synthesized response rejected")
	return &classify.ProviderError{
		Kind:   classify.KindUnknown,
		Label:  "Failed to parse generated data",
		Detail: f.Error(),
		Raw:    f.Raw,
	}
}

func asString(v any) string {
	if v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}
