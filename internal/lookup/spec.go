// Package lookup is the request-orchestration core: it coordinates the rate
// limiter, the cache, the authoritative providers, and the generative
// fallback behind one uniform result contract.
package lookup

import (
	"fmt"
	"strings"

	"creatorscout/internal/classify"
)

// Platform identifies a supported social platform.
type Platform string

const (
	PlatformYouTube  Platform = "youtube"
	PlatformTwitter  Platform = "twitter"
	PlatformFacebook Platform = "facebook"
)

// ParsePlatform validates a platform path segment.
func ParsePlatform(s string) (Platform, bool) {
	switch p := Platform(strings.ToLower(s)); p {
	case PlatformYouTube, PlatformTwitter, PlatformFacebook:
		return p, true
	}
	return "", false
}

// Op identifies a lookup operation.
type Op string

const (
	// OpSearch discovers influencer candidates for an industry. No platform
	// exposes an authoritative influencer search, so it is generative-only
	// by design.
	OpSearch Op = "search"
	// OpDetail resolves one account's profile.
	OpDetail Op = "detail"
	// OpAnalysis performs a detail lookup plus one free-form generative
	// analysis over the resolved profile and recent content titles.
	OpAnalysis Op = "analysis"
)

// Spec identifies one lookup: platform, operation, and parameters.
type Spec struct {
	Platform   Platform
	Op         Op
	Industry   string // search
	Identifier string // detail, analysis
}

// Param returns the operation's parameter, whitespace-trimmed.
func (s Spec) Param() string {
	if s.Op == OpSearch {
		return strings.TrimSpace(s.Industry)
	}
	return strings.TrimSpace(s.Identifier)
}

// CacheKey is the deterministic cache key for this lookup.
func (s Spec) CacheKey() string {
	return fmt.Sprintf("%s:%s:%s", s.Platform, s.Op, s.Param())
}

func (s Spec) family() classify.Family {
	return classify.Family(s.Platform)
}

// Source records where a resolved payload came from.
type Source string

const (
	SourceAuthoritative Source = "authoritative"
	SourceSynthesized   Source = "synthesized"
)

// Status tags the orchestrator's result variants.
type Status string

const (
	StatusHit         Status = "hit"
	StatusResolved    Status = "resolved"
	StatusFailed      Status = "failed"
	StatusRateLimited Status = "rate_limited"
)

// Result is the single type the orchestrator returns. The HTTP boundary maps
// it to status codes.
type Result struct {
	Status            Status
	Payload           any                     // hit, resolved
	Source            Source                  // resolved only
	Err               *classify.ProviderError // failed only
	RetryAfterSeconds int                     // rate_limited only
}
