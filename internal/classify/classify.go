// Package classify maps raw platform-API failures onto a typed error taxonomy.
//
// Each provider family exposes a different error shape (HTTP-status-coded,
// application-error-coded, or message-substring-coded), so classification is a
// priority-ordered rule table per family, evaluated top to bottom with the
// first match winning. Anything unmatched falls through to Unknown. Adding a
// platform means adding a rule table, not branching at call sites.
package classify

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// Kind identifies a classified provider failure.
type Kind string

const (
	KindAuth       Kind = "auth_error"
	KindPermission Kind = "permission_error"
	KindRateLimit  Kind = "rate_limit_exceeded"
	KindQuota      Kind = "quota_exceeded"
	KindKeyInvalid Kind = "key_invalid"
	KindNotFound   Kind = "not_found"
	KindUnknown    Kind = "unknown_provider_error"
)

// FallbackEligible reports whether the fallback chain may substitute a
// synthesized result for a failure of this kind. This is the single
// declarative eligibility table; it is never re-derived at call sites.
func (k Kind) FallbackEligible() bool {
	switch k {
	case KindAuth, KindPermission, KindRateLimit, KindQuota, KindKeyInvalid:
		return true
	}
	return false
}

// ProviderError is a classified provider failure. It is transient per call
// and never persisted.
type ProviderError struct {
	Kind              Kind
	Label             string // short classification label, e.g. "Twitter API Rate Limit Error"
	Detail            string // human-readable detail for the caller
	RetryAfterSeconds int    // rate-limit denials only
	MonthlyCapHit     bool   // Twitter monthly product cap, see Classify
	Raw               string // unclassified generated text, parse failures only
}

func (e *ProviderError) Error() string {
	return e.Label + ": " + e.Detail
}

// RawError is the provider-family-specific failure surface consumed by
// Classify. Authoritative clients populate whichever fields their API exposes.
type RawError struct {
	Status         int       // HTTP status, 0 if the call never got a response
	Code           int       // application error code (e.g. Facebook code 100)
	Reason         string    // reason code (e.g. YouTube "quotaExceeded")
	Message        string    // top-level error message
	Detail         string    // secondary detail string (e.g. Twitter error body detail)
	RateLimitReset time.Time // zero unless the API reported a reset time
}

func (e *RawError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("provider status %d: %s", e.Status, e.Message)
	}
	return e.Message
}

// Family selects the classification rule table.
type Family string

const (
	FamilyYouTube  Family = "youtube"
	FamilyTwitter  Family = "twitter"
	FamilyFacebook Family = "facebook"
)

type rule struct {
	match func(*RawError) bool
	build func(*RawError, time.Time) *ProviderError
}

var families = map[Family][]rule{
	FamilyTwitter: {
		{
			match: func(r *RawError) bool { return r.Status == 401 || r.Code == 401 },
			build: func(r *RawError, _ time.Time) *ProviderError {
				return &ProviderError{
					Kind:   KindAuth,
					Label:  "Twitter API Authentication Error",
					Detail: "Invalid API credentials. Please check your Twitter API keys.",
				}
			},
		},
		{
			// Monthly product cap is a billing-period limit, not a window
			// limit; a retry countdown is meaningless within the period.
			match: func(r *RawError) bool {
				return is429(r) && strings.Contains(r.Detail, "Monthly product cap")
			},
			build: func(r *RawError, _ time.Time) *ProviderError {
				return &ProviderError{
					Kind:          KindRateLimit,
					Label:         "Twitter API Monthly Cap Error",
					Detail:        "Monthly usage limit exceeded.",
					MonthlyCapHit: true,
				}
			},
		},
		{
			match: is429,
			build: func(r *RawError, now time.Time) *ProviderError {
				wait := secondsUntil(r.RateLimitReset, now)
				return &ProviderError{
					Kind:              KindRateLimit,
					Label:             "Twitter API Rate Limit Error",
					Detail:            fmt.Sprintf("Rate limit exceeded. Please wait %d seconds before trying again.", wait),
					RetryAfterSeconds: wait,
				}
			},
		},
	},
	FamilyYouTube: {
		{
			// Reason codes arrive with HTTP 403, so they must outrank the
			// bare access-denied rule below.
			match: func(r *RawError) bool { return r.Reason == "quotaExceeded" },
			build: func(r *RawError, _ time.Time) *ProviderError {
				return &ProviderError{
					Kind:   KindQuota,
					Label:  "YouTube API Quota Exceeded",
					Detail: "The daily quota for YouTube API requests has been exceeded. Please try again tomorrow.",
				}
			},
		},
		{
			match: func(r *RawError) bool { return r.Reason == "keyInvalid" },
			build: func(r *RawError, _ time.Time) *ProviderError {
				return &ProviderError{
					Kind:   KindKeyInvalid,
					Label:  "YouTube API Key Invalid",
					Detail: "The API key used for accessing YouTube data is invalid or has been revoked.",
				}
			},
		},
		{
			match: func(r *RawError) bool { return r.Status == 401 || r.Status == 403 },
			build: func(r *RawError, _ time.Time) *ProviderError {
				return &ProviderError{
					Kind:   KindAuth,
					Label:  "YouTube API Access Denied",
					Detail: "Authentication failed. This could be due to invalid API credentials or insufficient permissions.",
				}
			},
		},
		{
			match: is429,
			build: func(r *RawError, _ time.Time) *ProviderError {
				return &ProviderError{
					Kind:              KindRateLimit,
					Label:             "YouTube API Rate Limit Exceeded",
					Detail:            "Too many requests in a short period. Please wait before trying again.",
					RetryAfterSeconds: 60,
				}
			},
		},
	},
	FamilyFacebook: {
		{
			match: func(r *RawError) bool { return r.Status == 401 || r.Status == 400 },
			build: func(r *RawError, _ time.Time) *ProviderError {
				return &ProviderError{
					Kind:   KindAuth,
					Label:  "Facebook API Authentication Error",
					Detail: "Invalid API credentials. Please check your Facebook API keys.",
				}
			},
		},
		{
			match: is429,
			build: func(r *RawError, _ time.Time) *ProviderError {
				return &ProviderError{
					Kind:              KindRateLimit,
					Label:             "Facebook API Rate Limit Error",
					Detail:            "Rate limit exceeded. Please wait before trying again.",
					RetryAfterSeconds: 60,
				}
			},
		},
		{
			match: func(r *RawError) bool {
				return r.Code == 100 || strings.Contains(r.Message, "missing permission")
			},
			build: func(r *RawError, _ time.Time) *ProviderError {
				return &ProviderError{
					Kind:   KindPermission,
					Label:  "Facebook API Permission Error",
					Detail: "This application does not have the required permissions to access Facebook page data.",
				}
			},
		},
	},
}

// Classify maps raw into the taxonomy using family's rule table. now anchors
// any retry countdown derived from a reported reset time.
func Classify(family Family, raw *RawError, now time.Time) *ProviderError {
	for _, r := range families[family] {
		if r.match(raw) {
			return r.build(raw, now)
		}
	}
	msg := raw.Message
	if msg == "" {
		msg = raw.Error()
	}
	return &ProviderError{
		Kind:   KindUnknown,
		Label:  fmt.Sprintf("%s API Error", familyTitle(family)),
		Detail: msg,
	}
}

// NotFound builds the terminal not-found variant. It is produced by the chain
// when a provider answers successfully but with an empty result set, so it
// lives outside the rule tables.
func NotFound(family Family, detail string) *ProviderError {
	return &ProviderError{
		Kind:   KindNotFound,
		Label:  fmt.Sprintf("%s Not Found", familyTitle(family)),
		Detail: detail,
	}
}

func is429(r *RawError) bool {
	return r.Status == 429 || r.Code == 429
}

func secondsUntil(reset, now time.Time) int {
	if reset.IsZero() {
		return 60
	}
	s := int(math.Ceil(reset.Sub(now).Seconds()))
	if s < 1 {
		s = 1
	}
	return s
}

func familyTitle(f Family) string {
	switch f {
	case FamilyYouTube:
		return "YouTube"
	case FamilyTwitter:
		return "Twitter"
	case FamilyFacebook:
		return "Facebook"
	}
	return string(f)
}
