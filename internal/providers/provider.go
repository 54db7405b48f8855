// Package providers contains the authoritative platform API clients.
//
// A platform appears here only if it exposes a usable public API for detail
// lookups: YouTube (Data API v3) and Twitter (v2 user lookup). Facebook's
// Graph API requires page-level permissions this application cannot obtain,
// so Facebook has no authoritative client and is served generatively.
package providers

import (
	"context"

	"creatorscout/internal/classify"
)

// Authoritative is the capability an authoritative platform API exposes to
// the fallback chain. Failures are raw, family-specific error objects; the
// chain classifies them.
type Authoritative interface {
	// Resolve maps a human query (channel name, handle) to the opaque
	// identifier detail lookups need. Platforms addressed directly by
	// handle return the query unchanged.
	Resolve(ctx context.Context, query string) (string, *classify.RawError)

	// Details returns the raw profile fields for an identifier. A lookup
	// that completes but matches nothing yields a RawError with Status 404.
	Details(ctx context.Context, identifier string) (map[string]any, *classify.RawError)
}

// ContentLister is implemented by providers that can enumerate an account's
// recent content, used by the marketing-analysis operation.
type ContentLister interface {
	RecentTitles(ctx context.Context, identifier string, max int) ([]string, *classify.RawError)
}
