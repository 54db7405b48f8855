package providers

import (
	"net/http"
	"net/url"
)

// core holds what every client shares: an HTTP client (callers typically pass
// one backed by a caching transport) and an overridable base URL for tests.
type core struct {
	http    *http.Client
	baseURL *url.URL
}

type Option func(*core)

func WithHTTPClient(h *http.Client) Option {
	return func(c *core) { c.http = h }
}

func WithBaseURL(raw string) Option {
	return func(c *core) {
		if u, err := url.Parse(raw); err == nil {
			c.baseURL = u
		}
	}
}

func newCore(defaultBase string, opts ...Option) core {
	u, _ := url.Parse(defaultBase)
	c := core{http: http.DefaultClient, baseURL: u}
	for _, o := range opts {
		o(&c)
	}
	return c
}
