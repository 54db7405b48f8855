// Package config handles application configuration from environment variables.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds all application configuration.
type Config struct {
	Port      int    `env:"PORT" envDefault:"5002"`
	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	OpenAI    OpenAIConfig
	YouTube   YouTubeConfig
	Twitter   TwitterConfig
	Cache     CacheConfig
	RateLimit RateLimitConfig
}

// OpenAIConfig holds the generative-provider credentials.
type OpenAIConfig struct {
	APIKey string `env:"OPENAI_API_KEY"`
	Model  string `env:"OPENAI_MODEL" envDefault:"gpt-4"`
}

// YouTubeConfig holds the YouTube Data API credentials.
type YouTubeConfig struct {
	APIKey string `env:"YOUTUBE_API_KEY"`
}

// TwitterConfig holds the Twitter API v2 credentials.
type TwitterConfig struct {
	BearerToken string `env:"TWITTER_BEARER_TOKEN"`
}

// CacheConfig controls the lookup cache.
type CacheConfig struct {
	TTL time.Duration `env:"CACHE_TTL" envDefault:"24h"`
}

// RateLimitConfig controls the per-client request budget.
type RateLimitConfig struct {
	Window      time.Duration `env:"RATE_LIMIT_WINDOW" envDefault:"15m"`
	MaxRequests int           `env:"RATE_LIMIT_MAX" envDefault:"180"`
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}
	return cfg, nil
}

// HasYouTube returns true if the YouTube authoritative client can be built.
func (c *Config) HasYouTube() bool {
	return c.YouTube.APIKey != ""
}

// HasTwitter returns true if the Twitter authoritative client can be built.
func (c *Config) HasTwitter() bool {
	return c.Twitter.BearerToken != ""
}

// Validate ensures the configuration can serve lookups. The generative
// provider backs every platform's fallback, so its key is mandatory; the
// platform credentials are optional and only widen the authoritative surface.
func (c *Config) Validate() error {
	if c.OpenAI.APIKey == "" {
		return fmt.Errorf("OPENAI_API_KEY is required - every lookup depends on the generative provider")
	}
	if c.Cache.TTL <= 0 {
		return fmt.Errorf("CACHE_TTL must be positive, got %s", c.Cache.TTL)
	}
	if c.RateLimit.Window <= 0 || c.RateLimit.MaxRequests <= 0 {
		return fmt.Errorf("rate limit window and max must be positive")
	}
	return nil
}
