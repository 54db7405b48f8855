package providers

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"creatorscout/internal/classify"
)

const DefaultTwitterBaseURL = "https://api.twitter.com"

// TwitterClient talks to the Twitter v2 API with an app bearer token.
type TwitterClient struct {
	core
	bearerToken string
}

func NewTwitter(bearerToken string, opts ...Option) (*TwitterClient, error) {
	if bearerToken == "" {
		return nil, fmt.Errorf("bearerToken required")
	}
	return &TwitterClient{core: newCore(DefaultTwitterBaseURL, opts...), bearerToken: bearerToken}, nil
}

// Resolve is the identity: Twitter lookups are addressed by handle directly.
func (c *TwitterClient) Resolve(ctx context.Context, query string) (string, *classify.RawError) {
	return strings.TrimPrefix(query, "@"), nil
}

type twUserResponse struct {
	Data *struct {
		ID            string `json:"id"`
		Name          string `json:"name"`
		Username      string `json:"username"`
		Description   string `json:"description"`
		PublicMetrics struct {
			FollowersCount int `json:"followers_count"`
			FollowingCount int `json:"following_count"`
			TweetCount     int `json:"tweet_count"`
		} `json:"public_metrics"`
		ProfileImageURL string `json:"profile_image_url"`
		Verified        bool   `json:"verified"`
		CreatedAt       string `json:"created_at"`
		Location        string `json:"location"`
	} `json:"data"`
	Errors []struct {
		Title  string `json:"title"`
		Detail string `json:"detail"`
	} `json:"errors"`
}

// Details returns the user profile fields for a username.
func (c *TwitterClient) Details(ctx context.Context, identifier string) (map[string]any, *classify.RawError) {
	u := *c.baseURL
	u.Path += "/2/users/by/username/" + identifier
	q := u.Query()
	q.Set("user.fields", "public_metrics,description,profile_image_url,verified,created_at,location")
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, &classify.RawError{Message: err.Error()}
	}
	req.Header.Set("Authorization", "Bearer "+c.bearerToken)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &classify.RawError{Message: err.Error()}
	}
	defer resp.Body.Close() //nolint:errcheck

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &classify.RawError{Status: resp.StatusCode, Message: err.Error()}
	}
	if resp.StatusCode != http.StatusOK {
		return nil, twitterRawError(resp, body)
	}

	var out twUserResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, &classify.RawError{Status: resp.StatusCode, Message: fmt.Sprintf("unmarshal twitter response: %v", err)}
	}
	if out.Data == nil {
		// v2 reports unknown users inside a 200 body.
		detail := fmt.Sprintf("no Twitter user found matching %q", identifier)
		if len(out.Errors) > 0 && out.Errors[0].Detail != "" {
			detail = out.Errors[0].Detail
		}
		return nil, &classify.RawError{Status: http.StatusNotFound, Message: detail}
	}

	d := out.Data
	return map[string]any{
		"id":           d.ID,
		"name":         d.Name,
		"username":     d.Username,
		"description":  d.Description,
		"followers":    d.PublicMetrics.FollowersCount,
		"following":    d.PublicMetrics.FollowingCount,
		"tweets":       d.PublicMetrics.TweetCount,
		"profileImage": strings.ReplaceAll(d.ProfileImageURL, "_normal", ""),
		"verified":     d.Verified,
		"created":      d.CreatedAt,
		"location":     d.Location,
		"url":          "https://twitter.com/" + d.Username,
	}, nil
}

// twitterRawError carries the rate-limit reset header and the body detail
// string (which distinguishes a monthly product cap from a window limit).
func twitterRawError(resp *http.Response, body []byte) *classify.RawError {
	raw := &classify.RawError{Status: resp.StatusCode, Message: string(body)}
	var parsed struct {
		Title  string `json:"title"`
		Detail string `json:"detail"`
	}
	if err := json.Unmarshal(body, &parsed); err == nil {
		if parsed.Title != "" {
			raw.Message = parsed.Title
		}
		raw.Detail = parsed.Detail
	}
	if reset := resp.Header.Get("x-rate-limit-reset"); reset != "" {
		if unix, err := strconv.ParseInt(reset, 10, 64); err == nil {
			raw.RateLimitReset = time.Unix(unix, 0)
		}
	}
	return raw
}
