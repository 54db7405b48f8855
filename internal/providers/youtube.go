package providers

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/goccy/go-json"

	"creatorscout/internal/classify"
)

const DefaultYouTubeBaseURL = "https://www.googleapis.com/youtube/v3"

// placeholder shown when a channel exposes no usable thumbnail.
const noThumbnailURL = "https://placehold.co/200x200/gray/white?text=No+Image"

// YouTubeClient talks to the YouTube Data API v3 with an API key.
type YouTubeClient struct {
	core
	apiKey string
}

func NewYouTube(apiKey string, opts ...Option) (*YouTubeClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("apiKey required")
	}
	return &YouTubeClient{core: newCore(DefaultYouTubeBaseURL, opts...), apiKey: apiKey}, nil
}

type ytThumbnail struct {
	URL string `json:"url"`
}

type ytSnippet struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	CustomURL   string `json:"customUrl"`
	PublishedAt string `json:"publishedAt"`
	Country     string `json:"country"`
	Thumbnails  struct {
		Default ytThumbnail `json:"default"`
		Medium  ytThumbnail `json:"medium"`
		High    ytThumbnail `json:"high"`
	} `json:"thumbnails"`
}

type ytSearchResponse struct {
	Items []struct {
		ID struct {
			ChannelID string `json:"channelId"`
		} `json:"id"`
		Snippet ytSnippet `json:"snippet"`
	} `json:"items"`
}

type ytChannelResponse struct {
	Items []struct {
		ID         string    `json:"id"`
		Snippet    ytSnippet `json:"snippet"`
		Statistics struct {
			SubscriberCount string `json:"subscriberCount"`
			VideoCount      string `json:"videoCount"`
			ViewCount       string `json:"viewCount"`
		} `json:"statistics"`
		ContentDetails struct {
			RelatedPlaylists struct {
				Uploads string `json:"uploads"`
			} `json:"relatedPlaylists"`
		} `json:"contentDetails"`
	} `json:"items"`
}

// Resolve finds the best-matching channel ID for a name or ID query.
func (c *YouTubeClient) Resolve(ctx context.Context, query string) (string, *classify.RawError) {
	var out ytSearchResponse
	if raw := c.getJSON(ctx, "/search", map[string]string{
		"part":       "snippet",
		"q":          query,
		"type":       "channel",
		"maxResults": "1",
	}, &out); raw != nil {
		return "", raw
	}
	if len(out.Items) == 0 {
		return "", &classify.RawError{
			Status:  http.StatusNotFound,
			Message: fmt.Sprintf("no YouTube channel found matching %q", query),
		}
	}
	return out.Items[0].ID.ChannelID, nil
}

// Details returns the channel profile fields for a channel ID.
func (c *YouTubeClient) Details(ctx context.Context, identifier string) (map[string]any, *classify.RawError) {
	var out ytChannelResponse
	if raw := c.getJSON(ctx, "/channels", map[string]string{
		"part": "snippet,statistics,contentDetails",
		"id":   identifier,
	}, &out); raw != nil {
		return nil, raw
	}
	if len(out.Items) == 0 {
		return nil, &classify.RawError{
			Status:  http.StatusNotFound,
			Message: fmt.Sprintf("could not retrieve details for channel %q", identifier),
		}
	}

	ch := out.Items[0]
	return map[string]any{
		"id":              ch.ID,
		"name":            ch.Snippet.Title,
		"description":     ch.Snippet.Description,
		"thumbnail":       pickThumbnail(ch.Snippet),
		"subscriberCount": ch.Statistics.SubscriberCount,
		"videoCount":      ch.Statistics.VideoCount,
		"viewCount":       ch.Statistics.ViewCount,
		"customUrl":       ch.Snippet.CustomURL,
		"publishedAt":     ch.Snippet.PublishedAt,
		"country":         ch.Snippet.Country,
		"playlistId":      ch.ContentDetails.RelatedPlaylists.Uploads,
	}, nil
}

// RecentTitles lists the channel's newest video titles, newest first.
func (c *YouTubeClient) RecentTitles(ctx context.Context, identifier string, max int) ([]string, *classify.RawError) {
	var out ytSearchResponse
	if raw := c.getJSON(ctx, "/search", map[string]string{
		"part":       "snippet",
		"channelId":  identifier,
		"order":      "date",
		"type":       "video",
		"maxResults": fmt.Sprint(max),
	}, &out); raw != nil {
		return nil, raw
	}
	titles := make([]string, 0, len(out.Items))
	for _, item := range out.Items {
		titles = append(titles, item.Snippet.Title)
	}
	return titles, nil
}

func (c *YouTubeClient) getJSON(ctx context.Context, p string, q map[string]string, out any) *classify.RawError {
	u := *c.baseURL
	u.Path += p
	qq := u.Query()
	for k, v := range q {
		qq.Set(k, v)
	}
	qq.Set("key", c.apiKey)
	u.RawQuery = qq.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return &classify.RawError{Message: err.Error()}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return &classify.RawError{Message: err.Error()}
	}
	defer resp.Body.Close() //nolint:errcheck

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return &classify.RawError{Status: resp.StatusCode, Message: err.Error()}
	}
	if resp.StatusCode != http.StatusOK {
		return youtubeRawError(resp.StatusCode, body)
	}
	if err := json.Unmarshal(body, out); err != nil {
		return &classify.RawError{Status: resp.StatusCode, Message: fmt.Sprintf("unmarshal youtube response: %v", err)}
	}
	return nil
}

// youtubeRawError lifts Google's error body into the raw failure surface,
// preserving the first reason code for classification.
func youtubeRawError(status int, body []byte) *classify.RawError {
	var parsed struct {
		Error struct {
			Code    int    `json:"code"`
			Message string `json:"message"`
			Errors  []struct {
				Reason string `json:"reason"`
			} `json:"errors"`
		} `json:"error"`
	}
	raw := &classify.RawError{Status: status, Message: string(body)}
	if err := json.Unmarshal(body, &parsed); err == nil && parsed.Error.Code != 0 {
		raw.Code = parsed.Error.Code
		raw.Message = parsed.Error.Message
		if len(parsed.Error.Errors) > 0 {
			raw.Reason = parsed.Error.Errors[0].Reason
		}
	}
	return raw
}

func pickThumbnail(s ytSnippet) string {
	switch {
	case s.Thumbnails.High.URL != "":
		return s.Thumbnails.High.URL
	case s.Thumbnails.Medium.URL != "":
		return s.Thumbnails.Medium.URL
	case s.Thumbnails.Default.URL != "":
		return s.Thumbnails.Default.URL
	}
	return noThumbnailURL
}
