package trailers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

const defaultBase = "https://www.googleapis.com/youtube/v3/search"

var (
	ErrMissingAPIKey = errors.New("trailers: api key is missing")
	ErrNoTrailer     = errors.New("trailers: no trailer found")
)

// Trailer is one resolved trailer video.
type Trailer struct {
	VideoID  string `json:"video_id"`
	EmbedURL string `json:"embed_url"`
}

// Client looks up trailers through the YouTube Data API search endpoint.
type Client struct {
	HTTP    *http.Client
	BaseURL string
	APIKey  string
}

func NewClient(apiKey string) *Client {
	return &Client{
		HTTP:    &http.Client{Timeout: 10 * time.Second},
		BaseURL: defaultBase,
		APIKey:  apiKey,
	}
}

type searchResponse struct {
	Items []struct {
		ID struct {
			VideoID string `json:"videoId"`
		} `json:"id"`
	} `json:"items"`
}

// FindTrailer searches "<title> trailer" and returns the first video hit.
func (c *Client) FindTrailer(ctx context.Context, title string) (Trailer, error) {
	if c.APIKey == "" {
		return Trailer{}, ErrMissingAPIKey
	}

	u, err := url.Parse(c.BaseURL)
	if err != nil {
		return Trailer{}, fmt.Errorf("trailers: parse base url: %w", err)
	}
	q := u.Query()
	q.Set("part", "snippet")
	q.Set("q", title+" trailer")
	q.Set("key", c.APIKey)
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return Trailer{}, fmt.Errorf("trailers: build request: %w", err)
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return Trailer{}, fmt.Errorf("trailers: request: %w", err)
	}

	body, readErr := io.ReadAll(resp.Body)
	resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Trailer{}, fmt.Errorf("trailers: status %d: %s", resp.StatusCode, string(body))
	}
	if readErr != nil {
		return Trailer{}, fmt.Errorf("trailers: read response: %w", readErr)
	}

	var sr searchResponse
	if err := json.Unmarshal(body, &sr); err != nil {
		return Trailer{}, fmt.Errorf("trailers: decode: %w", err)
	}

	for _, item := range sr.Items {
		if item.ID.VideoID != "" {
			return Trailer{
				VideoID:  item.ID.VideoID,
				EmbedURL: "https://www.youtube.com/embed/" + item.ID.VideoID,
			}, nil
		}
	}
	return Trailer{}, ErrNoTrailer
}
