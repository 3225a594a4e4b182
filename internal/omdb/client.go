package omdb

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"cinehub/pkg/models"
)

const defaultBase = "https://www.omdbapi.com/"

// PageSize is OMDB's fixed search page size; the ?s= endpoint always
// returns at most 10 summaries per page.
const PageSize = 10

// Client talks to the OMDB JSON API. Search returns lightweight summaries;
// Lookup enriches one summary into a full Title record.
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

// Search runs an ?s= query. kind is "movie", "series" or "" (both).
func (c *Client) Search(ctx context.Context, keyword string, page int, kind string) (SearchResult, error) {
	if c.APIKey == "" {
		return SearchResult{}, ErrMissingAPIKey
	}

	q := url.Values{}
	q.Set("s", keyword)
	q.Set("page", strconv.Itoa(page))
	if kind != "" {
		q.Set("type", kind)
	}

	var sr searchResponse
	if err := c.get(ctx, q, &sr); err != nil {
		return SearchResult{}, err
	}
	return c.toSearchResult(sr)
}

func (c *Client) toSearchResult(sr searchResponse) (SearchResult, error) {
	if sr.Response != "True" {
		return SearchResult{}, &NotFoundError{Message: sr.Error}
	}

	out := SearchResult{
		Summaries: make([]models.TitleSummary, 0, len(sr.Search)),
	}
	// totalResults is a string in the payload; unparsable counts become 0.
	if n, err := strconv.Atoi(strings.TrimSpace(sr.TotalResults)); err == nil {
		out.TotalMatches = n
	}

	for _, s := range sr.Search {
		if s.ImdbID == "" {
			continue
		}
		out.Summaries = append(out.Summaries, models.TitleSummary{
			ID:    s.ImdbID,
			Title: s.Title,
			Year:  s.Year,
			Kind:  s.Type,
		})
	}
	return out, nil
}

// SearchByYear is Search narrowed to a release year (?y=).
func (c *Client) SearchByYear(ctx context.Context, keyword string, year, page int, kind string) (SearchResult, error) {
	if c.APIKey == "" {
		return SearchResult{}, ErrMissingAPIKey
	}

	q := url.Values{}
	q.Set("s", keyword)
	q.Set("y", strconv.Itoa(year))
	q.Set("page", strconv.Itoa(page))
	if kind != "" {
		q.Set("type", kind)
	}

	var sr searchResponse
	if err := c.get(ctx, q, &sr); err != nil {
		return SearchResult{}, err
	}
	return c.toSearchResult(sr)
}

// Lookup runs an ?i= query for one IMDb id.
func (c *Client) Lookup(ctx context.Context, imdbID string) (models.Title, error) {
	if c.APIKey == "" {
		return models.Title{}, ErrMissingAPIKey
	}

	q := url.Values{}
	q.Set("i", imdbID)

	var dr detailResponse
	if err := c.get(ctx, q, &dr); err != nil {
		return models.Title{}, err
	}

	if dr.Response != "True" {
		return models.Title{}, &NotFoundError{Message: dr.Error}
	}

	return models.Title{
		ID:        dr.ImdbID,
		Title:     dr.Title,
		Year:      dr.Year,
		Rated:     normalizeNA(dr.Rated),
		Released:  normalizeNA(dr.Released),
		Runtime:   normalizeNA(dr.Runtime),
		Genres:    normalizeNA(dr.Genre),
		Plot:      normalizeNA(dr.Plot),
		PosterURL: normalizeNA(dr.Poster),
		Kind:      dr.Type,
	}, nil
}

func (c *Client) get(ctx context.Context, q url.Values, v any) error {
	u, err := url.Parse(c.BaseURL)
	if err != nil {
		return fmt.Errorf("omdb: parse base url: %w", err)
	}
	q.Set("apikey", c.APIKey)
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return fmt.Errorf("omdb: build request: %w", err)
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return fmt.Errorf("omdb: request: %w", err)
	}

	body, readErr := io.ReadAll(resp.Body)
	resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("omdb: status %d: %s", resp.StatusCode, string(body))
	}
	if readErr != nil {
		return fmt.Errorf("omdb: read response: %w", readErr)
	}

	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("omdb: decode: %w", err)
	}
	return nil
}

// normalizeNA maps OMDB's "N/A" sentinel to an empty string.
func normalizeNA(s string) string {
	if strings.TrimSpace(s) == "N/A" {
		return ""
	}
	return s
}
