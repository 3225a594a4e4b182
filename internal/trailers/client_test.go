package trailers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	c := NewClient("test-key")
	c.BaseURL = server.URL
	return c
}

func TestFindTrailerReturnsFirstHit(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Inception trailer", r.URL.Query().Get("q"))
		assert.Equal(t, "snippet", r.URL.Query().Get("part"))
		assert.Equal(t, "test-key", r.URL.Query().Get("key"))

		w.Write([]byte(`{
			"items": [
				{"id": {"videoId": "abc123"}},
				{"id": {"videoId": "def456"}}
			]
		}`))
	})

	tr, err := c.FindTrailer(context.Background(), "Inception")
	require.NoError(t, err)
	assert.Equal(t, "abc123", tr.VideoID)
	assert.Equal(t, "https://www.youtube.com/embed/abc123", tr.EmbedURL)
}

func TestFindTrailerNoResults(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"items": []}`))
	})

	_, err := c.FindTrailer(context.Background(), "Inception")
	assert.ErrorIs(t, err, ErrNoTrailer)
}

func TestFindTrailerMissingAPIKey(t *testing.T) {
	hits := 0
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		hits++
	})
	c.APIKey = ""

	_, err := c.FindTrailer(context.Background(), "Inception")
	assert.ErrorIs(t, err, ErrMissingAPIKey)
	assert.Equal(t, 0, hits)
}

func TestFindTrailerTruncatedBody(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		// promise more bytes than we send so the client read fails
		w.Header().Set("Content-Length", "500")
		w.Write([]byte(`{"items": [`))
	})

	_, err := c.FindTrailer(context.Background(), "Inception")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read response")
}

func TestFindTrailerUpstreamError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusForbidden)
	})

	_, err := c.FindTrailer(context.Background(), "Inception")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 403")
}
