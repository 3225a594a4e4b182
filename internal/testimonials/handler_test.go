package testimonials

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cinehub/internal/auth"
)

type stubProfiles struct {
	avatar string
}

func (s stubProfiles) GetAvatarURL(context.Context, string) (string, error) {
	return s.avatar, nil
}

func newTestRouter(t *testing.T) *gin.Engine {
	return newTestRouterWithProfile(t, "")
}

func newTestRouterWithProfile(t *testing.T, profileAvatar string) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	h := NewHandler(NewRepo(newTestDB(t)), stubProfiles{avatar: profileAvatar}, nil)

	r := gin.New()
	public := r.Group("/")
	h.RegisterPublicRoutes(public)

	protected := r.Group("/users")
	protected.Use(func(c *gin.Context) {
		// stand-in for the bearer middleware
		c.Set(auth.CtxClaimsKey, &auth.Claims{UserID: testUserID, Username: "alice"})
		c.Next()
	})
	h.RegisterProtectedRoutes(protected)

	return r
}

func postJSON(r *gin.Engine, path, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	return w
}

func TestCreateTestimonial(t *testing.T) {
	r := newTestRouter(t)

	w := postJSON(r, "/users/testimonials", `{
		"avatar_url": "https://example.com/a.png",
		"rating": 4.5,
		"remark": "Found my new favorite series here."
	}`)
	require.Equal(t, http.StatusCreated, w.Code)

	var created struct {
		ID     int64   `json:"id"`
		UserID string  `json:"user_id"`
		Rating float64 `json:"rating"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.NotZero(t, created.ID)
	assert.Equal(t, testUserID, created.UserID)
	assert.Equal(t, 4.5, created.Rating)
}

func TestCreateTestimonialValidation(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"missing rating", `{"avatar_url": "https://example.com/a.png", "remark": "hi"}`},
		{"rating too high", `{"avatar_url": "https://example.com/a.png", "rating": 5.5, "remark": "hi"}`},
		{"rating negative", `{"avatar_url": "https://example.com/a.png", "rating": -1, "remark": "hi"}`},
		{"missing remark", `{"avatar_url": "https://example.com/a.png", "rating": 3}`},
		{"no avatar anywhere", `{"rating": 3, "remark": "hi"}`},
		{"avatar not a url", `{"avatar_url": "not a url", "rating": 3, "remark": "hi"}`},
		{"avatar wrong scheme", `{"avatar_url": "ftp://example.com/a.png", "rating": 3, "remark": "hi"}`},
		{"bad json", `{`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newTestRouter(t)
			w := postJSON(r, "/users/testimonials", tt.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}

func TestCreateTestimonialAvatarFromProfile(t *testing.T) {
	r := newTestRouterWithProfile(t, "https://example.com/profile.png")

	// no avatar_url in the body; the profile avatar fills in
	w := postJSON(r, "/users/testimonials", `{
		"rating": 4,
		"remark": "works without re-sending my avatar"
	}`)
	require.Equal(t, http.StatusCreated, w.Code)

	var created struct {
		AvatarURL string `json:"avatar_url"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.Equal(t, "https://example.com/profile.png", created.AvatarURL)
}

func TestCreateTestimonialExplicitAvatarWinsOverProfile(t *testing.T) {
	r := newTestRouterWithProfile(t, "https://example.com/profile.png")

	w := postJSON(r, "/users/testimonials", `{
		"avatar_url": "https://example.com/custom.png",
		"rating": 4,
		"remark": "custom avatar"
	}`)
	require.Equal(t, http.StatusCreated, w.Code)

	var created struct {
		AvatarURL string `json:"avatar_url"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.Equal(t, "https://example.com/custom.png", created.AvatarURL)
}

func TestCreateTestimonialExplicitZeroRating(t *testing.T) {
	r := newTestRouter(t)

	// zero is a legal rating, the pointer binding must not drop it
	w := postJSON(r, "/users/testimonials", `{
		"avatar_url": "https://example.com/a.png",
		"rating": 0,
		"remark": "not for me"
	}`)
	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestListTestimonialsIsPublic(t *testing.T) {
	r := newTestRouter(t)

	w := postJSON(r, "/users/testimonials", `{
		"avatar_url": "https://example.com/a.png",
		"rating": 5,
		"remark": "best catalog around"
	}`)
	require.Equal(t, http.StatusCreated, w.Code)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/testimonials", nil)
	r.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Total int `json:"total"`
		Items []struct {
			Remark string `json:"remark"`
		} `json:"items"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp.Total)
	require.Len(t, resp.Items, 1)
	assert.Equal(t, "best catalog around", resp.Items[0].Remark)
}

func TestDeleteTestimonial(t *testing.T) {
	r := newTestRouter(t)

	w := postJSON(r, "/users/testimonials", `{
		"avatar_url": "https://example.com/a.png",
		"rating": 4,
		"remark": "solid"
	}`)
	require.Equal(t, http.StatusCreated, w.Code)

	var created struct {
		ID int64 `json:"id"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodDelete, "/users/testimonials/1", nil)
	r.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodDelete, "/users/testimonials/1", nil)
	r.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodDelete, "/users/testimonials/abc", nil)
	r.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
