package auth

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cinehub/pkg/database"
)

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := database.Open(database.Config{Path: ":memory:"})
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, database.MigrateFile(db, "../../docs/schema.sql"))
	return db
}

func newAuthRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	repo := NewRepo(newTestDB(t))
	tokens := TokenService{Secret: []byte("test-secret"), Issuer: "cinehub", Duration: time.Hour}
	h := NewHandler(repo, tokens)

	r := gin.New()
	h.RegisterRoutes(r.Group("/auth"))

	protected := r.Group("/users")
	protected.Use(AuthMiddleware(tokens, repo))
	h.RegisterProfileRoutes(protected)

	return r
}

func doReq(r *gin.Engine, method, path, body, token string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	r.ServeHTTP(w, req)
	return w
}

type authResp struct {
	User struct {
		ID        string `json:"id"`
		Username  string `json:"username"`
		Email     string `json:"email"`
		AvatarURL string `json:"avatar_url"`
	} `json:"user"`
	Token string `json:"token"`
}

func register(t *testing.T, r *gin.Engine, body string) authResp {
	t.Helper()
	w := doReq(r, http.MethodPost, "/auth/register", body, "")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var resp authResp
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Token)
	return resp
}

const aliceReq = `{
	"username": "alice",
	"email": "alice@example.com",
	"password": "hunter2hunter2",
	"avatar_url": "https://example.com/alice.png"
}`

func TestRegisterAndMe(t *testing.T) {
	r := newAuthRouter(t)

	resp := register(t, r, aliceReq)
	assert.Equal(t, "alice", resp.User.Username)
	assert.Equal(t, "https://example.com/alice.png", resp.User.AvatarURL)

	w := doReq(r, http.MethodGet, "/users/me", "", resp.Token)
	require.Equal(t, http.StatusOK, w.Code)

	var me struct {
		ID        string `json:"id"`
		AvatarURL string `json:"avatar_url"`
		CreatedAt string `json:"created_at"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &me))
	assert.Equal(t, resp.User.ID, me.ID)
	assert.Equal(t, "https://example.com/alice.png", me.AvatarURL)
	assert.NotEmpty(t, me.CreatedAt)
}

func TestRegisterValidation(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"short username", `{"username": "al", "email": "a@b.com", "password": "hunter2hunter2"}`},
		{"bad email", `{"username": "alice", "email": "nope", "password": "hunter2hunter2"}`},
		{"short password", `{"username": "alice", "email": "a@b.com", "password": "short"}`},
		{"bad avatar scheme", `{"username": "alice", "email": "a@b.com", "password": "hunter2hunter2", "avatar_url": "ftp://x/a.png"}`},
		{"bad json", `{`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newAuthRouter(t)
			w := doReq(r, http.MethodPost, "/auth/register", tt.body, "")
			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}

func TestRegisterDuplicates(t *testing.T) {
	r := newAuthRouter(t)
	register(t, r, aliceReq)

	w := doReq(r, http.MethodPost, "/auth/register", aliceReq, "")
	assert.Equal(t, http.StatusConflict, w.Code)

	// same username, different email
	w = doReq(r, http.MethodPost, "/auth/register", `{
		"username": "alice",
		"email": "alice2@example.com",
		"password": "hunter2hunter2"
	}`, "")
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestLogin(t *testing.T) {
	r := newAuthRouter(t)
	register(t, r, aliceReq)

	w := doReq(r, http.MethodPost, "/auth/login", `{
		"email": "alice@example.com",
		"password": "hunter2hunter2"
	}`, "")
	require.Equal(t, http.StatusOK, w.Code)

	var resp authResp
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, "https://example.com/alice.png", resp.User.AvatarURL)

	w = doReq(r, http.MethodPost, "/auth/login", `{
		"email": "alice@example.com",
		"password": "wrong-password"
	}`, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doReq(r, http.MethodPost, "/auth/login", `{
		"email": "nobody@example.com",
		"password": "hunter2hunter2"
	}`, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestChangePasswordInvalidatesOldTokens(t *testing.T) {
	r := newAuthRouter(t)
	resp := register(t, r, aliceReq)

	w := doReq(r, http.MethodPost, "/auth/change-password", `{
		"old_password": "hunter2hunter2",
		"new_password": "correct-horse-battery"
	}`, resp.Token)
	require.Equal(t, http.StatusOK, w.Code)

	// the version bump makes the old token stale
	w = doReq(r, http.MethodGet, "/users/me", "", resp.Token)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doReq(r, http.MethodPost, "/auth/login", `{
		"email": "alice@example.com",
		"password": "correct-horse-battery"
	}`, "")
	assert.Equal(t, http.StatusOK, w.Code)

	w = doReq(r, http.MethodPost, "/auth/login", `{
		"email": "alice@example.com",
		"password": "hunter2hunter2"
	}`, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestChangePasswordWrongOldPassword(t *testing.T) {
	r := newAuthRouter(t)
	resp := register(t, r, aliceReq)

	w := doReq(r, http.MethodPost, "/auth/change-password", `{
		"old_password": "not-my-password",
		"new_password": "correct-horse-battery"
	}`, resp.Token)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestLogoutInvalidatesToken(t *testing.T) {
	r := newAuthRouter(t)
	resp := register(t, r, aliceReq)

	w := doReq(r, http.MethodPost, "/auth/logout", "", resp.Token)
	require.Equal(t, http.StatusOK, w.Code)

	w = doReq(r, http.MethodGet, "/users/me", "", resp.Token)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestUpdateAvatar(t *testing.T) {
	r := newAuthRouter(t)
	resp := register(t, r, `{
		"username": "bob",
		"email": "bob@example.com",
		"password": "hunter2hunter2"
	}`)
	assert.Empty(t, resp.User.AvatarURL)

	w := doReq(r, http.MethodPut, "/users/me/avatar", `{
		"avatar_url": "https://example.com/bob.png"
	}`, resp.Token)
	require.Equal(t, http.StatusOK, w.Code)

	w = doReq(r, http.MethodGet, "/users/me", "", resp.Token)
	require.Equal(t, http.StatusOK, w.Code)

	var me struct {
		AvatarURL string `json:"avatar_url"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &me))
	assert.Equal(t, "https://example.com/bob.png", me.AvatarURL)

	w = doReq(r, http.MethodPut, "/users/me/avatar", `{"avatar_url": "not a url"}`, resp.Token)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestProtectedRoutesRejectMissingToken(t *testing.T) {
	r := newAuthRouter(t)

	assert.Equal(t, http.StatusUnauthorized, doReq(r, http.MethodGet, "/users/me", "", "").Code)
	assert.Equal(t, http.StatusUnauthorized, doReq(r, http.MethodPost, "/auth/logout", "", "").Code)
	assert.Equal(t, http.StatusUnauthorized, doReq(r, http.MethodGet, "/users/me", "", "garbage-token").Code)
}
