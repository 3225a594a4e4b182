package bookmarks

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"cinehub/internal/auth"
	"cinehub/internal/events"
	"cinehub/pkg/models"
)

type Handler struct {
	Repo *Repo
	Hub  *events.Hub
}

func NewHandler(repo *Repo, hub *events.Hub) *Handler {
	return &Handler{Repo: repo, Hub: hub}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/bookmarks", h.list)
	rg.POST("/bookmarks", h.create)
	rg.GET("/bookmarks/title/:titleID", h.getByTitle)
	rg.GET("/bookmarks/:id", h.getOne)
	rg.DELETE("/bookmarks/:id", h.remove)
}

type createReq struct {
	TitleID string `json:"title_id"`
	Kind    string `json:"kind"`
}

func (h *Handler) create(c *gin.Context) {
	claims := auth.MustGetClaims(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req createReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}

	titleID := strings.TrimSpace(req.TitleID)
	if titleID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "title_id required"})
		return
	}

	kind := normalizeKind(req.Kind)
	if kind == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "kind must be movie or series"})
		return
	}

	b := models.Bookmark{
		ID:      uuid.NewString(),
		UserID:  claims.UserID,
		TitleID: titleID,
		Kind:    kind,
	}

	// the unique constraint is the duplicate check, so concurrent creates
	// for the same title cannot slip past a read-then-insert window
	if err := h.Repo.Create(c.Request.Context(), b); err != nil {
		if errors.Is(err, ErrDuplicate) {
			c.JSON(http.StatusConflict, gin.H{"error": "already bookmarked"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "save failed"})
		return
	}

	saved, err := h.Repo.Get(c.Request.Context(), claims.UserID, b.ID)
	if err != nil || saved == nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "fetch saved failed"})
		return
	}

	if h.Hub != nil {
		ev := events.BookmarkEvent{
			Type:    "bookmark.add",
			UserID:  claims.UserID,
			TitleID: titleID,
			Kind:    kind,
			At:      time.Now().UTC(),
		}
		go h.Hub.BroadcastJSON(ev)
	}

	c.JSON(http.StatusCreated, saved)
}

func (h *Handler) list(c *gin.Context) {
	claims := auth.MustGetClaims(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	kind := strings.TrimSpace(c.Query("kind"))
	if kind != "" {
		kind = normalizeKind(kind)
		if kind == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid kind filter"})
			return
		}
	}

	limit := parseInt(c.Query("limit"), 20)
	offset := parseInt(c.Query("offset"), 0)

	items, total, err := h.Repo.List(c.Request.Context(), claims.UserID, kind, limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "list failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"total":  total,
		"limit":  limit,
		"offset": offset,
		"items":  items,
	})
}

// getByTitle answers "is this title bookmarked" for the signed-in user, so
// the detail page can render its bookmark toggle.
func (h *Handler) getByTitle(c *gin.Context) {
	claims := auth.MustGetClaims(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	titleID := strings.TrimSpace(c.Param("titleID"))
	if titleID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "title id required"})
		return
	}

	b, err := h.Repo.GetByTitle(c.Request.Context(), claims.UserID, titleID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "get failed"})
		return
	}
	if b == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "not bookmarked"})
		return
	}
	c.JSON(http.StatusOK, b)
}

func (h *Handler) getOne(c *gin.Context) {
	claims := auth.MustGetClaims(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	id := strings.TrimSpace(c.Param("id"))
	if id == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id required"})
		return
	}

	b, err := h.Repo.Get(c.Request.Context(), claims.UserID, id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "get failed"})
		return
	}
	if b == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}
	c.JSON(http.StatusOK, b)
}

func (h *Handler) remove(c *gin.Context) {
	claims := auth.MustGetClaims(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	id := strings.TrimSpace(c.Param("id"))
	if id == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id required"})
		return
	}

	// fetch first so the delete event can carry the title id
	b, err := h.Repo.Get(c.Request.Context(), claims.UserID, id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "get failed"})
		return
	}
	if b == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}

	ok, err := h.Repo.Delete(c.Request.Context(), claims.UserID, id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "delete failed"})
		return
	}
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}

	if h.Hub != nil {
		ev := events.BookmarkEvent{
			Type:    "bookmark.delete",
			UserID:  claims.UserID,
			TitleID: b.TitleID,
			Kind:    b.Kind,
			At:      time.Now().UTC(),
		}
		go h.Hub.BroadcastJSON(ev)
	}

	c.JSON(http.StatusOK, gin.H{"message": "deleted"})
}

func normalizeKind(s string) string {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "movie":
		return "movie"
	case "series", "tv", "tv-series", "tv_series":
		return "series"
	default:
		return ""
	}
}

func parseInt(s string, def int) int {
	s = strings.TrimSpace(s)
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}
