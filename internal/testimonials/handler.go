package testimonials

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"cinehub/internal/auth"
	"cinehub/internal/events"
)

// ProfileSource resolves the signed-in user's profile avatar; submissions
// without an avatar fall back to it. auth.Repo satisfies it.
type ProfileSource interface {
	GetAvatarURL(ctx context.Context, userID string) (string, error)
}

type Handler struct {
	Repo     *Repo
	Profiles ProfileSource
	Hub      *events.Hub
}

func NewHandler(repo *Repo, profiles ProfileSource, hub *events.Hub) *Handler {
	return &Handler{Repo: repo, Profiles: profiles, Hub: hub}
}

func (h *Handler) RegisterPublicRoutes(rg *gin.RouterGroup) {
	rg.GET("/testimonials", h.list)
}

func (h *Handler) RegisterProtectedRoutes(rg *gin.RouterGroup) {
	rg.POST("/testimonials", h.create)
	rg.DELETE("/testimonials/:id", h.delete)
}

type createReq struct {
	AvatarURL string   `json:"avatar_url"` // optional; defaults to the profile avatar
	Rating    *float64 `json:"rating"`     // pointer so an explicit 0 passes required-check
	Remark    string   `json:"remark"`
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

	avatar := strings.TrimSpace(req.AvatarURL)
	remark := strings.TrimSpace(req.Remark)

	if remark == "" || req.Rating == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "rating and remark required"})
		return
	}

	if avatar == "" && h.Profiles != nil {
		profileAvatar, err := h.Profiles.GetAvatarURL(c.Request.Context(), claims.UserID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "profile lookup failed"})
			return
		}
		avatar = profileAvatar
	}
	if avatar == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "avatar_url required when the profile has no avatar"})
		return
	}
	if u, err := url.Parse(avatar); err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		c.JSON(http.StatusBadRequest, gin.H{"error": "avatar_url must be a valid http(s) url"})
		return
	}
	if *req.Rating < 0 || *req.Rating > 5 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "rating must be between 0 and 5"})
		return
	}

	t, err := h.Repo.Create(c.Request.Context(), claims.UserID, avatar, *req.Rating, remark)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "create failed"})
		return
	}

	if h.Hub != nil {
		ev := events.TestimonialEvent{
			Type:   "testimonial.add",
			UserID: claims.UserID,
			ID:     t.ID,
			At:     time.Now().UTC(),
		}
		go h.Hub.BroadcastJSON(ev)
	}

	c.JSON(http.StatusCreated, t)
}

func (h *Handler) list(c *gin.Context) {
	limit := parseInt(c.Query("limit"), 20)
	offset := parseInt(c.Query("offset"), 0)

	items, total, err := h.Repo.List(c.Request.Context(), limit, offset)
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

func (h *Handler) delete(c *gin.Context) {
	claims := auth.MustGetClaims(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	idRaw := strings.TrimSpace(c.Param("id"))
	id, err := strconv.ParseInt(idRaw, 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	ok, err := h.Repo.Delete(c.Request.Context(), id, claims.UserID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "delete failed"})
		return
	}
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}

	if h.Hub != nil {
		ev := events.TestimonialEvent{
			Type:   "testimonial.delete",
			UserID: claims.UserID,
			ID:     id,
			At:     time.Now().UTC(),
		}
		go h.Hub.BroadcastJSON(ev)
	}

	c.JSON(http.StatusOK, gin.H{"message": "deleted"})
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
