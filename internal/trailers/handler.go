package trailers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"cinehub/pkg/models"
)

// TitleGetter resolves a cached title so the trailer search can use its
// display name. titles.Repo satisfies it.
type TitleGetter interface {
	GetByID(ctx context.Context, id string) (*models.Title, error)
}

type Handler struct {
	Client *Client
	Titles TitleGetter
}

func NewHandler(client *Client, titles TitleGetter) *Handler {
	return &Handler{Client: client, Titles: titles}
}

// RegisterRoutes hangs the trailer lookup off the titles group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/:id/trailer", h.getTrailer) // GET /titles/:id/trailer
}

func (h *Handler) getTrailer(c *gin.Context) {
	id := c.Param("id")

	// prefer the cached title's name; fall back to an explicit ?title=
	name := c.Query("title")
	if name == "" {
		t, err := h.Titles.GetByID(c.Request.Context(), id)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "get title failed"})
			return
		}
		if t == nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "title not found"})
			return
		}
		name = t.Title
	}

	tr, err := h.Client.FindTrailer(c.Request.Context(), name)
	if err != nil {
		switch {
		case errors.Is(err, ErrMissingAPIKey):
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "API key is missing"})
		case errors.Is(err, ErrNoTrailer):
			c.JSON(http.StatusNotFound, gin.H{"error": "no trailer found"})
		default:
			c.JSON(http.StatusBadGateway, gin.H{"error": "trailer lookup failed"})
		}
		return
	}

	c.JSON(http.StatusOK, tr)
}
