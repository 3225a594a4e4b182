package catalog

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"cinehub/internal/omdb"
)

type Handler struct {
	Coordinator *Coordinator
}

func NewHandler(co *Coordinator) *Handler {
	return &Handler{Coordinator: co}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.list)                      // GET /catalog
	rg.GET("/:category", h.getState)        // GET /catalog/:category
	rg.GET("/:category/view", h.view)       // GET /catalog/:category/view
	rg.POST("/:category/fetch", h.fetch)    // POST /catalog/:category/fetch
	rg.PUT("/:category/page", h.setPage)    // PUT /catalog/:category/page
	rg.POST("/reset", h.reset)              // POST /catalog/reset
}

// RegisterRootRoutes attaches the non-category endpoints (free search,
// random series) directly on the router.
func (h *Handler) RegisterRootRoutes(r *gin.Engine) {
	r.GET("/search", h.search)
	r.GET("/random-series", h.randomSeries)
}

func (h *Handler) list(c *gin.Context) {
	keys := h.Coordinator.Store.Keys()
	states := make(map[string]CategoryState, len(keys))
	for _, k := range keys {
		if st, ok := h.Coordinator.Store.Snapshot(k); ok {
			states[k] = st
		}
	}
	c.JSON(http.StatusOK, gin.H{"categories": keys, "states": states})
}

func (h *Handler) getState(c *gin.Context) {
	key := c.Param("category")
	st, ok := h.Coordinator.Store.Snapshot(key)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown category"})
		return
	}
	c.JSON(http.StatusOK, st)
}

func (h *Handler) view(c *gin.Context) {
	key := c.Param("category")
	st, ok := h.Coordinator.Store.Snapshot(key)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown category"})
		return
	}
	pageSize := parseInt(c.Query("page_size"), DefaultPageSize)
	c.JSON(http.StatusOK, VisibleSlice(st, pageSize))
}

type fetchReq struct {
	Page int `json:"page"`
}

func (h *Handler) fetch(c *gin.Context) {
	key := c.Param("category")

	var req fetchReq
	// empty body means "fetch the category's current page"
	_ = c.ShouldBindJSON(&req)
	if req.Page == 0 {
		if st, ok := h.Coordinator.Store.Snapshot(key); ok {
			req.Page = st.CurrentPage
		} else {
			req.Page = 1
		}
	}

	st, err := h.Coordinator.FetchPage(c.Request.Context(), key, req.Page)
	if err != nil {
		switch {
		case errors.Is(err, ErrUnknownCategory):
			c.JSON(http.StatusNotFound, gin.H{"error": "unknown category"})
		case errors.Is(err, ErrInvalidPage):
			c.JSON(http.StatusBadRequest, gin.H{"error": "page must be >= 1"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "fetch failed"})
		}
		return
	}
	c.JSON(http.StatusOK, st)
}

type setPageReq struct {
	Page int `json:"page"`
}

func (h *Handler) setPage(c *gin.Context) {
	key := c.Param("category")

	var req setPageReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}

	if err := h.Coordinator.Store.SetPage(key, req.Page); err != nil {
		switch {
		case errors.Is(err, ErrUnknownCategory):
			c.JSON(http.StatusNotFound, gin.H{"error": "unknown category"})
		case errors.Is(err, ErrInvalidPage):
			c.JSON(http.StatusBadRequest, gin.H{"error": "page must be >= 1"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "set page failed"})
		}
		return
	}

	st, _ := h.Coordinator.Store.Snapshot(key)
	c.JSON(http.StatusOK, st)
}

func (h *Handler) reset(c *gin.Context) {
	h.Coordinator.Store.Reset()
	c.JSON(http.StatusOK, gin.H{"message": "reset"})
}

func (h *Handler) search(c *gin.Context) {
	q := strings.TrimSpace(c.Query("q"))
	if q == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "q required"})
		return
	}

	items, total, err := h.Coordinator.SearchTitles(c.Request.Context(), q)
	if err != nil {
		h.upstreamError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"query": q,
		"total": total,
		"items": items,
	})
}

func (h *Handler) randomSeries(c *gin.Context) {
	t, err := h.Coordinator.RandomSeries(c.Request.Context())
	if err != nil {
		h.upstreamError(c, err)
		return
	}
	c.JSON(http.StatusOK, t)
}

func (h *Handler) upstreamError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, omdb.ErrMissingAPIKey):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "API key is missing"})
	case errors.Is(err, omdb.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": errMessage(err)})
	default:
		c.JSON(http.StatusBadGateway, gin.H{"error": "upstream request failed"})
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
