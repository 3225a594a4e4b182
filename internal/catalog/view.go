package catalog

import "cinehub/pkg/models"

// DefaultPageSize is the UI window on wide viewports; narrow viewports use 1.
const DefaultPageSize = 4

// PageView is the derived window the UI actually renders: a sub-slice of
// the fetched upstream page plus pagination math against the total count.
type PageView struct {
	Items             []models.Title `json:"items"`
	CurrentPage       int            `json:"current_page"`
	PageSize          int            `json:"page_size"`
	TotalPages        int            `json:"total_pages"`
	TotalAvailable    int            `json:"total_available"`
	PaginationEnabled bool           `json:"pagination_enabled"`
}

// VisibleSlice windows the category's items to
// [(currentPage-1)*pageSize, currentPage*pageSize), clipped to what was
// fetched. Pagination is disabled when a single page covers everything.
func VisibleSlice(st CategoryState, pageSize int) PageView {
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}

	start := (st.CurrentPage - 1) * pageSize
	end := start + pageSize
	if start < 0 || start > len(st.Items) {
		start = len(st.Items)
	}
	if end > len(st.Items) {
		end = len(st.Items)
	}

	items := make([]models.Title, end-start)
	copy(items, st.Items[start:end])

	totalPages := (st.TotalAvailable + pageSize - 1) / pageSize

	return PageView{
		Items:             items,
		CurrentPage:       st.CurrentPage,
		PageSize:          pageSize,
		TotalPages:        totalPages,
		TotalAvailable:    st.TotalAvailable,
		PaginationEnabled: st.TotalAvailable > pageSize,
	}
}
