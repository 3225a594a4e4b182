package catalog

// Category is one statically enumerated browsing shelf. Key is the state
// key the API exposes, Keyword is what we send to the upstream search, and
// Kind narrows the upstream type filter ("movie" or "series").
type Category struct {
	Key     string `json:"key"`
	Keyword string `json:"keyword"`
	Kind    string `json:"kind"`
}

// DefaultCategories lists the shelves the app renders: three movie genres
// and three series genres.
func DefaultCategories() []Category {
	return []Category{
		{Key: "action", Keyword: "Action", Kind: "movie"},
		{Key: "adventure", Keyword: "Adventure", Kind: "movie"},
		{Key: "comedy", Keyword: "Comedy", Kind: "movie"},
		{Key: "drama", Keyword: "Drama", Kind: "series"},
		{Key: "horror", Keyword: "Horror", Kind: "series"},
		{Key: "thriller", Keyword: "Thriller", Kind: "series"},
	}
}
