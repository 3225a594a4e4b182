package models

import "time"

// Title is the fully enriched record for one movie or series, as fetched
// from the OMDB detail endpoint by IMDb id. It mirrors upstream data and is
// never mutated locally, only replaced on refetch.
type Title struct {
	ID        string    `json:"id"` // IMDb id, e.g. "tt0468569"
	Title     string    `json:"title"`
	Year      string    `json:"year"`
	Rated     string    `json:"rated,omitempty"`
	Released  string    `json:"released,omitempty"`
	Runtime   string    `json:"runtime,omitempty"`
	Genres    string    `json:"genres,omitempty"` // comma-separated, as OMDB reports it
	Plot      string    `json:"plot,omitempty"`
	PosterURL string    `json:"poster_url,omitempty"` // "N/A" upstream is normalized to ""
	Kind      string    `json:"kind"`                 // "movie" or "series"
	FetchedAt time.Time `json:"fetched_at,omitempty"`
}

// TitleSummary is the lightweight record returned by an OMDB search; a
// detail lookup per id turns these into full Title records.
type TitleSummary struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Year  string `json:"year,omitempty"`
	Kind  string `json:"kind,omitempty"`
}
