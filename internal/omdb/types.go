package omdb

import "cinehub/pkg/models"

// SearchResult is one settled search call: the page of summaries plus the
// total match count OMDB reports for the query.
type SearchResult struct {
	Summaries    []models.TitleSummary
	TotalMatches int
}

// searchResponse mirrors the OMDB ?s= payload. totalResults arrives as a
// string; Response is "True"/"False".
type searchResponse struct {
	Search []struct {
		Title  string `json:"Title"`
		Year   string `json:"Year"`
		ImdbID string `json:"imdbID"`
		Type   string `json:"Type"`
		Poster string `json:"Poster"`
	} `json:"Search"`
	TotalResults string `json:"totalResults"`
	Response     string `json:"Response"`
	Error        string `json:"Error"`
}

// detailResponse mirrors the OMDB ?i= payload (subset we keep).
type detailResponse struct {
	Title    string `json:"Title"`
	Year     string `json:"Year"`
	Rated    string `json:"Rated"`
	Released string `json:"Released"`
	Runtime  string `json:"Runtime"`
	Genre    string `json:"Genre"`
	Plot     string `json:"Plot"`
	Poster   string `json:"Poster"`
	ImdbID   string `json:"imdbID"`
	Type     string `json:"Type"`
	Response string `json:"Response"`
	Error    string `json:"Error"`
}
