package models

import "time"

type Bookmark struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	TitleID   string    `json:"title_id"`
	Kind      string    `json:"kind"` // "movie" or "series"
	CreatedAt time.Time `json:"created_at"`
	Title     *Title    `json:"title,omitempty"` // joined from the titles cache when available
}
