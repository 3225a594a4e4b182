package events

import "time"

// Event types broadcast to connected clients so other sessions of the same
// user refresh their bookmark/testimonial views live.
type BookmarkEvent struct {
	Type    string    `json:"type"` // "bookmark.add" or "bookmark.delete"
	UserID  string    `json:"user_id"`
	TitleID string    `json:"title_id"`
	Kind    string    `json:"kind,omitempty"`
	At      time.Time `json:"at"`
}

type TestimonialEvent struct {
	Type   string    `json:"type"` // "testimonial.add" or "testimonial.delete"
	UserID string    `json:"user_id"`
	ID     int64     `json:"id"`
	At     time.Time `json:"at"`
}
