package models

import "time"

type Testimonial struct {
	ID        int64     `json:"id"`
	UserID    string    `json:"user_id"`
	AvatarURL string    `json:"avatar_url"`
	Rating    float64   `json:"rating"` // 0..5 inclusive
	Remark    string    `json:"remark"`
	CreatedAt time.Time `json:"created_at"`
}
