package testimonials

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"cinehub/pkg/models"
)

type Repo struct {
	DB *sql.DB
}

func NewRepo(db *sql.DB) *Repo {
	return &Repo{DB: db}
}

func (r *Repo) Create(ctx context.Context, userID, avatarURL string, rating float64, remark string) (*models.Testimonial, error) {
	res, err := r.DB.ExecContext(ctx, `
		INSERT INTO testimonials (user_id, avatar_url, rating, remark)
		VALUES (?, ?, ?, ?)
	`, userID, avatarURL, rating, remark)
	if err != nil {
		return nil, fmt.Errorf("insert testimonial: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}

	return r.GetByID(ctx, id)
}

func (r *Repo) GetByID(ctx context.Context, id int64) (*models.Testimonial, error) {
	row := r.DB.QueryRowContext(ctx, `
		SELECT id, user_id, avatar_url, rating, remark, created_at
		FROM testimonials
		WHERE id = ?
	`, id)

	var t models.Testimonial
	var created time.Time
	if err := row.Scan(&t.ID, &t.UserID, &t.AvatarURL, &t.Rating, &t.Remark, &created); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("scan testimonial: %w", err)
	}
	t.CreatedAt = created
	return &t, nil
}

func (r *Repo) List(ctx context.Context, limit, offset int) ([]models.Testimonial, int, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	var total int
	if err := r.DB.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM testimonials
	`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count testimonials: %w", err)
	}

	rows, err := r.DB.QueryContext(ctx, `
		SELECT id, user_id, avatar_url, rating, remark, created_at
		FROM testimonials
		ORDER BY created_at DESC
		LIMIT ? OFFSET ?
	`, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list testimonials: %w", err)
	}
	defer rows.Close()

	out := make([]models.Testimonial, 0, limit)
	for rows.Next() {
		var t models.Testimonial
		var created time.Time

		if err := rows.Scan(&t.ID, &t.UserID, &t.AvatarURL, &t.Rating, &t.Remark, &created); err != nil {
			return nil, 0, fmt.Errorf("scan testimonial row: %w", err)
		}
		t.CreatedAt = created
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("rows err: %w", err)
	}
	return out, total, nil
}

func (r *Repo) Delete(ctx context.Context, id int64, userID string) (bool, error) {
	res, err := r.DB.ExecContext(ctx, `
		DELETE FROM testimonials
		WHERE id = ? AND user_id = ?
	`, id, userID)
	if err != nil {
		return false, fmt.Errorf("delete testimonial: %w", err)
	}
	rows, _ := res.RowsAffected()
	return rows > 0, nil
}
