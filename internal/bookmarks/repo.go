package bookmarks

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/mattn/go-sqlite3"

	"cinehub/pkg/models"
)

// ErrDuplicate reports a second bookmark for the same (user, title) pair.
var ErrDuplicate = errors.New("bookmarks: already bookmarked")

type Repo struct {
	DB *sql.DB
}

func NewRepo(db *sql.DB) *Repo {
	return &Repo{DB: db}
}

// Create inserts a bookmark. The UNIQUE(user_id, title_id) constraint is the
// single duplicate check, so concurrent creates for the same title race
// safely; the loser gets ErrDuplicate.
func (r *Repo) Create(ctx context.Context, b models.Bookmark) error {
	_, err := r.DB.ExecContext(ctx, `
		INSERT INTO bookmarks (id, user_id, title_id, kind)
		VALUES (?, ?, ?, ?)
	`, b.ID, b.UserID, b.TitleID, b.Kind)
	if err != nil {
		var sqliteErr sqlite3.Error
		if errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique {
			return ErrDuplicate
		}
		return fmt.Errorf("create bookmark: %w", err)
	}
	return nil
}

func (r *Repo) Delete(ctx context.Context, userID, id string) (bool, error) {
	res, err := r.DB.ExecContext(ctx, `
		DELETE FROM bookmarks
		WHERE id = ? AND user_id = ?
	`, id, userID)
	if err != nil {
		return false, fmt.Errorf("delete bookmark: %w", err)
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

func (r *Repo) Get(ctx context.Context, userID, id string) (*models.Bookmark, error) {
	row := r.DB.QueryRowContext(ctx, `
		SELECT id, user_id, title_id, kind, created_at
		FROM bookmarks
		WHERE id = ? AND user_id = ?
	`, id, userID)

	var b models.Bookmark
	var created time.Time
	if err := row.Scan(&b.ID, &b.UserID, &b.TitleID, &b.Kind, &created); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("get bookmark: %w", err)
	}
	b.CreatedAt = created
	return &b, nil
}

// GetByTitle finds the user's bookmark for one title, if any.
func (r *Repo) GetByTitle(ctx context.Context, userID, titleID string) (*models.Bookmark, error) {
	row := r.DB.QueryRowContext(ctx, `
		SELECT id, user_id, title_id, kind, created_at
		FROM bookmarks
		WHERE user_id = ? AND title_id = ?
	`, userID, titleID)

	var b models.Bookmark
	var created time.Time
	if err := row.Scan(&b.ID, &b.UserID, &b.TitleID, &b.Kind, &created); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("get bookmark by title: %w", err)
	}
	b.CreatedAt = created
	return &b, nil
}

// List returns the user's bookmarks newest first, with the cached title
// record joined in when the titles cache has it.
func (r *Repo) List(ctx context.Context, userID, kind string, limit, offset int) ([]models.Bookmark, int, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	var total int
	var countErr error
	if kind == "" {
		countErr = r.DB.QueryRowContext(ctx, `
			SELECT COUNT(*) FROM bookmarks WHERE user_id = ?
		`, userID).Scan(&total)
	} else {
		countErr = r.DB.QueryRowContext(ctx, `
			SELECT COUNT(*) FROM bookmarks WHERE user_id = ? AND kind = ?
		`, userID, kind).Scan(&total)
	}
	if countErr != nil {
		return nil, 0, fmt.Errorf("count bookmarks: %w", countErr)
	}

	query := `
		SELECT b.id, b.user_id, b.title_id, b.kind, b.created_at,
		       t.id, t.title, t.year, t.rated, t.released, t.runtime, t.genres, t.plot, t.poster_url, t.kind
		FROM bookmarks b
		LEFT JOIN titles t ON t.id = b.title_id
		WHERE b.user_id = ?
	`
	args := []any{userID}
	if kind != "" {
		query += " AND b.kind = ?"
		args = append(args, kind)
	}
	query += " ORDER BY b.created_at DESC LIMIT ? OFFSET ?"
	args = append(args, limit, offset)

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list bookmarks: %w", err)
	}
	defer rows.Close()

	out := make([]models.Bookmark, 0, limit)
	for rows.Next() {
		var (
			b       models.Bookmark
			created time.Time

			tID, tTitle, tYear, tRated, tReleased, tRuntime, tGenres, tPlot, tPoster, tKind sql.NullString
		)

		if err := rows.Scan(
			&b.ID, &b.UserID, &b.TitleID, &b.Kind, &created,
			&tID, &tTitle, &tYear, &tRated, &tReleased, &tRuntime, &tGenres, &tPlot, &tPoster, &tKind,
		); err != nil {
			return nil, 0, fmt.Errorf("scan bookmark row: %w", err)
		}
		b.CreatedAt = created

		if tID.Valid {
			b.Title = &models.Title{
				ID:        tID.String,
				Title:     tTitle.String,
				Year:      tYear.String,
				Rated:     tRated.String,
				Released:  tReleased.String,
				Runtime:   tRuntime.String,
				Genres:    tGenres.String,
				Plot:      tPlot.String,
				PosterURL: tPoster.String,
				Kind:      tKind.String,
			}
		}
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("rows err: %w", err)
	}

	return out, total, nil
}
