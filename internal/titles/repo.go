package titles

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"cinehub/pkg/models"
)

type Repo struct {
	DB *sql.DB
}

type ListQuery struct {
	Q      string // keyword search in title
	Genre  string // substring match against the stored genre list
	Kind   string // movie | series
	Limit  int
	Offset int
}

func NewRepo(db *sql.DB) *Repo {
	return &Repo{DB: db}
}

func (r *Repo) GetByID(ctx context.Context, id string) (*models.Title, error) {
	row := r.DB.QueryRowContext(ctx, `
		SELECT id, title, year, rated, released, runtime, genres, plot, poster_url, kind, fetched_at
		FROM titles
		WHERE id = ?
	`, id)

	t, err := scanTitle(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("scan getByID: %w", err)
	}
	return t, nil
}

func (r *Repo) Count(ctx context.Context, q ListQuery) (int, error) {
	sqlStr, args := buildListSQL(q, true)
	row := r.DB.QueryRowContext(ctx, sqlStr, args...)
	var total int
	if err := row.Scan(&total); err != nil {
		return 0, fmt.Errorf("count scan: %w", err)
	}
	return total, nil
}

func (r *Repo) List(ctx context.Context, q ListQuery) ([]models.Title, error) {
	sqlStr, args := buildListSQL(q, false)

	rows, err := r.DB.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, fmt.Errorf("list query: %w", err)
	}
	defer rows.Close()

	out := make([]models.Title, 0, q.Limit)
	for rows.Next() {
		t, err := scanTitle(rows)
		if err != nil {
			return nil, fmt.Errorf("list scan: %w", err)
		}
		out = append(out, *t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows err: %w", err)
	}
	return out, nil
}

// SaveAll upserts fetched detail records in one transaction. The catalog
// coordinator calls this after every successful page.
func (r *Repo) SaveAll(ctx context.Context, titles []models.Title) error {
	if len(titles) == 0 {
		return nil
	}

	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO titles (id, title, year, rated, released, runtime, genres, plot, poster_url, kind, fetched_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(id) DO UPDATE SET
		  title = excluded.title,
		  year = excluded.year,
		  rated = excluded.rated,
		  released = excluded.released,
		  runtime = excluded.runtime,
		  genres = excluded.genres,
		  plot = excluded.plot,
		  poster_url = excluded.poster_url,
		  kind = excluded.kind,
		  fetched_at = CURRENT_TIMESTAMP
	`)
	if err != nil {
		return fmt.Errorf("prepare stmt: %w", err)
	}
	defer stmt.Close()

	for _, t := range titles {
		if t.ID == "" {
			continue
		}
		kind := t.Kind
		if kind == "" {
			kind = "movie"
		}
		if _, err := stmt.ExecContext(
			ctx,
			t.ID, t.Title, t.Year, t.Rated, t.Released, t.Runtime, t.Genres, t.Plot, t.PosterURL, kind,
		); err != nil {
			return fmt.Errorf("exec upsert for %s: %w", t.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTitle(row rowScanner) (*models.Title, error) {
	var (
		t         models.Title
		year      sql.NullString
		rated     sql.NullString
		released  sql.NullString
		runtime   sql.NullString
		genres    sql.NullString
		plot      sql.NullString
		posterURL sql.NullString
		fetchedAt time.Time
	)

	if err := row.Scan(
		&t.ID, &t.Title, &year, &rated, &released, &runtime, &genres, &plot, &posterURL, &t.Kind, &fetchedAt,
	); err != nil {
		return nil, err
	}

	t.Year = year.String
	t.Rated = rated.String
	t.Released = released.String
	t.Runtime = runtime.String
	t.Genres = genres.String
	t.Plot = plot.String
	t.PosterURL = posterURL.String
	t.FetchedAt = fetchedAt
	return &t, nil
}

// buildListSQL builds either COUNT(*) or SELECT list.
func buildListSQL(q ListQuery, countOnly bool) (string, []any) {
	baseSelect := `
		SELECT id, title, year, rated, released, runtime, genres, plot, poster_url, kind, fetched_at
		FROM titles
	`
	if countOnly {
		baseSelect = `SELECT COUNT(*) FROM titles`
	}

	var where []string
	var args []any

	if strings.TrimSpace(q.Q) != "" {
		where = append(where, "LOWER(title) LIKE ?")
		args = append(args, "%"+strings.ToLower(strings.TrimSpace(q.Q))+"%")
	}

	if strings.TrimSpace(q.Genre) != "" {
		where = append(where, "LOWER(genres) LIKE ?")
		args = append(args, "%"+strings.ToLower(strings.TrimSpace(q.Genre))+"%")
	}

	if strings.TrimSpace(q.Kind) != "" {
		where = append(where, "kind = ?")
		args = append(args, strings.ToLower(strings.TrimSpace(q.Kind)))
	}

	sqlStr := baseSelect
	if len(where) > 0 {
		sqlStr += " WHERE " + strings.Join(where, " AND ")
	}

	if !countOnly {
		sqlStr += " ORDER BY title ASC"
		sqlStr += " LIMIT ? OFFSET ?"
		limit := q.Limit
		if limit <= 0 || limit > 100 {
			limit = 20
		}
		offset := q.Offset
		if offset < 0 {
			offset = 0
		}
		args = append(args, limit, offset)
	}

	return sqlStr, args
}
