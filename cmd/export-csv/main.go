package main

import (
	"context"
	"database/sql"
	"encoding/csv"
	"flag"
	"log"
	"os"
	"path/filepath"
	"time"

	"cinehub/pkg/database"
)

func main() {
	var (
		titlesOut    = flag.String("titles", "data/titles.csv", "output CSV path for cached titles")
		bookmarksOut = flag.String("bookmarks", "data/bookmarks.csv", "output CSV path for bookmarks")
	)
	flag.Parse()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	db := database.MustOpen(database.DefaultConfig())
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		log.Fatalf("db migrate failed: %v", err)
	}

	if err := exportTitles(ctx, db, *titlesOut); err != nil {
		log.Fatalf("export titles failed: %v", err)
	}
	if err := exportBookmarks(ctx, db, *bookmarksOut); err != nil {
		log.Fatalf("export bookmarks failed: %v", err)
	}

	log.Printf("exported titles to %s and bookmarks to %s", *titlesOut, *bookmarksOut)
}

func exportTitles(ctx context.Context, db *sql.DB, outPath string) error {
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return err
	}

	f, err := os.Create(outPath)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"id", "title", "year", "rated", "released", "runtime", "genres", "plot", "poster_url", "kind", "fetched_at"}); err != nil {
		return err
	}

	rows, err := db.QueryContext(ctx, `
        SELECT id, title, year, rated, released, runtime, genres, plot, poster_url, kind, fetched_at
        FROM titles
        ORDER BY title
    `)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			id        string
			title     string
			year      sql.NullString
			rated     sql.NullString
			released  sql.NullString
			runtime   sql.NullString
			genres    sql.NullString
			plot      sql.NullString
			posterURL sql.NullString
			kind      string
			fetchedAt sql.NullTime
		)

		if err := rows.Scan(&id, &title, &year, &rated, &released, &runtime, &genres, &plot, &posterURL, &kind, &fetchedAt); err != nil {
			return err
		}

		fetched := ""
		if fetchedAt.Valid {
			fetched = fetchedAt.Time.Format(time.RFC3339)
		}

		if err := w.Write([]string{
			id,
			title,
			year.String,
			rated.String,
			released.String,
			runtime.String,
			genres.String,
			plot.String,
			posterURL.String,
			kind,
			fetched,
		}); err != nil {
			return err
		}
	}
	if err := rows.Err(); err != nil {
		return err
	}

	w.Flush()
	return w.Error()
}

func exportBookmarks(ctx context.Context, db *sql.DB, outPath string) error {
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return err
	}

	f, err := os.Create(outPath)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"id", "user_id", "title_id", "kind", "created_at"}); err != nil {
		return err
	}

	rows, err := db.QueryContext(ctx, `
        SELECT id, user_id, title_id, kind, created_at
        FROM bookmarks
        ORDER BY created_at DESC
    `)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			id        string
			userID    string
			titleID   string
			kind      string
			createdAt sql.NullTime
		)

		if err := rows.Scan(&id, &userID, &titleID, &kind, &createdAt); err != nil {
			return err
		}

		created := ""
		if createdAt.Valid {
			created = createdAt.Time.Format(time.RFC3339)
		}

		if err := w.Write([]string{id, userID, titleID, kind, created}); err != nil {
			return err
		}
	}
	if err := rows.Err(); err != nil {
		return err
	}

	w.Flush()
	return w.Error()
}
