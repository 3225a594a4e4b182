package catalog

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math/rand"

	"golang.org/x/sync/errgroup"

	"cinehub/internal/omdb"
	"cinehub/pkg/models"
)

// maxDetailConcurrency caps the per-page detail fan-out.
const maxDetailConcurrency = 10

// Source is the upstream catalog capability pair: a paginated keyword
// search plus a per-id detail lookup. omdb.Client satisfies it.
type Source interface {
	Search(ctx context.Context, keyword string, page int, kind string) (omdb.SearchResult, error)
	Lookup(ctx context.Context, id string) (models.Title, error)
}

// yearSearcher is an optional Source upgrade used by RandomSeries.
type yearSearcher interface {
	SearchByYear(ctx context.Context, keyword string, year, page int, kind string) (omdb.SearchResult, error)
}

// TitleSaver receives fetched detail records for local caching. Saves are
// best effort; a failing cache never fails a page.
type TitleSaver interface {
	SaveAll(ctx context.Context, titles []models.Title) error
}

// Coordinator runs the search → detail fan-out → publish pipeline for one
// Store. Fetches for different categories are fully independent; within a
// category, stale results are discarded by the store's sequence check.
type Coordinator struct {
	Store  *Store
	Source Source
	Titles TitleSaver // optional
}

func NewCoordinator(store *Store, source Source, titles TitleSaver) *Coordinator {
	return &Coordinator{Store: store, Source: source, Titles: titles}
}

// FetchPage fetches one upstream page for the category and publishes the
// outcome into the store. Upstream failures surface in the returned state's
// LastError, not as a Go error; the error return is reserved for caller
// mistakes (unknown category, bad page number).
func (co *Coordinator) FetchPage(ctx context.Context, key string, page int) (CategoryState, error) {
	cat, ok := co.Store.Category(key)
	if !ok {
		return CategoryState{}, ErrUnknownCategory
	}
	if page < 1 {
		return CategoryState{}, ErrInvalidPage
	}

	seq, err := co.Store.begin(key)
	if err != nil {
		return CategoryState{}, err
	}

	res, err := co.Source.Search(ctx, cat.Keyword, page, cat.Kind)
	if err != nil {
		co.Store.publishFailure(key, seq, errMessage(err))
		st, _ := co.Store.Snapshot(key)
		return st, nil
	}

	items, err := co.fanOutDetails(ctx, res.Summaries)
	if err != nil {
		co.Store.publishFailure(key, seq, errMessage(err))
		st, _ := co.Store.Snapshot(key)
		return st, nil
	}

	if co.Titles != nil {
		if err := co.Titles.SaveAll(ctx, items); err != nil {
			log.Printf("[catalog] cache titles for %s: %v", key, err)
		}
	}

	co.Store.publishSuccess(key, seq, items, res.TotalMatches)
	st, _ := co.Store.Snapshot(key)
	return st, nil
}

// fanOutDetails looks up every summary concurrently, preserving search
// order. All-or-nothing: any failed lookup fails the page, but Wait still
// lets every in-flight sibling settle first.
func (co *Coordinator) fanOutDetails(ctx context.Context, summaries []models.TitleSummary) ([]models.Title, error) {
	items := make([]models.Title, len(summaries))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxDetailConcurrency)

	for i, s := range summaries {
		i, s := i, s
		g.Go(func() error {
			t, err := co.Source.Lookup(gctx, s.ID)
			if err != nil {
				return fmt.Errorf("detail %s: %w", s.ID, err)
			}
			items[i] = t
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return items, nil
}

// SearchTitles is the free-text search path: same search + fan-out
// pipeline, but without category state. Errors return directly.
func (co *Coordinator) SearchTitles(ctx context.Context, query string) ([]models.Title, int, error) {
	res, err := co.Source.Search(ctx, query, 1, "")
	if err != nil {
		return nil, 0, err
	}

	items, err := co.fanOutDetails(ctx, res.Summaries)
	if err != nil {
		return nil, 0, err
	}

	if co.Titles != nil {
		if err := co.Titles.SaveAll(ctx, items); err != nil {
			log.Printf("[catalog] cache search results: %v", err)
		}
	}
	return items, res.TotalMatches, nil
}

// RandomSeries picks a random year, searches series from it and returns one
// random fully enriched result.
func (co *Coordinator) RandomSeries(ctx context.Context) (models.Title, error) {
	year := 1950 + rand.Intn(2023-1950+1)

	var res omdb.SearchResult
	var err error
	if ys, ok := co.Source.(yearSearcher); ok {
		res, err = ys.SearchByYear(ctx, "series", year, 1, "series")
	} else {
		res, err = co.Source.Search(ctx, "series", 1, "series")
	}
	if err != nil {
		return models.Title{}, err
	}
	if len(res.Summaries) == 0 {
		return models.Title{}, &omdb.NotFoundError{Message: "no series found"}
	}

	pick := res.Summaries[rand.Intn(len(res.Summaries))]
	return co.Source.Lookup(ctx, pick.ID)
}

// errMessage converts an upstream failure into the human-readable string
// published as the category's LastError.
func errMessage(err error) string {
	if errors.Is(err, omdb.ErrMissingAPIKey) {
		return "API key is missing"
	}
	var nf *omdb.NotFoundError
	if errors.As(err, &nf) && nf.Message != "" {
		return nf.Message
	}
	return err.Error()
}
