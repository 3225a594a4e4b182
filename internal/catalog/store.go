package catalog

import (
	"errors"
	"sync"

	"cinehub/pkg/models"
)

var (
	ErrUnknownCategory = errors.New("catalog: unknown category")
	ErrInvalidPage     = errors.New("catalog: page must be >= 1")
)

// CategoryState is the published snapshot for one category. Items always
// hold the most recently fetched upstream page, replaced wholesale.
type CategoryState struct {
	Items          []models.Title `json:"items"`
	Loading        bool           `json:"loading"`
	LastError      string         `json:"last_error,omitempty"`
	CurrentPage    int            `json:"current_page"`
	TotalAvailable int            `json:"total_available"`
}

type entry struct {
	spec  Category
	state CategoryState

	// issued is bumped when a fetch begins; published is the high-water
	// mark of applied results. A settling fetch whose seq is at or below
	// published is stale and discarded.
	issued    uint64
	published uint64
}

// Store owns every CategoryState. Entries are created once at construction
// and never added or removed; Reset only empties them.
type Store struct {
	mu      sync.Mutex
	entries map[string]*entry
	order   []string
}

func NewStore(categories []Category) *Store {
	s := &Store{entries: make(map[string]*entry, len(categories))}
	for _, c := range categories {
		if _, dup := s.entries[c.Key]; dup {
			continue
		}
		s.entries[c.Key] = &entry{
			spec:  c,
			state: initialState(),
		}
		s.order = append(s.order, c.Key)
	}
	return s
}

func initialState() CategoryState {
	return CategoryState{Items: []models.Title{}, CurrentPage: 1}
}

// Keys returns category keys in registration order.
func (s *Store) Keys() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.order))
	copy(out, s.order)
	return out
}

func (s *Store) Category(key string) (Category, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[key]
	if !ok {
		return Category{}, false
	}
	return e.spec, true
}

// Snapshot returns a copy of the category's current state; the items slice
// is copied so readers never alias store memory.
func (s *Store) Snapshot(key string) (CategoryState, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[key]
	if !ok {
		return CategoryState{}, false
	}
	return copyState(e.state), true
}

// SetPage moves the category's current page. It never triggers a fetch;
// callers follow up with FetchPage themselves.
func (s *Store) SetPage(key string, page int) error {
	if page < 1 {
		return ErrInvalidPage
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[key]
	if !ok {
		return ErrUnknownCategory
	}
	e.state.CurrentPage = page
	return nil
}

// Reset returns every category to its initial empty form. Sequence counters
// keep advancing so in-flight fetches from before the reset stay stale.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range s.entries {
		e.state = initialState()
	}
}

// begin marks a fetch as in flight and hands back its sequence number.
func (s *Store) begin(key string) (uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[key]
	if !ok {
		return 0, ErrUnknownCategory
	}
	e.issued++
	e.state.Loading = true
	e.state.LastError = ""
	return e.issued, nil
}

// publishSuccess atomically replaces items and total for the category.
// Returns false when the result is stale and was discarded.
func (s *Store) publishSuccess(key string, seq uint64, items []models.Title, total int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[key]
	if !ok || seq <= e.published {
		return false
	}
	e.published = seq
	e.state.Items = items
	e.state.TotalAvailable = total
	e.state.LastError = ""
	// a newer fetch may still be in flight; only the newest clears loading
	e.state.Loading = e.issued > seq
	return true
}

// publishFailure records the error without touching previously published
// items. Returns false when the result is stale and was discarded.
func (s *Store) publishFailure(key string, seq uint64, msg string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[key]
	if !ok || seq <= e.published {
		return false
	}
	e.published = seq
	e.state.LastError = msg
	e.state.Loading = e.issued > seq
	return true
}

func copyState(st CategoryState) CategoryState {
	out := st
	out.Items = make([]models.Title, len(st.Items))
	copy(out.Items, st.Items)
	return out
}
