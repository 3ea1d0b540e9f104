// Package favorites keeps the ordered set of favorited movies.
package favorites

import (
	"encoding/json"
	"log/slog"
	"slices"
	"sync"
)

// SlotKey is the storage slot holding the serialized favorites list.
const SlotKey = "movieFavorites"

// Entry is a favorited movie. Fields are copied from the movie at the time
// it was favorited.
type Entry struct {
	ImdbID string `json:"imdbID" yaml:"imdb_id"`
	Title  string `json:"title" yaml:"title"`
	Year   string `json:"year" yaml:"year"`
	Poster string `json:"poster" yaml:"poster"`
}

// Backend is the durable key-value slot the store persists into.
type Backend interface {
	Get(key string) (string, bool, error)
	Set(key, data string) error
}

// Store is an insertion-ordered set of favorites keyed by IMDb ID.
type Store struct {
	mu      sync.RWMutex
	backend Backend
	entries []Entry
}

// NewStore loads the favorites from backend. A nil backend keeps the set in
// memory only. Missing or unreadable data yields an empty set.
func NewStore(backend Backend) *Store {
	s := &Store{backend: backend}
	s.entries = s.load()
	return s
}

func (s *Store) load() []Entry {
	if s.backend == nil {
		return nil
	}

	data, found, err := s.backend.Get(SlotKey)
	if err != nil {
		slog.Warn("Failed to read favorites, starting empty", "error", err)
		return nil
	}
	if !found || data == "" {
		return nil
	}

	var entries []Entry
	if err := json.Unmarshal([]byte(data), &entries); err != nil {
		slog.Warn("Stored favorites are corrupt, starting empty", "error", err)
		return nil
	}

	// Drop blank and duplicate IDs a hand-edited slot might contain.
	seen := make(map[string]bool, len(entries))
	clean := entries[:0]
	for _, e := range entries {
		if e.ImdbID == "" || seen[e.ImdbID] {
			continue
		}
		seen[e.ImdbID] = true
		clean = append(clean, e)
	}

	slog.Debug("Loaded favorites", "count", len(clean))
	return clean
}

func (s *Store) indexOf(imdbID string) int {
	return slices.IndexFunc(s.entries, func(e Entry) bool { return e.ImdbID == imdbID })
}

// IsFavorite reports whether imdbID is in the set.
func (s *Store) IsFavorite(imdbID string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.indexOf(imdbID) >= 0
}

// Toggle adds entry when absent and removes it when present, then persists
// the whole set. It returns the new membership state. Persistence failures
// are logged; the in-memory change always stands.
func (s *Store) Toggle(entry Entry) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	var favorited bool
	if i := s.indexOf(entry.ImdbID); i >= 0 {
		s.entries = slices.Delete(s.entries, i, i+1)
	} else {
		s.entries = append(s.entries, entry)
		favorited = true
	}

	s.persist()
	return favorited
}

func (s *Store) persist() {
	if s.backend == nil {
		return
	}

	entries := s.entries
	if entries == nil {
		entries = []Entry{}
	}
	data, err := json.Marshal(entries)
	if err != nil {
		slog.Warn("Failed to encode favorites", "error", err)
		return
	}
	if err := s.backend.Set(SlotKey, string(data)); err != nil {
		slog.Warn("Could not save favorites", "error", err)
	}
}

// List returns a copy of the favorites in insertion order.
func (s *Store) List() []Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.entries)
}

// Len returns the number of favorites.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}
