package fileserver

import (
	"strings"
	"sync"
)

// Store is the non-versioned registry of live entries, keyed by name.
// All methods are safe for concurrent use.
type Store struct {
	entries map[string]Entry
	logger  Logger
	mu      sync.Mutex
}

// NewStore creates an empty Store.
func NewStore(logger Logger) *Store {
	return &Store{
		entries: make(map[string]Entry),
		logger:  logger,
	}
}

// Upload registers a new entry. It fails with ErrAlreadyExists if name is live.
func (s *Store) Upload(name string, size int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.entries[name]; ok {
		return alreadyExists(name)
	}

	s.entries[name] = Entry{Name: name, Size: size}
	s.logger.Debug("file uploaded", "name", name, "size", size)
	return nil
}

// Get returns the size of the named entry, if present.
func (s *Store) Get(name string) (int64, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[name]
	return e.Size, ok
}

// Copy moves the source entry to destination, replacing whatever was stored
// there. The source name is no longer live afterwards.
func (s *Store) Copy(source, destination string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[source]
	if !ok {
		return notFound(source)
	}

	delete(s.entries, source)
	s.entries[destination] = e.Renamed(destination)
	s.logger.Debug("file copied", "source", source, "destination", destination)
	return nil
}

// Search returns up to SearchLimit entries whose name starts with prefix,
// largest first, ties broken by name descending.
func (s *Store) Search(prefix string) ([]Entry, error) {
	if prefix == "" {
		return nil, emptyPrefix()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	matches := make([]Entry, 0)
	for name, e := range s.entries {
		if strings.HasPrefix(name, prefix) {
			matches = append(matches, e)
		}
	}
	return rank(matches, func(e Entry) Entry { return e }), nil
}

// Len returns the number of live entries.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}
