package fileserver

import (
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"
)

// TemporalStore is the time-versioned registry. Every successful upload is
// kept in a History log, and Rollback rebuilds the live set by replaying
// that log up to a cutoff.
//
// A single mutex covers both the live set and the history, so a rollback
// never interleaves with an upload. All methods are safe for concurrent use.
type TemporalStore struct {
	live    map[string]TemporalEntry
	history History
	clock   Clock
	idgen   IDGenerator
	logger  Logger
	mu      sync.Mutex
}

// NewTemporalStore creates an empty TemporalStore that records uploads in history.
// clock supplies "now" for TTL checks; idgen names history records.
func NewTemporalStore(history History, clock Clock, idgen IDGenerator, logger Logger) *TemporalStore {
	return &TemporalStore{
		live:    make(map[string]TemporalEntry),
		history: history,
		clock:   clock,
		idgen:   idgen,
		logger:  logger,
	}
}

// UploadAt registers a new entry stamped with timestamp and an optional ttl.
// It fails with ErrAlreadyExists if name is live, whatever its timestamp.
func (s *TemporalStore) UploadAt(name string, size int64, timestamp time.Time, ttl TTL) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	e := TemporalEntry{
		Entry:     Entry{Name: name, Size: size},
		Timestamp: timestamp.Round(0),
		TTL:       ttl,
	}

	rec, err := s.newRecord(s.live, e)
	if err != nil {
		return err
	}
	if err := s.history.Append(rec); err != nil {
		return fmt.Errorf("recording upload of %s: %w", name, err)
	}

	s.live[name] = e
	s.logger.Debug("file uploaded", "name", name, "size", size, "timestamp", e.Timestamp, "ttl", ttl)
	return nil
}

// newRecord is the upload check shared by UploadAt and Rollback: e.Name must
// not be in live. It returns the history record for e under a fresh ID.
func (s *TemporalStore) newRecord(live map[string]TemporalEntry, e TemporalEntry) (Record, error) {
	if _, ok := live[e.Name]; ok {
		return Record{}, alreadyExists(e.Name)
	}
	return Record{
		ID:        s.idgen.New(),
		Name:      e.Name,
		Size:      e.Size,
		Timestamp: e.Timestamp,
		TTL:       e.TTL,
	}, nil
}

// GetAt returns the size of the named entry only if it was uploaded at
// exactly timestamp.
func (s *TemporalStore) GetAt(name string, timestamp time.Time) (int64, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.live[name]
	if !ok || !e.Timestamp.Equal(timestamp) {
		return 0, false
	}
	return e.Size, true
}

// CopyAt moves the source entry uploaded at timestamp to destination,
// replacing whatever was stored there. Timestamp and TTL move with it.
func (s *TemporalStore) CopyAt(source, destination string, timestamp time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.live[source]
	if !ok || !e.Timestamp.Equal(timestamp) {
		return notFound(source)
	}

	delete(s.live, source)
	e.Entry = e.Entry.Renamed(destination)
	s.live[destination] = e
	s.logger.Debug("file copied", "source", source, "destination", destination, "timestamp", e.Timestamp)
	return nil
}

// SearchAt returns up to SearchLimit entries uploaded at exactly timestamp
// whose name starts with prefix and which are still alive now.
func (s *TemporalStore) SearchAt(prefix string, timestamp time.Time) ([]TemporalEntry, error) {
	if prefix == "" {
		return nil, emptyPrefix()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock.Now()
	matches := make([]TemporalEntry, 0)
	for name, e := range s.live {
		if strings.HasPrefix(name, prefix) && e.Timestamp.Equal(timestamp) && e.IsAlive(now) {
			matches = append(matches, e)
		}
	}
	return rank(matches, func(e TemporalEntry) Entry { return e.Entry }), nil
}

// Rollback discards the live set and rebuilds it from every history record
// with Timestamp <= cutoff, in history order. A record is skipped when an
// equal entry is already restored; otherwise it is re-uploaded under a new
// ID, so history grows on every rollback that restores anything.
//
// A record whose name was already restored with a different size is skipped
// and logged. The restored records are appended to history in one batch
// after the rebuild; if that fails, neither history nor the live set changes.
func (s *TemporalStore) Rollback(cutoff time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.history.Until(cutoff)
	if err != nil {
		return fmt.Errorf("reading history: %w", err)
	}

	live := make(map[string]TemporalEntry, len(records))
	var restored []Record
	for _, rec := range records {
		e := rec.Entry()
		if existing, ok := live[e.Name]; ok {
			if !existing.Equal(e.Entry) {
				s.logger.Warn("rollback skipped conflicting record", "id", rec.ID, "name", rec.Name, "size", rec.Size, "restored_size", existing.Size)
			}
			continue
		}

		newRec, err := s.newRecord(live, e)
		if err != nil {
			return fmt.Errorf("restoring %s: %w", rec.Name, err)
		}
		live[e.Name] = e
		restored = append(restored, newRec)
	}

	if len(restored) > 0 {
		if err := s.history.AppendAll(restored); err != nil {
			return fmt.Errorf("recording rollback: %w", err)
		}
	}

	s.live = live
	s.logger.Info("rollback complete", "cutoff", cutoff, "replayed", len(records), "restored", len(restored))
	return nil
}

// History returns every record in the log, in append order.
func (s *TemporalStore) History() ([]Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.history.All()
	if err != nil {
		return nil, fmt.Errorf("reading history: %w", err)
	}
	return records, nil
}

// Live returns all live entries ordered by name, expired ones included.
func (s *TemporalStore) Live() []TemporalEntry {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries := make([]TemporalEntry, 0, len(s.live))
	for _, e := range s.live {
		entries = append(entries, e)
	}
	slices.SortFunc(entries, func(a, b TemporalEntry) int {
		return strings.Compare(a.Name, b.Name)
	})
	return entries
}

// Len returns the number of live entries.
func (s *TemporalStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.live)
}
