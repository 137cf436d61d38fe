package history

import (
	"sync"
	"time"

	"fileserver-go/internal/fileserver"
)

// MemoryHistory is a slice-backed implementation of the History interface.
// This implementation is safe for concurrent use.
type MemoryHistory struct {
	records []fileserver.Record
	mu      sync.RWMutex
}

// NewMemoryHistory creates an empty in-memory history log.
func NewMemoryHistory() *MemoryHistory {
	return &MemoryHistory{}
}

// Append adds a record to the end of the log.
func (m *MemoryHistory) Append(rec fileserver.Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.records = append(m.records, rec)
	return nil
}

// AppendAll adds recs to the end of the log under a single lock.
func (m *MemoryHistory) AppendAll(recs []fileserver.Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.records = append(m.records, recs...)
	return nil
}

// Until returns a copy of all records with Timestamp <= cutoff.
func (m *MemoryHistory) Until(cutoff time.Time) ([]fileserver.Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]fileserver.Record, 0, len(m.records))
	for _, rec := range m.records {
		if !rec.Timestamp.After(cutoff) {
			out = append(out, rec)
		}
	}
	return out, nil
}

// All returns a copy of every record.
func (m *MemoryHistory) All() ([]fileserver.Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]fileserver.Record, len(m.records))
	copy(out, m.records)
	return out, nil
}

// Len returns the number of records.
func (m *MemoryHistory) Len() (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.records), nil
}

// Close is a no-op for the in-memory log.
func (m *MemoryHistory) Close() error {
	return nil
}

// Compile-time check that MemoryHistory implements fileserver.History interface
var _ fileserver.History = (*MemoryHistory)(nil)
