package fileserver

import "time"

// Record is one successful upload as stored in the history log.
// Records are values: renaming a live entry never touches its record.
type Record struct {
	ID        string
	Name      string
	Size      int64
	Timestamp time.Time
	TTL       TTL
}

// Entry returns the live-set form of the record.
func (r Record) Entry() TemporalEntry {
	return TemporalEntry{
		Entry:     Entry{Name: r.Name, Size: r.Size},
		Timestamp: r.Timestamp,
		TTL:       r.TTL,
	}
}

// History is the append-only log of every successful temporal upload.
// Implementations never remove or reorder records.
type History interface {
	// Append adds a record to the end of the log.
	Append(rec Record) error

	// AppendAll adds recs to the end of the log in order. Either every
	// record is appended or none is.
	AppendAll(recs []Record) error

	// Until returns all records with Timestamp <= cutoff, in append order.
	// The returned slice is a snapshot: later appends do not affect it.
	Until(cutoff time.Time) ([]Record, error)

	// All returns every record in append order.
	All() ([]Record, error)

	// Len returns the number of records in the log.
	Len() (int, error)

	// Close releases any resources held by the log.
	Close() error
}
