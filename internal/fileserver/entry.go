package fileserver

import (
	"fmt"
	"math"
	"time"
)

// Entry is a named, sized metadata record. It never carries file content.
// Size is fixed at upload; Name only changes through rename-on-copy.
type Entry struct {
	Name string
	Size int64
}

// Renamed returns a copy of e under a new name.
func (e Entry) Renamed(name string) Entry {
	return Entry{Name: name, Size: e.Size}
}

// Equal reports whether both entries have the same name and size.
func (e Entry) Equal(other Entry) bool {
	return e.Name == other.Name && e.Size == other.Size
}

func (e Entry) String() string {
	return fmt.Sprintf("%s(%d)", e.Name, e.Size)
}

// TTL is an optional time-to-live in seconds. The zero value means the entry
// never expires.
type TTL struct {
	seconds int64
	valid   bool
}

// NoTTL returns a TTL that never expires.
func NoTTL() TTL { return TTL{} }

// TTLSeconds returns a TTL of n seconds.
func TTLSeconds(n int64) TTL { return TTL{seconds: n, valid: true} }

// Seconds returns the TTL in seconds and whether one is set.
func (t TTL) Seconds() (int64, bool) { return t.seconds, t.valid }

// IsSet reports whether the TTL expires at all.
func (t TTL) IsSet() bool { return t.valid }

func (t TTL) String() string {
	if !t.valid {
		return "none"
	}
	return fmt.Sprintf("%ds", t.seconds)
}

// maxDurationSeconds is the largest whole number of seconds a time.Duration holds.
const maxDurationSeconds = int64(math.MaxInt64 / time.Second)

// TemporalEntry is an Entry stamped with its upload time and an optional TTL.
// Equality stays name+size only: timestamp and TTL are ignored by Equal.
type TemporalEntry struct {
	Entry
	Timestamp time.Time
	TTL       TTL
}

// IsAlive reports whether the entry has not yet expired at now.
// An entry without a TTL is always alive.
func (e TemporalEntry) IsAlive(now time.Time) bool {
	seconds, ok := e.TTL.Seconds()
	if !ok {
		return true
	}
	// Beyond maxDurationSeconds the TTL is outside what now.Sub can return.
	switch {
	case seconds > maxDurationSeconds:
		return true
	case seconds < -maxDurationSeconds:
		return false
	}
	return now.Sub(e.Timestamp) < time.Duration(seconds)*time.Second
}

func (e TemporalEntry) String() string {
	return fmt.Sprintf("%s(%d)@%s ttl=%s", e.Name, e.Size, e.Timestamp.UTC().Format(time.RFC3339), e.TTL)
}
