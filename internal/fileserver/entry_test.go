package fileserver_test

import (
	"math"
	"testing"
	"time"

	"fileserver-go/internal/fileserver"
)

func TestEntry_Equal(t *testing.T) {
	tests := []struct {
		name string
		a, b fileserver.Entry
		want bool
	}{
		{name: "same name and size", a: fileserver.Entry{Name: "a", Size: 1}, b: fileserver.Entry{Name: "a", Size: 1}, want: true},
		{name: "different size", a: fileserver.Entry{Name: "a", Size: 1}, b: fileserver.Entry{Name: "a", Size: 2}, want: false},
		{name: "different name", a: fileserver.Entry{Name: "a", Size: 1}, b: fileserver.Entry{Name: "b", Size: 1}, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Equal(tt.b); got != tt.want {
				t.Errorf("Equal() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestTemporalEntry_EqualIgnoresTimestampAndTTL(t *testing.T) {
	ts := time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC)
	a := fileserver.TemporalEntry{Entry: fileserver.Entry{Name: "f", Size: 10}, Timestamp: ts, TTL: fileserver.TTLSeconds(5)}
	b := fileserver.TemporalEntry{Entry: fileserver.Entry{Name: "f", Size: 10}, Timestamp: ts.Add(time.Hour), TTL: fileserver.NoTTL()}

	if !a.Equal(b.Entry) {
		t.Error("Equal() = false, want true for entries differing only in timestamp and ttl")
	}
}

func TestEntry_Renamed(t *testing.T) {
	original := fileserver.Entry{Name: "old", Size: 42}
	renamed := original.Renamed("new")

	if renamed.Name != "new" || renamed.Size != 42 {
		t.Errorf("Renamed() = %v, want new(42)", renamed)
	}
	if original.Name != "old" {
		t.Errorf("original Name = %q, want %q", original.Name, "old")
	}
}

func TestTemporalEntry_IsAlive(t *testing.T) {
	uploaded := time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC)

	tests := []struct {
		name    string
		ttl     fileserver.TTL
		elapsed time.Duration
		want    bool
	}{
		{name: "no ttl never expires", ttl: fileserver.NoTTL(), elapsed: 100 * 365 * 24 * time.Hour, want: true},
		{name: "within ttl", ttl: fileserver.TTLSeconds(2000), elapsed: 1999 * time.Second, want: true},
		{name: "just before expiry", ttl: fileserver.TTLSeconds(2000), elapsed: 2000*time.Second - time.Millisecond, want: true},
		{name: "exactly at ttl", ttl: fileserver.TTLSeconds(2000), elapsed: 2000 * time.Second, want: false},
		{name: "past ttl", ttl: fileserver.TTLSeconds(2000), elapsed: 2001 * time.Second, want: false},
		{name: "zero ttl is never alive", ttl: fileserver.TTLSeconds(0), elapsed: 0, want: false},
		{name: "now before upload", ttl: fileserver.TTLSeconds(10), elapsed: -time.Hour, want: true},
		{name: "ttl beyond duration range", ttl: fileserver.TTLSeconds(10_000_000_000), elapsed: time.Second, want: true},
		{name: "largest ttl", ttl: fileserver.TTLSeconds(math.MaxInt64), elapsed: 100 * 365 * 24 * time.Hour, want: true},
		{name: "negative ttl beyond duration range", ttl: fileserver.TTLSeconds(-10_000_000_000), elapsed: -time.Second, want: false},
		{name: "largest ttl that fits a duration", ttl: fileserver.TTLSeconds(9_223_372_036), elapsed: time.Second, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := fileserver.TemporalEntry{
				Entry:     fileserver.Entry{Name: "f", Size: 1},
				Timestamp: uploaded,
				TTL:       tt.ttl,
			}
			if got := e.IsAlive(uploaded.Add(tt.elapsed)); got != tt.want {
				t.Errorf("IsAlive() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestTTL(t *testing.T) {
	if fileserver.NoTTL().IsSet() {
		t.Error("NoTTL().IsSet() = true, want false")
	}
	if (fileserver.TTL{}) != fileserver.NoTTL() {
		t.Error("zero TTL should equal NoTTL()")
	}

	seconds, ok := fileserver.TTLSeconds(0).Seconds()
	if !ok || seconds != 0 {
		t.Errorf("TTLSeconds(0).Seconds() = %d, %v, want 0, true", seconds, ok)
	}
	if got := fileserver.TTLSeconds(30).String(); got != "30s" {
		t.Errorf("String() = %q, want %q", got, "30s")
	}
	if got := fileserver.NoTTL().String(); got != "none" {
		t.Errorf("String() = %q, want %q", got, "none")
	}
}
