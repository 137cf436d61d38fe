package testutil

import (
	"errors"
	"testing"

	"fileserver-go/internal/fileserver"
	"fileserver-go/internal/history"
)

// NewTestHistory creates an in-memory SQLite history log.
// The log is automatically closed when the test completes.
func NewTestHistory(t *testing.T) fileserver.History {
	t.Helper()

	h, err := history.NewSQLiteHistory()
	if err != nil {
		t.Fatalf("failed to create history: %v", err)
	}

	t.Cleanup(func() {
		h.Close()
	})

	return h
}

// ErrHistoryUnavailable is returned by FailingHistory once it starts failing.
var ErrHistoryUnavailable = errors.New("history unavailable")

// FailingHistory wraps a History and fails once more than
// AppendsBeforeFailure records have been appended. A failing AppendAll
// appends nothing.
type FailingHistory struct {
	fileserver.History
	AppendsBeforeFailure int
	appends              int
}

// NewFailingHistory wraps an in-memory history that fails after n appends.
func NewFailingHistory(n int) *FailingHistory {
	return &FailingHistory{History: history.NewMemoryHistory(), AppendsBeforeFailure: n}
}

func (f *FailingHistory) Append(rec fileserver.Record) error {
	if f.appends >= f.AppendsBeforeFailure {
		return ErrHistoryUnavailable
	}
	f.appends++
	return f.History.Append(rec)
}

func (f *FailingHistory) AppendAll(recs []fileserver.Record) error {
	if f.appends+len(recs) > f.AppendsBeforeFailure {
		return ErrHistoryUnavailable
	}
	f.appends += len(recs)
	return f.History.AppendAll(recs)
}
