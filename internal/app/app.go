package app

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"fileserver-go/internal/config"
	"fileserver-go/internal/fileserver"
	"fileserver-go/internal/history"
)

// FileServerApp is the application layer between the CLI and the stores.
// It constructs all dependencies from config, executes parsed operations
// against one Store and one TemporalStore, and releases the history log
// and log file on Close.
type FileServerApp struct {
	cfg      *config.Config
	history  fileserver.History
	store    *fileserver.Store
	temporal *fileserver.TemporalStore
	logger   fileserver.Logger
	logFile  *os.File
}

// NewFileServerApp creates a fully wired FileServerApp from the given config.
// The caller must call Close when done.
func NewFileServerApp(cfg *config.Config) (*FileServerApp, error) {
	level, err := parseLevel(cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("parsing log level: %w", err)
	}

	runID := time.Now().UTC().Format("20060102T150405Z")
	l, logFile, err := newLogger(cfg.LogDir, runID, level)
	if err != nil {
		return nil, fmt.Errorf("creating logger: %w", err)
	}

	h, err := history.NewHistoryFromConfig(cfg.History)
	if err != nil {
		logFile.Close()
		return nil, fmt.Errorf("creating history: %w", err)
	}

	a := newFileServerApp(cfg, h, &slogAdapter{l: l}, fileserver.RealClock{}, fileserver.UUIDGenerator{})
	a.logFile = logFile
	return a, nil
}

// newFileServerApp wires the stores from already-built dependencies.
func newFileServerApp(cfg *config.Config, h fileserver.History, logger fileserver.Logger, clock fileserver.Clock, idgen fileserver.IDGenerator) *FileServerApp {
	return &FileServerApp{
		cfg:      cfg,
		history:  h,
		store:    fileserver.NewStore(logger),
		temporal: fileserver.NewTemporalStore(h, clock, idgen, logger),
		logger:   logger,
	}
}

// Execute runs a single operation and returns its printable result.
func (a *FileServerApp) Execute(op *Operation) (string, error) {
	switch op.Name {
	case OpUpload:
		if err := op.requireArgs(2, 2); err != nil {
			return "", err
		}
		size, err := parseSize(op.arg(1))
		if err != nil {
			return "", err
		}
		return done(a.store.Upload(op.arg(0), size))

	case OpGet:
		if err := op.requireArgs(1, 1); err != nil {
			return "", err
		}
		return formatSize(a.store.Get(op.arg(0))), nil

	case OpCopy:
		if err := op.requireArgs(2, 2); err != nil {
			return "", err
		}
		return done(a.store.Copy(op.arg(0), op.arg(1)))

	case OpSearch:
		if err := op.requireArgs(0, 1); err != nil {
			return "", err
		}
		results, err := a.store.Search(op.arg(0))
		if err != nil {
			return "", err
		}
		return joinEntries(results, func(e fileserver.Entry) fileserver.Entry { return e }), nil

	case OpUploadAt:
		if err := op.requireArgs(3, 4); err != nil {
			return "", err
		}
		ts, err := parseTimestamp(op.arg(0))
		if err != nil {
			return "", err
		}
		size, err := parseSize(op.arg(2))
		if err != nil {
			return "", err
		}
		ttl, err := parseTTL(op.arg(3))
		if err != nil {
			return "", err
		}
		return done(a.temporal.UploadAt(op.arg(1), size, ts, ttl))

	case OpGetAt:
		if err := op.requireArgs(2, 2); err != nil {
			return "", err
		}
		ts, err := parseTimestamp(op.arg(0))
		if err != nil {
			return "", err
		}
		return formatSize(a.temporal.GetAt(op.arg(1), ts)), nil

	case OpCopyAt:
		if err := op.requireArgs(3, 3); err != nil {
			return "", err
		}
		ts, err := parseTimestamp(op.arg(0))
		if err != nil {
			return "", err
		}
		return done(a.temporal.CopyAt(op.arg(1), op.arg(2), ts))

	case OpSearchAt:
		if err := op.requireArgs(1, 2); err != nil {
			return "", err
		}
		ts, err := parseTimestamp(op.arg(0))
		if err != nil {
			return "", err
		}
		results, err := a.temporal.SearchAt(op.arg(1), ts)
		if err != nil {
			return "", err
		}
		return joinEntries(results, func(e fileserver.TemporalEntry) fileserver.Entry { return e.Entry }), nil

	case OpRollback:
		if err := op.requireArgs(1, 1); err != nil {
			return "", err
		}
		ts, err := parseTimestamp(op.arg(0))
		if err != nil {
			return "", err
		}
		return done(a.temporal.Rollback(ts))

	case OpHistory:
		if err := op.requireArgs(0, 0); err != nil {
			return "", err
		}
		records, err := a.temporal.History()
		if err != nil {
			return "", err
		}
		lines := make([]string, len(records))
		for i, r := range records {
			lines[i] = fmt.Sprintf("%s %s", r.ID, r.Entry())
		}
		return strings.Join(lines, "\n"), nil

	case OpLive:
		if err := op.requireArgs(0, 0); err != nil {
			return "", err
		}
		entries := a.temporal.Live()
		lines := make([]string, len(entries))
		for i, e := range entries {
			lines[i] = e.String()
		}
		return strings.Join(lines, "\n"), nil

	default:
		return "", fmt.Errorf("unknown operation: %s", op.Name)
	}
}

// RunScript reads operations line by line from r and writes each result to w.
// A failing line prints "error: ..." and execution continues. prompt, when
// non-empty, is written before every line is read. It returns the number of
// failed lines.
func (a *FileServerApp) RunScript(r io.Reader, w io.Writer, prompt string) (int, error) {
	failed := 0
	scanner := bufio.NewScanner(r)
	lineNo := 0

	for {
		if prompt != "" {
			fmt.Fprint(w, prompt)
		}
		if !scanner.Scan() {
			break
		}
		lineNo++

		op, err := ParseOperation(scanner.Text())
		if err == nil && op == nil {
			continue
		}

		var out string
		if err == nil {
			out, err = a.Execute(op)
		}
		if err != nil {
			failed++
			a.logger.Debug("operation failed", "line", lineNo, "error", err)
			fmt.Fprintf(w, "error: %v\n", err)
			continue
		}
		fmt.Fprintln(w, out)
	}

	if err := scanner.Err(); err != nil {
		return failed, fmt.Errorf("reading script: %w", err)
	}
	return failed, nil
}

// Close closes the history log and the log file.
func (a *FileServerApp) Close() error {
	var firstErr error

	if err := a.history.Close(); err != nil {
		firstErr = fmt.Errorf("closing history: %w", err)
	}

	if a.logFile != nil {
		a.logFile.Close()
	}

	return firstErr
}

// done maps a mutation's error to its printable result.
func done(err error) (string, error) {
	if err != nil {
		return "", err
	}
	return "ok", nil
}

func formatSize(size int64, ok bool) string {
	if !ok {
		return ""
	}
	return strconv.FormatInt(size, 10)
}

func joinEntries[T any](items []T, entry func(T) fileserver.Entry) string {
	parts := make([]string, len(items))
	for i, it := range items {
		parts[i] = entry(it).String()
	}
	return strings.Join(parts, ", ")
}
