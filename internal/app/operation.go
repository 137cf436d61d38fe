package app

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"fileserver-go/internal/fileserver"
)

// Operation names understood by the script interpreter.
const (
	OpUpload   = "FILE_UPLOAD"
	OpGet      = "FILE_GET"
	OpCopy     = "FILE_COPY"
	OpSearch   = "FILE_SEARCH"
	OpUploadAt = "FILE_UPLOAD_AT"
	OpGetAt    = "FILE_GET_AT"
	OpCopyAt   = "FILE_COPY_AT"
	OpSearchAt = "FILE_SEARCH_AT"
	OpRollback = "ROLLBACK"
	OpHistory  = "HISTORY"
	OpLive     = "LIVE"
)

// usage lists the arguments each operation takes, for error messages.
var usage = map[string]string{
	OpUpload:   "NAME SIZE",
	OpGet:      "NAME",
	OpCopy:     "SOURCE DESTINATION",
	OpSearch:   "[PREFIX]",
	OpUploadAt: "TIMESTAMP NAME SIZE [TTL]",
	OpGetAt:    "TIMESTAMP NAME",
	OpCopyAt:   "TIMESTAMP SOURCE DESTINATION",
	OpSearchAt: "TIMESTAMP [PREFIX]",
	OpRollback: "TIMESTAMP",
	OpHistory:  "",
	OpLive:     "",
}

// Operation is one parsed script line: an operation name and its raw arguments.
type Operation struct {
	Name string
	Args []string
}

// ParseOperation parses a whitespace-separated script line.
// Blank lines and lines starting with '#' yield a nil Operation.
func ParseOperation(line string) (*Operation, error) {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, "#") {
		return nil, nil
	}

	fields := strings.Fields(line)
	op := &Operation{Name: strings.ToUpper(fields[0]), Args: fields[1:]}

	if _, ok := usage[op.Name]; !ok {
		return nil, fmt.Errorf("unknown operation: %s", fields[0])
	}
	return op, nil
}

// requireArgs checks that the operation has between lo and hi arguments.
func (op *Operation) requireArgs(lo, hi int) error {
	if n := len(op.Args); n < lo || n > hi {
		return fmt.Errorf("usage: %s %s", op.Name, usage[op.Name])
	}
	return nil
}

// arg returns the i-th argument, or "" when absent.
func (op *Operation) arg(i int) string {
	if i < len(op.Args) {
		return op.Args[i]
	}
	return ""
}

func parseSize(s string) (int64, error) {
	size, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid size %q: %w", s, err)
	}
	return size, nil
}

// parseTimestamp accepts Unix seconds or RFC 3339.
func parseTimestamp(s string) (time.Time, error) {
	if secs, err := strconv.ParseInt(s, 10, 64); err == nil {
		return time.Unix(secs, 0).UTC(), nil
	}
	ts, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid timestamp %q: want unix seconds or RFC 3339", s)
	}
	return ts, nil
}

// parseTTL parses an optional TTL in seconds; "" means no TTL.
func parseTTL(s string) (fileserver.TTL, error) {
	if s == "" {
		return fileserver.NoTTL(), nil
	}
	secs, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return fileserver.TTL{}, fmt.Errorf("invalid ttl %q: %w", s, err)
	}
	return fileserver.TTLSeconds(secs), nil
}
