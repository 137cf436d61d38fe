package history

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"fileserver-go/internal/fileserver"
	"fileserver-go/internal/history/migrations"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// SQLiteHistory implements the History interface on an in-memory SQLite
// database. The database lives only as long as its single connection, so
// nothing is written to disk.
type SQLiteHistory struct {
	db *sql.DB
}

// NewSQLiteHistory opens a fresh in-memory database and applies the schema.
func NewSQLiteHistory() (*SQLiteHistory, error) {
	db, err := OpenConnection()
	if err != nil {
		return nil, err
	}

	if err := migrations.MigrateUp(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrating history schema: %w", err)
	}

	h, err := NewSQLiteHistoryFromDB(db)
	if err != nil {
		db.Close()
		return nil, err
	}
	return h, nil
}

// NewSQLiteHistoryFromDB wraps an existing connection. It fails if the
// schema is missing or behind the latest migration.
func NewSQLiteHistoryFromDB(db *sql.DB) (*SQLiteHistory, error) {
	if err := migrations.CheckMigrationStatus(db); err != nil {
		return nil, fmt.Errorf("history schema out of date: %w", err)
	}
	return &SQLiteHistory{db: db}, nil
}

// OpenConnection opens an in-memory SQLite database pinned to one connection.
// Every new connection to ":memory:" would otherwise see an empty database.
func OpenConnection() (*sql.DB, error) {
	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	return db, nil
}

const insertRecord = `INSERT INTO history (id, name, size, timestamp_s, timestamp_nsec, ttl_seconds) VALUES (?, ?, ?, ?, ?, ?)`

func (s *SQLiteHistory) Append(rec fileserver.Record) error {
	if _, err := s.db.ExecContext(context.Background(), insertRecord, recordArgs(rec)...); err != nil {
		return fmt.Errorf("appending history record: %w", err)
	}
	return nil
}

// AppendAll inserts recs in one transaction.
func (s *SQLiteHistory) AppendAll(recs []fileserver.Record) error {
	ctx := context.Background()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback()

	for _, rec := range recs {
		if _, err := tx.ExecContext(ctx, insertRecord, recordArgs(rec)...); err != nil {
			return fmt.Errorf("appending history record %s: %w", rec.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// recordArgs splits the timestamp into Unix seconds and nanoseconds so that
// any time.Time round-trips, not only the years UnixNano can hold.
func recordArgs(rec fileserver.Record) []any {
	var ttl sql.NullInt64
	if seconds, ok := rec.TTL.Seconds(); ok {
		ttl = sql.NullInt64{Int64: seconds, Valid: true}
	}
	return []any{rec.ID, rec.Name, rec.Size, rec.Timestamp.Unix(), rec.Timestamp.Nanosecond(), ttl}
}

func (s *SQLiteHistory) Until(cutoff time.Time) ([]fileserver.Record, error) {
	secs, nsec := cutoff.Unix(), cutoff.Nanosecond()
	records, err := s.query(
		`SELECT id, name, size, timestamp_s, timestamp_nsec, ttl_seconds FROM history
		 WHERE timestamp_s < ? OR (timestamp_s = ? AND timestamp_nsec <= ?)
		 ORDER BY seq`,
		secs, secs, nsec,
	)
	if err != nil {
		return nil, fmt.Errorf("reading history until %s: %w", cutoff.Format(time.RFC3339), err)
	}
	return records, nil
}

func (s *SQLiteHistory) All() ([]fileserver.Record, error) {
	records, err := s.query(`SELECT id, name, size, timestamp_s, timestamp_nsec, ttl_seconds FROM history ORDER BY seq`)
	if err != nil {
		return nil, fmt.Errorf("reading history: %w", err)
	}
	return records, nil
}

func (s *SQLiteHistory) Len() (int, error) {
	var n int
	if err := s.db.QueryRowContext(context.Background(), `SELECT COUNT(*) FROM history`).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting history: %w", err)
	}
	return n, nil
}

func (s *SQLiteHistory) Close() error {
	return s.db.Close()
}

// query reads every matching row before returning, which releases the only
// connection so callers can append while iterating the result.
func (s *SQLiteHistory) query(query string, args ...any) ([]fileserver.Record, error) {
	rows, err := s.db.QueryContext(context.Background(), query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := make([]fileserver.Record, 0)
	for rows.Next() {
		var (
			rec        fileserver.Record
			secs, nsec int64
			ttl        sql.NullInt64
		)
		if err := rows.Scan(&rec.ID, &rec.Name, &rec.Size, &secs, &nsec, &ttl); err != nil {
			return nil, err
		}
		rec.Timestamp = time.Unix(secs, nsec).UTC()
		if ttl.Valid {
			rec.TTL = fileserver.TTLSeconds(ttl.Int64)
		}
		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}
	return records, nil
}

// Compile-time check that SQLiteHistory implements fileserver.History interface
var _ fileserver.History = (*SQLiteHistory)(nil)
