// Package migrations owns the SQLite schema of the history log. The schema
// files are embedded, so an in-memory database can be brought up to date
// without touching disk.
package migrations

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

//go:embed files/*.sql
var schemaFiles embed.FS

// ErrNoSchema is returned by CheckMigrationStatus for a database that has
// never been migrated.
var ErrNoSchema = errors.New("history has no schema version (needs migration)")

// MigrateUp brings the history schema to the latest version. Running it on
// an up-to-date database does nothing.
func MigrateUp(db *sql.DB) error {
	m, err := open(db)
	if err != nil {
		return err
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migrating history schema: %w", err)
	}
	return nil
}

// CheckMigrationStatus fails unless the history schema is clean and at the
// latest embedded version.
func CheckMigrationStatus(db *sql.DB) error {
	m, err := open(db)
	if err != nil {
		return err
	}

	current, dirty, err := m.Version()
	switch {
	case errors.Is(err, migrate.ErrNilVersion):
		return ErrNoSchema
	case err != nil:
		return fmt.Errorf("reading history schema version: %w", err)
	case dirty:
		return fmt.Errorf("history schema is dirty at version %d", current)
	}

	latest, err := LatestVersion()
	if err != nil {
		return err
	}
	if current != latest {
		return fmt.Errorf("history schema is at version %d, latest is %d", current, latest)
	}
	return nil
}

// LatestVersion returns the highest schema version among the embedded files.
func LatestVersion() (uint, error) {
	src, err := iofs.New(schemaFiles, "files")
	if err != nil {
		return 0, fmt.Errorf("reading embedded schema: %w", err)
	}
	defer src.Close()

	v, err := src.First()
	if err != nil {
		return 0, fmt.Errorf("reading embedded schema: %w", err)
	}
	// Next fails once v is the last version.
	for next, err := src.Next(v); err == nil; next, err = src.Next(v) {
		v = next
	}
	return v, nil
}

// open binds the embedded schema to db. The returned Migrate is never
// closed: closing it would close db, which belongs to the caller.
func open(db *sql.DB) (*migrate.Migrate, error) {
	src, err := iofs.New(schemaFiles, "files")
	if err != nil {
		return nil, fmt.Errorf("reading embedded schema: %w", err)
	}

	driver, err := sqlite3.WithInstance(db, &sqlite3.Config{})
	if err != nil {
		src.Close()
		return nil, fmt.Errorf("binding history database: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", src, "sqlite3", driver)
	if err != nil {
		src.Close()
		return nil, fmt.Errorf("preparing history migrations: %w", err)
	}
	return m, nil
}
