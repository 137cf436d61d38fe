package migrations

import (
	"database/sql"
	"errors"
	"fmt"
	"testing"

	_ "github.com/mattn/go-sqlite3"
)

func TestMigrateUp_FreshDatabase(t *testing.T) {
	db := openTestDB(t)

	if err := MigrateUp(db); err != nil {
		t.Fatalf("MigrateUp() failed: %v", err)
	}

	for _, table := range []string{"history", "schema_migrations"} {
		var name string
		err := db.QueryRow("SELECT name FROM sqlite_master WHERE type='table' AND name=?", table).Scan(&name)
		if err != nil {
			t.Errorf("Table %s was not created: %v", table, err)
		}
	}
}

func TestCheckMigrationStatus_FreshDatabase(t *testing.T) {
	db := openTestDB(t)

	err := CheckMigrationStatus(db)
	if err == nil {
		t.Fatal("CheckMigrationStatus() expected error for fresh database, got nil")
	}
	if !errors.Is(err, ErrNoSchema) {
		t.Errorf("CheckMigrationStatus() error = %v, want ErrNoSchema", err)
	}
}

func TestLatestVersion(t *testing.T) {
	v, err := LatestVersion()
	if err != nil {
		t.Fatalf("LatestVersion() error = %v", err)
	}
	if v != 1 {
		t.Errorf("LatestVersion() = %d, want 1", v)
	}
}

func TestCheckMigrationStatus_AfterMigration(t *testing.T) {
	db := openTestDB(t)

	if err := MigrateUp(db); err != nil {
		t.Fatalf("MigrateUp() failed: %v", err)
	}

	if err := CheckMigrationStatus(db); err != nil {
		t.Errorf("CheckMigrationStatus() after migration returned error: %v", err)
	}
}

func TestMigrateUp_Idempotent(t *testing.T) {
	db := openTestDB(t)

	if err := MigrateUp(db); err != nil {
		t.Fatalf("First MigrateUp() failed: %v", err)
	}
	if err := MigrateUp(db); err != nil {
		t.Errorf("Second MigrateUp() failed: %v (should be idempotent)", err)
	}
	if err := CheckMigrationStatus(db); err != nil {
		t.Errorf("CheckMigrationStatus() after double migration returned error: %v", err)
	}
}

func TestSchema_HistoryIDUnique(t *testing.T) {
	db := openTestDB(t)

	if err := MigrateUp(db); err != nil {
		t.Fatalf("MigrateUp() failed: %v", err)
	}

	insert := "INSERT INTO history (id, name, size, timestamp_s, timestamp_nsec, ttl_seconds) VALUES (?, ?, ?, ?, ?, ?)"
	if _, err := db.Exec(insert, "rec-1", "a.txt", 10, 1000, 0, nil); err != nil {
		t.Fatalf("Failed to insert first record: %v", err)
	}

	if _, err := db.Exec(insert, "rec-1", "b.txt", 20, 2000, 0, 60); err == nil {
		t.Error("Expected unique constraint violation for duplicate id, but insert succeeded")
	}
}

func TestSchema_NullTTL(t *testing.T) {
	db := openTestDB(t)

	if err := MigrateUp(db); err != nil {
		t.Fatalf("MigrateUp() failed: %v", err)
	}

	if _, err := db.Exec("INSERT INTO history (id, name, size, timestamp_s, timestamp_nsec) VALUES ('rec-1', 'a.txt', 10, 1000, 0)"); err != nil {
		t.Fatalf("Failed to insert record without ttl: %v", err)
	}

	var ttl sql.NullInt64
	if err := db.QueryRow("SELECT ttl_seconds FROM history WHERE id = 'rec-1'").Scan(&ttl); err != nil {
		t.Fatalf("Failed to read ttl: %v", err)
	}
	if ttl.Valid {
		t.Errorf("ttl_seconds = %d, want NULL", ttl.Int64)
	}
}

func TestSchema_NanosecondsInRange(t *testing.T) {
	db := openTestDB(t)

	if err := MigrateUp(db); err != nil {
		t.Fatalf("MigrateUp() failed: %v", err)
	}

	insert := "INSERT INTO history (id, name, size, timestamp_s, timestamp_nsec) VALUES (?, 'a.txt', 1, -14200000000, ?)"
	if _, err := db.Exec(insert, "rec-1", 999999999); err != nil {
		t.Fatalf("Failed to insert record before 1970: %v", err)
	}
	for i, nsec := range []int64{-1, 1000000000} {
		if _, err := db.Exec(insert, fmt.Sprintf("bad-%d", i), nsec); err == nil {
			t.Errorf("insert with timestamp_nsec = %d succeeded, want check constraint violation", nsec)
		}
	}
}

// openTestDB opens a single-connection in-memory SQLite database.
func openTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	return db
}
