package storage

import (
	"context"
	"database/sql"
	"sort"
	"testing"
)

// openTestDB creates a migrated in-memory SQLite database for testing.
func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := Open(context.Background(), MemoryDSN)
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

// getTableNames returns sorted table names from sqlite_master, excluding internal tables.
func getTableNames(t *testing.T, db *sql.DB) []string {
	t.Helper()
	rows, err := db.Query("SELECT name FROM sqlite_master WHERE type='table' AND name NOT LIKE 'sqlite_%' ORDER BY name")
	if err != nil {
		t.Fatalf("failed to query sqlite_master: %v", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			t.Fatalf("failed to scan table name: %v", err)
		}
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// TestMigrateDB_CreatesSchema verifies a fresh database ends at the latest version.
func TestMigrateDB_CreatesSchema(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	if err := MigrateDB(ctx, db); err != nil {
		t.Fatalf("MigrateDB: %v", err)
	}

	names := getTableNames(t, db)
	want := []string{"calendar_item", "schema_version"}
	if len(names) != len(want) {
		t.Fatalf("tables = %v, want %v", names, want)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("table %d = %s, want %s", i, names[i], want[i])
		}
	}

	v, err := SchemaVersion(ctx, db)
	if err != nil {
		t.Fatalf("SchemaVersion: %v", err)
	}
	if v != LatestSchemaVersion() {
		t.Errorf("version = %d, want %d", v, LatestSchemaVersion())
	}
}

// TestMigrateDB_Idempotent verifies running migrations twice is harmless.
func TestMigrateDB_Idempotent(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	if err := MigrateDB(ctx, db); err != nil {
		t.Fatalf("first MigrateDB: %v", err)
	}
	if err := MigrateDB(ctx, db); err != nil {
		t.Fatalf("second MigrateDB: %v", err)
	}
	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM schema_version").Scan(&count); err != nil {
		t.Fatalf("count schema_version: %v", err)
	}
	if count != 1 {
		t.Errorf("schema_version rows = %d, want 1", count)
	}
}

// TestMigrateDB_RecurrenceColumn verifies later migrations alter the first table.
func TestMigrateDB_RecurrenceColumn(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	if err := MigrateDB(ctx, db); err != nil {
		t.Fatalf("MigrateDB: %v", err)
	}
	_, err := db.Exec(`INSERT INTO calendar_item (id, type, title, date, recurrence) VALUES ('a', 'class', 'Wheel', '2025-06-02', 'FREQ=WEEKLY')`)
	if err != nil {
		t.Fatalf("insert with recurrence: %v", err)
	}
}
