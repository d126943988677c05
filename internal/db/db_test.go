package db

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestNew(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	db, err := New(dbPath)
	if err != nil {
		t.Fatalf("Failed to create database: %v", err)
	}
	defer db.Close()

	if db.Path() != dbPath {
		t.Errorf("Expected path %s, got %s", dbPath, db.Path())
	}

	// Verify file exists
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created")
	}
}

func TestNew_CreatesDirectory(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "subdir", "nested", "test.db")

	db, err := New(dbPath)
	if err != nil {
		t.Fatalf("Failed to create database with nested path: %v", err)
	}
	defer db.Close()

	if _, err := os.Stat(filepath.Dir(dbPath)); os.IsNotExist(err) {
		t.Error("Nested directories were not created")
	}
}

func TestSchema_TableExists(t *testing.T) {
	db := newTestDB(t)
	defer db.Close()

	var name string
	err := db.QueryRowContext(context.Background(),
		"SELECT name FROM sqlite_master WHERE type='table' AND name=?", "commands").Scan(&name)
	if err != nil {
		t.Errorf("Table commands does not exist: %v", err)
	}

	has, err := db.hasColumn("commands", "exec_time_ms")
	if err != nil {
		t.Fatalf("hasColumn failed: %v", err)
	}
	if !has {
		t.Error("exec_time_ms column missing after migration")
	}
}

func TestNew_MigratesLegacyLedger(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "legacy.db")

	legacy, err := New(dbPath)
	if err != nil {
		t.Fatalf("Failed to create database: %v", err)
	}
	// Recreate the table the way the first tracker versions wrote it.
	stmts := []string{
		"DROP TABLE commands",
		`CREATE TABLE commands (
			id INTEGER PRIMARY KEY,
			timestamp TEXT NOT NULL,
			original_cmd TEXT NOT NULL,
			rtk_cmd TEXT NOT NULL,
			input_tokens INTEGER NOT NULL,
			output_tokens INTEGER NOT NULL,
			saved_tokens INTEGER NOT NULL,
			savings_pct REAL NOT NULL
		)`,
		`INSERT INTO commands (timestamp, original_cmd, rtk_cmd, input_tokens, output_tokens, saved_tokens, savings_pct)
		 VALUES ('2026-01-20 10:00:00 +0000 UTC', 'git status', 'rtk git status', 100, 20, 80, 80)`,
	}
	for _, stmt := range stmts {
		if _, err := legacy.ExecContext(context.Background(), stmt); err != nil {
			t.Fatalf("Failed to prepare legacy schema: %v", err)
		}
	}
	legacy.Close()

	db, err := New(dbPath)
	if err != nil {
		t.Fatalf("Failed to reopen legacy database: %v", err)
	}
	defer db.Close()

	days, err := db.GetAllDays(context.Background())
	if err != nil {
		t.Fatalf("GetAllDays failed: %v", err)
	}
	if len(days) != 1 || days[0].Date != "2026-01-20" {
		t.Fatalf("Expected legacy row bucketed on 2026-01-20, got %+v", days)
	}

	cmds, err := db.GetRecentCommands(context.Background(), 1)
	if err != nil {
		t.Fatalf("GetRecentCommands failed: %v", err)
	}
	if len(cmds) != 1 || cmds[0].ExecTimeMs != 0 {
		t.Errorf("Expected one legacy row with default exec time, got %+v", cmds)
	}
}

func TestVacuum(t *testing.T) {
	db := newTestDB(t)
	defer db.Close()

	if err := db.Vacuum(); err != nil {
		t.Errorf("Vacuum failed: %v", err)
	}
}

func TestClose(t *testing.T) {
	db := newTestDB(t)

	if err := db.Close(); err != nil {
		t.Errorf("Close failed: %v", err)
	}

	// Verify database is closed by trying to query
	_, err := db.QueryContext(context.Background(), "SELECT 1")
	if err == nil {
		t.Error("Expected error querying closed database")
	}
}

// Helper to create a test database
func newTestDB(t *testing.T) *DB {
	t.Helper()
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")
	db, err := New(dbPath)
	if err != nil {
		t.Fatalf("Failed to create test database: %v", err)
	}
	// Fixtures use fixed dates that would otherwise fall out of the window.
	db.SetRetentionDays(0)
	return db
}
