package db

import (
	"os"
	"path/filepath"
	"testing"
)

func TestOpenDatabase(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "nested", "test.db")

	db, err := OpenDatabase("sqlite3", dbPath)
	if err != nil {
		t.Fatalf("OpenDatabase failed: %v", err)
	}
	defer db.Close()

	// Verify database file exists
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created")
	}

	// Verify WAL mode
	var mode string
	err = db.QueryRow("PRAGMA journal_mode").Scan(&mode)
	if err != nil {
		t.Fatalf("Failed to query journal mode: %v", err)
	}
	if mode != "wal" {
		t.Errorf("Expected WAL mode, got %s", mode)
	}
}

func TestOpenDatabaseInvalidPath(t *testing.T) {
	// A regular file cannot hold a directory, even for root
	blocker := filepath.Join(t.TempDir(), "blocker")
	if err := os.WriteFile(blocker, []byte("x"), 0600); err != nil {
		t.Fatalf("Failed to create blocker file: %v", err)
	}

	_, err := OpenDatabase("sqlite3", filepath.Join(blocker, "sub", "test.db"))
	if err == nil {
		t.Errorf("Expected error for invalid path, but OpenDatabase succeeded")
	}
}

func TestOpenDatabaseUnknownDriver(t *testing.T) {
	_, err := OpenDatabase("oracle", "whatever")
	if err == nil {
		t.Error("Expected error for unsupported driver")
	}
}

func TestOpenDatabaseReopen(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")

	db, err := OpenDatabase("sqlite", dbPath)
	if err != nil {
		t.Fatalf("Initial OpenDatabase failed: %v", err)
	}
	db.Close()

	// CREATE TABLE IF NOT EXISTS must tolerate an existing schema
	db, err = OpenDatabase("sqlite", dbPath)
	if err != nil {
		t.Fatalf("OpenDatabase should handle re-initialization gracefully, got: %v", err)
	}
	defer db.Close()
}

func TestRebind(t *testing.T) {
	pg := &DB{Driver: DriverPostgres}
	got := pg.Rebind("SELECT a FROM t WHERE x = ? AND y = ?")
	if got != "SELECT a FROM t WHERE x = $1 AND y = $2" {
		t.Errorf("unexpected rebind: %s", got)
	}

	lite := &DB{Driver: DriverSQLite}
	if q := lite.Rebind("x = ?"); q != "x = ?" {
		t.Errorf("sqlite query should be unchanged, got %s", q)
	}
}
