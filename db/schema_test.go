// ABOUTME: Tests for database schema creation
// ABOUTME: Uses in-memory SQLite for fast isolated tests
package db

import (
	"database/sql"
	"testing"

	_ "github.com/mattn/go-sqlite3"
)

func TestInitSchema(t *testing.T) {
	conn, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("Failed to open in-memory db: %v", err)
	}
	defer func() { _ = conn.Close() }()

	if err := InitSchema(&DB{DB: conn, Driver: DriverSQLite}); err != nil {
		t.Fatalf("InitSchema failed: %v", err)
	}

	var name string
	err = conn.QueryRow("SELECT name FROM sqlite_master WHERE type='table' AND name='user_data'").Scan(&name)
	if err != nil {
		t.Errorf("Table user_data not found: %v", err)
	}

	var indexName string
	err = conn.QueryRow("SELECT name FROM sqlite_master WHERE type='index' AND name=?", "idx_user_data_updated_at").Scan(&indexName)
	if err != nil {
		t.Errorf("Index idx_user_data_updated_at not found: %v", err)
	}
}
