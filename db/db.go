// ABOUTME: Database connection management and initialization
// ABOUTME: Opens SQLite (WAL mode) or Postgres and applies the user_data schema
package db

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/mattn/go-sqlite3"
)

// Supported drivers.
const (
	DriverSQLite   = "sqlite3"
	DriverPostgres = "pgx"
)

// DB is a connection pool that knows its SQL dialect.
type DB struct {
	*sql.DB
	Driver string
}

// OpenDatabase opens the database and initializes the schema. For SQLite the
// dsn is a file path (or ":memory:"); for Postgres it is a connection URL.
func OpenDatabase(driver, dsn string) (*DB, error) {
	driver = normalizeDriver(driver)

	var (
		conn *sql.DB
		err  error
	)

	switch driver {
	case DriverSQLite:
		if dsn != ":memory:" {
			// Ensure directory exists
			if err := os.MkdirAll(filepath.Dir(dsn), 0755); err != nil {
				return nil, err
			}
		}

		conn, err = sql.Open(DriverSQLite, dsn+"?_journal_mode=WAL")
		if err != nil {
			return nil, err
		}

		// Configure connection pool for SQLite (avoid database locked errors)
		conn.SetMaxOpenConns(1)

	case DriverPostgres:
		conn, err = sql.Open(DriverPostgres, dsn)
		if err != nil {
			return nil, err
		}

	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}

	database := &DB{DB: conn, Driver: driver}

	if err := InitSchema(database); err != nil {
		_ = conn.Close()
		return nil, err
	}

	return database, nil
}

func normalizeDriver(driver string) string {
	switch strings.ToLower(driver) {
	case "", "sqlite", "sqlite3":
		return DriverSQLite
	case "postgres", "postgresql", "pgx", "supabase":
		return DriverPostgres
	}
	return driver
}

// Rebind rewrites ? placeholders into the $N form Postgres expects.
func (d *DB) Rebind(query string) string {
	if d.Driver != DriverPostgres {
		return query
	}

	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
