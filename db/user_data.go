// ABOUTME: Repository for per-namespace dataset documents
// ABOUTME: Implements load, upsert, delete, and listing over the user_data table

package db

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
)

var ErrUserDataNotFound = errors.New("user data not found")

// UserDataRepository stores one JSON document per namespace.
type UserDataRepository struct {
	db *DB
}

// NewUserDataRepository creates a new user_data repository.
func NewUserDataRepository(db *DB) *UserDataRepository {
	return &UserDataRepository{db: db}
}

// Load returns the raw document for a namespace.
func (r *UserDataRepository) Load(ctx context.Context, userID string) ([]byte, error) {
	query := r.db.Rebind(`SELECT data FROM user_data WHERE user_id = ?`)

	var data []byte
	err := r.db.QueryRowContext(ctx, query, userID).Scan(&data)
	if err == sql.ErrNoRows {
		return nil, ErrUserDataNotFound
	}
	if err != nil {
		return nil, err
	}
	return data, nil
}

// Save inserts or replaces the document for a namespace.
func (r *UserDataRepository) Save(ctx context.Context, userID string, data []byte) error {
	now := time.Now().UTC()

	query := r.db.Rebind(`
		INSERT INTO user_data (id, user_id, data, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (user_id) DO UPDATE SET data = excluded.data, updated_at = excluded.updated_at
	`)

	_, err := r.db.ExecContext(ctx, query,
		uuid.New().String(),
		userID,
		string(data),
		now,
		now,
	)
	return err
}

// Delete removes the document for a namespace. Deleting a missing row is not
// an error.
func (r *UserDataRepository) Delete(ctx context.Context, userID string) error {
	query := r.db.Rebind(`DELETE FROM user_data WHERE user_id = ?`)
	_, err := r.db.ExecContext(ctx, query, userID)
	return err
}

// UpdatedAt returns when a namespace was last written.
func (r *UserDataRepository) UpdatedAt(ctx context.Context, userID string) (time.Time, error) {
	query := r.db.Rebind(`SELECT updated_at FROM user_data WHERE user_id = ?`)

	var ts time.Time
	err := r.db.QueryRowContext(ctx, query, userID).Scan(&ts)
	if err == sql.ErrNoRows {
		return time.Time{}, ErrUserDataNotFound
	}
	return ts, err
}

// Namespaces lists every stored namespace, most recently updated first.
func (r *UserDataRepository) Namespaces(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT user_id FROM user_data ORDER BY updated_at DESC`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	namespaces := make([]string, 0)
	for rows.Next() {
		var ns string
		if err := rows.Scan(&ns); err != nil {
			return nil, err
		}
		namespaces = append(namespaces, ns)
	}
	return namespaces, rows.Err()
}
