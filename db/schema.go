// ABOUTME: Database schema definitions
// ABOUTME: One user_data row per namespace holding the whole dataset document
package db

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS user_data (
	id TEXT PRIMARY KEY,
	user_id TEXT NOT NULL UNIQUE,
	data TEXT NOT NULL,
	created_at DATETIME NOT NULL,
	updated_at DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_user_data_updated_at ON user_data(updated_at DESC);
`

// The Supabase table stores the document as JSONB.
const postgresSchema = `
CREATE TABLE IF NOT EXISTS user_data (
	id TEXT PRIMARY KEY,
	user_id TEXT NOT NULL UNIQUE,
	data JSONB NOT NULL,
	created_at TIMESTAMPTZ NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_user_data_updated_at ON user_data(updated_at DESC);
`

func InitSchema(db *DB) error {
	schema := sqliteSchema
	if db.Driver == DriverPostgres {
		schema = postgresSchema
	}
	_, err := db.Exec(schema)
	return err
}
