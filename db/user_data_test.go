// ABOUTME: Tests for the user_data repository
// ABOUTME: Covers upsert, namespace isolation, and missing rows
package db

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestDB(t *testing.T) *DB {
	t.Helper()
	database, err := OpenDatabase("sqlite3", filepath.Join(t.TempDir(), "fomo.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close() })
	return database
}

func TestUserDataSaveLoad(t *testing.T) {
	repo := NewUserDataRepository(setupTestDB(t))
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, "u1", []byte(`{"tasks":[{"text":"a"}]}`)))

	data, err := repo.Load(ctx, "u1")
	require.NoError(t, err)
	assert.JSONEq(t, `{"tasks":[{"text":"a"}]}`, string(data))
}

func TestUserDataUpsertKeepsOneRow(t *testing.T) {
	database := setupTestDB(t)
	repo := NewUserDataRepository(database)
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, "u1", []byte(`{"v":1}`)))
	require.NoError(t, repo.Save(ctx, "u1", []byte(`{"v":2}`)))

	var count int
	require.NoError(t, database.QueryRow("SELECT COUNT(*) FROM user_data WHERE user_id = 'u1'").Scan(&count))
	assert.Equal(t, 1, count)

	data, err := repo.Load(ctx, "u1")
	require.NoError(t, err)
	assert.JSONEq(t, `{"v":2}`, string(data))
}

func TestUserDataNamespaceIsolation(t *testing.T) {
	repo := NewUserDataRepository(setupTestDB(t))
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, "u1", []byte(`{"owner":"u1"}`)))

	_, err := repo.Load(ctx, "u2")
	assert.ErrorIs(t, err, ErrUserDataNotFound)
}

func TestUserDataDelete(t *testing.T) {
	repo := NewUserDataRepository(setupTestDB(t))
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, "u1", []byte(`{}`)))
	require.NoError(t, repo.Delete(ctx, "u1"))
	require.NoError(t, repo.Delete(ctx, "u1"), "deleting twice is fine")

	_, err := repo.Load(ctx, "u1")
	assert.ErrorIs(t, err, ErrUserDataNotFound)
}

func TestUserDataNamespaces(t *testing.T) {
	repo := NewUserDataRepository(setupTestDB(t))
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, "a", []byte(`{}`)))
	require.NoError(t, repo.Save(ctx, "b", []byte(`{}`)))

	namespaces, err := repo.Namespaces(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"a", "b"}, namespaces)

	_, err = repo.UpdatedAt(ctx, "a")
	assert.NoError(t, err)
	_, err = repo.UpdatedAt(ctx, "zzz")
	assert.ErrorIs(t, err, ErrUserDataNotFound)
}
