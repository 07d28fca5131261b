package main

import (
	"context"
	"os"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/harperreed/fomo/config"
	"github.com/harperreed/fomo/models"
	"github.com/harperreed/fomo/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func seeded(t *testing.T, b storage.Backend, ns, text string) {
	t.Helper()
	ds := models.NewDataset()
	ds.Tasks = []models.Record{{"id": "t1", "text": text}}
	require.NoError(t, b.Save(context.Background(), ns, ds))
}

func TestMigrateCopiesEveryNamespace(t *testing.T) {
	ctx := context.Background()
	src := storage.NewFileBackend(t.TempDir())
	dst := storage.NewFileBackend(t.TempDir())
	seeded(t, src, "alice", "a")
	seeded(t, src, "bob", "b")

	res, err := migrate(ctx, src, dst, options{}, zap.NewNop().Sugar())
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"alice", "bob"}, res.Copied)

	ds, err := dst.Load(ctx, "bob")
	require.NoError(t, err)
	assert.Equal(t, "b", ds.Tasks[0]["text"])
}

func TestMigrateDryRunWritesNothing(t *testing.T) {
	ctx := context.Background()
	src := storage.NewFileBackend(t.TempDir())
	dst := storage.NewFileBackend(t.TempDir())
	seeded(t, src, "alice", "a")

	res, err := migrate(ctx, src, dst, options{dryRun: true}, zap.NewNop().Sugar())
	require.NoError(t, err)
	assert.Equal(t, []string{"alice"}, res.Copied)

	_, err = dst.Load(ctx, "alice")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestMigrateSkipsNonEmptyDestinationUnlessForced(t *testing.T) {
	ctx := context.Background()
	src := storage.NewFileBackend(t.TempDir())
	dst := storage.NewFileBackend(t.TempDir())
	seeded(t, src, "alice", "new")
	seeded(t, dst, "alice", "old")

	res, err := migrate(ctx, src, dst, options{users: []string{"alice"}}, zap.NewNop().Sugar())
	require.NoError(t, err)
	assert.Equal(t, []string{"alice"}, res.Skipped)

	backupDir := t.TempDir()
	res, err = migrate(ctx, src, dst, options{users: []string{"alice"}, force: true, backup: true, backupDir: backupDir}, zap.NewNop().Sugar())
	require.NoError(t, err)
	require.Len(t, res.Backups, 1)

	raw, err := os.ReadFile(res.Backups[0])
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"old"`)

	ds, err := dst.Load(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, "new", ds.Tasks[0]["text"])
}

func TestMigrateMissingSourceIsSkipped(t *testing.T) {
	res, err := migrate(context.Background(), storage.NewFileBackend(t.TempDir()), storage.NewFileBackend(t.TempDir()),
		options{users: []string{"ghost"}}, zap.NewNop().Sugar())
	require.NoError(t, err)
	assert.Equal(t, []string{"ghost"}, res.Skipped)
}

func TestRunFileToRedis(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)
	dir := t.TempDir()
	seeded(t, storage.NewFileBackend(dir), "alice", "a")

	base := config.StorageConfig{DataDir: dir, RedisAddr: mr.Addr()}
	res, err := run(ctx, base, config.TierFile, config.TierRedis, options{}, zap.NewNop().Sugar())
	require.NoError(t, err)
	assert.Equal(t, []string{"alice"}, res.Copied)
	assert.True(t, mr.Exists(storage.Key("alice")))

	_, err = run(ctx, base, config.TierFile, config.TierFile, options{}, zap.NewNop().Sugar())
	assert.Error(t, err)
}
