package storage

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/harperreed/fomo/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

type failingBackend struct{ err error }

func (f failingBackend) Load(context.Context, string) (*models.Dataset, error) { return nil, f.err }
func (f failingBackend) Save(context.Context, string, *models.Dataset) error   { return f.err }
func (f failingBackend) Clear(context.Context, string) error                   { return f.err }

func TestStoreRoundTrip(t *testing.T) {
	s := New(NewFileBackend(t.TempDir()), nil)
	ctx := context.Background()

	s.SaveData(ctx, sampleDataset("hello"), "u1")
	assert.Equal(t, "hello", s.LoadData(ctx, "u1").Tasks[0]["text"])

	s.ClearData(ctx, "u1")
	ds := s.LoadData(ctx, "u1")
	assert.Empty(t, ds.Tasks)
	assert.NotNil(t, ds.People)
}

func TestStoreNamespacesIsolated(t *testing.T) {
	s := New(NewFileBackend(t.TempDir()), nil)
	ctx := context.Background()

	s.SaveData(ctx, sampleDataset("a"), "alice")
	s.SaveData(ctx, sampleDataset("b"), "bob")

	assert.Equal(t, "a", s.LoadData(ctx, "alice").Tasks[0]["text"])
	assert.Equal(t, "b", s.LoadData(ctx, "bob").Tasks[0]["text"])
	assert.Empty(t, s.LoadData(ctx, "").Tasks)
}

func TestStoreMalformedDocumentLoadsEmpty(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "fomo_life_data_u1.json"), []byte("{not json"), 0644))

	core, logs := observer.New(zap.WarnLevel)
	s := New(NewFileBackend(dir), zap.New(core).Sugar())

	ds := s.LoadData(context.Background(), "u1")
	assert.Empty(t, ds.Tasks)
	assert.Equal(t, 1, logs.Len())
}

func TestStoreSwallowsErrors(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	s := New(failingBackend{err: errors.New("disk on fire")}, zap.New(core).Sugar())
	ctx := context.Background()

	assert.NotPanics(t, func() {
		s.SaveData(ctx, nil, "u1")
		s.ClearData(ctx, "u1")
	})
	assert.Empty(t, s.LoadData(ctx, "u1").Projects)
	assert.Equal(t, 3, logs.Len())
}

func TestStoreNotFoundIsQuiet(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	s := New(failingBackend{err: ErrNotFound}, zap.New(core).Sugar())

	s.LoadData(context.Background(), "u1")
	assert.Zero(t, logs.Len())
}

func TestStoreRestoreData(t *testing.T) {
	s := New(NewFileBackend(t.TempDir()), nil)
	ctx := context.Background()

	s.SaveData(ctx, sampleDataset("default"), "")
	s.ClearData(ctx, "")
	assert.Empty(t, s.LoadData(ctx, "").Tasks)

	s.RestoreData(ctx, "")
	assert.Len(t, s.LoadData(ctx, "").Tasks, 1)
}
