package storage

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisBackend(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	r := NewRedisBackend(rdb)
	ctx := context.Background()

	_, err := r.Load(ctx, "u1")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, r.Save(ctx, "u1", sampleDataset("cached")))
	assert.True(t, mr.Exists("fomo_life_data_u1"))

	ds, err := r.Load(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "cached", ds.Tasks[0]["text"])

	namespaces, err := r.Namespaces(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"u1"}, namespaces)

	require.NoError(t, r.Clear(ctx, "u1"))
	assert.False(t, mr.Exists("fomo_life_data_u1"))
}

func TestRedisBackendCorruptValue(t *testing.T) {
	mr := miniredis.RunT(t)
	require.NoError(t, mr.Set("fomo_life_data_u1", "garbage"))
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	_, err := NewRedisBackend(rdb).Load(context.Background(), "u1")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)
}
