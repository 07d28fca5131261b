// ABOUTME: Redis storage tier for multi-instance server deployments
// ABOUTME: Stores the compact JSON document under fomo_life_data_<namespace>
package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-redis/redis/v8"
	"github.com/harperreed/fomo/models"
)

type RedisBackend struct {
	rdb *redis.Client
}

func NewRedisBackend(rdb *redis.Client) *RedisBackend {
	return &RedisBackend{rdb: rdb}
}

func (r *RedisBackend) Load(ctx context.Context, namespace string) (*models.Dataset, error) {
	raw, err := r.rdb.Get(ctx, Key(namespace)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("redis get: %w", err)
	}
	return models.DecodeDataset(raw)
}

func (r *RedisBackend) Save(ctx context.Context, namespace string, ds *models.Dataset) error {
	raw, err := models.EncodeDataset(ds, false)
	if err != nil {
		return err
	}
	return r.rdb.Set(ctx, Key(namespace), raw, 0).Err()
}

func (r *RedisBackend) Clear(ctx context.Context, namespace string) error {
	return r.rdb.Del(ctx, Key(namespace)).Err()
}

// Namespaces lists stored namespaces.
func (r *RedisBackend) Namespaces(ctx context.Context) ([]string, error) {
	prefix := KeyPrefix + "_"
	var out []string
	iter := r.rdb.Scan(ctx, 0, prefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		out = append(out, iter.Val()[len(prefix):])
	}
	return out, iter.Err()
}
