// ABOUTME: Builds the configured storage tier
// ABOUTME: Returns the backend plus a closer releasing whatever it opened
package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/harperreed/fomo/charm"
	"github.com/harperreed/fomo/config"
	"github.com/harperreed/fomo/db"
	"go.uber.org/zap"
)

// Lister is implemented by tiers that can enumerate stored namespaces.
type Lister interface {
	Namespaces(ctx context.Context) ([]string, error)
}

// Stamper is implemented by tiers that record when a namespace was last written.
type Stamper interface {
	UpdatedAt(ctx context.Context, namespace string) (time.Time, error)
}

// Open builds the backend selected by cfg.Tier.
func Open(ctx context.Context, cfg config.StorageConfig, log *zap.SugaredLogger) (Backend, func() error, error) {
	noop := func() error { return nil }

	switch cfg.Tier {
	case config.TierFile, "":
		return NewFileBackend(cfg.DataDir), noop, nil

	case config.TierKV:
		client, err := OpenKV(cfg)
		if err != nil {
			return nil, nil, err
		}
		return NewKVBackend(client), client.Close, nil

	case config.TierRemote:
		client, err := OpenKV(cfg)
		if err != nil {
			return nil, nil, err
		}
		remote := NewRemoteBackend(cfg.RemoteURL, cfg.RemoteToken)
		return NewFallbackBackend(remote, NewKVBackend(client), log), client.Close, nil

	case config.TierDatabase:
		database, err := db.OpenDatabase(cfg.DatabaseDriver, cfg.DatabaseDSN)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open database: %w", err)
		}
		return NewDatabaseBackend(database), database.Close, nil

	case config.TierRedis:
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err := rdb.Ping(ctx).Err(); err != nil {
			_ = rdb.Close()
			return nil, nil, fmt.Errorf("failed to reach redis at %s: %w", cfg.RedisAddr, err)
		}
		return NewRedisBackend(rdb), rdb.Close, nil
	}

	return nil, nil, fmt.Errorf("unknown storage tier %q", cfg.Tier)
}

// OpenKV opens the KV client: Charm KV when kv_sync is set, otherwise a local
// BadgerDB at kv_path.
func OpenKV(cfg config.StorageConfig) (*charm.Client, error) {
	if cfg.KVSync {
		return charm.Open(charm.NewConfig(cfg.KVHost, cfg.KVAutoSync))
	}
	return charm.OpenLocal(cfg.KVPath)
}
