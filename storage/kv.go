// ABOUTME: Key/value storage tier, the local store used by offline clients and tests
// ABOUTME: Stores the compact JSON document under fomo_life_data_<namespace>
package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/harperreed/fomo/charm"
	"github.com/harperreed/fomo/models"
)

// KV is the key/value surface the tier needs; *charm.Client satisfies it.
type KV interface {
	Get(key []byte) ([]byte, error)
	Set(key, value []byte) error
	Delete(key []byte) error
}

type KVBackend struct {
	kv KV
}

func NewKVBackend(kv KV) *KVBackend {
	return &KVBackend{kv: kv}
}

func (k *KVBackend) Load(_ context.Context, namespace string) (*models.Dataset, error) {
	raw, err := k.kv.Get([]byte(Key(namespace)))
	if errors.Is(err, charm.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("kv get: %w", err)
	}
	return models.DecodeDataset(raw)
}

func (k *KVBackend) Save(_ context.Context, namespace string, ds *models.Dataset) error {
	raw, err := models.EncodeDataset(ds, false)
	if err != nil {
		return err
	}
	return k.kv.Set([]byte(Key(namespace)), raw)
}

func (k *KVBackend) Clear(_ context.Context, namespace string) error {
	return k.kv.Delete([]byte(Key(namespace)))
}
