// ABOUTME: Storage backend contract and key naming shared by every tier
// ABOUTME: A backend persists one dataset document per namespace
package storage

import (
	"context"
	"errors"

	"github.com/harperreed/fomo/models"
)

// KeyPrefix prefixes every stored dataset key.
const KeyPrefix = "fomo_life_data"

// ErrNotFound means the namespace has never been written.
var ErrNotFound = errors.New("dataset not found")

// Backend is one storage tier.
type Backend interface {
	// Load returns ErrNotFound when the namespace has no document.
	Load(ctx context.Context, namespace string) (*models.Dataset, error)
	Save(ctx context.Context, namespace string, ds *models.Dataset) error
	Clear(ctx context.Context, namespace string) error
}

// Snapshotter is implemented by tiers that keep backup copies.
type Snapshotter interface {
	Restore(ctx context.Context, namespace string) error
	BackupAll(ctx context.Context) error
	RestoreAll(ctx context.Context) error
}

// Key returns the key a namespace is stored under in key/value tiers.
func Key(namespace string) string {
	return KeyPrefix + "_" + models.Namespace(namespace)
}
