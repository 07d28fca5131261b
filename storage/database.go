// ABOUTME: SQL storage tier over the user_data table
// ABOUTME: Works with SQLite locally and Postgres (Supabase) in production
package storage

import (
	"context"
	"errors"
	"time"

	"github.com/harperreed/fomo/db"
	"github.com/harperreed/fomo/models"
)

type DatabaseBackend struct {
	repo *db.UserDataRepository
}

func NewDatabaseBackend(database *db.DB) *DatabaseBackend {
	return &DatabaseBackend{repo: db.NewUserDataRepository(database)}
}

func (d *DatabaseBackend) Load(ctx context.Context, namespace string) (*models.Dataset, error) {
	raw, err := d.repo.Load(ctx, models.Namespace(namespace))
	if errors.Is(err, db.ErrUserDataNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return models.DecodeDataset(raw)
}

func (d *DatabaseBackend) Save(ctx context.Context, namespace string, ds *models.Dataset) error {
	raw, err := models.EncodeDataset(ds, false)
	if err != nil {
		return err
	}
	return d.repo.Save(ctx, models.Namespace(namespace), raw)
}

func (d *DatabaseBackend) Clear(ctx context.Context, namespace string) error {
	return d.repo.Delete(ctx, models.Namespace(namespace))
}

// Namespaces lists stored namespaces, most recently written first.
func (d *DatabaseBackend) Namespaces(ctx context.Context) ([]string, error) {
	return d.repo.Namespaces(ctx)
}

func (d *DatabaseBackend) UpdatedAt(ctx context.Context, namespace string) (time.Time, error) {
	ts, err := d.repo.UpdatedAt(ctx, models.Namespace(namespace))
	if errors.Is(err, db.ErrUserDataNotFound) {
		return time.Time{}, ErrNotFound
	}
	return ts, err
}
