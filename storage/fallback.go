// ABOUTME: Composite tier that retries failed operations on a secondary tier
// ABOUTME: Used to keep remote clients working offline against the local kv store
package storage

import (
	"context"
	"errors"

	"github.com/harperreed/fomo/models"
	"go.uber.org/zap"
)

type FallbackBackend struct {
	primary   Backend
	secondary Backend
	log       *zap.SugaredLogger
}

// NewFallbackBackend tries primary first and uses secondary whenever primary
// fails with anything other than ErrNotFound.
func NewFallbackBackend(primary, secondary Backend, log *zap.SugaredLogger) *FallbackBackend {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &FallbackBackend{primary: primary, secondary: secondary, log: log}
}

func (f *FallbackBackend) Load(ctx context.Context, namespace string) (*models.Dataset, error) {
	ds, err := f.primary.Load(ctx, namespace)
	if err == nil || errors.Is(err, ErrNotFound) {
		return ds, err
	}
	f.log.Debugw("primary load failed, falling back", "namespace", namespace, "error", err)
	return f.secondary.Load(ctx, namespace)
}

func (f *FallbackBackend) Save(ctx context.Context, namespace string, ds *models.Dataset) error {
	err := f.primary.Save(ctx, namespace, ds)
	if err == nil {
		return nil
	}
	f.log.Debugw("primary save failed, falling back", "namespace", namespace, "error", err)
	return f.secondary.Save(ctx, namespace, ds)
}

func (f *FallbackBackend) Clear(ctx context.Context, namespace string) error {
	err := f.primary.Clear(ctx, namespace)
	if err == nil {
		return nil
	}
	f.log.Debugw("primary clear failed, falling back", "namespace", namespace, "error", err)
	return f.secondary.Clear(ctx, namespace)
}
