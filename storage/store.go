// ABOUTME: Storage facade applying the dataset failure semantics
// ABOUTME: Unreadable data loads as an empty dataset, write failures are logged and dropped
package storage

import (
	"context"
	"errors"

	"github.com/harperreed/fomo/models"
	"go.uber.org/zap"
)

// Store wraps a Backend so callers never see storage errors.
type Store struct {
	backend Backend
	log     *zap.SugaredLogger
}

// New returns a Store over backend.
func New(backend Backend, log *zap.SugaredLogger) *Store {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Store{backend: backend, log: log}
}

// Backend returns the wrapped tier.
func (s *Store) Backend() Backend {
	return s.backend
}

// LoadData returns the dataset for userID, or an empty dataset when nothing
// readable is stored.
func (s *Store) LoadData(ctx context.Context, userID string) *models.Dataset {
	ns := models.Namespace(userID)

	ds, err := s.backend.Load(ctx, ns)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			s.log.Warnw("storage load failed, using empty dataset", "namespace", ns, "error", err)
		}
		return models.NewDataset()
	}
	if ds == nil {
		return models.NewDataset()
	}
	ds.Normalize()
	return ds
}

// SaveData overwrites the stored dataset for userID.
func (s *Store) SaveData(ctx context.Context, ds *models.Dataset, userID string) {
	ns := models.Namespace(userID)
	if ds == nil {
		ds = models.NewDataset()
	}
	if err := s.backend.Save(ctx, ns, ds); err != nil {
		s.log.Errorw("storage save failed", "namespace", ns, "error", err)
	}
}

// ClearData removes the stored dataset for userID.
func (s *Store) ClearData(ctx context.Context, userID string) {
	ns := models.Namespace(userID)
	if err := s.backend.Clear(ctx, ns); err != nil {
		s.log.Errorw("storage clear failed", "namespace", ns, "error", err)
	}
}

// RestoreData puts back the copy ClearData kept, on tiers that keep one.
func (s *Store) RestoreData(ctx context.Context, userID string) {
	snap, ok := s.backend.(Snapshotter)
	if !ok {
		return
	}
	ns := models.Namespace(userID)
	if err := snap.Restore(ctx, ns); err != nil {
		s.log.Warnw("storage restore failed", "namespace", ns, "error", err)
	}
}

// BackupAll snapshots the default namespace.
func (s *Store) BackupAll(ctx context.Context) {
	if snap, ok := s.backend.(Snapshotter); ok {
		if err := snap.BackupAll(ctx); err != nil {
			s.log.Warnw("storage backup failed", "error", err)
		}
	}
}

// RestoreAll restores the snapshot taken by BackupAll.
func (s *Store) RestoreAll(ctx context.Context) {
	if snap, ok := s.backend.(Snapshotter); ok {
		if err := snap.RestoreAll(ctx); err != nil {
			s.log.Warnw("storage restore-all failed", "error", err)
		}
	}
}
