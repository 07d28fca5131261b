// ABOUTME: DataService, generic CRUD over the collections of a namespace's dataset
// ABOUTME: Assigns ids on create and migrates id-less records on load
package data

import (
	"context"
	"errors"
	"fmt"

	"github.com/harperreed/fomo/models"
	"github.com/harperreed/fomo/storage"
	"go.uber.org/zap"
)

// ErrUnknownCollection is returned for a collection name outside the dataset.
var ErrUnknownCollection = errors.New("unknown collection")

// Service performs whole-document read-modify-write cycles. There is no
// locking: concurrent writers race and the last save wins.
type Service struct {
	store *storage.Store
	log   *zap.SugaredLogger
}

func NewService(store *storage.Store, log *zap.SugaredLogger) *Service {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Service{store: store, log: log}
}

// Store returns the underlying storage facade.
func (s *Service) Store() *storage.Store {
	return s.store
}

func checkCollection(c models.Collection) error {
	if _, err := models.ParseCollection(string(c)); err != nil {
		return fmt.Errorf("%w: %q", ErrUnknownCollection, c)
	}
	return nil
}

// LoadData loads a namespace and gives every id-less record an id. When
// anything changed the dataset is written back to the same namespace.
func (s *Service) LoadData(ctx context.Context, userID string) *models.Dataset {
	ds := s.store.LoadData(ctx, userID)
	if ensureIDs(ds) {
		s.log.Infow("assigned missing record ids", "namespace", models.Namespace(userID))
		s.store.SaveData(ctx, ds, userID)
	}
	return ds
}

// ensureIDs reports whether any record was given a new id.
func ensureIDs(ds *models.Dataset) bool {
	changed := false
	for _, c := range models.Collections {
		records := ds.Get(c)
		for i, r := range records {
			if r == nil {
				r = models.Record{}
			}
			if r.ID() == "" {
				records[i] = r.Merge(models.Record{"id": NewID()})
				changed = true
			}
		}
	}
	return changed
}

func (s *Service) SaveData(ctx context.Context, ds *models.Dataset, userID string) {
	s.store.SaveData(ctx, ds, userID)
}

// GetAll returns every record of a collection, in insertion order.
func (s *Service) GetAll(ctx context.Context, c models.Collection, userID string) ([]models.Record, error) {
	if err := checkCollection(c); err != nil {
		return nil, err
	}
	records := s.LoadData(ctx, userID).Get(c)
	if records == nil {
		records = []models.Record{}
	}
	return records, nil
}

// GetByID returns nil when no record has the id.
func (s *Service) GetByID(ctx context.Context, c models.Collection, id, userID string) (models.Record, error) {
	records, err := s.GetAll(ctx, c, userID)
	if err != nil {
		return nil, err
	}
	for _, r := range records {
		if r.ID() == id {
			return r, nil
		}
	}
	return nil, nil
}

// Create appends item, keeping its id when it has one.
func (s *Service) Create(ctx context.Context, c models.Collection, item models.Record, userID string) (models.Record, error) {
	if err := checkCollection(c); err != nil {
		return nil, err
	}
	ds := s.LoadData(ctx, userID)

	record := item.Clone()
	if record.ID() == "" {
		record["id"] = NewID()
	}
	ds.Set(c, append(ds.Get(c), record))

	s.store.SaveData(ctx, ds, userID)
	return record, nil
}

// Update shallow-merges changes into the record with the given id. The id
// itself cannot be changed. Returns nil when no record matched.
func (s *Service) Update(ctx context.Context, c models.Collection, id string, changes models.Record, userID string) (models.Record, error) {
	if err := checkCollection(c); err != nil {
		return nil, err
	}
	ds := s.LoadData(ctx, userID)
	records := ds.Get(c)

	for i, r := range records {
		if r.ID() != id {
			continue
		}
		updated := r.Merge(changes)
		updated["id"] = r["id"]
		records[i] = updated
		s.store.SaveData(ctx, ds, userID)
		return updated, nil
	}
	return nil, nil
}

// Remove deletes the record with the given id and reports whether one
// existed.
func (s *Service) Remove(ctx context.Context, c models.Collection, id, userID string) (bool, error) {
	if err := checkCollection(c); err != nil {
		return false, err
	}
	ds := s.LoadData(ctx, userID)
	records := ds.Get(c)

	kept := make([]models.Record, 0, len(records))
	for _, r := range records {
		if r.ID() != id {
			kept = append(kept, r)
		}
	}
	if len(kept) == len(records) {
		return false, nil
	}

	ds.Set(c, kept)
	s.store.SaveData(ctx, ds, userID)
	return true, nil
}
