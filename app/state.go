// ABOUTME: In-memory owner of one namespace's dataset
// ABOUTME: Mirrors every mutation through the DataService and applies cross-entity fixups
package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/harperreed/fomo/data"
	"github.com/harperreed/fomo/models"
	"go.uber.org/zap"
)

var (
	// ErrEmptyName is returned when a person would be left without a name.
	ErrEmptyName = errors.New("name must not be empty")
	// ErrUnknownMethod is returned for a notification method other than
	// discord, sms, or whatsapp.
	ErrUnknownMethod = errors.New("unknown notification method")
)

// State holds the dataset for one user. The in-memory copy changes only
// after the DataService call for a mutation succeeds.
type State struct {
	svc    *data.Service
	userID string
	log    *zap.SugaredLogger

	mu   sync.RWMutex
	data *models.Dataset
}

func NewState(svc *data.Service, userID string, log *zap.SugaredLogger) *State {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &State{svc: svc, userID: userID, log: log, data: models.NewDataset()}
}

// UserID returns the namespace owner.
func (s *State) UserID() string {
	return s.userID
}

// Load replaces the in-memory dataset with the stored one.
func (s *State) Load(ctx context.Context) *models.Dataset {
	ds := s.svc.LoadData(ctx, s.userID)
	s.mu.Lock()
	s.data = ds
	s.mu.Unlock()
	return s.Data()
}

// Data returns a deep copy of the in-memory dataset.
func (s *State) Data() *models.Dataset {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ds, err := s.data.Clone()
	if err != nil {
		s.log.Warnw("failed to copy dataset", "error", err)
		return models.NewDataset()
	}
	return ds
}

func (s *State) find(c models.Collection, id string) models.Record {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, r := range s.data.Get(c) {
		if r.ID() == id {
			return r
		}
	}
	return nil
}

// record returns the in-memory record, falling back to storage for records
// created by another writer since Load.
func (s *State) record(ctx context.Context, c models.Collection, id string) (models.Record, error) {
	if r := s.find(c, id); r != nil {
		return r, nil
	}
	return s.svc.GetByID(ctx, c, id, s.userID)
}

func (s *State) replace(c models.Collection, record models.Record) {
	s.mu.Lock()
	defer s.mu.Unlock()
	records := s.data.Get(c)
	for i, r := range records {
		if r.ID() == record.ID() {
			records[i] = record
			return
		}
	}
	s.data.Set(c, append(records, record))
}

func (s *State) drop(c models.Collection, id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	records := s.data.Get(c)
	kept := make([]models.Record, 0, len(records))
	for _, r := range records {
		if r.ID() != id {
			kept = append(kept, r)
		}
	}
	s.data.Set(c, kept)
}

// Add creates a record. Projects get a palette colour when they have none
// and always lead with a project-level subproject.
func (s *State) Add(ctx context.Context, c models.Collection, item models.Record) (models.Record, error) {
	if c == models.CollectionProjects {
		item = item.Clone()
		if item.ID() == "" {
			item["id"] = data.NewID()
		}
		if color, _ := item["color"].(string); color == "" {
			s.mu.RLock()
			n := len(s.data.Projects)
			s.mu.RUnlock()
			item["color"] = PickColor(n)
		}
		item = EnsureProjectLevel(item)
	}

	created, err := s.svc.Create(ctx, c, item, s.userID)
	if err != nil {
		return nil, err
	}
	s.replace(c, created)
	return created, nil
}

// Edit shallow-merges changes into a record. Returns nil when the record
// does not exist.
func (s *State) Edit(ctx context.Context, c models.Collection, id string, changes models.Record) (models.Record, error) {
	if c == models.CollectionProjects {
		current, err := s.record(ctx, c, id)
		if err != nil || current == nil {
			return nil, err
		}
		changes = EnsureProjectLevel(current.Merge(changes))
	}

	var oldName string
	if c == models.CollectionPeople {
		if raw, renaming := changes["name"]; renaming {
			name, err := personName(raw)
			if err != nil {
				return nil, err
			}
			changes = changes.Clone()
			changes["name"] = name

			person, err := s.record(ctx, c, id)
			if err != nil {
				return nil, err
			}
			oldName = stringField(person, "name")
		}
	}

	updated, err := s.svc.Update(ctx, c, id, changes, s.userID)
	if err != nil || updated == nil {
		return nil, err
	}
	s.replace(c, updated)

	if newName := stringField(updated, "name"); oldName != "" && newName != oldName {
		s.fanOut(ctx, renamePerson(oldName, newName))
	}
	return updated, nil
}

// Delete removes a record and reports whether it existed. Deleting a person
// strips them from every task.
func (s *State) Delete(ctx context.Context, c models.Collection, id string) (bool, error) {
	if c == models.CollectionPeople {
		return s.DeletePerson(ctx, id)
	}
	ok, err := s.svc.Remove(ctx, c, id, s.userID)
	if err != nil || !ok {
		return false, err
	}
	s.drop(c, id)
	return true, nil
}

// DeletePerson removes a person and every task reference to their name.
func (s *State) DeletePerson(ctx context.Context, id string) (bool, error) {
	person, err := s.record(ctx, models.CollectionPeople, id)
	if err != nil {
		return false, err
	}

	ok, err := s.svc.Remove(ctx, models.CollectionPeople, id, s.userID)
	if err != nil || !ok {
		return false, err
	}
	s.drop(models.CollectionPeople, id)

	if name := stringField(person, "name"); name != "" {
		s.fanOut(ctx, removePersonNamed(name))
	}
	return true, nil
}

// personName trims a new person name. Tasks refer to people by name, so an
// empty or non-string name is rejected.
func personName(raw interface{}) (string, error) {
	name, ok := raw.(string)
	if !ok {
		return "", fmt.Errorf("%w: name must be a string", ErrEmptyName)
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return "", ErrEmptyName
	}
	return name, nil
}

// RenamePerson renames a person and rewrites task references to the old name.
func (s *State) RenamePerson(ctx context.Context, id, newName string) (models.Record, error) {
	newName, err := personName(newName)
	if err != nil {
		return nil, err
	}

	person, err := s.record(ctx, models.CollectionPeople, id)
	if err != nil || person == nil {
		return nil, err
	}
	oldName := stringField(person, "name")

	updated, err := s.svc.Update(ctx, models.CollectionPeople, id, models.Record{"name": newName}, s.userID)
	if err != nil || updated == nil {
		return nil, err
	}
	s.replace(models.CollectionPeople, updated)

	if oldName != "" && oldName != newName {
		s.fanOut(ctx, renamePerson(oldName, newName))
	}
	return updated, nil
}

// SetPersonMethod changes a person's default for one notification method
// and carries it into the tasks that still follow the old default.
func (s *State) SetPersonMethod(ctx context.Context, id, method string, enabled bool) (models.Record, error) {
	var known models.NotificationMethods
	if _, err := known.Get(method); err != nil {
		return nil, fmt.Errorf("%w: %q", ErrUnknownMethod, method)
	}

	person, err := s.record(ctx, models.CollectionPeople, id)
	if err != nil || person == nil {
		return nil, err
	}

	methods := toMap(person["methods"])
	if methods == nil {
		methods = map[string]interface{}{}
	}
	oldDefault := boolField(methods, method)
	methods = cloneMap(methods)
	methods[method] = enabled

	updated, err := s.svc.Update(ctx, models.CollectionPeople, id, models.Record{"methods": methods}, s.userID)
	if err != nil || updated == nil {
		return nil, err
	}
	s.replace(models.CollectionPeople, updated)

	s.fanOut(ctx, propagateMethod(stringField(person, "name"), method, oldDefault, enabled))
	return updated, nil
}

// fanOut applies a task rewrite to the in-memory dataset and to a freshly
// loaded copy of the stored one, saving the latter when it changed.
func (s *State) fanOut(ctx context.Context, fn taskRewrite) {
	s.mu.Lock()
	rewriteTasks(s.data, fn)
	s.mu.Unlock()

	stored := s.svc.LoadData(ctx, s.userID)
	if rewriteTasks(stored, fn) {
		s.svc.SaveData(ctx, stored, s.userID)
	}
}
