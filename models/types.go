// ABOUTME: Data models for the per-user dataset document
// ABOUTME: Defines Dataset, Record, and the collection types that partition it
package models

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// DefaultNamespace is the dataset namespace used when no user id is given.
const DefaultNamespace = "default"

// Collection names a partition of the dataset.
type Collection string

// Collection types.
const (
	CollectionTasks    Collection = "tasks"
	CollectionProjects Collection = "projects"
	CollectionDreams   Collection = "dreams"
	CollectionPeople   Collection = "people"
	CollectionContacts Collection = "contacts"
)

// Collections lists every collection in the order they are migrated.
var Collections = []Collection{
	CollectionTasks,
	CollectionProjects,
	CollectionDreams,
	CollectionPeople,
	CollectionContacts,
}

// ParseCollection validates a collection name.
func ParseCollection(s string) (Collection, error) {
	for _, c := range Collections {
		if string(c) == s {
			return c, nil
		}
	}
	return "", fmt.Errorf("unknown collection %q", s)
}

// Namespace returns the dataset namespace for a user id.
func Namespace(userID string) string {
	if userID == "" {
		return DefaultNamespace
	}
	return userID
}

// Record is a single JSON object inside a collection. Fields not known to
// this package are carried through untouched.
type Record map[string]interface{}

// ID returns the record's id, or "" if it has none. Older clients stored
// numeric timestamp ids; those are returned in decimal form. Zero counts as
// no id.
func (r Record) ID() string {
	switch id := r["id"].(type) {
	case string:
		return id
	case float64:
		if id == 0 {
			return ""
		}
		return strconv.FormatFloat(id, 'f', -1, 64)
	case json.Number:
		if f, err := id.Float64(); err == nil && f == 0 {
			return ""
		}
		return id.String()
	case int:
		if id == 0 {
			return ""
		}
		return strconv.Itoa(id)
	case int64:
		if id == 0 {
			return ""
		}
		return strconv.FormatInt(id, 10)
	}
	return ""
}

// Clone returns a shallow copy of the record.
func (r Record) Clone() Record {
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// Merge returns {...r, ...changes}. Nested values are replaced, not merged.
func (r Record) Merge(changes Record) Record {
	out := r.Clone()
	for k, v := range changes {
		out[k] = v
	}
	return out
}

// Dataset is the full per-user document.
type Dataset struct {
	Tasks    []Record `json:"tasks"`
	Projects []Record `json:"projects"`
	Dreams   []Record `json:"dreams"`
	People   []Record `json:"people"`
	Contacts []Record `json:"contacts,omitempty"`
}

// NewDataset returns an empty dataset with every collection initialised.
func NewDataset() *Dataset {
	return &Dataset{
		Tasks:    []Record{},
		Projects: []Record{},
		Dreams:   []Record{},
		People:   []Record{},
	}
}

// Normalize replaces nil collections with empty ones so the document always
// serialises with arrays.
func (d *Dataset) Normalize() {
	if d.Tasks == nil {
		d.Tasks = []Record{}
	}
	if d.Projects == nil {
		d.Projects = []Record{}
	}
	if d.Dreams == nil {
		d.Dreams = []Record{}
	}
	if d.People == nil {
		d.People = []Record{}
	}
}

// Get returns the records of one collection.
func (d *Dataset) Get(c Collection) []Record {
	switch c {
	case CollectionTasks:
		return d.Tasks
	case CollectionProjects:
		return d.Projects
	case CollectionDreams:
		return d.Dreams
	case CollectionPeople:
		return d.People
	case CollectionContacts:
		return d.Contacts
	}
	return nil
}

// Set replaces the records of one collection.
func (d *Dataset) Set(c Collection, records []Record) {
	switch c {
	case CollectionTasks:
		d.Tasks = records
	case CollectionProjects:
		d.Projects = records
	case CollectionDreams:
		d.Dreams = records
	case CollectionPeople:
		d.People = records
	case CollectionContacts:
		d.Contacts = records
	}
}

// Clone deep-copies the dataset through JSON.
func (d *Dataset) Clone() (*Dataset, error) {
	raw, err := json.Marshal(d)
	if err != nil {
		return nil, err
	}
	return DecodeDataset(raw)
}

// DecodeDataset parses a stored document. An empty or null document yields
// an empty dataset.
func DecodeDataset(raw []byte) (*Dataset, error) {
	ds := NewDataset()
	if len(raw) == 0 || string(raw) == "null" {
		return ds, nil
	}
	if err := json.Unmarshal(raw, ds); err != nil {
		return nil, fmt.Errorf("decode dataset: %w", err)
	}
	ds.Normalize()
	return ds, nil
}

// EncodeDataset serialises a dataset, pretty-printed with two spaces when
// indent is set.
func EncodeDataset(d *Dataset, indent bool) ([]byte, error) {
	if d == nil {
		d = NewDataset()
	}
	d.Normalize()
	if indent {
		return json.MarshalIndent(d, "", "  ")
	}
	return json.Marshal(d)
}
