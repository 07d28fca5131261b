// ABOUTME: File storage tier writing one pretty-printed JSON file per namespace
// ABOUTME: Files live flat in the data dir; writes go through a temp file and rename
package storage

import (
	"context"
	"fmt"
	"net/url"
	"path/filepath"
	"strings"

	"github.com/harperreed/fomo/models"
	"github.com/peterbourgon/diskv/v3"
)

const (
	backupSuffix   = ".bak"
	originalSuffix = ".orig"
)

// FileBackend stores <dir>/fomo_life_data_<namespace>.json.
type FileBackend struct {
	d   *diskv.Diskv
	dir string
}

// NewFileBackend returns a file tier rooted at dir. The directory is created
// on first write.
func NewFileBackend(dir string) *FileBackend {
	return &FileBackend{
		d: diskv.New(diskv.Options{
			BasePath:          dir,
			AdvancedTransform: flatTransform,
			InverseTransform:  flatInverseTransform,
			TempDir:           filepath.Join(dir, ".tmp"),
			PathPerm:          0755,
			FilePerm:          0644,
		}),
		dir: dir,
	}
}

func flatTransform(key string) *diskv.PathKey {
	return &diskv.PathKey{Path: []string{}, FileName: key}
}

func flatInverseTransform(pathKey *diskv.PathKey) string {
	return pathKey.FileName
}

// fileKey path-escapes the namespace so a user id can never name a file
// outside the data dir and distinct ids stay distinct.
func fileKey(namespace string) string {
	return fmt.Sprintf("%s_%s.json", KeyPrefix, url.PathEscape(models.Namespace(namespace)))
}

// Path returns the file a namespace is stored in.
func (f *FileBackend) Path(namespace string) string {
	return filepath.Join(f.dir, fileKey(namespace))
}

func (f *FileBackend) Load(_ context.Context, namespace string) (*models.Dataset, error) {
	key := fileKey(namespace)
	if !f.d.Has(key) {
		return nil, ErrNotFound
	}
	raw, err := f.d.Read(key)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", key, err)
	}
	return models.DecodeDataset(raw)
}

func (f *FileBackend) Save(_ context.Context, namespace string, ds *models.Dataset) error {
	raw, err := models.EncodeDataset(ds, true)
	if err != nil {
		return err
	}
	return f.d.Write(fileKey(namespace), raw)
}

// Clear deletes the namespace file. The default namespace is copied to a
// .bak file first so Restore can bring it back.
func (f *FileBackend) Clear(_ context.Context, namespace string) error {
	key := fileKey(namespace)
	if !f.d.Has(key) {
		return nil
	}
	if models.Namespace(namespace) == models.DefaultNamespace {
		if err := f.copyKey(key, key+backupSuffix); err != nil {
			return err
		}
	}
	return f.d.Erase(key)
}

func (f *FileBackend) Restore(_ context.Context, namespace string) error {
	key := fileKey(namespace)
	return f.moveKey(key+backupSuffix, key)
}

func (f *FileBackend) BackupAll(_ context.Context) error {
	key := fileKey(models.DefaultNamespace)
	if !f.d.Has(key) {
		return nil
	}
	return f.copyKey(key, key+originalSuffix)
}

func (f *FileBackend) RestoreAll(_ context.Context) error {
	key := fileKey(models.DefaultNamespace)
	return f.moveKey(key+originalSuffix, key)
}

// Namespaces lists the namespaces that have a data file.
func (f *FileBackend) Namespaces(ctx context.Context) ([]string, error) {
	prefix := KeyPrefix + "_"
	var out []string
	for key := range f.d.KeysPrefix(prefix, ctx.Done()) {
		if !strings.HasSuffix(key, ".json") {
			continue
		}
		ns, err := url.PathUnescape(strings.TrimSuffix(strings.TrimPrefix(key, prefix), ".json"))
		if err != nil {
			continue
		}
		out = append(out, ns)
	}
	return out, nil
}

func (f *FileBackend) copyKey(from, to string) error {
	raw, err := f.d.Read(from)
	if err != nil {
		return err
	}
	return f.d.Write(to, raw)
}

// moveKey is a no-op when the source does not exist.
func (f *FileBackend) moveKey(from, to string) error {
	if !f.d.Has(from) {
		return nil
	}
	if err := f.copyKey(from, to); err != nil {
		return err
	}
	return f.d.Erase(from)
}
