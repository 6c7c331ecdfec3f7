package corpus

import (
	"os"
	"path/filepath"

	errs "street-name-validation/pkg/errors"
)

// Store is the persistent local key-value store backing the corpus snapshot.
// Two logical keys are used: the name list and its refresh watermark.
// Absence of either key triggers fallback to the bundled seed list.
type Store interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte) error
	Delete(key string) error
}

// DiskStore persists each key as a file under a cache directory. Snapshots
// have no expiry; they are replaced on refresh and removed only by explicit
// eviction.
type DiskStore struct {
	dir string
}

func NewDiskStore(dir string) *DiskStore {
	return &DiskStore{dir: dir}
}

func (s *DiskStore) Get(key string) ([]byte, bool) {
	data, err := os.ReadFile(s.path(key))
	if err != nil {
		return nil, false
	}
	return data, true
}

func (s *DiskStore) Set(key string, value []byte) error {
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return errs.NewStore("DiskStore.Set", "create cache dir", err)
	}
	// Write-then-rename so a crash mid-write can't corrupt the snapshot.
	tmp := s.path(key) + ".tmp"
	if err := os.WriteFile(tmp, value, 0644); err != nil {
		return errs.NewStore("DiskStore.Set", "write snapshot", err)
	}
	if err := os.Rename(tmp, s.path(key)); err != nil {
		return errs.NewStore("DiskStore.Set", "replace snapshot", err)
	}
	return nil
}

func (s *DiskStore) Delete(key string) error {
	if err := os.Remove(s.path(key)); err != nil && !os.IsNotExist(err) {
		return errs.NewStore("DiskStore.Delete", "remove snapshot", err)
	}
	return nil
}

func (s *DiskStore) path(key string) string {
	return filepath.Join(s.dir, key+".snapshot")
}
