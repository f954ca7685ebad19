package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/revisehq/revise/internal/models"
	"github.com/revisehq/revise/internal/snapshot"
)

// Cache is the last-known-good snapshot on the local file system. It is
// written on every save and read back when the backend is unreachable, so
// the application keeps working offline on slightly stale data.
type Cache struct {
	path string
}

// NewCache creates a file cache at path. The parent directory is created
// lazily on first write.
func NewCache(path string) *Cache {
	return &Cache{path: path}
}

// Load reads and normalizes the cached snapshot. A missing cache file
// yields the default snapshot.
func (c *Cache) Load() (models.Snapshot, error) {
	data, err := os.ReadFile(c.path)
	if os.IsNotExist(err) {
		return snapshot.Default(), nil
	}
	if err != nil {
		return models.Snapshot{}, fmt.Errorf("cache: read %s: %w", c.path, err)
	}
	snap, err := snapshot.Normalize(data)
	if err != nil {
		return models.Snapshot{}, fmt.Errorf("cache: %w", err)
	}
	return snap, nil
}

// Save atomically replaces the cache file: tmp file, fsync, rename. A
// crash mid-write leaves the previous snapshot intact.
func (c *Cache) Save(snap models.Snapshot) error {
	data, err := json.Marshal(snapshot.Clean(snap))
	if err != nil {
		return fmt.Errorf("cache: marshal: %w", err)
	}

	dir := filepath.Dir(c.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("cache: mkdir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".revise-tmp-*")
	if err != nil {
		return fmt.Errorf("cache: create temp: %w", err)
	}
	tmpName := tmp.Name()

	success := false
	defer func() {
		if !success {
			_ = tmp.Close()
			_ = os.Remove(tmpName)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		return fmt.Errorf("cache: write temp: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("cache: fsync: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("cache: close temp: %w", err)
	}
	if err := os.Rename(tmpName, c.path); err != nil {
		return fmt.Errorf("cache: rename: %w", err)
	}
	success = true
	return nil
}
