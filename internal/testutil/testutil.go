// Package testutil provides shared test helpers for setting up stores and services.
package testutil

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/revisehq/revise/internal/models"
	"github.com/revisehq/revise/internal/store"
	"github.com/revisehq/revise/internal/studyservice"
)

// TestStore creates a temporary SQLite document store that is
// automatically cleaned up.
func TestStore(t *testing.T) *store.SQLite {
	t.Helper()
	dbFile, err := os.CreateTemp("", "revise-test-*.db")
	if err != nil {
		t.Fatal(err)
	}
	dbFile.Close()
	t.Cleanup(func() { os.Remove(dbFile.Name()) })

	s, err := store.OpenSQLite(dbFile.Name())
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// TestService creates a service over a temp store and cache, with the
// clock pinned to now so scheduling results are deterministic.
func TestService(t *testing.T, now time.Time) *studyservice.Service {
	t.Helper()
	backend := TestStore(t)
	cache := store.NewCache(filepath.Join(t.TempDir(), "cache.json"))
	svc := studyservice.New(backend, cache, nil)
	svc.Now = func() time.Time { return now }
	return svc
}

// Item builds a minimal scheduled item for tests.
func Item(id, title string, interval int, due time.Time) models.Item {
	return models.Item{
		ID:             id,
		Title:          title,
		Tags:           []string{},
		EasinessFactor: 2.5,
		Interval:       interval,
		NextReviewDate: &due,
		CreatedAt:      due.AddDate(0, 0, -interval),
		UpdatedAt:      due.AddDate(0, 0, -interval),
	}
}
