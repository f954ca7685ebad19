// Package store persists the application snapshot. The backend holds the
// whole snapshot as a single document keyed "main"; there are no per-item
// records. A file cache keeps the last-known-good copy for offline use.
package store

import (
	"context"

	"github.com/revisehq/revise/internal/models"
)

// Provider is the backend contract: load the current snapshot, or replace
// it whole. Implementations must return apperr.ErrUnavailable-wrapped
// errors when the backend cannot be reached, so callers can fall back to
// the cache without treating the failure as fatal.
type Provider interface {
	// Load returns the current snapshot, or the default snapshot when
	// nothing has been stored yet.
	Load(ctx context.Context) (models.Snapshot, error)
	// Save replaces the stored snapshot.
	Save(ctx context.Context, s models.Snapshot) error
}
