// Package studyservice coordinates the scheduling core with persistence.
// The core packages (srs, stats, session, snapshot) stay pure; this layer
// owns the working snapshot, serializes access to it, and implements the
// degrade-to-local behavior: the backend being down is a notice, never a
// failure.
package studyservice

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/revisehq/revise/internal/apperr"
	"github.com/revisehq/revise/internal/checksum"
	"github.com/revisehq/revise/internal/models"
	"github.com/revisehq/revise/internal/session"
	"github.com/revisehq/revise/internal/snapshot"
	"github.com/revisehq/revise/internal/srs"
	"github.com/revisehq/revise/internal/stats"
	"github.com/revisehq/revise/internal/store"
)

// HeatmapWindow is the number of days shown in the review heatmap.
const HeatmapWindow = 14

// Notifier is called after every successful snapshot mutation with the
// kind of change ("snapshot" or "review").
type Notifier func(kind string)

// Service holds the working snapshot and applies mutations to it.
type Service struct {
	backend store.Provider
	cache   *store.Cache
	logger  *slog.Logger

	// Now supplies the current instant; tests override it.
	Now func() time.Time

	mu      sync.Mutex
	snap    models.Snapshot
	sess    *session.Session
	syncErr string
	notify  Notifier
}

// New creates a service over the given backend and cache. The snapshot
// starts empty; call Hydrate to load persisted state.
func New(backend store.Provider, cache *store.Cache, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		backend: backend,
		cache:   cache,
		logger:  logger,
		Now:     time.Now,
		snap:    snapshot.Default(),
	}
}

// SetNotifier registers a change callback (e.g. the SSE broker).
func (s *Service) SetNotifier(fn Notifier) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notify = fn
}

// Hydrate loads the snapshot from the backend, falling back to the local
// cache when the backend is unreachable. Never fatal: the worst case is
// starting from the default snapshot with a sync notice set.
func (s *Service) Hydrate(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap, err := s.backend.Load(ctx)
	if err == nil {
		s.snap = snap
		s.syncErr = ""
		if s.cache != nil {
			if cerr := s.cache.Save(snap); cerr != nil {
				s.logger.Warn("hydrate: cache write failed", slog.String("error", cerr.Error()))
			}
		}
		return
	}

	s.logger.Warn("hydrate: backend load failed", slog.String("error", err.Error()))
	s.syncErr = "Backend unavailable. Using cached local data."

	if s.cache != nil {
		cached, cerr := s.cache.Load()
		if cerr == nil {
			s.snap = cached
			return
		}
		s.logger.Warn("hydrate: cache load failed", slog.String("error", cerr.Error()))
	}
	s.snap = snapshot.Default()
}

// Data returns the current snapshot.
func (s *Service) Data() models.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snap
}

// Checksum returns the SHA-256 of the snapshot's canonical JSON form,
// used as the ETag for optimistic concurrency on full replaces.
func (s *Service) Checksum() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.checksumLocked()
}

func (s *Service) checksumLocked() string {
	data, _ := json.Marshal(snapshot.Clean(s.snap))
	return checksum.Sum(data)
}

// SyncError returns the current sync notice, or "" when the last save
// reached the backend.
func (s *Service) SyncError() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.syncErr
}

// Replace swaps in a full snapshot from a raw JSON payload. When ifMatch
// is non-empty it must equal the current snapshot checksum, otherwise the
// replace is rejected with apperr.ErrConflict and the snapshot is left
// unchanged. The live session is discarded: its ids may no longer exist.
func (s *Service) Replace(ctx context.Context, raw []byte, ifMatch string) (models.Snapshot, error) {
	snap, err := snapshot.Normalize(raw)
	if err != nil {
		return models.Snapshot{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if ifMatch != "" && ifMatch != s.checksumLocked() {
		return models.Snapshot{}, apperr.ErrConflict
	}
	s.snap = snap
	s.sess = nil
	s.persistLocked(ctx, "snapshot")
	return s.snap, nil
}

// ImportRaw replaces the snapshot from an import payload. Same
// normalization as Replace, no concurrency check.
func (s *Service) ImportRaw(ctx context.Context, raw []byte) (models.Snapshot, error) {
	return s.Replace(ctx, raw, "")
}

// Export serializes the snapshot as indented JSON and returns the
// date-stamped download filename.
func (s *Service) Export() ([]byte, string, error) {
	s.mu.Lock()
	snap := s.snap
	now := s.Now()
	s.mu.Unlock()

	data, err := snapshot.Export(snap)
	if err != nil {
		return nil, "", err
	}
	return data, snapshot.ExportFilename(now), nil
}

// ItemInput carries the content fields of an item. Scheduling fields are
// never accepted from callers.
type ItemInput struct {
	Title      string
	Category   string
	Difficulty string
	Tags       []string
	Notes      string
	URL        string
}

// CreateItem adds a new item scheduled for tomorrow.
func (s *Service) CreateItem(ctx context.Context, in ItemInput) (models.Item, error) {
	now := s.Now()
	f := srs.NewItemFields(now)
	item := models.Item{
		ID:             uuid.NewString(),
		Title:          in.Title,
		Category:       in.Category,
		Difficulty:     in.Difficulty,
		Tags:           in.Tags,
		Notes:          in.Notes,
		URL:            in.URL,
		EasinessFactor: f.EasinessFactor,
		Repetition:     f.Repetition,
		Interval:       f.Interval,
		NextReviewDate: f.NextReviewDate,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if item.Tags == nil {
		item.Tags = []string{}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	items := make([]models.Item, 0, len(s.snap.Items)+1)
	items = append(items, item)
	items = append(items, s.snap.Items...)
	s.snap.Items = items
	s.persistLocked(ctx, "snapshot")
	return item, nil
}

// UpdateItem replaces the content fields of an item. The scheduling
// fields are untouched.
func (s *Service) UpdateItem(ctx context.Context, id string, in ItemInput) (models.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.findLocked(id)
	if idx < 0 {
		return models.Item{}, fmt.Errorf("item %s: %w", id, apperr.ErrNotFound)
	}

	items := append([]models.Item(nil), s.snap.Items...)
	it := items[idx]
	it.Title = in.Title
	it.Category = in.Category
	it.Difficulty = in.Difficulty
	it.Tags = in.Tags
	if it.Tags == nil {
		it.Tags = []string{}
	}
	it.Notes = in.Notes
	it.URL = in.URL
	it.UpdatedAt = s.Now()
	items[idx] = it

	s.snap.Items = items
	s.persistLocked(ctx, "snapshot")
	return it, nil
}

// DeleteItem removes an item and cascades: its review-log entries are
// deleted and it is dropped from any live session.
func (s *Service) DeleteItem(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.findLocked(id) < 0 {
		return fmt.Errorf("item %s: %w", id, apperr.ErrNotFound)
	}

	items := make([]models.Item, 0, len(s.snap.Items)-1)
	for _, it := range s.snap.Items {
		if it.ID != id {
			items = append(items, it)
		}
	}
	log := make([]models.ReviewLogEntry, 0, len(s.snap.ReviewLog))
	for _, e := range s.snap.ReviewLog {
		if e.ItemID != id {
			log = append(log, e)
		}
	}
	s.snap.Items = items
	s.snap.ReviewLog = log
	if s.sess != nil {
		s.sess.Advance(id)
	}
	s.persistLocked(ctx, "snapshot")
	return nil
}

// RateItem applies a rating: the scheduler replaces the item's scheduling
// fields, an entry is appended to the review log, and the item leaves the
// session queue.
func (s *Service) RateItem(ctx context.Context, id string, rating srs.Rating) (models.Item, error) {
	now := s.Now()

	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.findLocked(id)
	if idx < 0 {
		return models.Item{}, fmt.Errorf("item %s: %w", id, apperr.ErrNotFound)
	}

	it := s.snap.Items[idx]
	next, err := srs.Schedule(srs.Fields{
		EasinessFactor: it.EasinessFactor,
		Repetition:     it.Repetition,
		Interval:       it.Interval,
		NextReviewDate: it.NextReviewDate,
		LastReviewedAt: it.LastReviewedAt,
	}, rating, now)
	if err != nil {
		return models.Item{}, err
	}

	items := append([]models.Item(nil), s.snap.Items...)
	it.EasinessFactor = next.EasinessFactor
	it.Repetition = next.Repetition
	it.Interval = next.Interval
	it.NextReviewDate = next.NextReviewDate
	it.LastReviewedAt = next.LastReviewedAt
	it.UpdatedAt = now
	items[idx] = it

	s.snap.Items = items
	s.snap.ReviewLog = append(append([]models.ReviewLogEntry(nil), s.snap.ReviewLog...), models.ReviewLogEntry{
		ID:         uuid.NewString(),
		ItemID:     id,
		Rating:     int(rating),
		ReviewedAt: now,
	})
	if s.sess != nil {
		s.sess.Advance(id)
	}
	s.persistLocked(ctx, "review")
	return it, nil
}

// SetDarkMode toggles the persisted theme preference.
func (s *Service) SetDarkMode(ctx context.Context, dark bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snap.Settings.DarkMode = dark
	s.persistLocked(ctx, "snapshot")
}

// DueItems returns the items due right now, in study order.
func (s *Service) DueItems() []models.Item {
	s.mu.Lock()
	defer s.mu.Unlock()
	return srs.DueItems(s.snap.Items, s.Now())
}

// Report is the statistics payload: dashboard summary plus the heatmap.
type Report struct {
	Summary stats.Summary   `json:"summary"`
	Heatmap []stats.DayCount `json:"heatmap"`
}

// Stats computes the dashboard summary and the 14-day heatmap.
func (s *Service) Stats() Report {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.Now()
	return Report{
		Summary: stats.Summarize(s.snap.Items, s.snap.ReviewLog, now),
		Heatmap: stats.Histogram(s.snap.ReviewLog, now, HeatmapWindow),
	}
}

// SessionState describes the live study session for API consumers.
type SessionState struct {
	Active    bool         `json:"active"`
	Current   *models.Item `json:"current,omitempty"`
	Remaining int          `json:"remaining"`
}

// StartSession builds a fresh queue from the currently due items.
func (s *Service) StartSession() SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sess = session.Start(s.snap.Items, s.Now())
	return s.sessionStateLocked()
}

// Session returns the state of the live session, if any.
func (s *Service) Session() SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sessionStateLocked()
}

func (s *Service) sessionStateLocked() SessionState {
	if s.sess == nil {
		return SessionState{}
	}
	st := SessionState{Active: true, Remaining: s.sess.Remaining()}
	if id := s.sess.Current(); id != "" {
		if idx := s.findLocked(id); idx >= 0 {
			it := s.snap.Items[idx]
			st.Current = &it
		}
	}
	return st
}

func (s *Service) findLocked(id string) int {
	for i, it := range s.snap.Items {
		if it.ID == id {
			return i
		}
	}
	return -1
}

// persistLocked writes the snapshot to the cache and then the backend.
// The cache keeps local state authoritative; a backend failure only sets
// the sync notice and is retried implicitly on the next mutation.
func (s *Service) persistLocked(ctx context.Context, kind string) {
	if s.cache != nil {
		if err := s.cache.Save(s.snap); err != nil {
			s.logger.Warn("persist: cache write failed", slog.String("error", err.Error()))
		}
	}
	if err := s.backend.Save(ctx, s.snap); err != nil {
		s.logger.Warn("persist: backend save failed", slog.String("error", err.Error()))
		s.syncErr = "Sync failed. Changes are only saved locally right now."
	} else {
		s.syncErr = ""
	}
	if s.notify != nil {
		s.notify(kind)
	}
}
