// Package importer watches a drop directory for exported snapshots.
// Dropping a .json file there imports it through the same normalization
// path as the API, then renames the file so it is not imported twice.
package importer

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/revisehq/revise/internal/studyservice"
)

// settleDelay gives the writing process time to finish before the file
// is read. Editors and downloads often emit several write events.
const settleDelay = 200 * time.Millisecond

// Watch starts an fsnotify watcher on dir and processes dropped snapshot
// files until ctx is cancelled. Files already present at startup are
// imported first, oldest modification time wins last.
func Watch(ctx context.Context, svc *studyservice.Service, dir string, logger *slog.Logger) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	if err := w.Add(dir); err != nil {
		return err
	}

	logger.Info("importer: watching", slog.String("dir", dir))

	// Pick up files dropped while the server was down.
	if entries, err := os.ReadDir(dir); err == nil {
		for _, e := range entries {
			if !e.IsDir() && isDropFile(e.Name()) {
				importFile(ctx, svc, filepath.Join(dir, e.Name()), logger)
			}
		}
	}

	pending := make(map[string]*time.Timer)
	fire := make(chan string, 16)

	for {
		select {
		case <-ctx.Done():
			for _, t := range pending {
				t.Stop()
			}
			logger.Info("importer: stopped")
			return nil

		case path := <-fire:
			delete(pending, path)
			importFile(ctx, svc, path, logger)

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if ev.Op&(fsnotify.Create|fsnotify.Write) == 0 || !isDropFile(ev.Name) {
				continue
			}
			path := ev.Name
			if t, ok := pending[path]; ok {
				t.Reset(settleDelay)
				continue
			}
			pending[path] = time.AfterFunc(settleDelay, func() {
				select {
				case fire <- path:
				case <-ctx.Done():
				}
			})

		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Warn("importer: watch error", slog.String("error", err.Error()))
		}
	}
}

func isDropFile(name string) bool {
	return strings.HasSuffix(strings.ToLower(name), ".json")
}

func importFile(ctx context.Context, svc *studyservice.Service, path string, logger *slog.Logger) {
	data, err := os.ReadFile(path)
	if err != nil {
		logger.Warn("importer: read failed", slog.String("path", path), slog.String("error", err.Error()))
		return
	}
	if _, err := svc.ImportRaw(ctx, data); err != nil {
		logger.Warn("importer: rejected", slog.String("path", path), slog.String("error", err.Error()))
		// Park the bad file so it stops triggering events.
		_ = os.Rename(path, path+".rejected")
		return
	}
	if err := os.Rename(path, path+".imported"); err != nil {
		logger.Warn("importer: rename failed", slog.String("path", path), slog.String("error", err.Error()))
		return
	}
	logger.Info("importer: imported", slog.String("path", path))
}
