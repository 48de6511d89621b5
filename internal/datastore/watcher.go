package datastore

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"

	"github.com/crewscheduler/backend/internal/models"
)

// Reloader is the part of Store the watcher drives.
type Reloader interface {
	Reload(ctx context.Context) (*models.Snapshot, error)
}

// Watcher reloads the store when the watched file or directory changes.
// Bursts of events within Debounce collapse into one reload.
type Watcher struct {
	Path     string
	Debounce time.Duration
	Store    Reloader
	Logger   zerolog.Logger
}

// Run blocks until ctx is cancelled. When the path cannot be watched the
// watcher logs a warning and idles, so the last loaded snapshot keeps
// being served.
func (w *Watcher) Run(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return w.idle(ctx, fmt.Errorf("create watcher: %w", err))
	}
	defer fw.Close()

	dir, match, err := watchTarget(w.Path)
	if err != nil {
		return w.idle(ctx, err)
	}
	if err := fw.Add(dir); err != nil {
		return w.idle(ctx, fmt.Errorf("watch %s: %w", dir, err))
	}
	w.Logger.Info().Str("dir", dir).Msg("watching data source")

	debounce := w.Debounce
	if debounce <= 0 {
		debounce = 500 * time.Millisecond
	}
	timer := time.NewTimer(debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if !match(ev.Name) || ev.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			w.Logger.Debug().Str("file", ev.Name).Str("op", ev.Op.String()).Msg("data source changed")
			timer.Reset(debounce)
		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.Logger.Error().Err(err).Msg("watcher error")
		case <-timer.C:
			if _, err := w.Store.Reload(ctx); err != nil {
				w.Logger.Warn().Err(err).Msg("reload after change failed")
			}
		}
	}
}

func (w *Watcher) idle(ctx context.Context, err error) error {
	w.Logger.Warn().Err(err).Str("path", w.Path).Msg("data source not watched; serving last snapshot")
	<-ctx.Done()
	return nil
}

// watchTarget returns the directory to watch and a filter for event names.
// Files are watched through their parent so editors that replace the file
// on save keep triggering events.
func watchTarget(path string) (string, func(string) bool, error) {
	info, err := os.Stat(path)
	if err == nil && info.IsDir() {
		return path, func(name string) bool {
			return strings.EqualFold(filepath.Ext(name), ".csv")
		}, nil
	}
	clean, err := filepath.Abs(path)
	if err != nil {
		return "", nil, fmt.Errorf("resolve %s: %w", path, err)
	}
	dir := filepath.Dir(clean)
	if _, err := os.Stat(dir); err != nil {
		return "", nil, fmt.Errorf("watch %s: %w", dir, err)
	}
	return dir, func(name string) bool {
		return filepath.Clean(name) == clean
	}, nil
}
