package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"tomodoro/internal/core/model"

	"github.com/fsnotify/fsnotify"
)

// watchDebounce coalesces the burst of events produced by an atomic save.
const watchDebounce = 150 * time.Millisecond

// WatchSettings reloads settings whenever the settings file changes on disk
// and passes the result to onChange. It blocks until ctx is cancelled.
// The parent directory is watched so that rename-based saves are observed.
func WatchSettings(ctx context.Context, store *SettingsStore, onChange func(model.Settings)) error {
	dir := filepath.Dir(store.Path())
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create settings watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}

	name := filepath.Base(store.Path())
	debounce := time.NewTimer(watchDebounce)
	debounce.Stop()
	defer debounce.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Base(event.Name) != name {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			debounce.Reset(watchDebounce)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			store.logger.Warn("settings watcher error", "error", err)
		case <-debounce.C:
			settings, err := store.Load()
			if err != nil {
				store.logger.Warn("reload settings failed", "path", store.Path(), "error", err)
				continue
			}
			store.logger.Debug("settings reloaded", "path", store.Path())
			onChange(settings)
		}
	}
}
