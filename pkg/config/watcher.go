package config

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
)

// Watcher observes a configuration file and invokes a callback after it
// changes. Events are debounced because editors and config management tools
// typically produce bursts of writes and renames for a single save.
type Watcher struct {
	logger   zerolog.Logger
	debounce time.Duration
}

// NewWatcher creates a watcher. A non-positive debounce defaults to 500ms.
func NewWatcher(logger zerolog.Logger, debounce time.Duration) *Watcher {
	if debounce <= 0 {
		debounce = 500 * time.Millisecond
	}
	return &Watcher{
		logger:   logger.With().Str("component", "config-watcher").Logger(),
		debounce: debounce,
	}
}

// Watch blocks until the context is cancelled, invoking onChange after each
// debounced burst of changes to the file at path. The containing directory
// is watched so atomic replace-by-rename is observed too.
func (w *Watcher) Watch(ctx context.Context, path string, onChange func()) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer watcher.Close()

	dir := filepath.Dir(path)
	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", dir, err)
	}

	target := filepath.Clean(path)
	var timer *time.Timer
	var pending <-chan time.Time

	w.logger.Info().Str("path", target).Msg("Watching configuration file")

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			w.logger.Debug().Str("op", event.Op.String()).Msg("Configuration file changed")
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
				timer.Reset(w.debounce)
			}
			pending = timer.C

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn().Err(err).Msg("Watcher error")

		case <-pending:
			pending = nil
			onChange()
		}
	}
}
