// internal/config/watch.go
package config

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// ReloadDebounce coalesces the burst of events editors produce on save.
const ReloadDebounce = 250 * time.Millisecond

// WatchGroups watches the config file and calls apply with the new group
// list each time the file changes and still validates.
// Only groups are hot-reloaded; everything else needs a restart.
// Invalid edits are logged and ignored, the previous groups stay active.
// Blocks until ctx is done.
func WatchGroups(ctx context.Context, path string, log *slog.Logger, apply func([]string)) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("config watch: %w", err)
	}
	defer w.Close()

	target, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("config watch: %w", err)
	}

	// Watch the directory: editors often replace the file instead of writing it.
	if err := w.Add(filepath.Dir(target)); err != nil {
		return fmt.Errorf("config watch: add %s: %w", filepath.Dir(target), err)
	}

	var (
		timer *time.Timer
		fire  <-chan time.Time
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			name, err := filepath.Abs(ev.Name)
			if err != nil || name != target {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(ReloadDebounce)
			} else {
				timer.Reset(ReloadDebounce)
			}
			fire = timer.C

		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			log.Warn("config watch error", "error", err)

		case <-fire:
			fire = nil
			cfg, err := LoadValid(target)
			if err != nil {
				log.Warn("config reload rejected", "path", target, "error", err)
				continue
			}
			log.Info("config reloaded", "path", target, "groups", cfg.Rosterwatch.Groups)
			apply(cfg.Rosterwatch.Groups)
		}
	}
}
