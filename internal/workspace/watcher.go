package workspace

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/querypad/querypad/internal/notify"
)

// Editors fire several events per save, so changes are debounced.
const watchDebounce = 100 * time.Millisecond

// WatchConnections watches connections.json and pings the notifier
// when it changes. It blocks until ctx is done.
func WatchConnections(ctx context.Context, notifier *notify.Notifier, logger *slog.Logger) error {
	path, err := ConnectionsPath()
	if err != nil {
		return err
	}
	return watchFile(ctx, path, notifier, logger)
}

func watchFile(ctx context.Context, path string, notifier *notify.Notifier, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer func() {
		_ = watcher.Close()
	}()

	// Watch the directory rather than the file: the file may not
	// exist yet, and editors replace files by rename.
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		return fmt.Errorf("failed to watch %s: %w", filepath.Dir(path), err)
	}

	var debounceTimer *time.Timer

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if filepath.Base(event.Name) != filepath.Base(path) {
				continue
			}

			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			debounceTimer = time.AfterFunc(watchDebounce, func() {
				logger.Debug("connections file changed", "file", event.Name)
				notifier.Broadcast()
			})

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Error("watcher error", "error", err)
		}
	}
}
