package main

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/simonhull/audiohdr"
)

// settleDelay is how long a file must go without Create or Write events
// before it is decoded. A Write event does not mean the writer is done.
const settleDelay = 500 * time.Millisecond

// watchDir calls handle for every file created or written in dir, once it
// has settled. It returns when ctx is done or the watcher closes.
func watchDir(ctx context.Context, dir string, settle time.Duration, logger *slog.Logger, handle func(path string)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}
	logger.Info("watching directory", "dir", dir)

	ticker := time.NewTicker(settle / 2)
	defer ticker.Stop()

	pending := make(map[string]time.Time)
	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				logger.Debug("no more events, channel closed")
				return nil
			}
			if strings.HasPrefix(filepath.Base(event.Name), ".") {
				continue
			}
			switch {
			case event.Has(fsnotify.Create), event.Has(fsnotify.Write):
				pending[event.Name] = time.Now()
			case event.Has(fsnotify.Remove), event.Has(fsnotify.Rename):
				delete(pending, event.Name)
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				logger.Debug("no more errors, channel closed")
				return nil
			}
			logger.Warn("error while watching", "err", err)

		case now := <-ticker.C:
			for path, last := range pending {
				if now.Sub(last) >= settle {
					delete(pending, path)
					handle(path)
				}
			}
		}
	}
}

// audioExtension reports whether path ends in an extension of a registered
// format. Matching ignores case.
func audioExtension(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, f := range audiohdr.Formats() {
		if slices.Contains(f.Extensions(), ext) {
			return true
		}
	}
	return false
}
