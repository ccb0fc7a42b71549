package config

import (
	"context"
	"log/slog"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// Watch reloads the file at path whenever it is written and passes each
// valid result to fn. Invalid edits are logged and ignored, keeping the
// previous config in effect. Watch blocks until ctx is done.
//
// The parent directory is watched, since editors often replace the file
// instead of writing it in place.
func Watch(ctx context.Context, path string, fn func(*Config), logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer fsw.Close()

	target := filepath.Clean(path)
	if err := fsw.Add(filepath.Dir(target)); err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			cfg, err := Load(target)
			if err != nil {
				logger.Warn("ignoring config change", "path", target, "error", err)
				continue
			}
			logger.Info("config reloaded", "path", target)
			fn(cfg)

		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			logger.Warn("config watcher error", "error", err)
		}
	}
}
