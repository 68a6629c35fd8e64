package service

import (
	"context"
	"io/fs"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"docindex/internal/logger"
)

// DefaultDebounce groups bursts of file events into one rebuild.
const DefaultDebounce = 500 * time.Millisecond

// Watch observes dir recursively and calls onChange once per burst of
// changes to supported documents, after debounce of quiet. It returns when
// ctx is done. Errors from onChange are logged and watching continues.
func Watch(ctx context.Context, dir string, debounce time.Duration, onChange func(context.Context) error) error {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	if err := addTree(w, dir); err != nil {
		return err
	}
	logger.Info("watching %s", dir)

	timer := time.NewTimer(debounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if ev.Has(fsnotify.Create) && isDir(ev.Name) {
				if err := addTree(w, ev.Name); err != nil {
					logger.Warn("watch %s: %v", ev.Name, err)
				}
				continue
			}
			if !relevant(ev) {
				continue
			}
			logger.Debug("change: %s", ev)
			timer.Reset(debounce)
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watcher: %v", err)
		case <-timer.C:
			if err := onChange(ctx); err != nil {
				logger.Warn("rebuild failed: %v", err)
			}
		}
	}
}

// relevant reports whether ev changes the content of a supported document.
// Permission changes are ignored.
func relevant(ev fsnotify.Event) bool {
	if !Supported(ev.Name) {
		return false
	}
	return ev.Has(fsnotify.Create) || ev.Has(fsnotify.Write) ||
		ev.Has(fsnotify.Remove) || ev.Has(fsnotify.Rename)
}

func addTree(w *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return w.Add(p)
		}
		return nil
	})
}
