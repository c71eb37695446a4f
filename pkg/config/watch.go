package config

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

const watchedOps = fsnotify.Write | fsnotify.Create | fsnotify.Rename | fsnotify.Remove

// Watch reports changes to any of paths until ctx is done, then closes the
// returned channel. The parent directories are watched so editors that
// replace a file on save are still observed. Bursts of events are coalesced:
// at most one change is pending at a time.
func Watch(ctx context.Context, paths []string, opts ...Option) (<-chan string, error) {
	l := newLoader(opts)
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}

	targets := make(map[string]bool, len(paths))
	dirs := make(map[string]bool)
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			w.Close()
			return nil, fmt.Errorf("resolve %s: %w", p, err)
		}
		targets[abs] = true
		dirs[filepath.Dir(abs)] = true
	}
	for dir := range dirs {
		if err := w.Add(dir); err != nil {
			w.Close()
			return nil, fmt.Errorf("watch %s: %w", dir, err)
		}
	}

	out := make(chan string, 1)
	go func() {
		defer close(out)
		defer w.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-w.Events:
				if !ok {
					return
				}
				if ev.Op&watchedOps == 0 || !targets[filepath.Clean(ev.Name)] {
					continue
				}
				l.logger.Debug("Config change detected", "file", ev.Name, "op", ev.Op.String())
				select {
				case out <- ev.Name:
				default:
				}
			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				l.logger.Warn("Config watcher error", "err", err)
			}
		}
	}()
	return out, nil
}
