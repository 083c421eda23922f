package local

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/marcus/treeside/internal/adapter"
)

// Watch reports HEAD changes (checkouts, commits) of repo until ctx is
// done. Bursts of writes collapse into one event.
func (a *Adapter) Watch(ctx context.Context, repo *adapter.Repo) (<-chan adapter.Event, error) {
	if repo == nil || repo.Root == "" {
		return nil, fmt.Errorf("watch: no repository")
	}
	gitDir := filepath.Join(repo.Root, ".git")
	info, err := os.Stat(gitDir)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("watch: %s is not a directory", gitDir)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := watcher.Add(gitDir); err != nil {
		watcher.Close()
		return nil, err
	}

	events := make(chan adapter.Event, 8)

	go func() {
		defer watcher.Close()
		defer close(events)

		var debounceTimer *time.Timer
		fire := make(chan struct{}, 1)

		for {
			select {
			case <-ctx.Done():
				if debounceTimer != nil {
					debounceTimer.Stop()
				}
				return

			case ev, ok := <-watcher.Events:
				if !ok {
					return
				}
				// HEAD is rewritten through HEAD.lock, so renames count too.
				if filepath.Base(ev.Name) != "HEAD" {
					continue
				}
				if debounceTimer != nil {
					debounceTimer.Stop()
				}
				debounceTimer = time.AfterFunc(a.debounce, func() {
					select {
					case fire <- struct{}{}:
					default:
					}
				})

			case <-fire:
				select {
				case events <- adapter.Event{Type: adapter.EventHeadChanged, Ref: "HEAD"}:
				default:
					// Channel full, drop event
				}

			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				a.logger.Debug("local: watcher error", "err", err)
			}
		}
	}()

	return events, nil
}
