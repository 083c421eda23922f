// Package watch reloads the sidebar when the repository behind the page
// changes on disk, for adapters that can watch their repositories.
package watch

import (
	"context"
	"log/slog"
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/marcus/treeside/internal/adapter"
	"github.com/marcus/treeside/internal/event"
	"github.com/marcus/treeside/internal/plugin"
	"github.com/marcus/treeside/internal/settings"
)

const (
	pluginID   = "watch"
	pluginName = "Repository watcher"
)

// Plugin implements plugin.Plugin.
type Plugin struct {
	mu      sync.Mutex
	watcher adapter.Watcher
	tree    plugin.TreeView
	bus     *event.Bus
	logger  *slog.Logger

	enabled bool
	repo    *adapter.Repo // last repository the tree finished loading
	key     string
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	lastErr error
}

// New creates the watch plugin.
func New() *Plugin { return &Plugin{logger: slog.Default()} }

// ID implements plugin.Plugin.
func (p *Plugin) ID() string { return pluginID }

// Name implements plugin.Plugin.
func (p *Plugin) Name() string { return pluginName }

// Activate implements plugin.Plugin. Adapters without a watcher leave the
// plugin inert.
func (p *Plugin) Activate(_ context.Context, pc *plugin.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if pc.Logger != nil {
		p.logger = pc.Logger
	}
	p.watcher, _ = pc.Adapter.(adapter.Watcher)
	p.tree = pc.TreeView
	p.bus = pc.Bus
	p.enabled = settings.Bool(pc.Store, settings.WatchRepo)
	return nil
}

// ApplyOptions implements plugin.Plugin. Turning watching on or off never
// needs a reload. It runs off the update loop, so it only uses the
// repository recorded by HandleEvent and never reads the tree view.
func (p *Plugin) ApplyOptions(_ context.Context, changes settings.Changes) (bool, error) {
	c, ok := changes[settings.WatchRepo]
	if !ok {
		return false, nil
	}
	enabled, _ := c.New().(bool)

	p.mu.Lock()
	defer p.mu.Unlock()
	p.enabled = enabled
	if !enabled {
		p.stopLocked()
		return false, nil
	}
	p.syncLocked(p.repo)
	return false, nil
}

// HandleEvent implements plugin.EventHandler. The watcher follows the
// repository the tree finished loading. Called on the update loop.
func (p *Plugin) HandleEvent(ev event.Event) tea.Cmd {
	if ev.Kind != event.RequestEnd || p.tree == nil {
		return nil
	}
	repo := p.tree.Repo()

	p.mu.Lock()
	defer p.mu.Unlock()
	p.repo = repo
	if p.enabled {
		p.syncLocked(repo)
	}
	return nil
}

// Stop implements plugin.Stopper.
func (p *Plugin) Stop() {
	p.mu.Lock()
	p.stopLocked()
	p.mu.Unlock()
	p.wg.Wait()
}

// Watching returns the key of the watched repository, or "".
func (p *Plugin) Watching() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.key
}

// Diagnostics implements plugin.DiagnosticProvider.
func (p *Plugin) Diagnostics() []plugin.Diagnostic {
	p.mu.Lock()
	defer p.mu.Unlock()
	switch {
	case p.watcher == nil:
		return nil
	case p.lastErr != nil:
		return []plugin.Diagnostic{{ID: pluginID, Status: "error", Detail: p.lastErr.Error()}}
	case p.key != "":
		return []plugin.Diagnostic{{ID: pluginID, Status: "ok", Detail: "watching " + p.key}}
	default:
		return []plugin.Diagnostic{{ID: pluginID, Status: "idle"}}
	}
}

func repoKey(repo *adapter.Repo) string {
	if repo == nil {
		return ""
	}
	if repo.Root != "" {
		return repo.Root
	}
	return repo.FullName()
}

func (p *Plugin) syncLocked(repo *adapter.Repo) {
	if p.watcher == nil || p.bus == nil {
		return
	}
	key := repoKey(repo)
	if key == p.key {
		return
	}
	p.stopLocked()
	if key == "" {
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	ch, err := p.watcher.Watch(ctx, repo)
	if err != nil {
		cancel()
		p.lastErr = err
		p.logger.Warn("watch: start failed", "repo", repo, "err", err)
		return
	}
	p.key, p.cancel, p.lastErr = key, cancel, nil
	p.logger.Debug("watch: started", "repo", repo)

	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		for ev := range ch {
			p.logger.Debug("watch: repository changed", "type", ev.Type, "ref", ev.Ref)
			if !p.bus.PostContext(ctx, event.Event{Kind: event.LocationChange}) {
				cancel()
			}
		}
	}()
}

func (p *Plugin) stopLocked() {
	if p.cancel != nil {
		p.cancel()
	}
	p.cancel = nil
	p.key = ""
}
