package app

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/marcus/treeside/internal/adapter"
	"github.com/marcus/treeside/internal/event"
	"github.com/marcus/treeside/internal/keymap"
	"github.com/marcus/treeside/internal/plugin"
	"github.com/marcus/treeside/internal/settings"
	"github.com/marcus/treeside/internal/shell"
	"github.com/marcus/treeside/internal/views/errorview"
	"github.com/marcus/treeside/internal/views/help"
	"github.com/marcus/treeside/internal/views/options"
	"github.com/marcus/treeside/internal/views/tree"
)

// defaultWidth is used when the stored sidebar width is unreadable.
const defaultWidth = 32

// handleStartup advances the startup sequence: page gate, settings seed,
// scaffold build, plugin activation, first repo-load attempt. It reports
// false for messages that are not startup messages.
func (m *Model) handleStartup(msg tea.Msg) (tea.Cmd, bool) {
	switch msg := msg.(type) {
	case gateOpenedMsg:
		m.phase = phaseSeed
		m.logger.Debug("startup: page settled, seeding settings")
		return m.seed(), true

	case seededMsg:
		if msg.err != nil {
			return m.fatal(fmt.Errorf("seed settings: %w", msg.err)), true
		}
		m.build()
		m.phase = phaseActivate
		return m.activate(), true

	case activatedMsg:
		if msg.err != nil {
			return m.fatal(msg.err), true
		}
		m.phase = phaseReady
		m.logger.Debug("startup: ready", "adapter", adapterID(m.adapter))
		var cmds []tea.Cmd
		if m.width > 0 {
			cmds = append(cmds, m.ctrl.dispatch(event.Event{Kind: event.Resize, Width: m.width, Height: m.height}))
		}
		cmds = append(cmds, m.ctrl.tryLoadRepo(false))
		return tea.Batch(cmds...), true
	}
	return nil, false
}

// build constructs the scaffold, selects the adapter, constructs the
// panels and the controller, binds the hotkeys, and attaches the adapter.
func (m *Model) build() {
	cfg := m.cfg
	m.shell = shell.New(m.doc, settings.Int(m.store, settings.Width, defaultWidth), cfg.UI.MinWidth, cfg.UI.MaxWidth)

	m.adapter = adapter.SelectFrom(m.factories, m.doc.Location(), adapter.Env{
		Store:         m.store,
		Logger:        m.logger,
		GitHubAPI:     cfg.GitHub.APIURL,
		GitHubTimeout: cfg.GitHub.Timeout,
		GitHubRate:    cfg.GitHub.RequestsPerSecond,
		WatchDebounce: cfg.Local.Debounce,
	})

	var loader tree.Loader
	if m.adapter != nil {
		loader = m.adapter
	}
	m.tree = tree.New(loader, m.store, m.doc, m.logger)
	m.options = options.New(m.store, m.logger)
	m.errView = errorview.New()
	m.help = help.New(m.store, m.keys, m.logger)

	m.hotkeys = keymap.NewHotkeys(m.shell.Toggler.Visible)
	m.hotkeys.Bind(settings.String(m.store, settings.Hotkeys), true)

	m.ctrl = NewController(ControllerConfig{
		Store:   m.store,
		Adapter: m.adapter,
		Shell:   m.shell,
		Tree:    m.tree,
		Error:   m.errView,
		Help:    m.help,
		Hotkeys: m.hotkeys,
		Plugins: m.plugins,
		Logger:  m.logger,
	})

	if m.adapter != nil {
		m.adapter.Init(m.shell.Sidebar)
	}
}

// activate hands the plugins their context.
func (m *Model) activate() tea.Cmd {
	pc := &plugin.Context{
		Store:       m.store,
		Adapter:     m.adapter,
		Bus:         m.bus,
		Shell:       m.shell,
		Sidebar:     m.shell.Sidebar,
		Toggler:     m.shell.Toggler,
		Panels:      m.shell.Panels,
		TreeView:    m.tree,
		OptionsView: m.options,
		ErrorView:   m.errView,
		Logger:      m.logger,
	}
	plugins := m.plugins
	return func() tea.Msg {
		return activatedMsg{err: plugins.Activate(context.Background(), pc)}
	}
}

// fatal records a startup failure and quits.
func (m *Model) fatal(err error) tea.Cmd {
	m.err = err
	m.logger.Error("startup failed", "err", err)
	return m.shutdown()
}

func adapterID(a adapter.Adapter) string {
	if a == nil {
		return "none"
	}
	return a.ID()
}
