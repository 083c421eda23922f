package plugin

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/marcus/treeside/internal/event"
	"github.com/marcus/treeside/internal/settings"
)

// Manager owns the registered plugins.
type Manager struct {
	plugins []Plugin
	active  []Plugin
	logger  *slog.Logger
}

// NewManager creates a manager for plugins.
func NewManager(logger *slog.Logger, plugins ...Plugin) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{plugins: plugins, logger: logger}
}

// Register adds a plugin. It must be called before Activate.
func (m *Manager) Register(p Plugin) {
	m.plugins = append(m.plugins, p)
}

// Plugins returns the activated plugins.
func (m *Manager) Plugins() []Plugin {
	return m.active
}

// Activate activates every plugin in registration order and stops at the
// first failure.
func (m *Manager) Activate(ctx context.Context, pc *Context) error {
	for _, p := range m.plugins {
		if err := p.Activate(ctx, pc); err != nil {
			return fmt.Errorf("activate plugin %s: %w", p.ID(), err)
		}
		m.active = append(m.active, p)
		m.logger.Debug("plugin activated", "plugin", p.ID())
	}
	return nil
}

// ApplyOptions hands changes to every plugin and reports whether any of
// them needs a reload. Failing plugins are logged and skipped.
func (m *Manager) ApplyOptions(ctx context.Context, changes settings.Changes) (bool, error) {
	var reload bool
	var errs []error
	for _, p := range m.active {
		r, err := p.ApplyOptions(ctx, changes)
		if err != nil {
			m.logger.Warn("plugin options failed", "plugin", p.ID(), "err", err)
			errs = append(errs, fmt.Errorf("%s: %w", p.ID(), err))
			continue
		}
		reload = reload || r
	}
	return reload, errors.Join(errs...)
}

// HandleEvent forwards a document event to every EventHandler.
func (m *Manager) HandleEvent(ev event.Event) tea.Cmd {
	if !ev.Kind.IsDocument() {
		return nil
	}
	var cmds []tea.Cmd
	for _, p := range m.active {
		if h, ok := p.(EventHandler); ok {
			cmds = append(cmds, h.HandleEvent(ev))
		}
	}
	return tea.Batch(cmds...)
}

// HandleCommand offers a keymap command to the plugins in order.
func (m *Manager) HandleCommand(name string) (tea.Cmd, bool) {
	for _, p := range m.active {
		if h, ok := p.(CommandHandler); ok {
			if cmd, handled := h.HandleCommand(name); handled {
				return cmd, true
			}
		}
	}
	return nil, false
}

// Diagnostics collects the diagnostics of every plugin.
func (m *Manager) Diagnostics() []Diagnostic {
	var out []Diagnostic
	for _, p := range m.active {
		if d, ok := p.(DiagnosticProvider); ok {
			out = append(out, d.Diagnostics()...)
		}
	}
	return out
}

// Stop stops every plugin that holds resources.
func (m *Manager) Stop() {
	for _, p := range m.active {
		if s, ok := p.(Stopper); ok {
			s.Stop()
		}
	}
}
