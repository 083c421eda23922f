// Package plugin defines the extension points of the sidebar. Plugins are
// activated once at startup with a Context, see every settings change, and
// may ask for the tree to be reloaded.
package plugin

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/marcus/treeside/internal/event"
	"github.com/marcus/treeside/internal/settings"
)

// Plugin is implemented by every plugin.
type Plugin interface {
	ID() string
	Name() string
	// Activate runs once, off the update loop, before the first repository
	// load. An error aborts startup.
	Activate(ctx context.Context, pc *Context) error
	// ApplyOptions sees every saved change set and reports whether the
	// tree must be reloaded.
	ApplyOptions(ctx context.Context, changes settings.Changes) (reload bool, err error)
}

// EventHandler is implemented by plugins that observe document events.
type EventHandler interface {
	HandleEvent(ev event.Event) tea.Cmd
}

// CommandHandler is implemented by plugins that provide keymap commands.
// HandleCommand returns handled=false for commands it does not own.
type CommandHandler interface {
	HandleCommand(name string) (cmd tea.Cmd, handled bool)
}

// Stopper is implemented by plugins holding resources.
type Stopper interface {
	Stop()
}

// Diagnostic represents a health/status check result.
type Diagnostic struct {
	ID     string
	Status string
	Detail string
}

// DiagnosticProvider is implemented by plugins that expose diagnostics.
type DiagnosticProvider interface {
	Diagnostics() []Diagnostic
}
