package app

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/marcus/treeside/internal/settings"
	"github.com/marcus/treeside/internal/shell"
)

// Message types for the startup sequence and the status line.
type (
	// gateOpenedMsg is sent once the first page finished loading.
	gateOpenedMsg struct{}

	// seededMsg is sent once every setting has its default.
	seededMsg struct{ err error }

	// activatedMsg is sent once every plugin is active.
	activatedMsg struct{ err error }

	// toastExpiredMsg clears toast id.
	toastExpiredMsg struct{ id int }
)

// gate waits for the page's progressive loader to go away.
func (m Model) gate() tea.Cmd {
	gone := m.doc.WaitGone(shell.ProgressiveLoader)
	return func() tea.Msg {
		<-gone
		return gateOpenedMsg{}
	}
}

// seed writes the settings defaults.
func (m Model) seed() tea.Cmd {
	store := m.store
	return func() tea.Msg {
		return seededMsg{err: settings.SeedDefaults(context.Background(), store)}
	}
}
