// Package views holds the identifiers and the contract shared by the four
// sidebar panels.
package views

import tea "github.com/charmbracelet/bubbletea"

// ID identifies a panel.
type ID int

const (
	None ID = iota
	Tree
	Options
	Error
	Help
)

func (id ID) String() string {
	switch id {
	case Tree:
		return "tree"
	case Options:
		return "options"
	case Error:
		return "error"
	case Help:
		return "help"
	default:
		return "none"
	}
}

// Exclusive reports whether the panel takes part in the one-current-panel rule.
// Help is an overlay and does not.
func (id ID) Exclusive() bool {
	return id == Tree || id == Options || id == Error
}

// Panel is implemented by every sidebar panel.
type Panel interface {
	ID() ID
	Update(msg tea.Msg) tea.Cmd
	View(width, height int) string
}
