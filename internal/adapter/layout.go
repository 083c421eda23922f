package adapter

import "github.com/marcus/treeside/internal/shell"

// TogglerWidth is the column the toggler occupies when the sidebar is hidden.
const TogglerWidth = 1

// Layout implements Init and UpdateLayout by reserving page margin for the
// sidebar. Adapters embed it.
type Layout struct {
	sidebar *shell.Sidebar
}

// Init remembers the sidebar.
func (l *Layout) Init(sidebar *shell.Sidebar) {
	l.sidebar = sidebar
}

// UpdateLayout pushes the page right by the sidebar width while it is
// visible, and by the toggler column while only the toggler is.
func (l *Layout) UpdateLayout(togglerVisible, sidebarVisible bool, width int) {
	if l.sidebar == nil {
		return
	}
	margin := 0
	switch {
	case sidebarVisible:
		margin = width
	case togglerVisible:
		margin = TogglerWidth
	}
	l.sidebar.Document().SetMargin(margin)
}
