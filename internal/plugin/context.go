package plugin

import (
	"log/slog"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/marcus/treeside/internal/adapter"
	"github.com/marcus/treeside/internal/event"
	"github.com/marcus/treeside/internal/settings"
	"github.com/marcus/treeside/internal/shell"
	"github.com/marcus/treeside/internal/views"
)

// TreeView is the tree panel as plugins see it.
type TreeView interface {
	views.Panel
	Show(repo *adapter.Repo, token string) tea.Cmd
	SyncSelection() tea.Cmd
	Selected() (adapter.TreeItem, bool)
	SelectedURL() string
	Repo() *adapter.Repo
	SetFilter(hidden func(path string) bool)
}

// OptionsView is the options panel as plugins see it.
type OptionsView interface {
	views.Panel
	Open() tea.Cmd
}

// ErrorView is the error panel as plugins see it.
type ErrorView interface {
	views.Panel
	Show(err error) tea.Cmd
}

// Context is handed to every plugin once at activation. Adapter is nil
// when no platform matched the location.
type Context struct {
	Store   settings.Store
	Adapter adapter.Adapter
	Bus     *event.Bus

	Shell   *shell.Shell
	Sidebar *shell.Sidebar
	Toggler *shell.Toggler
	Panels  *shell.Panels

	TreeView    TreeView
	OptionsView OptionsView
	ErrorView   ErrorView

	Logger *slog.Logger
}
