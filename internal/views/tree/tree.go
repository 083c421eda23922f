// Package tree is the file tree panel of the sidebar.
package tree

import (
	"context"
	"log/slog"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/marcus/treeside/internal/adapter"
	"github.com/marcus/treeside/internal/event"
	"github.com/marcus/treeside/internal/msg"
	"github.com/marcus/treeside/internal/settings"
	"github.com/marcus/treeside/internal/shell"
	"github.com/marcus/treeside/internal/views"
)

// Loader is the part of an adapter the tree needs.
type Loader interface {
	LoadTree(ctx context.Context, repo *adapter.Repo, req adapter.TreeRequest) ([]adapter.TreeItem, error)
	FileURL(repo *adapter.Repo, path string) string
	SelectedPath(location string, repo *adapter.Repo) string
}

// loadedMsg carries the result of a full load. Epoch ties it to the Show
// call that started it.
type loadedMsg struct {
	epoch int
	gen   uint64
	items []adapter.TreeItem
	lazy  bool
	err   error
}

// dirLoadedMsg carries one lazily loaded directory.
type dirLoadedMsg struct {
	epoch int
	path  string
	items []adapter.TreeItem
	err   error
}

// Model is the tree panel.
type Model struct {
	loader Loader
	store  settings.Store
	doc    *shell.Document
	logger *slog.Logger

	repo  *adapter.Repo
	token string
	gen   uint64
	epoch int

	nodes   []*Node
	rows    []*Node
	cursor  int
	offset  int
	current string
	icons   bool

	loading bool
	spinner spinner.Model
	hidden  func(path string) bool
}

// New creates a tree panel. loader may be nil when no adapter matched; the
// panel is then never shown.
func New(loader Loader, store settings.Store, doc *shell.Document, logger *slog.Logger) *Model {
	if logger == nil {
		logger = slog.Default()
	}
	sp := spinner.New()
	sp.Spinner = spinner.MiniDot
	return &Model{
		loader:  loader,
		store:   store,
		doc:     doc,
		logger:  logger,
		spinner: sp,
	}
}

// ID implements views.Panel.
func (m *Model) ID() views.ID { return views.Tree }

// Repo returns the repository last shown.
func (m *Model) Repo() *adapter.Repo { return m.repo }

// Loading reports whether a full load is in flight.
func (m *Model) Loading() bool { return m.loading }

// Generation returns the fingerprint of the repository whose tree is
// displayed, zero before the first load.
func (m *Model) Generation() uint64 { return m.gen }

// SetFilter hides every path for which hidden returns true. It takes
// effect with the next load.
func (m *Model) SetFilter(hidden func(path string) bool) {
	m.hidden = hidden
}

// Show loads and displays repo. A later Show supersedes any load still in
// flight.
func (m *Model) Show(repo *adapter.Repo, token string) tea.Cmd {
	m.repo = repo
	m.token = token
	m.epoch++
	m.loading = true
	m.icons = settings.Bool(m.store, settings.Icons)

	if m.loader == nil || repo == nil {
		return nil
	}

	req := adapter.TreeRequest{
		Token:        token,
		Recursive:    settings.Bool(m.store, settings.LoadAll),
		PullRequests: settings.Bool(m.store, settings.PullRequests),
	}
	// Pull request listings are always complete.
	if req.PullRequests && repo.PullNumber > 0 {
		req.Recursive = true
	}
	epoch, gen, loader := m.epoch, repo.Fingerprint(), m.loader
	load := func() tea.Msg {
		items, err := loader.LoadTree(context.Background(), repo, req)
		return loadedMsg{epoch: epoch, gen: gen, items: items, lazy: !req.Recursive, err: err}
	}
	return tea.Batch(m.spinner.Tick, load)
}

// SyncSelection moves the cursor to the file the page shows without
// reloading.
func (m *Model) SyncSelection() tea.Cmd {
	if m.loader == nil || m.repo == nil || m.doc == nil {
		return nil
	}
	p := m.loader.SelectedPath(m.doc.Location(), m.repo)
	m.current = p
	if p == "" {
		return nil
	}
	target := reveal(m.nodes, p)
	m.refresh()
	if target == nil {
		return nil
	}
	for i, n := range m.rows {
		if n == target {
			m.cursor = i
			break
		}
	}
	return nil
}

// Update implements views.Panel.
func (m *Model) Update(message tea.Msg) tea.Cmd {
	switch message := message.(type) {
	case loadedMsg:
		if message.epoch != m.epoch {
			m.logger.Debug("tree: dropping stale load", "epoch", message.epoch, "current", m.epoch)
			return nil
		}
		m.loading = false
		if message.err != nil {
			return event.Failed(views.Tree, message.err)
		}
		m.gen = message.gen
		m.nodes = buildTree(message.items, !message.lazy)
		m.cursor, m.offset = 0, 0
		m.refresh()
		m.SyncSelection()
		return event.Ready(views.Tree)

	case dirLoadedMsg:
		if message.epoch != m.epoch {
			return nil
		}
		if message.err != nil {
			return event.Failed(views.Tree, message.err)
		}
		if dir := find(m.nodes, message.path); dir != nil {
			attach(dir, message.items)
			dir.Expanded = true
			m.refresh()
		}
		return nil

	case spinner.TickMsg:
		if !m.loading {
			return nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(message)
		return cmd
	}
	return nil
}

// Selected returns the item under the cursor.
func (m *Model) Selected() (adapter.TreeItem, bool) {
	if m.cursor < 0 || m.cursor >= len(m.rows) {
		return adapter.TreeItem{}, false
	}
	return m.rows[m.cursor].Item, true
}

// SelectedURL returns the page location of the item under the cursor.
func (m *Model) SelectedURL() string {
	it, ok := m.Selected()
	if !ok || m.loader == nil {
		return ""
	}
	return m.loader.FileURL(m.repo, it.Path)
}

// Command runs a keymap command of the tree context.
func (m *Model) Command(name string, pageSize int) tea.Cmd {
	switch name {
	case "cursor-down":
		m.move(1)
	case "cursor-up":
		m.move(-1)
	case "cursor-top":
		m.cursor = 0
	case "cursor-bottom":
		m.cursor = len(m.rows) - 1
	case "page-down":
		m.move(max(pageSize, 1))
	case "page-up":
		m.move(-max(pageSize, 1))
	case "expand":
		return m.expand()
	case "collapse":
		m.collapse()
	case "select":
		return m.selectCurrent()
	}
	m.clamp()
	return nil
}

// Click selects the row at y (relative to the first tree row) and
// activates it.
func (m *Model) Click(y int) tea.Cmd {
	idx := m.offset + y
	if idx < 0 || idx >= len(m.rows) {
		return nil
	}
	m.cursor = idx
	return m.selectCurrent()
}

func (m *Model) move(delta int) {
	m.cursor += delta
	m.clamp()
}

func (m *Model) clamp() {
	if m.cursor >= len(m.rows) {
		m.cursor = len(m.rows) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m *Model) selectCurrent() tea.Cmd {
	if m.cursor >= len(m.rows) {
		return nil
	}
	n := m.rows[m.cursor]
	switch n.Item.Type {
	case adapter.Tree:
		if n.Expanded {
			m.collapse()
			return nil
		}
		return m.expand()
	case adapter.Blob:
		if m.loader == nil {
			return nil
		}
		m.current = n.Item.Path
		return msg.Navigate(m.loader.FileURL(m.repo, n.Item.Path))
	}
	return nil
}

func (m *Model) expand() tea.Cmd {
	if m.cursor >= len(m.rows) {
		return nil
	}
	n := m.rows[m.cursor]
	if !n.IsDir() || n.Expanded {
		return nil
	}
	if n.Loaded {
		n.Expanded = true
		m.refresh()
		return nil
	}
	if m.loader == nil {
		return nil
	}
	epoch, repo, loader, p := m.epoch, m.repo, m.loader, n.Item.Path
	req := adapter.TreeRequest{Token: m.token, Path: p}
	return func() tea.Msg {
		items, err := loader.LoadTree(context.Background(), repo, req)
		return dirLoadedMsg{epoch: epoch, path: p, items: items, err: err}
	}
}

// collapse folds the directory under the cursor, or moves to its parent.
func (m *Model) collapse() {
	if m.cursor >= len(m.rows) {
		return
	}
	n := m.rows[m.cursor]
	if n.IsDir() && n.Expanded {
		n.Expanded = false
		m.refresh()
		return
	}
	if n.Parent == nil {
		return
	}
	for i, r := range m.rows {
		if r == n.Parent {
			m.cursor = i
			return
		}
	}
}

// refresh rebuilds the visible rows, keeping the cursor on the same node
// when it is still visible.
func (m *Model) refresh() {
	var sel *Node
	if m.cursor >= 0 && m.cursor < len(m.rows) {
		sel = m.rows[m.cursor]
	}
	m.rows = flatten(m.nodes, m.hidden)
	if sel != nil {
		for i, n := range m.rows {
			if n == sel {
				m.cursor = i
				return
			}
		}
	}
	m.clamp()
}
