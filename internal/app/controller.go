package app

import (
	"context"
	"log/slog"
	"strconv"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/marcus/treeside/internal/adapter"
	"github.com/marcus/treeside/internal/event"
	"github.com/marcus/treeside/internal/keymap"
	"github.com/marcus/treeside/internal/settings"
	"github.com/marcus/treeside/internal/shell"
	"github.com/marcus/treeside/internal/views"
)

// treePanel is the tree view as the controller drives it.
type treePanel interface {
	views.Panel
	Show(repo *adapter.Repo, token string) tea.Cmd
	SyncSelection() tea.Cmd
}

// errorPanel is the error view as the controller drives it.
type errorPanel interface {
	views.Panel
	Show(err error) tea.Cmd
}

// helpPopup is the help overlay as the controller drives it.
type helpPopup interface {
	Init() tea.Cmd
}

// pluginHost is the plugin manager as the controller drives it.
type pluginHost interface {
	ApplyOptions(ctx context.Context, changes settings.Changes) (bool, error)
	HandleEvent(ev event.Event) tea.Cmd
}

// ControllerState is the orchestration state. Only the controller that
// owns it reads or writes it.
type ControllerState struct {
	// CurrRepo is the repository the tree shows, nil before the first load.
	CurrRepo *adapter.Repo
	// HasError is set while the error panel shows a failure.
	HasError bool
}

// attempt is one repo-load attempt waiting for its resolution.
type attempt struct {
	seq    uint64
	forced bool
	// show is remember-on-visible && shown, read when the attempt started.
	show  bool
	token string
}

// resolvedMsg carries the adapter's answer for attempt seq.
type resolvedMsg struct {
	seq  uint64
	repo *adapter.Repo
	err  error
}

// shownSavedMsg reports that the sidebar visibility was persisted.
type shownSavedMsg struct {
	err error
}

// widthSavedMsg reports that the sidebar width was persisted.
type widthSavedMsg struct {
	err error
}

// optionsAppliedMsg carries the combined reload decision of an options
// change once the plugins have seen it.
type optionsAppliedMsg struct {
	reload bool
	err    error
}

// pageSettledMsg reports that the page's progressive loader is gone.
type pageSettledMsg struct{}

// ControllerConfig wires a Controller to its collaborators. Adapter may
// be nil when no platform matched.
type ControllerConfig struct {
	Store   settings.Store
	Adapter adapter.Adapter
	Shell   *shell.Shell
	Tree    treePanel
	Error   errorPanel
	Help    helpPopup
	Hotkeys *keymap.Hotkeys
	Plugins pluginHost
	Logger  *slog.Logger
}

// Controller decides when the sidebar reloads, which panel is current, and
// how saved options map onto reloads. All methods run on the update loop.
type Controller struct {
	state ControllerState

	store   settings.Store
	adapter adapter.Adapter
	shell   *shell.Shell
	tree    treePanel
	errView errorPanel
	help    helpPopup
	hotkeys *keymap.Hotkeys
	plugins pluginHost
	logger  *slog.Logger

	seq     uint64
	pending *attempt
}

// NewController creates a controller.
func NewController(cfg ControllerConfig) *Controller {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Controller{
		store:   cfg.Store,
		adapter: cfg.Adapter,
		shell:   cfg.Shell,
		tree:    cfg.Tree,
		errView: cfg.Error,
		help:    cfg.Help,
		hotkeys: cfg.Hotkeys,
		plugins: cfg.Plugins,
		logger:  logger,
	}
}

// State returns a copy of the orchestration state.
func (c *Controller) State() ControllerState { return c.state }

// tryLoadRepo starts a repo-load attempt. The attempt supersedes any
// attempt still waiting for its resolution; a superseded forced attempt
// hands its forced flag on.
func (c *Controller) tryLoadRepo(forced bool) tea.Cmd {
	c.state.HasError = false

	remember := settings.Bool(c.store, settings.Remember)
	shown := settings.Bool(c.store, settings.Shown)
	token := settings.String(c.store, settings.Token)

	if c.pending != nil && c.pending.forced && !forced {
		c.logger.Debug("app: superseded attempt was forced", "seq", c.pending.seq)
		forced = true
	}
	c.seq++
	c.pending = &attempt{seq: c.seq, forced: forced, show: remember && shown, token: token}
	seq := c.seq

	if c.adapter == nil {
		return func() tea.Msg { return resolvedMsg{seq: seq} }
	}
	a, prev := c.adapter, c.state.CurrRepo
	location := c.shell.Document().Location()
	c.logger.Debug("app: resolving", "seq", seq, "location", location, "forced", forced)
	return func() tea.Msg {
		repo, err := a.GetRepoFromPath(context.Background(), location, prev, token)
		return resolvedMsg{seq: seq, repo: repo, err: err}
	}
}

// handleResolved applies the outcome of the current attempt. Outcomes of
// superseded attempts are dropped.
func (c *Controller) handleResolved(m resolvedMsg) tea.Cmd {
	at := c.pending
	if at == nil || at.seq != m.seq {
		c.logger.Debug("app: dropping stale resolution", "seq", m.seq)
		return nil
	}
	c.pending = nil

	if m.err != nil {
		c.logger.Warn("app: resolve failed", "seq", m.seq, "err", m.err)
		return c.showError(m.err)
	}

	var cmds []tea.Cmd
	if m.repo == nil {
		c.shell.Toggler.Hide()
		cmds = append(cmds, c.toggleSidebar(ptr(false)))
	} else {
		c.shell.Toggler.Show()
		if at.show {
			cmds = append(cmds, c.toggleSidebar(ptr(true)))
		}
		if c.shell.SidebarVisible() {
			if at.forced || !adapter.Equivalent(m.repo, c.state.CurrRepo) {
				cmds = append(cmds, c.dispatch(event.Event{Kind: event.RequestStart}))
				c.state.CurrRepo = m.repo
				c.logger.Debug("app: loading tree", "repo", m.repo, "forced", at.forced)
				cmds = append(cmds, c.tree.Show(m.repo, at.token))
			} else {
				cmds = append(cmds, c.tree.SyncSelection())
			}
		}
	}
	if c.help != nil {
		cmds = append(cmds, c.help.Init())
	}
	cmds = append(cmds, c.layoutChanged(false))
	return tea.Batch(cmds...)
}

// showView marks id as the current panel.
func (c *Controller) showView(id views.ID) {
	c.shell.Panels.Show(id)
}

// showError displays err in the error panel.
func (c *Controller) showError(err error) tea.Cmd {
	c.state.HasError = true
	return c.errView.Show(err)
}

// toggleSidebar flips the sidebar and broadcasts the new visibility. With
// visible set it only acts when the sidebar is not already in that state.
func (c *Controller) toggleSidebar(visible *bool) tea.Cmd {
	if visible != nil && c.shell.SidebarVisible() == *visible {
		return nil
	}
	now := c.shell.FlipSidebar()
	return c.dispatch(event.Event{Kind: event.Toggle, Visible: now})
}

// toggleSidebarAndSave persists the visibility the sidebar is about to
// get. The toggle itself happens once the store answered.
func (c *Controller) toggleSidebarAndSave() tea.Cmd {
	visible := !c.shell.SidebarVisible()
	store := c.store
	return func() tea.Msg {
		return shownSavedMsg{err: store.Set(context.Background(), settings.Shown, visible)}
	}
}

func (c *Controller) handleShownSaved(m shownSavedMsg) tea.Cmd {
	if m.err != nil {
		c.logger.Warn("app: save sidebar visibility", "err", m.err)
	}
	cmd := c.toggleSidebar(nil)
	if c.shell.SidebarVisible() {
		return tea.Batch(cmd, c.tryLoadRepo(false))
	}
	return cmd
}

// layoutChanged hands the current geometry to the adapter and, with save,
// persists the sidebar width.
func (c *Controller) layoutChanged(save bool) tea.Cmd {
	width := c.shell.Sidebar.Width()
	if c.adapter != nil {
		c.adapter.UpdateLayout(c.shell.Toggler.Visible(), c.shell.SidebarVisible(), width)
	}
	if !save {
		return nil
	}
	store := c.store
	return func() tea.Msg {
		return widthSavedMsg{err: store.Set(context.Background(), settings.Width, strconv.Itoa(width))}
	}
}

// optionsChanged applies the built-in side effects of changes and lets the
// plugins decide whether they need a reload too.
func (c *Controller) optionsChanged(changes settings.Changes) tea.Cmd {
	reload := false
	for key, change := range changes {
		switch key {
		case settings.Token, settings.LoadAll, settings.Icons, settings.PullRequests:
			reload = true
		case settings.Hotkeys:
			oldSpec, _ := change.Old().(string)
			newSpec, _ := change.New().(string)
			if c.hotkeys != nil {
				c.hotkeys.Unbind(oldSpec)
				c.hotkeys.Bind(newSpec, false)
			}
		}
	}

	if c.plugins == nil {
		return func() tea.Msg { return optionsAppliedMsg{reload: reload} }
	}
	plugins := c.plugins
	return func() tea.Msg {
		pluginReload, err := plugins.ApplyOptions(context.Background(), changes)
		return optionsAppliedMsg{reload: reload || pluginReload, err: err}
	}
}

func (c *Controller) handleOptionsApplied(m optionsAppliedMsg) tea.Cmd {
	if m.err != nil {
		c.logger.Warn("app: plugin options", "err", m.err)
	}
	if !m.reload {
		return nil
	}
	return c.tryLoadRepo(true)
}

// waitForPage resolves once the page's progressive loader is gone.
func (c *Controller) waitForPage() tea.Cmd {
	gone := c.shell.Document().WaitGone(shell.ProgressiveLoader)
	return func() tea.Msg {
		<-gone
		return pageSettledMsg{}
	}
}

// Update routes the controller's own result messages. It reports false for
// messages it does not own.
func (c *Controller) Update(msg tea.Msg) (tea.Cmd, bool) {
	switch msg := msg.(type) {
	case event.Event:
		return c.dispatch(msg), true
	case resolvedMsg:
		return c.handleResolved(msg), true
	case shownSavedMsg:
		return c.handleShownSaved(msg), true
	case widthSavedMsg:
		if msg.err != nil {
			c.logger.Warn("app: save sidebar width", "err", msg.err)
		}
		return nil, true
	case optionsAppliedMsg:
		return c.handleOptionsApplied(msg), true
	case pageSettledMsg:
		return c.tryLoadRepo(true), true
	}
	return nil, false
}

// TogglerClicked handles a click on the toggler like the persisting hotkey.
func (c *Controller) TogglerClicked() tea.Cmd {
	if !c.shell.Toggler.Visible() {
		return nil
	}
	return c.toggleSidebarAndSave()
}

// ShowSidebar makes the sidebar visible without persisting it.
func (c *Controller) ShowSidebar() tea.Cmd {
	return c.toggleSidebar(ptr(true))
}

func ptr[T any](v T) *T { return &v }
