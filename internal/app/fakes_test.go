package app

import (
	"context"
	"sync"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/marcus/treeside/internal/adapter"
	"github.com/marcus/treeside/internal/event"
	"github.com/marcus/treeside/internal/keymap"
	"github.com/marcus/treeside/internal/settings"
	"github.com/marcus/treeside/internal/shell"
	"github.com/marcus/treeside/internal/views"
)

const testLocation = "https://github.com/octo/tree/blob/main/README.md"

type layoutCall struct {
	toggler, sidebar bool
	width            int
}

// fakeAdapter resolves every location to repo (or fails with err).
type fakeAdapter struct {
	mu      sync.Mutex
	repo    *adapter.Repo
	err     error
	calls   int
	prevs   []*adapter.Repo
	tokens  []string
	layouts []layoutCall
	sidebar *shell.Sidebar
}

func (f *fakeAdapter) ID() string   { return "fake" }
func (f *fakeAdapter) Name() string { return "Fake" }

func (f *fakeAdapter) Init(sidebar *shell.Sidebar) { f.sidebar = sidebar }

func (f *fakeAdapter) GetRepoFromPath(_ context.Context, _ string, prev *adapter.Repo, token string) (*adapter.Repo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.prevs = append(f.prevs, prev)
	f.tokens = append(f.tokens, token)
	return f.repo, f.err
}

func (f *fakeAdapter) UpdateLayout(togglerVisible, sidebarVisible bool, width int) {
	f.layouts = append(f.layouts, layoutCall{togglerVisible, sidebarVisible, width})
}

func (f *fakeAdapter) LoadTree(context.Context, *adapter.Repo, adapter.TreeRequest) ([]adapter.TreeItem, error) {
	return nil, nil
}

func (f *fakeAdapter) FileURL(*adapter.Repo, string) string { return "" }

func (f *fakeAdapter) SelectedPath(string, *adapter.Repo) string { return "" }

type showCall struct {
	repo  *adapter.Repo
	token string
}

// fakeTree records the controller's instructions and reports ready on Show.
type fakeTree struct {
	shows []showCall
	syncs int
}

func (f *fakeTree) ID() views.ID { return views.Tree }
func (f *fakeTree) Update(tea.Msg) tea.Cmd { return nil }
func (f *fakeTree) View(int, int) string { return "" }

func (f *fakeTree) Show(repo *adapter.Repo, token string) tea.Cmd {
	f.shows = append(f.shows, showCall{repo, token})
	return event.Ready(views.Tree)
}

func (f *fakeTree) SyncSelection() tea.Cmd {
	f.syncs++
	return nil
}

type fakeErrorView struct {
	shown []error
}

func (f *fakeErrorView) ID() views.ID { return views.Error }
func (f *fakeErrorView) Update(tea.Msg) tea.Cmd { return nil }
func (f *fakeErrorView) View(int, int) string { return "" }

func (f *fakeErrorView) Show(err error) tea.Cmd {
	f.shown = append(f.shown, err)
	return event.Ready(views.Error)
}

type fakeHelp struct {
	inits int
}

func (f *fakeHelp) Init() tea.Cmd {
	f.inits++
	return nil
}

// fakePlugins records forwarded events and answers ApplyOptions with reload.
type fakePlugins struct {
	mu      sync.Mutex
	events  []event.Event
	changes []settings.Changes
	reload  bool
}

func (f *fakePlugins) ApplyOptions(_ context.Context, changes settings.Changes) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.changes = append(f.changes, changes)
	return f.reload, nil
}

func (f *fakePlugins) HandleEvent(ev event.Event) tea.Cmd {
	f.events = append(f.events, ev)
	return nil
}

func (f *fakePlugins) count(kind event.Kind) int {
	n := 0
	for _, ev := range f.events {
		if ev.Kind == kind {
			n++
		}
	}
	return n
}

type harness struct {
	ctrl    *Controller
	store   *settings.MemoryStore
	shell   *shell.Shell
	adapter *fakeAdapter
	tree    *fakeTree
	errView *fakeErrorView
	help    *fakeHelp
	plugins *fakePlugins
	hotkeys *keymap.Hotkeys
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	store := settings.NewMemory()
	if err := settings.SeedDefaults(context.Background(), store); err != nil {
		t.Fatal(err)
	}
	h := &harness{
		store:   store,
		shell:   shell.New(shell.NewDocument(testLocation), 32, 20, 80),
		adapter: &fakeAdapter{repo: repo("main")},
		tree:    &fakeTree{},
		errView: &fakeErrorView{},
		help:    &fakeHelp{},
		plugins: &fakePlugins{},
	}
	h.hotkeys = keymap.NewHotkeys(h.shell.Toggler.Visible)
	h.hotkeys.Bind(settings.String(store, settings.Hotkeys), true)
	h.ctrl = NewController(ControllerConfig{
		Store:   store,
		Adapter: h.adapter,
		Shell:   h.shell,
		Tree:    h.tree,
		Error:   h.errView,
		Help:    h.help,
		Hotkeys: h.hotkeys,
		Plugins: h.plugins,
	})
	h.adapter.Init(h.shell.Sidebar)
	return h
}

func (h *harness) set(t *testing.T, key settings.Key, value settings.Value) {
	t.Helper()
	if err := h.store.Set(context.Background(), key, value); err != nil {
		t.Fatal(err)
	}
}

// run executes cmd and feeds every resulting message back into the
// controller until nothing is left.
func (h *harness) run(cmd tea.Cmd) {
	if cmd == nil {
		return
	}
	switch m := cmd().(type) {
	case nil:
	case tea.BatchMsg:
		for _, c := range m {
			h.run(c)
		}
	default:
		next, _ := h.ctrl.Update(m)
		h.run(next)
	}
}

// load runs one full repo-load attempt.
func (h *harness) load(forced bool) {
	h.run(h.ctrl.tryLoadRepo(forced))
}

// showSidebar makes the sidebar visible with a repo already loaded.
func (h *harness) showSidebar(t *testing.T) {
	t.Helper()
	h.load(false)
	h.run(h.ctrl.toggleSidebar(ptr(true)))
	h.load(false)
	if len(h.tree.shows) != 1 {
		t.Fatalf("setup: tree shows = %d, want 1", len(h.tree.shows))
	}
}

func repo(branch string) *adapter.Repo {
	return &adapter.Repo{Username: "octo", Reponame: "tree", Branch: branch, DisplayBranch: branch}
}
