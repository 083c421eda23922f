package app

import (
	"log/slog"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/marcus/treeside/internal/adapter"
	"github.com/marcus/treeside/internal/config"
	"github.com/marcus/treeside/internal/event"
	"github.com/marcus/treeside/internal/keymap"
	"github.com/marcus/treeside/internal/mouse"
	"github.com/marcus/treeside/internal/page"
	"github.com/marcus/treeside/internal/plugin"
	"github.com/marcus/treeside/internal/settings"
	"github.com/marcus/treeside/internal/shell"
	"github.com/marcus/treeside/internal/views/errorview"
	"github.com/marcus/treeside/internal/views/help"
	"github.com/marcus/treeside/internal/views/options"
	"github.com/marcus/treeside/internal/views/tree"
)

// phase is how far startup got.
type phase int

const (
	phaseGate     phase = iota // waiting for the first page load
	phaseSeed                  // seeding settings defaults
	phaseActivate              // plugins activating
	phaseReady
)

// Options configures New.
type Options struct {
	Config   *config.Config
	Store    settings.Store
	Location string

	// Fetcher loads pages. Defaults to a page.Mux using the stored token.
	Fetcher page.Fetcher
	// Factories overrides the registered adapter factories.
	Factories []adapter.Factory
	Plugins   []plugin.Plugin
	Logger    *slog.Logger
}

// toast is a temporary status line message.
type toast struct {
	text    string
	isError bool
	id      int
}

// Model is the root Bubble Tea model.
type Model struct {
	cfg    *config.Config
	store  settings.Store
	logger *slog.Logger

	factories []adapter.Factory

	doc     *shell.Document
	bus     *event.Bus
	keys    *keymap.Registry
	hotkeys *keymap.Hotkeys
	plugins *plugin.Manager
	page    *page.Model
	mouse   *mouse.Handler

	// Built once the settings are seeded.
	shell   *shell.Shell
	adapter adapter.Adapter
	tree    *tree.Model
	options *options.Model
	errView *errorview.Model
	help    *help.Model
	ctrl    *Controller

	phase        phase
	width        int
	height       int
	focusSidebar bool
	toast        toast
	err          error
}

// New creates the application model for opts.Location.
func New(opts Options) Model {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Default()
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	factories := opts.Factories
	if factories == nil {
		factories = adapter.Factories()
	}

	keys := keymap.NewRegistry(keymap.DefaultBindings())
	applyOverrides(keys, cfg.Keymap.Overrides)

	doc := shell.NewDocument(opts.Location)
	store := opts.Store
	fetcher := opts.Fetcher
	if fetcher == nil {
		fetcher = page.NewMux(func() string { return settings.String(store, settings.Token) }, cfg.GitHub.Timeout)
	}

	return Model{
		cfg:       cfg,
		store:     store,
		logger:    logger,
		factories: factories,
		doc:       doc,
		bus:       event.NewBus(64),
		keys:      keys,
		plugins:   plugin.NewManager(logger, opts.Plugins...),
		page:      page.New(doc, fetcher, logger),
		mouse:     mouse.NewHandler(),
	}
}

// applyOverrides installs "context:key" -> command overrides. A key without
// a context applies to the global context.
func applyOverrides(keys *keymap.Registry, overrides map[string]string) {
	for spec, command := range overrides {
		context, key := "global", spec
		if i := strings.Index(spec, ":"); i > 0 && i < len(spec)-1 {
			context, key = spec[:i], spec[i+1:]
		}
		keys.SetUserOverride(context, key, command)
	}
}

// Init starts the page load and the startup sequence.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.page.Load(),
		m.gate(),
		m.bus.Listen(),
	)
}

// Err returns the fatal startup error, if any.
func (m Model) Err() error { return m.err }

// Controller returns the orchestration controller, nil before startup
// built it.
func (m Model) Controller() *Controller { return m.ctrl }

// Ready reports whether startup finished.
func (m Model) Ready() bool { return m.phase == phaseReady }

// ShowToast displays a temporary message and returns the command that
// clears it.
func (m *Model) ShowToast(text string, d time.Duration, isError bool) tea.Cmd {
	id := m.toast.id + 1
	m.toast = toast{text: text, isError: isError, id: id}
	return tea.Tick(d, func(time.Time) tea.Msg { return toastExpiredMsg{id: id} })
}

// ClearToast clears the toast if it is still the one with id.
func (m *Model) ClearToast(id int) {
	if m.toast.id == id {
		m.toast.text = ""
	}
}

// shutdown closes the bus first so goroutines blocked posting to it can
// return, then stops the plugins.
func (m *Model) shutdown() tea.Cmd {
	m.bus.Close()
	m.plugins.Stop()
	return tea.Quit
}
