// Package help is the key reference overlay. It opens by itself once, on
// the first repository page, until the user dismisses it.
package help

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"

	"github.com/marcus/treeside/internal/keymap"
	"github.com/marcus/treeside/internal/settings"
	"github.com/marcus/treeside/internal/styles"
	"github.com/marcus/treeside/internal/views"
)

// seenSavedMsg reports the outcome of persisting the dismissal.
type seenSavedMsg struct{ err error }

// Model is the help overlay.
type Model struct {
	store  settings.Store
	keys   *keymap.Registry
	logger *slog.Logger

	initialized bool
	visible     bool

	rendered      string
	renderedWidth int
	renderedKeys  string
}

// New creates the help overlay.
func New(store settings.Store, keys *keymap.Registry, logger *slog.Logger) *Model {
	if logger == nil {
		logger = slog.Default()
	}
	return &Model{store: store, keys: keys, logger: logger}
}

// ID implements views.Panel.
func (m *Model) ID() views.ID { return views.Help }

// Visible reports whether the overlay is showing.
func (m *Model) Visible() bool { return m.visible }

// Init opens the overlay the first time it is called if it was never
// dismissed. Later calls do nothing.
func (m *Model) Init() tea.Cmd {
	if m.initialized {
		return nil
	}
	m.initialized = true
	if !settings.Bool(m.store, settings.PopupSeen) {
		m.visible = true
	}
	return nil
}

// Open shows the overlay on request.
func (m *Model) Open() { m.visible = true }

// Dismiss hides the overlay and remembers that it was seen.
func (m *Model) Dismiss() tea.Cmd {
	m.visible = false
	if settings.Bool(m.store, settings.PopupSeen) {
		return nil
	}
	store := m.store
	return func() tea.Msg {
		return seenSavedMsg{err: store.Set(context.Background(), settings.PopupSeen, true)}
	}
}

// Update implements views.Panel.
func (m *Model) Update(message tea.Msg) tea.Cmd {
	if saved, ok := message.(seenSavedMsg); ok && saved.err != nil {
		m.logger.Warn("help: save dismissal", "err", saved.err)
	}
	return nil
}

// Markdown returns the help text for the given toggle combos.
func (m *Model) Markdown(hotkeys string) string {
	var sb strings.Builder
	sb.WriteString("# treeside\n\n")
	sb.WriteString("Browse the repository behind the page in the sidebar.\n\n")
	if combos := keymap.ParseCombo(hotkeys); len(combos) > 0 {
		fmt.Fprintf(&sb, "Press `%s` to show or hide the sidebar.\n\n", strings.Join(combos, "` or `"))
	}
	sb.WriteString("| key | action |\n|---|---|\n")
	if m.keys != nil {
		for _, ctx := range []string{"global", "tree"} {
			for _, b := range m.keys.BindingsForContext(ctx) {
				fmt.Fprintf(&sb, "| `%s` | %s |\n", escapeCell(b.Key), b.Command)
			}
		}
	}
	return sb.String()
}

func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}

// View implements views.Panel.
func (m *Model) View(width, height int) string {
	if !m.visible {
		return ""
	}
	hotkeys := settings.String(m.store, settings.Hotkeys)
	if m.rendered == "" || m.renderedWidth != width || m.renderedKeys != hotkeys {
		m.rendered = m.render(width, hotkeys)
		m.renderedWidth, m.renderedKeys = width, hotkeys
	}
	lines := strings.Split(strings.TrimRight(m.rendered, "\n"), "\n")
	if len(lines) > height {
		lines = lines[:height]
	}
	return strings.Join(lines, "\n")
}

func (m *Model) render(width int, hotkeys string) string {
	md := m.Markdown(hotkeys)
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(styles.CurrentMarkdownTheme),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		m.logger.Warn("help: glamour init failed", "err", err)
		return md
	}
	out, err := r.Render(md)
	if err != nil {
		return md
	}
	return out
}
