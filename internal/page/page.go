// Package page is the pane that shows the current location: a code host
// page or a file of a local checkout.
package page

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"

	"github.com/marcus/treeside/internal/event"
	"github.com/marcus/treeside/internal/shell"
	"github.com/marcus/treeside/internal/styles"
)

// fetchedMsg carries the content of one navigation.
type fetchedMsg struct {
	seq     int
	content Content
	err     error
}

// Model is the page pane.
type Model struct {
	doc     *shell.Document
	fetcher Fetcher
	logger  *slog.Logger

	seq     int
	history []string

	content Content
	err     error
	lines   []string
	width   int
	scroll  int
	loading bool

	bar     textinput.Model
	editing bool
}

// New creates the page pane for doc.
func New(doc *shell.Document, fetcher Fetcher, logger *slog.Logger) *Model {
	if logger == nil {
		logger = slog.Default()
	}
	bar := textinput.New()
	bar.Prompt = "› "
	bar.Placeholder = "https://github.com/owner/repo or a local path"
	return &Model{doc: doc, fetcher: fetcher, logger: logger, bar: bar}
}

// Loading reports whether a fetch is in flight.
func (m *Model) Loading() bool { return m.loading }

// Editing reports whether the location bar has focus.
func (m *Model) Editing() bool { return m.editing }

// Content returns what the page currently shows.
func (m *Model) Content() Content { return m.content }

// Load fetches the document's current location without announcing a
// location change. Used for the first page.
func (m *Model) Load() tea.Cmd {
	return m.fetch(m.doc.Location())
}

// Navigate opens location and announces the location change.
func (m *Model) Navigate(location string) tea.Cmd {
	if location == "" || location == m.doc.Location() {
		return nil
	}
	m.history = append(m.history, m.doc.Location())
	return m.goTo(location)
}

// Back returns to the previous location.
func (m *Model) Back() tea.Cmd {
	if len(m.history) == 0 {
		return nil
	}
	prev := m.history[len(m.history)-1]
	m.history = m.history[:len(m.history)-1]
	return m.goTo(prev)
}

func (m *Model) goTo(location string) tea.Cmd {
	m.doc.SetLocation(location)
	m.scroll = 0
	return tea.Batch(
		m.fetch(location),
		event.Emit(event.Event{Kind: event.LocationChange, Location: location}),
	)
}

// Reload fetches the page again and asks for a forced sidebar reload. The
// sidebar reload waits until the page finished loading.
func (m *Model) Reload() tea.Cmd {
	return tea.Batch(
		m.fetch(m.doc.Location()),
		event.Emit(event.Event{Kind: event.ForceReload}),
	)
}

// fetch raises the progressive loader fragment until the content arrives.
func (m *Model) fetch(location string) tea.Cmd {
	m.seq++
	m.loading = true
	m.doc.AddFragment(shell.ProgressiveLoader)
	seq, fetcher := m.seq, m.fetcher
	return func() tea.Msg {
		c, err := fetcher.Fetch(context.Background(), location)
		return fetchedMsg{seq: seq, content: c, err: err}
	}
}

// OpenBar focuses the location bar.
func (m *Model) OpenBar() tea.Cmd {
	m.editing = true
	m.bar.SetValue(m.doc.Location())
	m.bar.CursorEnd()
	return m.bar.Focus()
}

// Update handles fetch results and location bar input.
func (m *Model) Update(message tea.Msg) tea.Cmd {
	switch message := message.(type) {
	case fetchedMsg:
		if message.seq != m.seq {
			return nil
		}
		m.loading = false
		m.doc.RemoveFragment(shell.ProgressiveLoader)
		m.content, m.err = message.content, message.err
		if m.err != nil {
			m.logger.Debug("page: fetch failed", "err", m.err)
		}
		m.lines = nil
		return nil

	case tea.KeyMsg:
		if !m.editing {
			return nil
		}
		switch message.String() {
		case "esc":
			m.editing = false
			m.bar.Blur()
			return nil
		case "enter":
			m.editing = false
			m.bar.Blur()
			return m.Navigate(NormalizeLocation(m.bar.Value()))
		}
		var cmd tea.Cmd
		m.bar, cmd = m.bar.Update(message)
		return cmd
	}
	if m.editing {
		var cmd tea.Cmd
		m.bar, cmd = m.bar.Update(message)
		return cmd
	}
	return nil
}

// NormalizeLocation turns user input into a location. Paths become file://
// locations; bare hosts get https.
func NormalizeLocation(input string) string {
	s := strings.TrimSpace(input)
	if s == "" {
		return ""
	}
	if strings.Contains(s, "://") {
		return s
	}
	if strings.HasPrefix(s, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			s = filepath.Join(home, s[2:])
		}
	}
	if abs, err := filepath.Abs(s); err == nil {
		if _, err := os.Stat(abs); err == nil {
			return "file://" + filepath.ToSlash(abs)
		}
	}
	return "https://" + s
}

// Command runs a keymap command of the page context.
func (m *Model) Command(name string, pageSize int) tea.Cmd {
	switch name {
	case "scroll-down":
		m.scroll++
	case "scroll-up":
		m.scroll--
	case "scroll-top":
		m.scroll = 0
	case "scroll-bottom":
		m.scroll = len(m.lines)
	case "page-down":
		m.scroll += max(pageSize, 1)
	case "page-up":
		m.scroll -= max(pageSize, 1)
	case "back":
		return m.Back()
	}
	return nil
}

// Bar renders the location line.
func (m *Model) Bar(width int) string {
	if m.editing {
		m.bar.Width = max(width-4, 1)
		return styles.LocationBar.Width(width).Render(m.bar.View())
	}
	loc := m.doc.Location()
	if m.loading {
		loc += " …"
	}
	return styles.LocationBar.Width(width).Render(ansi.Truncate(loc, max(width-2, 1), "…"))
}

// View renders the page body in width x height.
func (m *Model) View(width, height int) string {
	if height <= 0 || width <= 0 {
		return ""
	}
	if m.err != nil {
		return styles.ErrorTitle.Render("Could not open page") + "\n\n" + styles.Muted.Render(m.err.Error())
	}
	if m.lines == nil || m.width != width {
		m.lines = render(m.content, width)
		m.width = width
	}

	maxScroll := max(len(m.lines)-height, 0)
	m.scroll = min(max(m.scroll, 0), maxScroll)
	end := min(m.scroll+height, len(m.lines))

	out := make([]string, 0, end-m.scroll)
	for _, l := range m.lines[m.scroll:end] {
		out = append(out, ansi.Truncate(l, width, ""))
	}
	return strings.Join(out, "\n")
}
