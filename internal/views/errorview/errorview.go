// Package errorview is the panel that explains why the tree could not be
// shown.
package errorview

import (
	"errors"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/marcus/treeside/internal/adapter"
	"github.com/marcus/treeside/internal/event"
	"github.com/marcus/treeside/internal/styles"
	"github.com/marcus/treeside/internal/views"
)

// Model is the error panel.
type Model struct {
	title   string
	message string
	detail  string
}

// New creates an empty error panel.
func New() *Model { return &Model{} }

// ID implements views.Panel.
func (m *Model) ID() views.ID { return views.Error }

// Show displays err and reports the panel ready.
func (m *Model) Show(err error) tea.Cmd {
	m.title, m.message, m.detail = describe(err)
	return event.Ready(views.Error)
}

// Title returns the headline of the error shown.
func (m *Model) Title() string { return m.title }

func describe(err error) (title, message, detail string) {
	var ae *adapter.Error
	if errors.As(err, &ae) {
		if ae.Err != nil {
			detail = ae.Err.Error()
		}
		return ae.Title, ae.Message, detail
	}
	if err == nil {
		return "Error", "Something went wrong.", ""
	}
	return "Error", err.Error(), ""
}

// Update implements views.Panel.
func (m *Model) Update(tea.Msg) tea.Cmd { return nil }

// Command runs a keymap command of the error context.
func (m *Model) Command(name string) tea.Cmd {
	if name == "retry" {
		return event.Emit(event.Event{Kind: event.ForceReload})
	}
	return nil
}

// View implements views.Panel.
func (m *Model) View(width, height int) string {
	body := lipgloss.NewStyle().Width(width)
	var sb strings.Builder
	sb.WriteString(styles.ErrorTitle.Render(m.title))
	sb.WriteString("\n\n")
	sb.WriteString(body.Render(m.message))
	if m.detail != "" {
		sb.WriteString("\n\n")
		sb.WriteString(body.Inherit(styles.Subtle).Render(m.detail))
	}
	sb.WriteString("\n\n")
	sb.WriteString(styles.KeyHint.Render("enter") + " " + styles.Muted.Render("retry") + "  ")
	sb.WriteString(styles.KeyHint.Render("o") + " " + styles.Muted.Render("options"))

	lines := strings.Split(sb.String(), "\n")
	if len(lines) > height {
		lines = lines[:height]
	}
	return strings.Join(lines, "\n")
}
