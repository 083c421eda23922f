package app

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/marcus/treeside/internal/styles"
	"github.com/marcus/treeside/internal/ui"
	"github.com/marcus/treeside/internal/views"
)

const (
	minWidth  = 30
	minHeight = 6
)

// View renders the entire application UI.
func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	// Show warning if terminal is too small
	if m.width < minWidth || m.height < minHeight {
		msg := fmt.Sprintf("Terminal too small (%dx%d)\nMinimum: %dx%d",
			m.width, m.height, minWidth, minHeight)
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center,
			styles.ErrorTitle.Render(msg))
	}

	height := m.contentHeight()
	body := m.renderPage(height)
	if m.shell != nil {
		switch {
		case m.shell.SidebarVisible():
			width := m.shell.Sidebar.Width()
			body = ui.OverlayLeft(body, m.renderSidebar(width, height), width, m.width, height)
		case m.shell.Toggler.Visible():
			body = ui.OverlayLeft(body, m.renderToggler(height), 1, m.width, height)
		}
	}

	out := body + "\n" + m.renderStatus()
	if m.help != nil && m.help.Visible() {
		out = ui.OverlayModal(out, m.renderHelp(), m.width, m.height)
	}
	return out
}

// renderPage renders the page pane shifted right by the document margin.
func (m Model) renderPage(height int) string {
	margin := min(max(m.doc.Margin(), 0), m.width-1)
	view := m.page.View(m.width-margin, height)

	lines := strings.Split(view, "\n")
	pad := strings.Repeat(" ", margin)
	out := make([]string, height)
	for i := range out {
		if i < len(lines) {
			out[i] = pad + lines[i]
		} else {
			out[i] = pad
		}
	}
	return strings.Join(out, "\n")
}

// renderSidebar renders the current panel with a right border.
func (m Model) renderSidebar(width, height int) string {
	inner := max(width-1, 1)

	var body string
	switch m.shell.Panels.Current() {
	case views.Tree:
		body = m.tree.View(inner, height)
	case views.Options:
		body = m.options.View(inner, height)
	case views.Error:
		body = m.errView.View(inner, height)
	default:
		body = styles.Muted.Render("Loading…")
	}

	border := styles.BorderNormal
	if m.sidebarFocused() {
		border = styles.BorderActive
	}
	return lipgloss.NewStyle().
		Width(inner).
		Height(height).
		MaxHeight(height).
		Border(lipgloss.NormalBorder(), false, true, false, false).
		BorderForeground(border).
		Render(body)
}

// renderToggler renders the one-column toggler with its glyph centred.
func (m Model) renderToggler(height int) string {
	style, glyph := styles.Toggler, "›"
	if m.shell.Toggler.Loading() {
		style, glyph = styles.TogglerLoading, "…"
	}
	lines := make([]string, height)
	for i := range lines {
		if i == height/2 {
			lines[i] = style.Render(glyph)
		} else {
			lines[i] = style.Render(" ")
		}
	}
	return strings.Join(lines, "\n")
}

// renderStatus renders the location bar with the toast on its right.
func (m Model) renderStatus() string {
	if m.page.Editing() || m.toast.text == "" {
		return m.page.Bar(m.width)
	}
	style := styles.ToastSuccess
	if m.toast.isError {
		style = styles.ToastError
	}
	t := style.Render(ansi.Truncate(m.toast.text, max(m.width/2, 1), "…"))
	return m.page.Bar(max(m.width-lipgloss.Width(t), 1)) + t
}

// renderHelp renders the help overlay with the plugin diagnostics below.
func (m Model) renderHelp() string {
	width := min(m.width-4, 76)
	inner := max(width-4, 10)
	content := m.help.View(inner, max(m.height-10, 3))

	if diags := m.plugins.Diagnostics(); len(diags) > 0 {
		var sb strings.Builder
		sb.WriteString(content)
		sb.WriteString("\n\n")
		sb.WriteString(styles.Subtitle.Render("Plugins"))
		for _, d := range diags {
			line := fmt.Sprintf("%s: %s", d.ID, d.Status)
			if d.Detail != "" {
				line += " (" + d.Detail + ")"
			}
			sb.WriteString("\n")
			sb.WriteString(styles.Muted.Render(ansi.Truncate(line, inner, "…")))
		}
		content = sb.String()
	}
	return ui.Modal("", content, width)
}
