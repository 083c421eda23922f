// Package ui provides shared rendering helpers for the TUI: the modal
// overlay, the sidebar overlay, and scrollbars.
package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/marcus/treeside/internal/styles"
)

// DimStyle applies a dim gray color to background content behind modals.
// Existing ANSI codes are stripped because SGR 2 (faint) doesn't reliably
// combine with existing color codes in most terminals.
var DimStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("242"))

// maxLineWidth returns the maximum visual width of the given lines.
func maxLineWidth(lines []string) int {
	maxWidth := 0
	for _, line := range lines {
		if w := ansi.StringWidth(line); w > maxWidth {
			maxWidth = w
		}
	}
	return maxWidth
}

// dimLine strips ANSI codes and applies dim gray styling.
func dimLine(s string) string {
	return DimStyle.Render(ansi.Strip(s))
}

// padRight pads s with spaces to width visual columns.
func padRight(s string, width int) string {
	if w := ansi.StringWidth(s); w < width {
		return s + strings.Repeat(" ", width-w)
	}
	return s
}

// compositeRow overlays fg onto bg at column x. When dim is set the
// visible background is dimmed.
func compositeRow(bg, fg string, x, fgWidth, totalWidth int, dim bool) string {
	var result strings.Builder

	keep := func(s string) string {
		if dim {
			return DimStyle.Render(ansi.Strip(s))
		}
		return s
	}

	if x > 0 {
		left := ansi.Truncate(bg, x, "")
		result.WriteString(keep(left))
		if w := ansi.StringWidth(left); w < x {
			result.WriteString(strings.Repeat(" ", x-w))
		}
	}

	result.WriteString(padRight(fg, fgWidth))

	rightStart := x + fgWidth
	if bgWidth := ansi.StringWidth(bg); rightStart < totalWidth && bgWidth > rightStart {
		result.WriteString(keep(ansi.Cut(bg, rightStart, bgWidth)))
	}
	return result.String()
}

// OverlayModal composites a modal centered on a dimmed background.
func OverlayModal(background, modal string, width, height int) string {
	bgLines := strings.Split(background, "\n")
	modalLines := strings.Split(modal, "\n")

	modalWidth := maxLineWidth(modalLines)
	modalHeight := len(modalLines)
	startX := max((width-modalWidth)/2, 0)
	startY := max((height-modalHeight)/2, 0)

	result := make([]string, 0, height)
	for y := 0; y < height; y++ {
		bgLine := ""
		if y < len(bgLines) {
			bgLine = bgLines[y]
		}
		if row := y - startY; row >= 0 && row < modalHeight {
			result = append(result, compositeRow(bgLine, modalLines[row], startX, modalWidth, width, true))
		} else {
			result = append(result, dimLine(bgLine))
		}
	}
	return strings.Join(result, "\n")
}

// OverlayLeft draws panel over the left edge of background without dimming.
// Every panel row is padded to panelWidth so the page never shows through.
func OverlayLeft(background, panel string, panelWidth, width, height int) string {
	bgLines := strings.Split(background, "\n")
	panelLines := strings.Split(panel, "\n")

	result := make([]string, 0, height)
	for y := 0; y < height; y++ {
		bgLine := ""
		if y < len(bgLines) {
			bgLine = bgLines[y]
		}
		fg := ""
		if y < len(panelLines) {
			fg = ansi.Truncate(panelLines[y], panelWidth, "")
		}
		result = append(result, compositeRow(bgLine, fg, 0, panelWidth, width, false))
	}
	return strings.Join(result, "\n")
}

// Modal frames content in the modal box style.
func Modal(title, content string, width int) string {
	var sb strings.Builder
	if title != "" {
		sb.WriteString(styles.Title.Render(title))
		sb.WriteString("\n\n")
	}
	sb.WriteString(content)
	return styles.ModalBox.Width(width).Render(sb.String())
}
