package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/marcus/treeside/internal/styles"
)

// RenderScrollbar renders a single-column vertical scrollbar of height
// rows. It returns blank rows when everything fits.
func RenderScrollbar(total, offset, height int) string {
	if height < 1 {
		return ""
	}
	if total <= height {
		return strings.TrimSuffix(strings.Repeat(" \n", height), "\n")
	}

	// Thumb size: proportional to visible fraction, minimum 1
	thumbSize := max((height*height)/total, 1)
	thumbSize = min(thumbSize, height)

	maxOffset := max(total-height, 1)
	thumbPos := (offset * (height - thumbSize)) / maxOffset
	thumbPos = min(max(thumbPos, 0), height-thumbSize)

	trackChar := lipgloss.NewStyle().Foreground(styles.TextSubtle).Render("│")
	thumbChar := lipgloss.NewStyle().Foreground(styles.TextMuted).Render("┃")

	lines := make([]string, height)
	for i := range lines {
		if i >= thumbPos && i < thumbPos+thumbSize {
			lines[i] = thumbChar
		} else {
			lines[i] = trackChar
		}
	}
	return strings.Join(lines, "\n")
}
