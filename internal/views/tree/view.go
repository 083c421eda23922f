package tree

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/marcus/treeside/internal/adapter"
	"github.com/marcus/treeside/internal/styles"
	"github.com/marcus/treeside/internal/ui"
)

// HeaderHeight is the number of rows above the first tree row.
const HeaderHeight = 2

// View implements views.Panel.
func (m *Model) View(width, height int) string {
	var sb strings.Builder
	sb.WriteString(m.renderHeader(width))
	sb.WriteString("\n\n")

	visible := height - HeaderHeight
	if visible < 1 {
		return sb.String()
	}

	if m.loading {
		sb.WriteString(m.spinner.View())
		sb.WriteString(" ")
		sb.WriteString(styles.Muted.Render("Loading…"))
		return sb.String()
	}
	if len(m.rows) == 0 {
		sb.WriteString(styles.Muted.Render("No files"))
		return sb.String()
	}

	m.scrollTo(visible)
	end := min(m.offset+visible, len(m.rows))

	rowWidth := width - 1 // scrollbar column
	var rows strings.Builder
	for i := m.offset; i < end; i++ {
		rows.WriteString(m.renderRow(m.rows[i], i == m.cursor, rowWidth))
		if i < end-1 {
			rows.WriteString("\n")
		}
	}
	bar := ui.RenderScrollbar(len(m.rows), m.offset, end-m.offset)
	sb.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, rows.String(), bar))
	return sb.String()
}

// scrollTo keeps the cursor inside the visible window.
func (m *Model) scrollTo(visible int) {
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+visible {
		m.offset = m.cursor - visible + 1
	}
	if maxOff := max(len(m.rows)-visible, 0); m.offset > maxOff {
		m.offset = maxOff
	}
}

func (m *Model) renderHeader(width int) string {
	if m.repo == nil {
		return styles.Title.Render("Files")
	}
	branch := m.repo.DisplayBranch
	if branch == "" {
		branch = m.repo.Branch
	}
	title := m.repo.FullName()
	sub := branch
	if m.repo.PullNumber > 0 {
		sub = fmt.Sprintf("#%d %s", m.repo.PullNumber, branch)
	}
	title = runewidth.Truncate(title, width, "…")
	sub = runewidth.Truncate(sub, max(width-runewidth.StringWidth(title)-1, 0), "…")
	if sub == "" {
		return styles.Title.Render(title)
	}
	return styles.Title.Render(title) + " " + styles.Muted.Render(sub)
}

func (m *Model) renderRow(n *Node, selected bool, width int) string {
	indent := strings.Repeat("  ", n.Depth)

	marker := "  "
	if n.IsDir() {
		if n.Expanded {
			marker = "▾ "
		} else {
			marker = "▸ "
		}
	}

	icon := ""
	if m.icons {
		switch {
		case n.IsDir() && n.Expanded:
			icon = iconDirOpen + " "
		case n.IsDir():
			icon = iconDir + " "
		case n.Item.Type == adapter.Commit:
			icon = iconSubmodule + " "
		default:
			icon = fileIcon(n.Item.Name) + " "
		}
	}

	status := statusMark(n.Item.Status)
	statusWidth := 0
	if status != "" {
		statusWidth = 2
	}

	prefix := indent + marker + icon
	avail := max(width-runewidth.StringWidth(prefix)-statusWidth, 1)
	name := runewidth.Truncate(n.Item.Name, avail, "…")

	if selected {
		plain := prefix + name
		if status != "" {
			plain += " " + status
		}
		return styles.TreeSelected.Render(runewidth.FillRight(plain, width))
	}

	var styledName string
	switch {
	case n.Item.Path == m.current:
		styledName = styles.TreeCurrent.Render(name)
	case n.IsDir():
		styledName = styles.TreeDir.Render(name)
	default:
		styledName = styles.TreeFile.Render(name)
	}
	line := prefix + styledName
	if status != "" {
		line += " " + statusStyle(n.Item.Status).Render(status)
	}
	if pad := width - runewidth.StringWidth(prefix+name) - statusWidth; pad > 0 {
		line += strings.Repeat(" ", pad)
	}
	return line
}

func statusMark(status string) string {
	switch status {
	case "added":
		return "A"
	case "modified", "changed":
		return "M"
	case "removed":
		return "D"
	case "renamed":
		return "R"
	case "":
		return ""
	default:
		return "?"
	}
}

func statusStyle(status string) lipgloss.Style {
	switch status {
	case "added":
		return styles.StatusAdded
	case "removed":
		return styles.StatusRemoved
	default:
		return styles.StatusModified
	}
}
