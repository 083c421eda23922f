package page

import (
	"fmt"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	chromastyles "github.com/alecthomas/chroma/v2/styles"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/marcus/treeside/internal/styles"
)

// render turns content into display lines for width columns.
func render(c Content, width int) []string {
	var lines []string
	switch c.Kind {
	case KindMarkdown:
		lines = renderMarkdown(c.Body, width)
	case KindText:
		lines = numbered(highlight(c.Name, c.Body))
	case KindDirectory:
		for _, name := range strings.Split(c.Body, "\n") {
			if strings.HasSuffix(name, "/") {
				lines = append(lines, styles.TreeDir.Render(name))
			} else {
				lines = append(lines, name)
			}
		}
	case KindBinary:
		lines = []string{styles.Muted.Render("Binary file")}
	default:
		lines = strings.Split(lipgloss.NewStyle().Width(width).Render(c.Body), "\n")
	}
	if c.Truncated {
		lines = append(lines, "", styles.Muted.Render("(truncated)"))
	}
	return lines
}

func renderMarkdown(body string, width int) []string {
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(styles.CurrentMarkdownTheme),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return strings.Split(body, "\n")
	}
	out, err := r.Render(body)
	if err != nil {
		return strings.Split(body, "\n")
	}
	return strings.Split(strings.TrimRight(out, "\n"), "\n")
}

// highlight colors source code by file name. Unknown languages come back
// unchanged.
func highlight(name, code string) string {
	lexer := lexers.Match(name)
	if lexer == nil {
		lexer = lexers.Analyse(code)
	}
	if lexer == nil {
		return code
	}
	lexer = chroma.Coalesce(lexer)

	style := chromastyles.Get(styles.CurrentSyntaxTheme)
	if style == nil {
		style = chromastyles.Fallback
	}
	formatter := formatters.Get("terminal256")
	if formatter == nil {
		return code
	}

	iterator, err := lexer.Tokenise(nil, code)
	if err != nil {
		return code
	}
	var b strings.Builder
	if err := formatter.Format(&b, style, iterator); err != nil {
		return code
	}
	return b.String()
}

// numbered prefixes each line with its line number.
func numbered(text string) []string {
	lines := strings.Split(strings.TrimSuffix(text, "\n"), "\n")
	w := len(fmt.Sprint(len(lines)))
	out := make([]string, len(lines))
	for i, l := range lines {
		out[i] = styles.Subtle.Render(fmt.Sprintf("%*d ", w, i+1)) + l
	}
	return out
}
