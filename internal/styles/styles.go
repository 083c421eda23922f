// Package styles holds the color palette and lipgloss styles of the TUI.
package styles

import "github.com/charmbracelet/lipgloss"

// Color palette - default dark theme
var (
	Primary   = lipgloss.Color("#7C3AED") // Purple
	Secondary = lipgloss.Color("#3B82F6") // Blue
	Accent    = lipgloss.Color("#F59E0B") // Amber

	Success = lipgloss.Color("#10B981") // Green
	Warning = lipgloss.Color("#F59E0B") // Amber
	Error   = lipgloss.Color("#EF4444") // Red
	Info    = lipgloss.Color("#3B82F6") // Blue

	TextPrimary   = lipgloss.Color("#F9FAFB")
	TextSecondary = lipgloss.Color("#9CA3AF")
	TextMuted     = lipgloss.Color("#6B7280")
	TextSubtle    = lipgloss.Color("#4B5563")

	BgPrimary   = lipgloss.Color("#111827")
	BgSecondary = lipgloss.Color("#1F2937")
	BgTertiary  = lipgloss.Color("#374151")

	BorderNormal = lipgloss.Color("#374151")
	BorderActive = lipgloss.Color("#7C3AED")

	LinkColor             = lipgloss.Color("#60A5FA")
	ToastSuccessTextColor = lipgloss.Color("#000000")
	ToastErrorTextColor   = lipgloss.Color("#FFFFFF")

	// Third-party theme names (updated by ApplyTheme)
	CurrentSyntaxTheme   = "monokai"
	CurrentMarkdownTheme = "dark"
)

// Panel styles
var (
	// Sidebar when it has focus
	PanelActive lipgloss.Style
	// Sidebar without focus
	PanelInactive lipgloss.Style
	PanelHeader   lipgloss.Style
)

// Text styles
var (
	Title    lipgloss.Style
	Subtitle lipgloss.Style
	Body     lipgloss.Style
	Muted    lipgloss.Style
	Subtle   lipgloss.Style
	Code     lipgloss.Style
	Link     lipgloss.Style
	KeyHint  lipgloss.Style
	Logo     lipgloss.Style
)

// Tree rows
var (
	TreeSelected lipgloss.Style
	TreeDir      lipgloss.Style
	TreeFile     lipgloss.Style
	TreeCurrent  lipgloss.Style

	StatusAdded    lipgloss.Style
	StatusModified lipgloss.Style
	StatusRemoved  lipgloss.Style
)

// Chrome
var (
	Toggler        lipgloss.Style
	TogglerLoading lipgloss.Style
	LocationBar    lipgloss.Style
	ErrorTitle     lipgloss.Style
	ModalBox       lipgloss.Style
	ToastSuccess   lipgloss.Style
	ToastError     lipgloss.Style
)

func init() {
	rebuildStyles()
}

// rebuildStyles recreates all lipgloss styles with current colors
func rebuildStyles() {
	PanelActive = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(BorderActive)

	PanelInactive = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(BorderNormal)

	PanelHeader = lipgloss.NewStyle().
		Bold(true).
		Foreground(TextPrimary)

	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(TextPrimary)

	Subtitle = lipgloss.NewStyle().
		Foreground(TextSecondary)

	Body = lipgloss.NewStyle().
		Foreground(TextPrimary)

	Muted = lipgloss.NewStyle().
		Foreground(TextMuted)

	Subtle = lipgloss.NewStyle().
		Foreground(TextSubtle)

	Code = lipgloss.NewStyle().
		Foreground(Accent)

	Link = lipgloss.NewStyle().
		Foreground(LinkColor).
		Underline(true)

	KeyHint = lipgloss.NewStyle().
		Foreground(TextMuted).
		Background(BgTertiary).
		Padding(0, 1)

	Logo = lipgloss.NewStyle().
		Foreground(Primary).
		Bold(true)

	TreeSelected = lipgloss.NewStyle().
		Foreground(TextPrimary).
		Background(BgTertiary).
		Bold(true)

	TreeDir = lipgloss.NewStyle().
		Foreground(Secondary)

	TreeFile = lipgloss.NewStyle().
		Foreground(TextPrimary)

	TreeCurrent = lipgloss.NewStyle().
		Foreground(Accent)

	StatusAdded = lipgloss.NewStyle().
		Foreground(Success).
		Bold(true)

	StatusModified = lipgloss.NewStyle().
		Foreground(Warning).
		Bold(true)

	StatusRemoved = lipgloss.NewStyle().
		Foreground(Error).
		Bold(true)

	Toggler = lipgloss.NewStyle().
		Foreground(TextPrimary).
		Background(Primary)

	TogglerLoading = lipgloss.NewStyle().
		Foreground(BgPrimary).
		Background(Accent)

	LocationBar = lipgloss.NewStyle().
		Foreground(TextPrimary).
		Background(BgSecondary).
		Padding(0, 1)

	ErrorTitle = lipgloss.NewStyle().
		Foreground(Error).
		Bold(true)

	ModalBox = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(Primary).
		Padding(1, 2)

	ToastSuccess = lipgloss.NewStyle().
		Background(Success).
		Foreground(ToastSuccessTextColor).
		Bold(true).
		Padding(0, 1)

	ToastError = lipgloss.NewStyle().
		Background(Error).
		Foreground(ToastErrorTextColor).
		Bold(true).
		Padding(0, 1)
}
