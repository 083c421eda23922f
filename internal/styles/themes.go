package styles

import (
	"regexp"
	"sort"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"github.com/goccy/go-json"
)

// themeMu protects access to themeRegistry and currentTheme for thread safety
var themeMu sync.RWMutex

// hexColorRegex validates hex color codes (#RRGGBB or #RRGGBBAA with alpha)
var hexColorRegex = regexp.MustCompile(`^#[0-9A-Fa-f]{6}([0-9A-Fa-f]{2})?$`)

// ColorPalette holds all theme colors
type ColorPalette struct {
	Primary   string `json:"primary"`
	Secondary string `json:"secondary"`
	Accent    string `json:"accent"`

	Success string `json:"success"`
	Warning string `json:"warning"`
	Error   string `json:"error"`
	Info    string `json:"info"`

	TextPrimary   string `json:"textPrimary"`
	TextSecondary string `json:"textSecondary"`
	TextMuted     string `json:"textMuted"`
	TextSubtle    string `json:"textSubtle"`

	BgPrimary   string `json:"bgPrimary"`
	BgSecondary string `json:"bgSecondary"`
	BgTertiary  string `json:"bgTertiary"`

	BorderNormal string `json:"borderNormal"`
	BorderActive string `json:"borderActive"`

	Link             string `json:"link"`
	ToastSuccessText string `json:"toastSuccessText"`
	ToastErrorText   string `json:"toastErrorText"`

	// Chroma style and glamour style names
	SyntaxTheme   string `json:"syntaxTheme"`
	MarkdownTheme string `json:"markdownTheme"`
}

// Theme is a named palette.
type Theme struct {
	Name        string
	DisplayName string
	Colors      ColorPalette
}

// DefaultTheme is the built-in dark theme.
var DefaultTheme = Theme{
	Name:        "default",
	DisplayName: "Default Dark",
	Colors: ColorPalette{
		Primary:          "#7C3AED",
		Secondary:        "#3B82F6",
		Accent:           "#F59E0B",
		Success:          "#10B981",
		Warning:          "#F59E0B",
		Error:            "#EF4444",
		Info:             "#3B82F6",
		TextPrimary:      "#F9FAFB",
		TextSecondary:    "#9CA3AF",
		TextMuted:        "#6B7280",
		TextSubtle:       "#4B5563",
		BgPrimary:        "#111827",
		BgSecondary:      "#1F2937",
		BgTertiary:       "#374151",
		BorderNormal:     "#374151",
		BorderActive:     "#7C3AED",
		Link:             "#60A5FA",
		ToastSuccessText: "#000000",
		ToastErrorText:   "#FFFFFF",
		SyntaxTheme:      "monokai",
		MarkdownTheme:    "dark",
	},
}

// LightTheme suits light terminal backgrounds.
var LightTheme = Theme{
	Name:        "light",
	DisplayName: "Light",
	Colors: ColorPalette{
		Primary:          "#6D28D9",
		Secondary:        "#1D4ED8",
		Accent:           "#B45309",
		Success:          "#047857",
		Warning:          "#B45309",
		Error:            "#B91C1C",
		Info:             "#1D4ED8",
		TextPrimary:      "#111827",
		TextSecondary:    "#374151",
		TextMuted:        "#6B7280",
		TextSubtle:       "#9CA3AF",
		BgPrimary:        "#FFFFFF",
		BgSecondary:      "#F3F4F6",
		BgTertiary:       "#E5E7EB",
		BorderNormal:     "#D1D5DB",
		BorderActive:     "#6D28D9",
		Link:             "#1D4ED8",
		ToastSuccessText: "#FFFFFF",
		ToastErrorText:   "#FFFFFF",
		SyntaxTheme:      "github",
		MarkdownTheme:    "light",
	},
}

var (
	themeRegistry = map[string]Theme{
		DefaultTheme.Name: DefaultTheme,
		LightTheme.Name:   LightTheme,
	}
	currentTheme = DefaultTheme.Name
)

// IsValidHexColor reports whether hex is #RRGGBB or #RRGGBBAA.
func IsValidHexColor(hex string) bool {
	return hexColorRegex.MatchString(hex)
}

// IsValidTheme reports whether name is registered.
func IsValidTheme(name string) bool {
	themeMu.RLock()
	defer themeMu.RUnlock()
	_, ok := themeRegistry[name]
	return ok
}

// GetTheme returns the named theme, or the default theme.
func GetTheme(name string) Theme {
	themeMu.RLock()
	defer themeMu.RUnlock()
	if t, ok := themeRegistry[name]; ok {
		return t
	}
	return DefaultTheme
}

// GetCurrentThemeName returns the applied theme name.
func GetCurrentThemeName() string {
	themeMu.RLock()
	defer themeMu.RUnlock()
	return currentTheme
}

// ListThemes returns registered theme names sorted.
func ListThemes() []string {
	themeMu.RLock()
	defer themeMu.RUnlock()
	names := make([]string, 0, len(themeRegistry))
	for name := range themeRegistry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ApplyTheme applies the named theme with color overrides keyed by the
// palette's JSON names. Unknown keys and invalid colors are ignored.
func ApplyTheme(name string, overrides map[string]string) {
	theme := GetTheme(name)
	theme.Colors = overridePalette(theme.Colors, overrides)

	themeMu.Lock()
	currentTheme = theme.Name
	themeMu.Unlock()

	ApplyThemeColors(theme)
}

// nonColorKeys name style presets rather than colors.
var nonColorKeys = map[string]bool{"syntaxTheme": true, "markdownTheme": true}

// overridePalette returns p with overrides applied through its JSON form.
func overridePalette(p ColorPalette, overrides map[string]string) ColorPalette {
	if len(overrides) == 0 {
		return p
	}
	data, err := json.Marshal(p)
	if err != nil {
		return p
	}
	fields := make(map[string]string)
	if err := json.Unmarshal(data, &fields); err != nil {
		return p
	}
	for key, value := range overrides {
		if _, ok := fields[key]; !ok {
			continue
		}
		if !nonColorKeys[key] && !IsValidHexColor(value) {
			continue
		}
		fields[key] = value
	}
	data, err = json.Marshal(fields)
	if err != nil {
		return p
	}
	var out ColorPalette
	if err := json.Unmarshal(data, &out); err != nil {
		return p
	}
	return out
}

// ApplyThemeColors sets the palette variables and rebuilds every style.
func ApplyThemeColors(theme Theme) {
	c := theme.Colors

	Primary = lipgloss.Color(c.Primary)
	Secondary = lipgloss.Color(c.Secondary)
	Accent = lipgloss.Color(c.Accent)

	Success = lipgloss.Color(c.Success)
	Warning = lipgloss.Color(c.Warning)
	Error = lipgloss.Color(c.Error)
	Info = lipgloss.Color(c.Info)

	TextPrimary = lipgloss.Color(c.TextPrimary)
	TextSecondary = lipgloss.Color(c.TextSecondary)
	TextMuted = lipgloss.Color(c.TextMuted)
	TextSubtle = lipgloss.Color(c.TextSubtle)

	BgPrimary = lipgloss.Color(c.BgPrimary)
	BgSecondary = lipgloss.Color(c.BgSecondary)
	BgTertiary = lipgloss.Color(c.BgTertiary)

	BorderNormal = lipgloss.Color(c.BorderNormal)
	BorderActive = lipgloss.Color(c.BorderActive)

	LinkColor = lipgloss.Color(c.Link)
	ToastSuccessTextColor = lipgloss.Color(c.ToastSuccessText)
	ToastErrorTextColor = lipgloss.Color(c.ToastErrorText)

	// Store syntax/markdown theme names for external use
	CurrentSyntaxTheme = c.SyntaxTheme
	CurrentMarkdownTheme = c.MarkdownTheme

	rebuildStyles()
}
