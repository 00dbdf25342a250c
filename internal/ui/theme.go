package ui

import (
	"github.com/charmbracelet/lipgloss"
)

// Theme defines colors for the viewer.
type Theme struct {
	Name string

	// Base colors
	Background string // Outermost background
	Surface    string // Status and search bars

	// Text colors
	Text   string
	Muted  string
	Faint  string
	Accent string
	Danger string

	// Viewer colors
	Gutter          string // Line number column
	SearchHighlight string // Background behind search matches
}

// Styles returns Lipgloss styles for this theme.
func (t Theme) Styles() Styles {
	return Styles{
		Text: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Text)),

		MutedText: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Muted)),

		AccentText: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Accent)),

		DangerText: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Danger)).
			Bold(true),

		Gutter: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Gutter)),

		StatusBar: lipgloss.NewStyle().
			Background(lipgloss.Color(t.Surface)).
			Foreground(lipgloss.Color(t.Muted)).
			Padding(0, 1),

		SearchBar: lipgloss.NewStyle().
			Background(lipgloss.Color(t.Surface)).
			Foreground(lipgloss.Color(t.Text)).
			Padding(0, 1),

		Highlight: lipgloss.NewStyle().
			Background(lipgloss.Color(t.SearchHighlight)).
			Foreground(lipgloss.Color(t.Background)),
	}
}

// Styles contains pre-built Lipgloss styles for the theme.
type Styles struct {
	Text       lipgloss.Style
	MutedText  lipgloss.Style
	AccentText lipgloss.Style
	DangerText lipgloss.Style

	Gutter    lipgloss.Style
	StatusBar lipgloss.Style
	SearchBar lipgloss.Style
	Highlight lipgloss.Style
}

// MarkStyle returns a background style for a manual mark color. The color
// is any hex value or a name resolvable by MarkColor.
func (s Styles) MarkStyle(color string) lipgloss.Style {
	return lipgloss.NewStyle().Background(lipgloss.Color(MarkColor(color)))
}

// markColorNames maps the color names accepted by the mark command to hex
// values. Unknown names pass through MarkColor unchanged, so raw hex colors
// work too.
var markColorNames = map[string]string{
	"red":         "#e06c75",
	"green":       "#98c379",
	"blue":        "#61afef",
	"yellow":      "#e5c07b",
	"orange":      "#d19a66",
	"purple":      "#c678dd",
	"pink":        "#ff79c6",
	"cyan":        "#56b6c2",
	"gray":        "#5c6370",
	"grey":        "#5c6370",
	"white":       "#abb2bf",
	"light blue":  "#8be9fd",
	"light green": "#50fa7b",
	"dark red":    "#8b2c33",
}

// MarkColor resolves a mark color name to a hex value, passing unknown
// strings through unchanged.
func MarkColor(name string) string {
	if hex, ok := markColorNames[name]; ok {
		return hex
	}
	return name
}

// Theme definitions

var themes = map[string]Theme{
	"Dracula":  draculaTheme(),
	"Nightfox": nightfoxTheme(),
	"Slate":    slateTheme(),
}

var themeOrder = []string{"Dracula", "Nightfox", "Slate"}

// GetTheme returns a theme by name.
func GetTheme(name string) Theme {
	if t, ok := themes[name]; ok {
		return t
	}
	return draculaTheme()
}

// NextTheme returns the next theme name in the cycle.
func NextTheme(current string) string {
	for i, name := range themeOrder {
		if name == current {
			return themeOrder[(i+1)%len(themeOrder)]
		}
	}
	return themeOrder[0]
}

// ThemeNames returns available theme names.
func ThemeNames() []string {
	return themeOrder
}

func draculaTheme() Theme {
	// Dracula palette: https://draculatheme.com/contribute
	return Theme{
		Name: "Dracula",

		Background: "#282a36",
		Surface:    "#44475a",

		Text:   "#f8f8f2",
		Muted:  "#6272a4",
		Faint:  "#44475a",
		Accent: "#bd93f9",
		Danger: "#ff5555",

		Gutter:          "#6272a4",
		SearchHighlight: "#ffb86c",
	}
}

func nightfoxTheme() Theme {
	// Nightfox palette: https://github.com/EdenEast/nightfox.nvim
	return Theme{
		Name: "Nightfox",

		Background: "#131a24", // bg0
		Surface:    "#212e3f", // bg2

		Text:   "#cdcecf", // fg1
		Muted:  "#738091", // comment
		Faint:  "#71839b", // fg3
		Accent: "#719cd6", // blue
		Danger: "#c94f6d", // red

		Gutter:          "#738091", // comment
		SearchHighlight: "#dbc074", // yellow
	}
}

func slateTheme() Theme {
	// Tailwind CSS Slate/Sky palette: https://tailwindcss.com/docs/colors
	return Theme{
		Name: "Slate",

		Background: "#020617", // slate-950
		Surface:    "#1e293b", // slate-800

		Text:   "#f1f5f9", // slate-100
		Muted:  "#94a3b8", // slate-400
		Faint:  "#64748b", // slate-500
		Accent: "#38bdf8", // sky-400
		Danger: "#ef4444", // red-500

		Gutter:          "#64748b", // slate-500
		SearchHighlight: "#f59e0b", // amber-500
	}
}
