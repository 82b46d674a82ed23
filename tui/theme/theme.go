package theme

import (
	"os"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"github.com/grovetools/companion/config"
)

const defaultThemeName = "kanagawa"

// Colors encapsulates the palette used by a theme. lipgloss.TerminalColor
// allows a mix of adaptive and static colors.
type Colors struct {
	Green              lipgloss.TerminalColor
	Yellow             lipgloss.TerminalColor
	Red                lipgloss.TerminalColor
	Orange             lipgloss.TerminalColor
	Cyan               lipgloss.TerminalColor
	Violet             lipgloss.TerminalColor
	LightText          lipgloss.TerminalColor
	MutedText          lipgloss.TerminalColor
	Border             lipgloss.TerminalColor
	SelectedBackground lipgloss.TerminalColor
	SubtleBackground   lipgloss.TerminalColor
}

// Theme holds the pre-configured styles used by companion's output.
type Theme struct {
	Name   string
	Colors Colors

	Header lipgloss.Style
	Title  lipgloss.Style

	// Status indicators
	Success lipgloss.Style
	Error   lipgloss.Style
	Warning lipgloss.Style
	Info    lipgloss.Style

	Bold     lipgloss.Style
	Normal   lipgloss.Style
	Muted    lipgloss.Style
	Selected lipgloss.Style

	TableHeader        lipgloss.Style
	TableBorder        lipgloss.Style
	UseAlternatingRows bool

	Code   lipgloss.Style
	Path   lipgloss.Style
	Accent lipgloss.Style
	// Pinned marks pinned projects and scripts.
	Pinned lipgloss.Style
}

// TUIConfig is the `tui` section of companion.yml.
type TUIConfig struct {
	Theme string `yaml:"theme"`
	Icons string `yaml:"icons"`
}

var palettes = map[string]func() Colors{
	"kanagawa": kanagawaColors,
	"gruvbox":  gruvboxColors,
	"terminal": terminalColors,
}

var themeAliases = map[string]string{
	"kanagawa-dark":   "kanagawa",
	"kanagawa-dragon": "kanagawa",
	"gruvbox-dark":    "gruvbox",
	"gruvbox-light":   "gruvbox",
	"ansi":            "terminal",
}

// DefaultTheme is the theme selected by COMPANION_THEME or tui.theme.
var DefaultTheme = NewTheme()

var (
	tuiCfg     TUIConfig
	tuiCfgOnce sync.Once
)

// loadTUIConfig reads the tui section once per process.
func loadTUIConfig() TUIConfig {
	tuiCfgOnce.Do(func() {
		cfg, err := config.LoadDefault()
		if err != nil || cfg == nil {
			return
		}
		_ = cfg.UnmarshalExtension("tui", &tuiCfg)
	})
	return tuiCfg
}

// NewTheme creates a theme based on the configured theme selection.
func NewTheme() *Theme {
	return NewThemeWithName(themeName())
}

// NewThemeWithName constructs a theme from a specific palette name.
// Unknown names fall back to the default palette.
func NewThemeWithName(name string) *Theme {
	key := normalizeThemeName(name)
	if alias, ok := themeAliases[key]; ok {
		key = alias
	}
	palette, ok := palettes[key]
	if !ok {
		key = defaultThemeName
		palette = palettes[key]
	}
	return newThemeFromColors(key, palette())
}

// RenderHeader renders a header with the default styling.
func RenderHeader(title string) string {
	return DefaultTheme.Header.Render(title)
}

// RenderStatus renders text with the appropriate status style.
func RenderStatus(status, text string) string {
	switch status {
	case "success":
		return DefaultTheme.Success.Render(text)
	case "error":
		return DefaultTheme.Error.Render(text)
	case "warning":
		return DefaultTheme.Warning.Render(text)
	case "info":
		return DefaultTheme.Info.Render(text)
	default:
		return text
	}
}

func newThemeFromColors(name string, colors Colors) *Theme {
	return &Theme{
		Name:   name,
		Colors: colors,

		Header: lipgloss.NewStyle().Bold(true).MarginBottom(1),
		Title:  lipgloss.NewStyle().Bold(true).Underline(true),

		Success: lipgloss.NewStyle().Foreground(colors.Green).Bold(true),
		Error:   lipgloss.NewStyle().Foreground(colors.Red).Bold(true),
		Warning: lipgloss.NewStyle().Foreground(colors.Yellow).Bold(true),
		Info:    lipgloss.NewStyle().Foreground(colors.Cyan),

		Bold:   lipgloss.NewStyle().Bold(true),
		Normal: lipgloss.NewStyle(),
		Muted:  lipgloss.NewStyle().Foreground(colors.MutedText),
		Selected: lipgloss.NewStyle().
			Background(colors.SelectedBackground).
			Foreground(colors.LightText),

		TableHeader: lipgloss.NewStyle().
			Bold(true).
			Foreground(colors.Cyan).
			Padding(0, 1),
		TableBorder: lipgloss.NewStyle().
			Foreground(colors.Border),
		// ANSI palettes cannot promise a readable stripe.
		UseAlternatingRows: name != "terminal",

		Code: lipgloss.NewStyle().
			Background(colors.SubtleBackground).
			Foreground(colors.LightText).
			Padding(0, 1),
		Path:   lipgloss.NewStyle().Foreground(colors.Cyan).Italic(true),
		Accent: lipgloss.NewStyle().Foreground(colors.Violet).Bold(true),
		Pinned: lipgloss.NewStyle().Foreground(colors.Orange).Bold(true),
	}
}

func normalizeThemeName(name string) string {
	normalized := strings.ToLower(strings.TrimSpace(name))
	normalized = strings.ReplaceAll(normalized, " ", "-")
	return strings.ReplaceAll(normalized, "_", "-")
}

func themeName() string {
	if name := normalizeThemeName(os.Getenv("COMPANION_THEME")); name != "" {
		return name
	}
	if name := normalizeThemeName(loadTUIConfig().Theme); name != "" {
		return name
	}
	return defaultThemeName
}

func adaptive(light, dark string) lipgloss.AdaptiveColor {
	return lipgloss.AdaptiveColor{Light: light, Dark: dark}
}

func kanagawaColors() Colors {
	return Colors{
		Green:              adaptive("#4E7C5A", "#98BB6C"),
		Yellow:             adaptive("#A68A64", "#FF9E3B"),
		Red:                adaptive("#C34043", "#FF5D62"),
		Orange:             adaptive("#CC6B4E", "#FFA066"),
		Cyan:               adaptive("#5B8BBE", "#7E9CD8"),
		Violet:             adaptive("#674D7A", "#957FB8"),
		LightText:          adaptive("#2B2F42", "#DCD7BA"),
		MutedText:          adaptive("#6C7086", "#727169"),
		Border:             adaptive("#B5BDC5", "#363646"),
		SelectedBackground: adaptive("#E2E6F3", "#223249"),
		SubtleBackground:   adaptive("#F7F7FB", "#1F1F28"),
	}
}

func gruvboxColors() Colors {
	return Colors{
		Green:              adaptive("#98971A", "#B8BB26"),
		Yellow:             adaptive("#D79921", "#FABD2F"),
		Red:                adaptive("#CC241D", "#FB4934"),
		Orange:             adaptive("#D65D0E", "#FE8019"),
		Cyan:               adaptive("#458588", "#83A598"),
		Violet:             adaptive("#8F3F71", "#B16286"),
		LightText:          adaptive("#3C3836", "#EBDBB2"),
		MutedText:          adaptive("#928374", "#BDAE93"),
		Border:             adaptive("#D5C4A1", "#504945"),
		SelectedBackground: adaptive("#F2E5BC", "#32302F"),
		SubtleBackground:   adaptive("#FBF1C7", "#282828"),
	}
}

func terminalColors() Colors {
	return Colors{
		Green:              lipgloss.Color("2"),
		Yellow:             lipgloss.Color("3"),
		Red:                lipgloss.Color("1"),
		Orange:             lipgloss.Color("208"),
		Cyan:               lipgloss.Color("6"),
		Violet:             lipgloss.Color("5"),
		LightText:          lipgloss.Color("7"),
		MutedText:          lipgloss.Color("8"),
		Border:             lipgloss.Color("8"),
		SelectedBackground: lipgloss.Color("8"),
		SubtleBackground:   lipgloss.Color("0"),
	}
}
