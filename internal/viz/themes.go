package viz

import "github.com/charmbracelet/lipgloss"

// Theme colors the side panel. The canvas always uses the scene palette.
type Theme struct {
	Name   string
	Accent lipgloss.Color
	Text   lipgloss.Color
	Muted  lipgloss.Color
	Border lipgloss.Color
	Warn   lipgloss.Color
}

var (
	ThemeNight = Theme{
		Name:   "night",
		Accent: lipgloss.Color("#4cc9f0"),
		Text:   lipgloss.Color("#e0f0ff"),
		Muted:  lipgloss.Color("#5a6a8a"),
		Border: lipgloss.Color("#2a3350"),
		Warn:   lipgloss.Color("#f72585"),
	}

	ThemeViolet = Theme{
		Name:   "violet",
		Accent: lipgloss.Color("#b15cff"),
		Text:   lipgloss.Color("#f5ecff"),
		Muted:  lipgloss.Color("#7a5a9a"),
		Border: lipgloss.Color("#3a2450"),
		Warn:   lipgloss.Color("#ffb347"),
	}

	ThemeMono = Theme{
		Name:   "mono",
		Accent: lipgloss.Color("#ffffff"),
		Text:   lipgloss.Color("#cccccc"),
		Muted:  lipgloss.Color("#777777"),
		Border: lipgloss.Color("#444444"),
		Warn:   lipgloss.Color("#ffffff"),
	}

	Themes = []Theme{ThemeNight, ThemeViolet, ThemeMono}
)

// GetTheme returns the theme called name. Unknown names give ThemeNight
// and false.
func GetTheme(name string) (Theme, bool) {
	for _, t := range Themes {
		if t.Name == name {
			return t, true
		}
	}
	return ThemeNight, false
}

// NextTheme returns the theme after t in Themes, wrapping around.
func NextTheme(t Theme) Theme {
	for i, th := range Themes {
		if th.Name == t.Name {
			return Themes[(i+1)%len(Themes)]
		}
	}
	return Themes[0]
}

func ThemeNames() []string {
	names := make([]string, len(Themes))
	for i, t := range Themes {
		names[i] = t.Name
	}
	return names
}
