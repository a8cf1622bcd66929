package tui

import (
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
)

// Theme is the visual token set used by the dashboard. All styles in the
// package are rebuilt from these tokens when a theme is applied.
type Theme struct {
	Name string
	Icon string

	Base     lipgloss.Color
	Mantle   lipgloss.Color
	Surface0 lipgloss.Color
	Surface1 lipgloss.Color

	Text    lipgloss.Color
	Subtext lipgloss.Color
	Dim     lipgloss.Color

	Accent   lipgloss.Color
	Blue     lipgloss.Color
	Green    lipgloss.Color
	Yellow   lipgloss.Color
	Red      lipgloss.Color
	Peach    lipgloss.Color
	Teal     lipgloss.Color
	Lavender lipgloss.Color
	Sky      lipgloss.Color
}

var (
	themeMu        sync.RWMutex
	themes         []Theme
	activeThemeIdx int
)

func init() {
	themes = builtinThemes()
	activeThemeIdx = defaultThemeIndex(themes)
	applyTheme(themes[activeThemeIdx])
}

func builtinThemes() []Theme {
	return []Theme{
		{
			Name: "Catppuccin Mocha", Icon: "🐱",
			Base: "#1E1E2E", Mantle: "#181825",
			Surface0: "#313244", Surface1: "#45475A",
			Text: "#CDD6F4", Subtext: "#A6ADC8", Dim: "#585B70",
			Accent: "#CBA6F7", Blue: "#89B4FA", Green: "#A6E3A1",
			Yellow: "#F9E2AF", Red: "#F38BA8", Peach: "#FAB387",
			Teal: "#94E2D5", Lavender: "#B4BEFE", Sky: "#89DCEB",
		},
		{
			Name: "Gruvbox", Icon: "🌻",
			Base: "#282828", Mantle: "#1D2021",
			Surface0: "#3C3836", Surface1: "#504945",
			Text: "#EBDBB2", Subtext: "#D5C4A1", Dim: "#665C54",
			Accent: "#D3869B", Blue: "#83A598", Green: "#B8BB26",
			Yellow: "#FABD2F", Red: "#FB4934", Peach: "#FE8019",
			Teal: "#8EC07C", Lavender: "#D3869B", Sky: "#83A598",
		},
		{
			Name: "Dracula", Icon: "🧛",
			Base: "#282A36", Mantle: "#21222C",
			Surface0: "#44475A", Surface1: "#6272A4",
			Text: "#F8F8F2", Subtext: "#BFBFBF", Dim: "#6272A4",
			Accent: "#BD93F9", Blue: "#8BE9FD", Green: "#50FA7B",
			Yellow: "#F1FA8C", Red: "#FF5555", Peach: "#FFB86C",
			Teal: "#8BE9FD", Lavender: "#BD93F9", Sky: "#8BE9FD",
		},
		{
			Name: "Nord", Icon: "❄",
			Base: "#2E3440", Mantle: "#242933",
			Surface0: "#3B4252", Surface1: "#434C5E",
			Text: "#ECEFF4", Subtext: "#D8DEE9", Dim: "#4C566A",
			Accent: "#B48EAD", Blue: "#81A1C1", Green: "#A3BE8C",
			Yellow: "#EBCB8B", Red: "#BF616A", Peach: "#D08770",
			Teal: "#8FBCBB", Lavender: "#B48EAD", Sky: "#88C0D0",
		},
		{
			Name: "Tokyo Night", Icon: "🌃",
			Base: "#1A1B26", Mantle: "#16161E",
			Surface0: "#24283B", Surface1: "#414868",
			Text: "#C0CAF5", Subtext: "#A9B1D6", Dim: "#565F89",
			Accent: "#BB9AF7", Blue: "#7AA2F7", Green: "#9ECE6A",
			Yellow: "#E0AF68", Red: "#F7768E", Peach: "#FF9E64",
			Teal: "#73DACA", Lavender: "#BB9AF7", Sky: "#7DCFFF",
		},
		{
			Name: "Everforest", Icon: "🌲",
			Base: "#2D353B", Mantle: "#232A2E",
			Surface0: "#343F44", Surface1: "#3D484D",
			Text: "#D3C6AA", Subtext: "#A7C080", Dim: "#859289",
			Accent: "#D699B6", Blue: "#7FBBB3", Green: "#A7C080",
			Yellow: "#DBBC7F", Red: "#E67E80", Peach: "#E69875",
			Teal: "#83C092", Lavender: "#D699B6", Sky: "#7FBBB3",
		},
	}
}

func defaultThemeIndex(all []Theme) int {
	for i, t := range all {
		if strings.EqualFold(strings.TrimSpace(t.Name), "Catppuccin Mocha") {
			return i
		}
	}
	return 0
}

// applyTheme pushes a theme's tokens into the package-level color variables
// and rebuilds every derived style. Callers hold themeMu.
func applyTheme(t Theme) {
	colorBase = t.Base
	colorMantle = t.Mantle
	colorSurface0 = t.Surface0
	colorSurface1 = t.Surface1
	colorText = t.Text
	colorSubtext = t.Subtext
	colorDim = t.Dim
	colorAccent = t.Accent
	colorBlue = t.Blue
	colorGreen = t.Green
	colorYellow = t.Yellow
	colorRed = t.Red
	colorPeach = t.Peach
	colorTeal = t.Teal
	colorLavender = t.Lavender
	colorSky = t.Sky

	rebuildStyles()
}

func setActiveThemeByNameLocked(name string) bool {
	name = strings.TrimSpace(name)
	if name == "" || len(themes) == 0 {
		return false
	}
	needle := strings.ToLower(name)
	for i, t := range themes {
		if strings.ToLower(t.Name) == needle {
			activeThemeIdx = i
			applyTheme(t)
			return true
		}
	}
	return false
}

func AvailableThemes() []Theme {
	themeMu.RLock()
	defer themeMu.RUnlock()

	out := make([]Theme, len(themes))
	copy(out, themes)
	return out
}

func ActiveTheme() Theme {
	themeMu.RLock()
	defer themeMu.RUnlock()
	if activeThemeIdx < 0 || activeThemeIdx >= len(themes) {
		return themes[0]
	}
	return themes[activeThemeIdx]
}

func CycleTheme() string {
	themeMu.Lock()
	defer themeMu.Unlock()

	activeThemeIdx = (activeThemeIdx + 1) % len(themes)
	applyTheme(themes[activeThemeIdx])
	return themes[activeThemeIdx].Name
}

func ThemeName() string {
	t := ActiveTheme()
	if strings.TrimSpace(t.Icon) == "" {
		return t.Name
	}
	return t.Icon + " " + t.Name
}

func SetThemeByName(name string) bool {
	themeMu.Lock()
	defer themeMu.Unlock()
	return setActiveThemeByNameLocked(name)
}
