package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/lenedash/lenedash/internal/core"
)

// Color tokens, populated by applyTheme.
var (
	colorBase     lipgloss.Color
	colorMantle   lipgloss.Color
	colorSurface0 lipgloss.Color
	colorSurface1 lipgloss.Color
	colorText     lipgloss.Color
	colorSubtext  lipgloss.Color
	colorDim      lipgloss.Color
	colorAccent   lipgloss.Color
	colorBlue     lipgloss.Color
	colorGreen    lipgloss.Color
	colorYellow   lipgloss.Color
	colorRed      lipgloss.Color
	colorPeach    lipgloss.Color
	colorTeal     lipgloss.Color
	colorLavender lipgloss.Color
	colorSky      lipgloss.Color
)

// Derived styles, rebuilt on every theme change.
var (
	headerBrandStyle lipgloss.Style
	helpStyle        lipgloss.Style
	helpKeyStyle     lipgloss.Style
	labelStyle       lipgloss.Style
	valueStyle       lipgloss.Style
	dimStyle         lipgloss.Style

	tileValueStyle lipgloss.Style
	tileLabelStyle lipgloss.Style

	pillOKStyle   lipgloss.Style
	pillWarnStyle lipgloss.Style
	pillErrStyle  lipgloss.Style
	pillDimStyle  lipgloss.Style

	chartTitleStyle lipgloss.Style
	bannerErrStyle  lipgloss.Style
	bannerInfoStyle lipgloss.Style
)

func rebuildStyles() {
	headerBrandStyle = lipgloss.NewStyle().Bold(true).Foreground(colorAccent)
	helpStyle = lipgloss.NewStyle().Foreground(colorDim)
	helpKeyStyle = lipgloss.NewStyle().Foreground(colorSky).Bold(true)
	labelStyle = lipgloss.NewStyle().Foreground(colorSubtext)
	valueStyle = lipgloss.NewStyle().Foreground(colorText)
	dimStyle = lipgloss.NewStyle().Foreground(colorDim)

	tileValueStyle = lipgloss.NewStyle().Bold(true).Foreground(colorText)
	tileLabelStyle = lipgloss.NewStyle().Foreground(colorSubtext)

	pillOKStyle = lipgloss.NewStyle().Foreground(colorMantle).Background(colorGreen).Bold(true).Padding(0, 1)
	pillWarnStyle = lipgloss.NewStyle().Foreground(colorMantle).Background(colorYellow).Bold(true).Padding(0, 1)
	pillErrStyle = lipgloss.NewStyle().Foreground(colorMantle).Background(colorRed).Bold(true).Padding(0, 1)
	pillDimStyle = lipgloss.NewStyle().Foreground(colorText).Background(colorSurface1).Padding(0, 1)

	chartTitleStyle = lipgloss.NewStyle().Bold(true).Foreground(colorBlue)
	bannerErrStyle = lipgloss.NewStyle().Foreground(colorMantle).Background(colorRed).Bold(true).Padding(0, 1)
	bannerInfoStyle = lipgloss.NewStyle().Foreground(colorMantle).Background(colorTeal).Padding(0, 1)
}

// ConnectionPill renders a status badge for backend reachability.
func ConnectionPill(s core.ConnectionStatus) string {
	switch s {
	case core.ConnectionConnected:
		return pillOKStyle.Render("CONNECTED")
	case core.ConnectionError:
		return pillErrStyle.Render("OFFLINE")
	default:
		return pillDimStyle.Render("…")
	}
}

// DataPill renders a status badge for the last refresh outcome.
func DataPill(s core.DataStatus) string {
	switch s {
	case core.DataOK:
		return pillOKStyle.Render("DATA OK")
	case core.DataWarning:
		return pillWarnStyle.Render("DATA WARN")
	case core.DataError:
		return pillErrStyle.Render("DATA ERR")
	default:
		return pillDimStyle.Render("NO DATA")
	}
}

// CredentialPill renders a badge reflecting whether the backend holds the
// metering API credentials.
func CredentialPill(cfg core.Config, loaded bool) string {
	switch {
	case !loaded:
		return pillDimStyle.Render("…")
	case cfg.Configured():
		return pillOKStyle.Render("CREDS")
	default:
		return pillWarnStyle.Render("NO CREDS")
	}
}

// HeadlineColor picks an accent color per overview figure.
func HeadlineColor(key core.HeadlineKey) lipgloss.Color {
	switch key {
	case core.HeadlineYesterday:
		return colorBlue
	case core.HeadlineWeek:
		return colorTeal
	case core.HeadlineMonth:
		return colorLavender
	case core.HeadlineProduction:
		return colorGreen
	case core.HeadlineEstimatedCost:
		return colorPeach
	default:
		return colorSubtext
	}
}
