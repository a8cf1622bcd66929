package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/lenedash/lenedash/internal/core"
)

// renderHelpOverlay draws a centered popup with keybindings and status
// badge meanings. Dismissed by pressing any key.
func (m Model) renderHelpOverlay(screenW, screenH int) string {
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(colorLavender)
	headingStyle := lipgloss.NewStyle().Bold(true).Foreground(colorBlue)
	keyStyle := lipgloss.NewStyle().Bold(true).Foreground(colorSky)
	descStyle := lipgloss.NewStyle().Foreground(colorText)

	var lines []string

	lines = append(lines, titleStyle.Render("  Lenedash Help"))
	lines = append(lines, "")

	lines = append(lines, headingStyle.Render("  Keys"))
	lines = append(lines, "")
	keys := []struct{ key, desc string }{
		{"r", "Refresh all figures now"},
		{"p", "Cycle the chart period (yesterday / 7 days / 30 days / 12 months)"},
		{"i", "Toggle the invoice panel"},
		{"t", "Cycle the color theme"},
		{"?", "Toggle this help"},
		{"q", "Quit"},
	}
	for _, k := range keys {
		lines = append(lines, "    "+keyStyle.Render(padRight(k.key, 6))+descStyle.Render(k.desc))
	}
	lines = append(lines, "")

	lines = append(lines, headingStyle.Render("  Status Badges"))
	lines = append(lines, "")
	lines = append(lines, "    "+ConnectionPill(core.ConnectionConnected)+" "+descStyle.Render("backend reachable"))
	lines = append(lines, "    "+ConnectionPill(core.ConnectionError)+" "+descStyle.Render("backend unreachable, figures may be stale"))
	lines = append(lines, "    "+DataPill(core.DataWarning)+" "+descStyle.Render("last refresh skipped or incomplete"))
	lines = append(lines, "    "+CredentialPill(core.Config{}, true)+" "+descStyle.Render("metering API credentials missing on the backend"))
	lines = append(lines, "")

	lines = append(lines, headingStyle.Render("  Figures"))
	lines = append(lines, "")
	lines = append(lines, "    "+descStyle.Render("All ranges end yesterday; the current day is never complete upstream."))
	lines = append(lines, "    "+descStyle.Render("Est. Cost/mo is a client-side estimate; the invoice panel is authoritative."))
	lines = append(lines, "")
	lines = append(lines, dimStyle.Render("  press any key to close"))

	content := strings.Join(lines, "\n")
	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(colorAccent).
		Padding(1, 2).
		Render(content)

	return lipgloss.Place(screenW, screenH, lipgloss.Center, lipgloss.Center, box)
}

func padRight(s string, w int) string {
	if len(s) >= w {
		return s
	}
	return s + strings.Repeat(" ", w-len(s))
}
