package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// Panel is one bordered box in the dashboard grid.
type Panel struct {
	Title   string
	Icon    string
	Content string
	Span    int // grid columns occupied, defaults to 1
	Color   lipgloss.Color
}

// RenderPanelRow lays panels out side by side, splitting totalW by span.
func RenderPanelRow(panels []Panel, totalW, h int) string {
	if len(panels) == 0 {
		return ""
	}

	totalSpan := 0
	for _, p := range panels {
		totalSpan += max(p.Span, 1)
	}

	gap := 1
	availW := totalW - gap*(len(panels)-1)
	if availW < len(panels)*8 {
		availW = len(panels) * 8
	}

	parts := make([]string, 0, len(panels)*2-1)
	for i, p := range panels {
		if i > 0 {
			parts = append(parts, " ")
		}
		pw := availW * max(p.Span, 1) / totalSpan
		parts = append(parts, renderPanel(p, pw, h))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

// renderPanel draws a titled box. The title sits in the top border so the
// body keeps its full height.
func renderPanel(p Panel, w, h int) string {
	if w < 8 {
		w = 8
	}
	if h < 3 {
		h = 3
	}
	innerW := w - 4

	title := p.Title
	if p.Icon != "" {
		title = p.Icon + " " + title
	}

	borderColor := p.Color
	if borderColor == "" {
		borderColor = colorSurface1
	}
	border := lipgloss.NewStyle().Foreground(borderColor)
	titleRendered := lipgloss.NewStyle().Bold(true).Foreground(borderColor).Render(title)

	topLeft := border.Render("┌─ ")
	remaining := w - lipgloss.Width(topLeft) - lipgloss.Width(titleRendered) - 2
	if remaining < 1 {
		remaining = 1
	}
	top := topLeft + titleRendered + border.Render(" "+strings.Repeat("─", remaining)+"┐")

	lines := strings.Split(p.Content, "\n")
	bodyH := h - 2
	if bodyH < 1 {
		bodyH = 1
	}
	for len(lines) < bodyH {
		lines = append(lines, "")
	}
	if len(lines) > bodyH {
		lines = lines[:bodyH]
	}

	body := make([]string, 0, len(lines))
	for _, line := range lines {
		if lipgloss.Width(line) > innerW {
			runes := []rune(line)
			if len(runes) > innerW {
				line = string(runes[:innerW-1]) + "…"
			}
		}
		pad := innerW - lipgloss.Width(line)
		if pad < 0 {
			pad = 0
		}
		body = append(body, border.Render("│")+" "+line+strings.Repeat(" ", pad)+" "+border.Render("│"))
	}

	bottom := border.Render("└" + strings.Repeat("─", w-2) + "┘")
	return top + "\n" + strings.Join(body, "\n") + "\n" + bottom
}

func panelContent(lines ...string) string {
	return strings.Join(lines, "\n")
}

// spinnerFrames animates the header while a refresh cycle runs.
var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// PulseChar alternates between two glyphs on a slow frame cadence.
func PulseChar(a, b string, frame int) string {
	if (frame/4)%2 == 0 {
		return a
	}
	return b
}

// fitAnsiWidth truncates or pads a styled line to an exact cell width
// without breaking escape sequences.
func fitAnsiWidth(s string, width int) string {
	if width <= 0 {
		return ""
	}
	out := ansi.Cut(s, 0, width)
	if pad := width - lipgloss.Width(out); pad > 0 {
		out += strings.Repeat(" ", pad)
	}
	return out
}
