package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/NimbleMarkets/ntcharts/barchart"
	"github.com/NimbleMarkets/ntcharts/linechart/timeserieslinechart"
	"github.com/charmbracelet/lipgloss"

	"github.com/lenedash/lenedash/internal/core"
)

var sparkBlocks = []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

// RenderSparkline draws values as a single-line block graph, downsampling
// when there are more samples than columns.
func RenderSparkline(values []float64, w int, color lipgloss.Color) string {
	if len(values) == 0 || w < 1 {
		return ""
	}

	if len(values) > w {
		step := float64(len(values)) / float64(w)
		sampled := make([]float64, w)
		for i := 0; i < w; i++ {
			idx := int(float64(i) * step)
			if idx >= len(values) {
				idx = len(values) - 1
			}
			sampled[i] = values[idx]
		}
		values = sampled
	}

	minV, maxV := values[0], values[0]
	for _, v := range values {
		if v < minV {
			minV = v
		}
		if v > maxV {
			maxV = v
		}
	}

	rng := maxV - minV
	if rng == 0 {
		rng = 1
	}

	var sb strings.Builder
	for _, v := range values {
		idx := int((v - minV) / rng * float64(len(sparkBlocks)-1))
		if idx < 0 {
			idx = 0
		}
		if idx >= len(sparkBlocks) {
			idx = len(sparkBlocks) - 1
		}
		sb.WriteRune(sparkBlocks[idx])
	}

	return lipgloss.NewStyle().Foreground(color).Render(sb.String())
}

// RenderInlineGauge fills left to right as pct goes 0..100.
func RenderInlineGauge(pct float64, w int) string {
	if w < 4 {
		w = 4
	}
	if pct > 100 {
		pct = 100
	}
	if pct < 0 {
		pct = 0
	}

	filled := int(pct / 100 * float64(w))
	if filled < 1 && pct > 0 {
		filled = 1
	}
	empty := w - filled

	barColor := colorGreen
	if pct >= 80 {
		barColor = colorRed
	} else if pct >= 50 {
		barColor = colorYellow
	}

	bar := lipgloss.NewStyle().Foreground(barColor).Render(strings.Repeat("█", filled))
	track := lipgloss.NewStyle().Foreground(colorSurface1).Render(strings.Repeat("░", empty))

	return bar + track
}

// RenderLiveChart draws the native-resolution interval series as a braille
// line chart.
func RenderLiveChart(points []core.SeriesPoint, w, h int) string {
	if len(points) == 0 {
		return dimStyle.Render("no interval data yet")
	}
	if w < 10 {
		w = 10
	}
	if h < 3 {
		h = 3
	}

	chart := timeserieslinechart.New(w, h)
	chart.SetStyle(lipgloss.NewStyle().Foreground(colorTeal))
	for _, p := range points {
		chart.Push(timeserieslinechart.TimePoint{Time: p.Time, Value: p.Value})
	}
	chart.DrawBraille()
	return chart.View()
}

// RenderPeriodChart draws one bar per aggregation bucket. Bars are labeled
// by the bucket's start time at a granularity matching the period.
func RenderPeriodChart(points []core.SeriesPoint, period core.Period, w, h int) string {
	if len(points) == 0 {
		return dimStyle.Render("no data for this period")
	}
	if w < 10 {
		w = 10
	}
	if h < 3 {
		h = 3
	}

	barStyle := lipgloss.NewStyle().Foreground(HeadlinePeriodColor(period))

	chart := barchart.New(w, h)
	for _, p := range points {
		chart.Push(barchart.BarData{
			Label: bucketLabel(p.Time, period),
			Values: []barchart.BarValue{
				{Name: "kWh", Value: p.Value, Style: barStyle},
			},
		})
	}
	chart.Draw()
	return chart.View()
}

// HeadlinePeriodColor maps a chart period to its accent color.
func HeadlinePeriodColor(p core.Period) lipgloss.Color {
	switch p {
	case core.PeriodDay:
		return colorBlue
	case core.PeriodWeek:
		return colorTeal
	case core.PeriodMonth:
		return colorLavender
	case core.PeriodYear:
		return colorPeach
	default:
		return colorAccent
	}
}

func bucketLabel(t time.Time, p core.Period) string {
	switch p {
	case core.PeriodDay:
		return t.Format("15h")
	case core.PeriodYear:
		return t.Format("Jan")
	default:
		return t.Format("02")
	}
}

// FormatKWh renders an energy amount with a unit suffix.
func FormatKWh(v float64) string {
	if v >= 1000 {
		return fmt.Sprintf("%.2f MWh", v/1000)
	}
	return fmt.Sprintf("%.1f kWh", v)
}

// FormatMoney renders a currency amount.
func FormatMoney(v float64, currency string) string {
	if currency == "" {
		currency = "EUR"
	}
	if currency == "EUR" {
		return fmt.Sprintf("€%.2f", v)
	}
	return fmt.Sprintf("%.2f %s", v, currency)
}
