package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/samber/lo"

	"github.com/lenedash/lenedash/internal/core"
)

var headlineOrder = []core.HeadlineKey{
	core.HeadlineYesterday,
	core.HeadlineWeek,
	core.HeadlineMonth,
	core.HeadlineProduction,
	core.HeadlineEstimatedCost,
}

func headlineTitle(key core.HeadlineKey) string {
	switch key {
	case core.HeadlineYesterday:
		return "Yesterday"
	case core.HeadlineWeek:
		return "7 Days"
	case core.HeadlineMonth:
		return "30 Days"
	case core.HeadlineProduction:
		return "Production"
	case core.HeadlineEstimatedCost:
		return "Est. Cost/mo"
	default:
		return string(key)
	}
}

func (m Model) renderDashboard() string {
	w, h := m.width, m.height

	header := m.renderHeader(w)
	headerH := strings.Count(header, "\n") + 1

	footer := m.renderFooter(w)
	footerH := strings.Count(footer, "\n") + 1

	contentH := h - headerH - footerH
	if contentH < 3 {
		contentH = 3
	}

	var sections []string
	if m.banner != "" {
		sections = append(sections, m.renderBanner(w))
		contentH--
	}

	tiles := m.renderHeadlineTiles(w)
	sections = append(sections, tiles)
	contentH -= strings.Count(tiles, "\n") + 1

	chartH := contentH
	if m.showInvoice {
		chartH = contentH / 2
	}
	if chartH < 5 {
		chartH = 5
	}
	sections = append(sections, m.renderChartRow(w, chartH))

	if m.showInvoice {
		invoiceH := contentH - chartH
		if invoiceH < 6 {
			invoiceH = 6
		}
		sections = append(sections, m.renderInvoiceRow(w, invoiceH))
	}

	content := strings.Join(sections, "\n")
	lines := strings.Split(header+"\n"+content+"\n"+footer, "\n")
	if len(lines) > h {
		lines = lines[:h]
	}
	return strings.Join(lines, "\n")
}

func (m Model) renderHeader(w int) string {
	bolt := PulseChar(
		lipgloss.NewStyle().Foreground(colorAccent).Bold(true).Render("⚡"),
		lipgloss.NewStyle().Foreground(colorDim).Bold(true).Render("⚡"),
		m.animFrame,
	)
	brand := headerBrandStyle.Render("Lenedash")

	spinnerStr := ""
	if m.refreshing {
		frame := m.animFrame % len(spinnerFrames)
		spinnerStr = " " + lipgloss.NewStyle().Foreground(colorAccent).Render(spinnerFrames[frame])
	}

	pills := ConnectionPill(m.snap.Connection) + " " +
		DataPill(m.snap.Data) + " " +
		CredentialPill(m.snap.Config, m.snap.ConfigLoaded)

	var info []string
	if m.snap.ServerVersion != "" {
		info = append(info, "server "+m.snap.ServerVersion)
	}
	if m.updateHint != "" {
		info = append(info, m.updateHint)
	}
	infoRendered := labelStyle.Render(strings.Join(info, " · "))

	left := bolt + " " + brand + spinnerStr + "  " + pills
	gap := w - lipgloss.Width(left) - lipgloss.Width(infoRendered)
	if gap < 1 {
		gap = 1
	}

	line := fitAnsiWidth(left+strings.Repeat(" ", gap)+infoRendered, w)
	sep := lipgloss.NewStyle().Foreground(colorSurface1).Render(strings.Repeat("━", w))
	return line + "\n" + sep
}

func (m Model) renderBanner(w int) string {
	style := bannerInfoStyle
	if m.bannerErr {
		style = bannerErrStyle
	}
	return fitAnsiWidth(style.Render(m.banner), w)
}

// renderHeadlineTiles draws the five summary figures as small panels,
// wrapping to multiple rows on narrow terminals.
func (m Model) renderHeadlineTiles(w int) string {
	cols := w / 22
	if cols < 1 {
		cols = 1
	}
	if cols > len(headlineOrder) {
		cols = len(headlineOrder)
	}

	rows := lo.Chunk(headlineOrder, cols)
	rendered := make([]string, 0, len(rows))
	for _, row := range rows {
		panels := make([]Panel, 0, len(row))
		for _, key := range row {
			panels = append(panels, Panel{
				Title:   headlineTitle(key),
				Content: m.headlineBody(key),
				Color:   HeadlineColor(key),
			})
		}
		rendered = append(rendered, RenderPanelRow(panels, w, 3))
	}
	return strings.Join(rendered, "\n")
}

func (m Model) headlineBody(key core.HeadlineKey) string {
	h := m.snap.HeadlineOf(key)
	switch {
	case !h.Known:
		return dimStyle.Render("…")
	case !h.Applicable:
		return dimStyle.Render("n/a")
	case key == core.HeadlineEstimatedCost:
		return tileValueStyle.Render(FormatMoney(h.Value, m.snap.Config.Billing.Currency)) +
			" " + tileLabelStyle.Render("est.")
	default:
		return tileValueStyle.Render(FormatKWh(h.Value))
	}
}

func (m Model) renderChartRow(w, h int) string {
	liveBody := RenderLiveChart(m.snap.Live, w/2-4, h-2)
	if len(m.snap.Live) > 0 {
		values := lo.Map(m.snap.Live, func(p core.SeriesPoint, _ int) float64 { return p.Value })
		liveBody += "\n" + RenderSparkline(values, w/2-4, colorTeal)
	}

	periodPoints := m.snap.Period
	if m.snap.PeriodOf != m.period {
		// A period switch is in flight; keep the panel calm until the
		// matching series commits.
		periodPoints = nil
	}

	panels := []Panel{
		{Title: "Live Consumption", Icon: "📈", Content: liveBody, Color: colorTeal},
		{Title: m.period.Label(), Icon: "📊", Content: RenderPeriodChart(periodPoints, m.period, w/2-4, h-2), Color: HeadlinePeriodColor(m.period)},
	}
	return RenderPanelRow(panels, w, h)
}

func (m Model) renderInvoiceRow(w, h int) string {
	panels := []Panel{
		{Title: "Last Month Invoice", Icon: "🧾", Content: m.invoiceBody(), Color: colorPeach, Span: 2},
		{Title: "Tariff", Icon: "⚙", Content: m.billingBody(), Color: colorSurface1},
	}
	return RenderPanelRow(panels, w, h)
}

func (m Model) invoiceBody() string {
	inv := m.snap.Invoice
	if inv == nil {
		return dimStyle.Render("computing invoice…")
	}

	line := func(label string, v float64) string {
		return labelStyle.Render(fmt.Sprintf("%-22s", label)) +
			valueStyle.Render(fmt.Sprintf("%10s", FormatMoney(v, inv.Currency)))
	}

	return panelContent(
		labelStyle.Render(inv.Period.Start+" → "+inv.Period.End)+
			"  "+valueStyle.Render(FormatKWh(inv.ConsumptionKWh)),
		line("Energy fixed fee", inv.Breakdown.EnergyFixedFee),
		line("Energy variable", inv.Breakdown.EnergyVariable),
		line("Network metering", inv.Breakdown.NetworkMeteringFee),
		line("Network power ref.", inv.Breakdown.NetworkPowerReference),
		line("Network variable", inv.Breakdown.NetworkVariable),
		line("Compensation fund", inv.Breakdown.CompensationFund),
		line("Electricity tax", inv.Breakdown.ElectricityTax),
		line("Subtotal", inv.Subtotal),
		line(fmt.Sprintf("VAT (%.0f%%)", inv.VAT.Rate*100), inv.VAT.Amount),
		tileValueStyle.Render(fmt.Sprintf("%-22s%10s", "Total", FormatMoney(inv.Total, inv.Currency))),
	)
}

func (m Model) billingBody() string {
	b := m.snap.Config.Billing
	rows := []string{
		labelStyle.Render("Supplier  ") + valueStyle.Render(orDash(b.EnergySupplierName)),
		labelStyle.Render("Operator  ") + valueStyle.Render(orDash(b.NetworkOperatorName)),
		labelStyle.Render("Rate      ") + valueStyle.Render(fmt.Sprintf("%.4f/kWh", m.snap.Config.VariableRate())),
	}
	if b.ReferencePowerKw > 0 {
		rows = append(rows, labelStyle.Render("Ref. power")+valueStyle.Render(fmt.Sprintf(" %.1f kW", b.ReferencePowerKw)))
	}
	return panelContent(rows...)
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "—"
	}
	return s
}

func (m Model) renderFooter(w int) string {
	sep := lipgloss.NewStyle().Foreground(colorSurface1).Render(strings.Repeat("━", w))

	hints := []string{
		helpKeyStyle.Render("r") + helpStyle.Render(" refresh"),
		helpKeyStyle.Render("p") + helpStyle.Render(" period: ") + labelStyle.Render(m.period.Label()),
		helpKeyStyle.Render("i") + helpStyle.Render(" invoice"),
		helpKeyStyle.Render("t") + helpStyle.Render(" theme"),
		helpKeyStyle.Render("?") + helpStyle.Render(" help"),
	}
	left := " " + strings.Join(hints, helpStyle.Render(" · "))

	right := ""
	if !m.snap.LastUpdated.IsZero() {
		right = dimStyle.Render("updated " + m.snap.LastUpdated.Format("15:04:05"))
	}

	gap := w - lipgloss.Width(left) - lipgloss.Width(right) - 1
	if gap < 1 {
		gap = 1
	}
	return sep + "\n" + left + strings.Repeat(" ", gap) + right
}

func (m Model) renderSplash(w, h int) string {
	lines := []string{
		headerBrandStyle.Render("⚡ Lenedash"),
		"",
		dimStyle.Render("connecting to the energy dashboard backend…"),
	}
	block := strings.Join(lines, "\n")
	return lipgloss.Place(w, h, lipgloss.Center, lipgloss.Center, block)
}
