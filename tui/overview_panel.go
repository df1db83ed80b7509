// ABOUTME: Renders the Overview tab: five KPI cards, the outcome and sentiment charts, and the recent-calls table.
// ABOUTME: KPI values come from the format package so unknown metrics show the placeholder.
package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/2389-research/calldeck/dashboard"
	"github.com/2389-research/calldeck/format"
	"github.com/2389-research/calldeck/metricsapi"
)

// KPI is one labeled headline number.
type KPI struct {
	Label string
	Value string
}

// KPIValues formats the five overview metrics in display order.
func KPIValues(m metricsapi.OverviewMetrics) []KPI {
	return []KPI{
		{Label: "Total calls", Value: format.Int(m.TotalCalls)},
		{Label: "Verified", Value: format.Percent(m.VerifiedRate)},
		{Label: "Acceptance", Value: format.Percent(m.AcceptanceRate)},
		{Label: "Transfer", Value: format.Percent(m.TransferRate)},
		{Label: "Avg rounds", Value: format.Number(m.AvgRounds)},
	}
}

// OverviewPanelModel lays out the Overview tab.
type OverviewPanelModel struct {
	chart  ChartRenderer
	width  int
	height int
}

// NewOverviewPanelModel creates an overview panel drawing charts with chart.
// A nil chart falls back to RenderBarChart.
func NewOverviewPanelModel(chart ChartRenderer) OverviewPanelModel {
	if chart == nil {
		chart = RenderBarChart
	}
	return OverviewPanelModel{chart: chart}
}

// SetSize sets the available dimensions.
func (m *OverviewPanelModel) SetSize(w, h int) {
	m.width = w
	m.height = h
}

// View renders the KPI row, the two charts side by side, and the calls table
// view passed in by the caller. A nil overview renders every KPI as unknown.
func (m OverviewPanelModel) View(ov *dashboard.Overview, table string) string {
	var metrics metricsapi.OverviewMetrics
	var outcomes, sentiment metricsapi.Distribution
	if ov != nil {
		metrics = ov.Metrics
		outcomes = ov.Outcomes
		sentiment = ov.Sentiment
	}

	cards := make([]string, 0, 5)
	for _, kpi := range KPIValues(metrics) {
		cards = append(cards, KPICardStyle.Render(
			KPILabelStyle.Render(kpi.Label)+"\n"+KPIValueStyle.Render(kpi.Value),
		))
	}
	kpiRow := lipgloss.JoinHorizontal(lipgloss.Top, cards...)

	chartWidth := (m.width - 6) / 2
	if chartWidth < 20 {
		chartWidth = 20
	}
	charts := lipgloss.JoinHorizontal(lipgloss.Top,
		BorderStyle.Width(chartWidth).Render(m.chart("Outcomes", outcomes, chartWidth-2)),
		BorderStyle.Width(chartWidth).Render(m.chart("Sentiment", sentiment, chartWidth-2)),
	)

	var b strings.Builder
	b.WriteString(kpiRow)
	b.WriteString("\n")
	b.WriteString(charts)
	b.WriteString("\n")
	b.WriteString(table)
	return b.String()
}
