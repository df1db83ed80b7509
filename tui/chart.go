// ABOUTME: Renders a categorical series (label -> count) as a horizontal bar chart with lipgloss.
// ABOUTME: ChartRenderer is the pluggable capability the overview panel draws its distributions with.
package tui

import (
	"fmt"
	"math"
	"strings"

	"github.com/2389-research/calldeck/format"
	"github.com/2389-research/calldeck/metricsapi"
)

// ChartRenderer draws a titled categorical series into at most width columns.
// Labels appear in series order.
type ChartRenderer func(title string, series metricsapi.Distribution, width int) string

const (
	maxBarLabel = 24
	barGlyph    = "█"
)

// RenderBarChart is the default ChartRenderer.
func RenderBarChart(title string, series metricsapi.Distribution, width int) string {
	var b strings.Builder
	b.WriteString(TitleStyle.Render(title))
	b.WriteString("\n")

	if len(series) == 0 {
		b.WriteString(ChartEmptyStyle.Render("No data"))
		return b.String()
	}

	labelWidth := 0
	countWidth := 0
	maxCount := 0.0
	for _, bucket := range series {
		labelWidth = max(labelWidth, min(len([]rune(bucket.Label)), maxBarLabel))
		countWidth = max(countWidth, len(format.Number(&bucket.Count)))
		maxCount = math.Max(maxCount, bucket.Count)
	}

	barWidth := width - labelWidth - countWidth - 3
	if barWidth < 1 {
		barWidth = 1
	}

	for i, bucket := range series {
		n := barLength(bucket.Count, maxCount, barWidth)
		label := fmt.Sprintf("%-*s", labelWidth, truncateLabel(bucket.Label, maxBarLabel))
		count := format.Number(&bucket.Count)
		b.WriteString(BarLabelStyle.Render(label))
		b.WriteString(" ")
		b.WriteString(BarStyle.Render(strings.Repeat(barGlyph, n)))
		b.WriteString(strings.Repeat(" ", barWidth-n+1))
		b.WriteString(BarCountStyle.Render(count))
		if i < len(series)-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

// barLength scales count against maxCount. Any positive count gets at least
// one cell so small buckets stay visible.
func barLength(count, maxCount float64, width int) int {
	if maxCount <= 0 || count <= 0 {
		return 0
	}
	n := int(math.Round(count / maxCount * float64(width)))
	return min(max(n, 1), width)
}

func truncateLabel(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
