// Package components provides reusable UI components for the dashboard.
package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/j-veylop/cc-economics/internal/ui/styles"
)

// NoChartData is rendered when a series is empty.
const NoChartData = "No data available"

var sparkChars = []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

func clampChartSize(width, height int) (int, int) {
	return max(width, 20), max(height, 3)
}

// RenderLineChart creates a single-series ASCII line chart.
func RenderLineChart(data []float64, width, height int, caption string) string {
	if len(data) == 0 {
		return styles.HelpStyle.Render(NoChartData)
	}
	width, height = clampChartSize(width, height)

	return asciigraph.Plot(data,
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.Caption(caption),
		asciigraph.SeriesColors(asciigraph.Green),
	)
}

// RenderDualLineChart plots the active and blended savings value series
// together. The shorter series is padded with zeros.
func RenderDualLineChart(active, blended []float64, width, height int, caption string) string {
	if len(active) == 0 && len(blended) == 0 {
		return styles.HelpStyle.Render(NoChartData)
	}
	width, height = clampChartSize(width, height)

	n := max(len(active), len(blended))
	activeData := make([]float64, n)
	blendedData := make([]float64, n)
	copy(activeData, active)
	copy(blendedData, blended)

	return asciigraph.PlotMany([][]float64{activeData, blendedData},
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.Caption(caption),
		asciigraph.SeriesColors(
			asciigraph.Green,
			asciigraph.Blue,
		),
	)
}

// RenderSparkline creates a compact inline sparkline chart.
func RenderSparkline(values []float64, width int) string {
	if len(values) == 0 || width <= 0 {
		return ""
	}

	maxVal := 0.0
	for _, v := range values {
		maxVal = max(maxVal, v)
	}
	if maxVal == 0 {
		maxVal = 1
	}

	// Sample values to fit width
	var result strings.Builder
	step := max(float64(len(values))/float64(width), 1)

	for i := 0; i < width && int(float64(i)*step) < len(values); i++ {
		val := values[int(float64(i)*step)]
		level := int((val / maxVal) * float64(len(sparkChars)-1))
		level = min(max(level, 0), len(sparkChars)-1)
		result.WriteRune(sparkChars[level])
	}

	return result.String()
}

// RenderSavingsSparkline renders one character per savings percentage,
// colored by how much was saved.
func RenderSavingsSparkline(percents []float64) string {
	var result strings.Builder
	for _, p := range percents {
		level := int((min(max(p, 0), 100) / 100) * float64(len(sparkChars)-1))
		result.WriteString(styles.GetSavingsStyle(p).Render(string(sparkChars[level])))
	}
	return result.String()
}

// RenderLegend creates a chart legend.
func RenderLegend(items []LegendItem) string {
	var parts []string
	for _, item := range items {
		colorBox := lipgloss.NewStyle().Foreground(item.Color).Render("■")
		parts = append(parts, fmt.Sprintf("%s %s", colorBox, item.Label))
	}
	return strings.Join(parts, "  ")
}

// LegendItem represents a single legend entry.
type LegendItem struct {
	Label string
	Color lipgloss.Color
}
