package periods

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/j-veylop/cc-economics/internal/economics"
	"github.com/j-veylop/cc-economics/internal/models"
	"github.com/j-veylop/cc-economics/internal/report"
	"github.com/j-veylop/cc-economics/internal/ui/components"
	"github.com/j-veylop/cc-economics/internal/ui/styles"
)

var docStyle = lipgloss.NewStyle().Padding(0, 2)

// View renders the tab.
func (m *Model) View() string {
	if m.state.IsInitialLoading() {
		return components.RenderSpinnerCentered(m.spinner, m.width, m.height)
	}

	if len(m.periods) == 0 {
		if err := m.state.GetError(); err != nil {
			return m.render(fmt.Sprintf("%s %v", styles.ErrorTextStyle.Render("Error:"), err))
		}
		return m.render(styles.HelpStyle.Render(report.NoDataMessage))
	}

	sections := []string{
		styles.TitleStyle.Render(m.granularity.Title() + " Economics"),
		m.table.View(),
	}
	if m.chartVisible() {
		sections = append(sections, "", m.renderChart())
	}
	sections = append(sections, "", m.renderFooter())

	return m.render(lipgloss.JoinVertical(lipgloss.Left, sections...))
}

func (m *Model) render(content string) string {
	return docStyle.Width(m.width).Render(content)
}

func (m *Model) renderChart() string {
	active, blended := savingsValueSeries(m.periods, m.showBlended)
	if len(active) < 2 {
		return styles.HelpStyle.Render("Need at least two periods with spend and savings to chart savings value.")
	}

	width := max(m.width-16, 20)
	if !m.showBlended {
		return components.RenderLineChart(active, width, chartHeight, "savings value, active pricing ($)")
	}

	legend := components.RenderLegend([]components.LegendItem{
		{Label: "active", Color: styles.Active},
		{Label: "blended", Color: styles.Blended},
	})
	chart := components.RenderDualLineChart(active, blended, width, chartHeight, "savings value ($)")
	return lipgloss.JoinVertical(lipgloss.Left, chart, legend)
}

func (m *Model) renderFooter() string {
	totals := economics.ComputeTotals(m.periods)

	parts := []string{
		"Spent " + report.FormatUSD(totals.SpendCost),
		"Saved " + report.FormatTokens(totals.SavingsTokens) + " tokens",
		fmt.Sprintf("Avg %.1f%%", totals.AvgSavingsPct),
	}
	if totals.SavingsValueActive != nil {
		parts = append(parts, "Value "+report.FormatUSD(*totals.SavingsValueActive)+" active")
	}
	if totals.SavingsValueBlended != nil {
		parts = append(parts, report.FormatUSD(*totals.SavingsValueBlended)+" blended")
	}

	line := strings.Join(parts, "  ·  ")
	if m.width > 4 {
		line = ansi.Truncate(line, m.width-4, "…")
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		styles.SubTitleStyle.UnsetMarginBottom().Render(line),
		components.RenderSavingsSparkline(savingsPercents(m.periods)),
	)
}

// savingsValueSeries collects the savings values of the periods that have
// them. Periods without a value are skipped rather than plotted as zero. With
// withBlended set, a period must carry both values.
func savingsValueSeries(periods []models.PeriodEconomics, withBlended bool) (active, blended []float64) {
	for _, p := range periods {
		if p.SavingsValueActive == nil {
			continue
		}
		if withBlended {
			if p.SavingsValueBlended == nil {
				continue
			}
			blended = append(blended, *p.SavingsValueBlended)
		}
		active = append(active, *p.SavingsValueActive)
	}
	return active, blended
}

func savingsPercents(periods []models.PeriodEconomics) []float64 {
	var out []float64
	for _, p := range periods {
		if p.SavingsPct != nil {
			out = append(out, *p.SavingsPct)
		}
	}
	return out
}
