package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/j-veylop/cc-economics/internal/models"
)

// NoDataMessage is printed by the summary when neither ledger has data.
const NoDataMessage = "No data available. Run some rtk commands to start tracking."

// TableHeaders are the columns of the per-granularity text tables.
var TableHeaders = []string{"Period", "Spent", "Saved", "Active$", "Blended$", "Cmds"}

var (
	primary   = lipgloss.Color("205")
	secondary = lipgloss.Color("63")
	subtle    = lipgloss.Color("240")
)

// styles holds styles bound to one output's renderer so color is only
// emitted for terminals.
type styles struct {
	title  lipgloss.Style
	label  lipgloss.Style
	value  lipgloss.Style
	muted  lipgloss.Style
	card   lipgloss.Style
	header lipgloss.Style
	cell   lipgloss.Style
	border lipgloss.Style
}

func newStyles(w io.Writer) styles {
	r := lipgloss.NewRenderer(w)
	return styles{
		title:  r.NewStyle().Bold(true).Foreground(primary),
		label:  r.NewStyle().Width(30),
		value:  r.NewStyle().Bold(true),
		muted:  r.NewStyle().Foreground(subtle),
		card:   r.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(secondary).Padding(0, 1),
		header: r.NewStyle().Bold(true).Foreground(primary).Padding(0, 1),
		cell:   r.NewStyle().Padding(0, 1),
		border: r.NewStyle().Foreground(subtle),
	}
}

// WriteSummary writes the totals card computed from r.Monthly and r.Totals.
func WriteSummary(w io.Writer, r *models.Report) error {
	if len(r.Monthly) == 0 || r.Totals == nil {
		_, err := fmt.Fprintln(w, NoDataMessage)
		return err
	}

	st := newStyles(w)
	t := r.Totals

	var b strings.Builder
	b.WriteString(st.title.Render("Token Economics"))
	b.WriteString("\n\n")

	line := func(label, value string) {
		b.WriteString("  ")
		b.WriteString(st.label.Render(label))
		b.WriteString(st.value.Render(value))
		b.WriteString("\n")
	}
	line("Spent (ccusage):", FormatUSD(t.SpendCost))
	line("Active tokens (in+out):", FormatTokens(t.SpendActiveTokens))
	line("Total tokens (incl. cache):", FormatTokens(t.SpendTotalTokens))
	b.WriteString("\n")
	line("RTK commands:", fmt.Sprintf("%d", t.SavingsCommands))
	line("Tokens saved:", FormatTokens(t.SavingsTokens))
	line("Average savings:", fmt.Sprintf("%.1f%%", t.AvgSavingsPct))
	b.WriteString("\n")

	card := strings.Join([]string{
		estimateLine("Active token pricing:", t.SavingsValueActive, t.SpendCost, "%.1f%%") +
			st.muted.Render("  most representative"),
		estimateLine("Blended pricing:", t.SavingsValueBlended, t.SpendCost, "%.2f%%"),
	}, "\n")
	b.WriteString("  Estimated savings:\n")
	b.WriteString(indent(st.card.Render(card), "  "))
	b.WriteString("\n\n")

	b.WriteString(st.muted.Render(indent(strings.Join([]string{
		"Savings prevent tokens from entering the context (input tokens).",
		`"Active" uses cost/(input+output) and reflects input token cost.`,
		fmt.Sprintf(`"Blended" uses cost/all_tokens and is diluted by %.1fB cheap cache tokens.`,
			float64(t.CacheTokens())/1_000_000_000),
	}, "\n"), "  ")))
	b.WriteString("\n")

	_, err := io.WriteString(w, b.String())
	return err
}

// estimateLine renders one savings estimate with its share of spend.
func estimateLine(label string, value *float64, spent float64, pctFormat string) string {
	if value == nil {
		return fmt.Sprintf("%-24s%s", label, Absent)
	}
	share := 0.0
	if spent > 0 {
		share = *value / spent * 100
	}
	return fmt.Sprintf("%-24s%s  ("+pctFormat+")", label, FormatUSD(*value), share)
}

func indent(s, prefix string) string {
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		lines[i] = prefix + l
	}
	return strings.Join(lines, "\n")
}

// WriteTables writes one titled table per granularity present in r.
func WriteTables(w io.Writer, r *models.Report) error {
	st := newStyles(w)

	var b strings.Builder
	for _, g := range models.Granularities {
		periods := r.Periods(g)
		if periods == nil {
			continue
		}
		b.WriteString(st.title.Render(g.Title() + " Economics"))
		b.WriteString("\n")
		b.WriteString(renderTable(st, periods))
		b.WriteString("\n\n")
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// renderTable renders periods as a bordered table.
func renderTable(st styles, periods []models.PeriodEconomics) string {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(st.border).
		Headers(TableHeaders...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return st.header
			}
			if col == 0 {
				return st.cell
			}
			return st.cell.Align(lipgloss.Right)
		})

	for _, p := range periods {
		t.Row(Row(p)...)
	}
	return t.Render()
}

// Row formats p for a text table, using Absent for missing values.
func Row(p models.PeriodEconomics) []string {
	return []string{
		p.Label,
		orAbsent(p.SpendCost, FormatUSD),
		orAbsent(p.SavingsTokens, FormatTokens[int64]),
		orAbsent(p.SavingsValueActive, FormatUSD),
		orAbsent(p.SavingsValueBlended, FormatUSD),
		orAbsent(p.SavingsCommands, func(n int) string { return fmt.Sprintf("%d", n) }),
	}
}

func orAbsent[T any](v *T, format func(T) string) string {
	if v == nil {
		return Absent
	}
	return format(*v)
}

// CommandHeaders are the columns of the recent commands table.
var CommandHeaders = []string{"When", "Command", "Input", "Output", "Saved", "Saved%"}

// WriteCommands writes the most recent ledger rows, newest first, followed
// by the total row count.
func WriteCommands(w io.Writer, cmds []models.TrackedCommand, total int) error {
	if len(cmds) == 0 {
		_, err := fmt.Fprintln(w, NoDataMessage)
		return err
	}

	st := newStyles(w)
	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(st.border).
		Headers(CommandHeaders...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return st.header
			}
			if col <= 1 {
				return st.cell
			}
			return st.cell.Align(lipgloss.Right)
		})

	for _, c := range cmds {
		t.Row(
			c.Timestamp.Local().Format("2006-01-02 15:04"),
			c.OriginalCmd,
			FormatTokens(c.InputTokens),
			FormatTokens(c.OutputTokens),
			FormatTokens(c.SavedTokens),
			fmt.Sprintf("%.1f%%", c.SavingsPct),
		)
	}

	_, err := fmt.Fprintf(w, "%s\n%s\n%s\n",
		st.title.Render("Recent Commands"),
		t.Render(),
		st.muted.Render(fmt.Sprintf("%d of %d commands", len(cmds), total)))
	return err
}
