// Package periods provides the per-granularity economics tab.
package periods

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/j-veylop/cc-economics/internal/app"
	"github.com/j-veylop/cc-economics/internal/models"
	"github.com/j-veylop/cc-economics/internal/report"
	"github.com/j-veylop/cc-economics/internal/ui/components"
	"github.com/j-veylop/cc-economics/internal/ui/styles"
)

const (
	chartHeight    = 8
	minChartHeight = 24
	chromeHeight   = 8
	minTableHeight = 3
)

var columnWidths = []int{12, 11, 10, 11, 11, 6}

type keyMap struct {
	ToggleChart key.Binding
	Up          key.Binding
	Down        key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		ToggleChart: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "active/blended chart"),
		),
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "previous period"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "next period"),
		),
	}
}

// Model is one tab showing the periods of a single granularity.
type Model struct {
	state       *app.State
	granularity models.Granularity
	keys        keyMap
	table       table.Model
	spinner     components.LoadingSpinner

	periods     []models.PeriodEconomics
	showBlended bool

	width  int
	height int
}

// New creates the tab for granularity g.
func New(state *app.State, g models.Granularity) *Model {
	columns := make([]table.Column, len(report.TableHeaders))
	for i, title := range report.TableHeaders {
		columns[i] = table.Column{Title: title, Width: columnWidths[i]}
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(10),
	)

	s := table.DefaultStyles()
	s.Header = styles.TableHeaderStyle.Padding(0, 1)
	s.Selected = styles.TableSelectedStyle
	t.SetStyles(s)

	return &Model{
		state:       state,
		granularity: g,
		keys:        defaultKeyMap(),
		table:       t,
		spinner:     components.NewSpinner("Reconciling ledgers..."),
	}
}

// Granularity returns the granularity shown by the tab.
func (m *Model) Granularity() models.Granularity {
	return m.granularity
}

// Periods returns the periods currently displayed.
func (m *Model) Periods() []models.PeriodEconomics {
	return m.periods
}

// Init initializes the tab.
func (m *Model) Init() tea.Cmd {
	return m.spinner.Tick()
}

// Update handles messages for the tab.
func (m *Model) Update(msg tea.Msg) (app.Tab, tea.Cmd) {
	switch msg := msg.(type) {
	case app.ReportLoadedMsg:
		if msg.Err == nil {
			m.setPeriods(m.state.GetPeriods(m.granularity))
		}

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		if key.Matches(msg, m.keys.ToggleChart) {
			m.showBlended = !m.showBlended
			return m, nil
		}
		var cmd tea.Cmd
		m.table, cmd = m.table.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m *Model) setPeriods(periods []models.PeriodEconomics) {
	m.periods = periods

	rows := make([]table.Row, len(periods))
	for i, p := range periods {
		rows[i] = report.Row(p)
	}
	m.table.SetRows(rows)
	// Most recent period first in view.
	if len(rows) > 0 {
		m.table.SetCursor(len(rows) - 1)
	}
}

// SetSize sets the available size for the tab.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height

	tableHeight := height - chromeHeight
	if m.chartVisible() {
		tableHeight -= chartHeight + 2
	}
	m.table.SetHeight(max(tableHeight, minTableHeight))
}

func (m *Model) chartVisible() bool {
	return m.height >= minChartHeight
}

// ShortHelp returns the key bindings for the short help view.
func (m *Model) ShortHelp() []key.Binding {
	return []key.Binding{m.keys.ToggleChart, m.keys.Up, m.keys.Down}
}

// FullHelp returns the key bindings for the full help view.
func (m *Model) FullHelp() [][]key.Binding {
	return [][]key.Binding{m.ShortHelp()}
}
