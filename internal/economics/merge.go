package economics

import (
	"sort"

	"github.com/j-veylop/cc-economics/internal/logger"
	"github.com/j-veylop/cc-economics/internal/models"
)

// merger accumulates one record per canonical key.
type merger struct {
	periods map[string]*models.PeriodEconomics
}

func newMerger() *merger {
	return &merger{periods: make(map[string]*models.PeriodEconomics)}
}

func (m *merger) get(key string) *models.PeriodEconomics {
	p, ok := m.periods[key]
	if !ok {
		p = models.NewPeriodEconomics(key)
		m.periods[key] = p
	}
	return p
}

func (m *merger) addSpend(spend []models.SpendPeriod) {
	for _, entry := range spend {
		p := m.get(entry.Key)
		p.SpendCost = ptr(entry.Metrics.TotalCost)
		p.SpendTotalTokens = ptr(entry.Metrics.TotalTokens)
		p.SpendActiveTokens = ptr(entry.Metrics.ActiveTokens())
	}
}

func (m *merger) setSavings(key string, commands int, saved int64, pct float64) {
	p := m.get(key)
	p.SavingsCommands = ptr(commands)
	p.SavingsTokens = ptr(saved)
	p.SavingsPct = ptr(pct)
}

// finish computes dual metrics and returns the records sorted by label.
func (m *merger) finish() []models.PeriodEconomics {
	result := make([]models.PeriodEconomics, 0, len(m.periods))
	for _, p := range m.periods {
		ComputeDualMetrics(p)
		result = append(result, *p)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Label < result[j].Label
	})
	return result
}

// MergeDaily joins daily spend and savings on their shared YYYY-MM-DD key.
// A nil spend slice means the spend ledger was unavailable.
func MergeDaily(spend []models.SpendPeriod, savings []models.DayStats) []models.PeriodEconomics {
	m := newMerger()
	m.addSpend(spend)
	for _, s := range savings {
		m.setSavings(s.Date, s.Commands, s.SavedTokens, s.SavingsPct)
	}
	return m.finish()
}

// MergeWeekly joins weekly spend, keyed by ISO Monday, with savings keyed by
// the legacy Saturday week start. Savings rows with an unparseable week start
// are logged and dropped.
func MergeWeekly(spend []models.SpendPeriod, savings []models.WeekStats) []models.PeriodEconomics {
	m := newMerger()
	m.addSpend(spend)
	for _, s := range savings {
		monday, ok := SaturdayToMonday(s.WeekStart)
		if !ok {
			logger.Warn("skipping savings week with invalid start", "week_start", s.WeekStart)
			continue
		}
		m.setSavings(monday, s.Commands, s.SavedTokens, s.SavingsPct)
	}
	return m.finish()
}

// MergeMonthly joins monthly spend and savings on their shared YYYY-MM key.
func MergeMonthly(spend []models.SpendPeriod, savings []models.MonthStats) []models.PeriodEconomics {
	m := newMerger()
	m.addSpend(spend)
	for _, s := range savings {
		m.setSavings(s.Month, s.Commands, s.SavedTokens, MonthSavingsPct(s))
	}
	return m.finish()
}

// MonthSavingsPct derives the savings percentage the ledger does not supply
// for months: saved / (saved + input + output) * 100, or 0 when that
// denominator is zero.
func MonthSavingsPct(s models.MonthStats) float64 {
	total := s.SavedTokens + s.InputTokens + s.OutputTokens
	if total <= 0 {
		return 0
	}
	return float64(s.SavedTokens) / float64(total) * 100
}
