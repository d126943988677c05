// Package models defines data structures and domain types.
package models

// Granularity selects the reporting period length.
type Granularity int

const (
	// Daily groups by calendar date (YYYY-MM-DD).
	Daily Granularity = iota
	// Weekly groups by ISO week, keyed by its Monday (YYYY-MM-DD).
	Weekly
	// Monthly groups by calendar month (YYYY-MM).
	Monthly
)

// String returns the lowercase name of the granularity.
func (g Granularity) String() string {
	switch g {
	case Daily:
		return "daily"
	case Weekly:
		return "weekly"
	case Monthly:
		return "monthly"
	default:
		return "unknown"
	}
}

// Title returns the display name used in report headings.
func (g Granularity) Title() string {
	switch g {
	case Daily:
		return "Daily"
	case Weekly:
		return "Weekly"
	case Monthly:
		return "Monthly"
	default:
		return "Unknown"
	}
}

// Granularities lists every granularity in reporting order.
var Granularities = []Granularity{Daily, Weekly, Monthly}

// Selection records which granularities a report should contain.
type Selection struct {
	Daily   bool
	Weekly  bool
	Monthly bool
}

// AllSelection selects every granularity.
func AllSelection() Selection {
	return Selection{Daily: true, Weekly: true, Monthly: true}
}

// None reports whether no granularity is selected.
func (s Selection) None() bool {
	return !s.Daily && !s.Weekly && !s.Monthly
}

// Has reports whether g is selected.
func (s Selection) Has(g Granularity) bool {
	switch g {
	case Daily:
		return s.Daily
	case Weekly:
		return s.Weekly
	case Monthly:
		return s.Monthly
	default:
		return false
	}
}

// PeriodEconomics is the reconciled view of one reporting period.
//
// Every pointer field is nil unless the source that owns it contributed data
// for Label. Zero is a legitimate observed value (a day with no spend), so
// absence is never encoded as zero.
type PeriodEconomics struct {
	Label string `json:"label" yaml:"label"`

	// Spend side.
	SpendCost         *float64 `json:"spend_cost" yaml:"spend_cost"`
	SpendTotalTokens  *uint64  `json:"spend_total_tokens" yaml:"spend_total_tokens"`
	SpendActiveTokens *uint64  `json:"spend_active_tokens" yaml:"spend_active_tokens"` // input + output, no cache

	// Savings side.
	SavingsCommands *int     `json:"savings_commands" yaml:"savings_commands"`
	SavingsTokens   *int64   `json:"savings_tokens" yaml:"savings_tokens"`
	SavingsPct      *float64 `json:"savings_pct" yaml:"savings_pct"`

	// Dual metrics.
	BlendedCostPerToken *float64 `json:"blended_cost_per_token" yaml:"blended_cost_per_token"` // cost / total tokens
	ActiveCostPerToken  *float64 `json:"active_cost_per_token" yaml:"active_cost_per_token"`   // cost / active tokens
	SavingsValueBlended *float64 `json:"savings_value_blended" yaml:"savings_value_blended"`
	SavingsValueActive  *float64 `json:"savings_value_active" yaml:"savings_value_active"`
}

// NewPeriodEconomics returns an empty record for label.
func NewPeriodEconomics(label string) *PeriodEconomics {
	return &PeriodEconomics{Label: label}
}

// HasSpend reports whether the spend ledger contributed to this period.
func (p *PeriodEconomics) HasSpend() bool {
	return p.SpendCost != nil
}

// HasSavings reports whether the savings ledger contributed to this period.
func (p *PeriodEconomics) HasSavings() bool {
	return p.SavingsTokens != nil
}

// Totals aggregates a list of periods.
type Totals struct {
	SpendCost         float64 `json:"spend_cost" yaml:"spend_cost"`
	SpendTotalTokens  uint64  `json:"spend_total_tokens" yaml:"spend_total_tokens"`
	SpendActiveTokens uint64  `json:"spend_active_tokens" yaml:"spend_active_tokens"`
	SavingsCommands   int     `json:"savings_commands" yaml:"savings_commands"`
	SavingsTokens     int64   `json:"savings_tokens" yaml:"savings_tokens"`
	AvgSavingsPct     float64 `json:"avg_savings_pct" yaml:"avg_savings_pct"`

	BlendedCostPerToken *float64 `json:"blended_cost_per_token" yaml:"blended_cost_per_token"`
	ActiveCostPerToken  *float64 `json:"active_cost_per_token" yaml:"active_cost_per_token"`
	SavingsValueBlended *float64 `json:"savings_value_blended" yaml:"savings_value_blended"`
	SavingsValueActive  *float64 `json:"savings_value_active" yaml:"savings_value_active"`
}

// CacheTokens returns the tokens billed for cache reads and writes.
func (t *Totals) CacheTokens() uint64 {
	if t.SpendTotalTokens < t.SpendActiveTokens {
		return 0
	}
	return t.SpendTotalTokens - t.SpendActiveTokens
}

// Report is the output of one report invocation. A nil slice means the
// granularity was not requested.
type Report struct {
	Daily   []PeriodEconomics
	Weekly  []PeriodEconomics
	Monthly []PeriodEconomics
	Totals  *Totals
}

// Periods returns the slice for g.
func (r *Report) Periods(g Granularity) []PeriodEconomics {
	switch g {
	case Daily:
		return r.Daily
	case Weekly:
		return r.Weekly
	case Monthly:
		return r.Monthly
	default:
		return nil
	}
}

// SetPeriods stores periods for g.
func (r *Report) SetPeriods(g Granularity, periods []PeriodEconomics) {
	switch g {
	case Daily:
		r.Daily = periods
	case Weekly:
		r.Weekly = periods
	case Monthly:
		r.Monthly = periods
	}
}
