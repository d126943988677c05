package report

import (
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/j-veylop/cc-economics/internal/models"
)

// moneyPlaces is the number of decimals printed for dollar amounts.
const moneyPlaces = 4

// money is a dollar amount serialized as a bare number with four decimals.
type money struct {
	d decimal.Decimal
}

func newMoney(v float64) money {
	return money{d: decimal.NewFromFloat(v)}
}

func moneyPtr(v *float64) *money {
	if v == nil {
		return nil
	}
	m := newMoney(*v)
	return &m
}

func (m money) String() string {
	return m.d.StringFixed(moneyPlaces)
}

// MarshalJSON writes the amount unquoted.
func (m money) MarshalJSON() ([]byte, error) {
	return []byte(m.String()), nil
}

// MarshalYAML writes the amount as a float scalar.
func (m money) MarshalYAML() (any, error) {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!float", Value: m.String()}, nil
}

type periodDoc struct {
	Label               string   `json:"label" yaml:"label"`
	SpendCost           *money   `json:"spend_cost" yaml:"spend_cost"`
	SpendTotalTokens    *uint64  `json:"spend_total_tokens" yaml:"spend_total_tokens"`
	SpendActiveTokens   *uint64  `json:"spend_active_tokens" yaml:"spend_active_tokens"`
	SavingsCommands     *int     `json:"savings_commands" yaml:"savings_commands"`
	SavingsTokens       *int64   `json:"savings_tokens" yaml:"savings_tokens"`
	SavingsPct          *float64 `json:"savings_pct" yaml:"savings_pct"`
	BlendedCostPerToken *float64 `json:"blended_cost_per_token" yaml:"blended_cost_per_token"`
	ActiveCostPerToken  *float64 `json:"active_cost_per_token" yaml:"active_cost_per_token"`
	SavingsValueBlended *money   `json:"savings_value_blended" yaml:"savings_value_blended"`
	SavingsValueActive  *money   `json:"savings_value_active" yaml:"savings_value_active"`
}

type totalsDoc struct {
	SpendCost           money    `json:"spend_cost" yaml:"spend_cost"`
	SpendTotalTokens    uint64   `json:"spend_total_tokens" yaml:"spend_total_tokens"`
	SpendActiveTokens   uint64   `json:"spend_active_tokens" yaml:"spend_active_tokens"`
	SavingsCommands     int      `json:"savings_commands" yaml:"savings_commands"`
	SavingsTokens       int64    `json:"savings_tokens" yaml:"savings_tokens"`
	AvgSavingsPct       float64  `json:"avg_savings_pct" yaml:"avg_savings_pct"`
	BlendedCostPerToken *float64 `json:"blended_cost_per_token" yaml:"blended_cost_per_token"`
	ActiveCostPerToken  *float64 `json:"active_cost_per_token" yaml:"active_cost_per_token"`
	SavingsValueBlended *money   `json:"savings_value_blended" yaml:"savings_value_blended"`
	SavingsValueActive  *money   `json:"savings_value_active" yaml:"savings_value_active"`
}

// document is the shape shared by the JSON and YAML exports. Granularities
// that were not requested serialize as null.
type document struct {
	Daily   *[]periodDoc `json:"daily" yaml:"daily"`
	Weekly  *[]periodDoc `json:"weekly" yaml:"weekly"`
	Monthly *[]periodDoc `json:"monthly" yaml:"monthly"`
	Totals  *totalsDoc   `json:"totals" yaml:"totals"`
}

func newDocument(r *models.Report) document {
	doc := document{
		Daily:   periodDocs(r.Daily),
		Weekly:  periodDocs(r.Weekly),
		Monthly: periodDocs(r.Monthly),
	}
	if r.Totals != nil {
		t := r.Totals
		doc.Totals = &totalsDoc{
			SpendCost:           newMoney(t.SpendCost),
			SpendTotalTokens:    t.SpendTotalTokens,
			SpendActiveTokens:   t.SpendActiveTokens,
			SavingsCommands:     t.SavingsCommands,
			SavingsTokens:       t.SavingsTokens,
			AvgSavingsPct:       t.AvgSavingsPct,
			BlendedCostPerToken: t.BlendedCostPerToken,
			ActiveCostPerToken:  t.ActiveCostPerToken,
			SavingsValueBlended: moneyPtr(t.SavingsValueBlended),
			SavingsValueActive:  moneyPtr(t.SavingsValueActive),
		}
	}
	return doc
}

// periodDocs keeps the nil/empty distinction: nil stays nil (null), an empty
// requested granularity becomes [].
func periodDocs(periods []models.PeriodEconomics) *[]periodDoc {
	if periods == nil {
		return nil
	}
	out := make([]periodDoc, 0, len(periods))
	for _, p := range periods {
		out = append(out, periodDoc{
			Label:               p.Label,
			SpendCost:           moneyPtr(p.SpendCost),
			SpendTotalTokens:    p.SpendTotalTokens,
			SpendActiveTokens:   p.SpendActiveTokens,
			SavingsCommands:     p.SavingsCommands,
			SavingsTokens:       p.SavingsTokens,
			SavingsPct:          p.SavingsPct,
			BlendedCostPerToken: p.BlendedCostPerToken,
			ActiveCostPerToken:  p.ActiveCostPerToken,
			SavingsValueBlended: moneyPtr(p.SavingsValueBlended),
			SavingsValueActive:  moneyPtr(p.SavingsValueActive),
		})
	}
	return &out
}
