package economics

import "github.com/j-veylop/cc-economics/internal/models"

func ptr[T any](v T) *T {
	return &v
}

// costPerToken divides cost by tokens. Zero tokens yields no rate.
func costPerToken(cost float64, tokens uint64) (float64, bool) {
	if tokens == 0 {
		return 0, false
	}
	return cost / float64(tokens), true
}

// ComputeDualMetrics fills the blended and active rates of p and the savings
// value each one implies. Fields stay nil when cost or saved tokens are
// missing, or when the matching token count is absent or zero.
func ComputeDualMetrics(p *models.PeriodEconomics) {
	if p.SpendCost == nil || p.SavingsTokens == nil {
		return
	}
	cost := *p.SpendCost
	saved := float64(*p.SavingsTokens)

	if p.SpendTotalTokens != nil {
		if cpt, ok := costPerToken(cost, *p.SpendTotalTokens); ok {
			p.BlendedCostPerToken = ptr(cpt)
			p.SavingsValueBlended = ptr(saved * cpt)
		}
	}

	if p.SpendActiveTokens != nil {
		if cpt, ok := costPerToken(cost, *p.SpendActiveTokens); ok {
			p.ActiveCostPerToken = ptr(cpt)
			p.SavingsValueActive = ptr(saved * cpt)
		}
	}
}
