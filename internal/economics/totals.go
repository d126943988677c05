package economics

import "github.com/j-veylop/cc-economics/internal/models"

// ComputeTotals aggregates periods into one summary row.
//
// Absent fields contribute nothing to the sums. AvgSavingsPct averages only
// the periods that report a percentage. The dual metrics are recomputed from
// the summed cost and token counts so that each period is weighted by its
// volume; they are not the mean of the per-period rates.
func ComputeTotals(periods []models.PeriodEconomics) models.Totals {
	var totals models.Totals
	var pctSum float64
	var pctCount int

	for _, p := range periods {
		if p.SpendCost != nil {
			totals.SpendCost += *p.SpendCost
		}
		if p.SpendTotalTokens != nil {
			totals.SpendTotalTokens += *p.SpendTotalTokens
		}
		if p.SpendActiveTokens != nil {
			totals.SpendActiveTokens += *p.SpendActiveTokens
		}
		if p.SavingsCommands != nil {
			totals.SavingsCommands += *p.SavingsCommands
		}
		if p.SavingsTokens != nil {
			totals.SavingsTokens += *p.SavingsTokens
		}
		if p.SavingsPct != nil {
			pctSum += *p.SavingsPct
			pctCount++
		}
	}

	if pctCount > 0 {
		totals.AvgSavingsPct = pctSum / float64(pctCount)
	}

	saved := float64(totals.SavingsTokens)
	if cpt, ok := costPerToken(totals.SpendCost, totals.SpendTotalTokens); ok {
		totals.BlendedCostPerToken = ptr(cpt)
		totals.SavingsValueBlended = ptr(saved * cpt)
	}
	if cpt, ok := costPerToken(totals.SpendCost, totals.SpendActiveTokens); ok {
		totals.ActiveCostPerToken = ptr(cpt)
		totals.SavingsValueActive = ptr(saved * cpt)
	}

	return totals
}
