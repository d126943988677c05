package economics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/j-veylop/cc-economics/internal/models"
)

func TestComputeTotals(t *testing.T) {
	periods := []models.PeriodEconomics{
		{
			Label:             "2026-01",
			SpendCost:         ptr(100.0),
			SpendTotalTokens:  ptr(uint64(1_000_000)),
			SpendActiveTokens: ptr(uint64(10_000)),
			SavingsCommands:   ptr(5),
			SavingsTokens:     ptr(int64(2000)),
			SavingsPct:        ptr(50.0),
		},
		{
			Label:             "2026-02",
			SpendCost:         ptr(200.0),
			SpendTotalTokens:  ptr(uint64(2_000_000)),
			SpendActiveTokens: ptr(uint64(20_000)),
			SavingsCommands:   ptr(10),
			SavingsTokens:     ptr(int64(3000)),
			SavingsPct:        ptr(60.0),
		},
	}

	totals := ComputeTotals(periods)
	assert.Equal(t, 300.0, totals.SpendCost)
	assert.Equal(t, uint64(3_000_000), totals.SpendTotalTokens)
	assert.Equal(t, uint64(30_000), totals.SpendActiveTokens)
	assert.Equal(t, 15, totals.SavingsCommands)
	assert.Equal(t, int64(5000), totals.SavingsTokens)
	assert.Equal(t, 55.0, totals.AvgSavingsPct)
	require.NotNil(t, totals.BlendedCostPerToken)
	require.NotNil(t, totals.ActiveCostPerToken)
	assert.Equal(t, uint64(2_970_000), totals.CacheTokens())
}

func TestComputeTotalsWeightsByVolume(t *testing.T) {
	periods := []models.PeriodEconomics{
		{Label: "2026-01", SpendCost: ptr(100.0), SpendTotalTokens: ptr(uint64(1_000_000)), SpendActiveTokens: ptr(uint64(100_000))},
		{Label: "2026-02", SpendCost: ptr(50.0), SpendTotalTokens: ptr(uint64(4_000_000)), SpendActiveTokens: ptr(uint64(400_000))},
	}
	for i := range periods {
		periods[i].SavingsTokens = ptr(int64(1000))
		ComputeDualMetrics(&periods[i])
	}

	totals := ComputeTotals(periods)
	require.NotNil(t, totals.BlendedCostPerToken)

	summed := 150.0 / 5_000_000.0
	averaged := (*periods[0].BlendedCostPerToken + *periods[1].BlendedCostPerToken) / 2
	assert.InDelta(t, summed, *totals.BlendedCostPerToken, 1e-15)
	assert.NotEqual(t, averaged, *totals.BlendedCostPerToken)

	require.NotNil(t, totals.SavingsValueActive)
	assert.InDelta(t, 2000*150.0/500_000.0, *totals.SavingsValueActive, 1e-12)
}

func TestComputeTotalsSkipsAbsentFields(t *testing.T) {
	periods := []models.PeriodEconomics{
		{Label: "2026-01", SavingsCommands: ptr(3), SavingsTokens: ptr(int64(30)), SavingsPct: ptr(40.0)},
		{Label: "2026-02", SpendCost: ptr(5.0), SpendTotalTokens: ptr(uint64(50)), SpendActiveTokens: ptr(uint64(10))},
		{Label: "2026-03", SavingsCommands: ptr(1), SavingsTokens: ptr(int64(10)), SavingsPct: ptr(20.0)},
	}

	totals := ComputeTotals(periods)
	assert.Equal(t, 5.0, totals.SpendCost)
	assert.Equal(t, 4, totals.SavingsCommands)
	assert.Equal(t, int64(40), totals.SavingsTokens)
	assert.InDelta(t, 30.0, totals.AvgSavingsPct, 1e-12)
	require.NotNil(t, totals.SavingsValueBlended)
	assert.InDelta(t, 40*0.1, *totals.SavingsValueBlended, 1e-12)
}

func TestComputeTotalsEmpty(t *testing.T) {
	totals := ComputeTotals(nil)
	assert.Zero(t, totals.SpendCost)
	assert.Zero(t, totals.AvgSavingsPct)
	assert.Nil(t, totals.BlendedCostPerToken)
	assert.Nil(t, totals.ActiveCostPerToken)
	assert.Nil(t, totals.SavingsValueBlended)
	assert.Nil(t, totals.SavingsValueActive)
}
