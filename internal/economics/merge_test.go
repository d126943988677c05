package economics

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/j-veylop/cc-economics/internal/logger"
	"github.com/j-veylop/cc-economics/internal/models"
)

func januarySpend() []models.SpendPeriod {
	return []models.SpendPeriod{{
		Key: "2026-01",
		Metrics: models.SpendMetrics{
			InputTokens:         1000,
			OutputTokens:        500,
			CacheCreationTokens: 100,
			CacheReadTokens:     200,
			TotalTokens:         1800,
			TotalCost:           12.34,
		},
	}}
}

func januarySavings() []models.MonthStats {
	return []models.MonthStats{{
		Month:        "2026-01",
		Commands:     10,
		InputTokens:  800,
		OutputTokens: 400,
		SavedTokens:  5000,
	}}
}

func TestMergeMonthlyBothPresent(t *testing.T) {
	merged := MergeMonthly(januarySpend(), januarySavings())
	require.Len(t, merged, 1)

	p := merged[0]
	assert.Equal(t, "2026-01", p.Label)
	require.NotNil(t, p.SpendCost)
	assert.Equal(t, 12.34, *p.SpendCost)
	assert.Equal(t, uint64(1500), *p.SpendActiveTokens)
	assert.Equal(t, uint64(1800), *p.SpendTotalTokens)
	assert.Equal(t, 10, *p.SavingsCommands)
	assert.Equal(t, int64(5000), *p.SavingsTokens)
	require.NotNil(t, p.BlendedCostPerToken)
	assert.Equal(t, 12.34/1800, *p.BlendedCostPerToken)
	require.NotNil(t, p.ActiveCostPerToken)
	assert.Equal(t, 12.34/1500, *p.ActiveCostPerToken)
	require.NotNil(t, p.SavingsPct)
	assert.InDelta(t, 5000.0/6200.0*100, *p.SavingsPct, 1e-9)
}

func TestMergeMonthlyOnlySpend(t *testing.T) {
	merged := MergeMonthly(januarySpend(), nil)
	require.Len(t, merged, 1)

	p := merged[0]
	assert.Equal(t, 12.34, *p.SpendCost)
	assert.Nil(t, p.SavingsCommands)
	assert.Nil(t, p.SavingsTokens)
	assert.Nil(t, p.SavingsPct)
	assert.Nil(t, p.SavingsValueActive)
	assert.Nil(t, p.SavingsValueBlended)
}

func TestMergeMonthlyOnlySavings(t *testing.T) {
	merged := MergeMonthly(nil, januarySavings())
	require.Len(t, merged, 1)

	p := merged[0]
	assert.Nil(t, p.SpendCost)
	assert.Nil(t, p.SpendTotalTokens)
	assert.Nil(t, p.SpendActiveTokens)
	assert.Nil(t, p.BlendedCostPerToken)
	assert.Nil(t, p.ActiveCostPerToken)
	assert.Equal(t, 10, *p.SavingsCommands)
}

func TestMergeMonthlySorted(t *testing.T) {
	savings := []models.MonthStats{
		{Month: "2026-03", Commands: 5, InputTokens: 100, OutputTokens: 50, SavedTokens: 1000},
		{Month: "2026-01", Commands: 10, InputTokens: 200, OutputTokens: 100, SavedTokens: 2000},
	}
	spend := []models.SpendPeriod{{Key: "2026-02", Metrics: models.SpendMetrics{TotalCost: 1}}}

	merged := MergeMonthly(spend, savings)
	require.Len(t, merged, 3)
	assert.Equal(t, "2026-01", merged[0].Label)
	assert.Equal(t, "2026-02", merged[1].Label)
	assert.Equal(t, "2026-03", merged[2].Label)
}

func TestMonthSavingsPct(t *testing.T) {
	tests := []struct {
		name  string
		stats models.MonthStats
		want  float64
	}{
		{"Typical", models.MonthStats{SavedTokens: 50, InputTokens: 30, OutputTokens: 20}, 50},
		{"NoTraffic", models.MonthStats{}, 0},
		{"NothingSaved", models.MonthStats{InputTokens: 10, OutputTokens: 10}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, MonthSavingsPct(tt.stats), 1e-9)
		})
	}
}

func TestMergeDailyJoinsOnDate(t *testing.T) {
	spend := []models.SpendPeriod{
		{Key: "2026-01-20", Metrics: models.SpendMetrics{InputTokens: 10, OutputTokens: 10, TotalTokens: 40, TotalCost: 2}},
		{Key: "2026-01-21", Metrics: models.SpendMetrics{InputTokens: 5, OutputTokens: 5, TotalTokens: 10, TotalCost: 1}},
	}
	savings := []models.DayStats{
		{Date: "2026-01-21", Commands: 3, SavedTokens: 100, SavingsPct: 75},
		{Date: "2026-01-22", Commands: 1, SavedTokens: 7, SavingsPct: 10},
	}

	merged := MergeDaily(spend, savings)
	require.Len(t, merged, 3)

	assert.Equal(t, "2026-01-20", merged[0].Label)
	assert.True(t, merged[0].HasSpend())
	assert.False(t, merged[0].HasSavings())

	assert.Equal(t, "2026-01-21", merged[1].Label)
	assert.Equal(t, 75.0, *merged[1].SavingsPct)
	require.NotNil(t, merged[1].SavingsValueActive)
	assert.InDelta(t, 10.0, *merged[1].SavingsValueActive, 1e-9)

	assert.Equal(t, "2026-01-22", merged[2].Label)
	assert.False(t, merged[2].HasSpend())
	assert.Nil(t, merged[2].SavingsValueBlended)
}

func TestMergeWeeklyAlignsSaturdayToMonday(t *testing.T) {
	spend := []models.SpendPeriod{
		{Key: "2026-01-20", Metrics: models.SpendMetrics{InputTokens: 100, OutputTokens: 100, TotalTokens: 1000, TotalCost: 10}},
	}
	savings := []models.WeekStats{
		{WeekStart: "2026-01-18", WeekEnd: "2026-01-24", Commands: 4, SavedTokens: 50, SavingsPct: 20},
	}

	merged := MergeWeekly(spend, savings)
	require.Len(t, merged, 1)
	p := merged[0]
	assert.Equal(t, "2026-01-20", p.Label)
	assert.True(t, p.HasSpend())
	assert.True(t, p.HasSavings())
	assert.InDelta(t, 0.5, *p.SavingsValueBlended, 1e-12)
	assert.InDelta(t, 2.5, *p.SavingsValueActive, 1e-12)
}

func TestMergeWeeklyDropsInvalidWeekStart(t *testing.T) {
	var buf bytes.Buffer
	original := logger.Logger
	logger.Logger = slog.New(slog.NewJSONHandler(&buf, nil))
	defer func() { logger.Logger = original }()

	savings := []models.WeekStats{
		{WeekStart: "not-a-date", Commands: 9, SavedTokens: 900},
		{WeekStart: "2026-01-25", Commands: 1, SavedTokens: 10},
	}

	merged := MergeWeekly(nil, savings)
	require.Len(t, merged, 1)
	assert.Equal(t, "2026-01-27", merged[0].Label)
	assert.Equal(t, 1, *merged[0].SavingsCommands)
	assert.Contains(t, buf.String(), "not-a-date")
	assert.Contains(t, buf.String(), "WARN")
}

func TestMergeLabelsUniqueAndSorted(t *testing.T) {
	spend := []models.SpendPeriod{
		{Key: "2026-01-03"}, {Key: "2026-01-01"}, {Key: "2026-01-02"},
	}
	savings := []models.DayStats{
		{Date: "2026-01-02"}, {Date: "2026-01-04"}, {Date: "2026-01-01"},
	}

	merged := MergeDaily(spend, savings)
	require.Len(t, merged, 4)
	seen := make(map[string]bool)
	for i, p := range merged {
		assert.False(t, seen[p.Label], "duplicate label %s", p.Label)
		seen[p.Label] = true
		if i > 0 {
			assert.Less(t, merged[i-1].Label, p.Label)
		}
	}
}

func TestMergeEmptyInputs(t *testing.T) {
	assert.Empty(t, MergeDaily(nil, nil))
	assert.Empty(t, MergeWeekly(nil, []models.WeekStats{}))
	assert.Empty(t, MergeMonthly([]models.SpendPeriod{}, nil))
}
