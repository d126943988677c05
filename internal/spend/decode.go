// Package spend loads the spend ledger produced by ccusage.
package spend

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/j-veylop/cc-economics/internal/models"
)

// period mirrors one entry of ccusage's --json output. Only one of Date,
// Week and Month is set, depending on the report.
type period struct {
	Date                string  `json:"date"`
	Week                string  `json:"week"`
	Month               string  `json:"month"`
	InputTokens         uint64  `json:"inputTokens"`
	OutputTokens        uint64  `json:"outputTokens"`
	CacheCreationTokens uint64  `json:"cacheCreationTokens"`
	CacheReadTokens     uint64  `json:"cacheReadTokens"`
	TotalTokens         uint64  `json:"totalTokens"`
	TotalCost           float64 `json:"totalCost"`
}

type document struct {
	Daily   []period `json:"daily"`
	Weekly  []period `json:"weekly"`
	Monthly []period `json:"monthly"`
}

// Decode parses a ccusage JSON report for granularity g.
func Decode(r io.Reader, g models.Granularity) ([]models.SpendPeriod, error) {
	var doc document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to decode ccusage %s report: %w", g, err)
	}

	var entries []period
	switch g {
	case models.Daily:
		entries = doc.Daily
	case models.Weekly:
		entries = doc.Weekly
	case models.Monthly:
		entries = doc.Monthly
	default:
		return nil, fmt.Errorf("unsupported granularity %d", g)
	}

	out := make([]models.SpendPeriod, 0, len(entries))
	for _, e := range entries {
		key := e.key(g)
		if key == "" {
			return nil, fmt.Errorf("ccusage %s entry without period key", g)
		}
		out = append(out, models.SpendPeriod{
			Key: key,
			Metrics: models.SpendMetrics{
				InputTokens:         e.InputTokens,
				OutputTokens:        e.OutputTokens,
				CacheCreationTokens: e.CacheCreationTokens,
				CacheReadTokens:     e.CacheReadTokens,
				TotalTokens:         e.TotalTokens,
				TotalCost:           e.TotalCost,
			},
		})
	}
	return out, nil
}

func (p period) key(g models.Granularity) string {
	switch g {
	case models.Daily:
		return p.Date
	case models.Weekly:
		return p.Week
	default:
		return p.Month
	}
}
