// Package models defines data structures and domain types.
package models

// SpendMetrics holds the token and cost counters of one spend-ledger period.
type SpendMetrics struct {
	InputTokens         uint64
	OutputTokens        uint64
	CacheCreationTokens uint64
	CacheReadTokens     uint64
	TotalTokens         uint64
	TotalCost           float64
}

// ActiveTokens returns fresh input plus output, excluding cache traffic.
func (m SpendMetrics) ActiveTokens() uint64 {
	return m.InputTokens + m.OutputTokens
}

// SpendPeriod is one entry of the spend ledger. Key is a date for daily and
// weekly (the ISO Monday) periods, or YYYY-MM for monthly ones.
type SpendPeriod struct {
	Key     string
	Metrics SpendMetrics
}
