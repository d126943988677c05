// Package models defines data structures and domain types.
package models

import "time"

// TrackedCommand is one row of the savings ledger.
type TrackedCommand struct {
	Timestamp    time.Time
	OriginalCmd  string
	FilteredCmd  string
	ID           int64
	InputTokens  int64 // tokens the unfiltered output would have cost
	OutputTokens int64 // tokens actually emitted after filtering
	SavedTokens  int64
	SavingsPct   float64
	ExecTimeMs   int64
}

// DayStats summarizes the savings ledger for one calendar day.
type DayStats struct {
	Date         string // YYYY-MM-DD
	Commands     int
	InputTokens  int64
	OutputTokens int64
	SavedTokens  int64
	SavingsPct   float64
}

// WeekStats summarizes the savings ledger for one week. Weeks start on
// Saturday in the ledger.
type WeekStats struct {
	WeekStart    string // YYYY-MM-DD, a Saturday
	WeekEnd      string // YYYY-MM-DD, the following Friday
	Commands     int
	InputTokens  int64
	OutputTokens int64
	SavedTokens  int64
	SavingsPct   float64
}

// MonthStats summarizes the savings ledger for one calendar month. The
// ledger does not precompute a percentage at this granularity.
type MonthStats struct {
	Month        string // YYYY-MM
	Commands     int
	InputTokens  int64
	OutputTokens int64
	SavedTokens  int64
}
