package db

import (
	"context"
	"fmt"

	"github.com/j-veylop/cc-economics/internal/models"
)

// GetAllDays returns the ledger summarized per calendar day, oldest first.
func (db *DB) GetAllDays(ctx context.Context) ([]models.DayStats, error) {
	query := `
		SELECT
			DATE(timestamp) as day,
			COUNT(*) as commands,
			COALESCE(SUM(input_tokens), 0),
			COALESCE(SUM(output_tokens), 0),
			COALESCE(SUM(saved_tokens), 0)
		FROM commands
		WHERE DATE(timestamp) IS NOT NULL
		GROUP BY day
		ORDER BY day ASC
	`

	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query daily savings: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var stats []models.DayStats
	for rows.Next() {
		var s models.DayStats
		if err := rows.Scan(&s.Date, &s.Commands, &s.InputTokens, &s.OutputTokens, &s.SavedTokens); err != nil {
			return nil, fmt.Errorf("failed to scan daily savings: %w", err)
		}
		s.SavingsPct = savingsPct(s.SavedTokens, s.InputTokens)
		stats = append(stats, s)
	}

	return stats, rows.Err()
}

// GetByWeek returns the ledger summarized per week, oldest first. Weeks start
// on Saturday and end on the following Friday.
func (db *DB) GetByWeek(ctx context.Context) ([]models.WeekStats, error) {
	query := fmt.Sprintf(`
		SELECT
			%[1]s as week_start,
			DATE(%[1]s, '+6 days') as week_end,
			COUNT(*) as commands,
			COALESCE(SUM(input_tokens), 0),
			COALESCE(SUM(output_tokens), 0),
			COALESCE(SUM(saved_tokens), 0)
		FROM commands
		WHERE DATE(timestamp) IS NOT NULL
		GROUP BY week_start
		ORDER BY week_start ASC
	`, sqlWeekStart)

	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query weekly savings: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var stats []models.WeekStats
	for rows.Next() {
		var s models.WeekStats
		err := rows.Scan(
			&s.WeekStart, &s.WeekEnd, &s.Commands,
			&s.InputTokens, &s.OutputTokens, &s.SavedTokens,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan weekly savings: %w", err)
		}
		s.SavingsPct = savingsPct(s.SavedTokens, s.InputTokens)
		stats = append(stats, s)
	}

	return stats, rows.Err()
}

// GetByMonth returns the ledger summarized per calendar month, oldest first.
func (db *DB) GetByMonth(ctx context.Context) ([]models.MonthStats, error) {
	query := `
		SELECT
			strftime('%Y-%m', timestamp) as month,
			COUNT(*) as commands,
			COALESCE(SUM(input_tokens), 0),
			COALESCE(SUM(output_tokens), 0),
			COALESCE(SUM(saved_tokens), 0)
		FROM commands
		WHERE DATE(timestamp) IS NOT NULL
		GROUP BY month
		ORDER BY month ASC
	`

	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query monthly savings: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var stats []models.MonthStats
	for rows.Next() {
		var s models.MonthStats
		if err := rows.Scan(&s.Month, &s.Commands, &s.InputTokens, &s.OutputTokens, &s.SavedTokens); err != nil {
			return nil, fmt.Errorf("failed to scan monthly savings: %w", err)
		}
		stats = append(stats, s)
	}

	return stats, rows.Err()
}
