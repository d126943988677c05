package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/j-veylop/cc-economics/internal/logger"
	"github.com/j-veylop/cc-economics/internal/models"
)

var timeFormats = []string{
	time.RFC3339,
	time.RFC3339Nano,
	"2006-01-02T15:04:05Z",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05 -0700 MST",
	"2006-01-02 15:04:05 +0000 UTC",
}

func parseTimeString(s string) (time.Time, bool) {
	for _, format := range timeFormats {
		if t, err := time.Parse(format, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// InsertCommand records one tracked command in the ledger. SavedTokens and
// SavingsPct are derived from the token counts when left at zero. Rows older
// than the retention window are removed afterwards.
func (db *DB) InsertCommand(ctx context.Context, cmd *models.TrackedCommand) error {
	query := `
		INSERT INTO commands (
			timestamp, original_cmd, rtk_cmd, input_tokens, output_tokens,
			saved_tokens, savings_pct, exec_time_ms
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	timestamp := cmd.Timestamp
	if timestamp.IsZero() {
		timestamp = time.Now()
	}
	if cmd.SavedTokens == 0 && cmd.InputTokens > cmd.OutputTokens {
		cmd.SavedTokens = cmd.InputTokens - cmd.OutputTokens
	}
	if cmd.SavingsPct == 0 {
		cmd.SavingsPct = savingsPct(cmd.SavedTokens, cmd.InputTokens)
	}

	result, err := db.ExecContext(ctx, query,
		timestamp.UTC().Format(timestampLayout),
		cmd.OriginalCmd,
		cmd.FilteredCmd,
		cmd.InputTokens,
		cmd.OutputTokens,
		cmd.SavedTokens,
		cmd.SavingsPct,
		cmd.ExecTimeMs,
	)
	if err != nil {
		return fmt.Errorf("failed to insert command: %w", err)
	}

	id, err := result.LastInsertId()
	if err == nil {
		cmd.ID = id
	}

	if db.retentionDays > 0 {
		if _, err := db.CleanupOlderThan(ctx, db.retentionDays); err != nil {
			logger.Warn("failed to clean up old commands", "error", err)
		}
	}

	return nil
}

// CleanupOlderThan deletes commands recorded more than days ago and returns
// the number of rows removed.
func (db *DB) CleanupOlderThan(ctx context.Context, days int) (int64, error) {
	cutoff := time.Now().UTC().AddDate(0, 0, -days).Format(timestampLayout)
	result, err := db.ExecContext(ctx, "DELETE FROM commands WHERE timestamp < ?", cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to clean up commands: %w", err)
	}
	return result.RowsAffected()
}

// CountCommands returns the number of rows in the ledger.
func (db *DB) CountCommands(ctx context.Context) (int, error) {
	var n int
	if err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM commands").Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count commands: %w", err)
	}
	return n, nil
}

// GetRecentCommands returns the most recent tracked commands, newest first.
func (db *DB) GetRecentCommands(ctx context.Context, limit int) ([]models.TrackedCommand, error) {
	query := `
		SELECT id, timestamp, original_cmd, rtk_cmd, input_tokens, output_tokens,
			   saved_tokens, savings_pct, exec_time_ms
		FROM commands
		ORDER BY timestamp DESC
		LIMIT ?
	`

	rows, err := db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query recent commands: %w", err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			logger.Error("failed to close rows", "error", err)
		}
	}()

	var cmds []models.TrackedCommand
	for rows.Next() {
		var cmd models.TrackedCommand
		var ts string
		var execMs sql.NullInt64

		err := rows.Scan(
			&cmd.ID,
			&ts,
			&cmd.OriginalCmd,
			&cmd.FilteredCmd,
			&cmd.InputTokens,
			&cmd.OutputTokens,
			&cmd.SavedTokens,
			&cmd.SavingsPct,
			&execMs,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan command: %w", err)
		}

		if t, ok := parseTimeString(ts); ok {
			cmd.Timestamp = t
		}
		cmd.ExecTimeMs = execMs.Int64
		cmds = append(cmds, cmd)
	}

	return cmds, rows.Err()
}

// savingsPct is saved / input * 100, or 0 without input.
func savingsPct(saved, input int64) float64 {
	if input <= 0 {
		return 0
	}
	return float64(saved) / float64(input) * 100
}
