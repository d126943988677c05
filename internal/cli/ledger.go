package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/j-veylop/cc-economics/internal/logger"
	"github.com/j-veylop/cc-economics/internal/models"
	"github.com/j-veylop/cc-economics/internal/report"
)

const defaultHistoryLimit = 20

func trackCommand(e *env) *cli.Command {
	return &cli.Command{
		Name:  "track",
		Usage: "Record one filtered command in the savings ledger",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "original", Usage: "Command as typed", Required: true},
			&cli.StringFlag{Name: "filtered", Usage: "Command that actually ran"},
			&cli.Int64Flag{Name: "input", Usage: "Tokens the unfiltered output would have used"},
			&cli.Int64Flag{Name: "output", Usage: "Tokens of the filtered output"},
			&cli.Int64Flag{Name: "exec-ms", Usage: "Execution time in milliseconds"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			input, output := cmd.Int64("input"), cmd.Int64("output")
			if input < 0 || output < 0 {
				return errors.New("token counts must not be negative")
			}

			mgr, err := e.manager()
			if err != nil {
				return err
			}
			defer closeManager(mgr)

			filtered := cmd.String("filtered")
			if filtered == "" {
				filtered = cmd.String("original")
			}

			tracked := &models.TrackedCommand{
				Timestamp:    time.Now().UTC(),
				OriginalCmd:  cmd.String("original"),
				FilteredCmd:  filtered,
				InputTokens:  input,
				OutputTokens: output,
				ExecTimeMs:   cmd.Int64("exec-ms"),
			}
			if err := mgr.Database().InsertCommand(ctx, tracked); err != nil {
				return err
			}

			_, err = fmt.Fprintf(cmd.Root().Writer, "Recorded #%d: saved %d tokens (%.1f%%)\n",
				tracked.ID, tracked.SavedTokens, tracked.SavingsPct)
			return err
		},
	}
}

func pruneCommand(e *env) *cli.Command {
	return &cli.Command{
		Name:  "prune",
		Usage: "Delete savings ledger rows older than the retention window",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "days", Usage: "Retention window in days (default from SAVINGS_RETENTION_DAYS)"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			days := e.cfg.RetentionDays
			if cmd.IsSet("days") {
				days = cmd.Int("days")
			}
			if days <= 0 {
				return fmt.Errorf("retention must be at least one day, got %d", days)
			}

			mgr, err := e.manager()
			if err != nil {
				return err
			}
			defer closeManager(mgr)

			removed, err := mgr.Database().CleanupOlderThan(ctx, days)
			if err != nil {
				return err
			}
			if removed > 0 {
				if err := mgr.Database().Vacuum(); err != nil {
					logger.Warn("failed to vacuum ledger", "error", err)
				}
			}

			_, err = fmt.Fprintf(cmd.Root().Writer, "Removed %d commands older than %d days\n", removed, days)
			return err
		},
	}
}

func historyCommand(e *env) *cli.Command {
	return &cli.Command{
		Name:  "history",
		Usage: "List the most recently tracked commands",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "limit", Aliases: []string{"n"}, Value: defaultHistoryLimit, Usage: "Number of commands to show"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			limit := cmd.Int("limit")
			if limit <= 0 {
				return fmt.Errorf("limit must be positive, got %d", limit)
			}

			mgr, err := e.manager()
			if err != nil {
				return err
			}
			defer closeManager(mgr)

			cmds, err := mgr.Database().GetRecentCommands(ctx, limit)
			if err != nil {
				return err
			}
			total, err := mgr.Database().CountCommands(ctx)
			if err != nil {
				return err
			}

			return report.WriteCommands(cmd.Root().Writer, cmds, total)
		},
	}
}
