package cli

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/j-veylop/cc-economics/internal/logger"
	"github.com/j-veylop/cc-economics/internal/models"
	"github.com/j-veylop/cc-economics/internal/report"
	"github.com/j-veylop/cc-economics/internal/spend"
)

// selectionFromFlags maps the granularity flags to a Selection. --all wins
// over the individual flags.
func selectionFromFlags(cmd *cli.Command) models.Selection {
	if cmd.Bool("all") {
		return models.AllSelection()
	}
	return models.Selection{
		Daily:   cmd.Bool("daily"),
		Weekly:  cmd.Bool("weekly"),
		Monthly: cmd.Bool("monthly"),
	}
}

func reportCommand(e *env) *cli.Command {
	return &cli.Command{
		Name:  "report",
		Usage: "Show spend, savings and savings value per period",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "daily", Aliases: []string{"d"}, Usage: "Per-day breakdown"},
			&cli.BoolFlag{Name: "weekly", Aliases: []string{"w"}, Usage: "Per-week breakdown (weeks start Monday)"},
			&cli.BoolFlag{Name: "monthly", Aliases: []string{"m"}, Usage: "Per-month breakdown with totals"},
			&cli.BoolFlag{Name: "all", Aliases: []string{"a"}, Usage: "Every granularity"},
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Value:   string(report.FormatText),
				Usage:   "Output format: text, json, csv or yaml",
			},
			&cli.StringFlag{
				Name:  "prom-textfile",
				Usage: "Also write totals as Prometheus metrics to this file",
			},
			&cli.StringFlag{
				Name:  "spend-file",
				Usage: "Read spend from a ccusage JSON export instead of running ccusage",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			format, err := report.ParseFormat(cmd.String("format"))
			if err != nil {
				return err
			}

			mgr, err := e.manager()
			if err != nil {
				return err
			}
			defer closeManager(mgr)

			if path := cmd.String("spend-file"); path != "" {
				mgr.SetSpendSource(&spend.FileSource{Path: path})
			}

			sel := selectionFromFlags(cmd)
			// The summary card is a text view. Structured formats only carry
			// the granularities that were asked for.
			summary := sel.None() && format == report.FormatText

			r := &models.Report{}
			switch {
			case summary:
				r, err = mgr.Summary(ctx)
			case !sel.None():
				r, err = mgr.Build(ctx, sel)
			}
			if err != nil {
				return fmt.Errorf("failed to build report: %w", err)
			}

			if path := cmd.String("prom-textfile"); path != "" {
				if err := report.WriteTextfile(path, r); err != nil {
					return err
				}
				logger.Debug("wrote metrics textfile", "path", path)
			}

			return report.Write(cmd.Root().Writer, format, r, summary)
		},
	}
}
