// Package cli defines the cce command line.
package cli

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/urfave/cli/v3"

	"github.com/j-veylop/cc-economics/internal/config"
	"github.com/j-veylop/cc-economics/internal/logger"
	"github.com/j-veylop/cc-economics/internal/services"
	"github.com/j-veylop/cc-economics/internal/version"
)

const debugFlag = "debug"

// env carries state shared by every subcommand of one invocation.
type env struct {
	cfg *config.Config

	loadConfig func() (*config.Config, error)
	newManager func(*config.Config) (*services.Manager, error)
}

func newEnv() *env {
	return &env{
		loadConfig: config.Load,
		newManager: services.NewManager,
	}
}

// manager opens the service manager for the loaded configuration.
func (e *env) manager() (*services.Manager, error) {
	mgr, err := e.newManager(e.cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize services: %w", err)
	}
	return mgr, nil
}

// RootCommand returns the cce command tree.
func RootCommand() *cli.Command {
	return rootCommand(newEnv())
}

func rootCommand(e *env) *cli.Command {
	return &cli.Command{
		Name:            "cce",
		Usage:           "Reconcile LLM spend with token savings",
		Version:         version.GetVersion(),
		HideHelpCommand: true,
		DefaultCommand:  "report",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  debugFlag,
				Usage: "Enable debug output",
			},
		},
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			cfg, err := e.loadConfig()
			if err != nil {
				return ctx, fmt.Errorf("failed to load configuration: %w", err)
			}
			e.cfg = cfg

			if cmd.Bool(debugFlag) {
				logger.SetLevel(slog.LevelDebug)
			} else {
				logger.SetLevel(logger.ParseLevel(cfg.LogLevel))
			}
			return ctx, nil
		},
		Commands: []*cli.Command{
			reportCommand(e),
			trackCommand(e),
			pruneCommand(e),
			historyCommand(e),
			watchCommand(e),
			versionCommand(),
		},
	}
}

func versionCommand() *cli.Command {
	return &cli.Command{
		Name:  "version",
		Usage: "Print version information",
		Action: func(_ context.Context, cmd *cli.Command) error {
			_, err := fmt.Fprintln(cmd.Root().Writer, version.Info())
			return err
		},
	}
}

// closeManager closes mgr and logs failures.
func closeManager(mgr *services.Manager) {
	if err := mgr.Close(); err != nil {
		logger.Warn("error closing services", "error", err)
	}
}
