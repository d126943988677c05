package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/urfave/cli/v3"

	"github.com/j-veylop/cc-economics/internal/app"
	"github.com/j-veylop/cc-economics/internal/config"
	"github.com/j-veylop/cc-economics/internal/logger"
	"github.com/j-veylop/cc-economics/internal/models"
	"github.com/j-veylop/cc-economics/internal/services"
	"github.com/j-veylop/cc-economics/internal/spend"
	"github.com/j-veylop/cc-economics/internal/ui/tabs/periods"
)

const logFileName = "cce.log"

// newDashboard builds the root model with one tab per granularity.
func newDashboard(mgr *services.Manager) *app.Model {
	model := app.NewModel(mgr)

	state := model.GetState()
	tabs := make([]app.Tab, len(models.Granularities))
	for i, g := range models.Granularities {
		tabs[i] = periods.New(state, g)
	}
	model.SetTabs(tabs)

	return model
}

// logToFile moves logging next to the ledger while the dashboard owns the
// terminal.
func logToFile(cfg *config.Config, debug bool) (func(), error) {
	path := filepath.Join(filepath.Dir(cfg.DatabasePath), logFileName)
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}

	levelName := cfg.LogLevel
	if debug {
		levelName = "debug"
	}
	logger.Setup(f, levelName)
	logger.Info("dashboard started", "ledger", cfg.DatabasePath)

	return func() {
		logger.Setup(os.Stderr, levelName)
		_ = f.Close()
	}, nil
}

func watchCommand(e *env) *cli.Command {
	return &cli.Command{
		Name:  "watch",
		Usage: "Open the live dashboard, reloading when the savings ledger changes",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "spend-file",
				Usage: "Read spend from a ccusage JSON export instead of running ccusage",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			closeLog, err := logToFile(e.cfg, cmd.Root().Bool(debugFlag))
			if err != nil {
				return err
			}
			defer closeLog()

			mgr, err := e.manager()
			if err != nil {
				return err
			}
			defer closeManager(mgr)

			if path := cmd.String("spend-file"); path != "" {
				mgr.SetSpendSource(&spend.FileSource{Path: path})
			}

			ctx, cancel := context.WithCancel(ctx)
			defer cancel()

			if err := mgr.Watch(ctx); err != nil {
				return err
			}

			p := tea.NewProgram(newDashboard(mgr), tea.WithAltScreen(), tea.WithContext(ctx))

			sigChan := make(chan os.Signal, 1)
			signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
			defer signal.Stop(sigChan)

			go func() {
				select {
				case <-sigChan:
					logger.Debug("received signal, quitting dashboard")
					p.Send(tea.Quit())
				case <-ctx.Done():
				}
			}()

			if _, err := p.Run(); err != nil {
				return fmt.Errorf("error running dashboard: %w", err)
			}
			return nil
		},
	}
}
