// Package services orchestrates the ledgers and the reconciliation engine.
package services

import (
	"context"
	"errors"
	"fmt"
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/j-veylop/cc-economics/internal/config"
	"github.com/j-veylop/cc-economics/internal/db"
	"github.com/j-veylop/cc-economics/internal/economics"
	"github.com/j-veylop/cc-economics/internal/logger"
	"github.com/j-veylop/cc-economics/internal/models"
	"github.com/j-veylop/cc-economics/internal/services/watcher"
	"github.com/j-veylop/cc-economics/internal/spend"
)

// ErrNoSelection is returned by Build when no granularity was requested.
var ErrNoSelection = errors.New("no granularity selected")

// SavingsLedger is the read side of the savings ledger.
type SavingsLedger interface {
	GetAllDays(ctx context.Context) ([]models.DayStats, error)
	GetByWeek(ctx context.Context) ([]models.WeekStats, error)
	GetByMonth(ctx context.Context) ([]models.MonthStats, error)
}

type (
	// LedgerChangedEvent is emitted when the savings ledger file changes.
	LedgerChangedEvent struct {
		Path string
	}

	// ErrorEvent is emitted when an error occurs in any service.
	ErrorEvent struct {
		Service string
		Error   error
	}
)

// ServiceEvent is the interface implemented by all service events.
type ServiceEvent interface {
	isServiceEvent()
}

func (LedgerChangedEvent) isServiceEvent() {}
func (ErrorEvent) isServiceEvent()         {}

// Manager ties the savings ledger and the spend source to the engine.
type Manager struct {
	mu          sync.RWMutex
	cfg         *config.Config
	savings     SavingsLedger
	spend       spend.Source
	database    *db.DB
	watcher     *watcher.Watcher
	subscribers []chan<- ServiceEvent
}

// NewManager opens the ledger database and selects the spend source from cfg.
func NewManager(cfg *config.Config) (*Manager, error) {
	database, err := db.New(cfg.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	database.SetRetentionDays(cfg.RetentionDays)

	m := New(database, SpendSource(cfg))
	m.cfg = cfg
	m.database = database
	return m, nil
}

// New builds a manager over explicit ledgers.
func New(savings SavingsLedger, source spend.Source) *Manager {
	return &Manager{
		cfg:     &config.Config{},
		savings: savings,
		spend:   source,
	}
}

// SpendSource returns the file source when CCUSAGE_FILE is set and the
// ccusage command otherwise.
func SpendSource(cfg *config.Config) spend.Source {
	if cfg.CcusageFile != "" {
		return &spend.FileSource{Path: cfg.CcusageFile}
	}
	return spend.NewCommandSource(cfg.CcusageBin, cfg.CcusageTimeout)
}

// SetSpendSource replaces the spend source.
func (m *Manager) SetSpendSource(source spend.Source) {
	m.mu.Lock()
	m.spend = source
	m.mu.Unlock()
}

// Database returns the ledger database, or nil when the manager was built
// over a custom ledger.
func (m *Manager) Database() *db.DB {
	return m.database
}

// Periods fetches both ledgers at granularity g and merges them.
func (m *Manager) Periods(ctx context.Context, g models.Granularity) ([]models.PeriodEconomics, error) {
	m.mu.RLock()
	source := m.spend
	m.mu.RUnlock()

	var spendPeriods []models.SpendPeriod
	if source != nil {
		var err error
		spendPeriods, err = source.Fetch(ctx, g)
		if err != nil {
			return nil, fmt.Errorf("failed to load %s spend: %w", g, err)
		}
	}

	switch g {
	case models.Daily:
		days, err := m.savings.GetAllDays(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to load daily savings: %w", err)
		}
		return economics.MergeDaily(spendPeriods, days), nil
	case models.Weekly:
		weeks, err := m.savings.GetByWeek(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to load weekly savings: %w", err)
		}
		return economics.MergeWeekly(spendPeriods, weeks), nil
	case models.Monthly:
		months, err := m.savings.GetByMonth(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to load monthly savings: %w", err)
		}
		return economics.MergeMonthly(spendPeriods, months), nil
	default:
		return nil, fmt.Errorf("unsupported granularity %d", g)
	}
}

// Build computes every selected granularity concurrently. Totals come from
// the monthly periods and are only attached when monthly is selected.
func (m *Manager) Build(ctx context.Context, sel models.Selection) (*models.Report, error) {
	if sel.None() {
		return nil, ErrNoSelection
	}

	type result struct {
		g       models.Granularity
		periods []models.PeriodEconomics
		err     error
	}

	var wg sync.WaitGroup
	results := make(chan result, len(models.Granularities))
	for _, g := range models.Granularities {
		if !sel.Has(g) {
			continue
		}
		wg.Add(1)
		go func(g models.Granularity) {
			defer wg.Done()
			periods, err := m.Periods(ctx, g)
			results <- result{g: g, periods: periods, err: err}
		}(g)
	}
	wg.Wait()
	close(results)

	report := &models.Report{}
	var errs []error
	for r := range results {
		if r.err != nil {
			errs = append(errs, r.err)
			continue
		}
		report.SetPeriods(r.g, r.periods)
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}

	if sel.Monthly {
		totals := economics.ComputeTotals(report.Monthly)
		report.Totals = &totals
	}
	return report, nil
}

// Summary returns the monthly periods and their totals.
func (m *Manager) Summary(ctx context.Context) (*models.Report, error) {
	return m.Build(ctx, models.Selection{Monthly: true})
}

// Watch starts watching the ledger database and broadcasts a
// LedgerChangedEvent after each debounced change. It returns once the
// watcher is running.
func (m *Manager) Watch(ctx context.Context) error {
	if m.database == nil {
		return errors.New("no ledger database to watch")
	}

	w, err := watcher.New(ctx, m.database.Path(), m.cfg.WatchDebounce)
	if err != nil {
		return err
	}

	m.mu.Lock()
	if m.watcher != nil {
		_ = m.watcher.Close()
	}
	m.watcher = w
	m.mu.Unlock()

	go m.routeEvents(ctx, w)
	return nil
}

// routeEvents converts watcher events into service events.
func (m *Manager) routeEvents(ctx context.Context, w *watcher.Watcher) {
	for {
		select {
		case event := <-w.Events():
			switch event.Type {
			case watcher.EventLedgerChanged:
				m.broadcast(LedgerChangedEvent{Path: event.Path})
			case watcher.EventError:
				logger.Warn("ledger watcher error", "error", event.Error)
				m.broadcast(ErrorEvent{Service: "watcher", Error: event.Error})
			}
		case <-w.Done():
			return
		case <-ctx.Done():
			return
		}
	}
}

// broadcast sends an event to all subscribers.
func (m *Manager) broadcast(event ServiceEvent) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, sub := range m.subscribers {
		select {
		case sub <- event:
		default:
			// Subscriber channel full, skip
		}
	}
}

// Subscribe creates a channel for receiving service events.
// Returns a tea.Cmd that can be used in Bubble Tea's Init or Update.
func (m *Manager) Subscribe() (chan ServiceEvent, tea.Cmd) {
	ch := make(chan ServiceEvent, 50)

	m.mu.Lock()
	m.subscribers = append(m.subscribers, ch)
	m.mu.Unlock()

	return ch, WaitForEvent(ch)
}

// WaitForEvent returns a tea.Cmd for the next event on a channel.
func WaitForEvent(ch <-chan ServiceEvent) tea.Cmd {
	return func() tea.Msg {
		event, ok := <-ch
		if !ok {
			return nil
		}
		return event
	}
}

// Unsubscribe removes a subscriber channel.
func (m *Manager) Unsubscribe(ch chan ServiceEvent) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i, sub := range m.subscribers {
		if sub == ch {
			m.subscribers = append(m.subscribers[:i], m.subscribers[i+1:]...)
			close(ch)
			break
		}
	}
}

// Close stops the watcher, closes subscriber channels and the database.
func (m *Manager) Close() error {
	m.mu.Lock()
	for _, sub := range m.subscribers {
		close(sub)
	}
	m.subscribers = nil
	w := m.watcher
	m.watcher = nil
	m.mu.Unlock()

	var errs []error
	if w != nil {
		if err := w.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	if m.database != nil {
		if err := m.database.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
