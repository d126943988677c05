package report

import (
	"errors"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/j-veylop/cc-economics/internal/models"
)

const metricsNamespace = "cc_economics"

// Metrics holds the gauges exported to a node_exporter textfile.
type Metrics struct {
	registry *prometheus.Registry

	spendCost      prometheus.Gauge
	spendTokens    *prometheus.GaugeVec
	commands       prometheus.Gauge
	savedTokens    prometheus.Gauge
	avgSavingsPct  prometheus.Gauge
	costPerToken   *prometheus.GaugeVec
	savingsValue   *prometheus.GaugeVec
	periodSpend    *prometheus.GaugeVec
	periodSavedUSD *prometheus.GaugeVec
}

// NewMetrics creates and registers the gauges on a private registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		spendCost: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Name:      "spend_usd",
			Help:      "Total spend in USD across reported months",
		}),
		spendTokens: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Name:      "spend_tokens",
			Help:      "Total tokens billed, by kind (total or active)",
		}, []string{"kind"}),
		commands: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Name:      "savings_commands",
			Help:      "Number of tracked commands",
		}),
		savedTokens: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Name:      "saved_tokens",
			Help:      "Tokens kept out of the context",
		}),
		avgSavingsPct: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Name:      "avg_savings_percent",
			Help:      "Mean savings percentage over months with savings",
		}),
		costPerToken: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Name:      "cost_per_token_usd",
			Help:      "Cost per token in USD, by pricing (blended or active)",
		}, []string{"pricing"}),
		savingsValue: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Name:      "savings_usd",
			Help:      "Estimated savings in USD, by pricing (blended or active)",
		}, []string{"pricing"}),
		periodSpend: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Name:      "period_spend_usd",
			Help:      "Spend in USD per period",
		}, []string{"granularity", "period"}),
		periodSavedUSD: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Name:      "period_savings_usd",
			Help:      "Estimated savings in USD per period at active pricing",
		}, []string{"granularity", "period"}),
	}

	m.registry.MustRegister(
		m.spendCost,
		m.spendTokens,
		m.commands,
		m.savedTokens,
		m.avgSavingsPct,
		m.costPerToken,
		m.savingsValue,
		m.periodSpend,
		m.periodSavedUSD,
	)

	return m
}

// Registry returns the registry holding the gauges.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Observe sets the gauges from r. Dual metrics that are undefined are left
// unset so no series is exported for them.
func (m *Metrics) Observe(r *models.Report) {
	if t := r.Totals; t != nil {
		m.spendCost.Set(t.SpendCost)
		m.spendTokens.WithLabelValues("total").Set(float64(t.SpendTotalTokens))
		m.spendTokens.WithLabelValues("active").Set(float64(t.SpendActiveTokens))
		m.commands.Set(float64(t.SavingsCommands))
		m.savedTokens.Set(float64(t.SavingsTokens))
		m.avgSavingsPct.Set(t.AvgSavingsPct)

		setIf(m.costPerToken, "blended", t.BlendedCostPerToken)
		setIf(m.costPerToken, "active", t.ActiveCostPerToken)
		setIf(m.savingsValue, "blended", t.SavingsValueBlended)
		setIf(m.savingsValue, "active", t.SavingsValueActive)
	}

	for _, g := range models.Granularities {
		for _, p := range r.Periods(g) {
			if p.SpendCost != nil {
				m.periodSpend.WithLabelValues(g.String(), p.Label).Set(*p.SpendCost)
			}
			if p.SavingsValueActive != nil {
				m.periodSavedUSD.WithLabelValues(g.String(), p.Label).Set(*p.SavingsValueActive)
			}
		}
	}
}

func setIf(vec *prometheus.GaugeVec, label string, v *float64) {
	if v != nil {
		vec.WithLabelValues(label).Set(*v)
	}
}

// WriteTextfile writes r in the Prometheus text format to path, replacing
// the file atomically.
func WriteTextfile(path string, r *models.Report) error {
	if path == "" {
		return errors.New("textfile path is empty")
	}
	m := NewMetrics()
	m.Observe(r)
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("failed to write metrics textfile: %w", err)
	}
	return nil
}
