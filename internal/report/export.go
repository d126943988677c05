package report

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/j-veylop/cc-economics/internal/models"
)

// CSVHeader is the first row of every CSV export.
var CSVHeader = []string{
	"period", "spent", "active_tokens", "total_tokens",
	"saved_tokens", "active_savings", "blended_savings", "rtk_commands",
}

// WriteJSON writes r as indented JSON. Nothing is written on failure.
func WriteJSON(w io.Writer, r *models.Report) error {
	data, err := json.MarshalIndent(newDocument(r), "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize report to JSON: %w", err)
	}
	data = append(data, '\n')
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("failed to write JSON report: %w", err)
	}
	return nil
}

// WriteYAML writes r as YAML with the same structure as the JSON export.
func WriteYAML(w io.Writer, r *models.Report) error {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(newDocument(r)); err != nil {
		return fmt.Errorf("failed to serialize report to YAML: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("failed to serialize report to YAML: %w", err)
	}
	if _, err := buf.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write YAML report: %w", err)
	}
	return nil
}

// WriteCSV writes one row per period, daily then weekly then monthly, under
// a single header. Absent values are empty cells.
func WriteCSV(w io.Writer, r *models.Report) error {
	var buf bytes.Buffer
	cw := csv.NewWriter(&buf)

	if err := cw.Write(CSVHeader); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	for _, g := range models.Granularities {
		for _, p := range r.Periods(g) {
			if err := cw.Write(csvRow(p)); err != nil {
				return fmt.Errorf("failed to write CSV row %s: %w", p.Label, err)
			}
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("failed to serialize report to CSV: %w", err)
	}

	if _, err := buf.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write CSV report: %w", err)
	}
	return nil
}

func csvRow(p models.PeriodEconomics) []string {
	return []string{
		p.Label,
		csvMoney(p.SpendCost),
		csvUint(p.SpendActiveTokens),
		csvUint(p.SpendTotalTokens),
		csvInt(p.SavingsTokens),
		csvMoney(p.SavingsValueActive),
		csvMoney(p.SavingsValueBlended),
		csvCount(p.SavingsCommands),
	}
}

func csvMoney(v *float64) string {
	if v == nil {
		return ""
	}
	return newMoney(*v).String()
}

func csvUint(v *uint64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatUint(*v, 10)
}

func csvInt(v *int64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatInt(*v, 10)
}

func csvCount(v *int) string {
	if v == nil {
		return ""
	}
	return strconv.Itoa(*v)
}
