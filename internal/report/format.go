// Package report renders reconciled economics as text, JSON, CSV, YAML and
// Prometheus textfile output.
package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/j-veylop/cc-economics/internal/models"
)

// Absent is printed in text tables for fields a ledger did not report.
const Absent = "—"

// Format selects an output encoding.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatCSV  Format = "csv"
	FormatYAML Format = "yaml"
)

// Formats lists every supported output format.
var Formats = []Format{FormatText, FormatJSON, FormatCSV, FormatYAML}

// ParseFormat maps a flag value to a Format. Matching is case insensitive.
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Formats {
		if f == known {
			return f, nil
		}
	}
	return "", fmt.Errorf("unknown format %q (want text, json, csv or yaml)", s)
}

// Write renders r to w in format f. summary selects the text summary card
// instead of per-granularity tables and is ignored by the other formats.
func Write(w io.Writer, f Format, r *models.Report, summary bool) error {
	switch f {
	case FormatText, "":
		if summary {
			return WriteSummary(w, r)
		}
		return WriteTables(w, r)
	case FormatJSON:
		return WriteJSON(w, r)
	case FormatCSV:
		return WriteCSV(w, r)
	case FormatYAML:
		return WriteYAML(w, r)
	default:
		return fmt.Errorf("unknown format %q", f)
	}
}

// FormatUSD formats a dollar amount with cents, or with four decimals when
// the amount is below one cent.
func FormatUSD(v float64) string {
	if v != 0 && v < 0.01 && v > -0.01 {
		return fmt.Sprintf("$%.4f", v)
	}
	return fmt.Sprintf("$%.2f", v)
}

// FormatTokens abbreviates token counts as 1.2M or 3.4K.
func FormatTokens[T ~int | ~int64 | ~uint64](n T) string {
	v := float64(n)
	switch {
	case v >= 1_000_000 || v <= -1_000_000:
		return fmt.Sprintf("%.1fM", v/1_000_000)
	case v >= 1_000 || v <= -1_000:
		return fmt.Sprintf("%.1fK", v/1_000)
	default:
		return fmt.Sprintf("%d", n)
	}
}
