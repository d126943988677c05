// Package economics reconciles the spend ledger with the savings ledger.
//
// The two ledgers are produced independently and key their periods
// differently. The functions here join them on a canonical period key,
// derive blended and active cost-per-token, and aggregate totals. Everything
// in this package is a pure transformation over in-memory slices.
package economics

import "time"

const dateLayout = "2006-01-02"

// SaturdayToMonday converts a legacy Saturday week start into the ISO Monday
// that starts the same reporting week, e.g. "2026-01-18" -> "2026-01-20".
// It returns false when saturday is not a YYYY-MM-DD date.
func SaturdayToMonday(saturday string) (string, bool) {
	t, err := time.Parse(dateLayout, saturday)
	if err != nil {
		return "", false
	}
	return t.AddDate(0, 0, 2).Format(dateLayout), true
}
