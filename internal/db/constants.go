package db

const (
	// DefaultRetentionDays is how long tracked commands are kept.
	DefaultRetentionDays = 90

	// timestampLayout is how timestamps are written. SQLite's date functions
	// understand it directly.
	timestampLayout = "2006-01-02T15:04:05Z"

	// sqlWeekStart buckets a timestamp into the legacy week that starts on
	// Saturday. strftime('%w') is 0 for Sunday and 6 for Saturday, so
	// (w + 1) % 7 is the number of days since the previous Saturday.
	sqlWeekStart = `DATE(timestamp, '-' || ((CAST(strftime('%w', timestamp) AS INTEGER) + 1) % 7) || ' days')`
)
