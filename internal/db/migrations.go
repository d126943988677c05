package db

import (
	"context"
	"fmt"
)

func (db *DB) migrate() error {
	if err := db.addExecTimeColumn(); err != nil {
		return err
	}
	return db.FixLegacyTimeFormats()
}

// addExecTimeColumn adds exec_time_ms to ledgers created before it existed.
func (db *DB) addExecTimeColumn() error {
	has, err := db.hasColumn("commands", "exec_time_ms")
	if err != nil {
		return err
	}
	if has {
		return nil
	}
	_, err = db.ExecContext(context.Background(),
		"ALTER TABLE commands ADD COLUMN exec_time_ms INTEGER DEFAULT 0")
	if err != nil {
		return fmt.Errorf("failed to add exec_time_ms column: %w", err)
	}
	return nil
}

func (db *DB) hasColumn(table, column string) (bool, error) {
	rows, err := db.QueryContext(context.Background(), fmt.Sprintf("PRAGMA table_info(%s)", table))
	if err != nil {
		return false, fmt.Errorf("failed to inspect %s: %w", table, err)
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var (
			cid       int
			name      string
			colType   string
			notNull   int
			dfltValue any
			pk        int
		)
		if err := rows.Scan(&cid, &name, &colType, &notNull, &dfltValue, &pk); err != nil {
			return false, fmt.Errorf("failed to scan column info: %w", err)
		}
		if name == column {
			return true, nil
		}
	}
	return false, rows.Err()
}

// FixLegacyTimeFormats fixes timestamp formats in the database.
// Go's default time.Time formatting (" +0000 UTC" suffix) is not understood
// by SQLite's date functions, so such rows would fall out of every bucket.
func (db *DB) FixLegacyTimeFormats() error {
	query := `UPDATE commands
		 SET timestamp = REPLACE(SUBSTR(timestamp, 1, 19), ' ', 'T') || 'Z'
		 WHERE length(timestamp) > 19 AND timestamp LIKE '% UTC'`

	if _, err := db.ExecContext(context.Background(), query); err != nil {
		return fmt.Errorf("failed to fix legacy time formats: %w", err)
	}

	return nil
}
