package prospect

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// ActivityLog returns the entries for a prospect, newest first. An unknown
// prospect yields an empty slice.
func (s *Store) ActivityLog(ctx context.Context, prospectID int64) ([]*ActivityLogEntry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, prospect_id, action, details, created_at FROM activity_log
		 WHERE prospect_id = ? ORDER BY created_at DESC, id DESC`,
		prospectID,
	)
	if err != nil {
		return nil, fmt.Errorf("listing activity: %w", err)
	}
	defer closeRows(rows)

	entries := make([]*ActivityLogEntry, 0)
	for rows.Next() {
		e, err := scanActivity(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning activity: %w", err)
		}
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating activity: %w", err)
	}

	return entries, nil
}

// appendActivity writes one log entry inside the caller's transaction.
// An empty details string is stored as NULL.
func appendActivity(ctx context.Context, tx *sql.Tx, prospectID int64, action, details string, at time.Time) error {
	var d *string
	if details != "" {
		d = &details
	}
	if _, err := tx.ExecContext(ctx,
		"INSERT INTO activity_log (prospect_id, action, details, created_at) VALUES (?, ?, ?, ?)",
		prospectID, action, d, at,
	); err != nil {
		return fmt.Errorf("logging %s activity: %w", action, err)
	}
	return nil
}
