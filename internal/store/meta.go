package store

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

const lastSyncKey = "last_sync"

// LastSync returns the watermark of the last successful sync pass,
// or nil if no sync has ever completed.
func (s *Store) LastSync(ctx context.Context) (*time.Time, error) {
	var value string
	err := s.db.QueryRowContext(ctx,
		`SELECT value FROM meta WHERE key = ?`, lastSyncKey).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, storeErr("last sync", err)
	}

	t, err := time.Parse(timeFormat, value)
	if err != nil {
		return nil, storeErr("last sync", err)
	}
	return &t, nil
}

// SetLastSync advances the watermark. Only the synchronizer calls this.
func (s *Store) SetLastSync(ctx context.Context, t time.Time) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO meta (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, lastSyncKey, t.Format(timeFormat))
	if err != nil {
		return storeErr("set last sync", err)
	}
	return nil
}
