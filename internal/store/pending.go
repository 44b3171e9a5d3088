package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/workpunch/punch/internal/model"
)

// EnqueueMutation appends a captured mutation. Insertion order is preserved
// by the autoincrement seq; duplicate IDs are silently ignored.
func (s *Store) EnqueueMutation(ctx context.Context, m model.PendingMutation) error {
	if err := enqueueTx(ctx, s.db, m); err != nil {
		return storeErr("enqueue mutation", err)
	}
	return nil
}

func enqueueTx(ctx context.Context, db execer, m model.PendingMutation) error {
	snapshot, err := marshalSnapshot(m.Record)
	if err != nil {
		return err
	}
	_, err = db.ExecContext(ctx, `
		INSERT INTO pending_mutations (id, kind, record, captured_at, synced, synced_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`,
		m.ID,
		string(m.Kind),
		snapshot,
		m.CapturedAt.Format(timeFormat),
		boolToInt(m.Synced),
		encodeOptTime(m.SyncedAt),
	)
	return err
}

// PendingMutations returns all unsynced mutations in insertion order.
// Re-querying after a partial drain reflects only what remains unsynced.
func (s *Store) PendingMutations(ctx context.Context) ([]model.PendingMutation, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, kind, record, captured_at, synced, synced_at
		FROM pending_mutations
		WHERE synced = 0
		ORDER BY seq
	`)
	if err != nil {
		return nil, storeErr("pending mutations", err)
	}
	defer rows.Close()

	var pending []model.PendingMutation
	for rows.Next() {
		m, err := scanMutation(rows)
		if err != nil {
			return nil, storeErr("pending mutations", err)
		}
		pending = append(pending, m)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr("pending mutations", err)
	}
	return pending, nil
}

// PendingCount returns the number of unsynced mutations.
func (s *Store) PendingCount(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM pending_mutations WHERE synced = 0`).Scan(&n)
	if err != nil {
		return 0, storeErr("pending count", err)
	}
	return n, nil
}

// MarkSynced flips a mutation to synced. Idempotent: re-marking an
// already-synced mutation changes nothing and reports false.
func (s *Store) MarkSynced(ctx context.Context, id string, at time.Time) (bool, error) {
	res, err := s.db.ExecContext(ctx, `
		UPDATE pending_mutations
		SET synced = 1, synced_at = ?
		WHERE id = ? AND synced = 0
	`, at.Format(timeFormat), id)
	if err != nil {
		return false, storeErr("mark synced", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, storeErr("mark synced", err)
	}
	return n > 0, nil
}

// PruneSynced deletes delivered mutations, returning how many were removed.
func (s *Store) PruneSynced(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM pending_mutations WHERE synced = 1`)
	if err != nil {
		return 0, storeErr("prune synced", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, storeErr("prune synced", err)
	}
	return n, nil
}

// DropOldestPending deletes up to n of the oldest unsynced mutations,
// returning how many were dropped. Used only by the queue's cap policy.
func (s *Store) DropOldestPending(ctx context.Context, n int) (int64, error) {
	res, err := s.db.ExecContext(ctx, `
		DELETE FROM pending_mutations
		WHERE id IN (
			SELECT id FROM pending_mutations
			WHERE synced = 0
			ORDER BY seq
			LIMIT ?
		)
	`, n)
	if err != nil {
		return 0, storeErr("drop oldest pending", err)
	}
	dropped, err := res.RowsAffected()
	if err != nil {
		return 0, storeErr("drop oldest pending", err)
	}
	return dropped, nil
}

func scanMutation(rows *sql.Rows) (model.PendingMutation, error) {
	var (
		m          model.PendingMutation
		kind       string
		snapshot   string
		capturedAt string
		synced     int
		syncedAt   sql.NullString
	)
	if err := rows.Scan(&m.ID, &kind, &snapshot, &capturedAt, &synced, &syncedAt); err != nil {
		return model.PendingMutation{}, err
	}

	m.Kind = model.MutationKind(kind)
	m.Synced = synced != 0
	if err := json.Unmarshal([]byte(snapshot), &m.Record); err != nil {
		return model.PendingMutation{}, err
	}

	var err error
	if m.CapturedAt, err = time.Parse(timeFormat, capturedAt); err != nil {
		return model.PendingMutation{}, err
	}
	if m.SyncedAt, err = decodeOptTime(syncedAt); err != nil {
		return model.PendingMutation{}, err
	}
	return m, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
