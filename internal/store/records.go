package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/workpunch/punch/internal/model"
)

// PutRecord upserts an attendance record. The UNIQUE(user_id, date)
// constraint enforces at most one record per user per day.
func (s *Store) PutRecord(ctx context.Context, rec model.AttendanceRecord) error {
	if err := putRecordTx(ctx, s.db, rec); err != nil {
		return storeErr("put record", err)
	}
	return nil
}

// execer covers both *sql.DB and *sql.Tx.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func putRecordTx(ctx context.Context, db execer, rec model.AttendanceRecord) error {
	_, err := db.ExecContext(ctx, `
		INSERT INTO attendance
		(id, user_id, date, check_in, check_out, total_hours, status, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			check_in    = excluded.check_in,
			check_out   = excluded.check_out,
			total_hours = excluded.total_hours,
			status      = excluded.status,
			updated_at  = excluded.updated_at
	`,
		rec.ID,
		rec.UserID,
		rec.Date,
		encodeOptTime(rec.CheckIn),
		encodeOptTime(rec.CheckOut),
		rec.TotalHours,
		rec.Status,
		rec.CreatedAt.Format(timeFormat),
		rec.UpdatedAt.Format(timeFormat),
	)
	return err
}

// GetRecord loads the record for (userID, date). Returns nil when absent.
func (s *Store) GetRecord(ctx context.Context, userID, date string) (*model.AttendanceRecord, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, user_id, date, check_in, check_out, total_hours, status, created_at, updated_at
		FROM attendance
		WHERE user_id = ? AND date = ?
	`, userID, date)

	rec, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, storeErr("get record", err)
	}
	return &rec, nil
}

// RecordsForMonth loads a user's records whose date falls in the given
// calendar month ("2006-01"), ordered by date.
func (s *Store) RecordsForMonth(ctx context.Context, userID, month string) ([]model.AttendanceRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, date, check_in, check_out, total_hours, status, created_at, updated_at
		FROM attendance
		WHERE user_id = ? AND date LIKE ? || '-%'
		ORDER BY date
	`, userID, month)
	if err != nil {
		return nil, storeErr("records for month", err)
	}
	defer rows.Close()

	var recs []model.AttendanceRecord
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, storeErr("records for month", err)
		}
		recs = append(recs, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr("records for month", err)
	}
	return recs, nil
}

// PutRecordAndEnqueue writes the record and appends the mutation in a single
// transaction, so an offline capture is never half-applied. A nil mutation
// degrades to a plain record write.
func (s *Store) PutRecordAndEnqueue(ctx context.Context, rec model.AttendanceRecord, m *model.PendingMutation) error {
	if m == nil {
		return s.PutRecord(ctx, rec)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return storeErr("put record and enqueue", err)
	}
	defer tx.Rollback()

	if err := putRecordTx(ctx, tx, rec); err != nil {
		return storeErr("put record and enqueue", err)
	}
	if err := enqueueTx(ctx, tx, *m); err != nil {
		return storeErr("put record and enqueue", err)
	}
	if err := tx.Commit(); err != nil {
		return storeErr("put record and enqueue", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (model.AttendanceRecord, error) {
	var (
		rec                  model.AttendanceRecord
		checkIn, checkOut    sql.NullString
		createdAt, updatedAt string
	)
	err := row.Scan(&rec.ID, &rec.UserID, &rec.Date, &checkIn, &checkOut,
		&rec.TotalHours, &rec.Status, &createdAt, &updatedAt)
	if err != nil {
		return model.AttendanceRecord{}, err
	}

	if rec.CheckIn, err = decodeOptTime(checkIn); err != nil {
		return model.AttendanceRecord{}, err
	}
	if rec.CheckOut, err = decodeOptTime(checkOut); err != nil {
		return model.AttendanceRecord{}, err
	}
	if rec.CreatedAt, err = time.Parse(timeFormat, createdAt); err != nil {
		return model.AttendanceRecord{}, err
	}
	if rec.UpdatedAt, err = time.Parse(timeFormat, updatedAt); err != nil {
		return model.AttendanceRecord{}, err
	}
	return rec, nil
}

func encodeOptTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.Format(timeFormat)
}

func decodeOptTime(s sql.NullString) (*time.Time, error) {
	if !s.Valid {
		return nil, nil
	}
	t, err := time.Parse(timeFormat, s.String)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func marshalSnapshot(rec model.AttendanceRecord) (string, error) {
	data, err := json.Marshal(rec)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
