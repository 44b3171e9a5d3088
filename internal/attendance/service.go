// Package attendance implements the per-user, per-day attendance state
// machine: NotClockedIn -> Working -> Done.
package attendance

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/workpunch/punch/internal/model"
	"github.com/workpunch/punch/internal/queue"
	"github.com/workpunch/punch/internal/store"
	"github.com/workpunch/punch/internal/timecalc"
)

// Connectivity reports whether the remote end is currently reachable.
type Connectivity interface {
	Online() bool
}

// Service runs the attendance state machine over the durable store.
// Mutating operations performed while offline are captured in the queue
// atomically with the record write.
type Service struct {
	store *store.Store
	queue *queue.Queue
	conn  Connectivity
	log   *slog.Logger
}

// NewService wires the state machine to its ports.
func NewService(st *store.Store, q *queue.Queue, conn Connectivity, log *slog.Logger) *Service {
	if log == nil {
		log = slog.Default()
	}
	return &Service{store: st, queue: q, conn: conn, log: log}
}

// ClockIn opens the user's attendance record for the calendar day of now.
// Fails with ErrAlreadyClockedIn if a check-in already exists for that day.
func (s *Service) ClockIn(ctx context.Context, userID string, now time.Time) (model.AttendanceRecord, error) {
	date := timecalc.DayKey(now)

	existing, err := s.store.GetRecord(ctx, userID, date)
	if err != nil {
		return model.AttendanceRecord{}, err
	}
	if existing != nil && existing.CheckIn != nil {
		return model.AttendanceRecord{}, ErrAlreadyClockedIn
	}

	checkIn := now
	rec := model.AttendanceRecord{
		ID:        uuid.NewString(),
		UserID:    userID,
		Date:      date,
		CheckIn:   &checkIn,
		Status:    model.StatusPresent,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if existing != nil {
		// Keep the stored identity; only the check-in is new.
		rec.ID = existing.ID
		rec.CreatedAt = existing.CreatedAt
	}

	if err := s.persist(ctx, rec, model.MutationClockIn, now); err != nil {
		return model.AttendanceRecord{}, err
	}
	return rec, nil
}

// ClockOut closes today's record and derives TotalHours from the two
// timestamps. The day becomes terminal; a second clock-out is rejected.
func (s *Service) ClockOut(ctx context.Context, userID string, now time.Time) (model.AttendanceRecord, error) {
	date := timecalc.DayKey(now)

	rec, err := s.store.GetRecord(ctx, userID, date)
	if err != nil {
		return model.AttendanceRecord{}, err
	}
	if rec == nil || rec.CheckIn == nil {
		return model.AttendanceRecord{}, ErrNotClockedIn
	}
	if rec.CheckOut != nil {
		return model.AttendanceRecord{}, ErrAlreadyClockedOut
	}
	if now.Before(*rec.CheckIn) {
		return model.AttendanceRecord{}, ErrInvalidInterval
	}

	checkOut := now
	rec.CheckOut = &checkOut
	rec.TotalHours = timecalc.Hours(*rec.CheckIn, now)
	rec.UpdatedAt = now

	if err := s.persist(ctx, *rec, model.MutationClockOut, now); err != nil {
		return model.AttendanceRecord{}, err
	}
	return *rec, nil
}

// persist writes the record, capturing a pending mutation in the same
// transaction when offline so the pair is never half-applied.
func (s *Service) persist(ctx context.Context, rec model.AttendanceRecord, kind model.MutationKind, now time.Time) error {
	var m *model.PendingMutation
	if !s.conn.Online() {
		mutation := queue.NewMutation(kind, rec, now)
		m = &mutation
	}

	if err := s.store.PutRecordAndEnqueue(ctx, rec, m); err != nil {
		return err
	}

	if m != nil {
		if _, err := s.queue.EnforceCap(ctx); err != nil {
			return err
		}
		s.log.Info("captured offline mutation",
			"kind", kind, "user", rec.UserID, "date", rec.Date)
	}
	return nil
}

// TodayStatus derives the user's state for the calendar day of now.
// Pure query, no side effects.
func (s *Service) TodayStatus(ctx context.Context, userID string, now time.Time) (model.DayStatus, error) {
	rec, err := s.TodayRecord(ctx, userID, now)
	if err != nil {
		return "", err
	}
	switch {
	case rec == nil || rec.CheckIn == nil:
		return model.NotClockedIn, nil
	case rec.CheckOut == nil:
		return model.Working, nil
	default:
		return model.Done, nil
	}
}

// TodayRecord returns the record for the calendar day of now, or nil.
func (s *Service) TodayRecord(ctx context.Context, userID string, now time.Time) (*model.AttendanceRecord, error) {
	return s.store.GetRecord(ctx, userID, timecalc.DayKey(now))
}

// MonthlyHours sums TotalHours over the user's records in the calendar
// month containing ref, counting only closed days (TotalHours > 0).
func (s *Service) MonthlyHours(ctx context.Context, userID string, ref time.Time) (float64, error) {
	recs, err := s.store.RecordsForMonth(ctx, userID, timecalc.MonthOf(ref))
	if err != nil {
		return 0, err
	}

	var total float64
	for _, rec := range recs {
		if rec.TotalHours > 0 {
			total += rec.TotalHours
		}
	}
	return timecalc.Round2(total), nil
}
