package attendance_test

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/workpunch/punch/internal/attendance"
	"github.com/workpunch/punch/internal/model"
	"github.com/workpunch/punch/internal/queue"
	"github.com/workpunch/punch/internal/store"
)

type fakeConn struct {
	online bool
}

func (f *fakeConn) Online() bool { return f.online }

type fixture struct {
	store   *store.Store
	queue   *queue.Queue
	conn    *fakeConn
	service *attendance.Service
}

func newFixture(t *testing.T, online bool) *fixture {
	t.Helper()

	st, err := store.Open(filepath.Join(t.TempDir(), "punch.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	conn := &fakeConn{online: online}
	q := queue.New(st, 0, log)
	return &fixture{
		store:   st,
		queue:   q,
		conn:    conn,
		service: attendance.NewService(st, q, conn, log),
	}
}

var day = time.Date(2026, 2, 27, 0, 0, 0, 0, time.UTC)

func TestClockInThenOut(t *testing.T) {
	f := newFixture(t, true)
	ctx := context.Background()

	in := day.Add(9 * time.Hour) // 09:00
	rec, err := f.service.ClockIn(ctx, "u1", in)
	require.NoError(t, err)
	assert.Equal(t, "u1", rec.UserID)
	assert.Equal(t, "2026-02-27", rec.Date)
	assert.Equal(t, model.StatusPresent, rec.Status)
	require.NotNil(t, rec.CheckIn)
	assert.True(t, rec.CheckIn.Equal(in))
	assert.Nil(t, rec.CheckOut)
	assert.Zero(t, rec.TotalHours)

	out := day.Add(17*time.Hour + 30*time.Minute) // 17:30
	rec, err = f.service.ClockOut(ctx, "u1", out)
	require.NoError(t, err)
	require.NotNil(t, rec.CheckOut)
	assert.True(t, rec.CheckOut.Equal(out))
	assert.Equal(t, 8.5, rec.TotalHours)
}

func TestClockInTwiceRejected(t *testing.T) {
	f := newFixture(t, true)
	ctx := context.Background()

	first, err := f.service.ClockIn(ctx, "u1", day.Add(9*time.Hour))
	require.NoError(t, err)

	_, err = f.service.ClockIn(ctx, "u1", day.Add(10*time.Hour))
	assert.ErrorIs(t, err, attendance.ErrAlreadyClockedIn)

	// State unchanged: the stored check-in is still the first one.
	stored, err := f.store.GetRecord(ctx, "u1", "2026-02-27")
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.True(t, stored.CheckIn.Equal(*first.CheckIn))
}

func TestClockOutWithoutClockIn(t *testing.T) {
	f := newFixture(t, true)

	_, err := f.service.ClockOut(context.Background(), "u1", day.Add(17*time.Hour))
	assert.ErrorIs(t, err, attendance.ErrNotClockedIn)
}

func TestClockOutTwiceRejected(t *testing.T) {
	f := newFixture(t, true)
	ctx := context.Background()

	_, err := f.service.ClockIn(ctx, "u1", day.Add(9*time.Hour))
	require.NoError(t, err)
	_, err = f.service.ClockOut(ctx, "u1", day.Add(17*time.Hour))
	require.NoError(t, err)

	_, err = f.service.ClockOut(ctx, "u1", day.Add(18*time.Hour))
	assert.ErrorIs(t, err, attendance.ErrAlreadyClockedOut)
}

func TestClockOutBeforeClockIn(t *testing.T) {
	f := newFixture(t, true)
	ctx := context.Background()

	_, err := f.service.ClockIn(ctx, "u1", day.Add(9*time.Hour))
	require.NoError(t, err)

	_, err = f.service.ClockOut(ctx, "u1", day.Add(8*time.Hour))
	assert.ErrorIs(t, err, attendance.ErrInvalidInterval)

	// The rejected clock-out must not have touched the record.
	stored, err := f.store.GetRecord(ctx, "u1", "2026-02-27")
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Nil(t, stored.CheckOut)
	assert.Zero(t, stored.TotalHours)
}

func TestClockOutAtClockInYieldsZeroHours(t *testing.T) {
	f := newFixture(t, true)
	ctx := context.Background()

	in := day.Add(9 * time.Hour)
	_, err := f.service.ClockIn(ctx, "u1", in)
	require.NoError(t, err)

	rec, err := f.service.ClockOut(ctx, "u1", in)
	require.NoError(t, err)
	assert.Zero(t, rec.TotalHours)
}

func TestOfflineCapturesMutationsInOrder(t *testing.T) {
	f := newFixture(t, false)
	ctx := context.Background()

	_, err := f.service.ClockIn(ctx, "u1", day.Add(9*time.Hour))
	require.NoError(t, err)
	out, err := f.service.ClockOut(ctx, "u1", day.Add(17*time.Hour))
	require.NoError(t, err)

	pending, err := f.queue.Pending(ctx)
	require.NoError(t, err)
	require.Len(t, pending, 2)
	assert.Equal(t, model.MutationClockIn, pending[0].Kind)
	assert.Equal(t, model.MutationClockOut, pending[1].Kind)

	// Snapshots are by value: the clock-in snapshot has no check-out even
	// though the live record does by now.
	assert.Nil(t, pending[0].Record.CheckOut)
	require.NotNil(t, pending[1].Record.CheckOut)
	assert.Equal(t, out.TotalHours, pending[1].Record.TotalHours)
}

func TestOnlineDoesNotQueue(t *testing.T) {
	f := newFixture(t, true)
	ctx := context.Background()

	_, err := f.service.ClockIn(ctx, "u1", day.Add(9*time.Hour))
	require.NoError(t, err)
	_, err = f.service.ClockOut(ctx, "u1", day.Add(17*time.Hour))
	require.NoError(t, err)

	n, err := f.queue.Len(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestTodayStatusTransitions(t *testing.T) {
	f := newFixture(t, true)
	ctx := context.Background()

	status, err := f.service.TodayStatus(ctx, "u1", day.Add(8*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, model.NotClockedIn, status)

	_, err = f.service.ClockIn(ctx, "u1", day.Add(9*time.Hour))
	require.NoError(t, err)
	status, err = f.service.TodayStatus(ctx, "u1", day.Add(10*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, model.Working, status)

	_, err = f.service.ClockOut(ctx, "u1", day.Add(17*time.Hour))
	require.NoError(t, err)
	status, err = f.service.TodayStatus(ctx, "u1", day.Add(18*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, model.Done, status)
}

func TestStatusIsPerUser(t *testing.T) {
	f := newFixture(t, true)
	ctx := context.Background()

	_, err := f.service.ClockIn(ctx, "u1", day.Add(9*time.Hour))
	require.NoError(t, err)

	status, err := f.service.TodayStatus(ctx, "u2", day.Add(10*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, model.NotClockedIn, status)
}

func TestMonthlyHours(t *testing.T) {
	f := newFixture(t, true)
	ctx := context.Background()

	workDay := func(d time.Time, hours time.Duration) {
		_, err := f.service.ClockIn(ctx, "u1", d.Add(9*time.Hour))
		require.NoError(t, err)
		_, err = f.service.ClockOut(ctx, "u1", d.Add(9*time.Hour).Add(hours))
		require.NoError(t, err)
	}

	workDay(time.Date(2026, 2, 2, 0, 0, 0, 0, time.UTC), 8*time.Hour)
	workDay(time.Date(2026, 2, 3, 0, 0, 0, 0, time.UTC), 7*time.Hour+30*time.Minute)
	// An open day (no clock-out) contributes nothing.
	_, err := f.service.ClockIn(ctx, "u1", time.Date(2026, 2, 4, 9, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	// Another month is excluded.
	workDay(time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC), 4*time.Hour)

	total, err := f.service.MonthlyHours(ctx, "u1", time.Date(2026, 2, 15, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, 15.5, total)
}
