// Package queue buffers state-changing operations captured while offline
// until the synchronizer can drain them.
package queue

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/workpunch/punch/internal/model"
	"github.com/workpunch/punch/internal/store"
)

// Queue is the offline mutation queue, persisted through the durable store.
// Mutations keep strict insertion order and are never deduplicated here;
// duplicate detection belongs to the synchronizer and the remote end.
type Queue struct {
	store *store.Store
	limit int
	log   *slog.Logger
}

// New creates a queue. limit bounds the number of unsynced mutations held;
// 0 means unbounded.
func New(st *store.Store, limit int, log *slog.Logger) *Queue {
	if log == nil {
		log = slog.Default()
	}
	return &Queue{store: st, limit: limit, log: log}
}

// NewMutation builds a pending mutation around a by-value record snapshot.
func NewMutation(kind model.MutationKind, rec model.AttendanceRecord, capturedAt time.Time) model.PendingMutation {
	return model.PendingMutation{
		ID:         uuid.NewString(),
		Kind:       kind,
		Record:     rec,
		CapturedAt: capturedAt,
	}
}

// Enqueue appends a mutation and applies the cap policy.
// Returns the number of older mutations dropped to make room.
func (q *Queue) Enqueue(ctx context.Context, m model.PendingMutation) (int64, error) {
	if err := q.store.EnqueueMutation(ctx, m); err != nil {
		return 0, err
	}
	return q.EnforceCap(ctx)
}

// EnforceCap drops the oldest unsynced mutations above the configured cap.
// Delivered rows are pruned first so live data is only dropped as a last
// resort. Any drop is reported to the caller and logged as data loss.
func (q *Queue) EnforceCap(ctx context.Context) (int64, error) {
	if q.limit <= 0 {
		return 0, nil
	}

	if _, err := q.store.PruneSynced(ctx); err != nil {
		return 0, err
	}

	n, err := q.store.PendingCount(ctx)
	if err != nil {
		return 0, err
	}
	if n <= q.limit {
		return 0, nil
	}

	dropped, err := q.store.DropOldestPending(ctx, n-q.limit)
	if err != nil {
		return 0, err
	}
	if dropped > 0 {
		q.log.Warn("offline queue over capacity, dropped oldest mutations",
			"dropped", dropped, "cap", q.limit)
	}
	return dropped, nil
}

// Pending returns the unsynced mutations in insertion order. The view is
// restartable: after a partial drain it reflects only what remains.
func (q *Queue) Pending(ctx context.Context) ([]model.PendingMutation, error) {
	return q.store.PendingMutations(ctx)
}

// Len returns the number of unsynced mutations.
func (q *Queue) Len(ctx context.Context) (int, error) {
	return q.store.PendingCount(ctx)
}

// MarkSynced records a successful delivery. Idempotent; reports whether the
// mutation was newly marked.
func (q *Queue) MarkSynced(ctx context.Context, id string, at time.Time) (bool, error) {
	return q.store.MarkSynced(ctx, id, at)
}
