// Package syncer drains the offline mutation queue against the remote
// collaborator once connectivity is available.
package syncer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/workpunch/punch/internal/model"
	"github.com/workpunch/punch/internal/queue"
	"github.com/workpunch/punch/internal/store"
)

// Benign skips: the caller may retry on the next connectivity event.
var (
	// ErrAlreadyInProgress is returned when a sync run is mid-flight.
	ErrAlreadyInProgress = errors.New("sync already in progress")

	// ErrOffline is returned when the remote end is unreachable.
	ErrOffline = errors.New("sync skipped: offline")
)

// PartialFailureError reports a run in which some deliveries failed.
// Failed items stay queued and are retried on the next Sync call.
type PartialFailureError struct {
	Failed int
}

func (e *PartialFailureError) Error() string {
	return fmt.Sprintf("sync partial failure: %d mutations undelivered", e.Failed)
}

// Remote is the abstract collaborator reached only when online.
type Remote interface {
	Deliver(ctx context.Context, m model.PendingMutation) error
}

// Connectivity reports whether the remote end is currently reachable.
type Connectivity interface {
	Online() bool
}

// Result holds counters for one sync run.
type Result struct {
	Delivered int
	Failed    int
}

// Syncer serializes drain runs over the queue. Only one run may be active;
// a concurrent request is rejected with ErrAlreadyInProgress. There is no
// cancellation mid-run beyond the context passed to deliveries.
type Syncer struct {
	store   *store.Store
	queue   *queue.Queue
	remote  Remote
	conn    Connectivity
	now     func() time.Time
	running atomic.Bool
	log     *slog.Logger
}

// New wires a syncer to its ports.
func New(st *store.Store, q *queue.Queue, remote Remote, conn Connectivity, log *slog.Logger) *Syncer {
	if log == nil {
		log = slog.Default()
	}
	return &Syncer{store: st, queue: q, remote: remote, conn: conn, now: time.Now, log: log}
}

// Sync drains the pending mutations in insertion order. Each successful
// delivery is marked synced immediately; a failed delivery leaves its item
// queued and the loop continues, so one bad item never blocks the rest.
// The watermark advances only when at least one delivery succeeded.
func (s *Syncer) Sync(ctx context.Context) (Result, error) {
	if !s.conn.Online() {
		return Result{}, ErrOffline
	}
	if !s.running.CompareAndSwap(false, true) {
		return Result{}, ErrAlreadyInProgress
	}
	defer s.running.Store(false)

	pending, err := s.queue.Pending(ctx)
	if err != nil {
		return Result{}, err
	}
	if len(pending) == 0 {
		// Nothing to do; the watermark is left untouched.
		return Result{}, nil
	}

	s.log.Info("sync started", "pending", len(pending))

	var res Result
	for _, m := range pending {
		if err := s.remote.Deliver(ctx, m); err != nil {
			// Retried on the next pass, never abandoned silently.
			s.log.Warn("delivery failed",
				"mutation", m.ID, "kind", m.Kind, "error", err)
			res.Failed++
			continue
		}
		if _, err := s.queue.MarkSynced(ctx, m.ID, s.now()); err != nil {
			return res, err
		}
		res.Delivered++
	}

	if res.Delivered > 0 {
		if err := s.store.SetLastSync(ctx, s.now()); err != nil {
			return res, err
		}
	}

	s.log.Info("sync finished", "delivered", res.Delivered, "failed", res.Failed)
	if res.Failed > 0 {
		return res, &PartialFailureError{Failed: res.Failed}
	}
	return res, nil
}
