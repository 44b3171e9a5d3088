// Package connectivity tracks online/offline transitions by probing the
// remote end at a fixed cadence.
package connectivity

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

const (
	defaultInterval = 30 * time.Second

	// defaultThreshold is how many consecutive probe failures flip the
	// monitor to offline. A single dropped probe is not a transition.
	defaultThreshold = 2
)

// Probe checks reachability of the remote end; nil means reachable.
type Probe func(ctx context.Context) error

// Monitor debounces connectivity transitions. The offline -> online edge
// fires the registered trigger exactly once per transition; flapping cannot
// spawn overlapping work because the synchronizer serializes runs itself.
// The online -> offline edge is a notification only; no data is discarded.
type Monitor struct {
	probe     Probe
	interval  time.Duration
	threshold int
	onOnline  func(ctx context.Context)
	log       *slog.Logger

	mu       sync.Mutex
	online   bool
	failures int

	done chan struct{}
}

// NewMonitor creates a monitor that starts in the offline state, so the
// first successful probe counts as a reconnect.
func NewMonitor(probe Probe, interval time.Duration, threshold int, log *slog.Logger) *Monitor {
	if interval <= 0 {
		interval = defaultInterval
	}
	if threshold <= 0 {
		threshold = defaultThreshold
	}
	if log == nil {
		log = slog.Default()
	}
	return &Monitor{
		probe:     probe,
		interval:  interval,
		threshold: threshold,
		log:       log,
		done:      make(chan struct{}),
	}
}

// OnOnline registers the trigger fired on each offline -> online transition.
// Must be called before Start.
func (m *Monitor) OnOnline(fn func(ctx context.Context)) {
	m.onOnline = fn
}

// Online reports the current debounced state.
func (m *Monitor) Online() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.online
}

// Check runs a single probe and applies the transition rules. One-shot
// commands call this once before acting; Start calls it on a ticker.
func (m *Monitor) Check(ctx context.Context) {
	err := m.probe(ctx)

	m.mu.Lock()
	var cameOnline bool
	if err == nil {
		m.failures = 0
		if !m.online {
			m.online = true
			cameOnline = true
		}
	} else {
		m.failures++
		if m.online && m.failures >= m.threshold {
			m.online = false
			m.log.Info("connection lost", "failures", m.failures)
		}
	}
	m.mu.Unlock()

	if cameOnline {
		m.log.Info("connection restored")
		if m.onOnline != nil {
			m.onOnline(ctx)
		}
	}
}

// Start launches the probe loop in a background goroutine and returns
// immediately. The loop stops when ctx is cancelled.
func (m *Monitor) Start(ctx context.Context) {
	go func() {
		defer close(m.done)

		ticker := time.NewTicker(m.interval)
		defer ticker.Stop()

		for {
			m.Check(ctx)
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			}
		}
	}()
}

// Wait blocks until the probe loop has stopped.
func (m *Monitor) Wait() {
	<-m.done
}
