// Package tracker drives the live elapsed-time display: a periodic
// read-only recomputation of the active session's working time. It never
// mutates the store.
package tracker

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/timewise-app/timewise/internal/domain"
)

// ActiveSource is the read-only slice of the store the ticker needs.
type ActiveSource interface {
	ActiveEntry() (domain.TimeEntry, bool)
}

// Tick is one elapsed-time observation delivered to the display callback.
type Tick struct {
	Entry   domain.TimeEntry
	Elapsed time.Duration
	Paused  bool
}

// Ticker periodically recomputes and publishes the elapsed time of the
// active entry while one exists. It is keyed to the consuming view's
// lifetime: cancel the context passed to Run when the view is torn down.
type Ticker struct {
	source   ActiveSource
	onTick   func(Tick)
	interval time.Duration
	now      func() time.Time
}

// Option is a functional option for configuring a Ticker.
type Option func(*Ticker)

// WithInterval sets the refresh interval. Defaults to one second.
func WithInterval(d time.Duration) Option {
	return func(t *Ticker) {
		t.interval = d
	}
}

// WithClock overrides the time source. Intended for tests.
func WithClock(now func() time.Time) Option {
	return func(t *Ticker) {
		t.now = now
	}
}

// New creates a Ticker publishing observations to onTick.
func New(source ActiveSource, onTick func(Tick), opts ...Option) *Ticker {
	t := &Ticker{
		source:   source,
		onTick:   onTick,
		interval: time.Second,
		now:      time.Now,
	}

	for _, opt := range opts {
		opt(t)
	}

	return t
}

// Run publishes an observation immediately and then once per interval
// while an entry is active, until the context is cancelled. Idle periods
// publish nothing.
func (t *Ticker) Run(ctx context.Context) error {
	slog.InfoContext(ctx, "elapsed-time ticker started", "interval", t.interval)

	t.publish()

	ticker := time.NewTicker(t.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			t.publish()
		case <-ctx.Done():
			slog.InfoContext(ctx, "elapsed-time ticker stopped")
			return ctx.Err()
		}
	}
}

func (t *Ticker) publish() {
	entry, active := t.source.ActiveEntry()
	if !active {
		return
	}

	t.onTick(Tick{
		Entry:   entry,
		Elapsed: entry.Worked(t.now()),
		Paused:  entry.Paused(),
	})
}

// FormatElapsed renders a duration the way the tracker widget shows it:
// "M:SS" under an hour, "H:MM:SS" from an hour up. Negative durations
// clamp to zero.
func FormatElapsed(d time.Duration) string {
	if d < 0 {
		d = 0
	}

	total := int(d / time.Second)
	hours := total / 3600
	minutes := (total % 3600) / 60
	seconds := total % 60

	if hours > 0 {
		return fmt.Sprintf("%d:%02d:%02d", hours, minutes, seconds)
	}
	return fmt.Sprintf("%d:%02d", minutes, seconds)
}
