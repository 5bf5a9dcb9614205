// Package quota tracks the remote API's request quota as process-wide
// shared state and decides when a run must checkpoint or wait for the
// reset window.
package quota

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/repolens/repolens/internal/github"
)

// criticalRemaining triggers a blocking wait until the reset time.
const criticalRemaining = 100

// maxWaitDisplay caps the countdown shown to the user. The process
// still sleeps the full duration past the cap.
const maxWaitDisplay = time.Hour

// RateAPI refreshes the quota snapshot from the remote side.
type RateAPI interface {
	RateLimit(ctx context.Context) (github.Rate, error)
}

// Tracker is shared by all workers; reads and updates are serialized so
// two workers cannot independently decide to checkpoint.
type Tracker struct {
	mu   sync.Mutex
	rate github.Rate

	log   *slog.Logger
	sleep func(time.Duration)
	now   func() time.Time

	// OnWait, when set, receives the (possibly capped) wait duration
	// before the tracker blocks. Used to drive the countdown display.
	OnWait func(d time.Duration)
}

func NewTracker(logger *slog.Logger) *Tracker {
	if logger == nil {
		logger = slog.Default()
	}
	return &Tracker{
		log:   logger,
		sleep: time.Sleep,
		now:   time.Now,
	}
}

// Update records a fresh quota snapshot. Stale snapshots (higher
// remaining with the same reset) are ignored so concurrent responses
// cannot move the counter backwards in usefulness.
func (t *Tracker) Update(rate github.Rate) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if rate.Reset.Equal(t.rate.Reset) && rate.Remaining > t.rate.Remaining {
		return
	}
	t.rate = rate
}

// Refresh queries the remote quota endpoint and records the result.
func (t *Tracker) Refresh(ctx context.Context, api RateAPI) error {
	rate, err := api.RateLimit(ctx)
	if err != nil {
		return err
	}
	t.mu.Lock()
	t.rate = rate
	t.mu.Unlock()
	return nil
}

// Snapshot returns the current quota state.
func (t *Tracker) Snapshot() github.Rate {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.rate
}

// ShouldCheckpoint reports whether remaining quota has dropped to the
// checkpoint threshold. A zero-value tracker (no snapshot yet) never
// asks for a checkpoint.
func (t *Tracker) ShouldCheckpoint(threshold int) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.rate.Limit == 0 {
		return false
	}
	return t.rate.Remaining <= threshold
}

// WaitIfCritical blocks until the quota reset when remaining is
// critically low. Returns true if it waited. The wait is a plain sleep
// and runs to completion.
func (t *Tracker) WaitIfCritical() bool {
	t.mu.Lock()
	rate := t.rate
	t.mu.Unlock()

	if rate.Limit == 0 || rate.Remaining >= criticalRemaining {
		return false
	}

	wait := rate.Reset.Sub(t.now())
	if wait <= 0 {
		return false
	}

	display := wait
	if display > maxWaitDisplay {
		display = maxWaitDisplay
	}
	t.log.Warn("rate limit critical, waiting for reset",
		"remaining", rate.Remaining, "reset", rate.Reset, "wait", wait.Round(time.Second))
	if t.OnWait != nil {
		t.OnWait(display)
	}
	t.sleep(wait)
	return true
}
