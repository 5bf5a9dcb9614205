// internal/quota/quota_test.go
package quota

import (
	"context"
	"testing"
	"time"

	"github.com/repolens/repolens/internal/github"
)

var testNow = time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)

func TestShouldCheckpoint(t *testing.T) {
	tr := NewTracker(nil)
	if tr.ShouldCheckpoint(100) {
		t.Error("tracker without a snapshot must not checkpoint")
	}

	tr.Update(github.Rate{Limit: 5000, Remaining: 150, Reset: testNow.Add(time.Hour)})
	if tr.ShouldCheckpoint(100) {
		t.Error("remaining above threshold must not checkpoint")
	}

	tr.Update(github.Rate{Limit: 5000, Remaining: 80, Reset: testNow.Add(time.Hour)})
	if !tr.ShouldCheckpoint(100) {
		t.Error("remaining at or below threshold must checkpoint")
	}
}

func TestUpdateIgnoresStaleSnapshots(t *testing.T) {
	tr := NewTracker(nil)
	reset := testNow.Add(time.Hour)
	tr.Update(github.Rate{Limit: 5000, Remaining: 50, Reset: reset})
	tr.Update(github.Rate{Limit: 5000, Remaining: 200, Reset: reset})
	if got := tr.Snapshot().Remaining; got != 50 {
		t.Errorf("stale higher remaining must be ignored, got %d", got)
	}

	tr.Update(github.Rate{Limit: 5000, Remaining: 4999, Reset: reset.Add(time.Hour)})
	if got := tr.Snapshot().Remaining; got != 4999 {
		t.Errorf("new reset window must replace the snapshot, got %d", got)
	}
}

func TestWaitIfCriticalSleepsFullDuration(t *testing.T) {
	tr := NewTracker(nil)
	tr.now = func() time.Time { return testNow }

	var slept time.Duration
	tr.sleep = func(d time.Duration) { slept = d }

	var displayed time.Duration
	tr.OnWait = func(d time.Duration) { displayed = d }

	tr.Update(github.Rate{Limit: 5000, Remaining: 10, Reset: testNow.Add(90 * time.Minute)})
	if !tr.WaitIfCritical() {
		t.Fatal("expected a wait")
	}
	if slept != 90*time.Minute {
		t.Errorf("must sleep the full duration, slept %v", slept)
	}
	if displayed != time.Hour {
		t.Errorf("display must cap at one hour, got %v", displayed)
	}
}

func TestWaitIfCriticalSkipsWhenHealthy(t *testing.T) {
	tr := NewTracker(nil)
	tr.now = func() time.Time { return testNow }
	tr.sleep = func(time.Duration) { t.Error("must not sleep") }

	tr.Update(github.Rate{Limit: 5000, Remaining: 4000, Reset: testNow.Add(time.Hour)})
	if tr.WaitIfCritical() {
		t.Error("healthy quota must not wait")
	}

	// Reset already in the past: nothing to wait for.
	tr.Update(github.Rate{Limit: 5000, Remaining: 10, Reset: testNow.Add(-time.Minute)})
	if tr.WaitIfCritical() {
		t.Error("past reset must not wait")
	}
}

type fakeRateAPI struct{ rate github.Rate }

func (f *fakeRateAPI) RateLimit(context.Context) (github.Rate, error) {
	return f.rate, nil
}

func TestRefresh(t *testing.T) {
	tr := NewTracker(nil)
	api := &fakeRateAPI{rate: github.Rate{Limit: 5000, Remaining: 1234, Reset: testNow.Add(time.Hour)}}
	if err := tr.Refresh(context.Background(), api); err != nil {
		t.Fatalf("refresh failed: %v", err)
	}
	if got := tr.Snapshot().Remaining; got != 1234 {
		t.Errorf("expected 1234 remaining, got %d", got)
	}
}
