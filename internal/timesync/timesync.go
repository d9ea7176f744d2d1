// Package timesync answers whether the wall clock has been set. The
// appliance boots with an unset clock and only the panels that render
// calendar data care; they consult a Source instead of reading the
// system clock directly so tests can drive time by hand.
package timesync

import (
	"sync"
	"time"
)

// SyncEpoch is the earliest instant considered a synced clock. Any
// reading before Jan 1 2020 UTC means the clock was never set.
const SyncEpoch = 1577836800

// Source provides the current time and whether it can be trusted.
type Source interface {
	// Now returns the current local time.
	Now() time.Time

	// Synced reports whether the clock has been set since boot.
	Synced() bool
}

// wallClock reads the system clock.
type wallClock struct{}

// System returns a Source backed by the system clock. It reports
// synced once the system time passes SyncEpoch.
func System() Source { return wallClock{} }

func (wallClock) Now() time.Time { return time.Now() }

func (wallClock) Synced() bool { return time.Now().Unix() >= SyncEpoch }

// FakeSource is a hand-driven Source for tests.
type FakeSource struct {
	mu     sync.Mutex
	now    time.Time
	synced bool
}

// NewFakeSource returns a FakeSource reporting the given time.
// A zero time leaves the source unsynced.
func NewFakeSource(now time.Time) *FakeSource {
	return &FakeSource{now: now, synced: !now.IsZero() && now.Unix() >= SyncEpoch}
}

// Now returns the configured time.
func (f *FakeSource) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

// Synced reports the configured sync state.
func (f *FakeSource) Synced() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.synced
}

// Set updates the reported time and recomputes the sync state.
func (f *FakeSource) Set(now time.Time) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.now = now
	f.synced = !now.IsZero() && now.Unix() >= SyncEpoch
}

// Advance moves the reported time forward.
func (f *FakeSource) Advance(d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.now = f.now.Add(d)
}
