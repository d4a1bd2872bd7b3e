package testutil

import (
	"sync"
	"time"
)

// Epoch is the first instant a DeterministicClock returns.
var Epoch = time.Date(2017, time.March, 1, 18, 0, 0, 0, time.UTC)

// DeterministicClock hands out race start times for tests.
//
// Each call to Next returns a time one minute after the previous one, starting
// at Epoch. Times are whole seconds in UTC, matching what the ledger stores,
// so values read back compare equal to the values written.
//
// Thread-safety: All methods are safe for concurrent use via internal mutex.
type DeterministicClock struct {
	mu    sync.Mutex
	ticks int64
}

// NewDeterministicClock creates a clock whose first Next() returns Epoch.
func NewDeterministicClock() *DeterministicClock {
	return &DeterministicClock{}
}

// Next returns the next start time and advances the clock.
func (c *DeterministicClock) Next() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := Epoch.Add(time.Duration(c.ticks) * time.Minute)
	c.ticks++
	return t
}
