// Package testutil provides test doubles for driving promisex deterministically.
package testutil

import (
	"sort"
	"sync"
	"time"

	"github.com/comalice/promisex"
)

// ManualClock is a promisex.Clock whose time only moves when Advance is
// called. Scheduled callbacks run synchronously inside Advance, in deadline
// order, which makes timeout tests deterministic and instant.
type ManualClock struct {
	mu     sync.Mutex
	now    time.Duration
	seq    int
	timers []*manualTimer
}

type manualTimer struct {
	clock    *ManualClock
	deadline time.Duration
	seq      int
	fn       func()
	stopped  bool
	fired    bool
}

// NewManualClock creates a ManualClock at time zero.
func NewManualClock() *ManualClock {
	return &ManualClock{}
}

// AfterFunc schedules fn to run when the clock has advanced by d.
func (c *ManualClock) AfterFunc(d time.Duration, fn func()) promisex.Timer {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.seq++
	t := &manualTimer{
		clock:    c,
		deadline: c.now + d,
		seq:      c.seq,
		fn:       fn,
	}
	c.timers = append(c.timers, t)
	return t
}

// Advance moves the clock forward by d, firing every due callback in
// deadline order (registration order for ties). Callbacks run with the
// clock set to their own deadline, so a callback that schedules a new timer
// within the advanced window also fires.
func (c *ManualClock) Advance(d time.Duration) {
	c.mu.Lock()
	target := c.now + d
	for {
		t := c.nextDue(target)
		if t == nil {
			break
		}
		t.fired = true
		c.now = t.deadline
		c.mu.Unlock()
		t.fn()
		c.mu.Lock()
	}
	c.now = target
	c.mu.Unlock()
}

// Now returns the clock's current offset from its creation.
func (c *ManualClock) Now() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// nextDue returns the earliest pending timer with deadline <= target.
// Callers hold c.mu.
func (c *ManualClock) nextDue(target time.Duration) *manualTimer {
	var pending []*manualTimer
	for _, t := range c.timers {
		if !t.fired && !t.stopped {
			pending = append(pending, t)
		}
	}
	sort.SliceStable(pending, func(i, j int) bool {
		if pending[i].deadline != pending[j].deadline {
			return pending[i].deadline < pending[j].deadline
		}
		return pending[i].seq < pending[j].seq
	})
	if len(pending) == 0 || pending[0].deadline > target {
		return nil
	}
	return pending[0]
}

// Stop prevents the callback from running. Reports whether it did so before
// the callback fired.
func (t *manualTimer) Stop() bool {
	t.clock.mu.Lock()
	defer t.clock.mu.Unlock()

	if t.fired || t.stopped {
		return false
	}
	t.stopped = true
	return true
}
