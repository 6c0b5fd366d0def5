package promisex

import "time"

// Timer is the handle to a scheduled callback. Stop reports whether the
// callback was prevented from running.
type Timer interface {
	Stop() bool
}

// Clock abstracts the host timer facility so tests can substitute a
// deterministic implementation (see testutil.ManualClock).
type Clock interface {
	// AfterFunc schedules fn to run after d and returns a handle that can
	// cancel it.
	AfterFunc(d time.Duration, fn func()) Timer
}

// wallClock is the default Clock backed by the runtime timer.
type wallClock struct{}

func (wallClock) AfterFunc(d time.Duration, fn func()) Timer {
	return time.AfterFunc(d, fn)
}
