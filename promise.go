// Package promisex provides a single-fire, observable-backed deferred result
// primitive. A Promise represents the outcome of an asynchronous operation
// exactly once: it resolves to success or error (first writer wins), may be
// cancelled before resolution, and can arm a timeout that rejects it if the
// producer never delivers. Fan-out to listeners is handled by an embedded
// Observable, a minimal named-event registry.
package promisex

import (
	"errors"
	"sync"
	"time"
)

// Reserved event names used by Promise on its embedded Observable.
const (
	EventSuccess = "success"
	EventError   = "error"
	EventCancel  = "cancel"
)

// ErrTimeout is the error delivered to error listeners when a Promise's
// timeout fires before resolution. It is distinguishable from producer
// errors by errors.Is or by its "timeout" message.
var ErrTimeout = errors.New("timeout")

// State identifies a Promise's position in its lifecycle.
type State int

const (
	StatePending State = iota
	StateFulfilled
	StateRejected
	StateCancelled
)

func (s State) String() string {
	switch s {
	case StatePending:
		return "pending"
	case StateFulfilled:
		return "fulfilled"
	case StateRejected:
		return "rejected"
	case StateCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// Promise is a single-fire result container. It owns one Observable and
// exposes only listener registration; raw Emit is never exposed, so callers
// cannot bypass the single-fire guard.
//
// All methods are safe for use from the timer goroutine and the producer's
// goroutine; listener callbacks run outside the Promise's lock and may call
// back into the Promise.
type Promise struct {
	mu     sync.Mutex
	events *Observable
	clock  Clock

	hasFired  bool
	rejected  bool
	cancelled bool

	timeoutSet      bool
	timeoutDuration time.Duration
	timer           Timer
	timerGen        uint64

	done       chan struct{}
	doneClosed bool
}

// NewPromise creates a pending Promise.
func NewPromise(opts ...Option) *Promise {
	p := &Promise{
		events: NewObservable(),
		clock:  wallClock{},
		done:   make(chan struct{}),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// AddCallback registers fn for the success event. Registrations are
// cumulative and fire in registration order. Returns the Promise for
// chaining.
func (p *Promise) AddCallback(fn Listener) *Promise {
	p.events.AddListener(EventSuccess, fn)
	return p
}

// AddErrback registers fn for the error event.
func (p *Promise) AddErrback(fn Listener) *Promise {
	p.events.AddListener(EventError, fn)
	return p
}

// AddCancelback registers fn for the cancel event.
func (p *Promise) AddCancelback(fn Listener) *Promise {
	p.events.AddListener(EventCancel, fn)
	return p
}

// EmitSuccess resolves the Promise and delivers args to all success
// listeners. If the Promise has already fired this is a silent no-op:
// double resolution is swallowed, not reported.
func (p *Promise) EmitSuccess(args ...any) {
	if !p.fire(false) {
		return
	}
	p.events.Emit(EventSuccess, args...)
	p.markDone()
}

// EmitError rejects the Promise and delivers args to all error listeners.
// Shares the single-fire guard with EmitSuccess: the first writer wins and
// later calls to either are no-ops.
func (p *Promise) EmitError(args ...any) {
	if !p.fire(true) {
		return
	}
	p.events.Emit(EventError, args...)
	p.markDone()
}

// fire flips hasFired exactly once. The guard intentionally checks only
// hasFired, not cancelled: a producer that resolves after cancellation still
// flips internal state, but Cancel already detached the success and error
// listeners so nobody observes the emit.
func (p *Promise) fire(rejected bool) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.hasFired {
		return false
	}
	p.hasFired = true
	p.rejected = rejected
	p.stopTimer()
	return true
}

// Cancel detaches all success and error listeners and emits the cancel
// event. It is a no-op once the Promise has fired or has already been
// cancelled; a cancel event fires at most once and never after resolution.
//
// Cancel does not abort the underlying asynchronous work; producers that
// need cleanup should register it via AddCancelback.
func (p *Promise) Cancel() {
	p.mu.Lock()
	if p.cancelled || p.hasFired {
		p.mu.Unlock()
		return
	}
	p.cancelled = true
	p.stopTimer()
	// Any late resolution attempt now delivers to nobody.
	p.events.RemoveListener(EventSuccess)
	p.events.RemoveListener(EventError)
	p.mu.Unlock()

	p.events.Emit(EventCancel)
	p.markDone()
}

// Timeout arms (or rearms) a timeout of d. A previously scheduled timer is
// superseded, so Timeout(100ms) followed by Timeout(50ms) produces exactly
// one rejection, at ~50ms. When the timer fires before the Promise resolves
// or is cancelled, it rejects with ErrTimeout. Returns the Promise for
// chaining.
func (p *Promise) Timeout(d time.Duration) *Promise {
	p.mu.Lock()
	p.timeoutSet = true
	p.timeoutDuration = d
	p.stopTimer()
	p.timerGen++
	gen := p.timerGen
	p.timer = p.clock.AfterFunc(d, func() { p.onTimeout(gen) })
	p.mu.Unlock()
	return p
}

// TimeoutDuration returns the last duration passed to Timeout. The second
// return value is false until Timeout has been called.
func (p *Promise) TimeoutDuration() (time.Duration, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.timeoutDuration, p.timeoutSet
}

func (p *Promise) onTimeout(gen uint64) {
	p.mu.Lock()
	// A stale timer that slipped past Stop during a rearm must not fire.
	if gen != p.timerGen {
		p.mu.Unlock()
		return
	}
	p.timer = nil
	if p.hasFired || p.cancelled {
		p.mu.Unlock()
		return
	}
	p.mu.Unlock()

	p.EmitError(ErrTimeout)
}

// State reports the Promise's lifecycle state. Cancellation takes
// precedence: a resolution swallowed after Cancel does not move the Promise
// out of StateCancelled.
func (p *Promise) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()

	switch {
	case p.cancelled:
		return StateCancelled
	case p.hasFired && p.rejected:
		return StateRejected
	case p.hasFired:
		return StateFulfilled
	default:
		return StatePending
	}
}

// Done returns a channel that is closed on the first terminal transition
// (fulfilled, rejected, or cancelled), after that transition's listeners
// have run.
func (p *Promise) Done() <-chan struct{} {
	return p.done
}

// markDone closes the done channel once the terminal event's listeners have
// been delivered.
func (p *Promise) markDone() {
	p.mu.Lock()
	p.closeDone()
	p.mu.Unlock()
}

// stopTimer stops and clears a pending timeout timer. Callers hold p.mu.
func (p *Promise) stopTimer() {
	if p.timer != nil {
		p.timer.Stop()
		p.timer = nil
	}
}

// closeDone closes the done channel exactly once. Callers hold p.mu.
func (p *Promise) closeDone() {
	if !p.doneClosed {
		p.doneClosed = true
		close(p.done)
	}
}
