package promisex_test

import (
	"testing"

	. "github.com/comalice/promisex"
)

// Cancel detaches success and error listeners before emitting cancel: a late
// resolution reaches nobody, and the cancel event fires exactly once.
func TestCancelDetachesResolutionListeners(t *testing.T) {
	p := NewPromise()

	var successes, cancels int
	p.AddCallback(func(args ...any) { successes++ })
	p.AddCancelback(func(args ...any) { cancels++ })

	p.Cancel()
	p.EmitSuccess("late")

	if cancels != 1 {
		t.Errorf("expected exactly 1 cancel delivery, got %d", cancels)
	}
	if successes != 0 {
		t.Errorf("expected success listener never invoked, got %d", successes)
	}
}

// Repeated Cancel calls are no-ops.
func TestCancelIdempotent(t *testing.T) {
	p := NewPromise()

	var cancels int
	p.AddCancelback(func(args ...any) { cancels++ })

	p.Cancel()
	p.Cancel()
	p.Cancel()

	if cancels != 1 {
		t.Errorf("expected 1 cancel delivery, got %d", cancels)
	}
}

// Once the promise has fired, Cancel is a no-op: at most one terminal event
// is ever delivered.
func TestCancelAfterFire(t *testing.T) {
	p := NewPromise()

	var cancels int
	p.AddCancelback(func(args ...any) { cancels++ })

	p.EmitSuccess("ok")
	p.Cancel()

	if cancels != 0 {
		t.Errorf("expected no cancel delivery after resolution, got %d", cancels)
	}
	if got := p.State(); got != StateFulfilled {
		t.Errorf("expected fulfilled state, got %v", got)
	}
}

// A resolution swallowed after Cancel still flips the internal single-fire
// guard: listeners registered afterwards never hear a second attempt. The
// reported state stays cancelled throughout.
func TestLateResolveAfterCancelConsumesGuard(t *testing.T) {
	p := NewPromise()

	p.Cancel()
	p.EmitSuccess("swallowed")

	var lateErrors int
	p.AddErrback(func(args ...any) { lateErrors++ })
	p.EmitError("blocked by guard")

	if lateErrors != 0 {
		t.Errorf("expected guard consumed by post-cancel resolve, got %d error deliveries", lateErrors)
	}
	if got := p.State(); got != StateCancelled {
		t.Errorf("expected cancelled state, got %v", got)
	}
}

// Cancel closes Done.
func TestCancelClosesDone(t *testing.T) {
	p := NewPromise()
	p.Cancel()

	select {
	case <-p.Done():
	default:
		t.Error("expected Done to be closed after Cancel")
	}
}

// Multiple cancel listeners accumulate like any other registration.
func TestCancelbacksAccumulate(t *testing.T) {
	p := NewPromise()

	var order []int
	p.AddCancelback(func(args ...any) { order = append(order, 1) })
	p.AddCancelback(func(args ...any) { order = append(order, 2) })

	p.Cancel()

	if len(order) != 2 || order[0] != 1 || order[1] != 2 {
		t.Errorf("expected cancel listeners in registration order [1 2], got %v", order)
	}
}
