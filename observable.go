package promisex

import "sync"

// Listener is a callback registered against a named event. It receives the
// arguments passed to Emit verbatim.
type Listener func(args ...any)

// Observable is a named-event registry: listeners are registered per event
// name, removed in bulk per event name, and invoked synchronously in
// registration order on emit.
//
// The event name space is open; registering or emitting an unknown name is
// never an error. Duplicate registrations are allowed and each copy is
// invoked.
type Observable struct {
	mu        sync.RWMutex
	listeners map[string][]Listener
}

// NewObservable creates an Observable with no registered listeners.
func NewObservable() *Observable {
	return &Observable{
		listeners: make(map[string][]Listener),
	}
}

// AddListener appends fn to the listener list for event. Listeners fire in
// registration order on subsequent Emit calls for that event.
func (o *Observable) AddListener(event string, fn Listener) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.listeners[event] = append(o.listeners[event], fn)
}

// RemoveListener clears ALL listeners registered for event. The coarse
// granularity is deliberate: Promise.Cancel relies on detaching an entire
// event's list in one call. There is no per-callback removal.
func (o *Observable) RemoveListener(event string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	delete(o.listeners, event)
}

// Emit invokes every listener currently registered for event, in
// registration order, each receiving args. Emitting an event with no
// listeners is a no-op. A panicking listener is isolated and does not
// prevent the remaining listeners in the same emit from running.
func (o *Observable) Emit(event string, args ...any) {
	o.mu.RLock()
	fns := o.listeners[event]
	snapshot := make([]Listener, len(fns))
	copy(snapshot, fns)
	o.mu.RUnlock()

	for _, fn := range snapshot {
		invoke(fn, args)
	}
}

// invoke runs a single listener, swallowing any panic so the remaining
// listeners still fire.
func invoke(fn Listener, args []any) {
	defer func() {
		_ = recover()
	}()
	fn(args...)
}
