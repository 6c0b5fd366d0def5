package promisex

// Option applies configuration to a Promise via the functional options pattern.
type Option func(*Promise)

// WithClock configures the Promise with a custom timer facility. Used by
// tests to drive timeouts deterministically; defaults to the runtime clock.
func WithClock(c Clock) Option {
	return func(p *Promise) {
		if c != nil {
			p.clock = c
		}
	}
}
