// Package production provides production integrations for promisex:
// outcome publishing and persistence. Implements everything through the
// public Promise API using stdlib where possible.
package production

import (
	"context"
	"log/slog"
	"time"
)

// Outcome records a terminal event observed on a Promise.
type Outcome struct {
	PromiseID string    `json:"promiseID" yaml:"promiseID"`
	Event     string    `json:"event" yaml:"event"`
	Args      []any     `json:"args,omitempty" yaml:"args,omitempty"`
	Timestamp time.Time `json:"timestamp" yaml:"timestamp"`
}

// Publisher forwards outcomes to an external sink.
type Publisher interface {
	Publish(ctx context.Context, outcome Outcome) error
	Close() error
}

// ChannelPublisher is a stdlib-only Publisher that forwards outcomes to a Go
// channel. Non-blocking publish with drop on backpressure.
type ChannelPublisher struct {
	ch chan<- Outcome
}

// NewChannelPublisher creates a ChannelPublisher with the given output channel.
func NewChannelPublisher(ch chan<- Outcome) *ChannelPublisher {
	return &ChannelPublisher{ch: ch}
}

func (p *ChannelPublisher) Publish(ctx context.Context, outcome Outcome) error {
	select {
	case p.ch <- outcome:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	default:
		return nil // Non-blocking drop
	}
}

func (p *ChannelPublisher) Close() error {
	close(p.ch)
	return nil
}

// LogPublisher emits outcomes to a slog.Logger. The event name becomes the
// log message and the remaining fields become attributes.
type LogPublisher struct {
	logger *slog.Logger
}

// NewLogPublisher creates a LogPublisher that emits to the given logger.
func NewLogPublisher(logger *slog.Logger) *LogPublisher {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogPublisher{logger: logger}
}

func (p *LogPublisher) Publish(ctx context.Context, outcome Outcome) error {
	p.logger.LogAttrs(ctx, slog.LevelInfo, outcome.Event,
		slog.String("promiseID", outcome.PromiseID),
		slog.Any("args", outcome.Args),
		slog.Time("timestamp", outcome.Timestamp),
	)
	return nil
}

func (p *LogPublisher) Close() error { return nil }
