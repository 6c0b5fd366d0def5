// Tests for ChannelPublisher delivery and backpressure behavior.
package production

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"
)

func TestChannelPublisher_Delivery(t *testing.T) {
	ch := make(chan Outcome, 10)
	p := NewChannelPublisher(ch)

	outcome := Outcome{
		PromiseID: "upload",
		Event:     "error",
		Args:      []any{"disk full"},
		Timestamp: time.Now(),
	}

	ctx := context.Background()
	if err := p.Publish(ctx, outcome); err != nil {
		t.Errorf("Publish failed: %v", err)
	}

	select {
	case got := <-ch:
		if got.PromiseID != outcome.PromiseID {
			t.Errorf("PromiseID mismatch: got %q, want %q", got.PromiseID, outcome.PromiseID)
		}
		if got.Event != outcome.Event {
			t.Errorf("Event mismatch: got %q, want %q", got.Event, outcome.Event)
		}
	case <-time.After(100 * time.Millisecond):
		t.Error("No outcome delivered")
	}
}

func TestChannelPublisher_BackpressureDrop(t *testing.T) {
	ch := make(chan Outcome, 1)
	p := NewChannelPublisher(ch)
	ch <- Outcome{} // Fill buffer

	ctx := context.Background()
	if err := p.Publish(ctx, Outcome{PromiseID: "dropped"}); err != nil {
		t.Errorf("Publish on full channel failed: %v", err)
	}
	// Should drop silently
}

func TestChannelPublisher_CancelledContext(t *testing.T) {
	ch := make(chan Outcome) // Unbuffered, nobody reading
	p := NewChannelPublisher(ch)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// The ready ctx.Done case wins over the default clause: the caller gets
	// the context error rather than a silent drop, and never blocks.
	err := p.Publish(ctx, Outcome{PromiseID: "blocked"})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
}

func TestLogPublisher_Emits(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	p := NewLogPublisher(logger)

	outcome := Outcome{
		PromiseID: "query",
		Event:     "success",
		Args:      []any{"row"},
		Timestamp: time.Now(),
	}

	if err := p.Publish(context.Background(), outcome); err != nil {
		t.Fatalf("Publish failed: %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, "success") {
		t.Errorf("Log output missing event name: %q", out)
	}
	if !strings.Contains(out, "query") {
		t.Errorf("Log output missing promise ID: %q", out)
	}
}
