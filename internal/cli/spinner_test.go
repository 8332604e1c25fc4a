package cli

import (
	"context"
	"testing"
	"time"
)

func TestSpinnerBasic(t *testing.T) {
	s := newSpinner("Testing...")
	s.Start()
	time.Sleep(100 * time.Millisecond)
	s.Stop()

	// Stop() cancels internally, so Cancelled just needs to be callable here
	_ = s.Cancelled()
}

func TestSpinnerWithContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	s := newSpinnerWithContext(ctx, "Testing with context...")
	s.Start()

	cancel()
	time.Sleep(100 * time.Millisecond)

	if !s.Cancelled() {
		t.Error("Spinner should be cancelled after context cancellation")
	}
}

func TestSpinnerStopIsIdempotent(t *testing.T) {
	s := newSpinner("Testing idempotent stop...")
	s.Start()

	s.Stop()
	s.Stop()
}

func TestSpinnerSetMessage(t *testing.T) {
	s := newSpinner("first message")
	s.Start()
	s.SetMessage("second")
	time.Sleep(100 * time.Millisecond)
	s.Stop()

	if s.message != "second" {
		t.Errorf("message = %q, want %q", s.message, "second")
	}
}
