package cli

import (
	"context"
	"testing"
)

func TestSpinnerStopIsIdempotent(t *testing.T) {
	s := newSpinner("rendering card")
	s.Start()
	if s.Cancelled() {
		t.Error("spinner should not report cancelled while running")
	}
	s.Stop()
	s.Stop()
}

func TestSpinnerStopsOnContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	s := newSpinnerWithContext(ctx, "rendering card")
	s.Start()
	cancel()
	s.Stop()
	if !s.Cancelled() {
		t.Error("spinner should report cancelled after context cancellation")
	}
}
