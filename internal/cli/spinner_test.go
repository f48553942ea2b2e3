package cli

import (
	"bytes"
	"context"
	"testing"
	"time"
)

func TestSpinnerStop(t *testing.T) {
	var buf bytes.Buffer
	s := newSpinnerTo(context.Background(), &buf, "Uploading cover.png...")
	s.Start()
	time.Sleep(20 * time.Millisecond)
	s.Stop()
	s.Stop()

	if s.Cancelled() {
		t.Error("Stop() should not count as cancellation")
	}
	if buf.Len() != 0 {
		t.Errorf("non-terminal output should stay clean, got %q", buf.String())
	}
}

func TestSpinnerCancelledByContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	s := newSpinnerTo(ctx, &bytes.Buffer{}, "Resolving tags...")
	s.Start()
	cancel()

	if !s.Cancelled() {
		t.Error("spinner should report cancellation")
	}
	s.Stop()
}

func TestSpinnerTimeout(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	s := newSpinnerTo(ctx, &bytes.Buffer{}, "Validating token...")
	s.Start()
	time.Sleep(50 * time.Millisecond)
	if !s.Cancelled() {
		t.Error("spinner should be cancelled after the deadline")
	}
	s.StopWithError("Token rejected")
}
