package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"
)

func testSpinner(ctx context.Context) (*Spinner, *bytes.Buffer) {
	var buf bytes.Buffer
	s := newSpinner(ctx, "Working...")
	s.w = &buf
	return s, &buf
}

func TestSpinnerDrawsAndClears(t *testing.T) {
	s, buf := testSpinner(context.Background())
	s.Start()
	time.Sleep(200 * time.Millisecond)
	s.Stop()

	out := buf.String()
	if !strings.Contains(out, "Working...") {
		t.Error("spinner never drew its message")
	}
	if !strings.HasSuffix(out, "\r") {
		t.Error("spinner should clear the line when stopped")
	}
	if s.Cancelled() {
		t.Error("Stop is not a cancellation")
	}
}

func TestSpinnerCancelledByContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	s, _ := testSpinner(ctx)
	s.Start()
	cancel()
	time.Sleep(50 * time.Millisecond)

	if !s.Cancelled() {
		t.Error("spinner should report cancellation")
	}
	s.Stop()
}

func TestSpinnerStopIsIdempotent(t *testing.T) {
	s, _ := testSpinner(context.Background())
	s.Start()
	s.Stop()
	s.Stop()
}

func TestSpinnerStopWithoutStart(t *testing.T) {
	s, _ := testSpinner(context.Background())
	done := make(chan struct{})
	go func() {
		s.Stop()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Stop blocked on a spinner that never started")
	}
}
