package cli

import (
	"context"
	"testing"
	"time"
)

func TestSpinnerStartStop(t *testing.T) {
	s := newSpinner(context.Background(), "Merging 2 lanes...")
	s.Start()
	time.Sleep(100 * time.Millisecond)
	s.Stop()
}

func TestSpinnerStopsOnContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	s := newSpinner(ctx, "Merging 2 lanes...")
	s.Start()

	cancel()

	// The animation goroutine must terminate on its own once the
	// context is gone; Stop afterwards must not hang.
	select {
	case <-s.stopped:
	case <-time.After(time.Second):
		t.Fatal("spinner did not stop after context cancellation")
	}
	s.Stop()
}

func TestSpinnerStopsOnContextTimeout(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	s := newSpinner(ctx, "Merging 2 lanes...")
	s.Start()

	select {
	case <-s.stopped:
	case <-time.After(time.Second):
		t.Fatal("spinner did not stop after context timeout")
	}
}

func TestSpinnerStopIsIdempotent(t *testing.T) {
	s := newSpinner(context.Background(), "Merging 2 lanes...")
	s.Start()

	s.Stop()
	s.Stop()
	s.Stop()
}

func TestSpinnerStopWithSuccess(t *testing.T) {
	s := newSpinner(context.Background(), "Merging 2 lanes...")
	s.Start()
	time.Sleep(50 * time.Millisecond)
	s.StopWithSuccess("Merged 2 lanes")
}

func TestSpinnerStopWithError(t *testing.T) {
	s := newSpinner(context.Background(), "Merging 2 lanes...")
	s.Start()
	time.Sleep(50 * time.Millisecond)
	s.StopWithError("Layout failed")
}
