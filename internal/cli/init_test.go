package cli

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestWaitForShutdownOrErrorFatalError(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan struct{})

	errs := make(chan error, 1)
	errs <- errors.New("channel closed")

	result := make(chan error, 1)
	go func() {
		result <- WaitForShutdownOrError(ctx, done, errs)
	}()

	select {
	case err := <-result:
		if err == nil {
			t.Fatal("fatal consumer error must be returned")
		}
	case <-time.After(time.Second):
		t.Fatal("must return promptly on a fatal error, not wait for a signal")
	}
}

func TestWaitForShutdownOrErrorCleanStop(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	// Shutdown already underway: context cancelled, consumer returned
	// context.Canceled, cleanup finished.
	cancel()
	close(done)
	errs := make(chan error, 1)
	errs <- context.Canceled

	if err := WaitForShutdownOrError(ctx, done, errs); err != nil {
		t.Fatalf("clean stop must not be reported as failure: %v", err)
	}
}

func TestWaitForShutdownOrErrorSignalPath(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	errs := make(chan error, 1)

	go func() {
		cancel()
		close(done)
	}()

	result := make(chan error, 1)
	go func() {
		result <- WaitForShutdownOrError(ctx, done, errs)
	}()

	select {
	case err := <-result:
		if err != nil {
			t.Fatalf("signal-driven shutdown must return nil: %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("did not unblock on context cancellation")
	}
}
