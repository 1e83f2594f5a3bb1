//go:build !windows
// +build !windows

package state

import (
	"context"
	"errors"
	"testing"
	"time"

	errs "trackswitch/pkg/errors"
)

func TestTryLockExclusive(t *testing.T) {
	store := newTestStore(t)

	lock, err := store.TryLock()
	if err != nil {
		t.Fatalf("first TryLock: %v", err)
	}

	// flock is per open file description, so a second open in the same
	// process contends like a second process would.
	if _, err := store.TryLock(); !errors.Is(err, errs.ErrLockHeld) {
		t.Fatalf("second TryLock: expected ErrLockHeld, got %v", err)
	}

	if err := lock.Release(); err != nil {
		t.Fatalf("release: %v", err)
	}

	relock, err := store.TryLock()
	if err != nil {
		t.Fatalf("TryLock after release: %v", err)
	}
	defer relock.Release()
}

func TestReleaseTwice(t *testing.T) {
	store := newTestStore(t)

	lock, err := store.TryLock()
	if err != nil {
		t.Fatalf("TryLock: %v", err)
	}
	if err := lock.Release(); err != nil {
		t.Fatalf("release: %v", err)
	}
	if err := lock.Release(); err != nil {
		t.Fatalf("second release should be a no-op, got %v", err)
	}
}

func TestWaitForChangeSeesMarkerWrite(t *testing.T) {
	store := newTestStore(t)

	done := make(chan error, 1)
	go func() {
		done <- store.WaitForChange(context.Background(), 5*time.Second)
	}()

	// Give the watcher a moment to register, then complete a "reconcile".
	time.Sleep(50 * time.Millisecond)
	if _, err := store.WriteMarker("stable", testRepoLine); err != nil {
		t.Fatalf("write marker: %v", err)
	}

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("wait: %v", err)
		}
	case <-time.After(3 * time.Second):
		t.Fatalf("waiter did not wake on marker write")
	}
}

func TestWaitForChangeServesFullTimeout(t *testing.T) {
	store := newTestStore(t)

	// With nothing touching the state dir the waiter must hold out for the
	// whole window, not give up partway through it.
	start := time.Now()
	if err := store.WaitForChange(context.Background(), 500*time.Millisecond); err != nil {
		t.Fatalf("wait: %v", err)
	}
	if waited := time.Since(start); waited < 450*time.Millisecond {
		t.Fatalf("waiter returned after %v, want the full 500ms window", waited)
	}
}

func TestWaitForChangeHonorsContext(t *testing.T) {
	store := newTestStore(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := store.WaitForChange(ctx, time.Minute); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
