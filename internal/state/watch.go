package state

import (
	"context"
	"fmt"
	"time"

	"github.com/fsnotify/fsnotify"
)

// WaitForChange blocks until something in the state directory changes, the
// timeout elapses, or ctx is done. Holders of the lock finish a
// reconciliation by writing the marker and removing the journal, so any
// event in the directory is a reason for a waiter to re-check the state.
//
// flock transitions themselves generate no filesystem events, so the watch
// targets the directory contents. A completion that lands between the failed
// lock attempt and the watch being registered produces no event; the timeout
// is the backstop for that window, and it is served in full — callers count
// one bounded retry per WaitForChange call.
func (s *Store) WaitForChange(ctx context.Context, timeout time.Duration) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create state watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(s.RootDir); err != nil {
		return fmt.Errorf("watch state directory: %w", err)
	}

	deadline := time.NewTimer(timeout)
	defer deadline.Stop()

	select {
	case <-watcher.Events:
		return nil
	case err := <-watcher.Errors:
		return fmt.Errorf("state watcher: %w", err)
	case <-deadline.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
