//go:build windows
// +build windows

package state

import (
	"fmt"
	"runtime"
)

// Lock provides a file lock over the switcher's package state.
type Lock struct{}

// TryLock attempts to acquire the exclusive state lock.
func (s *Store) TryLock() (*Lock, error) {
	return nil, fmt.Errorf("state locking is not supported on %s", runtime.GOOS)
}

// Release releases the lock.
func (l *Lock) Release() error { return nil }
