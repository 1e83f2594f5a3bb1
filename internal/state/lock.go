//go:build !windows
// +build !windows

package state

import (
	"fmt"
	"os"

	"golang.org/x/sys/unix"

	errs "trackswitch/pkg/errors"
)

// Lock provides a file lock over the switcher's package state.
// Uses flock(2) for inter-process mutual exclusion. The kernel drops the
// lock when the holder dies, so a reconciliation killed mid-flight never
// leaves the state permanently locked; the journal covers detecting what it
// left behind.
type Lock struct {
	path string
	file *os.File
}

// TryLock attempts to acquire the exclusive state lock.
// Returns ErrLockHeld immediately when another process holds it.
func (s *Store) TryLock() (*Lock, error) {
	file, err := os.OpenFile(s.LockPath(), os.O_CREATE|os.O_RDWR, 0644)
	if err != nil {
		return nil, fmt.Errorf("open lock file: %w", err)
	}

	if err := unix.Flock(int(file.Fd()), unix.LOCK_EX|unix.LOCK_NB); err != nil {
		file.Close()
		if err == unix.EWOULDBLOCK {
			return nil, errs.ErrLockHeld
		}
		return nil, fmt.Errorf("acquire lock: %w", err)
	}

	return &Lock{path: s.LockPath(), file: file}, nil
}

// Release releases the lock. Safe to call more than once.
func (l *Lock) Release() error {
	if l.file == nil {
		return nil
	}

	if err := unix.Flock(int(l.file.Fd()), unix.LOCK_UN); err != nil {
		l.file.Close()
		l.file = nil
		return fmt.Errorf("release lock: %w", err)
	}

	if err := l.file.Close(); err != nil {
		l.file = nil
		return fmt.Errorf("close lock file: %w", err)
	}

	l.file = nil
	return nil
}
