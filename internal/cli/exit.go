package cli

import (
	"errors"

	errs "trackswitch/pkg/errors"
)

// Exit codes of the entry point. Delegate failures use the delegate's own
// code; everything the switcher itself reports is distinguishable from them.
// 126 and 127 follow the shell convention.
const (
	ExitUsage         = 2   // invalid channel or malformed invocation
	ExitLockHeld      = 123 // package state lock not acquired within bounds
	ExitReconcile     = 125 // channel reconciliation failed
	ExitNotExecutable = 126 // delegate exists but cannot run
	ExitNotFound      = 127 // delegate not found
	exitInternal      = 1
)

// exitCode maps a switcher error to its exit code.
func exitCode(err error) int {
	switch {
	case errors.Is(err, errs.ErrInvalidChannel):
		return ExitUsage
	case errors.Is(err, errs.ErrLockHeld):
		return ExitLockHeld
	case errors.Is(err, errs.ErrReconcileFailed):
		return ExitReconcile
	case errors.Is(err, errs.ErrDelegateNotExecutable):
		return ExitNotExecutable
	case errors.Is(err, errs.ErrDelegateNotFound):
		return ExitNotFound
	}
	return exitInternal
}
