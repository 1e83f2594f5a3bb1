// Package errors provides standard error types for trackswitch.
//
// These sentinel errors allow callers to check for specific error conditions
// using errors.Is(), enabling programmatic error handling and the distinct
// exit codes the entry point promises for each failure class.
package errors

import "errors"

// Channel selection errors
var (
	// ErrInvalidChannel indicates the requested release channel is not one of
	// the recognized values (stable, dev).
	ErrInvalidChannel = errors.New("unknown release channel")
)

// Reconciliation errors
var (
	// ErrLockHeld indicates the package state lock is held by another process
	// and the bounded retries were exhausted.
	ErrLockHeld = errors.New("package state is locked by another process")

	// ErrReconcileFailed indicates channel reconciliation did not complete.
	// The wrapped cause carries the failing phase (track change, index
	// refresh, or package install).
	ErrReconcileFailed = errors.New("channel reconciliation failed")
)

// Delegation errors
var (
	// ErrDelegateNotFound indicates the requested command does not exist in
	// PATH after reconciliation.
	ErrDelegateNotFound = errors.New("command not found")

	// ErrDelegateNotExecutable indicates the requested command exists but
	// cannot be executed.
	ErrDelegateNotExecutable = errors.New("command is not executable")
)

// State errors
var (
	// ErrNoMarker indicates no channel marker has been written yet, i.e. the
	// image was never provisioned and the installed channel is unknown.
	ErrNoMarker = errors.New("no channel marker present")
)
