//go:build linux
// +build linux

package delegate

import (
	"fmt"

	"golang.org/x/sys/unix"

	errs "trackswitch/pkg/errors"
)

// Run replaces the current process image with the delegate via execve(2).
// It only returns on failure: on success the delegate owns the process, so
// stdio and the exit status need no forwarding at all.
func Run(argv []string, opts *Options) (int, error) {
	path, err := LookPath(argv[0])
	if err != nil {
		return -1, err
	}

	err = unix.Exec(path, argv, opts.Env)
	// Unreachable on success.
	switch err {
	case unix.ENOENT:
		return -1, fmt.Errorf("%w: %s", errs.ErrDelegateNotFound, path)
	case unix.EACCES, unix.ENOEXEC:
		return -1, fmt.Errorf("%w: %s", errs.ErrDelegateNotExecutable, path)
	}
	return -1, fmt.Errorf("exec %s: %w", path, err)
}
