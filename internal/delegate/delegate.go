// Package delegate hands control to the actually requested command once the
// channel concerns are resolved. On Linux the switcher's process image is
// replaced outright, so stdio, exit status and the container lifecycle
// belong to the delegate by construction.
package delegate

import (
	"errors"
	"fmt"
	"io/fs"
	"os/exec"

	errs "trackswitch/pkg/errors"
)

// Options configures one delegation.
type Options struct {
	// Env is the environment handed to the delegate. Callers are expected
	// to have filtered the switcher's own variables out of it already.
	Env []string

	// TTY runs the delegate under a pseudo-terminal on platforms where it
	// is spawned as a child instead of exec'd in place. No effect on Linux.
	TTY bool
}

// Resolve picks the argument vector to delegate to. An empty invocation
// falls back to the configured default command of the image.
func Resolve(args, defaultCommand []string) ([]string, error) {
	if len(args) > 0 {
		return args, nil
	}
	if len(defaultCommand) > 0 {
		return defaultCommand, nil
	}
	return nil, fmt.Errorf("%w: no command given and no default configured", errs.ErrDelegateNotFound)
}

// LookPath resolves the delegate executable, classifying the failure modes
// the entry point reports with distinct exit codes.
func LookPath(name string) (string, error) {
	path, err := exec.LookPath(name)
	if err == nil {
		return path, nil
	}
	if errors.Is(err, fs.ErrPermission) {
		return "", fmt.Errorf("%w: %s", errs.ErrDelegateNotExecutable, name)
	}
	return "", fmt.Errorf("%w: %s", errs.ErrDelegateNotFound, name)
}
