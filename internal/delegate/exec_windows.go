//go:build windows
// +build windows

package delegate

import (
	"fmt"
	"runtime"
)

// Run is not supported on Windows; the entry point targets Linux containers.
func Run(argv []string, opts *Options) (int, error) {
	return -1, fmt.Errorf("delegation is not supported on %s", runtime.GOOS)
}
