//go:build !linux && !windows
// +build !linux,!windows

package delegate

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"os/signal"
	"syscall"

	"github.com/creack/pty"
)

// Run spawns the delegate as a child process, forwards signals to it and
// propagates its exit status. This is the development-host fallback for
// platforms without in-place process replacement semantics; the shipped
// image always takes the Linux exec path.
func Run(argv []string, opts *Options) (int, error) {
	path, err := LookPath(argv[0])
	if err != nil {
		return -1, err
	}

	cmd := exec.Command(path, argv[1:]...)
	cmd.Env = opts.Env

	if opts.TTY {
		return runWithPTY(cmd)
	}

	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Start(); err != nil {
		return -1, fmt.Errorf("start delegate: %w", err)
	}

	stop := forwardSignals(cmd.Process)
	defer stop()

	return waitStatus(cmd.Wait())
}

// runWithPTY runs the delegate under a pseudo-terminal, propagating window
// size changes from the controlling terminal.
func runWithPTY(cmd *exec.Cmd) (int, error) {
	ptmx, err := pty.Start(cmd)
	if err != nil {
		return -1, fmt.Errorf("start pty: %w", err)
	}
	defer ptmx.Close()

	resizeCh := make(chan os.Signal, 1)
	signal.Notify(resizeCh, syscall.SIGWINCH)
	defer signal.Stop(resizeCh)

	go func() {
		for range resizeCh {
			_ = pty.InheritSize(os.Stdin, ptmx)
		}
	}()
	resizeCh <- syscall.SIGWINCH

	go func() { _, _ = io.Copy(ptmx, os.Stdin) }()
	_, _ = io.Copy(os.Stdout, ptmx)

	return waitStatus(cmd.Wait())
}

// forwardSignals relays termination signals to the delegate so the container
// lifecycle reaches it even without exec semantics. Returns a stop func.
func forwardSignals(proc *os.Process) func() {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP, syscall.SIGQUIT)

	go func() {
		for sig := range sigCh {
			_ = proc.Signal(sig)
		}
	}()
	return func() {
		signal.Stop(sigCh)
		close(sigCh)
	}
}

// waitStatus converts a Wait error into the delegate's exit code, using the
// 128+signal convention for signal deaths.
func waitStatus(err error) (int, error) {
	if err == nil {
		return 0, nil
	}
	if exitErr, ok := err.(*exec.ExitError); ok {
		if ws, ok := exitErr.Sys().(syscall.WaitStatus); ok && ws.Signaled() {
			return 128 + int(ws.Signal()), nil
		}
		return exitErr.ExitCode(), nil
	}
	return -1, err
}
