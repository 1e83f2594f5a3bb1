package delegate

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	errs "trackswitch/pkg/errors"
)

func TestResolvePrefersArgs(t *testing.T) {
	argv, err := Resolve([]string{"psort", "-h"}, []string{"log2timeline"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(argv) != 2 || argv[0] != "psort" {
		t.Fatalf("unexpected argv: %v", argv)
	}
}

func TestResolveFallsBackToDefault(t *testing.T) {
	argv, err := Resolve(nil, []string{"log2timeline"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(argv) != 1 || argv[0] != "log2timeline" {
		t.Fatalf("unexpected argv: %v", argv)
	}
}

func TestResolveNothingToRun(t *testing.T) {
	if _, err := Resolve(nil, nil); !errors.Is(err, errs.ErrDelegateNotFound) {
		t.Fatalf("expected ErrDelegateNotFound, got %v", err)
	}
}

func TestLookPathNotFound(t *testing.T) {
	if _, err := LookPath("definitely-not-a-real-command-4c6f"); !errors.Is(err, errs.ErrDelegateNotFound) {
		t.Fatalf("expected ErrDelegateNotFound, got %v", err)
	}
}

func TestLookPathNotExecutable(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("permission bits do not apply on windows")
	}

	dir := t.TempDir()
	target := filepath.Join(dir, "tool")
	if err := os.WriteFile(target, []byte("#!/bin/sh\n"), 0644); err != nil {
		t.Fatalf("write file: %v", err)
	}

	if _, err := LookPath(target); !errors.Is(err, errs.ErrDelegateNotExecutable) {
		t.Fatalf("expected ErrDelegateNotExecutable, got %v", err)
	}
}

func TestLookPathResolves(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("needs a unix shell")
	}

	path, err := LookPath("sh")
	if err != nil {
		t.Fatalf("LookPath(sh): %v", err)
	}
	if !filepath.IsAbs(path) {
		t.Fatalf("expected absolute path, got %q", path)
	}
}
