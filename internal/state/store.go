// Package state persists what the switcher knows about the installed channel
// between container starts: the channel marker, the reconciliation journal
// and the lock that serializes package mutations across processes.
package state

import (
	"fmt"
	"os"
	"path/filepath"
)

// Default state root directory
const DefaultRootDir = "/var/lib/trackswitch"

// Environment variable naming the state root
const RootDirEnvVar = "TRACKSWITCH_ROOT"

// On-disk file names under the state root.
const (
	markerFile  = "channel.json"
	journalFile = "reconcile.journal"
	lockFile    = "lock"
)

// Store manages the switcher's state directory.
type Store struct {
	RootDir string
}

// NewStore creates a state store.
// When rootDir is empty, resolution order is:
//  1. the TRACKSWITCH_ROOT environment variable
//  2. the default /var/lib/trackswitch
func NewStore(rootDir string) (*Store, error) {
	if rootDir == "" {
		rootDir = os.Getenv(RootDirEnvVar)
	}
	if rootDir == "" {
		rootDir = DefaultRootDir
	}

	if err := os.MkdirAll(rootDir, 0755); err != nil {
		return nil, fmt.Errorf("create state directory: %w", err)
	}

	return &Store{RootDir: rootDir}, nil
}

// MarkerPath returns the path of the channel marker file.
func (s *Store) MarkerPath() string {
	return filepath.Join(s.RootDir, markerFile)
}

// JournalPath returns the path of the reconciliation journal file.
func (s *Store) JournalPath() string {
	return filepath.Join(s.RootDir, journalFile)
}

// LockPath returns the path of the lock file.
func (s *Store) LockPath() string {
	return filepath.Join(s.RootDir, lockFile)
}
