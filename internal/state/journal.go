package state

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"trackswitch/internal/channel"
	"trackswitch/pkg/fileutil"
)

// Journal marks a reconciliation in flight. It is written before the first
// package-manager mutation and removed after the marker is committed, so a
// journal found at startup means an earlier reconciliation died partway and
// the installed state cannot be trusted.
type Journal struct {
	// Target is the channel the dead reconciliation was switching to.
	Target channel.Channel `json:"target"`

	// StartedAt is when the reconciliation began.
	StartedAt time.Time `json:"startedAt"`

	// PID is the process that wrote the journal. Informational only; the
	// lock, not the PID, decides who may reconcile.
	PID int `json:"pid"`
}

// ReadJournal loads the reconciliation journal.
// Returns (nil, nil) when no reconciliation is in flight.
func (s *Store) ReadJournal() (*Journal, error) {
	data, err := os.ReadFile(s.JournalPath())
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read reconcile journal: %w", err)
	}

	var j Journal
	if err := json.Unmarshal(data, &j); err != nil {
		// An unreadable journal still proves an interrupted reconciliation.
		return &Journal{}, nil
	}
	return &j, nil
}

// WriteJournal records that a reconciliation toward ch is starting.
func (s *Store) WriteJournal(ch channel.Channel) error {
	j := Journal{
		Target:    ch,
		StartedAt: time.Now().UTC(),
		PID:       os.Getpid(),
	}

	data, err := json.MarshalIndent(&j, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal reconcile journal: %w", err)
	}
	if err := fileutil.AtomicWriteFile(s.JournalPath(), data, 0644); err != nil {
		return fmt.Errorf("write reconcile journal: %w", err)
	}
	return nil
}

// ClearJournal removes the journal after a successful reconciliation.
func (s *Store) ClearJournal() error {
	if err := os.Remove(s.JournalPath()); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("clear reconcile journal: %w", err)
	}
	return nil
}
