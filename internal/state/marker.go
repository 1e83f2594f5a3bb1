package state

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/opencontainers/go-digest"

	"trackswitch/internal/channel"
	errs "trackswitch/pkg/errors"
	"trackswitch/pkg/fileutil"
)

// Marker records the channel whose binaries are currently installed.
// It is committed only after a reconciliation fully succeeded, so its
// presence means "this channel's binaries are complete on disk".
type Marker struct {
	// Channel is the installed release channel.
	Channel channel.Channel `json:"channel"`

	// RepoLine is the apt source line the channel was installed from.
	RepoLine string `json:"repoLine"`

	// RepoDigest is the digest of RepoLine at commit time. A mismatch with
	// the currently configured line means the repository mapping drifted and
	// the marker can no longer vouch for the installed state.
	RepoDigest digest.Digest `json:"repoDigest"`

	// UpdatedAt is the commit timestamp.
	UpdatedAt time.Time `json:"updatedAt"`
}

// Matches reports whether the marker vouches for the given channel and
// repository line. Both the channel name and the line digest must agree.
func (m *Marker) Matches(ch channel.Channel, repoLine string) bool {
	if m == nil || m.Channel != ch {
		return false
	}
	return m.RepoDigest.Validate() == nil && m.RepoDigest == digest.FromString(repoLine)
}

// LiveMatches reports whether the live sources entry still carries the line
// the marker was committed against. A hand-edited or drifted entry makes the
// marker worthless: apt would install from somewhere the marker never saw.
func (m *Marker) LiveMatches(liveLine string) bool {
	if m == nil {
		return false
	}
	return m.RepoDigest.Validate() == nil && m.RepoDigest == digest.FromString(liveLine)
}

// ReadMarker loads the channel marker.
// Returns ErrNoMarker when none has been written yet.
func (s *Store) ReadMarker() (*Marker, error) {
	data, err := os.ReadFile(s.MarkerPath())
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errs.ErrNoMarker
		}
		return nil, fmt.Errorf("read channel marker: %w", err)
	}

	var m Marker
	if err := json.Unmarshal(data, &m); err != nil {
		// A corrupt marker is treated like a missing one by callers; keep
		// the parse failure visible in the error chain.
		return nil, fmt.Errorf("%w: parse %s: %v", errs.ErrNoMarker, s.MarkerPath(), err)
	}
	return &m, nil
}

// WriteMarker commits a new channel marker atomically.
func (s *Store) WriteMarker(ch channel.Channel, repoLine string) (*Marker, error) {
	m := &Marker{
		Channel:    ch,
		RepoLine:   repoLine,
		RepoDigest: digest.FromString(repoLine),
		UpdatedAt:  time.Now().UTC(),
	}

	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal channel marker: %w", err)
	}
	if err := fileutil.AtomicWriteFile(s.MarkerPath(), data, 0644); err != nil {
		return nil, fmt.Errorf("write channel marker: %w", err)
	}
	return m, nil
}
