// Package aptman abstracts the package manager behind a small capability
// interface so the reconciliation logic never talks to apt directly and can
// be exercised against a fake in tests.
package aptman

import "context"

// Manager is the capability surface the switcher needs from a package
// manager. Implementations mutate shared, process-wide state; callers are
// responsible for serializing access (see internal/reconcile).
type Manager interface {
	// InstalledTrack returns the repository source line currently configured
	// for the tool suite, or "" when none is.
	InstalledTrack(ctx context.Context) (string, error)

	// SetTrack points the suite's repository entry at the given source line.
	// An empty repoLine removes the entry, leaving no track configured.
	SetTrack(ctx context.Context, repoLine string) error

	// RefreshIndex fetches the package index for the configured track.
	RefreshIndex(ctx context.Context) error

	// InstallOrUpgrade installs or upgrades the given packages from the
	// configured track.
	InstallOrUpgrade(ctx context.Context, packages []string) error
}
