package aptman

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"trackswitch/pkg/fileutil"
)

// Default apt locations. Overridable for tests.
const (
	defaultListsPartialDir = "/var/lib/apt/lists/partial"
)

// CommandRunner executes a command and returns its combined output.
// Injected so tests can assert the exact argument vectors without apt.
type CommandRunner func(ctx context.Context, name string, args ...string) ([]byte, error)

// Apt drives the system apt to implement Manager.
type Apt struct {
	sourcesFile     string
	listsPartialDir string
	run             CommandRunner
	logger          *zap.Logger
}

var _ Manager = (*Apt)(nil)

// NewApt creates an apt-backed Manager owning the given sources.list.d entry.
func NewApt(sourcesFile string, logger *zap.Logger) *Apt {
	return &Apt{
		sourcesFile:     sourcesFile,
		listsPartialDir: defaultListsPartialDir,
		run:             runCommand,
		logger:          logger,
	}
}

// runCommand is the production CommandRunner. apt must never prompt inside a
// container, hence the forced noninteractive frontend.
func runCommand(ctx context.Context, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Env = append(os.Environ(), "DEBIAN_FRONTEND=noninteractive")
	return cmd.CombinedOutput()
}

// InstalledTrack reads the source line the switcher's sources entry currently
// carries. A missing file means no track is configured.
func (a *Apt) InstalledTrack(ctx context.Context) (string, error) {
	data, err := os.ReadFile(a.sourcesFile)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", fmt.Errorf("read sources entry: %w", err)
	}

	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		return line, nil
	}
	return "", nil
}

// SetTrack rewrites the sources entry atomically. Readers of the file (and a
// crash between write and rename) see either the old track or the new one,
// never a torn line. An empty repoLine removes the entry.
func (a *Apt) SetTrack(ctx context.Context, repoLine string) error {
	if repoLine == "" {
		if err := os.Remove(a.sourcesFile); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("remove sources entry: %w", err)
		}
		a.logger.Info("repository track removed", zap.String("file", a.sourcesFile))
		return nil
	}

	if err := fileutil.EnsureParentDir(a.sourcesFile, 0755); err != nil {
		return err
	}
	content := "# Managed by trackswitch. Edits are overwritten on channel switch.\n" + repoLine + "\n"
	if err := fileutil.AtomicWriteFile(a.sourcesFile, []byte(content), 0644); err != nil {
		return fmt.Errorf("set repository track: %w", err)
	}
	a.logger.Info("repository track set",
		zap.String("file", a.sourcesFile),
		zap.String("line", repoLine))
	return nil
}

// RefreshIndex updates the package index for the configured track.
// Leftovers of an interrupted earlier fetch are purged first so apt does not
// trust a partially downloaded index.
func (a *Apt) RefreshIndex(ctx context.Context) error {
	if err := a.clearPartialLists(); err != nil {
		return err
	}

	out, err := a.run(ctx, "apt-get", "update")
	if err != nil {
		return fmt.Errorf("apt-get update: %w: %s", err, outputTail(out))
	}
	a.logger.Info("package index refreshed")
	return nil
}

// InstallOrUpgrade installs or upgrades the tool suite packages from the
// configured track. Downgrades are allowed: switching dev back to stable
// moves to older version numbers.
func (a *Apt) InstallOrUpgrade(ctx context.Context, packages []string) error {
	if len(packages) == 0 {
		return fmt.Errorf("no packages configured")
	}

	args := append([]string{"install", "-y", "--allow-downgrades"}, packages...)
	out, err := a.run(ctx, "apt-get", args...)
	if err != nil {
		return fmt.Errorf("apt-get install %s: %w: %s", strings.Join(packages, " "), err, outputTail(out))
	}
	a.logger.Info("packages installed", zap.Strings("packages", packages))
	return nil
}

// clearPartialLists removes remnants of interrupted index fetches.
func (a *Apt) clearPartialLists() error {
	entries, err := os.ReadDir(a.listsPartialDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("read partial lists directory: %w", err)
	}
	for _, e := range entries {
		if err := os.RemoveAll(filepath.Join(a.listsPartialDir, e.Name())); err != nil {
			return fmt.Errorf("remove partial index %s: %w", e.Name(), err)
		}
	}
	return nil
}

// outputTail returns the last part of command output for error messages.
// apt is chatty; the tail is where the failure reason lives.
func outputTail(out []byte) string {
	const max = 512
	s := strings.TrimSpace(string(out))
	if len(s) > max {
		s = "..." + s[len(s)-max:]
	}
	return s
}
