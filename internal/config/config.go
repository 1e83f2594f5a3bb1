// Package config holds the runtime configuration of the entry point.
//
// Everything is settable through TRACKSWITCH_* environment variables so the
// same image can be repointed at a different repository, package set or
// default tool without a rebuild.
package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"trackswitch/internal/channel"
	errs "trackswitch/pkg/errors"
)

// Defaults target the GIFT PPA packaging of the plaso tool suite, which is
// what the shipped image provisions. All of them are plain data; swapping the
// repository lines and package list turns the switcher into a launcher for
// any apt-delivered suite.
const (
	DefaultRootDir     = "/var/lib/trackswitch"
	DefaultSourcesFile = "/etc/apt/sources.list.d/trackswitch.list"
	DefaultDataDir     = "/data"

	defaultStableRepo = "deb https://ppa.launchpadcontent.net/gift/stable/ubuntu jammy main"
	defaultDevRepo    = "deb https://ppa.launchpadcontent.net/gift/dev/ubuntu jammy main"
)

// Config is the resolved configuration for one container start.
type Config struct {
	// RootDir is the switcher's state directory (marker, journal, lock).
	RootDir string

	// SourcesFile is the apt sources.list.d entry the switcher owns.
	SourcesFile string

	// DataDir is the sanctioned exchange mount for the delegated tool.
	// The switcher never validates its contents.
	DataDir string

	// DefaultChannel is the channel used when neither an argument token nor
	// TRACKSWITCH_TRACK selects one.
	DefaultChannel channel.Channel

	// Repos maps each channel to its full apt "deb ..." source line.
	Repos map[channel.Channel]string

	// Packages is the package set reconciled on a channel switch.
	Packages []string

	// DefaultCommand is delegated to when the invocation carries no command
	// of its own, mirroring the image's historical CMD.
	DefaultCommand []string

	// LockRetries bounds how often a start waits out a concurrent
	// reconciliation before giving up with a lock error.
	LockRetries int

	// LockWait is the longest a single lock retry waits for the concurrent
	// reconciliation to finish before re-attempting.
	LockWait time.Duration

	// TTY requests a pseudo-terminal on the child-process delegation
	// fallback. Ignored where the delegate is exec'd in place.
	TTY bool
}

// Default returns the built-in configuration of the shipped image.
func Default() *Config {
	return &Config{
		RootDir:        DefaultRootDir,
		SourcesFile:    DefaultSourcesFile,
		DataDir:        DefaultDataDir,
		DefaultChannel: channel.Stable,
		Repos: map[channel.Channel]string{
			channel.Stable: defaultStableRepo,
			channel.Dev:    defaultDevRepo,
		},
		Packages:       []string{"plaso-tools"},
		DefaultCommand: []string{"log2timeline"},
		LockRetries:    5,
		LockWait:       30 * time.Second,
	}
}

// LoadFromEnv overrides cfg with TRACKSWITCH_* environment variables.
// TRACKSWITCH_TRACK is deliberately not read here; channel resolution owns it
// because an argument token has to win over it.
func LoadFromEnv(cfg *Config, getenv func(string) string) {
	if v := getenv("TRACKSWITCH_ROOT"); v != "" {
		cfg.RootDir = v
	}
	if v := getenv("TRACKSWITCH_SOURCES_FILE"); v != "" {
		cfg.SourcesFile = v
	}
	if v := getenv("TRACKSWITCH_DATA_DIR"); v != "" {
		cfg.DataDir = v
	}
	if v := getenv("TRACKSWITCH_REPO_STABLE"); v != "" {
		cfg.Repos[channel.Stable] = v
	}
	if v := getenv("TRACKSWITCH_REPO_DEV"); v != "" {
		cfg.Repos[channel.Dev] = v
	}
	if v := getenv("TRACKSWITCH_PACKAGES"); v != "" {
		cfg.Packages = splitList(v)
	}
	if v := getenv("TRACKSWITCH_DEFAULT_CMD"); v != "" {
		cfg.DefaultCommand = strings.Fields(v)
	}
	if v := getenv("TRACKSWITCH_LOCK_RETRIES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			cfg.LockRetries = n
		}
	}
	if v := getenv("TRACKSWITCH_LOCK_WAIT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			cfg.LockWait = d
		}
	}
	if v := getenv("TRACKSWITCH_TTY"); v == "1" || v == "true" {
		cfg.TTY = true
	}
}

// RepoLine returns the apt source line for a channel.
func (c *Config) RepoLine(ch channel.Channel) (string, error) {
	line, ok := c.Repos[ch]
	if !ok || line == "" {
		return "", fmt.Errorf("%w: no repository configured for %q", errs.ErrInvalidChannel, ch)
	}
	return line, nil
}

// splitList splits a comma- or whitespace-separated package list.
func splitList(s string) []string {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t'
	})
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		if f != "" {
			out = append(out, f)
		}
	}
	return out
}
