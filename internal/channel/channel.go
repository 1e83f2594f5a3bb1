// Package channel defines the release channels of the packaged tool suite
// and the rules for resolving which one an invocation asked for.
//
// Exactly two channels exist: stable and dev. The set is closed on purpose;
// an unrecognized name is a usage error, never a guess.
package channel

import (
	"fmt"
	"strings"

	errs "trackswitch/pkg/errors"
)

// Channel is a release line of the packaged tool suite.
type Channel string

const (
	// Stable is the released track. It is the image's built-in default.
	Stable Channel = "stable"

	// Dev is the development track.
	Dev Channel = "dev"
)

// TrackEnvVar selects the target channel for a container start when no
// leading argument token does. An explicit argument token wins over it.
const TrackEnvVar = "TRACKSWITCH_TRACK"

// Parse converts a user-supplied name into a Channel.
// "development" is accepted as an alias for dev. Anything outside the closed
// set returns ErrInvalidChannel.
func Parse(s string) (Channel, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "stable":
		return Stable, nil
	case "dev", "development":
		return Dev, nil
	}
	return "", fmt.Errorf("%w: %q (expected stable or dev)", errs.ErrInvalidChannel, s)
}

func (c Channel) String() string {
	return string(c)
}

// Resolve determines the target channel for one invocation.
//
// Precedence, highest first:
//  1. a leading argument token that parses as a channel (consumed)
//  2. the TRACKSWITCH_TRACK environment variable
//  3. the built-in default
//
// The returned args have the consumed token stripped and are otherwise
// untouched; explicit reports whether a leading token was consumed. A leading
// token that does not parse is left in place for the caller to treat as the
// delegated command. An env value that does not parse is an error: the
// variable exists only to name a channel, so a bad value is never ignored.
func Resolve(args []string, getenv func(string) string, def Channel) (target Channel, rest []string, explicit bool, err error) {
	if len(args) > 0 {
		if ch, perr := Parse(args[0]); perr == nil {
			return ch, args[1:], true, nil
		}
	}
	if v := getenv(TrackEnvVar); v != "" {
		ch, perr := Parse(v)
		if perr != nil {
			return "", args, false, fmt.Errorf("%s: %w", TrackEnvVar, perr)
		}
		return ch, args, false, nil
	}
	return def, args, false, nil
}
