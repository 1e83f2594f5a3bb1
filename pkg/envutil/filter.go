// Package envutil provides utilities for environment variable handling.
//
// This package centralizes the names of trackswitch's own environment
// variables so they can be stripped from the environment before control is
// handed to the delegated tool. The delegate must see the container's
// environment, not the switcher's internal knobs.
package envutil

import "strings"

// internalEnvPrefix covers every TRACKSWITCH_* variable: the documented
// configuration surface (TRACKSWITCH_TRACK, TRACKSWITCH_ROOT, ...) and any
// future additions.
const internalEnvPrefix = "TRACKSWITCH_"

// FilterSwitcherEnv removes all TRACKSWITCH_* environment variables from the
// list. This prevents switcher configuration from leaking into the delegated
// tool's environment.
func FilterSwitcherEnv(env []string) []string {
	filtered := make([]string, 0, len(env))
	for _, e := range env {
		if !IsSwitcherEnv(e) {
			filtered = append(filtered, e)
		}
	}
	return filtered
}

// IsSwitcherEnv checks if the environment variable is a TRACKSWITCH_*
// internal variable. The input should be in "KEY=VALUE" format.
func IsSwitcherEnv(envVar string) bool {
	return strings.HasPrefix(envVar, internalEnvPrefix)
}
