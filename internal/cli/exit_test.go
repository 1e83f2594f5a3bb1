package cli

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	errs "trackswitch/pkg/errors"
)

func TestExitCodeMapping(t *testing.T) {
	cases := []struct {
		err  error
		code int
	}{
		{errs.ErrInvalidChannel, ExitUsage},
		{fmt.Errorf("TRACKSWITCH_TRACK: %w: \"nightly\"", errs.ErrInvalidChannel), ExitUsage},
		{errs.ErrLockHeld, ExitLockHeld},
		{fmt.Errorf("%w: refresh index: boom", errs.ErrReconcileFailed), ExitReconcile},
		{errs.ErrDelegateNotExecutable, ExitNotExecutable},
		{fmt.Errorf("%w: log2timeline", errs.ErrDelegateNotFound), ExitNotFound},
		{errors.New("anything else"), exitInternal},
	}

	for _, tc := range cases {
		require.Equal(t, tc.code, exitCode(tc.err), "error: %v", tc.err)
	}
}

func TestExitCodesAreDistinct(t *testing.T) {
	codes := []int{ExitUsage, ExitLockHeld, ExitReconcile, ExitNotExecutable, ExitNotFound}
	seen := map[int]bool{}
	for _, c := range codes {
		require.False(t, seen[c], "duplicate exit code %d", c)
		require.NotZero(t, c)
		seen[c] = true
	}
}
