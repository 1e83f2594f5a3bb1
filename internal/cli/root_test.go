package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"trackswitch/internal/channel"
	"trackswitch/internal/state"
	errs "trackswitch/pkg/errors"
)

func TestCheckLeadingToken(t *testing.T) {
	// Explicit channel consumed: the remaining command is checked only
	// after reconciliation, never here.
	require.NoError(t, checkLeadingToken([]string{"whatever-tool"}, true))

	// Empty invocation falls through to the default command.
	require.NoError(t, checkLeadingToken(nil, false))

	// Paths are delegation's problem.
	require.NoError(t, checkLeadingToken([]string{"/no/such/tool"}, false))

	// A known command passes.
	require.NoError(t, checkLeadingToken([]string{"sh"}, false))

	// Neither a channel nor a command: usage error before any mutation.
	err := checkLeadingToken([]string{"bogus-channel-or-tool"}, false)
	require.ErrorIs(t, err, errs.ErrInvalidChannel)
}

func TestStatusUnprovisioned(t *testing.T) {
	t.Setenv("TRACKSWITCH_ROOT", t.TempDir())
	t.Setenv("TRACKSWITCH_DATA_DIR", t.TempDir())

	out := &bytes.Buffer{}
	statusCmd.SetOut(out)
	require.NoError(t, runStatus(statusCmd, nil))
	require.Contains(t, out.String(), "unknown (image not provisioned)")
}

func TestStatusReportsMarkerAndJournal(t *testing.T) {
	root := t.TempDir()
	t.Setenv("TRACKSWITCH_ROOT", root)
	t.Setenv("TRACKSWITCH_DATA_DIR", t.TempDir())

	store, err := state.NewStore(root)
	require.NoError(t, err)
	_, err = store.WriteMarker(channel.Dev, "deb https://example.test/dev jammy main")
	require.NoError(t, err)
	require.NoError(t, store.WriteJournal(channel.Stable))

	out := &bytes.Buffer{}
	statusCmd.SetOut(out)
	require.NoError(t, runStatus(statusCmd, nil))

	require.Contains(t, out.String(), "channel:  dev")
	require.Contains(t, out.String(), "https://example.test/dev")
	require.Contains(t, out.String(), "interrupted switch to \"stable\"")
}

func TestRootHelpListsReservedCommands(t *testing.T) {
	out := &bytes.Buffer{}
	rootCmd.SetOut(out)
	rootCmd.SetArgs([]string{"--help"})
	require.NoError(t, rootCmd.Execute())

	for _, name := range []string{"switch", "status", "provision"} {
		require.Contains(t, out.String(), name)
	}
}
