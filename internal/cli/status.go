package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"trackswitch/internal/config"
	"trackswitch/internal/state"
	errs "trackswitch/pkg/errors"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the installed channel and switcher state",
	Args:  cobra.NoArgs,
	RunE:  runStatus,
}

func runStatus(cmd *cobra.Command, args []string) error {
	cfg := config.Default()
	config.LoadFromEnv(cfg, os.Getenv)

	store, err := state.NewStore(cfg.RootDir)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()

	marker, err := store.ReadMarker()
	switch {
	case errors.Is(err, errs.ErrNoMarker):
		fmt.Fprintln(out, "channel:  unknown (image not provisioned)")
	case err != nil:
		return err
	default:
		fmt.Fprintf(out, "channel:  %s\n", marker.Channel)
		fmt.Fprintf(out, "track:    %s\n", marker.RepoLine)
		fmt.Fprintf(out, "updated:  %s\n", marker.UpdatedAt.Format("2006-01-02 15:04:05 MST"))
	}

	journal, err := store.ReadJournal()
	if err != nil {
		return err
	}
	if journal != nil {
		fmt.Fprintf(out, "warning:  interrupted switch to %q pending; next start will reconcile\n", journal.Target)
	}

	if _, err := os.Stat(cfg.DataDir); err != nil {
		fmt.Fprintf(out, "data dir: %s (not present)\n", cfg.DataDir)
	} else {
		fmt.Fprintf(out, "data dir: %s\n", cfg.DataDir)
	}
	return nil
}
