package cli

import (
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"trackswitch/internal/channel"
	"trackswitch/internal/config"
)

var provisionTrack string

var provisionCmd = &cobra.Command{
	Use:   "provision",
	Short: "Install the tool suite at image build time",
	Long: `Write the repository entry for the given track, refresh the package
index, install the tool suite and commit the initial channel marker.

Run once in the Dockerfile, after the repository signing key is in place.
Unlike a normal start this never takes the fast path: it always installs.`,
	Args: cobra.NoArgs,
	RunE: runProvision,
}

func init() {
	provisionCmd.Flags().StringVar(&provisionTrack, "track", "stable",
		"release channel to provision (stable or dev)")
}

func runProvision(cmd *cobra.Command, args []string) error {
	target, err := channel.Parse(provisionTrack)
	if err != nil {
		return err
	}

	cfg := config.Default()
	config.LoadFromEnv(cfg, os.Getenv)

	rec, err := buildReconciler(cfg)
	if err != nil {
		return err
	}
	if err := rec.Provision(cmd.Context(), target); err != nil {
		return err
	}

	logger.Info("image provisioned", zap.Stringer("channel", target))
	return nil
}
