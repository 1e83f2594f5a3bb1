package cli

import (
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"trackswitch/internal/channel"
	"trackswitch/internal/config"
)

var switchCmd = &cobra.Command{
	Use:   "switch {stable|dev}",
	Short: "Switch the installed channel without running a tool",
	Long: `Reconcile the installed package set with the given release channel and
exit. Useful for warming a long-lived container before delegating work to it.

Examples:
  trackswitch switch dev
  trackswitch switch stable`,
	Args: cobra.ExactArgs(1),
	RunE: runSwitch,
}

func runSwitch(cmd *cobra.Command, args []string) error {
	target, err := channel.Parse(args[0])
	if err != nil {
		return err
	}

	cfg := config.Default()
	config.LoadFromEnv(cfg, os.Getenv)

	rec, err := buildReconciler(cfg)
	if err != nil {
		return err
	}
	if err := rec.Ensure(cmd.Context(), target); err != nil {
		return err
	}

	logger.Info("channel active", zap.Stringer("channel", target))
	return nil
}
