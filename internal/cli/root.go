package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"trackswitch/internal/channel"
	"trackswitch/internal/config"
	"trackswitch/internal/delegate"
	"trackswitch/pkg/envutil"
	errs "trackswitch/pkg/errors"
)

// Version of the entry point binary.
var Version = "0.1.0"

var logger *zap.Logger

// delegateExit carries the delegate's exit code out of the run on platforms
// where the delegate runs as a child instead of replacing the process.
var delegateExit int

var rootCmd = &cobra.Command{
	Use:   "trackswitch [stable|dev] COMMAND [ARG...]",
	Short: "Channel-switching entry point for the plaso tool suite",
	Long: `trackswitch is the container entry point for the plaso forensic tool
suite. On every start it decides which release channel (stable or dev) must
be active, reconciles the installed packages when the channels differ, and
then hands control to the requested tool with the remaining arguments.

Channel selection, highest precedence first:
  1. a leading "stable" or "dev" argument (consumed, not forwarded)
  2. the TRACKSWITCH_TRACK environment variable
  3. the image default (stable)

When the requested channel is already installed, startup costs nothing: no
network, no package manager. The subcommand names switch, status, provision,
version and help are reserved; everything else is forwarded verbatim.

Examples:
  trackswitch log2timeline --storage-file /data/out.plaso /data/image.raw
  trackswitch dev psort -o dynamic /data/out.plaso
  trackswitch switch stable
  trackswitch status`,
	Args: cobra.ArbitraryArgs,
	// The delegate's flags are not ours to parse.
	DisableFlagParsing: true,
	SilenceUsage:       true,
	SilenceErrors:      true,
	RunE:               runSwitcher,
}

// Execute runs the entry point and exits the process with the appropriate
// code. It only returns control on the Linux exec path when something failed
// before delegation.
func Execute() {
	logger = newLogger()
	defer func() { _ = logger.Sync() }()

	rootCmd.Version = Version

	if err := rootCmd.Execute(); err != nil {
		logger.Error(err.Error())
		_ = logger.Sync()
		os.Exit(exitCode(err))
	}
	os.Exit(delegateExit)
}

func init() {
	rootCmd.AddCommand(switchCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(provisionCmd)
}

// newLogger builds the stderr console logger. The delegate's stdio is never
// wrapped; only the switcher's own phases log here.
func newLogger() *zap.Logger {
	encCfg := zap.NewProductionEncoderConfig()
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	level := zapcore.InfoLevel
	if os.Getenv("TRACKSWITCH_DEBUG") == "1" {
		level = zapcore.DebugLevel
	}

	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encCfg),
		zapcore.Lock(os.Stderr),
		level,
	)
	return zap.New(core)
}

func runSwitcher(cmd *cobra.Command, args []string) error {
	// Flag parsing is disabled on the root; honor help and version by hand.
	if len(args) > 0 {
		switch args[0] {
		case "-h", "--help":
			return cmd.Help()
		case "--version":
			fmt.Fprintf(cmd.OutOrStdout(), "trackswitch %s\n", Version)
			return nil
		}
	}

	cfg := config.Default()
	config.LoadFromEnv(cfg, os.Getenv)

	target, rest, explicit, err := channel.Resolve(args, os.Getenv, cfg.DefaultChannel)
	if err != nil {
		return err
	}
	if err := checkLeadingToken(rest, explicit); err != nil {
		return err
	}

	rec, err := buildReconciler(cfg)
	if err != nil {
		return err
	}
	if err := rec.Ensure(cmd.Context(), target); err != nil {
		return err
	}

	argv, err := delegate.Resolve(rest, cfg.DefaultCommand)
	if err != nil {
		return err
	}

	logger.Info("delegating",
		zap.Stringer("channel", target),
		zap.Strings("argv", argv))
	_ = logger.Sync()

	code, err := delegate.Run(argv, &delegate.Options{
		Env: envutil.FilterSwitcherEnv(os.Environ()),
		TTY: cfg.TTY,
	})
	if err != nil {
		return err
	}
	delegateExit = code
	return nil
}

// checkLeadingToken rejects a first token that is neither a recognized
// channel nor an executable command before any package-manager work starts.
// A typo like "trackswitch stabel psort" must fail as a usage error with the
// package state untouched, not reconcile and then die on lookup.
func checkLeadingToken(rest []string, explicit bool) error {
	if explicit || len(rest) == 0 {
		return nil
	}
	tok := rest[0]
	if strings.ContainsRune(tok, os.PathSeparator) {
		// Paths are checked at delegation time.
		return nil
	}
	if _, err := delegate.LookPath(tok); err != nil {
		return fmt.Errorf("%w: %q is neither a channel (stable, dev) nor a known command", errs.ErrInvalidChannel, tok)
	}
	return nil
}
