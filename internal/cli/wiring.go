package cli

import (
	"trackswitch/internal/aptman"
	"trackswitch/internal/config"
	"trackswitch/internal/reconcile"
	"trackswitch/internal/state"
)

// buildReconciler wires the state store and the apt manager into a
// reconciler for one invocation.
func buildReconciler(cfg *config.Config) (*reconcile.Reconciler, error) {
	store, err := state.NewStore(cfg.RootDir)
	if err != nil {
		return nil, err
	}
	mgr := aptman.NewApt(cfg.SourcesFile, logger)
	return reconcile.New(mgr, store, cfg, logger), nil
}
