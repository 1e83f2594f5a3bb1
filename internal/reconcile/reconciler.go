// Package reconcile aligns the installed package set with the requested
// release channel. This is the part of the entry point that has to stay
// correct under interruption and concurrent container starts.
package reconcile

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"trackswitch/internal/aptman"
	"trackswitch/internal/channel"
	"trackswitch/internal/config"
	"trackswitch/internal/state"
	errs "trackswitch/pkg/errors"
)

// Reconciler decides whether the installed channel matches the requested one
// and performs the switch when it does not.
type Reconciler struct {
	mgr    aptman.Manager
	store  *state.Store
	cfg    *config.Config
	logger *zap.Logger
}

// New creates a Reconciler.
func New(mgr aptman.Manager, store *state.Store, cfg *config.Config, logger *zap.Logger) *Reconciler {
	return &Reconciler{mgr: mgr, store: store, cfg: cfg, logger: logger}
}

// Ensure makes the target channel the installed one.
//
// The common case is the fast path: the marker already vouches for the
// target and no interrupted reconciliation is pending, so Ensure returns
// without a single package-manager call. Otherwise the switch runs under the
// exclusive state lock; a concurrent start that loses the lock race waits,
// re-checks, and no-ops when the winner already did the work.
func (r *Reconciler) Ensure(ctx context.Context, target channel.Channel) error {
	return r.run(ctx, target, false)
}

// Provision performs an unconditional reconciliation toward target. Used at
// image build time, where no marker exists and the fast path must not be
// trusted anyway.
func (r *Reconciler) Provision(ctx context.Context, target channel.Channel) error {
	return r.run(ctx, target, true)
}

func (r *Reconciler) run(ctx context.Context, target channel.Channel, force bool) error {
	repoLine, err := r.cfg.RepoLine(target)
	if err != nil {
		return err
	}

	if !force && r.upToDate(ctx, target, repoLine) {
		r.logger.Debug("channel already installed", zap.Stringer("channel", target))
		return nil
	}

	lock, err := r.acquireLock(ctx)
	if err != nil {
		return err
	}
	defer lock.Release()

	// Re-check under the lock: a concurrent start may have completed this
	// exact switch while we were waiting.
	if !force && r.upToDate(ctx, target, repoLine) {
		r.logger.Info("channel switch already completed by another process",
			zap.Stringer("channel", target))
		return nil
	}

	return r.switchTo(ctx, target, repoLine)
}

// switchTo performs the actual package mutation. Caller holds the lock.
func (r *Reconciler) switchTo(ctx context.Context, target channel.Channel, repoLine string) error {
	r.logger.Info("switching channel",
		zap.Stringer("channel", target),
		zap.String("track", repoLine))

	prevTrack, err := r.mgr.InstalledTrack(ctx)
	if err != nil {
		return fmt.Errorf("%w: query installed track: %v", errs.ErrReconcileFailed, err)
	}

	// The journal goes down before the first mutation. If we die anywhere
	// past this point, the next start sees it and refuses the fast path.
	if err := r.store.WriteJournal(target); err != nil {
		return fmt.Errorf("%w: %v", errs.ErrReconcileFailed, err)
	}

	if err := r.mgr.SetTrack(ctx, repoLine); err != nil {
		return fmt.Errorf("%w: set track: %v", errs.ErrReconcileFailed, err)
	}

	if err := r.mgr.RefreshIndex(ctx); err != nil {
		// The repository must not stay pointed at a track whose index was
		// never fetched. Restore the previous entry, or remove ours when
		// there was none; the journal stays, so the failed switch remains
		// visible either way.
		if rbErr := r.mgr.SetTrack(ctx, prevTrack); rbErr != nil {
			r.logger.Error("track rollback failed", zap.Error(rbErr))
		} else if prevTrack != "" {
			r.logger.Info("restored previous track after failed index refresh",
				zap.String("track", prevTrack))
		} else {
			r.logger.Info("removed unfetched track after failed index refresh")
		}
		return fmt.Errorf("%w: refresh index: %v", errs.ErrReconcileFailed, err)
	}

	if err := r.mgr.InstallOrUpgrade(ctx, r.cfg.Packages); err != nil {
		// Index fetch succeeded, so the repository configuration is
		// consistent. The marker is not written: the next start retries.
		return fmt.Errorf("%w: install packages: %v", errs.ErrReconcileFailed, err)
	}

	if _, err := r.store.WriteMarker(target, repoLine); err != nil {
		return fmt.Errorf("%w: %v", errs.ErrReconcileFailed, err)
	}
	if err := r.store.ClearJournal(); err != nil {
		return fmt.Errorf("%w: %v", errs.ErrReconcileFailed, err)
	}

	r.logger.Info("channel switch complete", zap.Stringer("channel", target))
	return nil
}

// upToDate reports whether the installed state can be trusted to already be
// the target: a committed marker for the same channel and track, no journal
// from an interrupted reconciliation, and a live sources entry that still
// carries the line the marker was committed against. The live check is a
// local file read; the fast path stays free of mutation and network cost.
func (r *Reconciler) upToDate(ctx context.Context, target channel.Channel, repoLine string) bool {
	journal, err := r.store.ReadJournal()
	if err != nil || journal != nil {
		return false
	}

	marker, err := r.store.ReadMarker()
	if err != nil {
		return false
	}
	if !marker.Matches(target, repoLine) {
		return false
	}

	live, err := r.mgr.InstalledTrack(ctx)
	if err != nil {
		return false
	}
	return marker.LiveMatches(live)
}

// acquireLock takes the exclusive state lock with bounded retries. Between
// attempts it waits for the state directory to change, which is how a
// concurrent reconciliation signals completion.
func (r *Reconciler) acquireLock(ctx context.Context) (*state.Lock, error) {
	attempts := r.cfg.LockRetries + 1
	for i := 0; i < attempts; i++ {
		lock, err := r.store.TryLock()
		if err == nil {
			return lock, nil
		}
		if !errors.Is(err, errs.ErrLockHeld) {
			return nil, fmt.Errorf("%w: %v", errs.ErrReconcileFailed, err)
		}
		if i == attempts-1 {
			break
		}

		r.logger.Info("package state locked, waiting",
			zap.Int("attempt", i+1),
			zap.Int("maxAttempts", attempts))
		if err := r.store.WaitForChange(ctx, r.cfg.LockWait); err != nil {
			return nil, fmt.Errorf("%w: %v", errs.ErrLockHeld, err)
		}
	}
	return nil, errs.ErrLockHeld
}
