package worker

import (
	"context"
	"time"

	"go.uber.org/zap"
)

type Sweeper interface {
	Sweep(ctx context.Context) (int64, error)
}

// Locker lets one replica sweep per tick. Without one every replica
// sweeps, which is harmless: the delete is idempotent.
type Locker interface {
	TryLock(ctx context.Context, key string, ttl time.Duration) (release func(context.Context) error, ok bool, err error)
}

const sweepLockKey = "storefront:reservations:sweep"

type ExpirySweeper struct {
	sweeper  Sweeper
	locker   Locker
	interval time.Duration
	lockTTL  time.Duration
	logger   *zap.Logger
}

func NewExpirySweeper(sweeper Sweeper, locker Locker, interval, lockTTL time.Duration, logger *zap.Logger) *ExpirySweeper {
	if logger == nil {
		logger = zap.NewNop()
	}
	if lockTTL <= 0 {
		lockTTL = time.Minute
	}
	return &ExpirySweeper{
		sweeper:  sweeper,
		locker:   locker,
		interval: interval,
		lockTTL:  lockTTL,
		logger:   logger,
	}
}

// Run sweeps every interval until ctx is done. A non-positive interval
// disables the loop.
func (w *ExpirySweeper) Run(ctx context.Context) {
	if w.interval <= 0 {
		w.logger.Info("reservation sweeper disabled")
		return
	}

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.logger.Info("reservation sweeper started", zap.Duration("interval", w.interval))
	for {
		select {
		case <-ctx.Done():
			w.logger.Info("reservation sweeper stopped")
			return
		case <-ticker.C:
			_, _ = w.RunOnce(ctx)
		}
	}
}

// RunOnce performs one sweep. swept is false when another replica holds
// the lock. A successful sweep keeps the lock until lockTTL runs out so
// replicas ticking slightly later skip this round; a failed one releases
// it for the next taker.
func (w *ExpirySweeper) RunOnce(ctx context.Context) (swept bool, err error) {
	release := func(context.Context) error { return nil }
	if w.locker != nil {
		var ok bool
		release, ok, err = w.locker.TryLock(ctx, sweepLockKey, w.lockTTL)
		if err != nil {
			w.logger.Warn("acquire sweep lock", zap.Error(err))
			return false, err
		}
		if !ok {
			w.logger.Debug("sweep lock held elsewhere")
			return false, nil
		}
	}

	if _, err := w.sweeper.Sweep(ctx); err != nil {
		if rerr := release(context.WithoutCancel(ctx)); rerr != nil {
			w.logger.Warn("release sweep lock", zap.Error(rerr))
		}
		return false, err
	}
	return true, nil
}
