package background

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/roundbuy/backend-sub000/internal/usecase/sweeper"
)

type BackgroundTasks struct {
	Sweeper  *sweeper.Sweeper
	Interval time.Duration
	Now      func() time.Time
	Logger   *slog.Logger
}

func NewBackgroundTasks(sw *sweeper.Sweeper, interval time.Duration, logger *slog.Logger) *BackgroundTasks {
	if interval <= 0 {
		interval = time.Minute
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &BackgroundTasks{
		Sweeper:  sw,
		Interval: interval,
		Now:      func() time.Time { return time.Now().UTC() },
		Logger:   logger,
	}
}

// Run blocks until ctx is done, sweeping once at start and then on every
// tick.
func (bt *BackgroundTasks) Run(ctx context.Context) error {
	bt.sweepOnce(ctx)

	ticker := time.NewTicker(bt.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			bt.sweepOnce(ctx)
		}
	}
}

func (bt *BackgroundTasks) sweepOnce(ctx context.Context) {
	_, err := bt.Sweeper.Sweep(ctx, bt.Now())
	switch {
	case err == nil:
	case errors.Is(err, sweeper.ErrSweepInProgress):
		bt.Logger.Debug("sweep skipped, another run holds the lock", "module", "background")
	case ctx.Err() != nil:
	default:
		bt.Logger.Error("deadline sweep failed", "module", "background", "error", err.Error())
	}
}
