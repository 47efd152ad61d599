package routines

import (
	"context"
	"log/slog"
	"time"
)

// VisitorRetention is how long visitor records are kept.
const VisitorRetention = 365 * 24 * time.Hour

type visitorCleaner interface {
	CleanupVisitors(ctx context.Context, maxAge time.Duration) (int64, error)
}

type sessionSweeper interface {
	Sweep(now time.Time) (int, error)
}

// StartVisitorCleanup removes visitor records past retention once at start
// and then every interval, until ctx is done.
func StartVisitorCleanup(ctx context.Context, store visitorCleaner, interval time.Duration, logger *slog.Logger) {
	every(ctx, interval, func() {
		removed, err := store.CleanupVisitors(ctx, VisitorRetention)
		if err != nil {
			logger.Error("visitor cleanup failed", "error", err)
			return
		}
		if removed > 0 {
			logger.Info("privacy cleanup removed old visitor records", "removed", removed)
		}
	})
}

// StartSessionSweep drops expired contact form sessions every interval.
func StartSessionSweep(ctx context.Context, sessions sessionSweeper, interval time.Duration, logger *slog.Logger) {
	every(ctx, interval, func() {
		removed, err := sessions.Sweep(time.Now())
		if err != nil {
			logger.Error("session sweep failed", "error", err)
			return
		}
		if removed > 0 {
			logger.Debug("expired contact sessions removed", "removed", removed)
		}
	})
}

func every(ctx context.Context, interval time.Duration, fn func()) {
	fn()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			fn()
		}
	}
}
