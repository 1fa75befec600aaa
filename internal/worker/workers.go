package worker

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/lostfound-service/internal/service"
)

// StartNotificationWorker subscribes the notification handlers to the
// event dispatcher.
func StartNotificationWorker(notifications *service.NotificationService, logger *zap.Logger) {
	if notifications == nil {
		return
	}
	notifications.RegisterHandlers()
	logger.Info("notification handlers registered")
}

// Sweeper evicts idle state and reports how many entries it dropped.
type Sweeper interface {
	Sweep() int
}

// StartSessionSweeper calls Sweep every interval until ctx is done. The
// returned channel is closed once the loop has exited.
func StartSessionSweeper(ctx context.Context, sweeper Sweeper, interval time.Duration, logger *zap.Logger) <-chan struct{} {
	done := make(chan struct{})
	if interval <= 0 {
		interval = time.Minute
	}
	go func() {
		defer close(done)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				logger.Debug("session sweeper stopped")
				return
			case <-ticker.C:
				if n := sweeper.Sweep(); n > 0 {
					logger.Debug("session sweep", zap.Int("evicted", n))
				}
			}
		}
	}()
	return done
}
