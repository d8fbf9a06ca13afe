package session

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// RunReaper removes idle sessions from store every interval until ctx is
// done.
func RunReaper(ctx context.Context, store *Store, interval time.Duration, log *zap.Logger) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if removed := store.Reap(); removed > 0 {
				log.Info("reaped idle sessions", zap.Int("removed", removed))
			}
		}
	}
}
