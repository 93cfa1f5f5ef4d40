package background

import (
	"context"
	"log/slog"
	"time"
)

// ResetTokenCleaner clears expired password-reset tokens.
type ResetTokenCleaner interface {
	ClearExpiredResetTokens(ctx context.Context) (int64, error)
}

// CleanupManager periodically clears expired password-reset tokens so stale
// tokens do not linger on user rows.
type CleanupManager struct {
	cleaner  ResetTokenCleaner
	logger   *slog.Logger
	interval time.Duration
	stopCh   chan struct{}
}

func NewCleanupManager(cleaner ResetTokenCleaner, logger *slog.Logger, interval time.Duration) *CleanupManager {
	return &CleanupManager{
		cleaner:  cleaner,
		logger:   logger,
		interval: interval,
		stopCh:   make(chan struct{}),
	}
}

// Start begins the periodic cleanup task
func (cm *CleanupManager) Start(ctx context.Context) {
	ticker := time.NewTicker(cm.interval)
	defer ticker.Stop()

	// Run immediately on startup
	cm.runCleanup(ctx)

	for {
		select {
		case <-ticker.C:
			cm.runCleanup(ctx)
		case <-cm.stopCh:
			cm.logger.Info("cleanup manager stopped")
			return
		case <-ctx.Done():
			cm.logger.Info("cleanup manager context cancelled")
			return
		}
	}
}

func (cm *CleanupManager) runCleanup(ctx context.Context) {
	cleanupCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	cleared, err := cm.cleaner.ClearExpiredResetTokens(cleanupCtx)
	if err != nil {
		cm.logger.Error("failed to clear expired reset tokens", slog.Any("error", err))
		return
	}

	if cleared > 0 {
		cm.logger.Info("expired reset tokens cleared", slog.Int64("rows", cleared))
	}
}

// Stop signals the cleanup manager to stop
func (cm *CleanupManager) Stop() {
	close(cm.stopCh)
}
