package background

import (
	"context"
	"log/slog"
	"time"

	"github.com/sentra-ids/sentra/internal/blocklist"
)

// RetentionStore is the slice of the attempt repository the sweep needs.
type RetentionStore interface {
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

// CleanupManager periodically compacts expired blocklist entries and deletes
// attempt records past the retention window.
type CleanupManager struct {
	store     RetentionStore
	blocklist *blocklist.Blocklist
	logger    *slog.Logger
	interval  time.Duration
	retention time.Duration
	stopCh    chan struct{}
}

// NewCleanupManager creates a new cleanup manager
func NewCleanupManager(
	store RetentionStore,
	bl *blocklist.Blocklist,
	logger *slog.Logger,
	interval time.Duration,
	retention time.Duration,
) *CleanupManager {
	return &CleanupManager{
		store:     store,
		blocklist: bl,
		logger:    logger,
		interval:  interval,
		retention: retention,
		stopCh:    make(chan struct{}),
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

// runCleanup compacts the blocklist and sweeps expired attempt records.
// Expired block entries are already invisible to reads; compaction only
// reclaims memory, so a failed sweep never affects enforcement.
func (cm *CleanupManager) runCleanup(ctx context.Context) {
	now := time.Now()

	if removed := cm.blocklist.Compact(now); removed > 0 {
		cm.logger.Info("blocklist compacted", slog.Int("entries_removed", removed))
	}

	cleanupCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	rowsDeleted, err := cm.store.DeleteOlderThan(cleanupCtx, now.Add(-cm.retention))
	if err != nil {
		cm.logger.Error("failed to sweep expired attempts", slog.Any("error", err))
		return
	}

	if rowsDeleted > 0 {
		cm.logger.Info("attempt retention sweep completed", slog.Int64("rows_deleted", rowsDeleted))
	}
}

// Stop signals the cleanup manager to stop
func (cm *CleanupManager) Stop() {
	close(cm.stopCh)
}
