package tasks

import (
	"context"
	"fmt"
	"time"
)

func newStoreMaintenanceTask(deps TaskDeps) ScheduledTaskFunc {
	log := deps.Logger.With("task", StoreMaintenance)

	return func(ctx context.Context) error {
		startTime := time.Now()
		err := deps.Store.Maintain(ctx)
		duration := time.Since(startTime)

		if err != nil {
			log.ErrorContext(ctx, "Store maintenance failed", "error", err, "duration", duration)
			return fmt.Errorf("store maintenance failed: %w", err)
		}

		log.InfoContext(ctx, "Store maintenance completed", "duration", duration)
		return nil
	}
}
