package tasks

import (
	"context"
	"log/slog"
	"time"

	"github.com/edgard/tgdiary/internal/config"
)

// Task names are the keys under scheduler.tasks in the configuration.
const (
	DailyJournal     = config.TaskDailyJournal
	StoreMaintenance = config.TaskStoreMaintenance
)

// ScheduledTaskFunc is the signature of every scheduled task. The context is
// cancelled on shutdown.
type ScheduledTaskFunc func(ctx context.Context) error

// RegisterAllTasks returns every task keyed by name.
func RegisterAllTasks(deps TaskDeps) map[string]ScheduledTaskFunc {
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	if deps.Location == nil {
		deps.Location = time.UTC
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}

	tasks := map[string]ScheduledTaskFunc{
		DailyJournal:     newDailyJournalTask(deps),
		StoreMaintenance: newStoreMaintenanceTask(deps),
	}

	deps.Logger.Info("Initialized scheduled tasks", "count", len(tasks))
	return tasks
}
