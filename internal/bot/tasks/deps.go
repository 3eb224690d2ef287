// Package tasks implements the scheduled jobs: finalising the previous day's
// journal and store housekeeping.
package tasks

import (
	"context"
	"log/slog"
	"time"

	"github.com/edgard/tgdiary/internal/database"
)

// DailyGenerator re-renders one stored day.
type DailyGenerator interface {
	GenerateDaily(ctx context.Context, day string) (string, error)
}

// Annotator post-processes a rendered journal page.
type Annotator interface {
	Annotate(ctx context.Context, day string) error
}

// TaskDeps contains the dependencies of the scheduled tasks. Annotator is
// nil when annotation is disabled.
type TaskDeps struct {
	Logger    *slog.Logger
	Store     database.DayStore
	Generator DailyGenerator
	Annotator Annotator
	Location  *time.Location
	// Now defaults to time.Now.
	Now func() time.Time
}
