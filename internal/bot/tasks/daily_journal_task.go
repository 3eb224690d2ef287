package tasks

import (
	"context"
	"fmt"

	"github.com/edgard/tgdiary/internal/diary"
)

// newDailyJournalTask regenerates yesterday's page (in the target timezone)
// and, when an annotator is configured, adds the summary section.
func newDailyJournalTask(deps TaskDeps) ScheduledTaskFunc {
	log := deps.Logger.With("task", DailyJournal)

	return func(ctx context.Context) error {
		day := diary.DayOf(deps.Now().In(deps.Location).AddDate(0, 0, -1), deps.Location)

		path, err := deps.Generator.GenerateDaily(ctx, day)
		if err != nil {
			return fmt.Errorf("generate journal for %s: %w", day, err)
		}
		if path == "" {
			log.InfoContext(ctx, "Nothing to finalise", "day", day)
			return nil
		}

		if deps.Annotator == nil {
			return nil
		}
		if err := deps.Annotator.Annotate(ctx, day); err != nil {
			return fmt.Errorf("annotate journal for %s: %w", day, err)
		}
		log.InfoContext(ctx, "Journal finalised", "day", day, "path", path)
		return nil
	}
}
