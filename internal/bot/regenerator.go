package bot

import (
	"context"
	"log/slog"

	"github.com/edgard/tgdiary/internal/database"
	"github.com/edgard/tgdiary/internal/journal"
)

// Regenerator re-renders a stored day on demand.
type Regenerator struct {
	store  database.DayStore
	writer *journal.Writer
	logger *slog.Logger
}

// NewRegenerator creates a Regenerator.
func NewRegenerator(store database.DayStore, writer *journal.Writer, logger *slog.Logger) *Regenerator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Regenerator{store: store, writer: writer, logger: logger.With("component", "regenerator")}
}

// GenerateDaily renders day from the stored messages and returns the page
// path. A day with no stored messages is not rendered and yields "".
func (r *Regenerator) GenerateDaily(ctx context.Context, day string) (string, error) {
	msgs, err := r.store.Load(ctx, day)
	if err != nil {
		return "", err
	}
	if len(msgs) == 0 {
		r.logger.InfoContext(ctx, "No messages for day", "day", day)
		return "", nil
	}

	path, err := r.writer.Write(ctx, journal.Summarize(day, msgs))
	if err != nil {
		return "", err
	}
	r.logger.InfoContext(ctx, "Generated journal", "day", day, "path", path)
	return path, nil
}
