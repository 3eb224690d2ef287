package bot

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/edgard/tgdiary/internal/database"
	"github.com/edgard/tgdiary/internal/diary"
	"github.com/edgard/tgdiary/internal/journal"
	"github.com/edgard/tgdiary/internal/resilience"
	"github.com/edgard/tgdiary/internal/state"
	"github.com/edgard/tgdiary/internal/telegram"
)

// Fetcher returns the updates after offset.
type Fetcher interface {
	Fetch(ctx context.Context, offset int64) (telegram.Batch, error)
}

// StateStore persists the poll cursor.
type StateStore interface {
	Load(ctx context.Context) state.State
	Save(ctx context.Context, s state.State) error
}

// PollerDeps wires a Poller.
type PollerDeps struct {
	Logger   *slog.Logger
	Source   Fetcher
	Store    database.DayStore
	State    StateStore
	Writer   *journal.Writer
	Location *time.Location
	Retry    resilience.RetryConfig
	Interval time.Duration
	// Now defaults to time.Now.
	Now func() time.Time
}

// Poller runs fetch, merge, save and render cycles.
type Poller struct {
	deps   PollerDeps
	logger *slog.Logger
}

// NewPoller creates a Poller.
func NewPoller(deps PollerDeps) *Poller {
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	if deps.Location == nil {
		deps.Location = time.UTC
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}
	return &Poller{
		deps:   deps,
		logger: deps.Logger.With("component", "poller"),
	}
}

// PollOnce runs one cycle starting from st and returns the state to use for
// the next one. The cursor is persisted only when every affected day was
// saved and rendered; otherwise st is returned unchanged together with the
// joined per-day errors.
func (p *Poller) PollOnce(ctx context.Context, st state.State) (state.State, error) {
	batch, err := resilience.Do(ctx, p.deps.Retry, p.logger, func(ctx context.Context) (telegram.Batch, error) {
		return p.deps.Source.Fetch(ctx, st.LastUpdateID)
	})
	if err != nil {
		return st, fmt.Errorf("fetch updates: %w", err)
	}

	buckets := diary.BucketByDay(batch.Messages, p.deps.Location)
	var errs []error
	for _, day := range diary.Days(buckets) {
		if err := p.processDay(ctx, day, buckets[day]); err != nil {
			p.logger.ErrorContext(ctx, "Failed to process day", "day", day, "error", err)
			errs = append(errs, fmt.Errorf("day %s: %w", day, err))
		}
	}
	if len(errs) > 0 {
		return st, errors.Join(errs...)
	}

	if len(batch.Messages) > 0 {
		p.logger.InfoContext(ctx, "Fetched new messages", "count", len(batch.Messages), "days", len(buckets))
	} else {
		p.logger.InfoContext(ctx, "No new messages", "updates", batch.Updates)
	}

	next := state.State{
		LastUpdateID: max(batch.NextOffset, st.LastUpdateID),
		LastRunAt:    p.deps.Now().In(p.deps.Location),
	}
	if err := p.deps.State.Save(ctx, next); err != nil {
		return st, fmt.Errorf("save state: %w", err)
	}
	return next, nil
}

func (p *Poller) processDay(ctx context.Context, day string, incoming []diary.Message) error {
	existing, err := p.deps.Store.Load(ctx, day)
	if err != nil {
		return err
	}

	merged := diary.Merge(existing, incoming)
	if err := p.deps.Store.Save(ctx, day, merged); err != nil {
		return err
	}

	if _, err := p.deps.Writer.Write(ctx, journal.Summarize(day, merged)); err != nil {
		return err
	}
	p.logger.DebugContext(ctx, "Day updated", "day", day, "incoming", len(incoming), "total", len(merged))
	return nil
}

// Loop loads the cursor and runs cycles until ctx is cancelled. Each cycle
// starts Interval after the previous one finished. Cycle errors are logged
// and never end the loop.
func (p *Poller) Loop(ctx context.Context) error {
	st := p.deps.State.Load(ctx)
	p.logger.InfoContext(ctx, "Starting polling loop",
		"interval", p.deps.Interval,
		"last_update_id", st.LastUpdateID)

	for {
		next, err := p.PollOnce(ctx, st)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			p.logger.ErrorContext(ctx, "Poll cycle failed", "error", err)
		}
		st = next

		select {
		case <-ctx.Done():
			p.logger.InfoContext(ctx, "Polling loop stopped")
			return nil
		case <-time.After(p.deps.Interval):
		}
	}
}
