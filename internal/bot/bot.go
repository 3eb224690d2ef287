// Package bot runs the ingestion pipeline: the poll loop that merges fetched
// messages into per-day sets, the on-demand regenerator and the cron
// scheduler, tied together by an errgroup.
package bot

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"
)

// HealthServer serves the health endpoint until ctx is done.
type HealthServer interface {
	Serve(ctx context.Context, addr string) error
}

// Bot owns the long-running components and their lifecycle.
type Bot struct {
	logger     *slog.Logger
	poller     *Poller
	scheduler  *Scheduler
	health     HealthServer
	healthAddr string
}

// NewBot creates the orchestrator. health may be nil, in which case no HTTP
// endpoint is started.
func NewBot(logger *slog.Logger, poller *Poller, scheduler *Scheduler, health HealthServer, healthAddr string) *Bot {
	if logger == nil {
		logger = slog.Default()
	}
	return &Bot{
		logger:     logger.With("component", "bot_orchestrator"),
		poller:     poller,
		scheduler:  scheduler,
		health:     health,
		healthAddr: healthAddr,
	}
}

// Run starts every component and blocks until ctx is cancelled or one of them
// fails.
func (b *Bot) Run(ctx context.Context) error {
	b.logger.Info("Starting bot orchestrator")

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return b.poller.Loop(gCtx)
	})

	if b.scheduler != nil {
		g.Go(func() error {
			if _, err := b.scheduler.Start(gCtx); err != nil {
				return fmt.Errorf("failed to start scheduler: %w", err)
			}

			<-gCtx.Done()
			if err := b.scheduler.Stop(); err != nil {
				b.logger.Error("Error stopping scheduler", "error", err)
			}
			return nil
		})
	}

	if b.health != nil && b.healthAddr != "" {
		g.Go(func() error {
			return b.health.Serve(gCtx, b.healthAddr)
		})
	}

	err := g.Wait()
	if err != nil && !errors.Is(err, context.Canceled) {
		b.logger.Error("Bot orchestrator stopped due to error", "error", err)
		return err
	}

	b.logger.Info("Bot orchestrator stopped gracefully")
	return nil
}
