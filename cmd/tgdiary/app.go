package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/edgard/tgdiary/internal/config"
	"github.com/edgard/tgdiary/internal/database"
	"github.com/edgard/tgdiary/internal/journal"
	"github.com/edgard/tgdiary/internal/logger"
	"github.com/edgard/tgdiary/internal/state"
)

// app holds the components shared by every command.
type app struct {
	cfg     *config.Config
	log     *slog.Logger
	store   database.DayStore
	tracker *state.Tracker
	writer  *journal.Writer
	closers []io.Closer
}

func newApp(configPath string) (*app, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	a := &app{cfg: cfg}

	var out io.Writer = os.Stdout
	if cfg.Log.Dir != "" {
		daily := logger.NewDailyWriter(cfg.Log.Dir, cfg.Location())
		a.closers = append(a.closers, daily)
		out = io.MultiWriter(os.Stdout, daily)
	}
	a.log = logger.NewLogger(cfg.Log.Level, cfg.Log.JSON, out)
	a.log.Debug("Logger initialized", "level", cfg.Log.Level, "json", cfg.Log.JSON, "dir", cfg.Log.Dir)

	store, err := database.Open(database.Options{
		Backend:     cfg.Storage.Backend,
		MessagesDir: cfg.Storage.MessagesDir,
		DBPath:      cfg.Storage.DBPath,
	}, a.log)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("open %s store: %w", cfg.Storage.Backend, err)
	}
	a.store = store
	a.closers = append(a.closers, store)

	a.tracker = state.NewTracker(cfg.Storage.StateFile, cfg.Location(), a.log)
	a.writer = journal.NewWriter(cfg.Journal.Dir, cfg.Location(), a.log)
	return a, nil
}

// Close releases resources in reverse order of acquisition.
func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i].Close(); err != nil && a.log != nil {
			a.log.Error("Error during shutdown", "error", err)
		}
	}
	a.closers = nil
}
