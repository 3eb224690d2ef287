package bot_test

import (
	"context"
	"reflect"
	"testing"
	"time"

	"github.com/edgard/tgdiary/internal/bot"
	"github.com/edgard/tgdiary/internal/bot/tasks"
	"github.com/edgard/tgdiary/internal/config"
)

func TestSchedulerStartsEnabledTasks(t *testing.T) {
	t.Parallel()

	noop := func(context.Context) error { return nil }
	cfg := &config.SchedulerConfig{Tasks: map[string]config.TaskConfig{
		"daily_journal":     {Enabled: true, Schedule: "0 5 0 * * *"},
		"store_maintenance": {Enabled: false, Schedule: "0 0 4 * * 0"},
		"unknown":           {Enabled: true, Schedule: "0 * * * * *"},
		"broken":            {Enabled: true, Schedule: "not a cron"},
	}}
	taskMap := map[string]tasks.ScheduledTaskFunc{
		"daily_journal":     noop,
		"store_maintenance": noop,
		"broken":            noop,
	}

	s, err := bot.NewScheduler(quiet, cfg, tokyo, taskMap)
	if err != nil {
		t.Fatalf("NewScheduler: %v", err)
	}
	got, err := s.Start(context.Background())
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	t.Cleanup(func() { _ = s.Stop() })

	if want := []string{"daily_journal"}; !reflect.DeepEqual(got, want) {
		t.Errorf("scheduled = %v, want %v", got, want)
	}
	if _, err := s.Start(context.Background()); err == nil {
		t.Error("second Start should fail")
	}
}

func TestSchedulerStopWithoutStart(t *testing.T) {
	t.Parallel()

	s, err := bot.NewScheduler(quiet, nil, time.UTC, nil)
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Stop(); err != nil {
		t.Errorf("Stop() = %v", err)
	}
}
