package config_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/edgard/tgdiary/internal/config"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		config.EnvBotToken, config.EnvChatID, config.EnvPollInterval,
		"DIARY_TELEGRAM_TOKEN", "DIARY_TELEGRAM_CHAT_ID", "DIARY_POLL_INTERVAL", "DIARY_TIMEZONE",
	} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := config.Load(writeConfig(t, "{}\n"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Timezone != "Asia/Tokyo" {
		t.Errorf("Timezone = %q", cfg.Timezone)
	}
	if cfg.Location().String() != "Asia/Tokyo" {
		t.Errorf("Location() = %v", cfg.Location())
	}
	if cfg.Poll.Interval != 5*time.Minute {
		t.Errorf("Poll.Interval = %v", cfg.Poll.Interval)
	}
	if cfg.Poll.Retry.MaxAttempts != 3 || cfg.Poll.Retry.BaseDelay != time.Second {
		t.Errorf("Poll.Retry = %+v", cfg.Poll.Retry)
	}
	if cfg.Storage.Backend != "file" || cfg.Storage.MessagesDir != "messages" || cfg.Storage.StateFile != "state.json" {
		t.Errorf("Storage = %+v", cfg.Storage)
	}
	if cfg.Journal.Dir != "daily" {
		t.Errorf("Journal.Dir = %q", cfg.Journal.Dir)
	}
	task, ok := cfg.Scheduler.Tasks[config.TaskDailyJournal]
	if !ok || !task.Enabled || task.Schedule != config.DefaultDailyJournalSchedule {
		t.Errorf("daily_journal task = %+v (present %v)", task, ok)
	}
	if cfg.GeminiEnabled() {
		t.Error("Gemini should be disabled without an API key")
	}
	if !errors.Is(cfg.ValidateSource(), config.ErrConfiguration) {
		t.Error("ValidateSource() should fail without credentials")
	}
}

func TestLoadFileAndEnvironment(t *testing.T) {
	clearEnv(t)

	path := writeConfig(t, `
timezone: UTC
telegram:
  token: from-file
  chat_id: 1
storage:
  backend: sqlite
  db_path: /tmp/diary.db
log:
  level: debug
scheduler:
  tasks:
    store_maintenance:
      enabled: false
`)
	t.Setenv(config.EnvBotToken, "from-env")
	t.Setenv(config.EnvChatID, "-100200")
	t.Setenv(config.EnvPollInterval, "15")

	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Telegram.Token != "from-env" {
		t.Errorf("Token = %q, want env value", cfg.Telegram.Token)
	}
	if cfg.Telegram.ChatID != -100200 {
		t.Errorf("ChatID = %d", cfg.Telegram.ChatID)
	}
	if cfg.Poll.Interval != 15*time.Second {
		t.Errorf("Poll.Interval = %v, want 15s", cfg.Poll.Interval)
	}
	if cfg.Storage.Backend != "sqlite" || cfg.Storage.DBPath != "/tmp/diary.db" {
		t.Errorf("Storage = %+v", cfg.Storage)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("Log.Level = %q", cfg.Log.Level)
	}
	if cfg.Location() != time.UTC {
		t.Errorf("Location() = %v, want UTC", cfg.Location())
	}
	if cfg.Scheduler.Tasks[config.TaskStoreMaintenance].Enabled {
		t.Error("store_maintenance should be disabled by the file")
	}
	if err := cfg.ValidateSource(); err != nil {
		t.Errorf("ValidateSource() = %v", err)
	}
}

func TestLoadPrefixedPollIntervalWins(t *testing.T) {
	clearEnv(t)
	t.Setenv(config.EnvPollInterval, "15")
	t.Setenv("DIARY_POLL_INTERVAL", "2m")

	cfg, err := config.Load(writeConfig(t, "{}\n"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Poll.Interval != 2*time.Minute {
		t.Errorf("Poll.Interval = %v, want 2m", cfg.Poll.Interval)
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
		env  map[string]string
	}{
		{name: "bad log level", body: "log:\n  level: loud\n"},
		{name: "unknown backend", body: "storage:\n  backend: redis\n"},
		{name: "bad timezone", body: "timezone: Mars/Olympus\n"},
		{name: "zero attempts", body: "poll:\n  retry:\n    max_attempts: 0\n"},
		{name: "bad health address", body: "health:\n  listen_addr: nope\n"},
		{name: "non numeric legacy interval", body: "{}\n", env: map[string]string{config.EnvPollInterval: "soon"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := config.Load(writeConfig(t, tt.body))
			if !errors.Is(err, config.ErrConfiguration) {
				t.Errorf("Load() error = %v, want ErrConfiguration", err)
			}
		})
	}
}

func TestLoadMissingExplicitFile(t *testing.T) {
	clearEnv(t)

	_, err := config.Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if !errors.Is(err, config.ErrConfiguration) {
		t.Errorf("Load() error = %v, want ErrConfiguration", err)
	}
}
