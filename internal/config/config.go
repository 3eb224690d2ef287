// Package config loads the application configuration from defaults, an
// optional YAML file, a .env file and the environment.
package config

import (
	"errors"
	"fmt"
	"time"
)

// ErrConfiguration marks every configuration failure. Startup treats it as
// fatal.
var ErrConfiguration = errors.New("configuration error")

// Config is the complete application configuration.
type Config struct {
	Timezone  string          `mapstructure:"timezone"  validate:"required"`
	Telegram  TelegramConfig  `mapstructure:"telegram"`
	Poll      PollConfig      `mapstructure:"poll"`
	Storage   StorageConfig   `mapstructure:"storage"`
	Journal   JournalConfig   `mapstructure:"journal"`
	Log       LogConfig       `mapstructure:"log"`
	Scheduler SchedulerConfig `mapstructure:"scheduler"`
	Health    HealthConfig    `mapstructure:"health"`
	Gemini    GeminiConfig    `mapstructure:"gemini"`

	loc *time.Location
}

// TelegramConfig holds the Bot API credentials and transport settings.
type TelegramConfig struct {
	Token          string        `mapstructure:"token"`
	ChatID         int64         `mapstructure:"chat_id"`
	APIURL         string        `mapstructure:"api_url"         validate:"required,url"`
	RequestTimeout time.Duration `mapstructure:"request_timeout" validate:"min=1s,max=5m"`
}

// PollConfig controls the poll loop.
type PollConfig struct {
	Interval time.Duration `mapstructure:"interval" validate:"min=1s"`
	Retry    RetryConfig   `mapstructure:"retry"`
}

// RetryConfig controls the backoff around each fetch.
type RetryConfig struct {
	MaxAttempts int           `mapstructure:"max_attempts" validate:"min=1,max=20"`
	BaseDelay   time.Duration `mapstructure:"base_delay"   validate:"min=1ms"`
	MaxDelay    time.Duration `mapstructure:"max_delay"    validate:"gtefield=BaseDelay"`
}

// StorageConfig selects where day message sets and the cursor live.
type StorageConfig struct {
	Backend     string `mapstructure:"backend"      validate:"oneof=file sqlite"`
	MessagesDir string `mapstructure:"messages_dir" validate:"required_if=Backend file"`
	DBPath      string `mapstructure:"db_path"      validate:"required_if=Backend sqlite"`
	StateFile   string `mapstructure:"state_file"   validate:"required"`
}

// JournalConfig sets the output directory for rendered pages.
type JournalConfig struct {
	Dir string `mapstructure:"dir" validate:"required"`
}

// LogConfig configures the slog handler. An empty Dir disables the per-day
// log file.
type LogConfig struct {
	Level string `mapstructure:"level" validate:"oneof=debug info warn error"`
	JSON  bool   `mapstructure:"json"`
	Dir   string `mapstructure:"dir"`
}

// SchedulerConfig lists cron tasks by name.
type SchedulerConfig struct {
	Tasks map[string]TaskConfig `mapstructure:"tasks" validate:"dive"`
}

// TaskConfig configures one scheduled task. Schedule is a six-field cron
// expression with seconds.
type TaskConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Schedule string `mapstructure:"schedule" validate:"required_if=Enabled true"`
}

// HealthConfig configures the HTTP health endpoint. An empty ListenAddr
// disables it.
type HealthConfig struct {
	ListenAddr string `mapstructure:"listen_addr" validate:"omitempty,hostname_port"`
}

// GeminiConfig configures the optional journal annotator. It is disabled
// while APIKey is empty.
type GeminiConfig struct {
	APIKey      string        `mapstructure:"api_key"`
	Model       string        `mapstructure:"model"       validate:"required_with=APIKey"`
	Temperature float32       `mapstructure:"temperature" validate:"min=0,max=2"`
	Instruction string        `mapstructure:"instruction" validate:"required_with=APIKey"`
	Timeout     time.Duration `mapstructure:"timeout"     validate:"min=1s,max=10m"`
}

// Location returns the target timezone used for day bucketing and display.
func (c *Config) Location() *time.Location {
	if c.loc == nil {
		return time.UTC
	}
	return c.loc
}

// GeminiEnabled reports whether the annotator should run.
func (c *Config) GeminiEnabled() bool {
	return c.Gemini.APIKey != ""
}

// ValidateSource checks the credentials needed to talk to the Bot API. Only
// commands that poll or probe the API call it.
func (c *Config) ValidateSource() error {
	if c.Telegram.Token == "" {
		return fmt.Errorf("%w: telegram.token (TELEGRAM_BOT_TOKEN) is required", ErrConfiguration)
	}
	if c.Telegram.ChatID == 0 {
		return fmt.Errorf("%w: telegram.chat_id (TELEGRAM_CHAT_ID) is required", ErrConfiguration)
	}
	return nil
}
