package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix is the prefix of environment overrides, e.g. DIARY_POLL_INTERVAL.
const EnvPrefix = "DIARY"

// Variable names kept from earlier deployments.
const (
	EnvBotToken     = "TELEGRAM_BOT_TOKEN"
	EnvChatID       = "TELEGRAM_CHAT_ID"
	EnvPollInterval = "POLL_INTERVAL_SECONDS"
)

// Load builds the configuration from, in increasing priority:
//  1. built-in defaults
//  2. the YAML file at path, or ./config.yaml when path is empty
//  3. a .env file in the working directory
//  4. DIARY_* and the legacy TELEGRAM_* / POLL_INTERVAL_SECONDS variables
//
// A missing ./config.yaml is fine; a missing explicit path is not.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: failed to load .env: %v", ErrConfiguration, err)
	}

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if err := v.BindEnv("telegram.token", EnvPrefix+"_TELEGRAM_TOKEN", EnvBotToken); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfiguration, err)
	}
	if err := v.BindEnv("telegram.chat_id", EnvPrefix+"_TELEGRAM_CHAT_ID", EnvChatID); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfiguration, err)
	}

	if err := readConfigFile(v, path); err != nil {
		return nil, fmt.Errorf("%w: failed to load config file: %v", ErrConfiguration, err)
	}

	if err := applyLegacyPollInterval(v); err != nil {
		return nil, err
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("%w: failed to parse config: %v", ErrConfiguration, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func readConfigFile(v *viper.Viper, path string) error {
	if path != "" {
		v.SetConfigFile(path)
		return v.ReadInConfig()
	}

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return err
		}
	}
	return nil
}

// applyLegacyPollInterval maps POLL_INTERVAL_SECONDS onto poll.interval
// unless DIARY_POLL_INTERVAL is set.
func applyLegacyPollInterval(v *viper.Viper) error {
	raw, ok := os.LookupEnv(EnvPollInterval)
	if !ok || raw == "" {
		return nil
	}
	if _, set := os.LookupEnv(EnvPrefix + "_POLL_INTERVAL"); set {
		return nil
	}

	secs, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return fmt.Errorf("%w: %s must be an integer number of seconds: %v", ErrConfiguration, EnvPollInterval, err)
	}
	v.Set("poll.interval", time.Duration(secs)*time.Second)
	return nil
}
