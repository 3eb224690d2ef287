package config

import (
	"time"

	"github.com/spf13/viper"
)

// Default values.
const (
	DefaultTimezone = "Asia/Tokyo"

	DefaultTelegramAPIURL         = "https://api.telegram.org"
	DefaultTelegramRequestTimeout = 30 * time.Second

	DefaultPollInterval     = 5 * time.Minute
	DefaultRetryMaxAttempts = 3
	DefaultRetryBaseDelay   = time.Second
	DefaultRetryMaxDelay    = 30 * time.Second

	DefaultStorageBackend = "file"
	DefaultMessagesDir    = "messages"
	DefaultDBPath         = "data/diary.db"
	DefaultStateFile      = "state.json"
	DefaultJournalDir     = "daily"

	DefaultLogLevel = "info"
	DefaultLogDir   = "logs"

	DefaultGeminiModel       = "gemini-2.0-flash"
	DefaultGeminiTemperature = 0.7
	DefaultGeminiTimeout     = 2 * time.Minute
	DefaultGeminiInstruction = "You read one day of a personal journal written as short timestamped notes. " +
		"Write a brief summary of the day in two or three sentences, in the language the notes are written in. " +
		"Reply with the summary text only."

	// Scheduled task names. The tasks package registers its functions under
	// these keys.
	TaskDailyJournal     = "daily_journal"
	TaskStoreMaintenance = "store_maintenance"

	DefaultDailyJournalSchedule     = "0 5 0 * * *"
	DefaultStoreMaintenanceSchedule = "0 0 4 * * 0"
)

func setDefaults(v *viper.Viper) {
	v.SetDefault("timezone", DefaultTimezone)

	v.SetDefault("telegram.token", "")
	v.SetDefault("telegram.chat_id", 0)
	v.SetDefault("telegram.api_url", DefaultTelegramAPIURL)
	v.SetDefault("telegram.request_timeout", DefaultTelegramRequestTimeout)

	v.SetDefault("poll.interval", DefaultPollInterval)
	v.SetDefault("poll.retry.max_attempts", DefaultRetryMaxAttempts)
	v.SetDefault("poll.retry.base_delay", DefaultRetryBaseDelay)
	v.SetDefault("poll.retry.max_delay", DefaultRetryMaxDelay)

	v.SetDefault("storage.backend", DefaultStorageBackend)
	v.SetDefault("storage.messages_dir", DefaultMessagesDir)
	v.SetDefault("storage.db_path", DefaultDBPath)
	v.SetDefault("storage.state_file", DefaultStateFile)
	v.SetDefault("journal.dir", DefaultJournalDir)

	v.SetDefault("log.level", DefaultLogLevel)
	v.SetDefault("log.json", false)
	v.SetDefault("log.dir", DefaultLogDir)

	v.SetDefault("scheduler.tasks."+TaskDailyJournal+".enabled", true)
	v.SetDefault("scheduler.tasks."+TaskDailyJournal+".schedule", DefaultDailyJournalSchedule)
	v.SetDefault("scheduler.tasks."+TaskStoreMaintenance+".enabled", true)
	v.SetDefault("scheduler.tasks."+TaskStoreMaintenance+".schedule", DefaultStoreMaintenanceSchedule)

	v.SetDefault("health.listen_addr", "")

	v.SetDefault("gemini.api_key", "")
	v.SetDefault("gemini.model", DefaultGeminiModel)
	v.SetDefault("gemini.temperature", DefaultGeminiTemperature)
	v.SetDefault("gemini.instruction", DefaultGeminiInstruction)
	v.SetDefault("gemini.timeout", DefaultGeminiTimeout)
}
