package telegram

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/go-telegram/bot"
)

// Prober checks that the bot credentials are accepted by the Bot API.
type Prober struct {
	bot *bot.Bot
	log *slog.Logger
}

// NewProber creates a Telegram bot client used only for getMe. The client
// never starts its own update loop, so it does not compete with Source for
// updates.
func NewProber(token, apiURL string, logger *slog.Logger) (*Prober, error) {
	if token == "" {
		return nil, fmt.Errorf("telegram bot token cannot be empty")
	}
	if logger == nil {
		logger = slog.Default()
	}
	log := logger.With("component", "telegram_bot")

	opts := []bot.Option{bot.WithSkipGetMe()}
	if apiURL != "" {
		opts = append(opts, bot.WithServerURL(apiURL))
	}

	b, err := bot.New(token, opts...)
	if err != nil {
		log.Error("Failed to create Telegram bot instance", "error", err)
		return nil, fmt.Errorf("failed to create telegram bot: %w", err)
	}

	return &Prober{bot: b, log: log}, nil
}

// Username calls getMe and returns the bot's username.
func (p *Prober) Username(ctx context.Context) (string, error) {
	me, err := p.bot.GetMe(ctx)
	if err != nil {
		p.log.WarnContext(ctx, "getMe failed", "error", err)
		return "", fmt.Errorf("getMe: %w", err)
	}
	return me.Username, nil
}
