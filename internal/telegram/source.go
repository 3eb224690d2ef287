// Package telegram reads chat updates from the Telegram Bot API and turns
// them into diary messages.
package telegram

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/go-telegram/bot/models"

	"github.com/edgard/tgdiary/internal/diary"
)

// DefaultAPIURL is the public Bot API endpoint.
const DefaultAPIURL = "https://api.telegram.org"

// ErrFetch marks a failed getUpdates call: transport error, bad HTTP status
// or an ok=false reply.
var ErrFetch = errors.New("telegram fetch failed")

// Batch is the result of one getUpdates call.
type Batch struct {
	Messages   []diary.Message
	NextOffset int64
	// Updates counts every update in the response, including other chats.
	Updates int
}

// SourceConfig holds what a Source needs to talk to the Bot API.
type SourceConfig struct {
	Token          string
	ChatID         int64
	APIURL         string
	RequestTimeout time.Duration
	Location       *time.Location
}

// Source fetches updates for a single chat.
type Source struct {
	token    string
	chatID   int64
	endpoint string
	loc      *time.Location
	client   *http.Client
	logger   *slog.Logger
}

// NewSource creates a Source. Each request is bounded by cfg.RequestTimeout.
func NewSource(cfg SourceConfig, logger *slog.Logger) (*Source, error) {
	if cfg.Token == "" {
		return nil, fmt.Errorf("telegram bot token cannot be empty")
	}
	if cfg.Location == nil {
		return nil, fmt.Errorf("telegram source requires a location")
	}
	if cfg.APIURL == "" {
		cfg.APIURL = DefaultAPIURL
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = 30 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Source{
		token:    cfg.Token,
		chatID:   cfg.ChatID,
		endpoint: strings.TrimRight(cfg.APIURL, "/") + "/bot%s/%s",
		loc:      cfg.Location,
		client:   &http.Client{Timeout: cfg.RequestTimeout},
		logger:   logger.With("component", "telegram_source"),
	}, nil
}

// requestClient attaches a Fetch's context to the requests tgbotapi builds
// and records the HTTP status of the reply.
type requestClient struct {
	ctx    context.Context
	client *http.Client
	status int
}

func (c *requestClient) Do(req *http.Request) (*http.Response, error) {
	resp, err := c.client.Do(req.WithContext(c.ctx))
	if resp != nil {
		c.status = resp.StatusCode
	}
	return resp, err
}

// newAPI returns a Bot API client that sends through rc. Building the
// BotAPI directly skips the getMe call NewBotAPIWithClient makes.
func (s *Source) newAPI(rc *requestClient) *tgbotapi.BotAPI {
	api := &tgbotapi.BotAPI{Token: s.token, Client: rc, Buffer: 100}
	api.SetAPIEndpoint(s.endpoint)
	return api
}

type updateID struct {
	ID *int64 `json:"update_id"`
}

// Fetch requests all updates at or after offset and returns the messages that
// belong to the configured chat. NextOffset is one past the highest update_id
// in the response, counting other chats' updates too, or offset itself when
// the response is empty.
func (s *Source) Fetch(ctx context.Context, offset int64) (Batch, error) {
	rc := &requestClient{ctx: ctx, client: s.client}
	params := tgbotapi.Params{"offset": strconv.FormatInt(offset, 10)}

	resp, err := s.newAPI(rc).MakeRequest("getUpdates", params)
	if err != nil {
		return Batch{}, s.fetchError(rc.status, err)
	}
	if rc.status != http.StatusOK {
		return Batch{}, fmt.Errorf("%w: unexpected status %d", ErrFetch, rc.status)
	}

	var raws []json.RawMessage
	if len(resp.Result) == 0 {
		return s.collect(ctx, nil, offset), nil
	}
	if err := json.Unmarshal(resp.Result, &raws); err != nil {
		return Batch{}, fmt.Errorf("%w: decode result: %v", ErrFetch, err)
	}
	return s.collect(ctx, raws, offset), nil
}

// fetchError maps a MakeRequest failure onto ErrFetch. status is zero when
// no reply arrived.
func (s *Source) fetchError(status int, err error) error {
	var apiErr *tgbotapi.Error
	if errors.As(err, &apiErr) {
		desc := apiErr.Message
		if desc == "" {
			desc = "API returned ok=false"
		}
		if status != http.StatusOK {
			return fmt.Errorf("%w: unexpected status %d: %s", ErrFetch, status, desc)
		}
		return fmt.Errorf("%w: %s", ErrFetch, desc)
	}

	switch {
	case status == 0:
		// The request URL embeds the token; keep it out of the error text.
		return fmt.Errorf("%w: %v", ErrFetch, redact(err, s.token))
	case status != http.StatusOK:
		return fmt.Errorf("%w: unexpected status %d", ErrFetch, status)
	default:
		return fmt.Errorf("%w: decode response: %v", ErrFetch, err)
	}
}

func (s *Source) collect(ctx context.Context, raws []json.RawMessage, offset int64) Batch {
	batch := Batch{NextOffset: offset, Updates: len(raws)}
	maxID := int64(-1)

	for _, raw := range raws {
		var id updateID
		if err := json.Unmarshal(raw, &id); err != nil || id.ID == nil {
			s.logger.WarnContext(ctx, "Skipping update without readable update_id", "error", err)
			continue
		}
		if *id.ID > maxID {
			maxID = *id.ID
		}

		var update models.Update
		if err := json.Unmarshal(raw, &update); err != nil {
			s.logger.WarnContext(ctx, "Skipping malformed update", "update_id", *id.ID, "error", err)
			continue
		}

		m, ok := Normalize(&update, s.loc)
		if !ok {
			s.logger.DebugContext(ctx, "Update carries no message", "update_id", *id.ID)
			continue
		}
		if m.SourceChat != s.chatID {
			continue
		}
		batch.Messages = append(batch.Messages, m)
	}

	// A server replaying updates below offset must not move the cursor back.
	if maxID >= 0 && maxID+1 > offset {
		batch.NextOffset = maxID + 1
	}
	return batch
}

func redact(err error, token string) string {
	return strings.ReplaceAll(err.Error(), token, "<token>")
}
