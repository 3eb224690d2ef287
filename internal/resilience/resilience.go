// Package resilience provides the retry policy used around network calls:
//   - exponential backoff starting at a base delay
//   - a fixed attempt ceiling
//   - early exit on context cancellation
package resilience

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/avast/retry-go/v4"
)

// ErrExhaustedRetries indicates retry attempts were exhausted.
var ErrExhaustedRetries = errors.New("retry attempts exhausted")

// RetryConfig holds configuration for retry operations.
type RetryConfig struct {
	MaxAttempts int
	BaseDelay   time.Duration
	MaxDelay    time.Duration
}

// DefaultRetryConfig returns three attempts waiting 1s then 2s.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts: 3,
		BaseDelay:   time.Second,
		MaxDelay:    30 * time.Second,
	}
}

// Do runs op until it succeeds, the attempts run out or ctx is done. The
// wait before attempt n+1 is BaseDelay * 2^(n-1), capped at MaxDelay.
// Exhaustion returns an error wrapping both ErrExhaustedRetries and the last
// error from op.
func Do[T any](ctx context.Context, cfg RetryConfig, logger *slog.Logger, op func(context.Context) (T, error)) (T, error) {
	if cfg.MaxAttempts < 1 {
		cfg.MaxAttempts = 1
	}
	if logger == nil {
		logger = slog.Default()
	}

	opts := []retry.Option{
		retry.Context(ctx),
		retry.Attempts(uint(cfg.MaxAttempts)),
		retry.Delay(cfg.BaseDelay),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(n uint, err error) {
			logger.WarnContext(ctx, "Operation failed, retrying",
				"attempt", n+1,
				"max_attempts", cfg.MaxAttempts,
				"error", err)
		}),
	}
	if cfg.MaxDelay > 0 {
		opts = append(opts, retry.MaxDelay(cfg.MaxDelay))
	}

	result, err := retry.DoWithData(func() (T, error) {
		return op(ctx)
	}, opts...)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return result, fmt.Errorf("retry abandoned: %w", ctxErr)
		}
		return result, fmt.Errorf("%w after %d attempts: %w", ErrExhaustedRetries, cfg.MaxAttempts, err)
	}
	return result, nil
}
