package database

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/edgard/tgdiary/internal/diary"
)

// ErrCorruptDay is returned when a stored day exists but cannot be decoded.
// It is never recovered silently: the stored data is left untouched for the
// operator to inspect.
var ErrCorruptDay = errors.New("stored day is unreadable")

// ErrInvalidDay is returned for keys that are not YYYY-MM-DD dates.
var ErrInvalidDay = errors.New("invalid day key")

// Backend names accepted by Open.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
)

// DayStore persists the full message set of one calendar day. Each day is an
// independent unit: writing one day never touches another.
type DayStore interface {
	// Load returns the stored messages for day, or an empty slice when the day
	// has never been saved.
	Load(ctx context.Context, day string) ([]diary.Message, error)

	// Save replaces everything stored for day with msgs.
	Save(ctx context.Context, day string, msgs []diary.Message) error

	// Maintain performs housekeeping such as removing interrupted writes or
	// compacting the database.
	Maintain(ctx context.Context) error

	// Close releases resources held by the store.
	Close() error
}

// Options selects and configures a DayStore backend.
type Options struct {
	Backend     string
	MessagesDir string
	DBPath      string
}

// Open creates the DayStore selected by opts.Backend.
func Open(opts Options, logger *slog.Logger) (DayStore, error) {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	switch opts.Backend {
	case BackendFile, "":
		return NewFileStore(opts.MessagesDir, logger), nil
	case BackendSQLite:
		db, err := NewDB(opts.DBPath, logger)
		if err != nil {
			return nil, err
		}
		return NewSQLStore(db, logger), nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", opts.Backend)
	}
}

func validateDay(day string) error {
	if _, err := time.Parse(diary.DateLayout, day); err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidDay, day)
	}
	return nil
}
