package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/edgard/tgdiary/internal/diary"
)

type dayRow struct {
	Day       string    `db:"day"`
	Payload   string    `db:"payload"`
	UpdatedAt time.Time `db:"updated_at"`
}

// SQLStore keeps one row per day in the day_messages table. The payload column
// holds the same JSON document the file backend writes.
type SQLStore struct {
	db     *sqlx.DB
	logger *slog.Logger
}

// NewSQLStore wraps an already migrated database.
func NewSQLStore(db *sqlx.DB, logger *slog.Logger) *SQLStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &SQLStore{
		db:     db,
		logger: logger.With("component", "sqlite_store"),
	}
}

// Load reads the messages stored for day.
func (s *SQLStore) Load(ctx context.Context, day string) ([]diary.Message, error) {
	if err := validateDay(day); err != nil {
		return nil, err
	}

	var payload string
	err := s.db.GetContext(ctx, &payload, "SELECT payload FROM day_messages WHERE day = ?", day)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return []diary.Message{}, nil
		}
		return nil, fmt.Errorf("failed to load day %s: %w", day, err)
	}

	msgs, err := DecodeMessages([]byte(payload))
	if err != nil {
		s.logger.ErrorContext(ctx, "Stored day is unreadable", "day", day, "error", err)
		return nil, fmt.Errorf("%w: day %s: %v", ErrCorruptDay, day, err)
	}
	return msgs, nil
}

// Save replaces the row for day inside a single transaction.
func (s *SQLStore) Save(ctx context.Context, day string, msgs []diary.Message) error {
	if err := validateDay(day); err != nil {
		return err
	}

	data, err := EncodeMessages(msgs)
	if err != nil {
		return err
	}
	row := dayRow{Day: day, Payload: string(data), UpdatedAt: time.Now().UTC()}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if tx != nil {
			if rollbackErr := tx.Rollback(); rollbackErr != nil && !errors.Is(rollbackErr, sql.ErrTxDone) {
				s.logger.WarnContext(ctx, "Error rolling back transaction", "error", rollbackErr)
			}
		}
	}()

	query := `
        INSERT INTO day_messages (day, payload, updated_at)
        VALUES (:day, :payload, :updated_at)
        ON CONFLICT(day) DO UPDATE SET payload = excluded.payload, updated_at = excluded.updated_at;
    `
	if _, err := tx.NamedExecContext(ctx, query, row); err != nil {
		s.logger.ErrorContext(ctx, "Error saving day", "day", day, "error", err)
		return fmt.Errorf("failed to save day %s: %w", day, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	tx = nil

	s.logger.DebugContext(ctx, "Day saved", "day", day, "count", len(msgs))
	return nil
}

// Maintain compacts the database file.
func (s *SQLStore) Maintain(ctx context.Context) error {
	s.logger.InfoContext(ctx, "Starting database maintenance (VACUUM)")

	_, err := s.db.ExecContext(ctx, "VACUUM;")
	switch {
	case errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled):
		return fmt.Errorf("database maintenance (VACUUM) timed out: %w", err)
	case err != nil:
		s.logger.ErrorContext(ctx, "Database maintenance (VACUUM) failed", "error", err)
		return fmt.Errorf("failed to execute VACUUM: %w", err)
	}

	s.logger.InfoContext(ctx, "Database maintenance (VACUUM) completed")
	return nil
}

// Close closes the underlying connection pool.
func (s *SQLStore) Close() error {
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}
	return nil
}
