package database

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/edgard/tgdiary/internal/diary"
	"github.com/edgard/tgdiary/internal/fsutil"
)

// FileStore keeps one JSON file per day under a directory.
type FileStore struct {
	dir    string
	logger *slog.Logger
}

// NewFileStore creates a FileStore rooted at dir. The directory is created on
// the first Save.
func NewFileStore(dir string, logger *slog.Logger) *FileStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &FileStore{
		dir:    dir,
		logger: logger.With("component", "file_store"),
	}
}

// Path returns the file that holds day.
func (s *FileStore) Path(day string) string {
	return filepath.Join(s.dir, day+".json")
}

// Load reads the messages stored for day.
func (s *FileStore) Load(ctx context.Context, day string) ([]diary.Message, error) {
	if err := validateDay(day); err != nil {
		return nil, err
	}

	path := s.Path(day)
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []diary.Message{}, nil
		}
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	msgs, err := DecodeMessages(data)
	if err != nil {
		s.logger.ErrorContext(ctx, "Stored day is unreadable", "day", day, "path", path, "error", err)
		return nil, fmt.Errorf("%w: %s: %v", ErrCorruptDay, path, err)
	}
	return msgs, nil
}

// Save atomically replaces the file for day.
func (s *FileStore) Save(ctx context.Context, day string, msgs []diary.Message) error {
	if err := validateDay(day); err != nil {
		return err
	}

	data, err := EncodeMessages(msgs)
	if err != nil {
		return err
	}

	path := s.Path(day)
	if err := fsutil.WriteFileAtomic(path, data, 0o644); err != nil {
		s.logger.ErrorContext(ctx, "Failed to save day", "day", day, "path", path, "error", err)
		return fmt.Errorf("save day %s: %w", day, err)
	}

	s.logger.DebugContext(ctx, "Day saved", "day", day, "count", len(msgs))
	return nil
}

// Maintain removes temp files left behind by interrupted saves.
func (s *FileStore) Maintain(ctx context.Context) error {
	n, err := fsutil.RemoveStaleTemps(s.dir)
	if err != nil {
		return fmt.Errorf("remove stale temp files: %w", err)
	}
	s.logger.InfoContext(ctx, "File store maintenance finished", "removed_temp_files", n)
	return nil
}

// Close is a no-op for the file backend.
func (s *FileStore) Close() error {
	return nil
}
