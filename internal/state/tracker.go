package state

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/edgard/tgdiary/internal/fsutil"
)

// BackupSuffix is appended to the state file name for the previous generation.
const BackupSuffix = ".bak"

// Tracker loads and saves State at a fixed path.
type Tracker struct {
	path   string
	loc    *time.Location
	logger *slog.Logger
}

// NewTracker creates a Tracker for path. Timestamps without an offset are
// read in loc.
func NewTracker(path string, loc *time.Location, logger *slog.Logger) *Tracker {
	if logger == nil {
		logger = slog.Default()
	}
	if loc == nil {
		loc = time.UTC
	}
	return &Tracker{
		path:   path,
		loc:    loc,
		logger: logger.With("component", "state"),
	}
}

// Path returns the primary state file.
func (t *Tracker) Path() string { return t.path }

// BackupPath returns the backup state file.
func (t *Tracker) BackupPath() string { return t.path + BackupSuffix }

// Load returns the persisted state. It never fails: unreadable copies fall
// back to the backup and then to Default.
func (t *Tracker) Load(ctx context.Context) State {
	primary := t.read(ctx, t.path)
	s, err := Decode(primary, t.loc)
	if err == nil {
		return s
	}
	if primary != nil {
		t.logger.WarnContext(ctx, "State file unreadable, trying backup", "path", t.path, "error", err)
	}

	backup := t.read(ctx, t.BackupPath())
	s, err = Decode(backup, t.loc)
	if err == nil {
		t.logger.InfoContext(ctx, "State recovered from backup", "last_update_id", s.LastUpdateID)
		return s
	}
	if backup != nil {
		t.logger.WarnContext(ctx, "Backup state file unreadable", "path", t.BackupPath(), "error", err)
	}

	t.logger.InfoContext(ctx, "No usable state found, starting from the beginning")
	return Default(t.loc)
}

// Save persists s. The current primary, when it decodes, becomes the backup
// first. A cursor lower than the current primary is rejected with
// ErrCursorRegression.
func (t *Tracker) Save(ctx context.Context, s State) error {
	data, err := Encode(s)
	if err != nil {
		return err
	}

	if current := t.read(ctx, t.path); current != nil {
		prev, decErr := Decode(current, t.loc)
		switch {
		case decErr != nil:
			t.logger.WarnContext(ctx, "Current state unreadable, keeping existing backup", "error", decErr)
		case s.LastUpdateID < prev.LastUpdateID:
			return fmt.Errorf("%w: %d < %d", ErrCursorRegression, s.LastUpdateID, prev.LastUpdateID)
		default:
			if err := fsutil.WriteFileAtomic(t.BackupPath(), current, 0o644); err != nil {
				return fmt.Errorf("write state backup: %w", err)
			}
		}
	}

	if err := fsutil.WriteFileAtomic(t.path, data, 0o644); err != nil {
		return fmt.Errorf("write state: %w", err)
	}

	t.logger.DebugContext(ctx, "State saved", "last_update_id", s.LastUpdateID)
	return nil
}

// ReadPrimary decodes only the primary file, without backup fallback.
func (t *Tracker) ReadPrimary() (State, error) {
	data, err := os.ReadFile(t.path)
	if err != nil {
		return State{}, err
	}
	return Decode(data, t.loc)
}

func (t *Tracker) read(ctx context.Context, path string) []byte {
	data, err := os.ReadFile(path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			t.logger.WarnContext(ctx, "Failed to read state file", "path", path, "error", err)
		}
		return nil
	}
	return data
}
