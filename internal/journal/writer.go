package journal

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/edgard/tgdiary/internal/diary"
	"github.com/edgard/tgdiary/internal/fsutil"
)

// Writer renders journal pages into a directory, one file per day.
type Writer struct {
	dir    string
	loc    *time.Location
	logger *slog.Logger
}

// NewWriter creates a Writer for dir with times shown in loc.
func NewWriter(dir string, loc *time.Location, logger *slog.Logger) *Writer {
	if logger == nil {
		logger = slog.Default()
	}
	if loc == nil {
		loc = time.UTC
	}
	return &Writer{dir: dir, loc: loc, logger: logger.With("component", "journal")}
}

// Path returns the page location for date.
func (w *Writer) Path(date string) string {
	return filepath.Join(w.dir, date+".md")
}

// Write regenerates the page for summary and returns its path. A page that
// already contains SummaryMarker is left as is.
func (w *Writer) Write(ctx context.Context, summary diary.DaySummary) (string, error) {
	path := w.Path(summary.Date)

	processed, err := HasMarker(path)
	if err != nil {
		return "", err
	}
	if processed {
		w.logger.InfoContext(ctx, "Journal already processed, leaving it untouched", "date", summary.Date, "path", path)
		return path, nil
	}

	if err := fsutil.WriteFileAtomic(path, []byte(Render(summary, w.loc)), 0o644); err != nil {
		return "", fmt.Errorf("write journal %s: %w", path, err)
	}
	w.logger.DebugContext(ctx, "Journal written", "date", summary.Date, "path", path, "messages", len(summary.Messages))
	return path, nil
}

// HasMarker reports whether the page at path exists and contains
// SummaryMarker.
func HasMarker(path string) (bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("read journal %s: %w", path, err)
	}
	return strings.Contains(string(data), SummaryMarker), nil
}
