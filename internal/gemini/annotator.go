package gemini

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/edgard/tgdiary/internal/fsutil"
	"github.com/edgard/tgdiary/internal/journal"
)

// Annotator appends a summary section to rendered journal pages. Once a page
// carries the section the renderer no longer rewrites it.
type Annotator struct {
	client  Client
	dir     string
	timeout time.Duration
	logger  *slog.Logger
}

// NewAnnotator creates an Annotator for pages in dir. Each model call is
// bounded by timeout when it is positive.
func NewAnnotator(client Client, dir string, timeout time.Duration, logger *slog.Logger) *Annotator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Annotator{client: client, dir: dir, timeout: timeout, logger: logger.With("component", "annotator")}
}

// Annotate adds the summary section to the page for day. Missing pages and
// pages that already have the section are left alone.
func (a *Annotator) Annotate(ctx context.Context, day string) error {
	path := filepath.Join(a.dir, day+".md")
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			a.logger.InfoContext(ctx, "No journal page to annotate", "day", day)
			return nil
		}
		return fmt.Errorf("read journal %s: %w", path, err)
	}

	page := string(data)
	if strings.Contains(page, journal.SummaryMarker) {
		a.logger.DebugContext(ctx, "Journal already annotated", "day", day)
		return nil
	}

	callCtx := ctx
	if a.timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, a.timeout)
		defer cancel()
	}

	summary, err := a.client.SummarizePage(callCtx, day, page)
	if err != nil {
		return fmt.Errorf("summarize %s: %w", day, err)
	}

	if !strings.HasSuffix(page, "\n") {
		page += "\n"
	}
	page += "\n" + journal.SummaryMarker + "\n\n" + strings.TrimSpace(summary) + "\n"

	if err := fsutil.WriteFileAtomic(path, []byte(page), 0o644); err != nil {
		return fmt.Errorf("write journal %s: %w", path, err)
	}
	a.logger.InfoContext(ctx, "Journal annotated", "day", day, "path", path)
	return nil
}
