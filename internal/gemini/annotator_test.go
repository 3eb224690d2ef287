package gemini_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/edgard/tgdiary/internal/gemini"
)

var quiet = slog.New(slog.NewTextHandler(io.Discard, nil))

type fakeClient struct {
	reply string
	err   error
	calls int
	page  string
}

func (f *fakeClient) SummarizePage(_ context.Context, _ string, page string) (string, error) {
	f.calls++
	f.page = page
	return f.reply, f.err
}

const page = "# 2026-02-21 Journal\n\n## Highlights\n\n- morning\n\n## Timeline\n\n- 09:00 morning\n\n## Tags\n"

func TestAnnotateAppendsSummary(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "2026-02-21.md")
	if err := os.WriteFile(path, []byte(page), 0o644); err != nil {
		t.Fatal(err)
	}
	client := &fakeClient{reply: "  A calm morning.  \n"}
	a := gemini.NewAnnotator(client, dir, 0, quiet)

	if err := a.Annotate(context.Background(), "2026-02-21"); err != nil {
		t.Fatalf("Annotate: %v", err)
	}

	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	want := page + "\n## Summary\n\nA calm morning.\n"
	if string(got) != want {
		t.Errorf("page =\n%q\nwant\n%q", got, want)
	}
	if client.page != page {
		t.Errorf("model saw %q", client.page)
	}

	if err := a.Annotate(context.Background(), "2026-02-21"); err != nil {
		t.Fatalf("second Annotate: %v", err)
	}
	if client.calls != 1 {
		t.Errorf("model called %d times, want 1", client.calls)
	}
}

func TestAnnotateSkipsMissingPage(t *testing.T) {
	t.Parallel()

	client := &fakeClient{reply: "x"}
	if err := gemini.NewAnnotator(client, t.TempDir(), 0, quiet).Annotate(context.Background(), "2026-02-21"); err != nil {
		t.Fatalf("Annotate: %v", err)
	}
	if client.calls != 0 {
		t.Errorf("model called for a missing page")
	}
}

func TestAnnotateLeavesPageOnFailure(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "2026-02-21.md")
	if err := os.WriteFile(path, []byte(page), 0o644); err != nil {
		t.Fatal(err)
	}

	err := gemini.NewAnnotator(&fakeClient{err: errors.New("quota")}, dir, 0, quiet).Annotate(context.Background(), "2026-02-21")
	if err == nil || !strings.Contains(err.Error(), "quota") {
		t.Fatalf("Annotate() error = %v", err)
	}
	got, _ := os.ReadFile(path)
	if string(got) != page {
		t.Errorf("page changed after failure:\n%s", got)
	}
}
