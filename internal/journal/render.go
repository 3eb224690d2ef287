package journal

import (
	"strings"
	"time"

	"github.com/edgard/tgdiary/internal/diary"
)

// Section headings. SummaryMarker is never written by Render; its presence
// means the page was processed after rendering.
const (
	HighlightsHeading = "## Highlights"
	TimelineHeading   = "## Timeline"
	TagsHeading       = "## Tags"
	SummaryMarker     = "## Summary"
)

var mediaLabels = map[diary.MediaType]string{
	diary.MediaPhoto:    "Image",
	diary.MediaVideo:    "Video",
	diary.MediaAudio:    "Audio",
	diary.MediaVoice:    "Voice",
	diary.MediaDocument: "File",
}

// Render produces the Markdown page for summary. Times are shown in loc.
// The output depends only on its inputs.
func Render(summary diary.DaySummary, loc *time.Location) string {
	if loc == nil {
		loc = time.UTC
	}
	msgs := diary.SortByTime(diary.DedupByID(summary.Messages))

	var b strings.Builder
	b.WriteString("# " + summary.Date + " Journal\n\n")

	b.WriteString(HighlightsHeading + "\n\n")
	for _, line := range summary.Highlights {
		b.WriteString("- " + oneLine(line) + "\n")
	}
	if len(summary.Highlights) > 0 {
		b.WriteString("\n")
	}

	b.WriteString(TimelineHeading + "\n\n")
	for _, m := range msgs {
		b.WriteString("- " + timelineEntry(m, loc) + "\n")
	}
	if len(msgs) > 0 {
		b.WriteString("\n")
	}

	b.WriteString(TagsHeading + "\n")
	if len(summary.Tags) > 0 {
		b.WriteString("\n" + strings.Join(summary.Tags, " ") + "\n")
	}
	return b.String()
}

func timelineEntry(m diary.Message, loc *time.Location) string {
	parts := []string{m.Timestamp.In(loc).Format("15:04")}
	if text := oneLine(m.Text); text != "" {
		parts = append(parts, text)
	}
	for _, a := range m.Attachments {
		parts = append(parts, "["+label(a.MediaType)+": "+a.FileName+"]")
	}
	return strings.Join(parts, " ")
}

func label(t diary.MediaType) string {
	if l, ok := mediaLabels[t]; ok {
		return l
	}
	return "File"
}

// oneLine folds line breaks so every entry stays a single bullet.
func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
