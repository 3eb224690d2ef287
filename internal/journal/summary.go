// Package journal turns a day's messages into a Markdown journal page.
package journal

import (
	"fmt"
	"sort"
	"strings"

	"github.com/edgard/tgdiary/internal/diary"
)

// HighlightLimit is the number of runes kept from a message in the
// highlights section before it is cut with an ellipsis.
const HighlightLimit = 50

type tagRule struct {
	tag      string
	keywords []string
}

var tagRules = []tagRule{
	{tag: "#idea", keywords: []string{"アイデア", "idea", "思いつき"}},
	{tag: "#memo", keywords: []string{"メモ", "memo"}},
	{tag: "#question", keywords: []string{"かな", "どうする", "どうしよう", "？", "?"}},
	{tag: "#task", keywords: []string{"タスク", "task", "todo", "やること"}},
}

// Summarize builds the render input for date. Messages are deduplicated by ID
// (last occurrence wins) and ordered by time before highlights and tags are
// derived.
func Summarize(date string, msgs []diary.Message) diary.DaySummary {
	ordered := diary.SortByTime(diary.DedupByID(msgs))
	return diary.DaySummary{
		Date:       date,
		Messages:   ordered,
		Highlights: Highlights(ordered),
		Tags:       Tags(ordered),
	}
}

// Highlights returns one line per message that has text or an attachment.
func Highlights(msgs []diary.Message) []string {
	var lines []string
	for _, m := range msgs {
		text := oneLine(m.Text)
		switch {
		case text != "":
			lines = append(lines, truncate(text, HighlightLimit))
		case len(m.Attachments) > 0:
			lines = append(lines, fmt.Sprintf("[attachment: %s]", m.Attachments[0].MediaType))
		}
	}
	return lines
}

// Tags matches the keyword rules against the lowercased text of all messages
// and returns the matching tags sorted.
func Tags(msgs []diary.Message) []string {
	if len(msgs) == 0 {
		return nil
	}

	texts := make([]string, 0, len(msgs))
	for _, m := range msgs {
		texts = append(texts, m.Text)
	}
	all := strings.ToLower(strings.Join(texts, " "))

	var tags []string
	for _, rule := range tagRules {
		for _, kw := range rule.keywords {
			if strings.Contains(all, strings.ToLower(kw)) {
				tags = append(tags, rule.tag)
				break
			}
		}
	}
	sort.Strings(tags)
	return tags
}

func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit]) + "..."
}
