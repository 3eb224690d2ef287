package diary_test

import (
	"testing"
	"time"

	"github.com/edgard/tgdiary/internal/diary"
)

var tokyo = time.FixedZone("JST", 9*60*60)

func at(hour, minute int) time.Time {
	return time.Date(2026, 2, 21, hour, minute, 0, 0, tokyo)
}

func msg(id int64, ts time.Time, text string) diary.Message {
	return diary.Message{ID: id, Timestamp: ts, Text: text, SourceChat: -1001234}
}

func ids(msgs []diary.Message) []int64 {
	out := make([]int64, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, m.ID)
	}
	return out
}

func equalIDs(a, b []int64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestMerge(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		existing  []diary.Message
		incoming  []diary.Message
		wantIDs   []int64
		wantTexts map[int64]string
	}{
		{
			name:     "both empty",
			existing: nil,
			incoming: nil,
			wantIDs:  []int64{},
		},
		{
			name:     "new messages appended in time order",
			existing: []diary.Message{msg(1, at(9, 0), "morning")},
			incoming: []diary.Message{msg(3, at(21, 0), "night"), msg(2, at(15, 0), "afternoon")},
			wantIDs:  []int64{1, 2, 3},
		},
		{
			name:      "incoming edit replaces existing",
			existing:  []diary.Message{msg(5, at(10, 0), "draft")},
			incoming:  []diary.Message{msg(5, at(10, 0), "final")},
			wantIDs:   []int64{5},
			wantTexts: map[int64]string{5: "final"},
		},
		{
			name:      "later duplicate inside incoming wins",
			existing:  nil,
			incoming:  []diary.Message{msg(7, at(8, 0), "one"), msg(7, at(8, 0), "two")},
			wantIDs:   []int64{7},
			wantTexts: map[int64]string{7: "two"},
		},
		{
			name:      "duplicates inside existing collapse to the last",
			existing:  []diary.Message{msg(1, at(9, 0), "a"), msg(1, at(9, 0), "b")},
			incoming:  nil,
			wantIDs:   []int64{1},
			wantTexts: map[int64]string{1: "b"},
		},
		{
			name:     "equal timestamps keep insertion order",
			existing: []diary.Message{msg(20, at(12, 0), "x")},
			incoming: []diary.Message{msg(10, at(12, 0), "y"), msg(30, at(12, 0), "z")},
			wantIDs:  []int64{20, 10, 30},
		},
		{
			name:      "edit may move a message in time",
			existing:  []diary.Message{msg(1, at(9, 0), "a"), msg(2, at(10, 0), "b")},
			incoming:  []diary.Message{msg(1, at(11, 0), "a edited")},
			wantIDs:   []int64{2, 1},
			wantTexts: map[int64]string{1: "a edited"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := diary.Merge(tt.existing, tt.incoming)
			if !equalIDs(ids(got), tt.wantIDs) {
				t.Fatalf("Merge() ids = %v, want %v", ids(got), tt.wantIDs)
			}
			if len(got) > len(tt.existing)+len(tt.incoming) {
				t.Fatalf("Merge() returned %d messages, more than its inputs", len(got))
			}
			for _, m := range got {
				if want, ok := tt.wantTexts[m.ID]; ok && m.Text != want {
					t.Errorf("message %d text = %q, want %q", m.ID, m.Text, want)
				}
			}
			for i := 1; i < len(got); i++ {
				if got[i].Timestamp.Before(got[i-1].Timestamp) {
					t.Fatalf("Merge() result not sorted at index %d", i)
				}
			}
		})
	}
}

func TestMergeWithNoIncomingIsDedupAndSort(t *testing.T) {
	t.Parallel()

	existing := []diary.Message{
		msg(2, at(15, 0), "afternoon"),
		msg(1, at(9, 0), "morning"),
		msg(2, at(15, 0), "afternoon edited"),
	}

	got := diary.Merge(existing, nil)
	want := diary.SortByTime(diary.DedupByID(existing))

	if !equalIDs(ids(got), ids(want)) {
		t.Fatalf("Merge(existing, nil) = %v, want %v", ids(got), ids(want))
	}
	if got[1].Text != "afternoon edited" {
		t.Errorf("expected last occurrence to win, got %q", got[1].Text)
	}
}

func TestMergeDoesNotMutateInputs(t *testing.T) {
	t.Parallel()

	existing := []diary.Message{msg(2, at(15, 0), "b"), msg(1, at(9, 0), "a")}
	incoming := []diary.Message{msg(2, at(15, 0), "b2")}

	_ = diary.Merge(existing, incoming)

	if existing[0].ID != 2 || existing[0].Text != "b" {
		t.Errorf("existing slice was modified: %+v", existing)
	}
	if incoming[0].Text != "b2" {
		t.Errorf("incoming slice was modified: %+v", incoming)
	}
}

func TestDayOfUsesLocation(t *testing.T) {
	t.Parallel()

	// 2026-02-20 16:30 UTC is already 2026-02-21 in Tokyo.
	ts := time.Date(2026, 2, 20, 16, 30, 0, 0, time.UTC)

	if got := diary.DayOf(ts, tokyo); got != "2026-02-21" {
		t.Errorf("DayOf(tokyo) = %q, want 2026-02-21", got)
	}
	if got := diary.DayOf(ts, time.UTC); got != "2026-02-20" {
		t.Errorf("DayOf(utc) = %q, want 2026-02-20", got)
	}
}

func TestBucketByDay(t *testing.T) {
	t.Parallel()

	msgs := []diary.Message{
		msg(1, time.Date(2026, 2, 21, 23, 59, 0, 0, tokyo), "late"),
		msg(2, time.Date(2026, 2, 22, 0, 1, 0, 0, tokyo), "early"),
		msg(3, time.Date(2026, 2, 21, 8, 0, 0, 0, tokyo), "morning"),
	}

	buckets := diary.BucketByDay(msgs, tokyo)
	days := diary.Days(buckets)

	if len(days) != 2 || days[0] != "2026-02-21" || days[1] != "2026-02-22" {
		t.Fatalf("Days() = %v", days)
	}
	if !equalIDs(ids(buckets["2026-02-21"]), []int64{1, 3}) {
		t.Errorf("bucket 2026-02-21 = %v, want [1 3]", ids(buckets["2026-02-21"]))
	}
	if !equalIDs(ids(buckets["2026-02-22"]), []int64{2}) {
		t.Errorf("bucket 2026-02-22 = %v, want [2]", ids(buckets["2026-02-22"]))
	}
}
