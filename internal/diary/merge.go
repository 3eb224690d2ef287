package diary

import (
	"sort"
	"time"
)

// DateLayout is the day key format used for storage and journal file names.
const DateLayout = "2006-01-02"

// DayOf returns the calendar date of t in loc.
func DayOf(t time.Time, loc *time.Location) string {
	return t.In(loc).Format(DateLayout)
}

// Merge folds existing then incoming into a single set keyed by message ID.
// A later value replaces an earlier one with the same ID, so incoming edits
// always win. The result is ordered by timestamp; equal timestamps keep the
// order in which their IDs were first seen.
func Merge(existing, incoming []Message) []Message {
	all := make([]Message, 0, len(existing)+len(incoming))
	all = append(all, existing...)
	all = append(all, incoming...)
	return SortByTime(DedupByID(all))
}

// DedupByID keeps the last value for every message ID. Output order follows
// the position where each ID first appeared.
func DedupByID(msgs []Message) []Message {
	index := make(map[int64]int, len(msgs))
	out := make([]Message, 0, len(msgs))
	for _, m := range msgs {
		if i, ok := index[m.ID]; ok {
			out[i] = m
			continue
		}
		index[m.ID] = len(out)
		out = append(out, m)
	}
	return out
}

// SortByTime returns a copy of msgs sorted ascending by timestamp. The sort is
// stable.
func SortByTime(msgs []Message) []Message {
	out := make([]Message, len(msgs))
	copy(out, msgs)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Timestamp.Before(out[j].Timestamp)
	})
	return out
}

// BucketByDay groups messages by their calendar date in loc, keeping the
// input order inside each bucket.
func BucketByDay(msgs []Message, loc *time.Location) map[string][]Message {
	buckets := make(map[string][]Message)
	for _, m := range msgs {
		day := DayOf(m.Timestamp, loc)
		buckets[day] = append(buckets[day], m)
	}
	return buckets
}

// Days returns the keys of a bucket map in ascending order.
func Days(buckets map[string][]Message) []string {
	days := make([]string, 0, len(buckets))
	for d := range buckets {
		days = append(days, d)
	}
	sort.Strings(days)
	return days
}
