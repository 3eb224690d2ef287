// Package state persists the poll cursor with a one-generation backup.
package state

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// ErrCursorRegression is returned when a save would move the cursor backwards.
var ErrCursorRegression = errors.New("cursor would move backwards")

// State is the position of the poller in the update stream.
type State struct {
	LastUpdateID int64
	LastRunAt    time.Time
}

type record struct {
	LastUpdateID *int64  `json:"last_update_id"`
	LastRunAt    *string `json:"last_run_at"`
}

// Default is the state used when nothing usable is persisted: cursor zero and
// a last run far in the past.
func Default(loc *time.Location) State {
	if loc == nil {
		loc = time.UTC
	}
	return State{LastUpdateID: 0, LastRunAt: time.Date(2000, 1, 1, 0, 0, 0, 0, loc)}
}

// Recover picks the first of primary and backup that decodes, falling back to
// Default. A nil slice means the copy is absent.
func Recover(primary, backup []byte, loc *time.Location) State {
	if s, err := Decode(primary, loc); err == nil {
		return s
	}
	if s, err := Decode(backup, loc); err == nil {
		return s
	}
	return Default(loc)
}

// Decode parses a persisted state. Both fields are required; a last_run_at
// without an offset is read in loc.
func Decode(data []byte, loc *time.Location) (State, error) {
	if loc == nil {
		loc = time.UTC
	}
	if len(data) == 0 {
		return State{}, errors.New("empty state")
	}

	var r record
	if err := json.Unmarshal(data, &r); err != nil {
		return State{}, fmt.Errorf("decode state: %w", err)
	}
	if r.LastUpdateID == nil || r.LastRunAt == nil {
		return State{}, errors.New("decode state: missing field")
	}
	if *r.LastUpdateID < 0 {
		return State{}, fmt.Errorf("decode state: negative last_update_id %d", *r.LastUpdateID)
	}

	ts, err := time.Parse(time.RFC3339Nano, *r.LastRunAt)
	if err != nil {
		ts, err = time.ParseInLocation("2006-01-02T15:04:05.999999999", *r.LastRunAt, loc)
		if err != nil {
			return State{}, fmt.Errorf("decode state: last_run_at: %w", err)
		}
	}
	return State{LastUpdateID: *r.LastUpdateID, LastRunAt: ts}, nil
}

// Encode serializes s.
func Encode(s State) ([]byte, error) {
	id := s.LastUpdateID
	ts := s.LastRunAt.Format(time.RFC3339Nano)
	data, err := json.MarshalIndent(record{LastUpdateID: &id, LastRunAt: &ts}, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode state: %w", err)
	}
	return data, nil
}
