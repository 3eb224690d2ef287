// Package diary defines the message model shared by the ingestion pipeline
// and the merge rules that reconcile fetched messages with stored ones.
package diary

import "time"

// MediaType identifies the kind of file attached to a message.
type MediaType string

// Supported media types.
const (
	MediaPhoto    MediaType = "photo"
	MediaVideo    MediaType = "video"
	MediaAudio    MediaType = "audio"
	MediaVoice    MediaType = "voice"
	MediaDocument MediaType = "document"
	MediaOther    MediaType = "other"
)

// Attachment is a file reference carried by a message.
type Attachment struct {
	FileID    string
	FileName  string
	MediaType MediaType
}

// Message is a single chat message as captured from the source.
// An edit of a message arrives as a new Message value with the same ID.
type Message struct {
	ID          int64
	Timestamp   time.Time
	Text        string
	SourceChat  int64
	Attachments []Attachment
}

// HasContent reports whether the message carries text or at least one attachment.
func (m Message) HasContent() bool {
	return m.Text != "" || len(m.Attachments) > 0
}

// DaySummary is the render input for one calendar day. It is rebuilt on
// every render and never persisted.
type DaySummary struct {
	Date       string
	Messages   []Message
	Highlights []string
	Tags       []string
}
