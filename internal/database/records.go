package database

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/edgard/tgdiary/internal/diary"
)

var errMissingTimestamp = errors.New("missing timestamp")

// attachmentRecord and messageRecord are the persisted shape of a day's
// messages. The same encoding is used by the file and SQL backends.
type attachmentRecord struct {
	FileID    string `json:"file_id"`
	FileName  string `json:"file_name"`
	MediaType string `json:"media_type"`
}

type messageRecord struct {
	MessageID   int64              `json:"message_id"`
	Timestamp   string             `json:"timestamp"`
	Text        string             `json:"text"`
	SourceChat  int64              `json:"source_chat"`
	Attachments []attachmentRecord `json:"attachments"`
}

// EncodeMessages serializes messages. Timestamps keep their UTC offset and
// sub-second precision.
func EncodeMessages(msgs []diary.Message) ([]byte, error) {
	records := make([]messageRecord, 0, len(msgs))
	for _, m := range msgs {
		atts := make([]attachmentRecord, 0, len(m.Attachments))
		for _, a := range m.Attachments {
			atts = append(atts, attachmentRecord{
				FileID:    a.FileID,
				FileName:  a.FileName,
				MediaType: string(a.MediaType),
			})
		}
		records = append(records, messageRecord{
			MessageID:   m.ID,
			Timestamp:   m.Timestamp.Format(time.RFC3339Nano),
			Text:        m.Text,
			SourceChat:  m.SourceChat,
			Attachments: atts,
		})
	}

	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode messages: %w", err)
	}
	return data, nil
}

// DecodeMessages parses data produced by EncodeMessages.
func DecodeMessages(data []byte) ([]diary.Message, error) {
	var records []messageRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("decode messages: %w", err)
	}

	msgs := make([]diary.Message, 0, len(records))
	for i, r := range records {
		if r.Timestamp == "" {
			return nil, fmt.Errorf("decode messages: record %d: %w", i, errMissingTimestamp)
		}
		ts, err := time.Parse(time.RFC3339Nano, r.Timestamp)
		if err != nil {
			return nil, fmt.Errorf("decode messages: record %d: %w", i, err)
		}

		var atts []diary.Attachment
		for _, a := range r.Attachments {
			atts = append(atts, diary.Attachment{
				FileID:    a.FileID,
				FileName:  a.FileName,
				MediaType: diary.MediaType(a.MediaType),
			})
		}

		msgs = append(msgs, diary.Message{
			ID:          r.MessageID,
			Timestamp:   ts,
			Text:        r.Text,
			SourceChat:  r.SourceChat,
			Attachments: atts,
		})
	}
	return msgs, nil
}
