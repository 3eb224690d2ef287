package telegram_test

import (
	"testing"
	"time"

	"github.com/go-telegram/bot/models"

	"github.com/edgard/tgdiary/internal/diary"
	"github.com/edgard/tgdiary/internal/telegram"
)

var tokyo = time.FixedZone("JST", 9*60*60)

// 2026-02-21 09:00:00 +09:00
const morning = 1771632000

func TestNormalize(t *testing.T) {
	t.Parallel()

	base := func() *models.Message {
		return &models.Message{ID: 42, Date: morning, Chat: models.Chat{ID: -100}, Text: "hello"}
	}

	tests := []struct {
		name      string
		update    *models.Update
		wantOK    bool
		wantText  string
		wantAtts  []diary.Attachment
		wantID    int64
		checkTime bool
	}{
		{
			name:   "no message kinds",
			update: &models.Update{ID: 1},
			wantOK: false,
		},
		{
			name:      "plain message",
			update:    &models.Update{ID: 1, Message: base()},
			wantOK:    true,
			wantText:  "hello",
			wantID:    42,
			checkTime: true,
		},
		{
			name: "message wins over edited_message",
			update: &models.Update{
				ID:            1,
				Message:       &models.Message{ID: 1, Date: morning, Chat: models.Chat{ID: -100}, Text: "first"},
				EditedMessage: &models.Message{ID: 2, Date: morning, Chat: models.Chat{ID: -100}, Text: "second"},
			},
			wantOK:   true,
			wantText: "first",
			wantID:   1,
		},
		{
			name:     "edited channel post is used when alone",
			update:   &models.Update{ID: 1, EditedChannelPost: base()},
			wantOK:   true,
			wantText: "hello",
			wantID:   42,
		},
		{
			name: "caption used when text is empty",
			update: &models.Update{ID: 1, ChannelPost: &models.Message{
				ID: 7, Date: morning, Chat: models.Chat{ID: -100}, Caption: "caption",
			}},
			wantOK:   true,
			wantText: "caption",
			wantID:   7,
		},
		{
			name: "largest photo kept",
			update: &models.Update{ID: 1, Message: &models.Message{
				ID: 8, Date: morning, Chat: models.Chat{ID: -100},
				Photo: []models.PhotoSize{
					{FileID: "small", FileSize: 100},
					{FileID: "large", FileSize: 900},
					{FileID: "medium", FileSize: 400},
				},
			}},
			wantOK:   true,
			wantText: "",
			wantID:   8,
			wantAtts: []diary.Attachment{
				{FileID: "large", FileName: "photo_large.jpg", MediaType: diary.MediaPhoto},
			},
		},
		{
			name: "photo size ties keep the first",
			update: &models.Update{ID: 1, Message: &models.Message{
				ID: 9, Date: morning, Chat: models.Chat{ID: -100},
				Photo: []models.PhotoSize{
					{FileID: "a"},
					{FileID: "b"},
				},
			}},
			wantOK: true,
			wantID: 9,
			wantAtts: []diary.Attachment{
				{FileID: "a", FileName: "photo_a.jpg", MediaType: diary.MediaPhoto},
			},
		},
		{
			name: "media names default when missing",
			update: &models.Update{ID: 1, Message: &models.Message{
				ID: 10, Date: morning, Chat: models.Chat{ID: -100},
				Video:    &models.Video{FileID: "v1"},
				Document: &models.Document{FileID: "d1", FileName: "report.pdf"},
				Audio:    &models.Audio{FileID: "a1"},
				Voice:    &models.Voice{FileID: "vo1"},
			}},
			wantOK: true,
			wantID: 10,
			wantAtts: []diary.Attachment{
				{FileID: "v1", FileName: "video_v1", MediaType: diary.MediaVideo},
				{FileID: "d1", FileName: "report.pdf", MediaType: diary.MediaDocument},
				{FileID: "a1", FileName: "audio_a1", MediaType: diary.MediaAudio},
				{FileID: "vo1", FileName: "voice_vo1", MediaType: diary.MediaVoice},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, ok := telegram.Normalize(tt.update, tokyo)
			if ok != tt.wantOK {
				t.Fatalf("Normalize() ok = %v, want %v", ok, tt.wantOK)
			}
			if !ok {
				return
			}
			if got.ID != tt.wantID {
				t.Errorf("ID = %d, want %d", got.ID, tt.wantID)
			}
			if got.Text != tt.wantText {
				t.Errorf("Text = %q, want %q", got.Text, tt.wantText)
			}
			if got.SourceChat != -100 {
				t.Errorf("SourceChat = %d, want -100", got.SourceChat)
			}
			if len(got.Attachments) != len(tt.wantAtts) {
				t.Fatalf("Attachments = %+v, want %+v", got.Attachments, tt.wantAtts)
			}
			for i := range tt.wantAtts {
				if got.Attachments[i] != tt.wantAtts[i] {
					t.Errorf("Attachments[%d] = %+v, want %+v", i, got.Attachments[i], tt.wantAtts[i])
				}
			}
			if tt.checkTime {
				want := time.Date(2026, 2, 21, 9, 0, 0, 0, tokyo)
				if !got.Timestamp.Equal(want) {
					t.Errorf("Timestamp = %v, want %v", got.Timestamp, want)
				}
				if _, off := got.Timestamp.Zone(); off != 9*60*60 {
					t.Errorf("Timestamp offset = %d, want +09:00", off)
				}
			}
		})
	}
}

func TestNormalizeNilUpdate(t *testing.T) {
	t.Parallel()

	if _, ok := telegram.Normalize(nil, tokyo); ok {
		t.Fatal("Normalize(nil) should report no message")
	}
}
