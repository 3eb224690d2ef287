package telegram

import (
	"fmt"
	"time"

	"github.com/go-telegram/bot/models"

	"github.com/edgard/tgdiary/internal/diary"
)

// Normalize converts an update into a diary message. The second return value
// is false when the update carries no message (for example a callback query
// or a poll answer).
//
// The first present of message, edited_message, channel_post and
// edited_channel_post is used. The Unix date is converted to loc.
func Normalize(update *models.Update, loc *time.Location) (diary.Message, bool) {
	raw := pickMessage(update)
	if raw == nil {
		return diary.Message{}, false
	}

	text := raw.Text
	if text == "" {
		text = raw.Caption
	}

	return diary.Message{
		ID:          int64(raw.ID),
		Timestamp:   time.Unix(int64(raw.Date), 0).In(loc),
		Text:        text,
		SourceChat:  raw.Chat.ID,
		Attachments: extractAttachments(raw),
	}, true
}

func pickMessage(update *models.Update) *models.Message {
	if update == nil {
		return nil
	}
	for _, m := range []*models.Message{
		update.Message,
		update.EditedMessage,
		update.ChannelPost,
		update.EditedChannelPost,
	} {
		if m != nil {
			return m
		}
	}
	return nil
}

func extractAttachments(m *models.Message) []diary.Attachment {
	var out []diary.Attachment

	if photo, ok := largestPhoto(m.Photo); ok {
		out = append(out, diary.Attachment{
			FileID:    photo.FileID,
			FileName:  fmt.Sprintf("photo_%s.jpg", photo.FileID),
			MediaType: diary.MediaPhoto,
		})
	}
	if m.Video != nil {
		out = append(out, fileAttachment(diary.MediaVideo, m.Video.FileID, m.Video.FileName))
	}
	if m.Document != nil {
		out = append(out, fileAttachment(diary.MediaDocument, m.Document.FileID, m.Document.FileName))
	}
	if m.Audio != nil {
		out = append(out, fileAttachment(diary.MediaAudio, m.Audio.FileID, m.Audio.FileName))
	}
	if m.Voice != nil {
		out = append(out, fileAttachment(diary.MediaVoice, m.Voice.FileID, ""))
	}

	return out
}

// largestPhoto picks the size variant with the biggest declared file size.
// On ties the first maximal variant wins.
func largestPhoto(sizes []models.PhotoSize) (models.PhotoSize, bool) {
	if len(sizes) == 0 {
		return models.PhotoSize{}, false
	}
	best := sizes[0]
	for _, p := range sizes[1:] {
		if p.FileSize > best.FileSize {
			best = p
		}
	}
	return best, true
}

func fileAttachment(kind diary.MediaType, fileID, fileName string) diary.Attachment {
	if fileName == "" {
		fileName = fmt.Sprintf("%s_%s", kind, fileID)
	}
	return diary.Attachment{FileID: fileID, FileName: fileName, MediaType: kind}
}
