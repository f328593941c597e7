package message

import (
	"fmt"
	"strings"
	"time"

	"perepiska/internal/models"

	"github.com/google/uuid"
)

// File describes an attached file as handed over by the view.
type File struct {
	Name     string
	Size     int64
	MimeType string
	URL      string
}

type Config struct {
	// Now defaults to time.Now.
	Now func() time.Time
	// NewSuffix defaults to a random uuid fragment.
	NewSuffix func() string
}

// Factory builds well-formed messages from user input.
type Factory struct {
	now       func() time.Time
	newSuffix func() string
}

func NewFactory(config Config) *Factory {
	f := &Factory{
		now:       config.Now,
		newSuffix: config.NewSuffix,
	}
	if f.now == nil {
		f.now = time.Now
	}
	if f.newSuffix == nil {
		f.newSuffix = func() string {
			return strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
		}
	}
	return f
}

// ComposeText creates a text message. Whitespace-only text is rejected.
func (f *Factory) ComposeText(author models.User, text string) (models.Message, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return models.Message{}, models.ErrEmptyContent
	}

	now := f.now()
	return models.Message{
		ID:         f.newID(now),
		AuthorID:   author.ID,
		AuthorName: author.Username,
		Kind:       models.MessageKindText,
		Content:    text,
		Timestamp:  now,
	}, nil
}

// ComposeFromFile creates an attachment message. Any file is accepted; the kind is
// derived from the MIME type. A blank caption falls back to DefaultCaption.
func (f *Factory) ComposeFromFile(author models.User, file File, caption string) (models.Message, error) {
	kind := ClassifyMIME(file.MimeType)

	content := strings.TrimSpace(caption)
	if content == "" {
		content = DefaultCaption(kind)
	}

	now := f.now()
	return models.Message{
		ID:         f.newID(now),
		AuthorID:   author.ID,
		AuthorName: author.Username,
		Kind:       kind,
		Content:    content,
		Timestamp:  now,
		Attachment: &models.Attachment{
			URL:      file.URL,
			FileName: file.Name,
			FileSize: file.Size,
			MimeType: file.MimeType,
		},
	}, nil
}

func (f *Factory) newID(now time.Time) string {
	return fmt.Sprintf("msg-%d-%s", now.UnixMilli(), f.newSuffix())
}

// ClassifyMIME maps a MIME type to a message kind.
func ClassifyMIME(mimeType string) models.MessageKind {
	switch {
	case strings.HasPrefix(mimeType, "image/"):
		return models.MessageKindImage
	case strings.HasPrefix(mimeType, "video/"):
		return models.MessageKindVideo
	case mimeType == "application/pdf":
		return models.MessageKindPDF
	default:
		return models.MessageKindFile
	}
}

// DefaultCaption is the placeholder content of an attachment message sent without a caption.
func DefaultCaption(kind models.MessageKind) string {
	switch kind {
	case models.MessageKindImage:
		return "Shared an image"
	case models.MessageKindVideo:
		return "Shared a video"
	case models.MessageKindPDF:
		return "Shared a PDF"
	case models.MessageKindFile:
		return "Shared a file"
	default:
		return ""
	}
}
