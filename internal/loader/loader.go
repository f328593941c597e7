package loader

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"perepiska/internal/content"
	"perepiska/internal/models"
	"perepiska/internal/stubs"
)

// Placeholder attachments for media messages that come without file data.
var placeholders = map[models.MessageKind]models.Attachment{
	models.MessageKindImage: {
		URL:      "https://images.unsplash.com/photo-1555066931-4365d14bab8c?w=400",
		FileName: "Image",
		MimeType: "image/jpeg",
	},
	models.MessageKindVideo: {
		URL:      "https://commondatastorage.googleapis.com/gtv-videos-bucket/sample/BigBuckBunny.mp4",
		FileName: "BigBuckBunny.mp4",
		MimeType: "video/mp4",
	},
	models.MessageKindPDF: {
		URL:      "#",
		FileName: "document.pdf",
		FileSize: 2048576,
		MimeType: "application/pdf",
	},
}

// Target receives the loaded conversations.
type Target interface {
	Load(conversations []models.Conversation)
}

// Populate loads conversations from source into target. Any failure is logged and
// replaced by the fallback demo data. It reports whether the fallback was used.
func Populate(ctx context.Context, target Target, source string, now time.Time) bool {
	conversations, err := Read(ctx, source)
	if err != nil {
		log.Printf("Failed to load conversations from %s, using fallback data: %v", source, err)
		target.Load(stubs.Fallback(now))
		return true
	}

	log.Printf("Loaded %d conversations from %s", len(conversations), source)
	target.Load(conversations)
	return false
}

// Read fetches and validates the data document. source is either an http(s) URL or
// a file path. All errors wrap models.ErrLoadFailure.
func Read(ctx context.Context, source string) ([]models.Conversation, error) {
	r, err := open(ctx, source)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", models.ErrLoadFailure, err)
	}
	defer func() { _ = r.Close() }()

	conversations, err := Decode(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", models.ErrLoadFailure, err)
	}
	return conversations, nil
}

func open(ctx context.Context, source string) (io.ReadCloser, error) {
	if !strings.HasPrefix(source, "http://") && !strings.HasPrefix(source, "https://") {
		f, err := os.Open(source)
		if err != nil {
			return nil, fmt.Errorf("failed to open data file: %w", err)
		}
		return f, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, source, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch data: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_ = resp.Body.Close()
		return nil, fmt.Errorf("HTTP error! status: %d", resp.StatusCode)
	}
	return resp.Body, nil
}

// Decode parses the data document and normalizes it into the domain model.
func Decode(r io.Reader) ([]models.Conversation, error) {
	dec := json.NewDecoder(r)
	var doc *document
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to decode data: %w", err)
	}
	if doc == nil {
		return nil, errors.New("data document is null")
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, errors.New("unexpected data after document")
	}

	result := make([]models.Conversation, 0, len(doc.Conversations))
	seen := make(map[string]bool, len(doc.Conversations))
	for i, c := range doc.Conversations {
		conv, err := normalizeConversation(c)
		if err != nil {
			return nil, fmt.Errorf("conversation %d: %w", i, err)
		}
		if seen[conv.ID] {
			return nil, fmt.Errorf("conversation %d: duplicate id %q", i, conv.ID)
		}
		seen[conv.ID] = true
		result = append(result, conv)
	}
	return result, nil
}

func normalizeConversation(c conversation) (models.Conversation, error) {
	if c.ID == "" {
		return models.Conversation{}, errors.New("missing id")
	}
	name := strings.TrimSpace(content.StripTags(c.Name))
	if name == "" {
		return models.Conversation{}, fmt.Errorf("%s: missing name", c.ID)
	}

	kind := models.ConversationKindGroup
	if c.Type == string(models.ConversationKindPrivate) {
		kind = models.ConversationKindPrivate
	}

	conv := models.Conversation{
		ID:                 c.ID,
		Name:               name,
		Kind:               kind,
		Avatar:             content.StripTags(c.Avatar),
		Participants:       c.Participants,
		LastMessagePreview: content.StripTags(c.LastMessage),
		Messages:           make([]models.Message, 0, len(c.Messages)),
	}

	if c.LastMessageTime != "" {
		ts, err := parseTime(c.LastMessageTime)
		if err != nil {
			return models.Conversation{}, fmt.Errorf("%s: last_message_time: %w", c.ID, err)
		}
		conv.LastMessageTime = ts
	}

	for _, m := range c.Messages {
		msg, err := normalizeMessage(m)
		if err != nil {
			return models.Conversation{}, fmt.Errorf("%s: message %s: %w", c.ID, m.ID, err)
		}
		conv.Messages = append(conv.Messages, msg)
	}
	return conv, nil
}

func normalizeMessage(m message) (models.Message, error) {
	ts, err := parseTime(m.Timestamp)
	if err != nil {
		return models.Message{}, err
	}

	kind := models.MessageKind(m.MessageType)
	if kind == "" {
		kind = models.MessageKindText
	}

	msg := models.Message{
		ID:         m.ID,
		AuthorID:   m.UserID,
		AuthorName: m.Username,
		Kind:       kind,
		Content:    m.Content,
		Timestamp:  ts,
	}

	if kind == models.MessageKindText {
		return msg, nil
	}

	switch {
	case m.FileData != nil:
		msg.Attachment = &models.Attachment{
			URL:      m.FileData.URL,
			FileName: m.FileData.FileName,
			FileSize: m.FileData.FileSize,
			MimeType: m.FileData.MimeType,
		}
	default:
		placeholder, ok := placeholders[kind]
		if !ok {
			placeholder = models.Attachment{URL: "#", FileName: "file"}
		}
		msg.Attachment = &placeholder
	}
	return msg, nil
}

// zonelessLayout is accepted for timestamps written without an offset; they are read as UTC.
const zonelessLayout = "2006-01-02T15:04:05.999999999"

func parseTime(s string) (time.Time, error) {
	ts, err := time.Parse(time.RFC3339, s)
	if err == nil {
		return ts, nil
	}
	if zts, zerr := time.Parse(zonelessLayout, s); zerr == nil {
		return zts, nil
	}
	return time.Time{}, fmt.Errorf("invalid timestamp %q: %w", s, err)
}
