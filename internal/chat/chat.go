package chat

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"time"

	"perepiska/internal/content"
	"perepiska/internal/filestore"
	"perepiska/internal/message"
	"perepiska/internal/metrics"
	"perepiska/internal/models"
	"perepiska/internal/store"

	"github.com/google/uuid"
	"github.com/h2non/filetype"
)

const sniffLen = 261

// FileIndex keeps metadata of uploaded blobs.
type FileIndex interface {
	UpsertFile(info models.FileInfo) error
	GetFile(id string) (models.FileInfo, error)
	ListFiles() ([]models.FileInfo, error)
}

type Broadcaster interface {
	Broadcast(msg models.ServerMessage)
}

// Upload is a file received from the view.
type Upload struct {
	Name     string
	MimeType string
	Caption  string
	Body     io.Reader
}

// ConversationEntry is a conversation with its visibility under the current filter.
type ConversationEntry struct {
	models.Conversation
	Visible bool `json:"visible"`
}

// Service is the view's entry point into the chat state: every user action goes
// through the message factory into the store, and every append is announced to open views.
type Service struct {
	user    models.User
	store   *store.Store
	factory *message.Factory
	blobs   filestore.FileStore
	files   FileIndex
	hub     Broadcaster
	metrics *metrics.Metrics
	now     func() time.Time
}

type Config struct {
	User    models.User
	Store   *store.Store
	Factory *message.Factory
	Blobs   filestore.FileStore
	Files   FileIndex
	Hub     Broadcaster
	Metrics *metrics.Metrics
	// Now defaults to time.Now.
	Now func() time.Time
}

func New(config Config) *Service {
	s := &Service{
		user:    config.User,
		store:   config.Store,
		factory: config.Factory,
		blobs:   config.Blobs,
		files:   config.Files,
		hub:     config.Hub,
		metrics: config.Metrics,
		now:     config.Now,
	}
	if s.now == nil {
		s.now = time.Now
	}
	s.store.AppendCallback = s.handleAppend
	return s
}

func (s *Service) User() models.User {
	return s.user
}

// Conversations lists all conversations, marking those matching term as visible.
func (s *Service) Conversations(term string) []ConversationEntry {
	visible := make(map[string]bool)
	for _, id := range s.store.Filter(term) {
		visible[id] = true
	}

	list := s.store.List()
	result := make([]ConversationEntry, len(list))
	for i, c := range list {
		result[i] = ConversationEntry{Conversation: c, Visible: visible[c.ID]}
	}
	return result
}

func (s *Service) Select(id string) (models.Conversation, error) {
	return s.store.Select(id)
}

func (s *Service) Selected() (models.Conversation, bool) {
	return s.store.Selected()
}

// SendText appends a text message from the current user to the selected conversation.
func (s *Service) SendText(text string) (models.Message, error) {
	msg, err := s.factory.ComposeText(s.user, text)
	if err != nil {
		return models.Message{}, err
	}
	if err := s.store.AppendMessage(msg); err != nil {
		return models.Message{}, err
	}
	return msg, nil
}

// SendFile stores the upload for the session and appends an attachment message to
// the selected conversation.
func (s *Service) SendFile(ctx context.Context, upload Upload) (models.Message, error) {
	selected, ok := s.store.Selected()
	if !ok {
		return models.Message{}, models.ErrNoActiveConversation
	}

	head := make([]byte, sniffLen)
	n, err := io.ReadFull(upload.Body, head)
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		return models.Message{}, fmt.Errorf("failed to read upload: %w", err)
	}
	head = head[:n]

	mimeType := upload.MimeType
	if mimeType == "" || mimeType == "application/octet-stream" {
		if kind, err := filetype.Match(head); err == nil && kind != filetype.Unknown {
			mimeType = kind.MIME.Value
		}
	}
	if err := ctx.Err(); err != nil {
		return models.Message{}, err
	}

	hash, size, err := s.blobs.Save(io.MultiReader(bytes.NewReader(head), upload.Body))
	if err != nil {
		return models.Message{}, fmt.Errorf("failed to store upload: %w", err)
	}

	info := models.FileInfo{
		ID:             uuid.NewString(),
		Hash:           hash,
		Name:           content.CleanFileName(upload.Name),
		MimeType:       mimeType,
		Size:           size,
		CreatedAt:      s.now(),
		ConversationID: selected.ID,
	}
	if err := s.files.UpsertFile(info); err != nil {
		return models.Message{}, fmt.Errorf("failed to store file metadata: %w", err)
	}
	s.metrics.UploadBytes.Add(float64(size))

	msg, err := s.factory.ComposeFromFile(s.user, message.File{
		Name:     info.Name,
		Size:     info.Size,
		MimeType: info.MimeType,
		URL:      FileURL(info.ID),
	}, upload.Caption)
	if err != nil {
		return models.Message{}, err
	}
	// The upload belongs to the conversation selected when it started, even if
	// the view switched conversations meanwhile.
	if err := s.store.AppendMessageTo(selected.ID, msg); err != nil {
		return models.Message{}, err
	}
	return msg, nil
}

// OpenFile returns the metadata and content of an uploaded file.
func (s *Service) OpenFile(id string) (models.FileInfo, io.ReadCloser, error) {
	info, err := s.files.GetFile(id)
	if err != nil {
		return models.FileInfo{}, nil, err
	}
	r, err := s.blobs.Get(info.Hash)
	if err != nil {
		return models.FileInfo{}, nil, err
	}
	return info, r, nil
}

func (s *Service) Files() ([]models.FileInfo, error) {
	return s.files.ListFiles()
}

func (s *Service) handleAppend(conversationID string, msg models.Message) {
	s.metrics.MessagesAppended.WithLabelValues(string(msg.Kind)).Inc()
	s.hub.Broadcast(models.ServerMessage{
		Type:   models.ServerMessageTypeUpdate,
		ChatID: conversationID,
	})
}

// FileURL is the address the view uses to fetch an uploaded file.
func FileURL(id string) string {
	return "/api/files/" + id
}
