package store

import (
	"fmt"
	"strings"
	"sync"

	"perepiska/internal/models"
)

// Store holds the loaded conversations and the current selection.
// It is the only owner of conversation and message state; readers get copies.
type Store struct {
	conversations []*models.Conversation
	index         map[string]int
	selected      string

	// AppendCallback is called after a message was appended, outside of the lock.
	AppendCallback func(conversationID string, message models.Message)

	mux sync.RWMutex
}

type Config struct {
	AppendCallback func(conversationID string, message models.Message)
}

func New(config Config) *Store {
	return &Store{
		index:          make(map[string]int),
		AppendCallback: config.AppendCallback,
	}
}

// Load replaces the full conversation set and clears the selection.
func (s *Store) Load(conversations []models.Conversation) {
	s.mux.Lock()
	defer s.mux.Unlock()

	s.conversations = make([]*models.Conversation, 0, len(conversations))
	s.index = make(map[string]int, len(conversations))
	s.selected = ""

	for _, c := range conversations {
		c := c.Clone()
		s.index[c.ID] = len(s.conversations)
		s.conversations = append(s.conversations, &c)
	}
}

// List returns all conversations in load order.
func (s *Store) List() []models.Conversation {
	s.mux.RLock()
	defer s.mux.RUnlock()

	result := make([]models.Conversation, len(s.conversations))
	for i, c := range s.conversations {
		result[i] = c.Clone()
	}
	return result
}

func (s *Store) Get(id string) (models.Conversation, error) {
	s.mux.RLock()
	defer s.mux.RUnlock()

	i, ok := s.index[id]
	if !ok {
		return models.Conversation{}, fmt.Errorf("conversation %q: %w", id, models.ErrNotFound)
	}
	return s.conversations[i].Clone(), nil
}

// Select makes the conversation with the given id the target of AppendMessage.
// On error the previous selection is kept.
func (s *Store) Select(id string) (models.Conversation, error) {
	s.mux.Lock()
	defer s.mux.Unlock()

	i, ok := s.index[id]
	if !ok {
		return models.Conversation{}, fmt.Errorf("conversation %q: %w", id, models.ErrNotFound)
	}
	s.selected = id
	return s.conversations[i].Clone(), nil
}

func (s *Store) Selected() (models.Conversation, bool) {
	s.mux.RLock()
	defer s.mux.RUnlock()

	if s.selected == "" {
		return models.Conversation{}, false
	}
	return s.conversations[s.index[s.selected]].Clone(), true
}

// AppendMessage adds the message to the end of the selected conversation.
func (s *Store) AppendMessage(message models.Message) error {
	s.mux.Lock()
	if s.selected == "" {
		s.mux.Unlock()
		return models.ErrNoActiveConversation
	}
	return s.appendLocked(s.selected, message)
}

// AppendMessageTo adds the message to the conversation with the given id,
// regardless of the current selection. Used when the target was fixed before
// a long running operation such as an upload.
func (s *Store) AppendMessageTo(id string, message models.Message) error {
	s.mux.Lock()
	if _, ok := s.index[id]; !ok {
		s.mux.Unlock()
		return fmt.Errorf("conversation %q: %w", id, models.ErrNotFound)
	}
	return s.appendLocked(id, message)
}

// appendLocked must be called with the write lock held; it releases it.
func (s *Store) appendLocked(id string, message models.Message) error {
	c := s.conversations[s.index[id]]
	if c.Messages == nil {
		c.Messages = []models.Message{}
	}
	message = message.Clone()
	c.Messages = append(c.Messages, message)
	callback := s.AppendCallback
	s.mux.Unlock()

	if callback != nil {
		callback(id, message.Clone())
	}
	return nil
}

// Filter returns ids of conversations whose name or last message preview contains
// term, ignoring case. An empty term matches every conversation.
func (s *Store) Filter(term string) []string {
	s.mux.RLock()
	defer s.mux.RUnlock()

	term = strings.ToLower(term)
	ids := make([]string, 0, len(s.conversations))
	for _, c := range s.conversations {
		if strings.Contains(strings.ToLower(c.Name), term) ||
			strings.Contains(strings.ToLower(c.LastMessagePreview), term) {
			ids = append(ids, c.ID)
		}
	}
	return ids
}
