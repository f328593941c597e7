package models

import (
	"errors"
	"time"
)

var (
	ErrNotFound             = errors.New("not found")
	ErrNoActiveConversation = errors.New("no active conversation")
	ErrEmptyContent         = errors.New("empty content")
	ErrLoadFailure          = errors.New("load failure")
)

// User is the local chat participant.
type User struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

type ConversationKind string

const (
	ConversationKindPrivate ConversationKind = "private"
	ConversationKindGroup   ConversationKind = "group"
)

// Conversation represents a named thread with its message history.
type Conversation struct {
	ID                 string           `json:"id"`
	Name               string           `json:"name"`
	Kind               ConversationKind `json:"kind"`
	Avatar             string           `json:"avatar,omitempty"`
	Participants       []string         `json:"participants,omitempty"`
	LastMessagePreview string           `json:"lastMessagePreview,omitempty"`
	LastMessageTime    time.Time        `json:"lastMessageTime,omitzero"`
	Messages           []Message        `json:"messages"`
}

// Clone returns a deep copy so callers can't reach into store-owned slices.
func (c Conversation) Clone() Conversation {
	out := c
	if c.Participants != nil {
		out.Participants = append([]string(nil), c.Participants...)
	}
	if c.Messages != nil {
		out.Messages = make([]Message, len(c.Messages))
		for i, m := range c.Messages {
			out.Messages[i] = m.Clone()
		}
	}
	return out
}

type MessageKind string

const (
	MessageKindText  MessageKind = "text"
	MessageKindImage MessageKind = "image"
	MessageKindVideo MessageKind = "video"
	MessageKindPDF   MessageKind = "pdf"
	MessageKindFile  MessageKind = "file"
)

// Known reports whether k is one of the defined message kinds.
func (k MessageKind) Known() bool {
	switch k {
	case MessageKindText, MessageKindImage, MessageKindVideo, MessageKindPDF, MessageKindFile:
		return true
	}
	return false
}

// Message represents a chat message. Attachment is set iff Kind is not text.
type Message struct {
	ID         string      `json:"id"`
	AuthorID   string      `json:"authorId"`
	AuthorName string      `json:"authorName"`
	Kind       MessageKind `json:"kind"`
	Content    string      `json:"content"`
	Timestamp  time.Time   `json:"timestamp"`
	Attachment *Attachment `json:"attachment,omitempty"`
}

func (m Message) Clone() Message {
	if m.Attachment != nil {
		a := *m.Attachment
		m.Attachment = &a
	}
	return m
}

type Attachment struct {
	URL      string `json:"url"`
	FileName string `json:"fileName"`
	FileSize int64  `json:"fileSize"`
	MimeType string `json:"mimeType"`
}

// FileInfo describes an uploaded attachment blob held for the session.
type FileInfo struct {
	ID             string    `json:"id"`
	Hash           string    `json:"hash"`
	Name           string    `json:"name"`
	MimeType       string    `json:"mimeType"`
	Size           int64     `json:"size"`
	CreatedAt      time.Time `json:"createdAt"`
	ConversationID string    `json:"conversationId"`
}

// ClientMessage is sent by the view over the websocket.
type ClientMessage struct {
	Type    ClientMessageType `json:"type"`
	ChatID  string            `json:"chatId,omitempty"`
	Content string            `json:"content,omitempty"`
}

// ServerMessage tells the view what to redraw.
type ServerMessage struct {
	Type    ServerMessageType `json:"type"`
	ChatID  string            `json:"chatId,omitempty"`
	Message string            `json:"message,omitempty"`
}

type ClientMessageType string

const (
	ClientMessageTypeSelect ClientMessageType = "select"
	ClientMessageTypeSend   ClientMessageType = "send"
)

type ServerMessageType string

const (
	ServerMessageTypeUpdate ServerMessageType = "update"
	ServerMessageTypeSelect ServerMessageType = "select"
	ServerMessageTypeError  ServerMessageType = "error"
)

type APIResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}
