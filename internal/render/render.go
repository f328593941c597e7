package render

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"
	"time"
	"unicode/utf8"

	"perepiska/internal/message"
	"perepiska/internal/models"
	"perepiska/internal/timefmt"
)

//go:embed templates/*.html
var templateFS embed.FS

// Renderer turns conversations and messages into HTML fragments for the view.
type Renderer struct {
	tmpl        *template.Template
	currentUser models.User
	now         func() time.Time
}

type Config struct {
	CurrentUser models.User
	// Now defaults to time.Now.
	Now func() time.Time
}

func New(config Config) (*Renderer, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}

	now := config.Now
	if now == nil {
		now = time.Now
	}

	return &Renderer{
		tmpl:        tmpl,
		currentUser: config.CurrentUser,
		now:         now,
	}, nil
}

type messageData struct {
	Message    models.Message
	Own        bool
	ShowAuthor bool
	Caption    string
	Size       string
	Time       string
	Body       template.HTML
}

// Message renders a single message bubble. The body is chosen by message kind;
// unknown kinds and media messages without an attachment fall back to plain text.
func (r *Renderer) Message(kind models.ConversationKind, m models.Message) (template.HTML, error) {
	own := m.AuthorID == r.currentUser.ID
	data := messageData{
		Message:    m,
		Own:        own,
		ShowAuthor: !own && kind == models.ConversationKindGroup,
		Time:       timefmt.RelativeTime(m.Timestamp, r.now()),
	}

	body := "kind-text"
	if m.Attachment != nil && m.Kind.Known() {
		switch m.Kind {
		case models.MessageKindText:
		case models.MessageKindImage:
			body = "kind-image"
		case models.MessageKindVideo:
			body = "kind-video"
		case models.MessageKindPDF:
			body = "kind-pdf"
		case models.MessageKindFile:
			body = "kind-file"
		}
		data.Size = timefmt.FileSize(m.Attachment.FileSize)
		if m.Content != message.DefaultCaption(m.Kind) {
			data.Caption = m.Content
		}
	}

	b, err := r.execute(body, data)
	if err != nil {
		return "", err
	}
	data.Body = b

	return r.execute("message", data)
}

type threadData struct {
	ID       string
	Name     string
	Avatar   string
	Status   string
	Messages []template.HTML
}

// Thread renders the header and all messages of a conversation.
func (r *Renderer) Thread(c models.Conversation) (template.HTML, error) {
	data := threadData{
		ID:       c.ID,
		Name:     c.Name,
		Avatar:   Avatar(c),
		Status:   Status(c),
		Messages: make([]template.HTML, 0, len(c.Messages)),
	}

	for _, m := range c.Messages {
		h, err := r.Message(c.Kind, m)
		if err != nil {
			return "", fmt.Errorf("message %s: %w", m.ID, err)
		}
		data.Messages = append(data.Messages, h)
	}

	return r.execute("thread", data)
}

type conversationItem struct {
	ID      string
	Name    string
	Avatar  string
	Preview string
	Time    string
	Active  bool
	Visible bool
}

// Conversations renders the conversation list. visible limits which items are shown;
// nil shows all.
func (r *Renderer) Conversations(conversations []models.Conversation, selectedID string, visible []string) (template.HTML, error) {
	var show map[string]bool
	if visible != nil {
		show = make(map[string]bool, len(visible))
		for _, id := range visible {
			show[id] = true
		}
	}

	now := r.now()
	items := make([]conversationItem, 0, len(conversations))
	for _, c := range conversations {
		preview := c.LastMessagePreview
		if preview == "" {
			preview = "No messages yet"
		}
		lastTime := c.LastMessageTime
		if lastTime.IsZero() {
			lastTime = now
		}
		items = append(items, conversationItem{
			ID:      c.ID,
			Name:    c.Name,
			Avatar:  Avatar(c),
			Preview: preview,
			Time:    timefmt.RelativeTime(lastTime, now),
			Active:  c.ID == selectedID,
			Visible: show == nil || show[c.ID],
		})
	}

	return r.execute("conversations", struct{ Items []conversationItem }{items})
}

type PageData struct {
	Title         string
	User          models.User
	Conversations template.HTML
	Thread        template.HTML
}

// Page writes the full application page.
func (r *Renderer) Page(w io.Writer, data PageData) error {
	if data.User == (models.User{}) {
		data.User = r.currentUser
	}
	return r.tmpl.ExecuteTemplate(w, "page", data)
}

func (r *Renderer) execute(name string, data any) (template.HTML, error) {
	var buf bytes.Buffer
	if err := r.tmpl.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("failed to render %s: %w", name, err)
	}
	return template.HTML(buf.String()), nil
}

// Avatar is the conversation avatar or the first letter of its name.
func Avatar(c models.Conversation) string {
	if c.Avatar != "" {
		return c.Avatar
	}
	r, _ := utf8.DecodeRuneInString(c.Name)
	if r == utf8.RuneError {
		return "?"
	}
	return string(r)
}

// Status is the thread header subtitle.
func Status(c models.Conversation) string {
	if c.Kind == models.ConversationKindPrivate {
		return "Online"
	}
	n := len(c.Participants)
	if n == 0 {
		n = 1
	}
	return fmt.Sprintf("%d participants", n)
}
