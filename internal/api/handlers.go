package api

import (
	"encoding/json"
	"errors"
	"html/template"
	"io"
	"log"
	"mime"
	"net/http"

	"perepiska/internal/chat"
	"perepiska/internal/message"
	"perepiska/internal/models"
	"perepiska/internal/render"
)

const maxUploadMemory = 32 << 20

type API struct {
	chat     *chat.Service
	renderer *render.Renderer
	title    string
}

func New(chat *chat.Service, renderer *render.Renderer, title string) *API {
	return &API{chat: chat, renderer: renderer, title: title}
}

// IndexHandler renders the full application page.
func (a *API) IndexHandler(w http.ResponseWriter, r *http.Request) {
	conversations := a.chat.Conversations("")
	list := make([]models.Conversation, len(conversations))
	for i, c := range conversations {
		list[i] = c.Conversation
	}

	var thread template.HTML
	selected, ok := a.chat.Selected()
	if ok {
		var err error
		if thread, err = a.renderer.Thread(selected); err != nil {
			a.writeError(w, err)
			return
		}
	}

	items, err := a.renderer.Conversations(list, selected.ID, nil)
	if err != nil {
		a.writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := a.renderer.Page(w, render.PageData{
		Title:         a.title,
		User:          a.chat.User(),
		Conversations: items,
		Thread:        thread,
	}); err != nil {
		log.Printf("failed to render page: %v", err)
	}
}

// ConversationsHandler returns all conversations with their visibility for the
// search term in the "q" query parameter.
func (a *API) ConversationsHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, a.chat.Conversations(r.URL.Query().Get("q")))
}

// SelectHandler selects a conversation and returns its thread fragment.
func (a *API) SelectHandler(w http.ResponseWriter, r *http.Request) {
	c, err := a.chat.Select(r.PathValue("id"))
	if err != nil {
		a.writeError(w, err)
		return
	}
	a.writeThread(w, c)
}

// ThreadHandler returns the thread fragment of the selected conversation.
func (a *API) ThreadHandler(w http.ResponseWriter, r *http.Request) {
	c, ok := a.chat.Selected()
	if !ok {
		a.writeError(w, models.ErrNoActiveConversation)
		return
	}
	a.writeThread(w, c)
}

func (a *API) SendMessageHandler(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Content string `json:"content"`
	}

	if isJSON(r) {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}
	} else {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Failed to parse form", http.StatusBadRequest)
			return
		}
		req.Content = r.FormValue("content")
	}

	msg, err := a.chat.SendText(req.Content)
	if err != nil {
		a.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, msg)
}

func (a *API) UploadHandler(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		http.Error(w, "Failed to parse upload", http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "Missing file", http.StatusBadRequest)
		return
	}
	defer func() { _ = file.Close() }()

	msg, err := a.chat.SendFile(r.Context(), chat.Upload{
		Name:     header.Filename,
		MimeType: header.Header.Get("Content-Type"),
		Caption:  r.FormValue("caption"),
		Body:     file,
	})
	if err != nil {
		a.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, msg)
}

// FileHandler serves an uploaded attachment.
func (a *API) FileHandler(w http.ResponseWriter, r *http.Request) {
	info, f, err := a.chat.OpenFile(r.PathValue("id"))
	if err != nil {
		a.writeError(w, err)
		return
	}
	defer func() { _ = f.Close() }()

	disposition := "inline"
	if message.ClassifyMIME(info.MimeType) == models.MessageKindFile {
		disposition = "attachment"
	}

	contentType := info.MimeType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", mime.FormatMediaType(disposition, map[string]string{"filename": info.Name}))
	w.Header().Set("Content-Security-Policy", "sandbox")
	w.Header().Set("X-Content-Type-Options", "nosniff")

	if rs, ok := f.(io.ReadSeeker); ok {
		http.ServeContent(w, r, info.Name, info.CreatedAt, rs)
		return
	}
	if _, err := io.Copy(w, f); err != nil {
		log.Printf("failed to send file %s: %v", info.ID, err)
	}
}

func isJSON(r *http.Request) bool {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return err == nil && mediaType == "application/json"
}

func (a *API) writeThread(w http.ResponseWriter, c models.Conversation) {
	h, err := a.renderer.Thread(c)
	if err != nil {
		a.writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = io.WriteString(w, string(h))
}

func (a *API) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, models.ErrNotFound):
		writeJSON(w, http.StatusNotFound, models.APIResponse{Message: "Not found"})
	case errors.Is(err, models.ErrNoActiveConversation):
		writeJSON(w, http.StatusConflict, models.APIResponse{Message: "No conversation selected"})
	case errors.Is(err, models.ErrEmptyContent):
		writeJSON(w, http.StatusBadRequest, models.APIResponse{Message: "Message is empty"})
	default:
		log.Printf("request failed: %v", err)
		writeJSON(w, http.StatusInternalServerError, models.APIResponse{Message: "Internal error"})
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("failed to encode response: %v", err)
	}
}
