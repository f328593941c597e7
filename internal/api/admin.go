package api

import (
	"net/http"

	"perepiska/internal/chat"
	"perepiska/internal/models"
)

type AdminHandler struct {
	chat *chat.Service
}

func NewAdminHandler(chat *chat.Service) *AdminHandler {
	return &AdminHandler{chat: chat}
}

type HealthResponse struct {
	Status        string `json:"status"`
	Conversations int    `json:"conversations"`
	Selected      string `json:"selected,omitempty"`
}

func (h *AdminHandler) HealthHandler(w http.ResponseWriter, r *http.Request) {
	resp := HealthResponse{
		Status:        "ok",
		Conversations: len(h.chat.Conversations("")),
	}
	if c, ok := h.chat.Selected(); ok {
		resp.Selected = c.ID
	}
	writeJSON(w, http.StatusOK, resp)
}

// FilesHandler lists attachments uploaded during this session.
func (h *AdminHandler) FilesHandler(w http.ResponseWriter, r *http.Request) {
	files, err := h.chat.Files()
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, models.APIResponse{
			Success: false,
			Message: "Failed to list files",
		})
		return
	}
	if files == nil {
		files = []models.FileInfo{}
	}
	writeJSON(w, http.StatusOK, files)
}
