package ws

import (
	"perepiska/internal/models"
	"sync"

	"github.com/google/uuid"
)

// Hub fans out redraw events to every open view.
type Hub struct {
	// Map of viewerID -> event channel
	viewers map[string]chan models.ServerMessage

	mu sync.RWMutex
}

func NewHub() *Hub {
	return &Hub{
		viewers: make(map[string]chan models.ServerMessage),
	}
}

func (h *Hub) Join() (string, chan models.ServerMessage) {
	h.mu.Lock()
	defer h.mu.Unlock()

	id := uuid.NewString()
	ch := make(chan models.ServerMessage, 100)
	h.viewers[id] = ch
	return id, ch
}

func (h *Hub) Leave(viewerID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if ch, ok := h.viewers[viewerID]; ok {
		close(ch)
		delete(h.viewers, viewerID)
	}
}

// Broadcast sends msg to all viewers. Viewers with a full buffer miss the event.
func (h *Hub) Broadcast(msg models.ServerMessage) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, ch := range h.viewers {
		select {
		case ch <- msg:
		default:
		}
	}
}

func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.viewers)
}
