package ws

import (
	"testing"
	"time"

	"perepiska/internal/models"
)

func TestHub_Lifecycle(t *testing.T) {
	h := NewHub()

	id1, ch1 := h.Join()
	id2, ch2 := h.Join()
	if ch1 == nil || ch2 == nil {
		t.Fatal("Join returned nil channel")
	}
	if id1 == id2 {
		t.Fatal("Join returned duplicate viewer ids")
	}
	if h.Count() != 2 {
		t.Errorf("expected 2 viewers, got %d", h.Count())
	}

	h.Broadcast(models.ServerMessage{Type: models.ServerMessageTypeUpdate, ChatID: "conv-1"})

	for _, ch := range []chan models.ServerMessage{ch1, ch2} {
		select {
		case msg := <-ch:
			if msg.ChatID != "conv-1" {
				t.Errorf("Expected ChatID conv-1, got %s", msg.ChatID)
			}
		case <-time.After(time.Second):
			t.Fatal("Timeout waiting for broadcast")
		}
	}

	h.Leave(id1)
	if _, ok := <-ch1; ok {
		t.Error("channel of a viewer that left should be closed")
	}
	if h.Count() != 1 {
		t.Errorf("expected 1 viewer, got %d", h.Count())
	}

	// Leaving twice is harmless
	h.Leave(id1)
}

func TestHub_SlowViewerDoesNotBlock(t *testing.T) {
	h := NewHub()
	_, ch := h.Join()

	done := make(chan struct{})
	go func() {
		for i := 0; i < 500; i++ {
			h.Broadcast(models.ServerMessage{Type: models.ServerMessageTypeUpdate})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Broadcast blocked on a full viewer channel")
	}

	if len(ch) != cap(ch) {
		t.Errorf("expected full buffer, got %d/%d", len(ch), cap(ch))
	}
}
