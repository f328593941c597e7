package stubs

import (
	"perepiska/internal/models"
	"time"
)

// CurrentUser is the local user for the whole session.
var CurrentUser = models.User{ID: "user1", Username: "You"}

// Fallback returns the demo data used when the data source can't be loaded.
func Fallback(now time.Time) []models.Conversation {
	return []models.Conversation{
		{
			ID:                 "conv-fallback",
			Name:               "Demo Chat",
			Kind:               models.ConversationKindGroup,
			LastMessagePreview: "Welcome to the demo!",
			LastMessageTime:    now,
			Messages: []models.Message{
				{
					ID:         "msg-1",
					AuthorID:   "user2",
					AuthorName: "Bot",
					Kind:       models.MessageKindText,
					Content:    "Welcome to the chat application! 🎉",
					Timestamp:  now,
				},
			},
		},
	}
}
