package loader

// Wire format of the startup data document.

type document struct {
	Conversations []conversation `json:"conversations"`
}

type conversation struct {
	ID              string    `json:"id"`
	Name            string    `json:"name"`
	Type            string    `json:"type"`
	Avatar          string    `json:"avatar"`
	Participants    []string  `json:"participants"`
	LastMessage     string    `json:"last_message"`
	LastMessageTime string    `json:"last_message_time"`
	Messages        []message `json:"messages"`
}

type message struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	Username    string    `json:"username"`
	Content     string    `json:"content"`
	MessageType string    `json:"message_type"`
	Timestamp   string    `json:"timestamp"`
	FileData    *fileData `json:"file_data"`
}

type fileData struct {
	URL      string `json:"url"`
	FileName string `json:"file_name"`
	FileSize int64  `json:"file_size"`
	MimeType string `json:"mime_type"`
}
