package chat

import "time"

// Message is a single message exchanged in a conversation. Messages are
// written by the chat service; this service only reads them off the
// message-created feed and never persists them.
type Message struct {
	ID             string     `json:"id"`
	ConversationID string     `json:"conversationId"`
	SenderID       string     `json:"senderId"`
	Body           string     `json:"body"`
	CreatedAt      *time.Time `json:"createdAt"`
}
