package chat

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/jinzhu/gorm"
	"github.com/jinzhu/gorm/dialects/postgres"
)

// ErrNotFound is returned by stores when a record does not exist.
var ErrNotFound = errors.New("record not found")

// Conversation is the struct for managing database access to chats between
// two or more participants
type Conversation struct {
	gorm.Model
	ConversationID string         `gorm:"unique_index" json:"conversationId"`
	Participants   postgres.Jsonb `json:"participants"`
}

// ParticipantIDs unmarshals the jsonb participant list
func (c *Conversation) ParticipantIDs() []string {
	var ids []string
	_ = json.Unmarshal(c.Participants.RawMessage, &ids)
	return ids
}

// SetParticipantIDs marshals participant IDs into the jsonb column
func (c *Conversation) SetParticipantIDs(ids []string) {
	idsJSON, _ := json.Marshal(ids)
	c.Participants = postgres.Jsonb{RawMessage: json.RawMessage(idsJSON)}
}

// ConversationStore reads conversations from the database
type ConversationStore struct {
	DB *gorm.DB
}

// NewConversationStore creates a ConversationStore object
func NewConversationStore(db *gorm.DB) *ConversationStore {
	return &ConversationStore{DB: db}
}

// Get returns the conversation with the given external ID, or ErrNotFound
func (s *ConversationStore) Get(_ context.Context, conversationID string) (*Conversation, error) {
	var conversation Conversation
	res := s.DB.Where("conversation_id = ?", conversationID).First(&conversation)
	if res.RecordNotFound() {
		return nil, ErrNotFound
	}
	if res.Error != nil {
		return nil, res.Error
	}
	return &conversation, nil
}
