package model

import (
	"time"

	"github.com/google/uuid"
)

type ChatRole string

const (
	ChatRoleUser      ChatRole = "user"
	ChatRoleAssistant ChatRole = "assistant"
	ChatRoleSystem    ChatRole = "system"
)

type ChatMessage struct {
	Role    ChatRole `json:"role" binding:"required,oneof=user assistant"`
	Content string   `json:"content" binding:"required"`
}

type ChatRequest struct {
	ConversationID string        `json:"conversation_id"`
	Messages       []ChatMessage `json:"messages" binding:"required,min=1,dive"`
}

// Conversation groups a session's stored transcript for the history sidebar.
type Conversation struct {
	ID        uuid.UUID `db:"id" json:"id"`
	Title     string    `db:"title" json:"title"`
	Preview   string    `db:"preview" json:"preview"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

type StoredChatMessage struct {
	ID             uuid.UUID `db:"id" json:"id"`
	ConversationID uuid.UUID `db:"conversation_id" json:"conversation_id"`
	Role           ChatRole  `db:"role" json:"role"`
	Content        string    `db:"content" json:"content"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
}
