package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/rahul-kr-rai/ayushgyan-health-hub/internal/model"
)

func (r *chatRepository) CreateConversation(ctx context.Context, conv *model.Conversation) error {
	query := `
		INSERT INTO conversations (id, title, preview, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	conv.ID = uuid.New()
	conv.CreatedAt = time.Now()
	conv.UpdatedAt = time.Now()

	if _, err := r.db.ExecContext(ctx, query,
		conv.ID, conv.Title, conv.Preview, conv.CreatedAt, conv.UpdatedAt); err != nil {
		return fmt.Errorf("failed to create conversation: %w", err)
	}
	return nil
}

func (r *chatRepository) TouchConversation(ctx context.Context, id uuid.UUID, preview string) error {
	query := `
		UPDATE conversations
		SET preview = $1, updated_at = $2
		WHERE id = $3
	`
	if _, err := r.db.ExecContext(ctx, query, preview, time.Now(), id); err != nil {
		return fmt.Errorf("failed to update conversation: %w", err)
	}
	return nil
}

func (r *chatRepository) ListConversations(ctx context.Context) ([]*model.Conversation, error) {
	query := `
		SELECT id, title, preview, created_at, updated_at
		FROM conversations
		ORDER BY updated_at DESC
	`
	var convs []*model.Conversation
	if err := r.db.SelectContext(ctx, &convs, query); err != nil {
		return nil, fmt.Errorf("failed to list conversations: %w", err)
	}
	return convs, nil
}

func (r *chatRepository) AppendMessage(ctx context.Context, msg *model.StoredChatMessage) error {
	query := `
		INSERT INTO chat_messages (id, conversation_id, role, content, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	msg.ID = uuid.New()
	msg.CreatedAt = time.Now()

	if _, err := r.db.ExecContext(ctx, query,
		msg.ID, msg.ConversationID, msg.Role, msg.Content, msg.CreatedAt); err != nil {
		return fmt.Errorf("failed to append chat message: %w", err)
	}
	return nil
}

func (r *chatRepository) Messages(ctx context.Context, conversationID uuid.UUID) ([]*model.StoredChatMessage, error) {
	query := `
		SELECT id, conversation_id, role, content, created_at
		FROM chat_messages
		WHERE conversation_id = $1
		ORDER BY created_at ASC
	`
	var messages []*model.StoredChatMessage
	if err := r.db.SelectContext(ctx, &messages, query, conversationID); err != nil {
		return nil, fmt.Errorf("failed to list chat messages: %w", err)
	}
	return messages, nil
}
