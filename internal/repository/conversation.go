package repository

import (
	"context"
	"fmt"

	"github.com/brandflow/brandflow/internal/model"
)

// CreateConversation inserts a saved prompt/response pair.
func (r *Repository) CreateConversation(ctx context.Context, c *model.Conversation) error {
	query := `
		INSERT INTO conversations (id, user_id, business_id, prompt_content, response_content, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.pool.Exec(ctx, query,
		c.ID,
		c.UserID,
		c.BusinessID,
		c.PromptContent,
		c.ResponseContent,
		c.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create conversation: %w", err)
	}

	return nil
}

// ListConversations returns the owner's conversations for a business, newest first.
func (r *Repository) ListConversations(ctx context.Context, ownerID, businessID string) ([]*model.Conversation, error) {
	query := `
		SELECT id, user_id, business_id, prompt_content, response_content, created_at
		FROM conversations
		WHERE user_id = $1 AND business_id = $2
		ORDER BY created_at DESC, id DESC
	`

	rows, err := r.pool.Query(ctx, query, ownerID, businessID)
	if err != nil {
		return nil, fmt.Errorf("failed to list conversations: %w", err)
	}
	defer rows.Close()

	conversations := make([]*model.Conversation, 0)
	for rows.Next() {
		var c model.Conversation
		if err := rows.Scan(
			&c.ID,
			&c.UserID,
			&c.BusinessID,
			&c.PromptContent,
			&c.ResponseContent,
			&c.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan conversation: %w", err)
		}
		conversations = append(conversations, &c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating conversations: %w", err)
	}

	return conversations, nil
}
