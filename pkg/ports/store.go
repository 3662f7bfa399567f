package ports

import (
	"context"

	"github.com/aretw0/wayfare/pkg/domain"
)

// ConversationStore defines the interface for persisting conversation state.
// Each conversation is stored independently under its ID.
type ConversationStore interface {
	// Save persists the conversation under the given ID.
	Save(ctx context.Context, conversationID string, conv *domain.Conversation) error

	// Load retrieves the conversation for the given ID.
	// Returns domain.ErrConversationNotFound if it does not exist.
	Load(ctx context.Context, conversationID string) (*domain.Conversation, error)

	// Delete removes the conversation. Deleting an unknown ID is not an error.
	Delete(ctx context.Context, conversationID string) error

	// List returns the IDs of stored conversations.
	List(ctx context.Context) ([]string, error)
}
