package store

import (
	"context"

	"drawboard-backend/internal/model"
)

// Store defines the persistence operations the relay requires.
// Both GormStore and MemoryStore implement this interface.
type Store interface {
	// Element operations
	FindElements(ctx context.Context, roomID string) ([]model.Element, error)
	UpsertElement(ctx context.Context, element *model.Element) error
	DeleteElement(ctx context.Context, elementID string) error

	// Chat operations
	CreateChatMessage(ctx context.Context, roomID, userID, message string) (*model.ChatMessage, error)
	FindChatMessages(ctx context.Context, roomID string, limit int) ([]model.ChatMessage, error)
}
