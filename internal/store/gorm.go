package store

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"drawboard-backend/internal/model"
)

// GormStore is the PostgreSQL-backed Store implementation.
type GormStore struct {
	db *gorm.DB
}

// NewGormStore creates a Store backed by the given gorm connection.
func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

// FindElements returns every element of the room ordered by the
// client-assigned timestamp, ascending.
func (s *GormStore) FindElements(ctx context.Context, roomID string) ([]model.Element, error) {
	var elements []model.Element
	err := s.db.WithContext(ctx).
		Where("room_id = ?", roomID).
		Order("timestamp ASC").
		Find(&elements).Error
	if err != nil {
		return nil, fmt.Errorf("find elements for room %s: %w", roomID, err)
	}
	return elements, nil
}

// UpsertElement inserts the element or replaces the existing row with
// the same id. The store never holds two versions of one element.
func (s *GormStore) UpsertElement(ctx context.Context, element *model.Element) error {
	err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			UpdateAll: true,
		}).
		Create(element).Error
	if err != nil {
		return fmt.Errorf("upsert element %s: %w", element.ID, err)
	}
	return nil
}

// DeleteElement removes the element by id. Deleting an id that does
// not exist is not an error.
func (s *GormStore) DeleteElement(ctx context.Context, elementID string) error {
	err := s.db.WithContext(ctx).
		Where("id = ?", elementID).
		Delete(&model.Element{}).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("delete element %s: %w", elementID, err)
	}
	return nil
}

// CreateChatMessage appends a chat record and returns it with its
// assigned id and creation time.
func (s *GormStore) CreateChatMessage(ctx context.Context, roomID, userID, message string) (*model.ChatMessage, error) {
	chat := &model.ChatMessage{
		RoomID:  roomID,
		UserID:  userID,
		Message: message,
	}
	if err := s.db.WithContext(ctx).Create(chat).Error; err != nil {
		return nil, fmt.Errorf("create chat message in room %s: %w", roomID, err)
	}
	return chat, nil
}

// FindChatMessages returns the most recent chat records of the room in
// chronological order, capped at limit.
func (s *GormStore) FindChatMessages(ctx context.Context, roomID string, limit int) ([]model.ChatMessage, error) {
	var chats []model.ChatMessage
	err := s.db.WithContext(ctx).
		Where("room_id = ?", roomID).
		Order("created_at DESC").
		Limit(limit).
		Find(&chats).Error
	if err != nil {
		return nil, fmt.Errorf("find chat messages for room %s: %w", roomID, err)
	}

	// Reverse to chronological order
	for i, j := 0, len(chats)-1; i < j; i, j = i+1, j-1 {
		chats[i], chats[j] = chats[j], chats[i]
	}
	return chats, nil
}
