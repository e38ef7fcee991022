package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"drawboard-backend/internal/model"
)

// MemoryStore keeps all records in process memory. It backs local
// development when no database is configured, and the test suite.
type MemoryStore struct {
	mu         sync.RWMutex
	elements   map[string]model.Element // element id -> element
	chats      []model.ChatMessage
	nextChatID int64
}

// NewMemoryStore creates an empty in-memory Store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		elements:   make(map[string]model.Element),
		nextChatID: 1,
	}
}

func (s *MemoryStore) FindElements(ctx context.Context, roomID string) ([]model.Element, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	elements := make([]model.Element, 0)
	for _, el := range s.elements {
		if el.RoomID == roomID {
			elements = append(elements, el)
		}
	}

	sort.Slice(elements, func(i, j int) bool {
		if elements[i].Timestamp != elements[j].Timestamp {
			return elements[i].Timestamp < elements[j].Timestamp
		}
		return elements[i].ID < elements[j].ID
	})
	return elements, nil
}

func (s *MemoryStore) UpsertElement(ctx context.Context, element *model.Element) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	el := *element
	if existing, ok := s.elements[el.ID]; ok {
		el.CreatedAt = existing.CreatedAt
	} else {
		el.CreatedAt = time.Now()
	}
	el.UpdatedAt = time.Now()
	s.elements[el.ID] = el
	return nil
}

func (s *MemoryStore) DeleteElement(ctx context.Context, elementID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Missing ids are tolerated
	delete(s.elements, elementID)
	return nil
}

func (s *MemoryStore) CreateChatMessage(ctx context.Context, roomID, userID, message string) (*model.ChatMessage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	chat := model.ChatMessage{
		ID:        s.nextChatID,
		RoomID:    roomID,
		UserID:    userID,
		Message:   message,
		CreatedAt: time.Now(),
	}
	s.nextChatID++
	s.chats = append(s.chats, chat)
	return &chat, nil
}

func (s *MemoryStore) FindChatMessages(ctx context.Context, roomID string, limit int) ([]model.ChatMessage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	chats := make([]model.ChatMessage, 0)
	for _, chat := range s.chats {
		if chat.RoomID == roomID {
			chats = append(chats, chat)
		}
	}
	if limit > 0 && len(chats) > limit {
		chats = chats[len(chats)-limit:]
	}
	return chats, nil
}
