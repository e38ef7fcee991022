package handler

import (
	"context"
	"log"

	"github.com/gofiber/fiber/v2"

	"drawboard-backend/internal/config"
	"drawboard-backend/internal/model"
	"drawboard-backend/internal/presence"
	"drawboard-backend/internal/store"
)

// RoomHandler 방 조회용 REST 핸들러
type RoomHandler struct {
	hub      *BoardHub
	store    store.Store
	presence *presence.Manager
	cfg      *config.Config
}

// NewRoomHandler RoomHandler 생성
func NewRoomHandler(hub *BoardHub, st store.Store, pm *presence.Manager, cfg *config.Config) *RoomHandler {
	return &RoomHandler{
		hub:      hub,
		store:    st,
		presence: pm,
		cfg:      cfg,
	}
}

// RoomStats 방 점유 현황
type RoomStats struct {
	RoomID   string `json:"roomId"`
	Sessions int    `json:"sessions"`
}

// GetRooms 현재 세션이 있는 방 목록과 접속 수 반환
func (h *RoomHandler) GetRooms(c *fiber.Ctx) error {
	occupancy := h.hub.Rooms()

	rooms := make([]RoomStats, 0, len(occupancy))
	for roomID, count := range occupancy {
		rooms = append(rooms, RoomStats{RoomID: roomID, Sessions: count})
	}

	return c.JSON(fiber.Map{
		"rooms":         rooms,
		"totalSessions": h.hub.SessionCount(),
	})
}

// GetRoomElements 방의 드로잉 요소 히스토리 반환 (timestamp 오름차순)
func (h *RoomHandler) GetRoomElements(c *fiber.Ctx) error {
	roomID := c.Params("roomId")
	if roomID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "roomId is required"})
	}

	ctx, cancel := h.storeContext()
	defer cancel()

	elements, err := h.store.FindElements(ctx, roomID)
	if err != nil {
		log.Printf("[Room] Failed to fetch elements for room %s: %v", roomID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to fetch elements"})
	}
	if elements == nil {
		elements = []model.Element{}
	}

	return c.JSON(fiber.Map{
		"roomId":   roomID,
		"elements": elements,
	})
}

// GetRoomChats 방의 최근 채팅 히스토리 반환 (시간순)
func (h *RoomHandler) GetRoomChats(c *fiber.Ctx) error {
	roomID := c.Params("roomId")
	if roomID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "roomId is required"})
	}

	limit := c.QueryInt("limit", h.cfg.Store.ChatLimit)
	if limit <= 0 {
		limit = h.cfg.Store.ChatLimit
	}
	if limit > h.cfg.Store.MaxChatLimit {
		limit = h.cfg.Store.MaxChatLimit
	}

	ctx, cancel := h.storeContext()
	defer cancel()

	chats, err := h.store.FindChatMessages(ctx, roomID, limit)
	if err != nil {
		log.Printf("[Room] Failed to fetch chats for room %s: %v", roomID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to fetch chat messages"})
	}
	if chats == nil {
		chats = []model.ChatMessage{}
	}

	return c.JSON(fiber.Map{
		"roomId":   roomID,
		"messages": chats,
	})
}

// GetRoomPresence Redis 명단 기준 방 접속자 반환. Presence 비활성화 시 404.
func (h *RoomHandler) GetRoomPresence(c *fiber.Ctx) error {
	if h.presence == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "presence is not enabled"})
	}

	roomID := c.Params("roomId")
	if roomID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "roomId is required"})
	}

	ctx, cancel := h.storeContext()
	defer cancel()

	members, err := h.presence.RoomUsers(ctx, roomID)
	if err != nil {
		log.Printf("[Room] Failed to fetch presence for room %s: %v", roomID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to fetch presence"})
	}

	return c.JSON(fiber.Map{
		"roomId":  roomID,
		"members": members,
	})
}

func (h *RoomHandler) storeContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), h.cfg.Store.Timeout)
}
