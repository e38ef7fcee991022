package handler

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/gofiber/contrib/websocket"

	"drawboard-backend/internal/config"
	"drawboard-backend/internal/model"
	"drawboard-backend/internal/presence"
	"drawboard-backend/internal/session"
	"drawboard-backend/internal/store"
)

// =============================================================================
// Board WebSocket - 연결 수명주기 + 메시지 라우팅
// =============================================================================

// 인바운드 메시지 종류
const (
	msgJoinRoom      = "join_room"
	msgLeaveRoom     = "leave_room"
	msgDrawingUpdate = "drawing_update"
	msgDrawingDelete = "drawing_delete"
	msgCursorMove    = "cursor_move"
	msgChat          = "chat"
	msgRoomState     = "room_state"
)

// CursorPosition is broadcast-only and never persisted.
type CursorPosition struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	UserID string  `json:"userId"`
}

// wsMessage is the inbound wire envelope: one JSON object per message.
type wsMessage struct {
	Type      string          `json:"type"`
	RoomID    string          `json:"roomId"`
	Element   *model.Element  `json:"element,omitempty"`
	ElementID string          `json:"elementId,omitempty"`
	Cursor    *CursorPosition `json:"cursor,omitempty"`
	Message   string          `json:"message,omitempty"`
}

// Outbound payloads. Shapes match the wire contract exactly, so each
// kind gets its own struct instead of one envelope with omitempty.
type roomStateMessage struct {
	Type     string          `json:"type"`
	Elements []model.Element `json:"elements"`
}

type drawingUpdateMessage struct {
	Type    string         `json:"type"`
	Element *model.Element `json:"element"`
	RoomID  string         `json:"roomId"`
}

type drawingDeleteMessage struct {
	Type      string `json:"type"`
	ElementID string `json:"elementId"`
	RoomID    string `json:"roomId"`
}

type cursorMoveMessage struct {
	Type   string          `json:"type"`
	Cursor *CursorPosition `json:"cursor"`
	RoomID string          `json:"roomId"`
}

type chatMessage struct {
	Type     string `json:"type"`
	Message  string `json:"message"`
	RoomID   string `json:"roomId"`
	UserID   string `json:"userId"`
	UserName string `json:"userName"`
}

// BoardWSHandler 드로잉 보드 WebSocket 핸들러
type BoardWSHandler struct {
	hub      *BoardHub
	store    store.Store
	presence *presence.Manager // nil이면 presence 비활성화
	cfg      *config.Config
}

// NewBoardWSHandler BoardWSHandler 생성
func NewBoardWSHandler(hub *BoardHub, st store.Store, pm *presence.Manager, cfg *config.Config) *BoardWSHandler {
	return &BoardWSHandler{
		hub:      hub,
		store:    st,
		presence: pm,
		cfg:      cfg,
	}
}

// HandleWebSocket runs one authenticated connection: register the
// session, start the write pump, then route inbound events until the
// peer disconnects. Auth already happened in the upgrade guard.
func (h *BoardWSHandler) HandleWebSocket(c *websocket.Conn) {
	userID, ok1 := c.Locals("userId").(string)
	userName, ok2 := c.Locals("userName").(string)
	if !ok1 || userID == "" {
		// 업그레이드 가드를 거치지 않은 연결은 받지 않는다
		c.Close()
		return
	}
	if !ok2 {
		userName = ""
	}

	sess := session.New(userID, userName, c, h.cfg.WebSocket.SendQueueSize)
	h.hub.Register(sess)
	go sess.WritePump(h.cfg.WebSocket.WriteTimeout)

	log.Printf("[Board] User %s connected", sess.Name)

	// 연결 해제 시 정리. 퇴장 브로드캐스트는 보내지 않는다 (원 계약 유지).
	defer func() {
		rooms := h.hub.Unregister(sess)
		h.releasePresence(sess, rooms)
		log.Printf("[Board] User %s disconnected", sess.Name)
	}()

	// Presence TTL 갱신 루프
	if h.presence != nil {
		stop := make(chan struct{})
		defer close(stop)
		go h.heartbeatLoop(sess, stop)
	}

	// 메시지 수신 루프
	for {
		_, raw, err := c.ReadMessage()
		if err != nil {
			break
		}
		h.route(sess, raw)
	}
}

// route decodes one inbound event and applies the per-kind protocol.
// A malformed payload drops that single message; the connection stays.
func (h *BoardWSHandler) route(sess *session.Session, raw []byte) {
	var msg wsMessage
	if err := json.Unmarshal(raw, &msg); err != nil {
		log.Printf("[Board] Malformed message from %s dropped: %v", sess.UserID, err)
		return
	}

	if msg.RoomID == "" {
		log.Printf("[Board] Message without roomId from %s dropped (type: %s)", sess.UserID, msg.Type)
		return
	}

	switch msg.Type {
	case msgJoinRoom:
		h.handleJoinRoom(sess, msg.RoomID)
	case msgLeaveRoom:
		h.handleLeaveRoom(sess, msg.RoomID)
	case msgDrawingUpdate:
		h.handleDrawingUpdate(sess, msg.RoomID, msg.Element)
	case msgDrawingDelete:
		h.handleDrawingDelete(sess, msg.RoomID, msg.ElementID)
	case msgCursorMove:
		h.handleCursorMove(sess, msg.RoomID, msg.Cursor)
	case msgChat:
		h.handleChat(sess, msg.RoomID, msg.Message)
	default:
		log.Printf("[Board] Unknown message type %q from %s dropped", msg.Type, sess.UserID)
	}
}

// handleJoinRoom adds the room to the session and replays the stored
// elements to the joiner only. A replay read failure is logged and the
// join stands (registry mutation is not rolled back).
func (h *BoardWSHandler) handleJoinRoom(sess *session.Session, roomID string) {
	if !h.hub.JoinRoom(sess, roomID) {
		return // 이미 참여 중인 방
	}

	if h.presence != nil {
		ctx, cancel := h.storeContext()
		defer cancel()
		if err := h.presence.AddUser(ctx, roomID, sess.UserID, sess.Name); err != nil {
			log.Printf("[Board] Failed to update presence for room %s: %v", roomID, err)
		}
	}

	ctx, cancel := h.storeContext()
	defer cancel()

	elements, err := h.store.FindElements(ctx, roomID)
	if err != nil {
		log.Printf("[Board] Error fetching room elements: %v", err)
		return
	}
	if elements == nil {
		elements = []model.Element{}
	}

	h.deliver(sess, roomStateMessage{
		Type:     msgRoomState,
		Elements: elements,
	})
}

func (h *BoardWSHandler) handleLeaveRoom(sess *session.Session, roomID string) {
	h.hub.LeaveRoom(sess, roomID)
	h.releasePresence(sess, []string{roomID})
}

// handleDrawingUpdate persists the element, then broadcasts it to the
// room excluding the sender (the sender already applied it locally).
func (h *BoardWSHandler) handleDrawingUpdate(sess *session.Session, roomID string, element *model.Element) {
	if element == nil || element.ID == "" {
		log.Printf("[Board] drawing_update without element from %s dropped", sess.UserID)
		return
	}
	element.RoomID = roomID

	ctx, cancel := h.storeContext()
	defer cancel()

	if err := h.store.UpsertElement(ctx, element); err != nil {
		log.Printf("[Board] Error saving element: %v", err)
		return // 저장 실패 시 브로드캐스트 생략
	}

	h.broadcast(roomID, sess, drawingUpdateMessage{
		Type:    msgDrawingUpdate,
		Element: element,
		RoomID:  roomID,
	})
}

// handleDrawingDelete persists the delete, then broadcasts to the room
// including the sender (the sender relies on its own broadcast).
func (h *BoardWSHandler) handleDrawingDelete(sess *session.Session, roomID, elementID string) {
	if elementID == "" {
		log.Printf("[Board] drawing_delete without elementId from %s dropped", sess.UserID)
		return
	}

	ctx, cancel := h.storeContext()
	defer cancel()

	if err := h.store.DeleteElement(ctx, elementID); err != nil {
		log.Printf("[Board] Error deleting element: %v", err)
		return
	}

	h.broadcast(roomID, nil, drawingDeleteMessage{
		Type:      msgDrawingDelete,
		ElementID: elementID,
		RoomID:    roomID,
	})
}

// handleCursorMove broadcasts the cursor to the room excluding the
// sender. Cursor positions are never persisted.
func (h *BoardWSHandler) handleCursorMove(sess *session.Session, roomID string, cursor *CursorPosition) {
	if cursor == nil {
		log.Printf("[Board] cursor_move without cursor from %s dropped", sess.UserID)
		return
	}

	h.broadcast(roomID, sess, cursorMoveMessage{
		Type:   msgCursorMove,
		Cursor: cursor,
		RoomID: roomID,
	})
}

// handleChat appends the chat record, then broadcasts to the room
// including the sender.
func (h *BoardWSHandler) handleChat(sess *session.Session, roomID, message string) {
	if message == "" {
		return
	}

	ctx, cancel := h.storeContext()
	defer cancel()

	if _, err := h.store.CreateChatMessage(ctx, roomID, sess.UserID, message); err != nil {
		log.Printf("[Board] Error saving chat message: %v", err)
		return
	}

	h.broadcast(roomID, nil, chatMessage{
		Type:     msgChat,
		Message:  message,
		RoomID:   roomID,
		UserID:   sess.UserID,
		UserName: sess.Name,
	})
}

// broadcast marshals the payload once and enqueues it to every room
// member except exclude. Enqueue never blocks; a peer whose queue is
// full is closed and reaped so it cannot stall the room.
func (h *BoardWSHandler) broadcast(roomID string, exclude *session.Session, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		log.Printf("[Board] Failed to marshal broadcast for room %s: %v", roomID, err)
		return
	}

	for _, member := range h.hub.SessionsInRoom(roomID) {
		if member == exclude {
			continue
		}
		h.send(member, data)
	}
}

// deliver sends a payload to a single session.
func (h *BoardWSHandler) deliver(sess *session.Session, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		log.Printf("[Board] Failed to marshal message for %s: %v", sess.UserID, err)
		return
	}
	h.send(sess, data)
}

// send enqueues to one session. Backpressure policy: the queue is
// bounded; on overflow (or a closed session) the session is dropped so
// other peers and the store path are never stalled by one slow peer.
func (h *BoardWSHandler) send(sess *session.Session, data []byte) {
	if sess.Send(data) {
		return
	}
	if sess.IsClosed() {
		return
	}

	log.Printf("[Board] Send queue full, dropping session %s (user: %s)", sess.ID, sess.UserID)
	rooms := h.hub.Unregister(sess)
	h.releasePresence(sess, rooms)
}

// heartbeatLoop refreshes the session's presence TTLs while the
// connection lives. Runs only when presence is enabled.
func (h *BoardWSHandler) heartbeatLoop(sess *session.Session, stop <-chan struct{}) {
	ticker := time.NewTicker(presence.HeartbeatInterval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			ctx, cancel := h.storeContext()
			for _, roomID := range h.hub.RoomsOf(sess) {
				if err := h.presence.Heartbeat(ctx, roomID, sess.UserID); err != nil {
					log.Printf("[Board] Heartbeat failed for room %s: %v", roomID, err)
				}
			}
			cancel()
		}
	}
}

// releasePresence removes the session's user from the given rooms'
// presence rosters. Best effort; failures are logged only.
func (h *BoardWSHandler) releasePresence(sess *session.Session, rooms []string) {
	if h.presence == nil || len(rooms) == 0 {
		return
	}

	ctx, cancel := h.storeContext()
	defer cancel()

	for _, roomID := range rooms {
		if err := h.presence.RemoveUser(ctx, roomID, sess.UserID); err != nil {
			log.Printf("[Board] Failed to clear presence for room %s: %v", roomID, err)
		}
	}
}

// storeContext returns the per-call timeout context used for store and
// presence operations. Deliberately detached from the connection: an
// in-flight persistence call finishes even if the sender disconnects.
func (h *BoardWSHandler) storeContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), h.cfg.Store.Timeout)
}
