package handler

import (
	"log"
	"sync"

	"drawboard-backend/internal/session"
)

// =============================================================================
// Board Hub - 세션 레지스트리 (방 단위 인덱스)
// =============================================================================

// BoardHub tracks every live session and indexes them by room so a
// broadcast never scans the full session list.
type BoardHub struct {
	mu       sync.RWMutex
	sessions map[*session.Session]struct{}
	rooms    map[string]map[*session.Session]struct{}
}

// NewBoardHub creates an empty BoardHub.
func NewBoardHub() *BoardHub {
	return &BoardHub{
		sessions: make(map[*session.Session]struct{}),
		rooms:    make(map[string]map[*session.Session]struct{}),
	}
}

// Register inserts an authenticated session into the registry.
func (h *BoardHub) Register(sess *session.Session) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.sessions[sess] = struct{}{}
	log.Printf("[Hub] Session %s registered (user: %s, total: %d)", sess.ID, sess.UserID, len(h.sessions))
}

// Unregister removes the session from the registry and from every room
// it joined, then closes its outbound queue. Safe to call more than
// once; repeated calls are no-ops. Returns the rooms the session was in
// so the caller can release per-room resources.
func (h *BoardHub) Unregister(sess *session.Session) []string {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.sessions[sess]; !ok {
		return nil
	}
	delete(h.sessions, sess)

	rooms := make([]string, 0, len(sess.Rooms))
	for roomID := range sess.Rooms {
		rooms = append(rooms, roomID)
		if members, ok := h.rooms[roomID]; ok {
			delete(members, sess)
			if len(members) == 0 {
				delete(h.rooms, roomID)
			}
		}
		delete(sess.Rooms, roomID)
	}

	sess.Close()
	log.Printf("[Hub] Session %s unregistered (user: %s, remaining: %d)", sess.ID, sess.UserID, len(h.sessions))
	return rooms
}

// JoinRoom adds the session to a room. Returns false when the session
// is already a member (or unknown), so the caller can skip the replay.
func (h *BoardHub) JoinRoom(sess *session.Session, roomID string) bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.sessions[sess]; !ok {
		return false
	}
	if _, ok := sess.Rooms[roomID]; ok {
		return false
	}

	sess.Rooms[roomID] = struct{}{}
	members, ok := h.rooms[roomID]
	if !ok {
		members = make(map[*session.Session]struct{})
		h.rooms[roomID] = members
	}
	members[sess] = struct{}{}

	log.Printf("[Hub] User %s joined room %s (members: %d)", sess.Name, roomID, len(members))
	return true
}

// LeaveRoom removes the session from a room. Leaving a room the
// session never joined is a no-op.
func (h *BoardHub) LeaveRoom(sess *session.Session, roomID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := sess.Rooms[roomID]; !ok {
		return
	}
	delete(sess.Rooms, roomID)

	if members, ok := h.rooms[roomID]; ok {
		delete(members, sess)
		if len(members) == 0 {
			delete(h.rooms, roomID)
		}
	}

	log.Printf("[Hub] User %s left room %s", sess.Name, roomID)
}

// SessionsInRoom returns a snapshot of the room's members. Callers
// fan out on the snapshot outside the lock, so a membership change
// during delivery is tolerated (snapshot-or-skip).
func (h *BoardHub) SessionsInRoom(roomID string) []*session.Session {
	h.mu.RLock()
	defer h.mu.RUnlock()

	members, ok := h.rooms[roomID]
	if !ok {
		return nil
	}

	snapshot := make([]*session.Session, 0, len(members))
	for sess := range members {
		snapshot = append(snapshot, sess)
	}
	return snapshot
}

// RoomsOf returns a snapshot of the rooms the session has joined.
func (h *BoardHub) RoomsOf(sess *session.Session) []string {
	h.mu.RLock()
	defer h.mu.RUnlock()

	rooms := make([]string, 0, len(sess.Rooms))
	for roomID := range sess.Rooms {
		rooms = append(rooms, roomID)
	}
	return rooms
}

// SessionCount returns the number of live sessions.
func (h *BoardHub) SessionCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return len(h.sessions)
}

// Rooms returns a snapshot of room occupancy: room id -> member count.
func (h *BoardHub) Rooms() map[string]int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	occupancy := make(map[string]int, len(h.rooms))
	for roomID, members := range h.rooms {
		occupancy[roomID] = len(members)
	}
	return occupancy
}
