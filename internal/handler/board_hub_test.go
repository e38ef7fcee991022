package handler

import (
	"testing"

	"drawboard-backend/internal/session"
)

func newTestSession(userID, name string) *session.Session {
	return session.New(userID, name, nil, 16)
}

func TestJoinRoomDeduplicates(t *testing.T) {
	hub := NewBoardHub()
	sess := newTestSession("u1", "Alice")
	hub.Register(sess)

	if !hub.JoinRoom(sess, "7") {
		t.Fatal("First join should succeed")
	}
	if hub.JoinRoom(sess, "7") {
		t.Error("Second join of the same room should report already-member")
	}

	if got := len(hub.SessionsInRoom("7")); got != 1 {
		t.Errorf("Expected 1 member in room, got %d", got)
	}
}

func TestJoinRoomUnknownSession(t *testing.T) {
	hub := NewBoardHub()
	sess := newTestSession("u1", "Alice")

	// 등록되지 않은 세션은 방에 들어갈 수 없다
	if hub.JoinRoom(sess, "7") {
		t.Error("Join should fail for an unregistered session")
	}
}

func TestLeaveRoom(t *testing.T) {
	hub := NewBoardHub()
	sess := newTestSession("u1", "Alice")
	hub.Register(sess)
	hub.JoinRoom(sess, "7")

	hub.LeaveRoom(sess, "7")

	if got := len(hub.SessionsInRoom("7")); got != 0 {
		t.Errorf("Expected empty room after leave, got %d members", got)
	}

	// 다시 참여하면 새 참여로 처리된다
	if !hub.JoinRoom(sess, "7") {
		t.Error("Rejoin after leave should succeed")
	}
}

func TestUnregisterDetachesAllRooms(t *testing.T) {
	hub := NewBoardHub()
	sess := newTestSession("u1", "Alice")
	hub.Register(sess)
	hub.JoinRoom(sess, "7")
	hub.JoinRoom(sess, "8")

	rooms := hub.Unregister(sess)
	if len(rooms) != 2 {
		t.Fatalf("Expected 2 rooms returned, got %d", len(rooms))
	}

	if len(hub.SessionsInRoom("7")) != 0 || len(hub.SessionsInRoom("8")) != 0 {
		t.Error("Unregister should remove the session from every room")
	}
	if !sess.IsClosed() {
		t.Error("Unregister should close the session")
	}
	if hub.SessionCount() != 0 {
		t.Errorf("Expected 0 sessions, got %d", hub.SessionCount())
	}
}

func TestUnregisterIsIdempotent(t *testing.T) {
	hub := NewBoardHub()
	sess := newTestSession("u1", "Alice")
	hub.Register(sess)
	hub.JoinRoom(sess, "7")

	hub.Unregister(sess)
	if rooms := hub.Unregister(sess); rooms != nil {
		t.Errorf("Second unregister should be a no-op, got rooms %v", rooms)
	}
}

func TestRoomIsolation(t *testing.T) {
	hub := NewBoardHub()
	a := newTestSession("u1", "Alice")
	b := newTestSession("u2", "Bob")
	hub.Register(a)
	hub.Register(b)
	hub.JoinRoom(a, "A")
	hub.JoinRoom(b, "B")

	for _, member := range hub.SessionsInRoom("A") {
		if member == b {
			t.Error("Session in room B must not appear in room A")
		}
	}
	if got := len(hub.SessionsInRoom("A")); got != 1 {
		t.Errorf("Expected 1 member in room A, got %d", got)
	}
}

func TestRoomsOccupancySnapshot(t *testing.T) {
	hub := NewBoardHub()
	a := newTestSession("u1", "Alice")
	b := newTestSession("u2", "Bob")
	hub.Register(a)
	hub.Register(b)
	hub.JoinRoom(a, "7")
	hub.JoinRoom(b, "7")
	hub.JoinRoom(b, "8")

	occupancy := hub.Rooms()
	if occupancy["7"] != 2 {
		t.Errorf("Expected 2 members in room 7, got %d", occupancy["7"])
	}
	if occupancy["8"] != 1 {
		t.Errorf("Expected 1 member in room 8, got %d", occupancy["8"])
	}
}
