package session

import (
	"testing"
)

func TestNewDefaultsNameToAnonymous(t *testing.T) {
	sess := New("u1", "", nil, 16)

	if sess.Name != "Anonymous" {
		t.Errorf("Expected Anonymous, got %s", sess.Name)
	}
	if sess.UserID != "u1" {
		t.Errorf("Expected userId u1, got %s", sess.UserID)
	}
	if sess.ID == "" {
		t.Error("Session id must be assigned")
	}
	if sess.State() != StateActive {
		t.Errorf("New session must be active, got %s", sess.State())
	}
}

func TestSendAndReceive(t *testing.T) {
	sess := New("u1", "Alice", nil, 16)

	if !sess.Send([]byte("hello")) {
		t.Fatal("Send to an open session should succeed")
	}

	select {
	case data := <-sess.Outbound():
		if string(data) != "hello" {
			t.Errorf("Expected hello, got %s", data)
		}
	default:
		t.Fatal("Expected a queued message")
	}
}

func TestSendReportsFullQueue(t *testing.T) {
	sess := New("u1", "Alice", nil, 2)

	if !sess.Send([]byte("1")) || !sess.Send([]byte("2")) {
		t.Fatal("Sends within the queue bound should succeed")
	}
	if sess.Send([]byte("3")) {
		t.Error("Send must report overflow instead of blocking")
	}
}

func TestCloseIsIdempotent(t *testing.T) {
	sess := New("u1", "Alice", nil, 16)

	sess.Close()
	sess.Close() // 두 번째 호출도 패닉 없이 지나가야 한다

	if !sess.IsClosed() {
		t.Error("Session must be closed")
	}
	if sess.Send([]byte("late")) {
		t.Error("Send after close must fail")
	}
}

func TestOutboundDrainsAfterClose(t *testing.T) {
	sess := New("u1", "Alice", nil, 16)
	sess.Send([]byte("queued"))
	sess.Close()

	// 닫힌 뒤에도 이미 적재된 메시지는 소비할 수 있다
	data, ok := <-sess.Outbound()
	if !ok || string(data) != "queued" {
		t.Errorf("Expected queued message, got %q (ok=%v)", data, ok)
	}
	if _, ok := <-sess.Outbound(); ok {
		t.Error("Channel must be closed after draining")
	}
}
