package session

import (
	"sync"
	"time"

	"github.com/gofiber/contrib/websocket"
	"github.com/google/uuid"
)

// State WebSocket 연결 상태
type State int

const (
	StateActive State = iota // 인증 완료, 이벤트 송수신 중
	StateClosed              // 연결 종료
)

// String 상태를 문자열로 반환
func (s State) String() string {
	switch s {
	case StateActive:
		return "active"
	case StateClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// Session 인증된 클라이언트 연결 하나
type Session struct {
	ID     string
	UserID string
	Name   string
	Conn   *websocket.Conn

	// Rooms 이 세션이 참여 중인 방 집합.
	// BoardHub의 락 아래에서만 읽고 쓴다.
	Rooms map[string]struct{}

	ConnectedAt time.Time

	// 동시성 제어
	mu    sync.RWMutex
	state State

	// 송신 큐. 브로드캐스트는 여기 적재만 하고 실제 쓰기는 WritePump가 한다.
	send chan []byte
}

// New 새 세션 생성. name이 비어 있으면 "Anonymous"로 둔다.
func New(userID, name string, conn *websocket.Conn, queueSize int) *Session {
	if name == "" {
		name = "Anonymous"
	}
	if queueSize <= 0 {
		queueSize = 256
	}

	return &Session{
		ID:          uuid.New().String(),
		UserID:      userID,
		Name:        name,
		Conn:        conn,
		Rooms:       make(map[string]struct{}),
		ConnectedAt: time.Now(),
		state:       StateActive,
		send:        make(chan []byte, queueSize),
	}
}

// Send 송신 큐에 메시지 적재. 블로킹하지 않는다.
// 큐가 가득 찼거나 세션이 닫혔으면 false를 반환한다.
func (s *Session) Send(data []byte) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.state == StateClosed {
		return false
	}

	select {
	case s.send <- data:
		return true
	default:
		return false
	}
}

// Close 세션 정리. 여러 번 호출해도 안전하다.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == StateClosed {
		return
	}

	s.state = StateClosed
	close(s.send)
}

// State 현재 상태 조회
func (s *Session) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.state
}

// IsClosed 세션 종료 여부 확인
func (s *Session) IsClosed() bool {
	return s.State() == StateClosed
}

// Outbound 송신 큐 수신 채널 (WritePump와 테스트에서 사용)
func (s *Session) Outbound() <-chan []byte {
	return s.send
}

// Duration 연결 유지 시간
func (s *Session) Duration() time.Duration {
	return time.Since(s.ConnectedAt)
}

// WritePump 송신 큐를 소켓으로 옮긴다. 연결당 하나의 고루틴으로 실행한다.
// 큐가 닫히면 Close 프레임을 보내고 끝난다.
func (s *Session) WritePump(writeTimeout time.Duration) {
	defer s.Conn.Close()

	for data := range s.send {
		s.Conn.SetWriteDeadline(time.Now().Add(writeTimeout))
		if err := s.Conn.WriteMessage(websocket.TextMessage, data); err != nil {
			// 쓰기 실패 시 수신 루프가 정리하도록 내버려 둔다
			return
		}
	}

	s.Conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	s.Conn.WriteMessage(websocket.CloseMessage, []byte{})
}
