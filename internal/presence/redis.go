package presence

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// 멤버 키 TTL. Heartbeat는 이 절반 주기로 갱신한다.
const memberTTL = 60 * time.Second

// HeartbeatInterval 연결 측에서 Heartbeat를 호출할 주기
const HeartbeatInterval = memberTTL / 2

// PresenceData Redis에 저장될 멤버 데이터
type PresenceData struct {
	UserID        string `json:"user_id"`
	Name          string `json:"name"`
	RoomID        string `json:"room_id"`
	LastHeartbeat int64  `json:"last_heartbeat"`
	ServerID      string `json:"server_id"` // 멀티 서버 확장 대비
}

// Manager 방 단위 접속자 명단 관리자
type Manager struct {
	client   *redis.Client
	serverID string
}

// NewManager 생성자
func NewManager(addr string, password string, db int, serverID string) *Manager {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	return &Manager{
		client:   rdb,
		serverID: serverID,
	}
}

// Ping 연결 확인
func (m *Manager) Ping(ctx context.Context) error {
	return m.client.Ping(ctx).Err()
}

// Close 연결 종료
func (m *Manager) Close() error {
	return m.client.Close()
}

// Key 생성 유틸
func (m *Manager) roomKey(roomID string) string {
	return fmt.Sprintf("presence:room:%s", roomID)
}

func (m *Manager) memberKey(roomID, userID string) string {
	return fmt.Sprintf("presence:room:%s:user:%s", roomID, userID)
}

// AddUser 방 명단에 추가 (join_room)
func (m *Manager) AddUser(ctx context.Context, roomID, userID, name string) error {
	data := PresenceData{
		UserID:        userID,
		Name:          name,
		RoomID:        roomID,
		LastHeartbeat: time.Now().Unix(),
		ServerID:      m.serverID,
	}

	jsonData, err := json.Marshal(data)
	if err != nil {
		return err
	}

	pipe := m.client.Pipeline()
	pipe.SAdd(ctx, m.roomKey(roomID), userID)
	pipe.Set(ctx, m.memberKey(roomID, userID), jsonData, memberTTL)
	_, err = pipe.Exec(ctx)
	return err
}

// Heartbeat 생존 신고 (TTL 연장)
func (m *Manager) Heartbeat(ctx context.Context, roomID, userID string) error {
	result, err := m.client.Expire(ctx, m.memberKey(roomID, userID), memberTTL).Result()
	if err != nil {
		return err
	}
	if !result {
		return fmt.Errorf("user %s not present in room %s", userID, roomID)
	}
	return nil
}

// RemoveUser 방 명단에서 제거 (leave_room, disconnect)
func (m *Manager) RemoveUser(ctx context.Context, roomID, userID string) error {
	pipe := m.client.Pipeline()
	pipe.SRem(ctx, m.roomKey(roomID), userID)
	pipe.Del(ctx, m.memberKey(roomID, userID))
	_, err := pipe.Exec(ctx)
	return err
}

// RoomUsers 방 접속자 명단 조회. TTL이 만료된 멤버는 걸러내고 명단에서도 지운다.
func (m *Manager) RoomUsers(ctx context.Context, roomID string) ([]PresenceData, error) {
	userIDs, err := m.client.SMembers(ctx, m.roomKey(roomID)).Result()
	if err != nil {
		return nil, err
	}
	if len(userIDs) == 0 {
		return []PresenceData{}, nil
	}

	keys := make([]string, len(userIDs))
	for i, id := range userIDs {
		keys[i] = m.memberKey(roomID, id)
	}

	// MGET으로 한 번에 조회
	results, err := m.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, err
	}

	members := make([]PresenceData, 0, len(results))
	for i, result := range results {
		if result == nil {
			// TTL 만료: 명단에서 제거
			m.client.SRem(ctx, m.roomKey(roomID), userIDs[i])
			continue
		}

		strVal, ok := result.(string)
		if !ok {
			continue
		}

		var data PresenceData
		if err := json.Unmarshal([]byte(strVal), &data); err == nil {
			members = append(members, data)
		}
	}

	return members, nil
}
