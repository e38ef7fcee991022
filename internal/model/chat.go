package model

import (
	"time"
)

// ChatMessage 채팅 메시지. 생성 이후 수정/삭제 경로가 없다 (append-only).
type ChatMessage struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	RoomID    string    `gorm:"not null;index:idx_chats_room_created" json:"roomId"`
	UserID    string    `gorm:"not null" json:"userId"`
	Message   string    `gorm:"type:text;not null" json:"message"`
	CreatedAt time.Time `gorm:"autoCreateTime;index:idx_chats_room_created" json:"createdAt"`
}

func (ChatMessage) TableName() string {
	return "chat_messages"
}
