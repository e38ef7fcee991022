package model

import (
	"encoding/json"
	"time"
)

// Element 드로잉 요소. ID와 timestamp는 클라이언트가 부여한다.
// 같은 ID로 다시 저장하면 교체된다 (upsert).
type Element struct {
	ID          string          `gorm:"primaryKey" json:"id"`
	RoomID      string          `gorm:"not null;index:idx_elements_room_ts" json:"-"`
	Type        string          `gorm:"not null" json:"type"`
	X           float64         `json:"x"`
	Y           float64         `json:"y"`
	Width       *float64        `json:"width,omitempty"`
	Height      *float64        `json:"height,omitempty"`
	Points      json.RawMessage `gorm:"type:jsonb" json:"points,omitempty"` // 자유 형식 좌표 배열
	StrokeColor string          `json:"strokeColor"`
	StrokeWidth float64         `json:"strokeWidth"`
	FillColor   string          `json:"fillColor"`
	StrokeStyle *string         `json:"strokeStyle,omitempty"`
	Text        *string         `json:"text,omitempty"`
	UserID      string          `gorm:"not null" json:"userId"`
	Timestamp   int64           `gorm:"not null;index:idx_elements_room_ts" json:"timestamp"`
	CreatedAt   time.Time       `gorm:"autoCreateTime" json:"-"`
	UpdatedAt   time.Time       `gorm:"autoUpdateTime" json:"-"`
}

func (Element) TableName() string {
	return "elements"
}
