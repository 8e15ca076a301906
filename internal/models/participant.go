package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

type Participant struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	RoomID   uuid.UUID `gorm:"type:uuid;not null;index;uniqueIndex:idx_room_name_key" json:"room_id"`
	Name     string    `gorm:"size:100;not null" json:"name"`
	NameKey  string    `gorm:"size:100;not null;uniqueIndex:idx_room_name_key" json:"-"`
	Color    string    `gorm:"size:200" json:"color"`
	Occasion string    `gorm:"size:200" json:"occasion"`
	Feeling  string    `gorm:"size:200" json:"feeling"`
	IsHost   bool      `gorm:"not null;default:false" json:"is_host"`
	IsReady  bool      `gorm:"not null;default:false" json:"is_ready"`
	JoinedAt time.Time `json:"joined_at"`
}

// NameKey normalizes a display name for case-insensitive matching within a
// room. The name is the only reconnection credential, so two participants in
// one room must never share a key.
func NameKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
