package models

import (
	"time"

	"github.com/google/uuid"
)

// Pairing maps one giver to one receiver within a room. A room's pairings
// always belong to a single generation; a redraw replaces the whole set.
type Pairing struct {
	ID         uint      `gorm:"primaryKey" json:"-"`
	RoomID     uuid.UUID `gorm:"type:uuid;not null;index" json:"room_id"`
	GiverID    uuid.UUID `gorm:"type:uuid;not null;index" json:"giver_id"`
	ReceiverID uuid.UUID `gorm:"type:uuid;not null" json:"receiver_id"`
	Generation int       `gorm:"not null;default:1" json:"generation"`
	CreatedAt  time.Time `json:"created_at"`
}
