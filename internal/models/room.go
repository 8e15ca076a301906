package models

import (
	"time"

	"github.com/google/uuid"
)

type Room struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Code          string    `gorm:"size:6;uniqueIndex;not null" json:"code"`
	HostID        uuid.UUID `gorm:"type:uuid;not null" json:"host_id"`
	BudgetMin     int       `gorm:"not null" json:"budget_min"`
	BudgetMax     int       `gorm:"not null" json:"budget_max"`
	AllowHandmade bool      `gorm:"not null;default:false" json:"allow_handmade"`
	Locked        bool      `gorm:"not null;default:false" json:"locked"`
	Stage         string    `gorm:"size:20;not null;default:'open'" json:"stage"`
	CreatedAt     time.Time `json:"created_at"`
}

const (
	RoomStageOpen     = "open"
	RoomStageMatched  = "matched"
	RoomStageRevealed = "revealed"
)
