package store

import (
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"secret-santa-backend/internal/models"
)

// RoomStore is the keyed room collection: lookup by id and by join code.
type RoomStore struct {
	db *gorm.DB
}

func NewRoomStore(db *gorm.DB) *RoomStore {
	return &RoomStore{db: db}
}

// WithTx returns a store bound to the given transaction.
func (s *RoomStore) WithTx(tx *gorm.DB) *RoomStore {
	return &RoomStore{db: tx}
}

func (s *RoomStore) Create(room *models.Room) error {
	return s.db.Create(room).Error
}

func (s *RoomStore) GetByID(id uuid.UUID) (*models.Room, error) {
	var room models.Room
	if err := s.db.Where("id = ?", id).First(&room).Error; err != nil {
		return nil, err
	}
	return &room, nil
}

// GetByCode resolves a join code case-insensitively. Codes are stored
// uppercase, so the input is normalized before lookup.
func (s *RoomStore) GetByCode(code string) (*models.Room, error) {
	var room models.Room
	normalized := strings.ToUpper(strings.TrimSpace(code))
	if err := s.db.Where("code = ?", normalized).First(&room).Error; err != nil {
		return nil, err
	}
	return &room, nil
}

func (s *RoomStore) CodeExists(code string) (bool, error) {
	var count int64
	if err := s.db.Model(&models.Room{}).Where("code = ?", code).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Lock sets the room's locked flag. The flag is monotonic, so a plain
// single-column update is race-free.
func (s *RoomStore) Lock(id uuid.UUID) error {
	return s.db.Model(&models.Room{}).Where("id = ?", id).Update("locked", true).Error
}

// MarkMatched locks the room and moves it to the matched stage. The guard
// skips rooms already revealed; callers check the returned row count to tell
// a lost race from a successful transition.
func (s *RoomStore) MarkMatched(id uuid.UUID) (int64, error) {
	res := s.db.Model(&models.Room{}).
		Where("id = ? AND stage <> ?", id, models.RoomStageRevealed).
		Updates(map[string]interface{}{"locked": true, "stage": models.RoomStageMatched})
	return res.RowsAffected, res.Error
}

// MarkRevealed publishes the room's pairings. Only a matched room
// transitions; the returned row count is zero otherwise.
func (s *RoomStore) MarkRevealed(id uuid.UUID) (int64, error) {
	res := s.db.Model(&models.Room{}).
		Where("id = ? AND stage = ?", id, models.RoomStageMatched).
		Update("stage", models.RoomStageRevealed)
	return res.RowsAffected, res.Error
}
