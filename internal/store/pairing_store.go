package store

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	"secret-santa-backend/internal/models"
)

// PairingStore holds one generation of pairings per room. Replacement is
// whole-set: a redraw deletes the room's pairings and inserts the next
// generation in the same transaction, so readers never see a mix of two
// generations.
type PairingStore struct {
	db *gorm.DB
}

func NewPairingStore(db *gorm.DB) *PairingStore {
	return &PairingStore{db: db}
}

// WithTx returns a store bound to the given transaction.
func (s *PairingStore) WithTx(tx *gorm.DB) *PairingStore {
	return &PairingStore{db: tx}
}

func (s *PairingStore) ListByRoom(roomID uuid.UUID) ([]models.Pairing, error) {
	var pairings []models.Pairing
	if err := s.db.Where("room_id = ?", roomID).Find(&pairings).Error; err != nil {
		return nil, err
	}
	return pairings, nil
}

func (s *PairingStore) GetByRoomAndGiver(roomID, giverID uuid.UUID) (*models.Pairing, error) {
	var pairing models.Pairing
	if err := s.db.Where("room_id = ? AND giver_id = ?", roomID, giverID).
		First(&pairing).Error; err != nil {
		return nil, err
	}
	return &pairing, nil
}

// NextGeneration returns the generation number a fresh draw should carry.
func (s *PairingStore) NextGeneration(roomID uuid.UUID) (int, error) {
	var current int
	err := s.db.Model(&models.Pairing{}).
		Where("room_id = ?", roomID).
		Select("COALESCE(MAX(generation), 0)").
		Scan(&current).Error
	if err != nil {
		return 0, err
	}
	return current + 1, nil
}

// ReplaceForRoom swaps the room's pairing set for the given one. Callers run
// this inside a transaction together with the room's stage update.
func (s *PairingStore) ReplaceForRoom(roomID uuid.UUID, pairings []models.Pairing) error {
	if err := s.db.Where("room_id = ?", roomID).Delete(&models.Pairing{}).Error; err != nil {
		return err
	}
	if len(pairings) == 0 {
		return nil
	}
	return s.db.Create(&pairings).Error
}
