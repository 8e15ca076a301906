package store

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	"secret-santa-backend/internal/models"
)

// ParticipantStore is the keyed participant collection: lookup by id and by
// (room, name). The unique index on (room_id, name_key) backs the in-room
// name uniqueness invariant, so a colliding insert fails instead of
// overwriting.
type ParticipantStore struct {
	db *gorm.DB
}

func NewParticipantStore(db *gorm.DB) *ParticipantStore {
	return &ParticipantStore{db: db}
}

// WithTx returns a store bound to the given transaction.
func (s *ParticipantStore) WithTx(tx *gorm.DB) *ParticipantStore {
	return &ParticipantStore{db: tx}
}

func (s *ParticipantStore) Create(participant *models.Participant) error {
	return s.db.Create(participant).Error
}

func (s *ParticipantStore) GetByID(id uuid.UUID) (*models.Participant, error) {
	var participant models.Participant
	if err := s.db.Where("id = ?", id).First(&participant).Error; err != nil {
		return nil, err
	}
	return &participant, nil
}

// GetByRoomAndName matches the display name case-insensitively within a room.
func (s *ParticipantStore) GetByRoomAndName(roomID uuid.UUID, name string) (*models.Participant, error) {
	var participant models.Participant
	if err := s.db.Where("room_id = ? AND name_key = ?", roomID, models.NameKey(name)).
		First(&participant).Error; err != nil {
		return nil, err
	}
	return &participant, nil
}

func (s *ParticipantStore) ListByRoom(roomID uuid.UUID) ([]models.Participant, error) {
	var participants []models.Participant
	if err := s.db.Where("room_id = ?", roomID).
		Order("joined_at ASC").
		Find(&participants).Error; err != nil {
		return nil, err
	}
	return participants, nil
}

func (s *ParticipantStore) Save(participant *models.Participant) error {
	return s.db.Save(participant).Error
}
