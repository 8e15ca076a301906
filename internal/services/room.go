package services

import (
	"errors"
	"math/rand"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"secret-santa-backend/internal/models"
	"secret-santa-backend/internal/store"
)

var (
	ErrRoomNotFound        = errors.New("room not found")
	ErrParticipantNotFound = errors.New("participant not found")
	ErrRoomLocked          = errors.New("room is locked, new members cannot join")
	ErrRoomRevealed        = errors.New("pairings are already revealed")
	ErrNotMatched          = errors.New("pairings have not been generated yet")
	ErrInvalidBudget       = errors.New("budget minimum must be non-negative and not exceed the maximum")
	ErrEmptyName           = errors.New("name must not be empty")
	ErrCodeSpaceExhausted  = errors.New("could not allocate a unique room code, try again")
)

const (
	codeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	codeLength   = 6
	codeAttempts = 100
)

// RoomService coordinates the gift exchange: room lifecycle, joins and
// name-based reconnection, preference updates, pairing generation and reveal.
type RoomService struct {
	db           *gorm.DB
	rooms        *store.RoomStore
	participants *store.ParticipantStore
	pairings     *store.PairingStore
	matching     *MatchingService
}

func NewRoomService(db *gorm.DB) *RoomService {
	return &RoomService{
		db:           db,
		rooms:        store.NewRoomStore(db),
		participants: store.NewParticipantStore(db),
		pairings:     store.NewPairingStore(db),
		matching:     NewMatchingService(),
	}
}

// CreateRoom opens a room and creates its host participant in one step.
func (s *RoomService) CreateRoom(hostName string, budgetMin, budgetMax int, allowHandmade bool) (*models.Room, *models.Participant, error) {
	name := strings.TrimSpace(hostName)
	if name == "" {
		return nil, nil, ErrEmptyName
	}
	if budgetMin < 0 || budgetMax < budgetMin {
		return nil, nil, ErrInvalidBudget
	}

	var room *models.Room
	var host *models.Participant
	err := s.db.Transaction(func(tx *gorm.DB) error {
		hostID := uuid.New()
		room = &models.Room{
			ID:            uuid.New(),
			HostID:        hostID,
			BudgetMin:     budgetMin,
			BudgetMax:     budgetMax,
			AllowHandmade: allowHandmade,
			Locked:        false,
			Stage:         models.RoomStageOpen,
			CreatedAt:     time.Now(),
		}
		if err := s.insertRoomWithUniqueCode(tx, room); err != nil {
			return err
		}

		host = &models.Participant{
			ID:       hostID,
			RoomID:   room.ID,
			Name:     name,
			NameKey:  models.NameKey(name),
			IsHost:   true,
			JoinedAt: time.Now(),
		}
		return s.participants.WithTx(tx).Create(host)
	})
	if err != nil {
		return nil, nil, err
	}

	logrus.WithFields(logrus.Fields{
		"room_id": room.ID,
		"code":    room.Code,
	}).Info("room created")
	return room, host, nil
}

// JoinRoom resolves a join code and name. A name that matches an existing
// participant (case-insensitively) reconnects as that participant, host
// included, regardless of lock state. New names are admitted only while the
// room is unlocked.
func (s *RoomService) JoinRoom(code, name string) (*models.Room, *models.Participant, error) {
	cleanName := strings.TrimSpace(name)
	if cleanName == "" {
		return nil, nil, ErrEmptyName
	}

	room, err := s.rooms.GetByCode(code)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrRoomNotFound
		}
		return nil, nil, err
	}

	var participant *models.Participant
	err = s.db.Transaction(func(tx *gorm.DB) error {
		participants := s.participants.WithTx(tx)

		existing, err := participants.GetByRoomAndName(room.ID, cleanName)
		if err == nil {
			participant = existing
			return nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		// The copy fetched by the code lookup may predate a concurrent
		// lock, so the lock state is re-read inside the transaction.
		current, err := s.rooms.WithTx(tx).GetByID(room.ID)
		if err != nil {
			return err
		}
		if current.Locked {
			return ErrRoomLocked
		}

		participant = &models.Participant{
			ID:       uuid.New(),
			RoomID:   room.ID,
			Name:     cleanName,
			NameKey:  models.NameKey(cleanName),
			JoinedAt: time.Now(),
		}
		return participants.Create(participant)
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			// Lost a same-name race: the earlier insert owns the identity,
			// so resume it the way a reconnection would.
			if existing, lookupErr := s.participants.GetByRoomAndName(room.ID, cleanName); lookupErr == nil {
				return room, existing, nil
			}
		}
		return nil, nil, err
	}
	return room, participant, nil
}

// GetRoomState is the polling query: the room and its full roster.
func (s *RoomService) GetRoomState(roomID uuid.UUID) (*models.Room, []models.Participant, error) {
	room, err := s.getRoom(roomID)
	if err != nil {
		return nil, nil, err
	}
	participants, err := s.participants.ListByRoom(roomID)
	if err != nil {
		return nil, nil, err
	}
	return room, participants, nil
}

// ProfileUpdate is a partial preference change; nil fields are left as-is.
type ProfileUpdate struct {
	Color    *string `json:"color"`
	Occasion *string `json:"occasion"`
	Feeling  *string `json:"feeling"`
}

// UpdateProfile merges the update and recomputes readiness: a participant is
// ready exactly when all three preference fields are non-empty. Clearing a
// field un-readies them again.
func (s *RoomService) UpdateProfile(participantID uuid.UUID, update ProfileUpdate) (*models.Participant, error) {
	participant, err := s.participants.GetByID(participantID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrParticipantNotFound
		}
		return nil, err
	}

	if update.Color != nil {
		participant.Color = *update.Color
	}
	if update.Occasion != nil {
		participant.Occasion = *update.Occasion
	}
	if update.Feeling != nil {
		participant.Feeling = *update.Feeling
	}
	participant.IsReady = strings.TrimSpace(participant.Color) != "" &&
		strings.TrimSpace(participant.Occasion) != "" &&
		strings.TrimSpace(participant.Feeling) != ""

	if err := s.participants.Save(participant); err != nil {
		return nil, err
	}
	return participant, nil
}

// LockRoom stops new joins. Idempotent; the lock never reopens.
func (s *RoomService) LockRoom(roomID uuid.UUID) error {
	if _, err := s.getRoom(roomID); err != nil {
		return err
	}
	return s.rooms.Lock(roomID)
}

// GeneratePairing draws a fresh assignment for the room's roster and installs
// it as the current generation, locking the room and moving it to the matched
// stage. Calling it again redraws; once revealed, redraws are rejected.
func (s *RoomService) GeneratePairing(roomID uuid.UUID) error {
	room, err := s.getRoom(roomID)
	if err != nil {
		return err
	}
	if room.Stage == models.RoomStageRevealed {
		return ErrRoomRevealed
	}

	participants, err := s.participants.ListByRoom(roomID)
	if err != nil {
		return err
	}
	ids := make([]uuid.UUID, len(participants))
	for i, p := range participants {
		ids[i] = p.ID
	}

	pairs, err := s.matching.Pairs(ids)
	if err != nil {
		return err
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		// The stage transition goes first: its guard re-checks the reveal
		// state against the current row, and the row lock it takes
		// serializes concurrent draws for the same room. A reveal that
		// slipped in since the read above must not be overwritten.
		changed, err := s.rooms.WithTx(tx).MarkMatched(roomID)
		if err != nil {
			return err
		}
		if changed == 0 {
			return ErrRoomRevealed
		}

		pairings := s.pairings.WithTx(tx)
		generation, err := pairings.NextGeneration(roomID)
		if err != nil {
			return err
		}

		set := make([]models.Pairing, 0, len(pairs))
		for giver, receiver := range pairs {
			set = append(set, models.Pairing{
				RoomID:     roomID,
				GiverID:    giver,
				ReceiverID: receiver,
				Generation: generation,
				CreatedAt:  time.Now(),
			})
		}
		return pairings.ReplaceForRoom(roomID, set)
	})
	if err != nil {
		return err
	}

	logrus.WithFields(logrus.Fields{
		"room_id":      roomID,
		"participants": len(ids),
	}).Info("pairings generated")
	return nil
}

// GetMyPairing returns the receiver assigned to the given giver, or nil if no
// pairing exists yet.
func (s *RoomService) GetMyPairing(roomID, participantID uuid.UUID) (*models.Participant, error) {
	pairing, err := s.pairings.GetByRoomAndGiver(roomID, participantID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	receiver, err := s.participants.GetByID(pairing.ReceiverID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrParticipantNotFound
		}
		return nil, err
	}
	return receiver, nil
}

// PairingPair is one resolved giver/receiver edge of the current generation.
type PairingPair struct {
	Giver    models.Participant `json:"giver"`
	Receiver models.Participant `json:"receiver"`
}

func (s *RoomService) GetAllPairings(roomID uuid.UUID) ([]PairingPair, error) {
	if _, err := s.getRoom(roomID); err != nil {
		return nil, err
	}

	pairings, err := s.pairings.ListByRoom(roomID)
	if err != nil {
		return nil, err
	}
	participants, err := s.participants.ListByRoom(roomID)
	if err != nil {
		return nil, err
	}

	byID := make(map[uuid.UUID]models.Participant, len(participants))
	for _, p := range participants {
		byID[p.ID] = p
	}

	pairs := make([]PairingPair, 0, len(pairings))
	for _, pairing := range pairings {
		giver, ok := byID[pairing.GiverID]
		if !ok {
			continue
		}
		receiver, ok := byID[pairing.ReceiverID]
		if !ok {
			continue
		}
		pairs = append(pairs, PairingPair{Giver: giver, Receiver: receiver})
	}
	return pairs, nil
}

// RevealRoom publishes the pairings. Repeat reveals are no-ops; revealing
// before any pairing exists is rejected.
func (s *RoomService) RevealRoom(roomID uuid.UUID) error {
	if _, err := s.getRoom(roomID); err != nil {
		return err
	}
	changed, err := s.rooms.MarkRevealed(roomID)
	if err != nil {
		return err
	}
	if changed > 0 {
		return nil
	}
	room, err := s.getRoom(roomID)
	if err != nil {
		return err
	}
	if room.Stage == models.RoomStageRevealed {
		return nil
	}
	return ErrNotMatched
}

func (s *RoomService) getRoom(roomID uuid.UUID) (*models.Room, error) {
	room, err := s.rooms.GetByID(roomID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRoomNotFound
		}
		return nil, err
	}
	return room, nil
}

// insertRoomWithUniqueCode draws join codes until an insert lands. Each
// insert runs in a savepoint, so a duplicate-key collision with a concurrent
// create consumes a retry attempt instead of aborting the enclosing
// transaction.
func (s *RoomService) insertRoomWithUniqueCode(tx *gorm.DB, room *models.Room) error {
	rooms := s.rooms.WithTx(tx)
	for attempt := 0; attempt < codeAttempts; attempt++ {
		room.Code = randomCode()
		exists, err := rooms.CodeExists(room.Code)
		if err != nil {
			return err
		}
		if exists {
			continue
		}
		err = tx.Transaction(func(inner *gorm.DB) error {
			return s.rooms.WithTx(inner).Create(room)
		})
		if err == nil {
			return nil
		}
		if !errors.Is(err, gorm.ErrDuplicatedKey) {
			return err
		}
	}
	return ErrCodeSpaceExhausted
}

func randomCode() string {
	b := make([]byte, codeLength)
	for i := range b {
		b[i] = codeAlphabet[rand.Intn(len(codeAlphabet))]
	}
	return string(b)
}
