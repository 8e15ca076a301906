package services

import (
	"errors"
	"math/rand"

	"github.com/google/uuid"
)

var (
	ErrInsufficientParticipants = errors.New("at least 2 participants are required for matching")
	ErrMatchingFailed           = errors.New("could not find a valid assignment, try again")
)

// matchingAttempts bounds the rejection sampling. A random permutation of
// N >= 2 elements is a derangement with probability approaching 1/e, so
// exhausting this bound is astronomically unlikely.
const matchingAttempts = 1000

// MatchingService produces the giver-to-receiver assignment: a random
// bijection over the participant set with no participant assigned to
// themselves.
type MatchingService struct {
	// rng, when set, replaces the locked global source. Only the seeded
	// constructor sets it; a seeded service is not safe for concurrent use.
	rng *rand.Rand
}

func NewMatchingService() *MatchingService {
	return &MatchingService{}
}

// NewMatchingServiceWithSeed fixes the random source, for tests.
func NewMatchingServiceWithSeed(seed int64) *MatchingService {
	return &MatchingService{rng: rand.New(rand.NewSource(seed))}
}

func (s *MatchingService) shuffle(ids []uuid.UUID) {
	swap := func(i, j int) {
		ids[i], ids[j] = ids[j], ids[i]
	}
	if s.rng != nil {
		s.rng.Shuffle(len(ids), swap)
		return
	}
	rand.Shuffle(len(ids), swap)
}

// Pairs draws random permutations until one has no fixed point and returns
// it as a giver-to-receiver map. Fails with ErrInsufficientParticipants for
// fewer than two ids, ErrMatchingFailed if the attempt bound is exhausted;
// the latter is transient and a fresh call may succeed.
func (s *MatchingService) Pairs(ids []uuid.UUID) (map[uuid.UUID]uuid.UUID, error) {
	if len(ids) < 2 {
		return nil, ErrInsufficientParticipants
	}

	shuffled := make([]uuid.UUID, len(ids))
	copy(shuffled, ids)

	for attempt := 0; attempt < matchingAttempts; attempt++ {
		s.shuffle(shuffled)
		if hasFixedPoint(ids, shuffled) {
			continue
		}
		pairs := make(map[uuid.UUID]uuid.UUID, len(ids))
		for i, giver := range ids {
			pairs[giver] = shuffled[i]
		}
		return pairs, nil
	}
	return nil, ErrMatchingFailed
}

func hasFixedPoint(original, shuffled []uuid.UUID) bool {
	for i := range original {
		if original[i] == shuffled[i] {
			return true
		}
	}
	return false
}
