package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/riskibarqy/fanbet/internal/domain/bet"
)

// BetRepository settles bets and credits scores on the shared UserRepository.
type BetRepository struct {
	mu     sync.RWMutex
	items  map[string]bet.Bet
	byPair map[string]string
	users  *UserRepository
}

func NewBetRepository(users *UserRepository) *BetRepository {
	if users == nil {
		users = NewUserRepository(nil)
	}
	return &BetRepository{
		items:  make(map[string]bet.Bet),
		byPair: make(map[string]string),
		users:  users,
	}
}

func (r *BetRepository) GetByUserAndFixture(_ context.Context, userID, fixtureID string) (bet.Bet, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byPair[betKey(userID, fixtureID)]
	if !ok {
		return bet.Bet{}, false, nil
	}
	return cloneBet(r.items[id]), true, nil
}

func (r *BetRepository) Create(_ context.Context, item bet.Bet) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := betKey(item.UserID, item.FixtureID)
	if _, ok := r.byPair[key]; ok {
		return bet.ErrDuplicate
	}
	if item.Status == "" {
		item.Status = bet.StatusPending
	}
	r.items[item.ID] = cloneBet(item)
	r.byPair[key] = item.ID
	return nil
}

func (r *BetRepository) MarkEvaluated(_ context.Context, evaluation bet.Evaluation) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	item, ok := r.items[evaluation.BetID]
	if !ok {
		return false, fmt.Errorf("bet not found: %s", evaluation.BetID)
	}
	if item.Status == bet.StatusEvaluated {
		return false, nil
	}

	evaluatedAt := evaluation.EvaluatedAt
	item.Status = bet.StatusEvaluated
	item.Points = evaluation.Points
	item.EvaluatedAt = &evaluatedAt
	r.items[item.ID] = item

	r.users.addScore(item.UserID, evaluation.CompetitionID, evaluation.Season, evaluation.Points, evaluatedAt)
	return true, nil
}

func betKey(userID, fixtureID string) string {
	return userID + "::" + fixtureID
}

func cloneBet(b bet.Bet) bet.Bet {
	copied := b
	if b.PredictedScorerID != nil {
		v := *b.PredictedScorerID
		copied.PredictedScorerID = &v
	}
	if b.EvaluatedAt != nil {
		v := *b.EvaluatedAt
		copied.EvaluatedAt = &v
	}
	return copied
}
