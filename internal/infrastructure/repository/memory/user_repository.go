package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/riskibarqy/fanbet/internal/domain/user"
)

type UserRepository struct {
	mu     sync.RWMutex
	items  map[string]user.User
	scores map[string]user.CompetitionScore
}

func NewUserRepository(users []user.User) *UserRepository {
	items := make(map[string]user.User, len(users))
	for _, item := range users {
		items[item.ID] = item
	}
	return &UserRepository{items: items, scores: make(map[string]user.CompetitionScore)}
}

func (r *UserRepository) GetByID(_ context.Context, userID string) (user.User, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.items[userID]
	return item, ok, nil
}

func (r *UserRepository) ListByGroup(_ context.Context, groupID string) ([]user.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]user.User, 0)
	for _, item := range r.items {
		if item.GroupID == groupID {
			out = append(out, item)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *UserRepository) ListCompetitionScores(_ context.Context, userID string) ([]user.CompetitionScore, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]user.CompetitionScore, 0)
	for _, score := range r.scores {
		if score.UserID == userID {
			out = append(out, score)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Season != out[j].Season {
			return out[i].Season > out[j].Season
		}
		return out[i].CompetitionID < out[j].CompetitionID
	})
	return out, nil
}

// addScore creates the competition score on first award and adds to it afterwards.
func (r *UserRepository) addScore(userID string, competitionID int64, season, points int, at time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := scoreKey(userID, competitionID, season)
	score, ok := r.scores[key]
	if !ok {
		score = user.CompetitionScore{UserID: userID, CompetitionID: competitionID, Season: season}
	}
	score.Points += points
	score.UpdatedAt = at
	r.scores[key] = score
}

func scoreKey(userID string, competitionID int64, season int) string {
	return fmt.Sprintf("%s::%d::%d", userID, competitionID, season)
}
