package bet

import (
	"errors"
	"time"
)

var ErrDuplicate = errors.New("bet already exists for user and fixture")

type Status string

const (
	StatusPending   Status = "pending"
	StatusEvaluated Status = "evaluated"
)

// Bet is one user's prediction for one fixture. Points and Status never change once evaluated.
type Bet struct {
	ID                string
	UserID            string
	FixtureID         string
	PredictedHome     int
	PredictedAway     int
	PredictedScorerID *int64
	Status            Status
	Points            int
	CreatedAt         time.Time
	EvaluatedAt       *time.Time
}

func (b Bet) IsEvaluated() bool {
	return b.Status == StatusEvaluated
}

// Evaluation is the atomic write that settles a bet and credits the owner's competition score.
type Evaluation struct {
	BetID         string
	UserID        string
	Points        int
	CompetitionID int64
	Season        int
	EvaluatedAt   time.Time
}
