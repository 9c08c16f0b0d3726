package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/riskibarqy/fanbet/internal/domain/bet"
	"github.com/riskibarqy/fanbet/internal/domain/fixture"
	"github.com/riskibarqy/fanbet/internal/domain/group"
	"github.com/riskibarqy/fanbet/internal/domain/user"
	"github.com/riskibarqy/fanbet/internal/platform/logging"
)

type EvaluateBetsInput struct {
	Fixture fixture.Fixture
	Group   group.Group
	Users   []user.User
}

type EvaluationSummary struct {
	FixtureID     string `json:"fixture_id"`
	Derby         bool   `json:"derby"`
	Evaluated     int    `json:"evaluated"`
	AlreadyScored int    `json:"already_scored"`
	WithoutBet    int    `json:"without_bet"`
	PointsAwarded int    `json:"points_awarded"`
}

type BetEvaluator struct {
	betRepo bet.Repository
	logger  *logging.Logger
	now     func() time.Time
}

func NewBetEvaluator(betRepo bet.Repository, logger *logging.Logger) *BetEvaluator {
	if logger == nil {
		logger = logging.Default()
	}
	return &BetEvaluator{
		betRepo: betRepo,
		logger:  logger,
		now:     time.Now,
	}
}

// Evaluate settles every pending bet the users placed on a finished fixture.
// Bets that were already settled are skipped, so re-running after a partial failure is safe.
func (e *BetEvaluator) Evaluate(ctx context.Context, input EvaluateBetsInput) (EvaluationSummary, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.BetEvaluator.Evaluate")
	defer span.End()

	item := input.Fixture
	if item.ID == "" {
		return EvaluationSummary{}, fmt.Errorf("%w: fixture id is required", ErrInvalidInput)
	}
	if !item.Status.IsFinished() {
		return EvaluationSummary{}, fmt.Errorf("%w: fixture=%s status=%s is not finished", ErrInvalidInput, item.ID, item.Status)
	}
	home, away, ok := item.FinalScore()
	if !ok {
		return EvaluationSummary{}, &DataAvailabilityFault{FixtureExternalID: item.ExternalID, Reason: "finished fixture has no final score"}
	}

	rivals := input.Group.FollowedTeam
	derby := rivals.IsRival(item.Home.TeamID) || rivals.IsRival(item.Away.TeamID)
	result := bet.Result{Home: home, Away: away, Events: item.Events}
	summary := EvaluationSummary{FixtureID: item.ID, Derby: derby}

	for _, member := range input.Users {
		placed, exists, err := e.betRepo.GetByUserAndFixture(ctx, member.ID, item.ID)
		if err != nil {
			return summary, persistenceFault("get bet", err)
		}
		if !exists {
			summary.WithoutBet++
			continue
		}
		if placed.IsEvaluated() {
			summary.AlreadyScored++
			continue
		}

		breakdown := bet.Score(placed, result, derby)
		applied, err := e.betRepo.MarkEvaluated(ctx, bet.Evaluation{
			BetID:         placed.ID,
			UserID:        placed.UserID,
			Points:        breakdown.Total,
			CompetitionID: item.CompetitionID,
			Season:        item.Season,
			EvaluatedAt:   e.now().UTC(),
		})
		if err != nil {
			return summary, persistenceFault("mark bet evaluated", err)
		}
		if !applied {
			summary.AlreadyScored++
			continue
		}

		summary.Evaluated++
		summary.PointsAwarded += breakdown.Total
		e.logger.DebugContext(ctx, "bet evaluated",
			"bet_id", placed.ID,
			"user_id", placed.UserID,
			"fixture_id", item.ID,
			"score_points", breakdown.ScorePoints,
			"scorer_bonus", breakdown.ScorerBonus,
			"derby_applied", breakdown.DerbyApplied,
			"points", breakdown.Total,
		)
	}

	e.logger.InfoContext(ctx, "fixture bets evaluated",
		"group_id", input.Group.ID,
		"fixture_id", item.ID,
		"evaluated", summary.Evaluated,
		"already_scored", summary.AlreadyScored,
		"points_awarded", summary.PointsAwarded,
	)
	return summary, nil
}
