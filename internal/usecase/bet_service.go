package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/riskibarqy/fanbet/internal/domain/bet"
	"github.com/riskibarqy/fanbet/internal/domain/fixture"
	"github.com/riskibarqy/fanbet/internal/domain/user"
	"github.com/riskibarqy/fanbet/internal/platform/id"
)

type PlaceBetInput struct {
	UserID            string
	FixtureID         string
	PredictedHome     int
	PredictedAway     int
	PredictedScorerID *int64
}

type BetService struct {
	betRepo     bet.Repository
	fixtureRepo fixture.Repository
	userRepo    user.Repository
	ids         id.Generator
	now         func() time.Time
}

func NewBetService(betRepo bet.Repository, fixtureRepo fixture.Repository, userRepo user.Repository, ids id.Generator) *BetService {
	if ids == nil {
		ids = id.NewUUIDGenerator()
	}
	return &BetService{
		betRepo:     betRepo,
		fixtureRepo: fixtureRepo,
		userRepo:    userRepo,
		ids:         ids,
		now:         time.Now,
	}
}

// PlaceBet records a prediction. Bets close once the fixture leaves not-started or its
// kickoff time has passed.
func (s *BetService) PlaceBet(ctx context.Context, input PlaceBetInput) (bet.Bet, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.BetService.PlaceBet")
	defer span.End()

	input.UserID = strings.TrimSpace(input.UserID)
	input.FixtureID = strings.TrimSpace(input.FixtureID)
	if input.UserID == "" || input.FixtureID == "" {
		return bet.Bet{}, fmt.Errorf("%w: user id and fixture id are required", ErrInvalidInput)
	}
	if input.PredictedHome < 0 || input.PredictedAway < 0 {
		return bet.Bet{}, fmt.Errorf("%w: predicted scores must be >= 0", ErrInvalidInput)
	}
	if input.PredictedScorerID != nil && *input.PredictedScorerID <= 0 {
		return bet.Bet{}, fmt.Errorf("%w: predicted scorer id must be > 0", ErrInvalidInput)
	}

	if _, exists, err := s.userRepo.GetByID(ctx, input.UserID); err != nil {
		return bet.Bet{}, fmt.Errorf("get user: %w", err)
	} else if !exists {
		return bet.Bet{}, fmt.Errorf("%w: user=%s", ErrNotFound, input.UserID)
	}

	item, exists, err := s.fixtureRepo.GetByID(ctx, input.FixtureID)
	if err != nil {
		return bet.Bet{}, fmt.Errorf("get fixture: %w", err)
	}
	if !exists {
		return bet.Bet{}, fmt.Errorf("%w: fixture=%s", ErrNotFound, input.FixtureID)
	}

	now := s.now().UTC()
	if item.Status != fixture.StatusNotStarted || !item.Date.After(now) {
		return bet.Bet{}, fmt.Errorf("%w: fixture=%s is closed for bets", ErrInvalidInput, input.FixtureID)
	}

	if _, exists, err := s.betRepo.GetByUserAndFixture(ctx, input.UserID, input.FixtureID); err != nil {
		return bet.Bet{}, fmt.Errorf("get existing bet: %w", err)
	} else if exists {
		return bet.Bet{}, fmt.Errorf("%w: user=%s already bet on fixture=%s", ErrConflict, input.UserID, input.FixtureID)
	}

	betID, err := s.ids.NewID()
	if err != nil {
		return bet.Bet{}, fmt.Errorf("generate bet id: %w", err)
	}
	placed := bet.Bet{
		ID:                betID,
		UserID:            input.UserID,
		FixtureID:         input.FixtureID,
		PredictedHome:     input.PredictedHome,
		PredictedAway:     input.PredictedAway,
		PredictedScorerID: input.PredictedScorerID,
		Status:            bet.StatusPending,
		CreatedAt:         now,
	}
	if err := s.betRepo.Create(ctx, placed); err != nil {
		if errors.Is(err, bet.ErrDuplicate) {
			return bet.Bet{}, fmt.Errorf("%w: user=%s already bet on fixture=%s", ErrConflict, input.UserID, input.FixtureID)
		}
		return bet.Bet{}, fmt.Errorf("create bet: %w", err)
	}

	return placed, nil
}

func (s *BetService) FindBet(ctx context.Context, userID, fixtureID string) (bet.Bet, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.BetService.FindBet")
	defer span.End()

	userID = strings.TrimSpace(userID)
	fixtureID = strings.TrimSpace(fixtureID)
	if userID == "" || fixtureID == "" {
		return bet.Bet{}, fmt.Errorf("%w: user id and fixture id are required", ErrInvalidInput)
	}

	item, exists, err := s.betRepo.GetByUserAndFixture(ctx, userID, fixtureID)
	if err != nil {
		return bet.Bet{}, fmt.Errorf("get bet: %w", err)
	}
	if !exists {
		return bet.Bet{}, fmt.Errorf("%w: bet user=%s fixture=%s", ErrNotFound, userID, fixtureID)
	}
	return item, nil
}
