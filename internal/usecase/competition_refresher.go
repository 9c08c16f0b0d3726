package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/riskibarqy/fanbet/internal/domain/competition"
	"github.com/riskibarqy/fanbet/internal/domain/group"
	"github.com/riskibarqy/fanbet/internal/platform/logging"
)

const defaultRefresherPoolSize = 2

type RefreshCompetitionInput struct {
	Group         group.Group
	CompetitionID int64
	Season        int
}

type CompetitionRefresherConfig struct {
	PoolSize int
}

type CompetitionRefresher struct {
	provider        SportsDataClient
	competitionRepo competition.Repository
	cfg             CompetitionRefresherConfig
	logger          *logging.Logger
	now             func() time.Time
}

func NewCompetitionRefresher(
	provider SportsDataClient,
	competitionRepo competition.Repository,
	cfg CompetitionRefresherConfig,
	logger *logging.Logger,
) *CompetitionRefresher {
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.PoolSize <= 0 {
		cfg.PoolSize = defaultRefresherPoolSize
	}
	return &CompetitionRefresher{
		provider:        provider,
		competitionRepo: competitionRepo,
		cfg:             cfg,
		logger:          logger,
		now:             time.Now,
	}
}

// Refresh overwrites the standings and the followed team's roster for one competition season.
// Both snapshots are attempted even when one of them fails.
func (r *CompetitionRefresher) Refresh(ctx context.Context, input RefreshCompetitionInput) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.CompetitionRefresher.Refresh")
	defer span.End()

	if input.CompetitionID <= 0 || input.Season <= 0 {
		return fmt.Errorf("%w: competition id and season are required", ErrInvalidInput)
	}
	teamID := input.Group.FollowedTeam.ExternalID

	pool, err := ants.NewPool(r.cfg.PoolSize)
	if err != nil {
		return fmt.Errorf("create refresher pool: %w", err)
	}
	defer pool.Release()

	tasks := []func(context.Context) error{
		func(ctx context.Context) error {
			return r.refreshStandings(ctx, input.CompetitionID, input.Season)
		},
	}
	if teamID > 0 {
		tasks = append(tasks, func(ctx context.Context) error {
			return r.refreshRoster(ctx, teamID, input.CompetitionID, input.Season)
		})
	}

	var (
		workers sync.WaitGroup
		mu      sync.Mutex
		errs    []error
	)
	for _, task := range tasks {
		workers.Add(1)
		if err := pool.Submit(func() {
			defer workers.Done()
			if err := task(ctx); err != nil {
				mu.Lock()
				errs = append(errs, err)
				mu.Unlock()
			}
		}); err != nil {
			workers.Done()
			mu.Lock()
			errs = append(errs, fmt.Errorf("submit refresh task: %w", err))
			mu.Unlock()
		}
	}
	workers.Wait()

	if err := errors.Join(errs...); err != nil {
		return err
	}

	r.logger.InfoContext(ctx, "competition refreshed",
		"group_id", input.Group.ID,
		"competition_id", input.CompetitionID,
		"season", input.Season,
	)
	return nil
}

func (r *CompetitionRefresher) refreshStandings(ctx context.Context, competitionID int64, season int) error {
	rows, err := r.provider.FetchStandings(ctx, competitionID, season)
	if err != nil {
		return fmt.Errorf("fetch standings competition=%d season=%d: %w", competitionID, season, err)
	}
	if err := r.competitionRepo.ReplaceStandings(ctx, competitionID, season, rows, r.now().UTC()); err != nil {
		return persistenceFault("replace standings", err)
	}
	return nil
}

func (r *CompetitionRefresher) refreshRoster(ctx context.Context, teamID, competitionID int64, season int) error {
	players, err := r.provider.FetchPlayers(ctx, teamID, competitionID, season)
	if err != nil {
		return fmt.Errorf("fetch players team=%d competition=%d season=%d: %w", teamID, competitionID, season, err)
	}
	if err := r.competitionRepo.ReplaceRoster(ctx, competitionID, season, teamID, players, r.now().UTC()); err != nil {
		return persistenceFault("replace roster", err)
	}
	return nil
}
