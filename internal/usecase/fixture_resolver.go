package usecase

import (
	"cmp"
	"context"
	"fmt"
	"slices"

	"github.com/riskibarqy/fanbet/internal/domain/fixture"
	"github.com/riskibarqy/fanbet/internal/platform/logging"
	"github.com/sourcegraph/conc/pool"
)

const defaultResolverConcurrency = 4

type ResolveFixtureInput struct {
	TeamID         int64
	Season         int
	CompetitionIDs []int64
}

type FixtureResolverConfig struct {
	MaxConcurrency int
}

type FixtureResolver struct {
	provider SportsDataClient
	cfg      FixtureResolverConfig
	logger   *logging.Logger
}

func NewFixtureResolver(provider SportsDataClient, cfg FixtureResolverConfig, logger *logging.Logger) *FixtureResolver {
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.MaxConcurrency <= 0 {
		cfg.MaxConcurrency = defaultResolverConcurrency
	}
	return &FixtureResolver{
		provider: provider,
		cfg:      cfg,
		logger:   logger,
	}
}

// FindUpcoming returns the soonest playable fixture across the team's competitions.
// When every nearest fixture is postponed or cancelled it retries with the second nearest.
// found=false is the normal end-of-season state.
func (r *FixtureResolver) FindUpcoming(ctx context.Context, input ResolveFixtureInput) (fixture.Fixture, bool, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.FixtureResolver.FindUpcoming")
	defer span.End()

	if input.TeamID <= 0 {
		return fixture.Fixture{}, false, fmt.Errorf("%w: team id is required", ErrInvalidInput)
	}
	competitionIDs := uniqueCompetitionIDs(input.CompetitionIDs)
	if len(competitionIDs) == 0 {
		return fixture.Fixture{}, false, nil
	}

	for _, rank := range []int{1, 2} {
		candidates, err := r.collectCandidates(ctx, input.TeamID, input.Season, competitionIDs, rank)
		if err != nil {
			return fixture.Fixture{}, false, err
		}
		if best, ok := pickSoonest(candidates); ok {
			return best, true, nil
		}
		r.logger.DebugContext(ctx, "no playable fixture at rank",
			"team_id", input.TeamID,
			"season", input.Season,
			"rank", rank,
		)
	}

	return fixture.Fixture{}, false, nil
}

// collectCandidates asks every competition for its rank-th next fixture concurrently.
func (r *FixtureResolver) collectCandidates(ctx context.Context, teamID int64, season int, competitionIDs []int64, rank int) ([]fixture.Fixture, error) {
	p := pool.NewWithResults[[]fixture.Fixture]().
		WithMaxGoroutines(r.cfg.MaxConcurrency).
		WithContext(ctx).
		WithCancelOnError()

	for _, competitionID := range competitionIDs {
		p.Go(func(ctx context.Context) ([]fixture.Fixture, error) {
			items, err := r.provider.FetchFixtures(ctx, FixtureQuery{
				TeamID:        teamID,
				CompetitionID: competitionID,
				Season:        season,
				Next:          rank,
			})
			if err != nil {
				return nil, fmt.Errorf("fetch next fixtures competition=%d rank=%d: %w", competitionID, rank, err)
			}
			if len(items) < rank {
				return nil, nil
			}

			candidate := items[rank-1]
			if candidate.CompetitionID == 0 {
				candidate.CompetitionID = competitionID
			}
			if candidate.Season == 0 {
				candidate.Season = season
			}
			return []fixture.Fixture{candidate}, nil
		})
	}

	results, err := p.Wait()
	if err != nil {
		return nil, err
	}

	out := make([]fixture.Fixture, 0, len(results))
	for _, items := range results {
		for _, item := range items {
			if !item.Status.Valid() {
				return nil, &UnknownStatusCodeError{Code: string(item.Status), FixtureExternalID: item.ExternalID}
			}
			if item.Status.IsPostponedOrCancelled() {
				continue
			}
			out = append(out, item)
		}
	}
	return out, nil
}

// pickSoonest orders by date, then competition id, then external fixture id.
func pickSoonest(candidates []fixture.Fixture) (fixture.Fixture, bool) {
	if len(candidates) == 0 {
		return fixture.Fixture{}, false
	}
	best := slices.MinFunc(candidates, compareCandidates)
	return best, true
}

func compareCandidates(a, b fixture.Fixture) int {
	if c := a.Date.Compare(b.Date); c != 0 {
		return c
	}
	if c := cmp.Compare(a.CompetitionID, b.CompetitionID); c != 0 {
		return c
	}
	return cmp.Compare(a.ExternalID, b.ExternalID)
}

func uniqueCompetitionIDs(ids []int64) []int64 {
	out := make([]int64, 0, len(ids))
	seen := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		if id <= 0 {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	slices.Sort(out)
	return out
}
