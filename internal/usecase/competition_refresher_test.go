package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/riskibarqy/fanbet/internal/domain/competition"
	"github.com/riskibarqy/fanbet/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/fanbet/internal/platform/logging"
)

func TestCompetitionRefresher_ReplacesSnapshots(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := memory.NewCompetitionRepository([]competition.Competition{{
		ExternalID: 39,
		Season:     2025,
		Standings:  []competition.StandingRow{{Rank: 1, TeamID: 1}, {Rank: 2, TeamID: 2}, {Rank: 3, TeamID: 3}},
	}})
	provider := newStubProvider()
	provider.standings = []competition.StandingRow{{Rank: 1, TeamID: 40, Points: 21}}
	provider.players = []competition.Player{{ExternalID: 306}, {ExternalID: 307}}

	refresher := NewCompetitionRefresher(provider, repo, CompetitionRefresherConfig{}, logging.NewNop())
	refresher.now = func() time.Time { return baseTime }

	err := refresher.Refresh(ctx, RefreshCompetitionInput{Group: followerGroup("grp-1", 40, baseTime), CompetitionID: 39, Season: 2025})
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}

	got, _, _ := repo.Get(ctx, 39, 2025)
	if len(got.Standings) != 1 || got.Standings[0].TeamID != 40 {
		t.Fatalf("expected standings fully replaced, got %+v", got.Standings)
	}
	if len(got.Roster) != 2 || got.Roster[0].TeamID != 40 {
		t.Fatalf("unexpected roster: %+v", got.Roster)
	}
	if !got.RefreshedAt.Equal(baseTime) {
		t.Fatalf("unexpected refreshed at: %s", got.RefreshedAt)
	}
}

func TestCompetitionRefresher_ReturnsProviderError(t *testing.T) {
	t.Parallel()

	provider := newStubProvider()
	provider.refreshErr = &DataProviderError{Endpoint: "/standings", StatusCode: 500}

	refresher := NewCompetitionRefresher(provider, memory.NewCompetitionRepository(nil), CompetitionRefresherConfig{PoolSize: 1}, logging.NewNop())
	err := refresher.Refresh(context.Background(), RefreshCompetitionInput{Group: followerGroup("grp-1", 40, baseTime), CompetitionID: 39, Season: 2025})

	var providerErr *DataProviderError
	if !errors.As(err, &providerErr) {
		t.Fatalf("expected DataProviderError, got %v", err)
	}
}

func TestCompetitionRefresher_RequiresCompetition(t *testing.T) {
	t.Parallel()

	refresher := NewCompetitionRefresher(newStubProvider(), memory.NewCompetitionRepository(nil), CompetitionRefresherConfig{}, logging.NewNop())
	if err := refresher.Refresh(context.Background(), RefreshCompetitionInput{}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}
