package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/riskibarqy/fanbet/internal/domain/bet"
	"github.com/riskibarqy/fanbet/internal/domain/competition"
	"github.com/riskibarqy/fanbet/internal/domain/fixture"
)

func TestFixtureRepository_SaveUpsertsByExternalID(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := NewFixtureRepository(nil)

	first, err := repo.Save(ctx, fixture.Fixture{ID: "fx-1", ExternalID: 1001, Status: fixture.StatusNotStarted})
	if err != nil {
		t.Fatalf("save first: %v", err)
	}
	second, err := repo.Save(ctx, fixture.Fixture{ID: "fx-other", ExternalID: 1001, Status: fixture.StatusInProgress})
	if err != nil {
		t.Fatalf("save second: %v", err)
	}

	if second.ID != first.ID {
		t.Fatalf("expected stored id reused: got=%s want=%s", second.ID, first.ID)
	}
	if repo.Len() != 1 {
		t.Fatalf("unexpected fixture count: got=%d want=1", repo.Len())
	}
	got, ok, _ := repo.GetByExternalID(ctx, 1001)
	if !ok || got.Status != fixture.StatusInProgress {
		t.Fatalf("unexpected stored fixture: %+v ok=%t", got, ok)
	}
}

func TestBetRepository_MarkEvaluatedOnce(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	users := NewUserRepository(SeedUsers())
	repo := NewBetRepository(users)

	if err := repo.Create(ctx, bet.Bet{ID: "bet-1", UserID: "usr-ana", FixtureID: "fx-1"}); err != nil {
		t.Fatalf("create bet: %v", err)
	}
	if err := repo.Create(ctx, bet.Bet{ID: "bet-2", UserID: "usr-ana", FixtureID: "fx-1"}); !errors.Is(err, bet.ErrDuplicate) {
		t.Fatalf("expected duplicate error, got %v", err)
	}

	evaluation := bet.Evaluation{BetID: "bet-1", UserID: "usr-ana", Points: 3, CompetitionID: 39, Season: 2025, EvaluatedAt: time.Now()}
	applied, err := repo.MarkEvaluated(ctx, evaluation)
	if err != nil || !applied {
		t.Fatalf("first evaluation: applied=%t err=%v", applied, err)
	}
	applied, err = repo.MarkEvaluated(ctx, evaluation)
	if err != nil || applied {
		t.Fatalf("second evaluation must be a no-op: applied=%t err=%v", applied, err)
	}

	scores, err := users.ListCompetitionScores(ctx, "usr-ana")
	if err != nil {
		t.Fatalf("list scores: %v", err)
	}
	if len(scores) != 1 || scores[0].Points != 3 {
		t.Fatalf("unexpected scores: %+v", scores)
	}
}

func TestCompetitionRepository_ReplaceRosterKeepsOtherTeams(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := NewCompetitionRepository(nil)
	now := time.Now()

	if err := repo.ReplaceRoster(ctx, 39, 2025, 40, []competition.Player{{ExternalID: 1}, {ExternalID: 2}}, now); err != nil {
		t.Fatalf("replace roster team 40: %v", err)
	}
	if err := repo.ReplaceRoster(ctx, 39, 2025, 45, []competition.Player{{ExternalID: 3}}, now); err != nil {
		t.Fatalf("replace roster team 45: %v", err)
	}
	if err := repo.ReplaceRoster(ctx, 39, 2025, 40, []competition.Player{{ExternalID: 4}}, now); err != nil {
		t.Fatalf("replace roster team 40 again: %v", err)
	}

	item, ok, _ := repo.Get(ctx, 39, 2025)
	if !ok {
		t.Fatalf("expected competition snapshot")
	}
	if len(item.Roster) != 2 {
		t.Fatalf("unexpected roster size: got=%d want=2", len(item.Roster))
	}
}
