package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/riskibarqy/fanbet/internal/domain/bet"
	"github.com/riskibarqy/fanbet/internal/domain/fixture"
	"github.com/riskibarqy/fanbet/internal/domain/group"
	"github.com/riskibarqy/fanbet/internal/domain/user"
	"github.com/riskibarqy/fanbet/internal/infrastructure/repository/memory"
	betmock "github.com/riskibarqy/fanbet/internal/mocks/domain/bet"
	"github.com/riskibarqy/fanbet/internal/platform/logging"
	"github.com/stretchr/testify/mock"
)

func finishedFixture(home, away int, events ...fixture.Event) fixture.Fixture {
	item := trackedFixture()
	item.Status = fixture.StatusFinished
	item.Home.Score, item.Away.Score = intPtr(home), intPtr(away)
	item.Events = events
	return item
}

func evaluatorGroup(rivals ...int64) group.Group {
	return group.Group{
		ID:           "grp-1",
		FollowedTeam: group.FollowedTeam{ExternalID: 40, RivalIDs: rivals},
	}
}

func TestBetEvaluator_ScoresAndIsIdempotent(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	users := []user.User{{ID: "usr-a", GroupID: "grp-1"}, {ID: "usr-b", GroupID: "grp-1"}, {ID: "usr-c", GroupID: "grp-1"}}
	userRepo := memory.NewUserRepository(users)
	betRepo := memory.NewBetRepository(userRepo)

	item := finishedFixture(3, 0, fixture.Event{Type: fixture.EventGoal, Detail: fixture.DetailNormalGoal, PlayerID: 123, TeamID: 40})
	mustCreateBet(t, betRepo, bet.Bet{ID: "bet-a", UserID: "usr-a", FixtureID: item.ID, PredictedHome: 1, PredictedAway: 0, PredictedScorerID: int64Ptr(123)})
	mustCreateBet(t, betRepo, bet.Bet{ID: "bet-b", UserID: "usr-b", FixtureID: item.ID, PredictedHome: 3, PredictedAway: 0})

	evaluator := NewBetEvaluator(betRepo, logging.NewNop())
	input := EvaluateBetsInput{Fixture: item, Group: evaluatorGroup(), Users: users}

	first, err := evaluator.Evaluate(ctx, input)
	if err != nil {
		t.Fatalf("first evaluate: %v", err)
	}
	if first.Evaluated != 2 || first.WithoutBet != 1 || first.PointsAwarded != 5 {
		t.Fatalf("unexpected first summary: %+v", first)
	}

	second, err := evaluator.Evaluate(ctx, input)
	if err != nil {
		t.Fatalf("second evaluate: %v", err)
	}
	if second.Evaluated != 0 || second.AlreadyScored != 2 || second.PointsAwarded != 0 {
		t.Fatalf("second evaluation must be a no-op: %+v", second)
	}

	gotA, _, _ := betRepo.GetByUserAndFixture(ctx, "usr-a", item.ID)
	if gotA.Status != bet.StatusEvaluated || gotA.Points != 2 {
		t.Fatalf("unexpected bet a: status=%s points=%d", gotA.Status, gotA.Points)
	}
	gotB, _, _ := betRepo.GetByUserAndFixture(ctx, "usr-b", item.ID)
	if gotB.Points != 3 {
		t.Fatalf("unexpected bet b points: got=%d want=3", gotB.Points)
	}

	scores, err := userRepo.ListCompetitionScores(ctx, "usr-a")
	if err != nil {
		t.Fatalf("list scores: %v", err)
	}
	if len(scores) != 1 || scores[0].Points != 2 || scores[0].CompetitionID != item.CompetitionID || scores[0].Season != item.Season {
		t.Fatalf("unexpected competition scores after two runs: %+v", scores)
	}
}

func TestBetEvaluator_DerbyDoubles(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	users := []user.User{{ID: "usr-a", GroupID: "grp-1"}, {ID: "usr-b", GroupID: "grp-1"}}
	userRepo := memory.NewUserRepository(users)
	betRepo := memory.NewBetRepository(userRepo)

	item := finishedFixture(2, 1)
	mustCreateBet(t, betRepo, bet.Bet{ID: "bet-a", UserID: "usr-a", FixtureID: item.ID, PredictedHome: 2, PredictedAway: 1})
	mustCreateBet(t, betRepo, bet.Bet{ID: "bet-b", UserID: "usr-b", FixtureID: item.ID, PredictedHome: 0, PredictedAway: 2})

	summary, err := NewBetEvaluator(betRepo, logging.NewNop()).Evaluate(ctx, EvaluateBetsInput{
		Fixture: item,
		Group:   evaluatorGroup(item.Away.TeamID),
		Users:   users,
	})
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if !summary.Derby {
		t.Fatalf("expected derby")
	}

	gotA, _, _ := betRepo.GetByUserAndFixture(ctx, "usr-a", item.ID)
	if gotA.Points != 6 {
		t.Fatalf("unexpected derby points: got=%d want=6", gotA.Points)
	}
	gotB, _, _ := betRepo.GetByUserAndFixture(ctx, "usr-b", item.ID)
	if gotB.Points != 0 || gotB.Status != bet.StatusEvaluated {
		t.Fatalf("zero-point bet must stay zero and be evaluated: %+v", gotB)
	}
}

func TestBetEvaluator_RejectsUnfinishedFixture(t *testing.T) {
	t.Parallel()

	item := trackedFixture()
	_, err := NewBetEvaluator(betmock.NewRepository(t), logging.NewNop()).Evaluate(context.Background(), EvaluateBetsInput{Fixture: item})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestBetEvaluator_ConcurrentSettleCountsAsAlreadyScoredUsingMockery(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	item := finishedFixture(1, 1)
	repo := betmock.NewRepository(t)
	repo.
		On("GetByUserAndFixture", mock.Anything, "usr-a", item.ID).
		Return(bet.Bet{ID: "bet-a", UserID: "usr-a", FixtureID: item.ID, Status: bet.StatusPending, PredictedHome: 1, PredictedAway: 1}, true, nil).
		Once()
	repo.
		On("MarkEvaluated", mock.Anything, mock.MatchedBy(func(v bet.Evaluation) bool {
			return v.BetID == "bet-a" && v.Points == 3 && v.CompetitionID == item.CompetitionID
		})).
		Return(false, nil).
		Once()

	summary, err := NewBetEvaluator(repo, logging.NewNop()).Evaluate(ctx, EvaluateBetsInput{
		Fixture: item,
		Group:   evaluatorGroup(),
		Users:   []user.User{{ID: "usr-a"}},
	})
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if summary.Evaluated != 0 || summary.AlreadyScored != 1 {
		t.Fatalf("unexpected summary: %+v", summary)
	}
}

func TestBetEvaluator_PersistenceFault(t *testing.T) {
	t.Parallel()

	item := finishedFixture(1, 0)
	repo := betmock.NewRepository(t)
	repo.
		On("GetByUserAndFixture", mock.Anything, "usr-a", item.ID).
		Return(bet.Bet{}, false, errors.New("connection reset")).
		Once()

	_, err := NewBetEvaluator(repo, logging.NewNop()).Evaluate(context.Background(), EvaluateBetsInput{
		Fixture: item,
		Group:   evaluatorGroup(),
		Users:   []user.User{{ID: "usr-a"}},
	})
	if FaultKind(err) != FaultPersistence {
		t.Fatalf("expected persistence fault, got %v", err)
	}
}

func mustCreateBet(t *testing.T, repo bet.Repository, item bet.Bet) {
	t.Helper()
	if err := repo.Create(context.Background(), item); err != nil {
		t.Fatalf("create bet %s: %v", item.ID, err)
	}
}
