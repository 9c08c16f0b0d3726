package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/riskibarqy/fanbet/internal/domain/fixture"
	"github.com/riskibarqy/fanbet/internal/infrastructure/repository/memory"
	fixturemock "github.com/riskibarqy/fanbet/internal/mocks/domain/fixture"
	"github.com/riskibarqy/fanbet/internal/platform/logging"
	"github.com/stretchr/testify/mock"
)

func trackedFixture() fixture.Fixture {
	item := upcoming(1001, 39, 24*time.Hour, fixture.StatusNotStarted)
	item.ID = "fx-1001"
	return item
}

func newTestTracker(provider SportsDataClient, repo fixture.Repository) *GameStateTracker {
	tracker := NewGameStateTracker(provider, repo, logging.NewNop())
	tracker.now = func() time.Time { return baseTime }
	return tracker
}

func TestGameStateTracker_NotFinished(t *testing.T) {
	t.Parallel()

	current := trackedFixture()
	repo := memory.NewFixtureRepository([]fixture.Fixture{current})
	provider := newStubProvider()
	live := current
	live.Status = fixture.StatusInProgress
	live.Home.Score, live.Away.Score = intPtr(1), intPtr(0)
	provider.setFixture(live)

	got, err := newTestTracker(provider, repo).Refresh(context.Background(), current)
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if got.Outcome != TrackNotFinished {
		t.Fatalf("unexpected outcome: got=%s want=%s", got.Outcome, TrackNotFinished)
	}

	stored, _, _ := repo.GetByID(context.Background(), current.ID)
	if stored.Status != fixture.StatusInProgress {
		t.Fatalf("expected status transition persisted, got %s", stored.Status)
	}
	if provider.eventCalls != 0 {
		t.Fatalf("events must not be fetched before the fixture finishes")
	}
}

func TestGameStateTracker_FinishedPersistsEvents(t *testing.T) {
	t.Parallel()

	current := trackedFixture()
	repo := memory.NewFixtureRepository([]fixture.Fixture{current})
	provider := newStubProvider()
	final := current
	final.Status = fixture.StatusFinished
	final.Home.Score, final.Away.Score = intPtr(2), intPtr(1)
	provider.setFixture(final)
	provider.events[current.ExternalID] = []fixture.Event{
		{Type: fixture.EventGoal, Detail: fixture.DetailNormalGoal, PlayerID: 306, TeamID: 40, Minute: 12},
	}

	got, err := newTestTracker(provider, repo).Refresh(context.Background(), current)
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if got.Outcome != TrackFinished {
		t.Fatalf("unexpected outcome: got=%s want=%s", got.Outcome, TrackFinished)
	}
	if got.Fixture.ID != current.ID || len(got.Fixture.Events) != 1 {
		t.Fatalf("unexpected finished fixture: %+v", got.Fixture)
	}

	stored, _, _ := repo.GetByID(context.Background(), current.ID)
	if len(stored.Events) != 1 {
		t.Fatalf("expected events persisted, got %d", len(stored.Events))
	}
}

func TestGameStateTracker_FinishedWithoutEventsIsFault(t *testing.T) {
	t.Parallel()

	current := trackedFixture()
	repo := memory.NewFixtureRepository([]fixture.Fixture{current})
	provider := newStubProvider()
	final := current
	final.Status = fixture.StatusFinished
	final.Home.Score, final.Away.Score = intPtr(0), intPtr(0)
	provider.setFixture(final)

	_, err := newTestTracker(provider, repo).Refresh(context.Background(), current)
	var fault *DataAvailabilityFault
	if !errors.As(err, &fault) {
		t.Fatalf("expected DataAvailabilityFault, got %v", err)
	}
	if FaultKind(err) != FaultDataAvailability {
		t.Fatalf("unexpected fault kind: %s", FaultKind(err))
	}
}

func TestGameStateTracker_FinishedWithoutScoreIsFault(t *testing.T) {
	t.Parallel()

	current := trackedFixture()
	repo := memory.NewFixtureRepository([]fixture.Fixture{current})
	provider := newStubProvider()
	final := current
	final.Status = fixture.StatusFinishedAfterExtraTime
	provider.setFixture(final)

	_, err := newTestTracker(provider, repo).Refresh(context.Background(), current)
	var fault *DataAvailabilityFault
	if !errors.As(err, &fault) {
		t.Fatalf("expected DataAvailabilityFault, got %v", err)
	}
	if provider.eventCalls != 0 {
		t.Fatalf("events must not be fetched without a final score")
	}
}

func TestGameStateTracker_NoProviderRecordIsFault(t *testing.T) {
	t.Parallel()

	current := trackedFixture()
	repo := fixturemock.NewRepository(t)

	_, err := newTestTracker(newStubProvider(), repo).Refresh(context.Background(), current)
	var fault *DataAvailabilityFault
	if !errors.As(err, &fault) || fault.FixtureExternalID != current.ExternalID {
		t.Fatalf("expected DataAvailabilityFault for %d, got %v", current.ExternalID, err)
	}
}

func TestGameStateTracker_PostponedUsingMockery(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	current := trackedFixture()
	repo := fixturemock.NewRepository(t)
	provider := newStubProvider()
	postponed := current
	postponed.Status = fixture.StatusPostponed
	provider.setFixture(postponed)

	repo.
		On("Save", mock.Anything, mock.MatchedBy(func(item fixture.Fixture) bool {
			return item.ID == current.ID && item.Status == fixture.StatusPostponed
		})).
		Return(func(_ context.Context, item fixture.Fixture) (fixture.Fixture, error) { return item, nil }).
		Once()

	got, err := newTestTracker(provider, repo).Refresh(ctx, current)
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if got.Outcome != TrackPostponedOrCancelled {
		t.Fatalf("unexpected outcome: got=%s want=%s", got.Outcome, TrackPostponedOrCancelled)
	}
}

func TestGameStateTracker_RegressionKeepsStoredStatus(t *testing.T) {
	t.Parallel()

	current := trackedFixture()
	current.Status = fixture.StatusInProgress
	repo := memory.NewFixtureRepository([]fixture.Fixture{current})
	provider := newStubProvider()
	stale := current
	stale.Status = fixture.StatusNotStarted
	provider.setFixture(stale)

	got, err := newTestTracker(provider, repo).Refresh(context.Background(), current)
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if got.Outcome != TrackNotFinished || got.Fixture.Status != fixture.StatusInProgress {
		t.Fatalf("expected stored status kept, got outcome=%s status=%s", got.Outcome, got.Fixture.Status)
	}
}

func TestGameStateTracker_UnknownStatusFailsLoudly(t *testing.T) {
	t.Parallel()

	current := trackedFixture()
	repo := fixturemock.NewRepository(t)
	provider := newStubProvider()
	weird := current
	weird.Status = fixture.Status("HALFTIME_SHOW")
	provider.setFixture(weird)

	_, err := newTestTracker(provider, repo).Refresh(context.Background(), current)
	var statusErr *UnknownStatusCodeError
	if !errors.As(err, &statusErr) {
		t.Fatalf("expected UnknownStatusCodeError, got %v", err)
	}
	if FaultKind(err) != FaultUnknownStatus {
		t.Fatalf("unexpected fault kind: %s", FaultKind(err))
	}
}
