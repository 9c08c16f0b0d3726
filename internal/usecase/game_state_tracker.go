package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/riskibarqy/fanbet/internal/domain/fixture"
	"github.com/riskibarqy/fanbet/internal/platform/logging"
)

type TrackOutcome int

const (
	TrackNotFinished TrackOutcome = iota + 1
	TrackFinished
	TrackPostponedOrCancelled
)

func (o TrackOutcome) String() string {
	switch o {
	case TrackNotFinished:
		return "not_finished"
	case TrackFinished:
		return "finished"
	case TrackPostponedOrCancelled:
		return "postponed_or_cancelled"
	default:
		return "unknown"
	}
}

type TrackResult struct {
	Outcome TrackOutcome
	Fixture fixture.Fixture
}

type GameStateTracker struct {
	provider    SportsDataClient
	fixtureRepo fixture.Repository
	logger      *logging.Logger
	now         func() time.Time
}

func NewGameStateTracker(provider SportsDataClient, fixtureRepo fixture.Repository, logger *logging.Logger) *GameStateTracker {
	if logger == nil {
		logger = logging.Default()
	}
	return &GameStateTracker{
		provider:    provider,
		fixtureRepo: fixtureRepo,
		logger:      logger,
		now:         time.Now,
	}
}

// Refresh polls the provider for the fixture and persists any status change.
// A finished fixture is only reported once its events and final score are stored.
func (t *GameStateTracker) Refresh(ctx context.Context, current fixture.Fixture) (TrackResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.GameStateTracker.Refresh")
	defer span.End()

	if current.ExternalID <= 0 {
		return TrackResult{}, fmt.Errorf("%w: fixture external id is required", ErrInvalidInput)
	}

	items, err := t.provider.FetchFixtures(ctx, FixtureQuery{ExternalID: current.ExternalID})
	if err != nil {
		return TrackResult{}, fmt.Errorf("fetch fixture=%d: %w", current.ExternalID, err)
	}
	latest, ok := findByExternalID(items, current.ExternalID)
	if !ok {
		return TrackResult{}, &DataAvailabilityFault{FixtureExternalID: current.ExternalID, Reason: "provider returned no matching fixture"}
	}

	phase, err := latest.Status.Phase()
	if err != nil {
		return TrackResult{}, &UnknownStatusCodeError{Code: string(latest.Status), FixtureExternalID: current.ExternalID}
	}

	updated := current
	if fixture.CanTransition(current.Status, latest.Status) {
		updated = current.ApplyProviderState(latest)
	} else {
		t.logger.WarnContext(ctx, "ignoring fixture status regression",
			"fixture_id", current.ID,
			"external_id", current.ExternalID,
			"stored_status", current.Status,
			"provider_status", latest.Status,
		)
		phase, err = current.Status.Phase()
		if err != nil {
			return TrackResult{}, &UnknownStatusCodeError{Code: string(current.Status), FixtureExternalID: current.ExternalID}
		}
	}

	updated.UpdatedAt = t.now().UTC()
	saved, err := t.fixtureRepo.Save(ctx, updated)
	if err != nil {
		return TrackResult{}, persistenceFault("save fixture", err)
	}

	switch phase {
	case fixture.PhaseFinished:
		return t.settle(ctx, saved)
	case fixture.PhasePostponedOrCancelled:
		return TrackResult{Outcome: TrackPostponedOrCancelled, Fixture: saved}, nil
	default:
		return TrackResult{Outcome: TrackNotFinished, Fixture: saved}, nil
	}
}

// settle attaches the full timeline to a finished fixture. Until both the score and the
// events are available the fixture is not considered safely finished.
func (t *GameStateTracker) settle(ctx context.Context, updated fixture.Fixture) (TrackResult, error) {
	if _, _, ok := updated.FinalScore(); !ok {
		return TrackResult{}, &DataAvailabilityFault{FixtureExternalID: updated.ExternalID, Reason: "finished fixture has no final score"}
	}

	events, err := t.provider.FetchEvents(ctx, updated.ExternalID)
	if err != nil {
		return TrackResult{}, fmt.Errorf("fetch events fixture=%d: %w", updated.ExternalID, err)
	}
	if len(events) == 0 {
		return TrackResult{}, &DataAvailabilityFault{FixtureExternalID: updated.ExternalID, Reason: "finished fixture has no events"}
	}

	updated.Events = events
	updated.UpdatedAt = t.now().UTC()
	saved, err := t.fixtureRepo.Save(ctx, updated)
	if err != nil {
		return TrackResult{}, persistenceFault("save finished fixture", err)
	}
	return TrackResult{Outcome: TrackFinished, Fixture: saved}, nil
}

func findByExternalID(items []fixture.Fixture, externalID int64) (fixture.Fixture, bool) {
	for _, item := range items {
		if item.ExternalID == externalID {
			return item, true
		}
	}
	return fixture.Fixture{}, false
}
