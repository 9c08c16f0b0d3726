package usecase

import (
	"context"

	"github.com/riskibarqy/fanbet/internal/domain/competition"
	"github.com/riskibarqy/fanbet/internal/domain/fixture"
)

// FixtureQuery filters the provider fixtures endpoint. Zero values are omitted.
// Next asks for the team's next N fixtures in the competition.
type FixtureQuery struct {
	ExternalID    int64
	TeamID        int64
	CompetitionID int64
	Season        int
	Next          int
}

// SportsDataClient is the read side of the external sports-data provider.
type SportsDataClient interface {
	FetchFixtures(ctx context.Context, query FixtureQuery) ([]fixture.Fixture, error)
	FetchEvents(ctx context.Context, fixtureExternalID int64) ([]fixture.Event, error)
	FetchStandings(ctx context.Context, competitionID int64, season int) ([]competition.StandingRow, error)
	FetchPlayers(ctx context.Context, teamID, competitionID int64, season int) ([]competition.Player, error)
}
