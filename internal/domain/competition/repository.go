package competition

import (
	"context"
	"time"
)

type Repository interface {
	Get(ctx context.Context, competitionID int64, season int) (Competition, bool, error)
	ReplaceStandings(ctx context.Context, competitionID int64, season int, rows []StandingRow, refreshedAt time.Time) error
	// ReplaceRoster overwrites the players stored for teamID within the competition season.
	ReplaceRoster(ctx context.Context, competitionID int64, season int, teamID int64, players []Player, refreshedAt time.Time) error
}
