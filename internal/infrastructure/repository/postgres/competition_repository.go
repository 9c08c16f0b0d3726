package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/fanbet/internal/domain/competition"
	qb "github.com/riskibarqy/fanbet/internal/platform/querybuilder"
)

type CompetitionRepository struct {
	db *sqlx.DB
}

func NewCompetitionRepository(db *sqlx.DB) *CompetitionRepository {
	return &CompetitionRepository{db: db}
}

func (r *CompetitionRepository) Get(ctx context.Context, competitionID int64, season int) (competition.Competition, bool, error) {
	query, args, err := qb.Select("*").From("competitions").
		Where(
			qb.Eq("competition_id", competitionID),
			qb.Eq("season", season),
		).
		Limit(1).
		ToSQL()
	if err != nil {
		return competition.Competition{}, false, fmt.Errorf("build get competition query: %w", err)
	}

	var row competitionTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return competition.Competition{}, false, nil
		}
		return competition.Competition{}, false, fmt.Errorf("get competition id=%d season=%d: %w", competitionID, season, err)
	}

	var roster []playerDocument
	if err := decodeJSON(row.Roster, &roster); err != nil {
		return competition.Competition{}, false, fmt.Errorf("decode roster competition=%d: %w", competitionID, err)
	}
	var standings []standingDocument
	if err := decodeJSON(row.Standings, &standings); err != nil {
		return competition.Competition{}, false, fmt.Errorf("decode standings competition=%d: %w", competitionID, err)
	}

	item := competition.Competition{
		ExternalID: row.CompetitionID,
		Season:     row.Season,
		Name:       row.Name,
		Logo:       row.Logo,
		Roster:     playersFromDocuments(roster),
		Standings:  standingsFromDocuments(standings),
	}
	if row.RefreshedAt != nil {
		item.RefreshedAt = row.RefreshedAt.UTC()
	}
	return item, true, nil
}

func (r *CompetitionRepository) ReplaceStandings(ctx context.Context, competitionID int64, season int, rows []competition.StandingRow, refreshedAt time.Time) error {
	encoded, err := encodeJSON(standingsToDocuments(rows), "[]")
	if err != nil {
		return fmt.Errorf("encode standings competition=%d: %w", competitionID, err)
	}

	const upsertQuery = `
INSERT INTO competitions (competition_id, season, standings, refreshed_at)
VALUES (:competition_id, :season, CAST(:standings AS JSONB), :refreshed_at)
ON CONFLICT (competition_id, season)
DO UPDATE SET
    standings = EXCLUDED.standings,
    refreshed_at = EXCLUDED.refreshed_at`

	sqlQuery, args, err := sqlx.Named(upsertQuery, map[string]any{
		"competition_id": competitionID,
		"season":         season,
		"standings":      encoded,
		"refreshed_at":   refreshedAt.UTC(),
	})
	if err != nil {
		return fmt.Errorf("bind replace standings query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, r.db.Rebind(sqlQuery), args...); err != nil {
		return fmt.Errorf("replace standings competition=%d season=%d: %w", competitionID, season, err)
	}
	return nil
}

// ReplaceRoster swaps the team's players inside the roster document and keeps other teams.
func (r *CompetitionRepository) ReplaceRoster(ctx context.Context, competitionID int64, season int, teamID int64, players []competition.Player, refreshedAt time.Time) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx for roster replace: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	const ensureQuery = `
INSERT INTO competitions (competition_id, season)
VALUES (?, ?)
ON CONFLICT (competition_id, season) DO NOTHING`
	if _, err := tx.ExecContext(ctx, tx.Rebind(ensureQuery), competitionID, season); err != nil {
		return fmt.Errorf("ensure competition row id=%d: %w", competitionID, err)
	}

	var raw string
	const lockQuery = `SELECT roster FROM competitions WHERE competition_id = ? AND season = ? FOR UPDATE`
	if err := tx.GetContext(ctx, &raw, tx.Rebind(lockQuery), competitionID, season); err != nil {
		return fmt.Errorf("lock roster competition=%d: %w", competitionID, err)
	}

	var current []playerDocument
	if err := decodeJSON(raw, &current); err != nil {
		return fmt.Errorf("decode roster competition=%d: %w", competitionID, err)
	}

	next := make([]playerDocument, 0, len(current)+len(players))
	for _, p := range current {
		if p.TeamID != teamID {
			next = append(next, p)
		}
	}
	for _, p := range playersToDocuments(players) {
		p.TeamID = teamID
		next = append(next, p)
	}

	encoded, err := encodeJSON(next, "[]")
	if err != nil {
		return fmt.Errorf("encode roster competition=%d: %w", competitionID, err)
	}

	updateQuery, updateArgs, err := qb.Update("competitions").
		SetExpr("roster", "CAST(? AS JSONB)", encoded).
		Set("refreshed_at", refreshedAt.UTC()).
		Where(
			qb.Eq("competition_id", competitionID),
			qb.Eq("season", season),
		).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build replace roster query: %w", err)
	}
	if _, err := tx.ExecContext(ctx, updateQuery, updateArgs...); err != nil {
		return fmt.Errorf("replace roster competition=%d team=%d: %w", competitionID, teamID, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit roster replace competition=%d: %w", competitionID, err)
	}
	return nil
}
