package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/fanbet/internal/domain/fixture"
	qb "github.com/riskibarqy/fanbet/internal/platform/querybuilder"
)

type FixtureRepository struct {
	db *sqlx.DB
}

func NewFixtureRepository(db *sqlx.DB) *FixtureRepository {
	return &FixtureRepository{db: db}
}

func (r *FixtureRepository) GetByID(ctx context.Context, id string) (fixture.Fixture, bool, error) {
	return r.getOne(ctx, qb.Eq("id", id))
}

func (r *FixtureRepository) GetByExternalID(ctx context.Context, externalID int64) (fixture.Fixture, bool, error) {
	return r.getOne(ctx, qb.Eq("external_id", externalID))
}

func (r *FixtureRepository) getOne(ctx context.Context, cond qb.Condition) (fixture.Fixture, bool, error) {
	query, args, err := qb.Select("*").From("fixtures").
		Where(cond).
		Limit(1).
		ToSQL()
	if err != nil {
		return fixture.Fixture{}, false, fmt.Errorf("build get fixture query: %w", err)
	}

	var row fixtureTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return fixture.Fixture{}, false, nil
		}
		return fixture.Fixture{}, false, fmt.Errorf("get fixture: %w", err)
	}

	item, err := fixtureFromRow(row)
	if err != nil {
		return fixture.Fixture{}, false, err
	}
	return item, true, nil
}

// Save upserts by external id. A nil Events slice keeps the stored events so status
// refreshes do not wipe a settled timeline.
func (r *FixtureRepository) Save(ctx context.Context, item fixture.Fixture) (fixture.Fixture, error) {
	if item.ExternalID <= 0 {
		return fixture.Fixture{}, fmt.Errorf("fixture external id is required")
	}
	if item.ID == "" {
		return fixture.Fixture{}, fmt.Errorf("fixture id is required")
	}

	model := fixtureInsertModel{
		ID:            item.ID,
		ExternalID:    item.ExternalID,
		KickoffAt:     item.Date.UTC(),
		Venue:         item.Venue,
		HomeTeamID:    item.Home.TeamID,
		HomeTeamName:  item.Home.Name,
		HomeTeamLogo:  item.Home.Logo,
		HomeScore:     item.Home.Score,
		AwayTeamID:    item.Away.TeamID,
		AwayTeamName:  item.Away.Name,
		AwayTeamLogo:  item.Away.Logo,
		AwayScore:     item.Away.Score,
		Status:        string(item.Status),
		CompetitionID: item.CompetitionID,
		Season:        item.Season,
		UpdatedAt:     time.Now().UTC(),
	}
	if !item.UpdatedAt.IsZero() {
		model.UpdatedAt = item.UpdatedAt.UTC()
	}
	if item.Events != nil {
		encoded, err := encodeJSON(eventsToDocuments(item.Events), "[]")
		if err != nil {
			return fixture.Fixture{}, fmt.Errorf("encode fixture events external_id=%d: %w", item.ExternalID, err)
		}
		model.Events = &encoded
	}

	query, args, err := qb.InsertModel("fixtures", model, `ON CONFLICT (external_id)
DO UPDATE SET
    kickoff_at = EXCLUDED.kickoff_at,
    venue = EXCLUDED.venue,
    home_team_id = EXCLUDED.home_team_id,
    home_team_name = EXCLUDED.home_team_name,
    home_team_logo = EXCLUDED.home_team_logo,
    home_score = EXCLUDED.home_score,
    away_team_id = EXCLUDED.away_team_id,
    away_team_name = EXCLUDED.away_team_name,
    away_team_logo = EXCLUDED.away_team_logo,
    away_score = EXCLUDED.away_score,
    status = EXCLUDED.status,
    competition_id = EXCLUDED.competition_id,
    season = EXCLUDED.season,
    events = COALESCE(EXCLUDED.events, fixtures.events),
    updated_at = EXCLUDED.updated_at
RETURNING *`)
	if err != nil {
		return fixture.Fixture{}, fmt.Errorf("build upsert fixture query: %w", err)
	}

	var row fixtureTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		return fixture.Fixture{}, fmt.Errorf("upsert fixture external_id=%d: %w", item.ExternalID, err)
	}
	return fixtureFromRow(row)
}

func fixtureFromRow(row fixtureTableModel) (fixture.Fixture, error) {
	var docs []eventDocument
	if err := decodeJSON(row.Events.String, &docs); err != nil {
		return fixture.Fixture{}, fmt.Errorf("decode fixture events id=%s: %w", row.ID, err)
	}
	return fixture.Fixture{
		ID:         row.ID,
		ExternalID: row.ExternalID,
		Date:       row.KickoffAt.UTC(),
		Venue:      row.Venue,
		Home: fixture.TeamScore{
			TeamID: row.HomeTeamID,
			Name:   row.HomeTeamName,
			Logo:   row.HomeTeamLogo,
			Score:  nullInt64ToIntPtr(row.HomeScore),
		},
		Away: fixture.TeamScore{
			TeamID: row.AwayTeamID,
			Name:   row.AwayTeamName,
			Logo:   row.AwayTeamLogo,
			Score:  nullInt64ToIntPtr(row.AwayScore),
		},
		Status:        fixture.Status(row.Status),
		CompetitionID: row.CompetitionID,
		Season:        row.Season,
		Events:        eventsFromDocuments(docs),
		UpdatedAt:     row.UpdatedAt,
	}, nil
}
