package postgres

import (
	"database/sql"
	"time"
)

type groupTableModel struct {
	ID               string         `db:"id"`
	Name             string         `db:"name"`
	FollowedTeam     string         `db:"followed_team"`
	TrackedFixtureID sql.NullString `db:"tracked_fixture_id"`
	CreatedAt        time.Time      `db:"created_at"`
	UpdatedAt        time.Time      `db:"updated_at"`
}

type userTableModel struct {
	ID        string    `db:"id"`
	GroupID   string    `db:"group_id"`
	Name      string    `db:"name"`
	CreatedAt time.Time `db:"created_at"`
}

type competitionScoreTableModel struct {
	UserID        string    `db:"user_id"`
	CompetitionID int64     `db:"competition_id"`
	Season        int       `db:"season"`
	Points        int       `db:"points"`
	UpdatedAt     time.Time `db:"updated_at"`
}

type fixtureTableModel struct {
	ID            string         `db:"id"`
	ExternalID    int64          `db:"external_id"`
	KickoffAt     time.Time      `db:"kickoff_at"`
	Venue         string         `db:"venue"`
	HomeTeamID    int64          `db:"home_team_id"`
	HomeTeamName  string         `db:"home_team_name"`
	HomeTeamLogo  string         `db:"home_team_logo"`
	HomeScore     sql.NullInt64  `db:"home_score"`
	AwayTeamID    int64          `db:"away_team_id"`
	AwayTeamName  string         `db:"away_team_name"`
	AwayTeamLogo  string         `db:"away_team_logo"`
	AwayScore     sql.NullInt64  `db:"away_score"`
	Status        string         `db:"status"`
	CompetitionID int64          `db:"competition_id"`
	Season        int            `db:"season"`
	Events        sql.NullString `db:"events"`
	UpdatedAt     time.Time      `db:"updated_at"`
}

type fixtureInsertModel struct {
	ID            string    `db:"id"`
	ExternalID    int64     `db:"external_id"`
	KickoffAt     time.Time `db:"kickoff_at"`
	Venue         string    `db:"venue"`
	HomeTeamID    int64     `db:"home_team_id"`
	HomeTeamName  string    `db:"home_team_name"`
	HomeTeamLogo  string    `db:"home_team_logo"`
	HomeScore     *int      `db:"home_score"`
	AwayTeamID    int64     `db:"away_team_id"`
	AwayTeamName  string    `db:"away_team_name"`
	AwayTeamLogo  string    `db:"away_team_logo"`
	AwayScore     *int      `db:"away_score"`
	Status        string    `db:"status"`
	CompetitionID int64     `db:"competition_id"`
	Season        int       `db:"season"`
	Events        *string   `db:"events"`
	UpdatedAt     time.Time `db:"updated_at"`
}

type betTableModel struct {
	ID                string        `db:"id"`
	UserID            string        `db:"user_id"`
	FixtureID         string        `db:"fixture_id"`
	PredictedHome     int           `db:"predicted_home"`
	PredictedAway     int           `db:"predicted_away"`
	PredictedScorerID sql.NullInt64 `db:"predicted_scorer_id"`
	Status            string        `db:"status"`
	Points            int           `db:"points"`
	CreatedAt         time.Time     `db:"created_at"`
	EvaluatedAt       *time.Time    `db:"evaluated_at"`
}

type betInsertModel struct {
	ID                string    `db:"id"`
	UserID            string    `db:"user_id"`
	FixtureID         string    `db:"fixture_id"`
	PredictedHome     int       `db:"predicted_home"`
	PredictedAway     int       `db:"predicted_away"`
	PredictedScorerID *int64    `db:"predicted_scorer_id"`
	Status            string    `db:"status"`
	Points            int       `db:"points"`
	CreatedAt         time.Time `db:"created_at"`
}

type competitionTableModel struct {
	CompetitionID int64      `db:"competition_id"`
	Season        int        `db:"season"`
	Name          string     `db:"name"`
	Logo          string     `db:"logo"`
	Roster        string     `db:"roster"`
	Standings     string     `db:"standings"`
	RefreshedAt   *time.Time `db:"refreshed_at"`
}

type runEventTableModel struct {
	EventID      string         `db:"event_id"`
	RunID        string         `db:"run_id"`
	Trigger      string         `db:"trigger"`
	Step         string         `db:"step"`
	GroupID      sql.NullString `db:"group_id"`
	Status       string         `db:"status"`
	Payload      string         `db:"payload"`
	ErrorMessage sql.NullString `db:"error_message"`
	OccurredAt   time.Time      `db:"occurred_at"`
	TraceID      sql.NullString `db:"trace_id"`
	SpanID       sql.NullString `db:"span_id"`
}

type runEventInsertModel struct {
	EventID      string    `db:"event_id"`
	RunID        string    `db:"run_id"`
	Trigger      string    `db:"trigger"`
	Step         string    `db:"step"`
	GroupID      *string   `db:"group_id"`
	Status       string    `db:"status"`
	Payload      string    `db:"payload"`
	ErrorMessage *string   `db:"error_message"`
	OccurredAt   time.Time `db:"occurred_at"`
	TraceID      *string   `db:"trace_id"`
	SpanID       *string   `db:"span_id"`
}
