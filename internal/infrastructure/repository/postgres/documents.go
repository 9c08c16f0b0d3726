package postgres

import (
	"github.com/riskibarqy/fanbet/internal/domain/competition"
	"github.com/riskibarqy/fanbet/internal/domain/fixture"
	"github.com/riskibarqy/fanbet/internal/domain/group"
)

// JSONB column shapes. They keep snake_case keys stable regardless of Go field names.

type followedTeamDocument struct {
	ExternalID int64            `json:"external_id"`
	Name       string           `json:"name"`
	Logo       string           `json:"logo,omitempty"`
	RivalIDs   []int64          `json:"rival_ids"`
	Seasons    []seasonDocument `json:"seasons"`
}

type seasonDocument struct {
	Year           int     `json:"year"`
	CompetitionIDs []int64 `json:"competition_ids"`
}

type eventDocument struct {
	Type        string `json:"type"`
	Detail      string `json:"detail"`
	PlayerID    int64  `json:"player_id,omitempty"`
	PlayerName  string `json:"player_name,omitempty"`
	AssistID    int64  `json:"assist_id,omitempty"`
	TeamID      int64  `json:"team_id"`
	Minute      int    `json:"minute"`
	ExtraMinute int    `json:"extra_minute,omitempty"`
}

type playerDocument struct {
	ExternalID  int64  `json:"external_id"`
	Name        string `json:"name"`
	TeamID      int64  `json:"team_id"`
	Position    string `json:"position,omitempty"`
	Nationality string `json:"nationality,omitempty"`
	Age         int    `json:"age,omitempty"`
	Photo       string `json:"photo,omitempty"`
	Appearances int    `json:"appearances"`
	Goals       int    `json:"goals"`
	Assists     int    `json:"assists"`
}

type standingDocument struct {
	Rank         int    `json:"rank"`
	TeamID       int64  `json:"team_id"`
	TeamName     string `json:"team_name"`
	TeamLogo     string `json:"team_logo,omitempty"`
	Points       int    `json:"points"`
	GoalsDiff    int    `json:"goals_diff"`
	Played       int    `json:"played"`
	Won          int    `json:"won"`
	Drawn        int    `json:"drawn"`
	Lost         int    `json:"lost"`
	GoalsFor     int    `json:"goals_for"`
	GoalsAgainst int    `json:"goals_against"`
	Form         string `json:"form,omitempty"`
	Group        string `json:"group,omitempty"`
}

func followedTeamToDocument(team group.FollowedTeam) followedTeamDocument {
	seasons := make([]seasonDocument, 0, len(team.Seasons))
	for _, season := range team.Seasons {
		seasons = append(seasons, seasonDocument{
			Year:           season.Year,
			CompetitionIDs: append([]int64{}, season.CompetitionIDs...),
		})
	}
	return followedTeamDocument{
		ExternalID: team.ExternalID,
		Name:       team.Name,
		Logo:       team.Logo,
		RivalIDs:   append([]int64{}, team.RivalIDs...),
		Seasons:    seasons,
	}
}

func (d followedTeamDocument) toDomain() group.FollowedTeam {
	seasons := make([]group.Season, 0, len(d.Seasons))
	for _, season := range d.Seasons {
		seasons = append(seasons, group.Season{
			Year:           season.Year,
			CompetitionIDs: append([]int64(nil), season.CompetitionIDs...),
		})
	}
	return group.FollowedTeam{
		ExternalID: d.ExternalID,
		Name:       d.Name,
		Logo:       d.Logo,
		RivalIDs:   append([]int64(nil), d.RivalIDs...),
		Seasons:    seasons,
	}
}

func eventsToDocuments(events []fixture.Event) []eventDocument {
	out := make([]eventDocument, 0, len(events))
	for _, e := range events {
		out = append(out, eventDocument{
			Type:        string(e.Type),
			Detail:      string(e.Detail),
			PlayerID:    e.PlayerID,
			PlayerName:  e.PlayerName,
			AssistID:    e.AssistID,
			TeamID:      e.TeamID,
			Minute:      e.Minute,
			ExtraMinute: e.ExtraMinute,
		})
	}
	return out
}

func eventsFromDocuments(docs []eventDocument) []fixture.Event {
	if docs == nil {
		return nil
	}
	out := make([]fixture.Event, 0, len(docs))
	for _, d := range docs {
		out = append(out, fixture.Event{
			Type:        fixture.EventType(d.Type),
			Detail:      fixture.EventDetail(d.Detail),
			PlayerID:    d.PlayerID,
			PlayerName:  d.PlayerName,
			AssistID:    d.AssistID,
			TeamID:      d.TeamID,
			Minute:      d.Minute,
			ExtraMinute: d.ExtraMinute,
		})
	}
	return out
}

func playersToDocuments(players []competition.Player) []playerDocument {
	out := make([]playerDocument, 0, len(players))
	for _, p := range players {
		out = append(out, playerDocument(p))
	}
	return out
}

func playersFromDocuments(docs []playerDocument) []competition.Player {
	out := make([]competition.Player, 0, len(docs))
	for _, d := range docs {
		out = append(out, competition.Player(d))
	}
	return out
}

func standingsToDocuments(rows []competition.StandingRow) []standingDocument {
	out := make([]standingDocument, 0, len(rows))
	for _, row := range rows {
		out = append(out, standingDocument(row))
	}
	return out
}

func standingsFromDocuments(docs []standingDocument) []competition.StandingRow {
	out := make([]competition.StandingRow, 0, len(docs))
	for _, d := range docs {
		out = append(out, competition.StandingRow(d))
	}
	return out
}
