package apifootball

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/riskibarqy/fanbet/internal/domain/competition"
	"github.com/riskibarqy/fanbet/internal/usecase"
)

type standingsItem struct {
	League struct {
		ID        int64            `json:"id"`
		Season    int              `json:"season"`
		Standings [][]standingItem `json:"standings"`
	} `json:"league"`
}

type standingItem struct {
	Rank      int      `json:"rank"`
	Team      teamItem `json:"team"`
	Points    int      `json:"points"`
	GoalsDiff int      `json:"goalsDiff"`
	Group     string   `json:"group"`
	Form      string   `json:"form"`
	All       struct {
		Played int `json:"played"`
		Win    int `json:"win"`
		Draw   int `json:"draw"`
		Lose   int `json:"lose"`
		Goals  struct {
			For     int `json:"for"`
			Against int `json:"against"`
		} `json:"goals"`
	} `json:"all"`
}

// FetchStandings returns every table of the competition season, flattened in provider order.
// Responses are cached so groups sharing a competition cost one request per TTL.
func (c *Client) FetchStandings(ctx context.Context, competitionID int64, season int) ([]competition.StandingRow, error) {
	if competitionID <= 0 || season <= 0 {
		return nil, fmt.Errorf("%w: competition id and season are required", usecase.ErrInvalidInput)
	}

	key := fmt.Sprintf("standings:%d:%d", competitionID, season)
	rows, err := c.standings.GetOrLoad(ctx, key, func(ctx context.Context) ([]competition.StandingRow, error) {
		values := url.Values{}
		values.Set("league", strconv.FormatInt(competitionID, 10))
		values.Set("season", strconv.Itoa(season))

		var env envelope[[]standingsItem]
		if err := c.doJSON(ctx, "/standings", values, &env); err != nil {
			return nil, err
		}
		return mapStandings(env.Response), nil
	})
	if err != nil {
		return nil, err
	}
	return append([]competition.StandingRow(nil), rows...), nil
}

func mapStandings(items []standingsItem) []competition.StandingRow {
	out := make([]competition.StandingRow, 0, 20)
	for _, item := range items {
		for _, table := range item.League.Standings {
			for _, row := range table {
				out = append(out, competition.StandingRow{
					Rank:         row.Rank,
					TeamID:       row.Team.ID,
					TeamName:     row.Team.Name,
					TeamLogo:     row.Team.Logo,
					Points:       row.Points,
					GoalsDiff:    row.GoalsDiff,
					Played:       row.All.Played,
					Won:          row.All.Win,
					Drawn:        row.All.Draw,
					Lost:         row.All.Lose,
					GoalsFor:     row.All.Goals.For,
					GoalsAgainst: row.All.Goals.Against,
					Form:         row.Form,
					Group:        row.Group,
				})
			}
		}
	}
	return out
}
