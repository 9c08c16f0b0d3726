package apifootball

import (
	"context"
	"fmt"
	"iter"
	"net/url"
	"strconv"

	"github.com/riskibarqy/fanbet/internal/domain/competition"
	"github.com/riskibarqy/fanbet/internal/usecase"
)

const maxPlayerPages = 50

type playerItem struct {
	Player struct {
		ID          int64  `json:"id"`
		Name        string `json:"name"`
		Age         int    `json:"age"`
		Nationality string `json:"nationality"`
		Photo       string `json:"photo"`
	} `json:"player"`
	Statistics []struct {
		Team   teamItem `json:"team"`
		League struct {
			ID int64 `json:"id"`
		} `json:"league"`
		Games struct {
			Appearances *int   `json:"appearences"`
			Position    string `json:"position"`
		} `json:"games"`
		Goals struct {
			Total   *int `json:"total"`
			Assists *int `json:"assists"`
		} `json:"goals"`
	} `json:"statistics"`
}

// FetchPlayers walks every page of the team's squad for the competition season.
func (c *Client) FetchPlayers(ctx context.Context, teamID, competitionID int64, season int) ([]competition.Player, error) {
	if teamID <= 0 || competitionID <= 0 || season <= 0 {
		return nil, fmt.Errorf("%w: team, competition and season are required", usecase.ErrInvalidInput)
	}

	key := fmt.Sprintf("players:%d:%d:%d", teamID, competitionID, season)
	players, err := c.players.GetOrLoad(ctx, key, func(ctx context.Context) ([]competition.Player, error) {
		out := make([]competition.Player, 0, 32)
		for page, err := range c.playerPages(ctx, teamID, competitionID, season) {
			if err != nil {
				return nil, err
			}
			out = append(out, page...)
		}
		return out, nil
	})
	if err != nil {
		return nil, err
	}
	return append([]competition.Player(nil), players...), nil
}

// playerPages yields one mapped page at a time while paging.total > paging.current.
func (c *Client) playerPages(ctx context.Context, teamID, competitionID int64, season int) iter.Seq2[[]competition.Player, error] {
	return func(yield func([]competition.Player, error) bool) {
		for page := 1; page <= maxPlayerPages; page++ {
			values := url.Values{}
			values.Set("team", strconv.FormatInt(teamID, 10))
			values.Set("league", strconv.FormatInt(competitionID, 10))
			values.Set("season", strconv.Itoa(season))
			values.Set("page", strconv.Itoa(page))

			var env envelope[[]playerItem]
			if err := c.doJSON(ctx, "/players", values, &env); err != nil {
				yield(nil, fmt.Errorf("fetch players page=%d: %w", page, err))
				return
			}
			if !yield(mapPlayers(env.Response, teamID, competitionID), nil) {
				return
			}
			if env.Paging.Total <= env.Paging.Current {
				return
			}
		}
		c.logger.WarnContext(ctx, "api-football player paging stopped at page limit",
			"team_id", teamID,
			"competition_id", competitionID,
			"season", season,
			"limit", maxPlayerPages,
		)
	}
}

func mapPlayers(items []playerItem, teamID, competitionID int64) []competition.Player {
	out := make([]competition.Player, 0, len(items))
	for _, item := range items {
		p := competition.Player{
			ExternalID:  item.Player.ID,
			Name:        item.Player.Name,
			TeamID:      teamID,
			Nationality: item.Player.Nationality,
			Age:         item.Player.Age,
			Photo:       item.Player.Photo,
		}
		for _, stat := range item.Statistics {
			if stat.League.ID != competitionID && len(item.Statistics) > 1 {
				continue
			}
			p.Position = stat.Games.Position
			p.Appearances = derefInt(stat.Games.Appearances)
			p.Goals = derefInt(stat.Goals.Total)
			p.Assists = derefInt(stat.Goals.Assists)
			break
		}
		out = append(out, p)
	}
	return out
}

func derefInt(v *int) int {
	if v == nil {
		return 0
	}
	return *v
}
