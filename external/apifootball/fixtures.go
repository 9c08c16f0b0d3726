package apifootball

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/riskibarqy/fanbet/internal/domain/fixture"
	"github.com/riskibarqy/fanbet/internal/usecase"
)

type fixtureItem struct {
	Fixture struct {
		ID        int64  `json:"id"`
		Date      string `json:"date"`
		Timestamp int64  `json:"timestamp"`
		Venue     struct {
			Name string `json:"name"`
			City string `json:"city"`
		} `json:"venue"`
		Status struct {
			Long    string `json:"long"`
			Short   string `json:"short"`
			Elapsed *int   `json:"elapsed"`
		} `json:"status"`
	} `json:"fixture"`
	League struct {
		ID     int64  `json:"id"`
		Name   string `json:"name"`
		Season int    `json:"season"`
	} `json:"league"`
	Teams struct {
		Home teamItem `json:"home"`
		Away teamItem `json:"away"`
	} `json:"teams"`
	Goals scorePair `json:"goals"`
	Score struct {
		Halftime  scorePair `json:"halftime"`
		Fulltime  scorePair `json:"fulltime"`
		Extratime scorePair `json:"extratime"`
		Penalty   scorePair `json:"penalty"`
	} `json:"score"`
}

type teamItem struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Logo string `json:"logo"`
}

type scorePair struct {
	Home *int `json:"home"`
	Away *int `json:"away"`
}

type eventItem struct {
	Time struct {
		Elapsed int  `json:"elapsed"`
		Extra   *int `json:"extra"`
	} `json:"time"`
	Team   teamItem `json:"team"`
	Player struct {
		ID   *int64 `json:"id"`
		Name string `json:"name"`
	} `json:"player"`
	Assist struct {
		ID   *int64 `json:"id"`
		Name string `json:"name"`
	} `json:"assist"`
	Type   string `json:"type"`
	Detail string `json:"detail"`
}

func (c *Client) FetchFixtures(ctx context.Context, query usecase.FixtureQuery) ([]fixture.Fixture, error) {
	values := url.Values{}
	if query.ExternalID > 0 {
		values.Set("id", strconv.FormatInt(query.ExternalID, 10))
	}
	if query.TeamID > 0 {
		values.Set("team", strconv.FormatInt(query.TeamID, 10))
	}
	if query.CompetitionID > 0 {
		values.Set("league", strconv.FormatInt(query.CompetitionID, 10))
	}
	if query.Season > 0 {
		values.Set("season", strconv.Itoa(query.Season))
	}
	if query.Next > 0 {
		values.Set("next", strconv.Itoa(query.Next))
	}
	if len(values) == 0 {
		return nil, fmt.Errorf("%w: fixture query has no filter", usecase.ErrInvalidInput)
	}

	var env envelope[[]fixtureItem]
	if err := c.doJSON(ctx, "/fixtures", values, &env); err != nil {
		return nil, err
	}

	out := make([]fixture.Fixture, 0, len(env.Response))
	for _, item := range env.Response {
		mapped, err := mapFixture(item)
		if err != nil {
			return nil, err
		}
		out = append(out, mapped)
	}
	return out, nil
}

func (c *Client) FetchEvents(ctx context.Context, fixtureExternalID int64) ([]fixture.Event, error) {
	if fixtureExternalID <= 0 {
		return nil, fmt.Errorf("%w: fixture id must be greater than zero", usecase.ErrInvalidInput)
	}

	values := url.Values{}
	values.Set("fixture", strconv.FormatInt(fixtureExternalID, 10))

	var env envelope[[]eventItem]
	if err := c.doJSON(ctx, "/fixtures/events", values, &env); err != nil {
		return nil, err
	}

	out := make([]fixture.Event, 0, len(env.Response))
	for _, item := range env.Response {
		eventType, ok := mapEventType(item.Type)
		if !ok {
			c.logger.WarnContext(ctx, "skipping unknown fixture event type",
				"fixture_external_id", fixtureExternalID,
				"type", item.Type,
				"detail", item.Detail,
			)
			continue
		}
		out = append(out, mapEvent(eventType, item))
	}
	return out, nil
}

func mapFixture(item fixtureItem) (fixture.Fixture, error) {
	status, err := mapStatus(item.Fixture.Status.Short, item.Fixture.ID)
	if err != nil {
		return fixture.Fixture{}, err
	}

	return fixture.Fixture{
		ExternalID: item.Fixture.ID,
		Date:       parseFixtureDate(item.Fixture.Date, item.Fixture.Timestamp),
		Venue:      item.Fixture.Venue.Name,
		Home: fixture.TeamScore{
			TeamID: item.Teams.Home.ID,
			Name:   item.Teams.Home.Name,
			Logo:   item.Teams.Home.Logo,
			Score:  firstScore(item.Goals.Home, item.Score.Fulltime.Home),
		},
		Away: fixture.TeamScore{
			TeamID: item.Teams.Away.ID,
			Name:   item.Teams.Away.Name,
			Logo:   item.Teams.Away.Logo,
			Score:  firstScore(item.Goals.Away, item.Score.Fulltime.Away),
		},
		Status:        status,
		CompetitionID: item.League.ID,
		Season:        item.League.Season,
	}, nil
}

func mapEvent(eventType fixture.EventType, item eventItem) fixture.Event {
	out := fixture.Event{
		Type:       eventType,
		Detail:     mapEventDetail(eventType, item.Detail),
		PlayerName: item.Player.Name,
		TeamID:     item.Team.ID,
		Minute:     item.Time.Elapsed,
	}
	if item.Player.ID != nil {
		out.PlayerID = *item.Player.ID
	}
	if item.Assist.ID != nil {
		out.AssistID = *item.Assist.ID
	}
	if item.Time.Extra != nil {
		out.ExtraMinute = *item.Time.Extra
	}
	return out
}

// firstScore picks the live goals value and falls back to the full-time score of the same side.
func firstScore(goals, fulltime *int) *int {
	if goals != nil {
		v := *goals
		return &v
	}
	if fulltime != nil {
		v := *fulltime
		return &v
	}
	return nil
}

func parseFixtureDate(raw string, timestamp int64) time.Time {
	if raw != "" {
		if parsed, err := time.Parse(time.RFC3339, raw); err == nil {
			return parsed.UTC()
		}
	}
	if timestamp > 0 {
		return time.Unix(timestamp, 0).UTC()
	}
	return time.Time{}
}
