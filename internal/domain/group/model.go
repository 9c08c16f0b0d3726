package group

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var ErrDuplicateSeason = errors.New("duplicate season year")

// InvalidGroupError names a stored group that could not be turned into a valid Group.
type InvalidGroupError struct {
	GroupID string
	Err     error
}

func (e *InvalidGroupError) Error() string {
	return fmt.Sprintf("invalid group %s: %v", e.GroupID, e.Err)
}

func (e *InvalidGroupError) Unwrap() error {
	return e.Err
}

// ListError is returned by Repository.List alongside the groups that did load.
type ListError struct {
	Invalid []*InvalidGroupError
}

func (e *ListError) Error() string {
	ids := make([]string, 0, len(e.Invalid))
	for _, item := range e.Invalid {
		ids = append(ids, item.GroupID)
	}
	return fmt.Sprintf("%d invalid groups: %s", len(e.Invalid), strings.Join(ids, ","))
}

func (e *ListError) Unwrap() []error {
	out := make([]error, 0, len(e.Invalid))
	for _, item := range e.Invalid {
		out = append(out, item)
	}
	return out
}

// Season lists the competitions a team is enrolled in for one year.
type Season struct {
	Year           int
	CompetitionIDs []int64
}

// FollowedTeam is the single team a group bets on. It does not change after creation.
type FollowedTeam struct {
	ExternalID int64
	Name       string
	Logo       string
	RivalIDs   []int64
	Seasons    []Season
}

type Group struct {
	ID               string
	Name             string
	FollowedTeam     FollowedTeam
	TrackedFixtureID string
	MemberIDs        []string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// Clone returns a copy that shares no slices with g.
func (g Group) Clone() Group {
	copied := g
	copied.MemberIDs = append([]string(nil), g.MemberIDs...)
	copied.FollowedTeam.RivalIDs = append([]int64(nil), g.FollowedTeam.RivalIDs...)
	copied.FollowedTeam.Seasons = make([]Season, 0, len(g.FollowedTeam.Seasons))
	for _, season := range g.FollowedTeam.Seasons {
		season.CompetitionIDs = append([]int64(nil), season.CompetitionIDs...)
		copied.FollowedTeam.Seasons = append(copied.FollowedTeam.Seasons, season)
	}
	return copied
}

func (g Group) HasTrackedFixture() bool {
	return g.TrackedFixtureID != ""
}

func (t FollowedTeam) IsRival(teamID int64) bool {
	for _, id := range t.RivalIDs {
		if id == teamID {
			return true
		}
	}
	return false
}

// LatestSeason returns the season with the highest year.
func (t FollowedTeam) LatestSeason() (Season, bool) {
	if len(t.Seasons) == 0 {
		return Season{}, false
	}
	latest := t.Seasons[0]
	for _, season := range t.Seasons[1:] {
		if season.Year > latest.Year {
			latest = season
		}
	}
	return latest, true
}

// Validate rejects a team without an external id or with two seasons for the same year.
func (t FollowedTeam) Validate() error {
	if t.ExternalID <= 0 {
		return fmt.Errorf("followed team external id is required")
	}
	seen := make(map[int]struct{}, len(t.Seasons))
	for _, season := range t.Seasons {
		if _, ok := seen[season.Year]; ok {
			return fmt.Errorf("%w: %d", ErrDuplicateSeason, season.Year)
		}
		seen[season.Year] = struct{}{}
	}
	return nil
}
