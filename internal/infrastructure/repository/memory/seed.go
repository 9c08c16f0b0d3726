package memory

import (
	"time"

	"github.com/riskibarqy/fanbet/internal/domain/group"
	"github.com/riskibarqy/fanbet/internal/domain/user"
)

const (
	SeedGroupID        = "grp-liverpool-fans"
	SeedTeamLiverpool  = int64(40)
	SeedTeamEverton    = int64(45)
	SeedTeamManUtd     = int64(33)
	SeedCompetitionEPL = int64(39)
	SeedCompetitionUCL = int64(2)
	SeedCompetitionFA  = int64(45)
	SeedSeason         = 2025
)

// SeedGroups returns the sample group used when running against the memory store.
func SeedGroups() []group.Group {
	createdAt := time.Date(2025, time.August, 1, 0, 0, 0, 0, time.UTC)
	return []group.Group{
		{
			ID:   SeedGroupID,
			Name: "Kop Predictors",
			FollowedTeam: group.FollowedTeam{
				ExternalID: SeedTeamLiverpool,
				Name:       "Liverpool",
				Logo:       "https://media.api-sports.io/football/teams/40.png",
				RivalIDs:   []int64{SeedTeamEverton, SeedTeamManUtd},
				Seasons: []group.Season{
					{Year: SeedSeason, CompetitionIDs: []int64{SeedCompetitionEPL, SeedCompetitionUCL, SeedCompetitionFA}},
				},
			},
			MemberIDs: []string{"usr-ana", "usr-budi", "usr-chris"},
			CreatedAt: createdAt,
			UpdatedAt: createdAt,
		},
	}
}

func SeedUsers() []user.User {
	createdAt := time.Date(2025, time.August, 1, 0, 0, 0, 0, time.UTC)
	return []user.User{
		{ID: "usr-ana", GroupID: SeedGroupID, Name: "Ana", CreatedAt: createdAt},
		{ID: "usr-budi", GroupID: SeedGroupID, Name: "Budi", CreatedAt: createdAt},
		{ID: "usr-chris", GroupID: SeedGroupID, Name: "Chris", CreatedAt: createdAt},
	}
}
