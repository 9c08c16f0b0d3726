package httpapi

import (
	"net/http"
	"time"

	"github.com/riskibarqy/fanbet/internal/domain/fixture"
	"github.com/riskibarqy/fanbet/internal/usecase"
)

type groupDTO struct {
	ID             string          `json:"id"`
	Name           string          `json:"name"`
	FollowedTeam   followedTeamDTO `json:"followed_team"`
	TrackedFixture *fixtureDTO     `json:"tracked_fixture,omitempty"`
	Members        []memberDTO     `json:"members"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

type followedTeamDTO struct {
	ExternalID int64   `json:"external_id"`
	Name       string  `json:"name"`
	Logo       string  `json:"logo,omitempty"`
	RivalIDs   []int64 `json:"rival_ids"`
}

type memberDTO struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type fixtureDTO struct {
	ID            string       `json:"id"`
	ExternalID    int64        `json:"external_id"`
	Date          time.Time    `json:"date"`
	Venue         string       `json:"venue,omitempty"`
	Status        string       `json:"status"`
	CompetitionID int64        `json:"competition_id"`
	Season        int          `json:"season"`
	Home          teamScoreDTO `json:"home"`
	Away          teamScoreDTO `json:"away"`
}

type teamScoreDTO struct {
	TeamID int64  `json:"team_id"`
	Name   string `json:"name"`
	Logo   string `json:"logo,omitempty"`
	Score  *int   `json:"score"`
}

func (h *Handler) GetGroup(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetGroup")
	defer span.End()

	groupID := r.PathValue("groupID")
	view, err := h.groupService.GetGroup(ctx, groupID)
	if err != nil {
		h.logger.WarnContext(ctx, "get group failed", "group_id", groupID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, groupViewToDTO(view))
}

func groupViewToDTO(view usecase.GroupView) groupDTO {
	team := view.Group.FollowedTeam
	out := groupDTO{
		ID:   view.Group.ID,
		Name: view.Group.Name,
		FollowedTeam: followedTeamDTO{
			ExternalID: team.ExternalID,
			Name:       team.Name,
			Logo:       team.Logo,
			RivalIDs:   append([]int64{}, team.RivalIDs...),
		},
		Members:   make([]memberDTO, 0, len(view.Members)),
		UpdatedAt: view.Group.UpdatedAt,
	}
	for _, m := range view.Members {
		out.Members = append(out.Members, memberDTO{ID: m.ID, Name: m.Name})
	}
	if view.TrackedFixture != nil {
		dto := fixtureToDTO(*view.TrackedFixture)
		out.TrackedFixture = &dto
	}
	return out
}

func fixtureToDTO(item fixture.Fixture) fixtureDTO {
	return fixtureDTO{
		ID:            item.ID,
		ExternalID:    item.ExternalID,
		Date:          item.Date,
		Venue:         item.Venue,
		Status:        string(item.Status),
		CompetitionID: item.CompetitionID,
		Season:        item.Season,
		Home:          teamScoreToDTO(item.Home),
		Away:          teamScoreToDTO(item.Away),
	}
}

func teamScoreToDTO(side fixture.TeamScore) teamScoreDTO {
	return teamScoreDTO{TeamID: side.TeamID, Name: side.Name, Logo: side.Logo, Score: side.Score}
}
