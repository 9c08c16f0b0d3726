package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/riskibarqy/fanbet/internal/domain/competition"
)

type CompetitionRepository struct {
	mu    sync.RWMutex
	items map[string]competition.Competition
}

func NewCompetitionRepository(items []competition.Competition) *CompetitionRepository {
	repo := &CompetitionRepository{items: make(map[string]competition.Competition, len(items))}
	for _, item := range items {
		repo.items[competitionKey(item.ExternalID, item.Season)] = cloneCompetition(item)
	}
	return repo
}

func (r *CompetitionRepository) Get(_ context.Context, competitionID int64, season int) (competition.Competition, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.items[competitionKey(competitionID, season)]
	if !ok {
		return competition.Competition{}, false, nil
	}
	return cloneCompetition(item), true, nil
}

func (r *CompetitionRepository) ReplaceStandings(_ context.Context, competitionID int64, season int, rows []competition.StandingRow, refreshedAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	item := r.getOrInit(competitionID, season)
	item.Standings = append([]competition.StandingRow(nil), rows...)
	item.RefreshedAt = refreshedAt
	r.items[competitionKey(competitionID, season)] = item
	return nil
}

func (r *CompetitionRepository) ReplaceRoster(_ context.Context, competitionID int64, season int, teamID int64, players []competition.Player, refreshedAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	item := r.getOrInit(competitionID, season)
	roster := make([]competition.Player, 0, len(item.Roster)+len(players))
	for _, p := range item.Roster {
		if p.TeamID != teamID {
			roster = append(roster, p)
		}
	}
	for _, p := range players {
		p.TeamID = teamID
		roster = append(roster, p)
	}
	item.Roster = roster
	item.RefreshedAt = refreshedAt
	r.items[competitionKey(competitionID, season)] = item
	return nil
}

func (r *CompetitionRepository) getOrInit(competitionID int64, season int) competition.Competition {
	item, ok := r.items[competitionKey(competitionID, season)]
	if !ok {
		return competition.Competition{ExternalID: competitionID, Season: season}
	}
	return cloneCompetition(item)
}

func competitionKey(competitionID int64, season int) string {
	return fmt.Sprintf("%d::%d", competitionID, season)
}

func cloneCompetition(c competition.Competition) competition.Competition {
	copied := c
	copied.Roster = append([]competition.Player(nil), c.Roster...)
	copied.Standings = append([]competition.StandingRow(nil), c.Standings...)
	return copied
}
