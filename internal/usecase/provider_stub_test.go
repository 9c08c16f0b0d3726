package usecase

import (
	"context"
	"sync"
	"time"

	"github.com/riskibarqy/fanbet/internal/domain/competition"
	"github.com/riskibarqy/fanbet/internal/domain/fixture"
)

// stubProvider answers from in-memory tables keyed the way the orchestrator queries them.
type stubProvider struct {
	mu sync.Mutex

	// next[competitionID] is the ordered list of upcoming fixtures for the followed team.
	next       map[int64][]fixture.Fixture
	nextErr    map[int64]error
	byID       map[int64]fixture.Fixture
	events     map[int64][]fixture.Event
	standings  []competition.StandingRow
	players    []competition.Player
	refreshErr error

	fixtureCalls []FixtureQuery
	eventCalls   int
}

func newStubProvider() *stubProvider {
	return &stubProvider{
		next:    make(map[int64][]fixture.Fixture),
		nextErr: make(map[int64]error),
		byID:    make(map[int64]fixture.Fixture),
		events:  make(map[int64][]fixture.Event),
	}
}

func (s *stubProvider) FetchFixtures(_ context.Context, query FixtureQuery) ([]fixture.Fixture, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.fixtureCalls = append(s.fixtureCalls, query)
	if query.ExternalID > 0 {
		item, ok := s.byID[query.ExternalID]
		if !ok {
			return nil, nil
		}
		return []fixture.Fixture{item}, nil
	}

	if err := s.nextErr[query.CompetitionID]; err != nil {
		return nil, err
	}
	items := s.next[query.CompetitionID]
	if query.Next > 0 && len(items) > query.Next {
		items = items[:query.Next]
	}
	return append([]fixture.Fixture(nil), items...), nil
}

func (s *stubProvider) FetchEvents(_ context.Context, fixtureExternalID int64) ([]fixture.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.eventCalls++
	return append([]fixture.Event(nil), s.events[fixtureExternalID]...), nil
}

func (s *stubProvider) FetchStandings(_ context.Context, _ int64, _ int) ([]competition.StandingRow, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.refreshErr != nil {
		return nil, s.refreshErr
	}
	return append([]competition.StandingRow(nil), s.standings...), nil
}

func (s *stubProvider) FetchPlayers(_ context.Context, _, _ int64, _ int) ([]competition.Player, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.refreshErr != nil {
		return nil, s.refreshErr
	}
	return append([]competition.Player(nil), s.players...), nil
}

func (s *stubProvider) setFixture(item fixture.Fixture) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.byID[item.ExternalID] = item
}

func (s *stubProvider) setNext(competitionID int64, items ...fixture.Fixture) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.next[competitionID] = items
	for _, item := range items {
		s.byID[item.ExternalID] = item
	}
}

func intPtr(v int) *int {
	return &v
}

func int64Ptr(v int64) *int64 {
	return &v
}

var baseTime = time.Date(2025, time.October, 4, 12, 0, 0, 0, time.UTC)

func upcoming(externalID, competitionID int64, in time.Duration, status fixture.Status) fixture.Fixture {
	return fixture.Fixture{
		ExternalID:    externalID,
		Date:          baseTime.Add(in),
		Home:          fixture.TeamScore{TeamID: 40, Name: "Liverpool"},
		Away:          fixture.TeamScore{TeamID: 50, Name: "Manchester City"},
		Status:        status,
		CompetitionID: competitionID,
		Season:        2025,
	}
}
