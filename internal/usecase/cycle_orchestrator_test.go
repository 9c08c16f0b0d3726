package usecase

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/riskibarqy/fanbet/internal/domain/bet"
	"github.com/riskibarqy/fanbet/internal/domain/competition"
	"github.com/riskibarqy/fanbet/internal/domain/fixture"
	"github.com/riskibarqy/fanbet/internal/domain/group"
	"github.com/riskibarqy/fanbet/internal/domain/jobscheduler"
	"github.com/riskibarqy/fanbet/internal/domain/user"
	"github.com/riskibarqy/fanbet/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/fanbet/internal/platform/id"
	"github.com/riskibarqy/fanbet/internal/platform/logging"
)

type cycleHarness struct {
	provider     *stubProvider
	groups       *memory.GroupRepository
	fixtures     *memory.FixtureRepository
	users        *memory.UserRepository
	bets         *memory.BetRepository
	competitions *memory.CompetitionRepository
	runs         *memory.RunEventRepository
	orchestrator *CycleOrchestrator

	mu     sync.Mutex
	sleeps []time.Duration
}

func newCycleHarness(groups []group.Group, users []user.User, fixtures []fixture.Fixture, fixtureIDs ...string) *cycleHarness {
	h := &cycleHarness{
		provider:     newStubProvider(),
		groups:       memory.NewGroupRepository(groups),
		fixtures:     memory.NewFixtureRepository(fixtures),
		users:        memory.NewUserRepository(users),
		competitions: memory.NewCompetitionRepository(nil),
		runs:         memory.NewRunEventRepository(),
	}
	h.bets = memory.NewBetRepository(h.users)

	logger := logging.NewNop()
	clock := func() time.Time { return baseTime }

	tracker := NewGameStateTracker(h.provider, h.fixtures, logger)
	tracker.now = clock
	evaluator := NewBetEvaluator(h.bets, logger)
	evaluator.now = clock
	resolver := NewFixtureResolver(h.provider, FixtureResolverConfig{MaxConcurrency: 3}, logger)
	refresher := NewCompetitionRefresher(h.provider, h.competitions, CompetitionRefresherConfig{PoolSize: 2}, logger)
	refresher.now = clock

	h.orchestrator = NewCycleOrchestrator(
		h.groups, h.fixtures, h.users, h.runs,
		tracker, evaluator, resolver, refresher,
		id.NewSequence(fixtureIDs...),
		CycleConfig{GroupDelay: time.Minute},
		logger,
	)
	h.orchestrator.now = clock
	h.orchestrator.sleep = func(_ context.Context, d time.Duration) error {
		h.mu.Lock()
		defer h.mu.Unlock()
		h.sleeps = append(h.sleeps, d)
		return nil
	}
	return h
}

func followerGroup(groupID string, teamID int64, createdAt time.Time, rivals ...int64) group.Group {
	return group.Group{
		ID:   groupID,
		Name: groupID,
		FollowedTeam: group.FollowedTeam{
			ExternalID: teamID,
			RivalIDs:   rivals,
			Seasons: []group.Season{
				{Year: 2024, CompetitionIDs: []int64{39}},
				{Year: 2025, CompetitionIDs: []int64{39, 2}},
			},
		},
		CreatedAt: createdAt,
	}
}

func (h *cycleHarness) run(t *testing.T, runID string) CycleResult {
	t.Helper()
	result, err := h.orchestrator.RunOnce(context.Background(), RunCycleInput{Trigger: jobscheduler.TriggerSchedule, RunID: runID})
	if err != nil {
		t.Fatalf("run cycle %s: %v", runID, err)
	}
	return result
}

func (h *cycleHarness) trackedID(t *testing.T, groupID string) string {
	t.Helper()
	item, ok, err := h.groups.GetByID(context.Background(), groupID)
	if err != nil || !ok {
		t.Fatalf("get group %s: ok=%t err=%v", groupID, ok, err)
	}
	return item.TrackedFixtureID
}

func TestCycleOrchestrator_UntrackedGroupResolvesFixture(t *testing.T) {
	t.Parallel()

	h := newCycleHarness([]group.Group{followerGroup("grp-1", 40, baseTime)}, nil, nil, "fx-new-1")
	h.provider.setNext(39, upcoming(1001, 39, 48*time.Hour, fixture.StatusNotStarted))
	h.provider.setNext(2, upcoming(2001, 2, 72*time.Hour, fixture.StatusNotStarted))

	result := h.run(t, "run-1")
	if len(result.Groups) != 1 || result.Groups[0].Outcome != GroupOutcomeTracked {
		t.Fatalf("unexpected reports: %+v", result.Groups)
	}
	if got := h.trackedID(t, "grp-1"); got != "fx-new-1" {
		t.Fatalf("unexpected tracked fixture: got=%s want=fx-new-1", got)
	}
	stored, ok, _ := h.fixtures.GetByID(context.Background(), "fx-new-1")
	if !ok || stored.ExternalID != 1001 {
		t.Fatalf("unexpected stored fixture: %+v ok=%t", stored, ok)
	}
}

func TestCycleOrchestrator_FinishedFixtureSettlesAndAdvances(t *testing.T) {
	t.Parallel()

	current := trackedFixture()
	g := followerGroup("grp-1", 40, baseTime, 50)
	g.TrackedFixtureID = current.ID
	users := []user.User{{ID: "usr-a", GroupID: "grp-1"}, {ID: "usr-b", GroupID: "grp-1"}}

	h := newCycleHarness([]group.Group{g}, users, []fixture.Fixture{current}, "fx-new-1")
	mustCreateBet(t, h.bets, bet.Bet{ID: "bet-a", UserID: "usr-a", FixtureID: current.ID, PredictedHome: 2, PredictedAway: 1, Status: bet.StatusPending})
	mustCreateBet(t, h.bets, bet.Bet{ID: "bet-b", UserID: "usr-b", FixtureID: current.ID, PredictedHome: 0, PredictedAway: 0, Status: bet.StatusPending})

	h.provider.setNext(39, upcoming(1002, 39, 7*24*time.Hour, fixture.StatusNotStarted))
	final := current
	final.Status = fixture.StatusFinished
	final.Home.Score, final.Away.Score = intPtr(2), intPtr(1)
	h.provider.setFixture(final)
	h.provider.events[current.ExternalID] = []fixture.Event{{Type: fixture.EventGoal, Detail: fixture.DetailNormalGoal, PlayerID: 306, TeamID: 40}}
	h.provider.standings = []competition.StandingRow{{Rank: 1, TeamID: 40, Points: 20}}
	h.provider.players = []competition.Player{{ExternalID: 306, Name: "M. Salah"}}

	result := h.run(t, "run-1")
	report := result.Groups[0]
	if report.Outcome != GroupOutcomeSettled || report.Evaluation == nil || report.Evaluation.Evaluated != 2 {
		t.Fatalf("unexpected report: %+v", report)
	}
	if got := h.trackedID(t, "grp-1"); got != "fx-new-1" {
		t.Fatalf("expected next fixture tracked, got %s", got)
	}

	gotA, _, _ := h.bets.GetByUserAndFixture(context.Background(), "usr-a", current.ID)
	if gotA.Points != 6 {
		t.Fatalf("expected derby exact score to be 6, got %d", gotA.Points)
	}

	snapshot, ok, _ := h.competitions.Get(context.Background(), 39, 2025)
	if !ok || len(snapshot.Standings) != 1 || len(snapshot.Roster) != 1 {
		t.Fatalf("expected competition refreshed, got %+v ok=%t", snapshot, ok)
	}

	// A second pass over the same finished fixture must not double count.
	g2, _, _ := h.groups.GetByID(context.Background(), "grp-1")
	if err := h.groups.SetTrackedFixture(context.Background(), g2.ID, current.ID); err != nil {
		t.Fatalf("reset tracked fixture: %v", err)
	}
	h.run(t, "run-2")
	scores, _ := h.users.ListCompetitionScores(context.Background(), "usr-a")
	if len(scores) != 1 || scores[0].Points != 6 {
		t.Fatalf("unexpected scores after rerun: %+v", scores)
	}
}

func TestCycleOrchestrator_PostponedClearsThenResolvesNewFixture(t *testing.T) {
	t.Parallel()

	current := trackedFixture()
	g := followerGroup("grp-1", 40, baseTime)
	g.TrackedFixtureID = current.ID
	h := newCycleHarness([]group.Group{g}, nil, []fixture.Fixture{current}, "fx-rescheduled")

	postponed := current
	postponed.Status = fixture.StatusPostponed
	h.provider.setFixture(postponed)

	first := h.run(t, "run-1")
	if first.Groups[0].Outcome != GroupOutcomeUntracked {
		t.Fatalf("unexpected first outcome: %s", first.Groups[0].Outcome)
	}
	if got := h.trackedID(t, "grp-1"); got != "" {
		t.Fatalf("expected tracked fixture cleared, got %s", got)
	}

	h.provider.setNext(39, postponed, upcoming(1003, 39, 10*24*time.Hour, fixture.StatusNotStarted))

	second := h.run(t, "run-2")
	if second.Groups[0].Outcome != GroupOutcomeTracked {
		t.Fatalf("unexpected second outcome: %s", second.Groups[0].Outcome)
	}
	if got := h.trackedID(t, "grp-1"); got != "fx-rescheduled" {
		t.Fatalf("expected new fixture entity tracked, got %s", got)
	}
	if h.fixtures.Len() != 2 {
		t.Fatalf("expected a new fixture record, got %d fixtures", h.fixtures.Len())
	}
}

func TestCycleOrchestrator_SharedFixtureAcrossGroups(t *testing.T) {
	t.Parallel()

	groups := []group.Group{
		followerGroup("grp-home", 40, baseTime),
		followerGroup("grp-away", 50, baseTime.Add(time.Hour)),
	}
	h := newCycleHarness(groups, nil, nil, "fx-shared", "fx-unused")
	h.provider.setNext(39, upcoming(1001, 39, 48*time.Hour, fixture.StatusNotStarted))

	h.run(t, "run-1")

	home := h.trackedID(t, "grp-home")
	away := h.trackedID(t, "grp-away")
	if home != "fx-shared" || away != "fx-shared" {
		t.Fatalf("expected both groups on one fixture, got home=%s away=%s", home, away)
	}
	if h.fixtures.Len() != 1 {
		t.Fatalf("expected one fixture record, got %d", h.fixtures.Len())
	}
	if len(h.sleeps) != 1 || h.sleeps[0] != time.Minute {
		t.Fatalf("expected one inter-group delay of 1m, got %v", h.sleeps)
	}
}

func TestCycleOrchestrator_IsolatesGroupFaults(t *testing.T) {
	t.Parallel()

	broken := followerGroup("grp-broken", 40, baseTime)
	broken.FollowedTeam.Seasons = []group.Season{{Year: 2025, CompetitionIDs: []int64{2}}}
	healthy := followerGroup("grp-healthy", 50, baseTime.Add(time.Hour))
	healthy.FollowedTeam.Seasons = []group.Season{{Year: 2025, CompetitionIDs: []int64{39}}}

	h := newCycleHarness([]group.Group{broken, healthy}, nil, nil, "fx-1")
	h.provider.nextErr[2] = &DataProviderError{Endpoint: "/fixtures", StatusCode: 429, Payload: `{"requests":"limit"}`}
	h.provider.setNext(39, upcoming(1001, 39, 48*time.Hour, fixture.StatusNotStarted))

	result := h.run(t, "run-1")
	if result.FaultCount != 1 {
		t.Fatalf("unexpected fault count: got=%d want=1", result.FaultCount)
	}
	if result.Groups[0].Fault != FaultDataProvider {
		t.Fatalf("unexpected fault for broken group: %+v", result.Groups[0])
	}
	if result.Groups[1].Outcome != GroupOutcomeTracked {
		t.Fatalf("healthy group must still be processed: %+v", result.Groups[1])
	}

	events, err := h.runs.ListByRun(context.Background(), "run-1")
	if err != nil {
		t.Fatalf("list run events: %v", err)
	}
	var skipped int
	for _, event := range events {
		if event.Status == jobscheduler.StatusSkipped {
			skipped++
			if !strings.Contains(event.ErrorMessage, "429") {
				t.Fatalf("expected provider error in run event, got %q", event.ErrorMessage)
			}
		}
	}
	if skipped != 1 || len(events) != 4 {
		t.Fatalf("unexpected run journal: skipped=%d events=%d", skipped, len(events))
	}
}

func TestCycleOrchestrator_DuplicateSeasonFaultsOnlyThatGroup(t *testing.T) {
	t.Parallel()

	dup := followerGroup("grp-dup", 40, baseTime)
	dup.FollowedTeam.Seasons = append(dup.FollowedTeam.Seasons, group.Season{Year: 2025, CompetitionIDs: []int64{2}})
	healthy := followerGroup("grp-healthy", 50, baseTime.Add(time.Hour))

	h := newCycleHarness([]group.Group{dup, healthy}, nil, nil, "fx-1")
	h.provider.setNext(39, upcoming(1001, 39, 48*time.Hour, fixture.StatusNotStarted))

	result := h.run(t, "run-1")
	if result.GroupCount != 2 || result.FaultCount != 1 {
		t.Fatalf("unexpected counts: groups=%d faults=%d", result.GroupCount, result.FaultCount)
	}
	if result.Groups[0].Fault != FaultInvalidGroup || !strings.Contains(result.Groups[0].Error, "duplicate season") {
		t.Fatalf("unexpected report for duplicate-season group: %+v", result.Groups[0])
	}
	if result.Groups[1].Outcome != GroupOutcomeTracked {
		t.Fatalf("healthy group must still be processed: %+v", result.Groups[1])
	}
	if got := h.trackedID(t, "grp-dup"); got != "" {
		t.Fatalf("invalid group must stay untracked: got=%s", got)
	}
}

type partialGroupRepo struct {
	*memory.GroupRepository
	invalid []*group.InvalidGroupError
}

func (r partialGroupRepo) List(ctx context.Context) ([]group.Group, error) {
	items, err := r.GroupRepository.List(ctx)
	if err != nil {
		return nil, err
	}
	return items, &group.ListError{Invalid: r.invalid}
}

func TestCycleOrchestrator_UnloadableGroupDoesNotStopPass(t *testing.T) {
	t.Parallel()

	h := newCycleHarness([]group.Group{followerGroup("grp-1", 40, baseTime)}, nil, nil, "fx-1")
	h.orchestrator.groupRepo = partialGroupRepo{
		GroupRepository: h.groups,
		invalid: []*group.InvalidGroupError{{
			GroupID: "grp-corrupt",
			Err:     errors.New("decode followed team: unexpected end of JSON input"),
		}},
	}
	h.provider.setNext(39, upcoming(1001, 39, 48*time.Hour, fixture.StatusNotStarted))

	result := h.run(t, "run-1")
	if result.GroupCount != 2 || result.FaultCount != 1 || len(result.Groups) != 2 {
		t.Fatalf("unexpected result: %+v", result)
	}
	if result.Groups[0].GroupID != "grp-corrupt" || result.Groups[0].Fault != FaultInvalidGroup {
		t.Fatalf("unexpected report for unloadable group: %+v", result.Groups[0])
	}
	if result.Groups[1].GroupID != "grp-1" || result.Groups[1].Outcome != GroupOutcomeTracked {
		t.Fatalf("loaded group must still be processed: %+v", result.Groups[1])
	}
	if len(h.sleeps) != 0 {
		t.Fatalf("unloadable group must not add a delay: got=%v", h.sleeps)
	}

	events, err := h.runs.ListByRun(context.Background(), "run-1")
	if err != nil {
		t.Fatalf("list run events: %v", err)
	}
	var skipped int
	for _, event := range events {
		if event.Status == jobscheduler.StatusSkipped && event.GroupID == "grp-corrupt" {
			skipped++
		}
	}
	if skipped != 1 {
		t.Fatalf("expected one skipped event for grp-corrupt, got=%d", skipped)
	}
}

func TestCycleOrchestrator_RefreshFailureDoesNotBlock(t *testing.T) {
	t.Parallel()

	current := trackedFixture()
	g := followerGroup("grp-1", 40, baseTime)
	g.TrackedFixtureID = current.ID
	h := newCycleHarness([]group.Group{g}, nil, []fixture.Fixture{current}, "fx-next")

	final := current
	final.Status = fixture.StatusFinishedAfterPenalties
	final.Home.Score, final.Away.Score = intPtr(1), intPtr(1)
	h.provider.setNext(2, upcoming(2001, 2, 72*time.Hour, fixture.StatusNotStarted))
	h.provider.setFixture(final)
	h.provider.events[current.ExternalID] = []fixture.Event{{Type: fixture.EventCard, Detail: fixture.DetailYellowCard}}
	h.provider.refreshErr = &DataProviderError{Endpoint: "/standings", StatusCode: 503}

	result := h.run(t, "run-1")
	if result.Groups[0].Outcome != GroupOutcomeSettled || result.FaultCount != 0 {
		t.Fatalf("refresher failure must not fail the group: %+v", result.Groups[0])
	}
	if got := h.trackedID(t, "grp-1"); got != "fx-next" {
		t.Fatalf("unexpected tracked fixture: %s", got)
	}
}

func TestCycleOrchestrator_RejectsOverlappingRuns(t *testing.T) {
	t.Parallel()

	h := newCycleHarness(nil, nil, nil)
	h.orchestrator.running.Store(true)

	_, err := h.orchestrator.RunOnce(context.Background(), RunCycleInput{})
	if !errors.Is(err, ErrCycleInProgress) {
		t.Fatalf("expected ErrCycleInProgress, got %v", err)
	}
}

func TestCycleOrchestrator_UnknownGroup(t *testing.T) {
	t.Parallel()

	h := newCycleHarness(nil, nil, nil)
	_, err := h.orchestrator.RunOnce(context.Background(), RunCycleInput{GroupID: "missing", RunID: "run-x"})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if h.orchestrator.Running() {
		t.Fatalf("running flag must be released")
	}
}

func TestRunEventID_IsStable(t *testing.T) {
	t.Parallel()

	got := runEventID("manual:2025/10/04", "group", "grp 1", jobscheduler.StatusCompleted)
	want := "manual-2025-10-04-group-grp-1-completed"
	if got != want {
		t.Fatalf("unexpected event id: got=%q want=%q", got, want)
	}
}
