package usecase

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"sync/atomic"
	"time"

	"github.com/riskibarqy/fanbet/internal/domain/fixture"
	"github.com/riskibarqy/fanbet/internal/domain/group"
	"github.com/riskibarqy/fanbet/internal/domain/jobscheduler"
	"github.com/riskibarqy/fanbet/internal/domain/user"
	"github.com/riskibarqy/fanbet/internal/platform/id"
	"github.com/riskibarqy/fanbet/internal/platform/logging"
)

const defaultGroupDelay = time.Minute

const (
	GroupOutcomeTracked       = "tracked"
	GroupOutcomeNoUpcoming    = "no_upcoming_fixture"
	GroupOutcomeWaiting       = "waiting"
	GroupOutcomeUntracked     = "untracked_postponed_or_cancelled"
	GroupOutcomeSettled       = "settled"
	GroupOutcomeSettledNoNext = "settled_no_upcoming_fixture"
	GroupOutcomeFault         = "fault"
)

type CycleConfig struct {
	GroupDelay time.Duration
}

type RunCycleInput struct {
	Trigger string
	GroupID string
	RunID   string
}

type GroupReport struct {
	GroupID    string             `json:"group_id"`
	Outcome    string             `json:"outcome"`
	FixtureID  string             `json:"fixture_id,omitempty"`
	Fault      string             `json:"fault,omitempty"`
	Error      string             `json:"error,omitempty"`
	Evaluation *EvaluationSummary `json:"evaluation,omitempty"`
}

type CycleResult struct {
	RunID      string        `json:"run_id"`
	Trigger    string        `json:"trigger"`
	StartedAt  time.Time     `json:"started_at"`
	FinishedAt time.Time     `json:"finished_at"`
	GroupCount int           `json:"group_count"`
	FaultCount int           `json:"fault_count"`
	Groups     []GroupReport `json:"groups"`
}

// CycleOrchestrator drives one pass over every group. Groups are handled one at a time with
// a fixed delay between them to stay under the provider quota.
type CycleOrchestrator struct {
	groupRepo   group.Repository
	fixtureRepo fixture.Repository
	userRepo    user.Repository
	runRepo     jobscheduler.Repository
	tracker     *GameStateTracker
	evaluator   *BetEvaluator
	resolver    *FixtureResolver
	refresher   *CompetitionRefresher
	ids         id.Generator
	cfg         CycleConfig
	logger      *logging.Logger
	now         func() time.Time
	sleep       func(ctx context.Context, d time.Duration) error
	running     atomic.Bool
}

var runIDUnsafeCharRegex = regexp.MustCompile(`[^a-zA-Z0-9_-]`)

func NewCycleOrchestrator(
	groupRepo group.Repository,
	fixtureRepo fixture.Repository,
	userRepo user.Repository,
	runRepo jobscheduler.Repository,
	tracker *GameStateTracker,
	evaluator *BetEvaluator,
	resolver *FixtureResolver,
	refresher *CompetitionRefresher,
	ids id.Generator,
	cfg CycleConfig,
	logger *logging.Logger,
) *CycleOrchestrator {
	if logger == nil {
		logger = logging.Default()
	}
	if ids == nil {
		ids = id.NewUUIDGenerator()
	}
	if cfg.GroupDelay <= 0 {
		cfg.GroupDelay = defaultGroupDelay
	}
	return &CycleOrchestrator{
		groupRepo:   groupRepo,
		fixtureRepo: fixtureRepo,
		userRepo:    userRepo,
		runRepo:     runRepo,
		tracker:     tracker,
		evaluator:   evaluator,
		resolver:    resolver,
		refresher:   refresher,
		ids:         ids,
		cfg:         cfg,
		logger:      logger,
		now:         time.Now,
		sleep:       sleepContext,
	}
}

// RunOnce processes every group, or only input.GroupID when set. A fault in one group is
// recorded and the pass moves on. Only one pass runs at a time.
func (o *CycleOrchestrator) RunOnce(ctx context.Context, input RunCycleInput) (CycleResult, error) {
	if !o.running.CompareAndSwap(false, true) {
		return CycleResult{}, ErrCycleInProgress
	}
	defer o.running.Store(false)

	ctx, span := startUsecaseSpan(ctx, "usecase.CycleOrchestrator.RunOnce")
	defer span.End()

	trigger := strings.TrimSpace(input.Trigger)
	if trigger == "" {
		trigger = jobscheduler.TriggerManual
	}
	runID := sanitizeRunSegment(input.RunID)
	if runID == "" {
		generated, err := o.ids.NewID()
		if err != nil {
			return CycleResult{}, fmt.Errorf("generate run id: %w", err)
		}
		runID = generated
	}

	result := CycleResult{
		RunID:     runID,
		Trigger:   trigger,
		StartedAt: o.now().UTC(),
	}

	groups, invalid, err := o.pickGroups(ctx, input.GroupID)
	if err != nil {
		o.recordRunEvent(ctx, result, "run", "", jobscheduler.StatusFailed, nil, err)
		return result, err
	}
	result.GroupCount = len(groups) + len(invalid)
	result.Groups = make([]GroupReport, 0, result.GroupCount)
	o.recordRunEvent(ctx, result, "run", "", jobscheduler.StatusStarted, map[string]any{"group_count": result.GroupCount}, nil)

	o.logger.InfoContext(ctx, "cycle started", "run_id", runID, "trigger", trigger, "group_count", result.GroupCount)

	// Unloadable groups never reach the provider, so they are reported without a delay.
	for _, fault := range invalid {
		o.recordGroupReport(ctx, &result, o.faultReport(ctx, fault.GroupID, GroupReport{}, fault))
	}

	for i, item := range groups {
		if i > 0 && o.cfg.GroupDelay > 0 {
			if err := o.sleep(ctx, o.cfg.GroupDelay); err != nil {
				result.FinishedAt = o.now().UTC()
				o.recordRunEvent(ctx, result, "run", "", jobscheduler.StatusFailed, nil, err)
				return result, fmt.Errorf("cycle interrupted before group=%s: %w", item.ID, err)
			}
		}

		o.recordGroupReport(ctx, &result, o.processGroup(ctx, item))
	}

	result.FinishedAt = o.now().UTC()
	o.recordRunEvent(ctx, result, "run", "", jobscheduler.StatusCompleted, map[string]any{
		"group_count": result.GroupCount,
		"fault_count": result.FaultCount,
	}, nil)
	o.logger.InfoContext(ctx, "cycle completed",
		"run_id", runID,
		"group_count", result.GroupCount,
		"fault_count", result.FaultCount,
		"duration", result.FinishedAt.Sub(result.StartedAt),
	)
	return result, nil
}

// Running reports whether a pass is currently in flight.
func (o *CycleOrchestrator) Running() bool {
	return o.running.Load()
}

func (o *CycleOrchestrator) recordGroupReport(ctx context.Context, result *CycleResult, report GroupReport) {
	result.Groups = append(result.Groups, report)

	status := jobscheduler.StatusCompleted
	var groupErr error
	if report.Fault != "" {
		result.FaultCount++
		status = jobscheduler.StatusSkipped
		groupErr = errors.New(report.Error)
	}
	o.recordRunEvent(ctx, *result, "group", report.GroupID, status, map[string]any{
		"outcome":    report.Outcome,
		"fixture_id": report.FixtureID,
		"fault":      report.Fault,
	}, groupErr)
}

// pickGroups loads the groups for a pass. Groups the store cannot materialise come back
// in invalid so the rest of the pass still runs.
func (o *CycleOrchestrator) pickGroups(ctx context.Context, groupID string) (groups []group.Group, invalid []*group.InvalidGroupError, err error) {
	groupID = strings.TrimSpace(groupID)
	if groupID == "" {
		items, err := o.groupRepo.List(ctx)
		var partial *group.ListError
		if errors.As(err, &partial) {
			return items, partial.Invalid, nil
		}
		if err != nil {
			return nil, nil, persistenceFault("list groups", err)
		}
		return items, nil, nil
	}

	item, exists, err := o.groupRepo.GetByID(ctx, groupID)
	var bad *group.InvalidGroupError
	if errors.As(err, &bad) {
		return nil, []*group.InvalidGroupError{bad}, nil
	}
	if err != nil {
		return nil, nil, persistenceFault("get group", err)
	}
	if !exists {
		return nil, nil, fmt.Errorf("%w: group=%s", ErrNotFound, groupID)
	}
	return []group.Group{item}, nil, nil
}

// processGroup runs the tracked fixture through its lifecycle. Every error stops this group only.
func (o *CycleOrchestrator) processGroup(ctx context.Context, item group.Group) GroupReport {
	ctx, span := startUsecaseSpan(ctx, "usecase.CycleOrchestrator.processGroup")
	defer span.End()

	report, err := o.advanceGroup(ctx, item)
	if err != nil {
		return o.faultReport(ctx, item.ID, report, err)
	}
	return report
}

func (o *CycleOrchestrator) faultReport(ctx context.Context, groupID string, report GroupReport, err error) GroupReport {
	report.GroupID = groupID
	report.Outcome = GroupOutcomeFault
	report.Fault = FaultKind(err)
	report.Error = err.Error()

	logFn := o.logger.WarnContext
	if report.Fault == FaultUnknownStatus || report.Fault == FaultInvalidGroup {
		logFn = o.logger.ErrorContext
	}
	logFn(ctx, "group cycle skipped",
		"group_id", groupID,
		"fixture_id", report.FixtureID,
		"fault", report.Fault,
		"error", err,
	)
	return report
}

func (o *CycleOrchestrator) advanceGroup(ctx context.Context, item group.Group) (GroupReport, error) {
	report := GroupReport{GroupID: item.ID, FixtureID: item.TrackedFixtureID}
	if err := item.FollowedTeam.Validate(); err != nil {
		return report, &group.InvalidGroupError{GroupID: item.ID, Err: err}
	}

	if !item.HasTrackedFixture() {
		return o.trackNext(ctx, item, report, GroupOutcomeTracked, GroupOutcomeNoUpcoming)
	}

	current, exists, err := o.fixtureRepo.GetByID(ctx, item.TrackedFixtureID)
	if err != nil {
		return report, persistenceFault("get tracked fixture", err)
	}
	if !exists {
		o.logger.WarnContext(ctx, "tracked fixture missing, re-resolving", "group_id", item.ID, "fixture_id", item.TrackedFixtureID)
		return o.trackNext(ctx, item, report, GroupOutcomeTracked, GroupOutcomeNoUpcoming)
	}

	tracked, err := o.tracker.Refresh(ctx, current)
	if err != nil {
		return report, err
	}

	switch tracked.Outcome {
	case TrackNotFinished:
		report.Outcome = GroupOutcomeWaiting
		return report, nil
	case TrackPostponedOrCancelled:
		if err := o.groupRepo.SetTrackedFixture(ctx, item.ID, ""); err != nil {
			return report, persistenceFault("clear tracked fixture", err)
		}
		report.Outcome = GroupOutcomeUntracked
		return report, nil
	case TrackFinished:
	default:
		return report, fmt.Errorf("unexpected track outcome %d", tracked.Outcome)
	}

	members, err := o.userRepo.ListByGroup(ctx, item.ID)
	if err != nil {
		return report, persistenceFault("list group users", err)
	}
	summary, err := o.evaluator.Evaluate(ctx, EvaluateBetsInput{Fixture: tracked.Fixture, Group: item, Users: members})
	if err != nil {
		return report, err
	}
	report.Evaluation = &summary

	report, err = o.trackNext(ctx, item, report, GroupOutcomeSettled, GroupOutcomeSettledNoNext)
	if err != nil {
		return report, err
	}

	o.refreshCompetition(ctx, item, report.FixtureID, tracked.Fixture)
	return report, nil
}

// trackNext resolves the group's next fixture and points the group at it. Without an upcoming
// fixture the tracked reference is cleared.
func (o *CycleOrchestrator) trackNext(ctx context.Context, item group.Group, report GroupReport, found, missing string) (GroupReport, error) {
	season, ok := item.FollowedTeam.LatestSeason()
	if !ok {
		return o.untrack(ctx, item, report, missing)
	}

	next, exists, err := o.resolver.FindUpcoming(ctx, ResolveFixtureInput{
		TeamID:         item.FollowedTeam.ExternalID,
		Season:         season.Year,
		CompetitionIDs: season.CompetitionIDs,
	})
	if err != nil {
		return report, err
	}
	if !exists {
		return o.untrack(ctx, item, report, missing)
	}

	stored, err := o.storeResolved(ctx, next)
	if err != nil {
		return report, err
	}
	if err := o.groupRepo.SetTrackedFixture(ctx, item.ID, stored.ID); err != nil {
		return report, persistenceFault("set tracked fixture", err)
	}

	report.Outcome = found
	report.FixtureID = stored.ID
	return report, nil
}

func (o *CycleOrchestrator) untrack(ctx context.Context, item group.Group, report GroupReport, outcome string) (GroupReport, error) {
	if item.HasTrackedFixture() {
		if err := o.groupRepo.SetTrackedFixture(ctx, item.ID, ""); err != nil {
			return report, persistenceFault("clear tracked fixture", err)
		}
	}
	report.Outcome = outcome
	report.FixtureID = ""
	return report, nil
}

// storeResolved reuses the stored fixture with the same external id so groups following
// both teams of a match share one record.
func (o *CycleOrchestrator) storeResolved(ctx context.Context, next fixture.Fixture) (fixture.Fixture, error) {
	existing, exists, err := o.fixtureRepo.GetByExternalID(ctx, next.ExternalID)
	if err != nil {
		return fixture.Fixture{}, persistenceFault("get fixture by external id", err)
	}

	toSave := next
	if exists {
		toSave = existing
		if fixture.CanTransition(existing.Status, next.Status) {
			toSave = existing.ApplyProviderState(next)
		}
	} else {
		newID, err := o.ids.NewID()
		if err != nil {
			return fixture.Fixture{}, fmt.Errorf("generate fixture id: %w", err)
		}
		toSave.ID = newID
	}
	toSave.UpdatedAt = o.now().UTC()

	saved, err := o.fixtureRepo.Save(ctx, toSave)
	if err != nil {
		return fixture.Fixture{}, persistenceFault("save resolved fixture", err)
	}
	return saved, nil
}

// refreshCompetition updates display data for the competition the group now follows.
// Failures are logged only.
func (o *CycleOrchestrator) refreshCompetition(ctx context.Context, item group.Group, nextFixtureID string, finished fixture.Fixture) {
	if o.refresher == nil {
		return
	}

	competitionID, season := finished.CompetitionID, finished.Season
	if nextFixtureID != "" {
		next, exists, err := o.fixtureRepo.GetByID(ctx, nextFixtureID)
		if err == nil && exists && next.CompetitionID > 0 {
			competitionID, season = next.CompetitionID, next.Season
		}
	}
	if competitionID <= 0 || season <= 0 {
		latest, ok := item.FollowedTeam.LatestSeason()
		if !ok || len(latest.CompetitionIDs) == 0 {
			return
		}
		competitionID, season = latest.CompetitionIDs[0], latest.Year
	}

	if err := o.refresher.Refresh(ctx, RefreshCompetitionInput{Group: item, CompetitionID: competitionID, Season: season}); err != nil {
		o.logger.WarnContext(ctx, "competition refresh failed",
			"group_id", item.ID,
			"competition_id", competitionID,
			"season", season,
			"fault", FaultKind(err),
			"error", err,
		)
	}
}

func (o *CycleOrchestrator) recordRunEvent(
	ctx context.Context,
	run CycleResult,
	step string,
	groupID string,
	status jobscheduler.RunStatus,
	payload map[string]any,
	cause error,
) {
	if o.runRepo == nil {
		return
	}

	event := jobscheduler.RunEvent{
		EventID:    runEventID(run.RunID, step, groupID, status),
		RunID:      run.RunID,
		Trigger:    run.Trigger,
		Step:       step,
		GroupID:    groupID,
		Status:     status,
		Payload:    payload,
		OccurredAt: o.now().UTC(),
	}
	if cause != nil {
		event.ErrorMessage = cause.Error()
	}
	event.TraceID, event.SpanID = traceMetaFromContext(ctx)

	if err := o.runRepo.UpsertEvent(ctx, event); err != nil {
		o.logger.WarnContext(ctx, "record cycle run event failed",
			"run_id", run.RunID,
			"step", step,
			"group_id", groupID,
			"error", err,
		)
	}
}

// runEventID is stable per (run, step, group, status) so a retried write overwrites itself.
func runEventID(runID, step, groupID string, status jobscheduler.RunStatus) string {
	parts := []string{sanitizeRunSegment(runID), sanitizeRunSegment(step)}
	if groupID != "" {
		parts = append(parts, sanitizeRunSegment(groupID))
	}
	parts = append(parts, sanitizeRunSegment(string(status)))
	return strings.Join(parts, "-")
}

func sanitizeRunSegment(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return ""
	}
	return runIDUnsafeCharRegex.ReplaceAllString(value, "-")
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
