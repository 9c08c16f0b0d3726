package scheduler

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	crerr "github.com/cockroachdb/errors"
	"github.com/riskibarqy/fanbet/internal/domain/jobscheduler"
	"github.com/riskibarqy/fanbet/internal/platform/logging"
	"github.com/riskibarqy/fanbet/internal/usecase"
	"github.com/robfig/cron/v3"
)

const DefaultSpec = "@every 2h"

// CycleRunner is the orchestrator surface the scheduler drives.
type CycleRunner interface {
	RunOnce(ctx context.Context, input usecase.RunCycleInput) (usecase.CycleResult, error)
}

type Config struct {
	Spec       string
	RunOnStart bool
	// StopTimeout bounds how long Stop waits for an in-flight pass.
	StopTimeout time.Duration
}

// Scheduler fires CycleRunner.RunOnce on a cron spec. Overlapping fires are skipped.
type Scheduler struct {
	runner CycleRunner
	cfg    Config
	logger *logging.Logger

	mu      sync.Mutex
	cron    *cron.Cron
	baseCtx context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

func New(runner CycleRunner, cfg Config, logger *logging.Logger) *Scheduler {
	if logger == nil {
		logger = logging.Default()
	}
	cfg.Spec = strings.TrimSpace(cfg.Spec)
	if cfg.Spec == "" {
		cfg.Spec = DefaultSpec
	}
	if cfg.StopTimeout <= 0 {
		cfg.StopTimeout = 30 * time.Second
	}
	return &Scheduler{
		runner: runner,
		cfg:    cfg,
		logger: logger.Named("scheduler"),
	}
}

// Start registers the cycle job and starts the cron loop. ctx scopes every pass the
// scheduler launches; cancelling it aborts in-flight work.
func (s *Scheduler) Start(ctx context.Context) error {
	if s.runner == nil {
		return crerr.New("cycle runner is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cron != nil {
		return crerr.New("scheduler already started")
	}

	cronLogger := cronLogAdapter{logger: s.logger}
	c := cron.New(
		cron.WithLogger(cronLogger),
		cron.WithChain(cron.Recover(cronLogger), cron.SkipIfStillRunning(cronLogger)),
	)

	baseCtx, cancel := context.WithCancel(ctx)
	entryID, err := c.AddFunc(s.cfg.Spec, func() {
		_, _ = s.Tick(baseCtx, jobscheduler.TriggerSchedule)
	})
	if err != nil {
		cancel()
		return crerr.Wrapf(err, "register cycle job spec=%q", s.cfg.Spec)
	}

	s.cron = c
	s.baseCtx = baseCtx
	s.cancel = cancel
	c.Start()

	s.logger.Info("cycle scheduler started",
		"spec", s.cfg.Spec,
		"run_on_start", s.cfg.RunOnStart,
		"next_run", c.Entry(entryID).Next,
	)

	if s.cfg.RunOnStart {
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			_, _ = s.Tick(baseCtx, jobscheduler.TriggerStartup)
		}()
	}
	return nil
}

// Stop halts new fires and waits for running passes up to StopTimeout or ctx.
func (s *Scheduler) Stop(ctx context.Context) error {
	s.mu.Lock()
	c, cancel := s.cron, s.cancel
	s.cron, s.cancel = nil, nil
	s.mu.Unlock()
	if c == nil {
		return nil
	}

	done := make(chan struct{})
	go func() {
		<-c.Stop().Done()
		s.wg.Wait()
		close(done)
	}()

	timer := time.NewTimer(s.cfg.StopTimeout)
	defer timer.Stop()

	var err error
	select {
	case <-done:
	case <-ctx.Done():
		err = crerr.Wrap(ctx.Err(), "wait for cycle scheduler")
	case <-timer.C:
		err = crerr.Newf("cycle scheduler did not stop within %s", s.cfg.StopTimeout)
	}
	cancel()
	s.logger.Info("cycle scheduler stopped", "error", err)
	return err
}

// Tick runs one pass synchronously. A pass already in progress is reported as skipped,
// not as an error.
func (s *Scheduler) Tick(ctx context.Context, trigger string) (usecase.CycleResult, error) {
	if strings.TrimSpace(trigger) == "" {
		trigger = jobscheduler.TriggerManual
	}

	startedAt := time.Now()
	result, err := s.runner.RunOnce(ctx, usecase.RunCycleInput{Trigger: trigger})
	if err != nil {
		if errors.Is(err, usecase.ErrCycleInProgress) {
			s.logger.InfoContext(ctx, "cycle pass skipped, previous pass still running", "trigger", trigger)
			return usecase.CycleResult{}, err
		}
		s.logger.ErrorContext(ctx, "cycle pass failed",
			"trigger", trigger,
			"fault", usecase.FaultKind(err),
			"error", err,
		)
		return result, crerr.Wrapf(err, "run cycle trigger=%s", trigger)
	}

	s.logger.InfoContext(ctx, "cycle pass finished",
		"trigger", trigger,
		"run_id", result.RunID,
		"groups", result.GroupCount,
		"faults", result.FaultCount,
		"duration", time.Since(startedAt),
	)
	return result, nil
}

// NextRun reports when the cycle job fires next.
func (s *Scheduler) NextRun() (time.Time, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cron == nil {
		return time.Time{}, false
	}
	entries := s.cron.Entries()
	if len(entries) == 0 {
		return time.Time{}, false
	}
	return entries[0].Next, true
}

type cronLogAdapter struct {
	logger *logging.Logger
}

func (a cronLogAdapter) Info(msg string, keysAndValues ...any) {
	a.logger.Debug("cron: "+msg, keysAndValues...)
}

func (a cronLogAdapter) Error(err error, msg string, keysAndValues ...any) {
	args := append([]any{"error", err}, keysAndValues...)
	a.logger.Error("cron: "+msg, args...)
}
