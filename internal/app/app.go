package app

import (
	"context"
	"fmt"
	"net/http"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/fanbet/external/apifootball"
	"github.com/riskibarqy/fanbet/internal/config"
	"github.com/riskibarqy/fanbet/internal/domain/bet"
	"github.com/riskibarqy/fanbet/internal/domain/competition"
	"github.com/riskibarqy/fanbet/internal/domain/fixture"
	"github.com/riskibarqy/fanbet/internal/domain/group"
	"github.com/riskibarqy/fanbet/internal/domain/jobscheduler"
	"github.com/riskibarqy/fanbet/internal/domain/user"
	repocache "github.com/riskibarqy/fanbet/internal/infrastructure/repository/cache"
	"github.com/riskibarqy/fanbet/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/fanbet/internal/infrastructure/repository/postgres"
	"github.com/riskibarqy/fanbet/internal/infrastructure/scheduler"
	"github.com/riskibarqy/fanbet/internal/interfaces/httpapi"
	"github.com/riskibarqy/fanbet/internal/platform/id"
	"github.com/riskibarqy/fanbet/internal/platform/logging"
	"github.com/riskibarqy/fanbet/internal/platform/resilience"
	"github.com/riskibarqy/fanbet/internal/usecase"
)

// App holds the wired service. Scheduler is nil when CYCLE_ENABLED=false.
type App struct {
	Server    *http.Server
	Scheduler *scheduler.Scheduler

	db     *sqlx.DB
	logger *logging.Logger
}

type repositories struct {
	groups       group.Repository
	users        user.Repository
	fixtures     fixture.Repository
	bets         bet.Repository
	competitions competition.Repository
	runs         jobscheduler.Repository
}

func New(ctx context.Context, cfg config.Config, logger *logging.Logger) (*App, error) {
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.HTTPAddr == "" {
		return nil, fmt.Errorf("http server addr cannot be empty")
	}

	out := &App{logger: logger}

	var repos repositories
	switch cfg.StoreDriver {
	case config.StorePostgres:
		db, err := openDB(ctx, cfg)
		if err != nil {
			return nil, err
		}
		out.db = db
		if cfg.AppEnv == config.EnvDev {
			if err := postgres.BootstrapSeed(ctx, db); err != nil {
				_ = db.Close()
				return nil, fmt.Errorf("bootstrap seed: %w", err)
			}
		}
		repos = postgresRepositories(db)
		if cfg.CacheEnabled {
			repos.groups = repocache.NewGroupRepository(repos.groups, cfg.CacheTTL)
			repos.users = repocache.NewUserRepository(repos.users, cfg.CacheTTL)
		}
		logger.Info("store ready", "driver", config.StorePostgres, "db_name", dbNameFromURL(cfg.DBURL), "cache_enabled", cfg.CacheEnabled)
	default:
		repos = memoryRepositories()
		logger.Info("store ready", "driver", config.StoreMemory, "seed_group", memory.SeedGroupID)
	}

	provider := apifootball.NewClient(apifootball.ClientConfig{
		BaseURL:    cfg.SportsDataBaseURL,
		APIKey:     cfg.SportsDataAPIKey,
		APIHost:    cfg.SportsDataAPIHost,
		Timeout:    cfg.SportsDataTimeout,
		MaxRetries: cfg.SportsDataMaxRetries,
		CacheTTL:   cfg.SportsDataCacheTTL,
		Logger:     logger.Named("apifootball"),
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          cfg.SportsDataCircuitEnabled,
			FailureThreshold: cfg.SportsDataCircuitFailureCount,
			OpenTimeout:      cfg.SportsDataCircuitOpenTimeout,
			HalfOpenMaxReq:   cfg.SportsDataCircuitHalfOpenMaxReq,
		},
	})

	cycle := usecase.NewCycleOrchestrator(
		repos.groups,
		repos.fixtures,
		repos.users,
		repos.runs,
		usecase.NewGameStateTracker(provider, repos.fixtures, logger),
		usecase.NewBetEvaluator(repos.bets, logger),
		usecase.NewFixtureResolver(provider, usecase.FixtureResolverConfig{MaxConcurrency: cfg.ResolverMaxConcurrency}, logger),
		usecase.NewCompetitionRefresher(provider, repos.competitions, usecase.CompetitionRefresherConfig{PoolSize: cfg.RefresherPoolSize}, logger),
		id.NewUUIDGenerator(),
		usecase.CycleConfig{GroupDelay: cfg.CycleGroupDelay},
		logger.Named("cycle"),
	)
	betSvc := usecase.NewBetService(repos.bets, repos.fixtures, repos.users, id.NewUUIDGenerator())
	groupSvc := usecase.NewGroupService(repos.groups, repos.fixtures, repos.users)

	if cfg.CycleEnabled {
		out.Scheduler = scheduler.New(cycle, scheduler.Config{
			Spec:       cfg.CycleSchedule,
			RunOnStart: cfg.CycleRunOnStart,
		}, logger)
	} else {
		logger.Info("cycle scheduler disabled", "reason", "CYCLE_ENABLED=false")
	}

	handler := httpapi.NewHandler(cycle, betSvc, groupSvc, logger.Named("http"))
	out.Server = &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      httpapi.NewRouter(handler, logger, cfg.CORSAllowedOrigins, cfg.InternalJobToken),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	return out, nil
}

// Close releases the database handle, if any. The HTTP server and scheduler are
// stopped by the caller.
func (a *App) Close() error {
	if a == nil || a.db == nil {
		return nil
	}
	if err := a.db.Close(); err != nil {
		return fmt.Errorf("close db: %w", err)
	}
	return nil
}

func memoryRepositories() repositories {
	users := memory.NewUserRepository(memory.SeedUsers())
	return repositories{
		groups:       memory.NewGroupRepository(memory.SeedGroups()),
		users:        users,
		fixtures:     memory.NewFixtureRepository(nil),
		bets:         memory.NewBetRepository(users),
		competitions: memory.NewCompetitionRepository(nil),
		runs:         memory.NewRunEventRepository(),
	}
}

func postgresRepositories(db *sqlx.DB) repositories {
	return repositories{
		groups:       postgres.NewGroupRepository(db),
		users:        postgres.NewUserRepository(db),
		fixtures:     postgres.NewFixtureRepository(db),
		bets:         postgres.NewBetRepository(db),
		competitions: postgres.NewCompetitionRepository(db),
		runs:         postgres.NewRunEventRepository(db),
	}
}
