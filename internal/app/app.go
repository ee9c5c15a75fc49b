// Package app assembles stores, cache and services from configuration.
// Both the HTTP server and the examctl CLI start from here.
package app

import (
	"context"
	"errors"
	"fmt"

	"mocktest-engine/internal/adapter"
	"mocktest-engine/internal/cache"
	"mocktest-engine/internal/config"
	"mocktest-engine/internal/database"
	"mocktest-engine/internal/domain"
	"mocktest-engine/internal/repository"
	"mocktest-engine/internal/repository/memory"
	"mocktest-engine/internal/service"

	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Options tweaks how New builds the application.
type Options struct {
	// Memory uses the in-process store instead of the configured database.
	Memory bool
	// Store is used in Memory mode when set, so callers can preload it.
	Store *memory.Store
	// SkipCache leaves the cache out even when redis is configured.
	SkipCache bool
	Logger    *zap.Logger
}

// Repositories is the persistence boundary in use.
type Repositories struct {
	Questions   domain.QuestionRepository
	Blueprints  domain.BlueprintRepository
	Exams       domain.ExamRepository
	RankTables  domain.RankTableRepository
	Attempts    domain.AttemptRepository
	Transaction domain.TransactionManager
}

// App holds the wired services and the resources they depend on.
type App struct {
	Config *config.Config
	Repos  Repositories
	Cache  domain.Cache

	Exams       service.ExamService
	Ranks       service.RankService
	Attempts    service.AttemptService
	Leaderboard service.LeaderboardService
	Auth        service.AuthService

	db    *sqlx.DB
	redis *redis.Client
}

// New connects to the configured store and cache and builds every service.
func New(cfg *config.Config, opts Options) (*App, error) {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	policy, err := domain.ParseRetakePolicy(cfg.Attempts.RetakePolicy)
	if err != nil {
		return nil, err
	}

	a := &App{Config: cfg}
	if opts.Memory {
		store := opts.Store
		if store == nil {
			store = memory.NewStore()
		}
		a.Repos = Repositories{
			Questions:   store.Questions,
			Blueprints:  store.Blueprints,
			Exams:       store.Exams,
			RankTables:  store.RankTables,
			Attempts:    store.Attempts,
			Transaction: store.Transaction,
		}
		log.Info("Using in-memory store")
	} else {
		db, err := database.Open(cfg)
		if err != nil {
			return nil, err
		}
		a.db = db
		// the local store is created on demand; Oracle schemas go through cmd/migrate
		if cfg.DB.Driver == config.DriverSQLite {
			if err := database.RunMigrations(db.DB, config.DriverSQLite, database.Up); err != nil {
				a.Close()
				return nil, err
			}
		}
		a.Repos = Repositories{
			Questions:   repository.NewSQLXQuestionRepository(db),
			Blueprints:  repository.NewSQLXBlueprintRepository(db),
			Exams:       repository.NewSQLXExamRepository(db),
			RankTables:  repository.NewSQLXRankTableRepository(db),
			Attempts:    repository.NewSQLXAttemptRepository(db),
			Transaction: repository.NewTransactionManagerAdapter(db),
		}
	}

	if !opts.SkipCache && cfg.Redis.Address != "" {
		client, err := cache.NewRedisClient(cfg.Redis)
		if err != nil {
			a.Close()
			return nil, err
		}
		a.redis = client
		a.Cache = adapter.NewRedisCacheAdapter(client)
		log.Info("Connected to Redis", zap.String("address", cfg.Redis.Address))
	} else {
		log.Info("Cache disabled; rank tables and leaderboards are read from the store")
	}

	r := a.Repos
	lbCache := service.NewLeaderboardCacheService(a.Cache, cfg.CacheTTLs.Leaderboard)
	a.Exams = service.NewExamService(r.Questions, r.Blueprints, r.Exams, r.Transaction, cfg.Sampler, log.Named("exams"))
	a.Ranks = service.NewRankService(r.RankTables, r.Exams, r.Transaction, a.Cache, cfg.CacheTTLs.RankTable, log.Named("ranking"))
	a.Attempts = service.NewAttemptService(r.Attempts, r.Exams, r.Transaction, lbCache, policy, log.Named("attempts"))
	a.Leaderboard = service.NewLeaderboardService(r.Attempts, lbCache, log.Named("leaderboard"))
	a.Auth = service.NewAuthService(cfg.Auth)
	return a, nil
}

// PingStore checks the database connection. The memory store is always reachable.
func (a *App) PingStore(ctx context.Context) error {
	if a.db == nil {
		return nil
	}
	return a.db.PingContext(ctx)
}

// PingCache checks the cache, or returns nil when no cache is configured.
func (a *App) PingCache(ctx context.Context) error {
	if a.Cache == nil {
		return nil
	}
	return a.Cache.Ping(ctx)
}

// Close releases the database and redis connections.
func (a *App) Close() error {
	var errs []error
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close redis: %w", err))
		}
	}
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close database: %w", err))
		}
	}
	return errors.Join(errs...)
}
