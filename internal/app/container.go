package app

import (
	"context"
	"time"

	"talentmatch/internal/config"
	"talentmatch/internal/database"
	dbpostgres "talentmatch/internal/database/postgres"
	"talentmatch/internal/delivery/http/handler"
	"talentmatch/internal/enhancer"
	"talentmatch/internal/infrastructure/ai"
	"talentmatch/internal/infrastructure/cache"
	"talentmatch/internal/repository"
	"talentmatch/internal/usecase"

	"go.uber.org/zap"
)

// Container wires the concrete dependency graph. Closers are collected in
// construction order and released in reverse on Close.
type Container struct {
	Config config.Config
	Logger *zap.Logger

	DB    database.DB
	Cache usecase.MatchCache

	Candidates repository.CandidateRepository
	Jobs       repository.JobRepository

	Match usecase.MatchUsecase

	// CachePinger is the health-check view of the active cache backend.
	CachePinger handler.Pinger

	closers []func() error
}

func NewContainer(cfg config.Config, logger *zap.Logger) (*Container, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	c := &Container{Config: cfg, Logger: logger}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	db, err := dbpostgres.Connect(ctx, cfg.Database)
	if err != nil {
		return nil, err
	}
	c.DB = db
	c.closers = append(c.closers, db.Close)

	c.buildCache(cfg)
	gen := c.buildGenerator(ctx, cfg)
	enh := enhancer.New(gen, cfg.AI.RequestTimeout, logger.Named("enhancer"))

	c.Candidates = repository.NewPostgresCandidateRepository(db)
	c.Jobs = repository.NewPostgresJobRepository(db)

	c.Match = usecase.NewMatchUsecase(c.Cache, enh, logger.Named("match"), usecase.MatchOptions{
		Workers:        cfg.Scoring.BatchWorkers,
		EnhancementRPS: cfg.AI.EnhancementRPS,
		JobTTL:         cfg.Scoring.JobResultTTL,
		CriteriaTTL:    cfg.Scoring.CriteriaResultTTL,
	})

	return c, nil
}

// buildCache selects Redis when configured, otherwise the in-process
// store. Redis keeps replicas agreeing on the per-TTL enhancement budget;
// single-node deployments do not need it.
func (c *Container) buildCache(cfg config.Config) {
	if cfg.Redis.Host != "" {
		r := cache.NewRedis(cfg.Redis, c.Logger.Named("cache"))
		c.Cache = r
		c.CachePinger = r
		c.closers = append(c.closers, r.Close)
		return
	}

	m := cache.NewMemory(cfg.Scoring.CacheMaxEntries, cfg.Scoring.CacheSweepInterval)
	c.Cache = m
	c.CachePinger = m
	c.closers = append(c.closers, m.Close)
}

// buildGenerator returns nil when no API key is configured; the enhancer
// treats a nil generator as permanently unavailable and every score takes
// the degraded path.
func (c *Container) buildGenerator(ctx context.Context, cfg config.Config) enhancer.ContentGenerator {
	if cfg.AI.GeminiAPIKey == "" {
		c.Logger.Warn("no gemini api key configured, qualitative analysis disabled")
		return nil
	}

	gen, err := ai.NewGeminiGenerator(ctx, cfg.AI.GeminiAPIKey, cfg.AI.GeminiModel)
	if err != nil {
		c.Logger.Warn("gemini client init failed, qualitative analysis disabled", zap.Error(err))
		return nil
	}
	c.closers = append(c.closers, gen.Close)
	return gen
}

func (c *Container) Close() error {
	if c == nil {
		return nil
	}
	var firstErr error
	for i := len(c.closers) - 1; i >= 0; i-- {
		if err := c.closers[i](); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
