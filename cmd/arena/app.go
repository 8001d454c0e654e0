package main

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/cory-johannsen/arena/internal/config"
	"github.com/cory-johannsen/arena/internal/game/combat"
	"github.com/cory-johannsen/arena/internal/gameserver"
	"github.com/cory-johannsen/arena/internal/importer"
	"github.com/cory-johannsen/arena/internal/observability"
	"github.com/cory-johannsen/arena/internal/storage/memory"
	"github.com/cory-johannsen/arena/internal/storage/postgres"
	arenaredis "github.com/cory-johannsen/arena/internal/storage/redis"
)

// app is the wired application: a FightHandler over the configured store.
type app struct {
	handler *gameserver.FightHandler
	logger  *zap.Logger
	closers []func()
}

func (a *app) close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
}

func loadConfig(path string) (config.Config, error) {
	if path == "" {
		return config.LoadFromViper(config.Defaults())
	}
	return config.Load(path)
}

// buildApp wires the store, the optional leaderboard cache, and the handler.
//
// Postcondition: Returns a ready app whose close releases every connection,
// or a non-nil error with nothing left open.
func buildApp(ctx context.Context, opts *options) (a *app, err error) {
	cfg, err := loadConfig(opts.configPath)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	if opts.storage != "" {
		cfg.Arena.Storage = opts.storage
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
	}
	logger, err := observability.NewLogger(cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("initializing logger: %w", err)
	}

	a = &app{logger: logger}
	a.closers = append(a.closers, func() { _ = logger.Sync() })
	defer func() {
		if err != nil {
			a.close()
		}
	}()

	store, err := openStore(ctx, cfg, opts, a)
	if err != nil {
		return nil, err
	}

	var cache gameserver.HighscoreCache
	if cfg.Redis.Enabled {
		client, err := arenaredis.NewClient(ctx, cfg.Redis)
		if err != nil {
			return nil, fmt.Errorf("connecting to redis: %w", err)
		}
		a.closers = append(a.closers, func() { _ = client.Close() })
		hc, err := arenaredis.NewHighscoreCache(client, cfg.Arena.HighscoreTTL)
		if err != nil {
			return nil, err
		}
		cache = hc
		logger.Info("highscore cache enabled", zap.String("addr", cfg.Redis.Addr), zap.Duration("ttl", hc.TTL()))
	}

	a.handler = gameserver.NewFightHandler(store, cache, combat.NewEngine(), logger, cfg.Arena.MaxPasses)
	return a, nil
}

func openStore(ctx context.Context, cfg config.Config, opts *options, a *app) (gameserver.CharacterStore, error) {
	switch cfg.Arena.Storage {
	case config.StorageMemory:
		store := memory.NewStore()
		if opts.rosterPath != "" {
			var progress bytes.Buffer
			sum, err := importer.New(importer.FileSource{}, store, &progress).Run(ctx, opts.rosterPath)
			if err != nil {
				return nil, fmt.Errorf("seeding memory store: %w", err)
			}
			a.logger.Info("memory store seeded",
				zap.String("roster", opts.rosterPath),
				zap.Int("characters", sum.Characters),
				zap.Int("skills", sum.SkillsCreated),
			)
		}
		return store, nil
	default:
		dbStart := time.Now()
		pool, err := postgres.NewPool(ctx, cfg.Database)
		if err != nil {
			return nil, fmt.Errorf("connecting to database: %w", err)
		}
		a.closers = append(a.closers, pool.Close)
		a.logger.Info("database connected",
			zap.String("host", cfg.Database.Host),
			zap.Duration("elapsed", time.Since(dbStart)),
		)
		return postgres.NewCharacterRepository(pool.DB()), nil
	}
}
