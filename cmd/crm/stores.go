package main

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/ngo-crm/feedback-crm/internal/core/ports"
	"github.com/ngo-crm/feedback-crm/internal/infrastructure/db/memory"
	mongodb "github.com/ngo-crm/feedback-crm/internal/infrastructure/db/mongo"
	redisdb "github.com/ngo-crm/feedback-crm/internal/infrastructure/db/redis"
	"github.com/ngo-crm/feedback-crm/internal/infrastructure/http/handlers"
	"github.com/ngo-crm/feedback-crm/internal/infrastructure/seed"
	"github.com/ngo-crm/feedback-crm/internal/pkg/config"
)

// stores bundles the persistence adapters selected by configuration.
type stores struct {
	users    ports.UserRepository
	tasks    ports.TaskRepository
	sessions ports.SessionStore
	guard    ports.SubmissionGuard
	checks   map[string]handlers.DependencyCheck
	closers  []func(context.Context) error
}

func (s *stores) Close(ctx context.Context) {
	for i := len(s.closers) - 1; i >= 0; i-- {
		_ = s.closers[i](ctx)
	}
}

// openStores connects the configured backends and loads the seed into them.
func openStores(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*stores, error) {
	data, err := seed.Load(cfg.SeedFile)
	if err != nil {
		return nil, err
	}

	s := &stores{checks: map[string]handlers.DependencyCheck{}}

	switch cfg.Storage {
	case config.StorageMongo:
		client, db, err := mongodb.Connect(ctx, mongodb.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
		if err != nil {
			return nil, err
		}
		s.closers = append(s.closers, client.Disconnect)
		s.checks["mongodb"] = func(ctx context.Context) error { return mongodb.Ping(ctx, client) }

		users := mongodb.NewUserRepository(db)
		tasks := mongodb.NewTaskRepository(db)
		if err := mongodb.EnsureIndexes(ctx, users, tasks); err != nil {
			s.Close(ctx)
			return nil, err
		}
		res, err := seed.ApplyIfEmpty(ctx, users, tasks, data)
		if err != nil {
			s.Close(ctx)
			return nil, err
		}
		log.Info().Int("users", res.Users).Int("tasks", res.Tasks).Str("database", cfg.Mongo.Database).Msg("mongodb connected")
		s.users, s.tasks = users, tasks
	default:
		s.users = memory.NewUserRepository(data.Users...)
		s.tasks = memory.NewTaskRepository(data.Tasks...)
		log.Info().Int("users", len(data.Users)).Int("tasks", len(data.Tasks)).Msg("using in-memory storage")
	}

	switch cfg.SessionBackend {
	case config.StorageRedis:
		client, err := redisdb.Connect(ctx, redisdb.Config{Addr: cfg.Redis.Addr, DB: cfg.Redis.DB})
		if err != nil {
			s.Close(ctx)
			return nil, err
		}
		s.closers = append(s.closers, func(context.Context) error { return client.Close() })
		s.checks["redis"] = func(ctx context.Context) error { return redisdb.Ping(ctx, client) }
		s.sessions = redisdb.NewSessionStore(client, cfg.Redis.SessionTTL)
		s.guard = redisdb.NewSubmissionGuard(client)
		log.Info().Str("addr", cfg.Redis.Addr).Msg("redis connected")
	default:
		s.sessions = memory.NewSessionStore()
		s.guard = memory.NewSubmissionGuard()
	}

	return s, nil
}
