package main

import (
	"context"
	"fmt"

	"github.com/IgorGrieder/short-links/internal/config"
	"github.com/IgorGrieder/short-links/internal/infrastructure/db"
	"github.com/IgorGrieder/short-links/internal/infrastructure/logger"
	"github.com/IgorGrieder/short-links/internal/infrastructure/migrations"
	"github.com/IgorGrieder/short-links/internal/processing/links"
	"github.com/IgorGrieder/short-links/internal/storage/memory"
	mongoStorage "github.com/IgorGrieder/short-links/internal/storage/mongo"
	postgresStorage "github.com/IgorGrieder/short-links/internal/storage/postgres"
	redisStorage "github.com/IgorGrieder/short-links/internal/storage/redis"
	"github.com/IgorGrieder/short-links/internal/transport/stream"
	"go.uber.org/zap"
)

type stores struct {
	links    links.LinkRepository
	counter  links.ClickCounter
	recorder links.ClickRecorder

	closers []func()
}

func (s *stores) close() {
	for i := len(s.closers) - 1; i >= 0; i-- {
		s.closers[i]()
	}
}

// openStores builds the link store, the click counter and, in kafka mode, the
// click publisher. On error everything opened so far is closed.
func openStores(ctx context.Context, cfg *config.Config) (st *stores, err error) {
	st = &stores{}
	defer func() {
		if err != nil {
			st.close()
			st = nil
		}
	}()

	switch cfg.Storage.LinksBackend {
	case config.BackendPostgres:
		if cfg.Storage.MigrateOnStart {
			if err := migrateUp(cfg.Postgres.URL()); err != nil {
				return st, err
			}
		}
		pg, err := db.ConnectPostgres(ctx, cfg.Postgres.DSN(), db.PostgresOptions{
			MaxConns: int32(cfg.Postgres.MaxConns),
		})
		if err != nil {
			return st, err
		}
		st.closers = append(st.closers, pg.Close)
		logger.Info("PostgreSQL connected", zap.String("host", cfg.Postgres.Host))

		repo, err := postgresStorage.NewLinksRepository(pg)
		if err != nil {
			return st, err
		}
		st.links = repo

	case config.BackendMongo:
		m, err := db.ConnectMongo(ctx, cfg.MongoDB.URI, cfg.MongoDB.Database)
		if err != nil {
			return st, err
		}
		st.closers = append(st.closers, func() { _ = m.Disconnect() })

		repo, err := mongoStorage.NewLinksRepository(ctx, m)
		if err != nil {
			return st, err
		}
		st.links = repo

	case config.BackendMemory:
		st.links = memory.NewLinksRepository()

	default:
		return st, fmt.Errorf("unknown links backend %q", cfg.Storage.LinksBackend)
	}

	if cfg.Redis.InMemory {
		st.counter = memory.NewClickCounter()
		logger.Warn("Using in-memory click counter, clicks are lost on restart")
	} else {
		counter, err := redisStorage.New(redisStorage.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			PoolSize: cfg.Redis.PoolSize,
			Key:      cfg.Redis.MetricsKey,
		})
		if err != nil {
			return st, err
		}
		st.closers = append(st.closers, func() { _ = counter.Close() })
		st.counter = counter
	}

	if cfg.Clicks.Mode == config.ClicksModeKafka {
		publisher := stream.NewClickPublisher(stream.NewWriter(cfg.Kafka.Brokers, cfg.Kafka.Topic), cfg.Kafka.Topic)
		st.closers = append(st.closers, func() {
			if err := publisher.Close(); err != nil {
				logger.Warn("Failed to close kafka writer", zap.Error(err))
			}
		})
		st.recorder = publisher
		logger.Info("Publishing clicks to kafka",
			zap.Strings("kafka_brokers", cfg.Kafka.Brokers),
			zap.String("kafka_topic", cfg.Kafka.Topic),
		)
	}

	return st, nil
}

func migrateUp(databaseURL string) error {
	m, err := migrations.New(databaseURL)
	if err != nil {
		return err
	}
	defer func() { _ = m.Close() }()
	return m.Up()
}
