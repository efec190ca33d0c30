package app

import (
	"context"
	"fmt"
	"log/slog"

	s3blob "github.com/lmercadier/turfdata/internal/blob/s3"
	"github.com/lmercadier/turfdata/internal/cache/redis"
	"github.com/lmercadier/turfdata/internal/config"
	"github.com/lmercadier/turfdata/internal/daystore"
	"github.com/lmercadier/turfdata/internal/domain"
	"github.com/lmercadier/turfdata/internal/pipeline"
	"github.com/lmercadier/turfdata/internal/pmu"
	"github.com/lmercadier/turfdata/internal/store/postgres"
)

// Dependencies bundles every component the application modes need to
// operate. It is constructed by Wire and torn down by the returned cleanup
// function.
type Dependencies struct {
	Store    *daystore.Store
	Pipeline *pipeline.Pipeline
	Backfill *pipeline.Backfill

	// Optional, nil unless the matching backend is enabled.
	Runs     domain.RunStore
	Locks    domain.LockManager
	Archiver domain.Archiver
}

// Wire constructs all concrete dependency implementations from the given
// configuration and returns them together with a cleanup function that
// should be called on shutdown to release resources.
func Wire(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Dependencies, func(), error) {
	var closers []func()
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	deps := &Dependencies{}

	// --- PostgreSQL run bookkeeping ---
	if cfg.Postgres.Enabled {
		pgClient, err := postgres.New(ctx, postgres.ClientConfig{
			DSN:      cfg.Postgres.DSN,
			Host:     cfg.Postgres.Host,
			Port:     cfg.Postgres.Port,
			Database: cfg.Postgres.Database,
			User:     cfg.Postgres.User,
			Password: cfg.Postgres.Password,
			SSLMode:  cfg.Postgres.SSLMode,
			MaxConns: cfg.Postgres.PoolMaxConns,
			MinConns: cfg.Postgres.PoolMinConns,
		})
		if err != nil {
			cleanup()
			return nil, nil, fmt.Errorf("wire: postgres: %w", err)
		}
		closers = append(closers, pgClient.Close)

		if cfg.Postgres.RunMigrations {
			if err := pgClient.RunMigrations(ctx); err != nil {
				cleanup()
				return nil, nil, fmt.Errorf("wire: postgres migrations: %w", err)
			}
		}

		deps.Runs = postgres.NewRunStore(pgClient)
	}

	// --- Redis day lock ---
	if cfg.Redis.Enabled {
		redisClient, err := redis.New(ctx, redis.ClientConfig{
			Addr:       cfg.Redis.Addr,
			Password:   cfg.Redis.Password,
			DB:         cfg.Redis.DB,
			PoolSize:   cfg.Redis.PoolSize,
			MaxRetries: cfg.Redis.MaxRetries,
			TLSEnabled: cfg.Redis.TLSEnabled,
		})
		if err != nil {
			cleanup()
			return nil, nil, fmt.Errorf("wire: redis: %w", err)
		}
		closers = append(closers, func() { _ = redisClient.Close() })

		deps.Locks = redis.NewLockManager(redisClient)
	}

	// --- Day store and pipeline ---
	deps.Store = daystore.New(cfg.Store.DataDir)

	client := pmu.NewClient(cfg.Source.BaseURL, cfg.Source.Timeout.Duration)
	fetcher := pipeline.NewFetcher(client, cfg.Fetch.MaxConcurrent, logger)

	deps.Pipeline = pipeline.New(client, fetcher, deps.Store, deps.Locks, deps.Runs, logger)
	deps.Backfill = pipeline.NewBackfill(deps.Pipeline, logger)

	// --- S3 cold archive ---
	if cfg.S3.Enabled {
		s3Client, err := s3blob.New(ctx, s3blob.ClientConfig{
			Endpoint:       cfg.S3.Endpoint,
			Region:         cfg.S3.Region,
			Bucket:         cfg.S3.Bucket,
			AccessKey:      cfg.S3.AccessKey,
			SecretKey:      cfg.S3.SecretKey,
			UseSSL:         cfg.S3.UseSSL,
			ForcePathStyle: cfg.S3.ForcePathStyle,
		})
		if err != nil {
			cleanup()
			return nil, nil, fmt.Errorf("wire: s3: %w", err)
		}
		closers = append(closers, func() { _ = s3Client.Close() })

		writer := s3blob.NewWriter(s3Client)
		reader := s3blob.NewReader(s3Client)
		deps.Archiver = s3blob.NewArchiver(writer, reader, deps.Store)
	}

	return deps, cleanup, nil
}
