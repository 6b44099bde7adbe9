// Package docstore builds the configured VersionedDocumentStore backend.
package docstore

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/SscSPs/homeos_backend/internal/adapters/docstore/gcs"
	"github.com/SscSPs/homeos_backend/internal/adapters/docstore/github"
	"github.com/SscSPs/homeos_backend/internal/adapters/docstore/localfs"
	"github.com/SscSPs/homeos_backend/internal/adapters/docstore/memory"
	"github.com/SscSPs/homeos_backend/internal/adapters/docstore/pgsql"
	redisstore "github.com/SscSPs/homeos_backend/internal/adapters/docstore/redis"
	portsrepo "github.com/SscSPs/homeos_backend/internal/core/ports/repositories"
	"github.com/SscSPs/homeos_backend/internal/platform/config"
	"github.com/SscSPs/homeos_backend/pkg/database"
	"github.com/redis/go-redis/v9"
)

// CloseFunc releases the resources held by a backend.
type CloseFunc func()

// New creates the backend selected by cfg.StorageBackend, wrapped with the
// configured per-call timeout.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (portsrepo.VersionedDocumentStore, CloseFunc, error) {
	store, closeFn, err := newBackend(ctx, cfg, logger)
	if err != nil {
		return nil, nil, err
	}
	logger.Info("Document store initialized",
		slog.String("backend", store.Name()),
		slog.Bool("enforces_versions", store.EnforcesVersions()),
		slog.Duration("timeout", cfg.StoreTimeout),
	)
	return WithTimeout(store, cfg.StoreTimeout), closeFn, nil
}

func newBackend(ctx context.Context, cfg *config.Config, logger *slog.Logger) (portsrepo.VersionedDocumentStore, CloseFunc, error) {
	noop := func() {}

	switch cfg.StorageBackend {
	case config.BackendLocal, "":
		return localfs.NewOS(cfg.DataDir), noop, nil

	case config.BackendMemory:
		return memory.New(), noop, nil

	case config.BackendGitHub:
		store, err := github.New(ctx, github.Config{
			Token:    cfg.GitHubToken,
			Repo:     cfg.GitHubRepo,
			Branch:   cfg.GitHubBranch,
			DataPath: cfg.GitHubDataPath,
			APIURL:   cfg.GitHubAPIURL,
		})
		if err != nil {
			return nil, nil, err
		}
		return store, noop, nil

	case config.BackendGCS:
		store, err := gcs.New(ctx, gcs.Config{
			Bucket:          cfg.GCSBucket,
			Prefix:          cfg.GCSPrefix,
			CredentialsJSON: cfg.GCSCredentials,
		})
		if err != nil {
			return nil, nil, err
		}
		return store, func() {
			if err := store.Close(); err != nil {
				logger.Error("Failed to close gcs client", slog.String("error", err.Error()))
			}
		}, nil

	case config.BackendRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddress,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			_ = client.Close()
			return nil, nil, fmt.Errorf("failed to connect to redis at %s: %w", cfg.RedisAddress, err)
		}
		return redisstore.New(client, cfg.RedisKeyPrefix), func() {
			if err := client.Close(); err != nil {
				logger.Error("Failed to close redis client", slog.String("error", err.Error()))
			}
		}, nil

	case config.BackendPostgres:
		changed, err := database.RunMigrations(cfg.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		if changed {
			logger.Info("Database migrations applied successfully.")
		} else {
			logger.Info("No new migrations to apply.")
		}
		pool, err := database.NewPgxPool(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		return pgsql.New(pool), func() { database.ClosePgxPool(pool) }, nil

	default:
		return nil, nil, fmt.Errorf("unknown storage backend %q", cfg.StorageBackend)
	}
}
