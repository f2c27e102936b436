// Package bootstrap wires the process dependencies into a samber/do injector.
package bootstrap

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/samber/do"
	"go.uber.org/zap"

	"github.com/zookeepr/backend/config"
	"github.com/zookeepr/backend/internal/attachments"
	"github.com/zookeepr/backend/internal/events"
	"github.com/zookeepr/backend/internal/invoices"
	"github.com/zookeepr/backend/internal/people"
	"github.com/zookeepr/backend/internal/proposals"
	"github.com/zookeepr/backend/internal/reference"
	"github.com/zookeepr/backend/internal/registrations"
	"github.com/zookeepr/backend/internal/reviews"
	"github.com/zookeepr/backend/internal/roles"
	"github.com/zookeepr/backend/internal/worker"
	"github.com/zookeepr/backend/pkg/database"
	"github.com/zookeepr/backend/pkg/logger"
	"github.com/zookeepr/backend/pkg/queue"
	"github.com/zookeepr/backend/pkg/redis"
	"github.com/zookeepr/backend/pkg/storage"
)

// Pool owns the PostgreSQL pool so the injector can close it on shutdown.
type Pool struct {
	*pgxpool.Pool
}

// Shutdown closes the pool.
func (p *Pool) Shutdown() error {
	p.Close()
	return nil
}

func BuildContainer() *do.Injector {
	inj := do.New()

	// config
	do.Provide(inj, func(i *do.Injector) (*config.Config, error) {
		return config.Load()
	})

	// logger
	do.Provide(inj, func(i *do.Injector) (*zap.Logger, error) {
		cfg := do.MustInvoke[*config.Config](i)
		return logger.New(cfg.Log.Level, cfg.Local())
	})

	// DB
	do.Provide(inj, func(i *do.Injector) (*Pool, error) {
		cfg := do.MustInvoke[*config.Config](i)
		log := do.MustInvoke[*zap.Logger](i)
		pool, err := database.NewPostgresPool(context.Background(), cfg.Database.DSN(), database.PoolOptions{
			MaxConns: cfg.Database.MaxConns,
			TraceSQL: cfg.Log.Level == "debug",
		}, log)
		if err != nil {
			return nil, err
		}
		return &Pool{Pool: pool}, nil
	})

	// Redis
	do.Provide(inj, func(i *do.Injector) (*redis.Client, error) {
		cfg := do.MustInvoke[*config.Config](i)
		return redis.NewClient(context.Background(), cfg.Redis, do.MustInvoke[*zap.Logger](i))
	})

	// S3
	do.Provide(inj, func(i *do.Injector) (*storage.S3, error) {
		cfg := do.MustInvoke[*config.Config](i)
		return storage.NewS3(context.Background(), storage.S3Config{
			Region:               cfg.AWS.Region,
			AccessKeyID:          cfg.AWS.AccessKeyID,
			SecretAccessKey:      cfg.AWS.SecretAccessKey,
			Endpoint:             cfg.AWS.Endpoint,
			AttachmentsBucket:    cfg.AWS.AttachmentsBucket,
			PresignExpireMinutes: cfg.AWS.PresignExpireMinutes,
		}, do.MustInvoke[*zap.Logger](i))
	})

	// Queue
	do.Provide(inj, func(i *do.Injector) (*queue.Queue, error) {
		rdb, err := do.Invoke[*redis.Client](i)
		if err != nil {
			return nil, err
		}
		return queue.NewQueue(rdb.Client, do.MustInvoke[*zap.Logger](i)), nil
	})

	// Repo
	do.Provide(inj, func(i *do.Injector) (*reference.Repository, error) {
		return reference.NewRepository(do.MustInvoke[*Pool](i)), nil
	})
	do.Provide(inj, func(i *do.Injector) (*reference.Cache, error) {
		cfg := do.MustInvoke[*config.Config](i)
		rdb := do.MustInvoke[*redis.Client](i)
		return reference.NewCache(do.MustInvoke[*reference.Repository](i), rdb.Client, cfg.Reference.CacheTTL,
			do.MustInvoke[*zap.Logger](i)), nil
	})
	do.Provide(inj, func(i *do.Injector) (*roles.Repository, error) {
		return roles.NewRepository(do.MustInvoke[*Pool](i)), nil
	})
	do.Provide(inj, func(i *do.Injector) (*people.Repository, error) {
		return people.NewRepository(do.MustInvoke[*Pool](i)), nil
	})
	do.Provide(inj, func(i *do.Injector) (*proposals.Repository, error) {
		return proposals.NewRepository(do.MustInvoke[*Pool](i)), nil
	})
	do.Provide(inj, func(i *do.Injector) (*reviews.Repository, error) {
		return reviews.NewRepository(do.MustInvoke[*Pool](i)), nil
	})
	do.Provide(inj, func(i *do.Injector) (*events.Repository, error) {
		return events.NewRepository(do.MustInvoke[*Pool](i)), nil
	})
	do.Provide(inj, func(i *do.Injector) (*invoices.Repository, error) {
		return invoices.NewRepository(do.MustInvoke[*Pool](i)), nil
	})
	do.Provide(inj, func(i *do.Injector) (*registrations.Repository, error) {
		return registrations.NewRepository(do.MustInvoke[*Pool](i)), nil
	})
	do.Provide(inj, func(i *do.Injector) (*attachments.Repository, error) {
		return attachments.NewRepository(do.MustInvoke[*Pool](i)), nil
	})

	// Service
	do.Provide(inj, func(i *do.Injector) (*people.Service, error) {
		return people.NewService(
			do.MustInvoke[*people.Repository](i),
			do.MustInvoke[*proposals.Repository](i),
			do.MustInvoke[*registrations.Repository](i),
			do.MustInvoke[*invoices.Repository](i),
			do.MustInvoke[*zap.Logger](i),
		), nil
	})
	do.Provide(inj, func(i *do.Injector) (*proposals.Service, error) {
		return proposals.NewService(
			do.MustInvoke[*proposals.Repository](i),
			do.MustInvoke[*reference.Cache](i),
			do.MustInvoke[*queue.Queue](i),
			do.MustInvoke[*zap.Logger](i),
		), nil
	})
	do.Provide(inj, func(i *do.Injector) (*attachments.Service, error) {
		return attachments.NewService(
			do.MustInvoke[*attachments.Repository](i),
			do.MustInvoke[*storage.S3](i),
			do.MustInvoke[*queue.Queue](i),
			do.MustInvoke[*zap.Logger](i),
		), nil
	})

	// Worker
	do.Provide(inj, func(i *do.Injector) (*worker.AttachmentJanitor, error) {
		cfg := do.MustInvoke[*config.Config](i)
		return worker.NewAttachmentJanitor(
			do.MustInvoke[*storage.S3](i),
			do.MustInvoke[*queue.Queue](i),
			cfg.Worker.RetryBackoff,
			do.MustInvoke[*zap.Logger](i),
		), nil
	})

	return inj
}
