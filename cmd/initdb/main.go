// Package main migrates the database and loads the seed data: reference
// tables, roles and the first organiser account.
package main

import (
	"context"
	"time"

	"github.com/samber/do"
	"go.uber.org/zap"

	"github.com/zookeepr/backend/config"
	"github.com/zookeepr/backend/internal/bootstrap"
	"github.com/zookeepr/backend/internal/people"
	"github.com/zookeepr/backend/internal/reference"
	"github.com/zookeepr/backend/internal/roles"
	"github.com/zookeepr/backend/pkg/database"
)

func main() {
	inj := bootstrap.BuildContainer()
	cfg := do.MustInvoke[*config.Config](inj)
	log := do.MustInvoke[*zap.Logger](inj)
	defer log.Sync()
	defer func() { _ = inj.Shutdown() }()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	if err := database.Migrate(ctx, cfg.Database.DSN(), log); err != nil {
		log.Fatal("migrate", zap.Error(err))
	}

	pool := do.MustInvoke[*bootstrap.Pool](inj)

	n, err := reference.Seed(ctx, do.MustInvoke[*reference.Repository](inj), reference.Defaults, log)
	if err != nil {
		log.Fatal("seed reference data", zap.Error(err))
	}
	r, err := do.MustInvoke[*roles.Repository](inj).Seed(ctx, log)
	if err != nil {
		log.Fatal("seed roles", zap.Error(err))
	}
	if _, err := people.SeedAdmin(ctx, pool, cfg.Seed, log); err != nil {
		log.Fatal("seed admin", zap.Error(err))
	}

	if n+r > 0 {
		if err := do.MustInvoke[*reference.Cache](inj).Invalidate(ctx); err != nil {
			log.Warn("invalidate reference cache", zap.Error(err))
		}
	}
	log.Info("database initialised", zap.Int("reference_rows", n), zap.Int("roles", r))
}
