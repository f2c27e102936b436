package people

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/zookeepr/backend/config"
	"github.com/zookeepr/backend/internal/models"
	"github.com/zookeepr/backend/internal/roles"
	"github.com/zookeepr/backend/pkg/database"
)

// SeedAdmin creates the bootstrap organiser account unless the address is
// already registered. It reports whether an account was created.
func SeedAdmin(ctx context.Context, db database.TxBeginner, cfg config.SeedConfig, logger *zap.Logger) (bool, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	created := false
	err := database.WithTx(ctx, db, func(tx pgx.Tx) error {
		repo := NewRepository(tx)
		existing, err := repo.FindByEmail(ctx, cfg.AdminEmail)
		if err != nil {
			return err
		}
		if existing != nil {
			return nil
		}

		organiser, err := roles.NewRepository(tx).FindByName(ctx, models.RoleOrganiser)
		if err != nil {
			return err
		}
		if organiser == nil {
			return fmt.Errorf("role %q not seeded", models.RoleOrganiser)
		}

		p := NewPerson(cfg.AdminEmail)
		p.Activated = true
		p.Firstname, p.Lastname = &cfg.AdminFirstname, &cfg.AdminLastname
		if err := SetPassword(p, cfg.AdminPassword); err != nil {
			return fmt.Errorf("hash password: %w", err)
		}
		if err := repo.Create(ctx, p); err != nil {
			return err
		}
		if err := repo.AddRole(ctx, p.ID, organiser.ID); err != nil {
			return err
		}
		created = true
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("seed admin: %w", err)
	}
	if created {
		logger.Info("admin account created", zap.String("email", NormalizeEmail(cfg.AdminEmail)))
	}
	return created, nil
}
