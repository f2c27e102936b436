package roles

import (
	"context"

	"go.uber.org/zap"

	"github.com/zookeepr/backend/internal/models"
	"github.com/zookeepr/backend/internal/reference"
	"github.com/zookeepr/backend/pkg/database"
)

// Defaults are the roles every installation starts with.
var Defaults = []string{
	models.RoleOrganiser,
	models.RoleTeam,
	models.RoleReviewer,
	models.RoleProposalsChair,
	models.RoleLateSubmitter,
	models.RoleMiniconf,
	models.RolePress,
	models.RoleFundingReviewer,
}

// Repository reads the role table.
type Repository struct {
	ref *reference.Repository
}

// NewRepository creates a roles repository.
func NewRepository(db database.DBTX) *Repository {
	return &Repository{ref: reference.NewRepository(db)}
}

// FindByName returns the role with the given name, or nil.
func (r *Repository) FindByName(ctx context.Context, name string) (*models.ReferenceItem, error) {
	return r.ref.FindByName(ctx, reference.TableRole, name)
}

// FindAll returns every role ordered by name.
func (r *Repository) FindAll(ctx context.Context) ([]models.ReferenceItem, error) {
	return r.ref.FindAll(ctx, reference.TableRole)
}

// Seed creates the default roles that are missing.
func (r *Repository) Seed(ctx context.Context, logger *zap.Logger) (int, error) {
	return reference.Seed(ctx, r.ref, []reference.SeedSet{{Table: reference.TableRole, Names: Defaults}}, logger)
}
