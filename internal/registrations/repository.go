package registrations

import (
	"context"
	"fmt"

	"github.com/zookeepr/backend/internal/models"
	"github.com/zookeepr/backend/pkg/database"
	"github.com/zookeepr/backend/pkg/dberr"
)

// Repository handles registration, rego note and volunteer persistence.
type Repository struct {
	db database.DBTX
}

// NewRepository creates a registrations repository.
func NewRepository(db database.DBTX) *Repository {
	return &Repository{db: db}
}

// CreateRegistration returns the person's registration, creating it on first use.
func (r *Repository) CreateRegistration(ctx context.Context, personID int) (*models.Registration, error) {
	const q = `INSERT INTO registration (person_id) VALUES ($1)
		ON CONFLICT (person_id) DO UPDATE SET last_modification_timestamp = CURRENT_TIMESTAMP
		RETURNING id, person_id, creation_timestamp, last_modification_timestamp`
	var reg models.Registration
	err := r.db.QueryRow(ctx, q, personID).Scan(&reg.ID, &reg.PersonID, &reg.CreationTimestamp, &reg.LastModificationTimestamp)
	if err != nil {
		return nil, fmt.Errorf("create registration: %w", dberr.Classify(err))
	}
	return &reg, nil
}

// GetRegistrationByID returns a registration by ID or dberr.ErrNotFound.
func (r *Repository) GetRegistrationByID(ctx context.Context, id int) (*models.Registration, error) {
	const q = `SELECT id, person_id, creation_timestamp, last_modification_timestamp FROM registration WHERE id = $1`
	var reg models.Registration
	err := r.db.QueryRow(ctx, q, id).Scan(&reg.ID, &reg.PersonID, &reg.CreationTimestamp, &reg.LastModificationTimestamp)
	if err != nil {
		return nil, fmt.Errorf("get registration %d: %w", id, dberr.Classify(err))
	}
	return &reg, nil
}

// FindRegistrationByPersonID returns the person's registration, or nil.
func (r *Repository) FindRegistrationByPersonID(ctx context.Context, personID int) (*models.Registration, error) {
	const q = `SELECT id, person_id, creation_timestamp, last_modification_timestamp FROM registration WHERE person_id = $1`
	var reg models.Registration
	err := r.db.QueryRow(ctx, q, personID).Scan(&reg.ID, &reg.PersonID, &reg.CreationTimestamp, &reg.LastModificationTimestamp)
	v, err := dberr.Optional(&reg, dberr.Classify(err))
	if err != nil {
		return nil, fmt.Errorf("find registration: %w", err)
	}
	return v, nil
}
