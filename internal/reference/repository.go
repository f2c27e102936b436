// Package reference stores the seed-once classification tables that
// proposals and people point at: statuses, types, audiences, assistance
// types, streams and roles.
package reference

import (
	"context"
	"errors"
	"fmt"

	"github.com/zookeepr/backend/internal/models"
	"github.com/zookeepr/backend/pkg/database"
	"github.com/zookeepr/backend/pkg/dberr"
)

// Table names a reference table. Only the constants below are accepted.
type Table string

const (
	TableProposalStatus              Table = "proposal_status"
	TableProposalType                Table = "proposal_type"
	TableTravelAssistanceType        Table = "travel_assistance_type"
	TableTargetAudience              Table = "target_audience"
	TableAccommodationAssistanceType Table = "accommodation_assistance_type"
	TableStream                      Table = "stream"
	TableRole                        Table = "role"
)

// ErrUnknownTable is returned for a Table outside the known set.
var ErrUnknownTable = errors.New("unknown reference table")

// Tables lists every reference table.
var Tables = []Table{
	TableProposalStatus,
	TableProposalType,
	TableTravelAssistanceType,
	TableTargetAudience,
	TableAccommodationAssistanceType,
	TableStream,
	TableRole,
}

// Valid reports whether t is a known reference table.
func (t Table) Valid() bool {
	for _, known := range Tables {
		if t == known {
			return true
		}
	}
	return false
}

// Cacheable reports whether t holds seed-only rows. Streams are created
// while a conference is planned and are always read from the database.
func (t Table) Cacheable() bool {
	return t.Valid() && t != TableStream
}

// Store is the read side of the reference tables.
type Store interface {
	FindByID(ctx context.Context, table Table, id int) (*models.ReferenceItem, error)
	FindByName(ctx context.Context, table Table, name string) (*models.ReferenceItem, error)
	FindAll(ctx context.Context, table Table) ([]models.ReferenceItem, error)
}

// Repository handles reference table persistence.
type Repository struct {
	db database.DBTX
}

// NewRepository creates a reference repository.
func NewRepository(db database.DBTX) *Repository {
	return &Repository{db: db}
}

// FindByID returns the row with the given id, or nil.
func (r *Repository) FindByID(ctx context.Context, table Table, id int) (*models.ReferenceItem, error) {
	if !table.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrUnknownTable, table)
	}
	q := fmt.Sprintf(`SELECT id, name FROM %s WHERE id = $1`, table)
	var item models.ReferenceItem
	err := r.db.QueryRow(ctx, q, id).Scan(&item.ID, &item.Name)
	v, err := dberr.Optional(&item, dberr.Classify(err))
	if err != nil {
		return nil, fmt.Errorf("find %s by id: %w", table, err)
	}
	return v, nil
}

// FindByName returns the row with the given name, or nil.
func (r *Repository) FindByName(ctx context.Context, table Table, name string) (*models.ReferenceItem, error) {
	if !table.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrUnknownTable, table)
	}
	q := fmt.Sprintf(`SELECT id, name FROM %s WHERE name = $1`, table)
	var item models.ReferenceItem
	err := r.db.QueryRow(ctx, q, name).Scan(&item.ID, &item.Name)
	v, err := dberr.Optional(&item, dberr.Classify(err))
	if err != nil {
		return nil, fmt.Errorf("find %s by name: %w", table, err)
	}
	return v, nil
}

// FindAll returns every row of table ordered by name.
func (r *Repository) FindAll(ctx context.Context, table Table) ([]models.ReferenceItem, error) {
	if !table.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrUnknownTable, table)
	}
	rows, err := r.db.Query(ctx, fmt.Sprintf(`SELECT id, name FROM %s ORDER BY name`, table))
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", table, err)
	}
	defer rows.Close()
	var list []models.ReferenceItem
	for rows.Next() {
		var item models.ReferenceItem
		if err := rows.Scan(&item.ID, &item.Name); err != nil {
			return nil, err
		}
		list = append(list, item)
	}
	return list, rows.Err()
}

// Create inserts name into table. It reports false when the name already exists.
func (r *Repository) Create(ctx context.Context, table Table, name string) (bool, error) {
	if !table.Valid() {
		return false, fmt.Errorf("%w: %q", ErrUnknownTable, table)
	}
	q := fmt.Sprintf(`INSERT INTO %s (name) VALUES ($1) ON CONFLICT (name) DO NOTHING`, table)
	tag, err := r.db.Exec(ctx, q, name)
	if err != nil {
		return false, fmt.Errorf("insert %s: %w", table, dberr.Classify(err))
	}
	return tag.RowsAffected() == 1, nil
}
