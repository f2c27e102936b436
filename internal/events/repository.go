package events

import (
	"context"
	"fmt"

	"github.com/zookeepr/backend/internal/models"
	"github.com/zookeepr/backend/pkg/database"
	"github.com/zookeepr/backend/pkg/dberr"
)

// Repository handles programme event persistence.
type Repository struct {
	db database.DBTX
}

// NewRepository creates an events repository.
func NewRepository(db database.DBTX) *Repository {
	return &Repository{db: db}
}

// Create schedules an event. A proposal backs at most one event.
func (r *Repository) Create(ctx context.Context, e *models.Event) error {
	const q = `INSERT INTO event (proposal_id, title) VALUES ($1, $2)
		RETURNING id, creation_timestamp, last_modification_timestamp`
	err := r.db.QueryRow(ctx, q, e.ProposalID, e.Title).Scan(&e.ID, &e.CreationTimestamp, &e.LastModificationTimestamp)
	if err != nil {
		return fmt.Errorf("create event: %w", dberr.Classify(err))
	}
	return nil
}

// FindByProposalID returns the event scheduled for a proposal, or nil.
func (r *Repository) FindByProposalID(ctx context.Context, proposalID int) (*models.Event, error) {
	const q = `SELECT id, proposal_id, title, creation_timestamp, last_modification_timestamp FROM event WHERE proposal_id = $1`
	var e models.Event
	err := r.db.QueryRow(ctx, q, proposalID).Scan(&e.ID, &e.ProposalID, &e.Title, &e.CreationTimestamp, &e.LastModificationTimestamp)
	v, err := dberr.Optional(&e, dberr.Classify(err))
	if err != nil {
		return nil, fmt.Errorf("find event: %w", err)
	}
	return v, nil
}
