package attachments

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/zookeepr/backend/internal/models"
	"github.com/zookeepr/backend/pkg/database"
	"github.com/zookeepr/backend/pkg/dberr"
)

const selectAttachment = `SELECT id, proposal_id, filename, content_type, storage_key, creation_timestamp, last_modification_timestamp FROM attachment`

// Repository handles attachment metadata persistence.
type Repository struct {
	db database.DBTX
}

// NewRepository creates an attachments repository.
func NewRepository(db database.DBTX) *Repository {
	return &Repository{db: db}
}

func scanAttachment(row pgx.Row, a *models.Attachment) error {
	return row.Scan(&a.ID, &a.ProposalID, &a.Filename, &a.ContentType, &a.StorageKey, &a.CreationTimestamp, &a.LastModificationTimestamp)
}

// Create inserts attachment metadata.
func (r *Repository) Create(ctx context.Context, a *models.Attachment) error {
	const q = `INSERT INTO attachment (proposal_id, filename, content_type, storage_key) VALUES ($1, $2, $3, $4)
		RETURNING id, creation_timestamp, last_modification_timestamp`
	err := r.db.QueryRow(ctx, q, a.ProposalID, a.Filename, a.ContentType, a.StorageKey).
		Scan(&a.ID, &a.CreationTimestamp, &a.LastModificationTimestamp)
	if err != nil {
		return fmt.Errorf("create attachment: %w", dberr.Classify(err))
	}
	return nil
}

// GetByID returns an attachment by ID or dberr.ErrNotFound.
func (r *Repository) GetByID(ctx context.Context, id int) (*models.Attachment, error) {
	var a models.Attachment
	if err := scanAttachment(r.db.QueryRow(ctx, selectAttachment+` WHERE id = $1`, id), &a); err != nil {
		return nil, fmt.Errorf("get attachment %d: %w", id, dberr.Classify(err))
	}
	return &a, nil
}

// ListByProposal returns a proposal's attachments in upload order.
func (r *Repository) ListByProposal(ctx context.Context, proposalID int) ([]models.Attachment, error) {
	rows, err := r.db.Query(ctx, selectAttachment+` WHERE proposal_id = $1 ORDER BY id`, proposalID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []models.Attachment
	for rows.Next() {
		var a models.Attachment
		if err := scanAttachment(rows, &a); err != nil {
			return nil, err
		}
		list = append(list, a)
	}
	return list, rows.Err()
}

// Delete removes the metadata row and returns the storage key it pointed at.
func (r *Repository) Delete(ctx context.Context, id int) (string, error) {
	var key string
	err := r.db.QueryRow(ctx, `DELETE FROM attachment WHERE id = $1 RETURNING storage_key`, id).Scan(&key)
	if err != nil {
		return "", fmt.Errorf("delete attachment %d: %w", id, dberr.Classify(err))
	}
	return key, nil
}
