package reviews

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/zookeepr/backend/internal/models"
	"github.com/zookeepr/backend/pkg/database"
	"github.com/zookeepr/backend/pkg/dberr"
)

const selectReview = `SELECT id, proposal_id, reviewer_id, score, stream_id, miniconf, comment, private_comment,
	creation_timestamp, last_modification_timestamp FROM review`

// Repository handles review persistence.
type Repository struct {
	db database.DBTX
}

// NewRepository creates a reviews repository.
func NewRepository(db database.DBTX) *Repository {
	return &Repository{db: db}
}

func scanReview(row pgx.Row, rv *models.Review) error {
	return row.Scan(&rv.ID, &rv.ProposalID, &rv.ReviewerID, &rv.Score, &rv.StreamID, &rv.Miniconf,
		&rv.Comment, &rv.PrivateComment, &rv.CreationTimestamp, &rv.LastModificationTimestamp)
}

// Create inserts a review. A reviewer may review a proposal only once; a
// second attempt fails with a unique violation.
func (r *Repository) Create(ctx context.Context, rv *models.Review) error {
	const q = `INSERT INTO review (proposal_id, reviewer_id, score, stream_id, miniconf, comment, private_comment)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, creation_timestamp, last_modification_timestamp`
	err := r.db.QueryRow(ctx, q, rv.ProposalID, rv.ReviewerID, rv.Score, rv.StreamID, rv.Miniconf, rv.Comment, rv.PrivateComment).
		Scan(&rv.ID, &rv.CreationTimestamp, &rv.LastModificationTimestamp)
	if err != nil {
		return fmt.Errorf("create review: %w", dberr.Classify(err))
	}
	return nil
}

// Update rewrites the reviewer's assessment.
func (r *Repository) Update(ctx context.Context, rv *models.Review) error {
	const q = `UPDATE review SET score = $2, stream_id = $3, miniconf = $4, comment = $5, private_comment = $6,
		last_modification_timestamp = CURRENT_TIMESTAMP
		WHERE id = $1
		RETURNING last_modification_timestamp`
	err := r.db.QueryRow(ctx, q, rv.ID, rv.Score, rv.StreamID, rv.Miniconf, rv.Comment, rv.PrivateComment).
		Scan(&rv.LastModificationTimestamp)
	if err != nil {
		return fmt.Errorf("update review %d: %w", rv.ID, dberr.Classify(err))
	}
	return nil
}

// ListByProposal returns the reviews of a proposal in the order they were written.
func (r *Repository) ListByProposal(ctx context.Context, proposalID int) ([]models.Review, error) {
	rows, err := r.db.Query(ctx, selectReview+` WHERE proposal_id = $1 ORDER BY id`, proposalID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []models.Review
	for rows.Next() {
		var rv models.Review
		if err := scanReview(rows, &rv); err != nil {
			return nil, err
		}
		list = append(list, rv)
	}
	return list, rows.Err()
}

// FindByProposalAndReviewer returns the reviewer's review of a proposal, or nil.
func (r *Repository) FindByProposalAndReviewer(ctx context.Context, proposalID, reviewerID int) (*models.Review, error) {
	var rv models.Review
	err := scanReview(r.db.QueryRow(ctx, selectReview+` WHERE proposal_id = $1 AND reviewer_id = $2`, proposalID, reviewerID), &rv)
	v, err := dberr.Optional(&rv, dberr.Classify(err))
	if err != nil {
		return nil, fmt.Errorf("find review: %w", err)
	}
	return v, nil
}

// CountByProposal returns how many reviews a proposal has.
func (r *Repository) CountByProposal(ctx context.Context, proposalID int) (int, error) {
	var n int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM review WHERE proposal_id = $1`, proposalID).Scan(&n); err != nil {
		return 0, fmt.Errorf("count reviews: %w", err)
	}
	return n, nil
}
