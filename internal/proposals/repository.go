// Package proposals stores talk proposals, their presenters and the
// reviewer assignment query used during the call for papers.
package proposals

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/zookeepr/backend/internal/models"
	"github.com/zookeepr/backend/pkg/database"
	"github.com/zookeepr/backend/pkg/dberr"
)

const selectProposal = `SELECT p.id, p.title, p.abstract, p.technical_requirements, p.proposal_type_id, p.stream_id,
	p.travel_assistance_type_id, p.accommodation_assistance_type_id, p.status_id, p.target_audience_id,
	p.video_release, p.slides_release, p.project, p.url, p.abstract_video_url,
	p.creation_timestamp, p.last_modification_timestamp, t.name, s.name
	FROM proposal p
	JOIN proposal_type t ON t.id = p.proposal_type_id
	JOIN proposal_status s ON s.id = p.status_id`

// Repository handles proposal persistence.
type Repository struct {
	db database.DBTX
}

// NewRepository creates a proposals repository.
func NewRepository(db database.DBTX) *Repository {
	return &Repository{db: db}
}

func scanProposal(row pgx.Row, p *models.Proposal) error {
	return row.Scan(&p.ID, &p.Title, &p.Abstract, &p.TechnicalRequirements, &p.ProposalTypeID, &p.StreamID,
		&p.TravelAssistanceTypeID, &p.AccommodationAssistanceTypeID, &p.StatusID, &p.TargetAudienceID,
		&p.VideoRelease, &p.SlidesRelease, &p.Project, &p.URL, &p.AbstractVideoURL,
		&p.CreationTimestamp, &p.LastModificationTimestamp, &p.TypeName, &p.StatusName)
}

func (r *Repository) list(ctx context.Context, q string, args ...any) ([]models.Proposal, error) {
	rows, err := r.db.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []models.Proposal
	for rows.Next() {
		var p models.Proposal
		if err := scanProposal(rows, &p); err != nil {
			return nil, err
		}
		list = append(list, p)
	}
	return list, rows.Err()
}

// GetByID returns a proposal by ID or dberr.ErrNotFound.
func (r *Repository) GetByID(ctx context.Context, id int) (*models.Proposal, error) {
	var p models.Proposal
	if err := scanProposal(r.db.QueryRow(ctx, selectProposal+` WHERE p.id = $1`, id), &p); err != nil {
		return nil, fmt.Errorf("get proposal %d: %w", id, dberr.Classify(err))
	}
	return &p, nil
}

// FindByID returns a proposal by ID, or nil when there is none.
func (r *Repository) FindByID(ctx context.Context, id int) (*models.Proposal, error) {
	return dberr.Optional(r.GetByID(ctx, id))
}

// GetAcceptedByID returns the proposal only if it has been accepted.
func (r *Repository) GetAcceptedByID(ctx context.Context, id int) (*models.Proposal, error) {
	var p models.Proposal
	err := scanProposal(r.db.QueryRow(ctx, selectProposal+` WHERE p.id = $1 AND s.name = $2`, id, models.StatusAccepted), &p)
	if err != nil {
		return nil, fmt.Errorf("get accepted proposal %d: %w", id, dberr.Classify(err))
	}
	return &p, nil
}

// FindAll returns all proposals in submission order.
func (r *Repository) FindAll(ctx context.Context) ([]models.Proposal, error) {
	return r.list(ctx, selectProposal+` ORDER BY p.id`)
}

// FindAllByAccommodationAssistanceTypeID returns the proposals requesting the given accommodation assistance.
func (r *Repository) FindAllByAccommodationAssistanceTypeID(ctx context.Context, typeID int) ([]models.Proposal, error) {
	return r.list(ctx, selectProposal+` WHERE p.accommodation_assistance_type_id = $1 ORDER BY p.id`, typeID)
}

// FindAllByTravelAssistanceTypeID returns the proposals requesting the given travel assistance.
func (r *Repository) FindAllByTravelAssistanceTypeID(ctx context.Context, typeID int) ([]models.Proposal, error) {
	return r.list(ctx, selectProposal+` WHERE p.travel_assistance_type_id = $1 ORDER BY p.id`, typeID)
}

// FindAllByProposalTypeID returns the proposals of one type, optionally
// leaving out withdrawn ones.
func (r *Repository) FindAllByProposalTypeID(ctx context.Context, typeID int, includeWithdrawn bool) ([]models.Proposal, error) {
	return r.list(ctx, selectProposal+` WHERE p.proposal_type_id = $1 AND ($2::boolean OR s.name <> $3) ORDER BY p.id`,
		typeID, includeWithdrawn, models.StatusWithdrawn)
}

// FindAllAccepted returns all accepted proposals.
func (r *Repository) FindAllAccepted(ctx context.Context) ([]models.Proposal, error) {
	return r.list(ctx, selectProposal+` WHERE s.name = $1 ORDER BY p.id`, models.StatusAccepted)
}

// FindAllAcceptedWithoutEvent returns accepted proposals that have not been scheduled yet.
func (r *Repository) FindAllAcceptedWithoutEvent(ctx context.Context) ([]models.Proposal, error) {
	return r.list(ctx, selectProposal+` WHERE s.name = $1
		AND NOT EXISTS (SELECT 1 FROM event e WHERE e.proposal_id = p.id) ORDER BY p.id`, models.StatusAccepted)
}

// ListByPerson returns the proposals a person presents.
func (r *Repository) ListByPerson(ctx context.Context, personID int) ([]models.Proposal, error) {
	return r.list(ctx, selectProposal+` JOIN person_proposal_map m ON m.proposal_id = p.id
		WHERE m.person_id = $1 ORDER BY p.id`, personID)
}

// Create inserts the proposal and links its presenters in one statement.
// ID and timestamps are filled from the database.
func (r *Repository) Create(ctx context.Context, p *models.Proposal, presenterIDs []int) error {
	const q = `WITH p AS (
		INSERT INTO proposal (title, abstract, technical_requirements, proposal_type_id, stream_id,
			travel_assistance_type_id, accommodation_assistance_type_id, status_id, target_audience_id,
			video_release, slides_release, project, url, abstract_video_url)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		RETURNING id, creation_timestamp, last_modification_timestamp
	), m AS (
		INSERT INTO person_proposal_map (person_id, proposal_id)
		SELECT person_id, p.id FROM p, unnest($15::int[]) AS person_id
	)
	SELECT id, creation_timestamp, last_modification_timestamp FROM p`
	if presenterIDs == nil {
		presenterIDs = []int{}
	}
	err := r.db.QueryRow(ctx, q, p.Title, p.Abstract, p.TechnicalRequirements, p.ProposalTypeID, p.StreamID,
		p.TravelAssistanceTypeID, p.AccommodationAssistanceTypeID, p.StatusID, p.TargetAudienceID,
		p.VideoRelease, p.SlidesRelease, p.Project, p.URL, p.AbstractVideoURL, presenterIDs).
		Scan(&p.ID, &p.CreationTimestamp, &p.LastModificationTimestamp)
	if err != nil {
		return fmt.Errorf("create proposal: %w", dberr.Classify(err))
	}
	return nil
}

// Update writes every editable column and bumps last_modification_timestamp.
func (r *Repository) Update(ctx context.Context, p *models.Proposal) error {
	const q = `UPDATE proposal SET title = $2, abstract = $3, technical_requirements = $4, proposal_type_id = $5,
		stream_id = $6, travel_assistance_type_id = $7, accommodation_assistance_type_id = $8, status_id = $9,
		target_audience_id = $10, video_release = $11, slides_release = $12, project = $13, url = $14,
		abstract_video_url = $15, last_modification_timestamp = CURRENT_TIMESTAMP
		WHERE id = $1
		RETURNING last_modification_timestamp`
	err := r.db.QueryRow(ctx, q, p.ID, p.Title, p.Abstract, p.TechnicalRequirements, p.ProposalTypeID,
		p.StreamID, p.TravelAssistanceTypeID, p.AccommodationAssistanceTypeID, p.StatusID,
		p.TargetAudienceID, p.VideoRelease, p.SlidesRelease, p.Project, p.URL, p.AbstractVideoURL).
		Scan(&p.LastModificationTimestamp)
	if err != nil {
		return fmt.Errorf("update proposal %d: %w", p.ID, dberr.Classify(err))
	}
	return nil
}

func (r *Repository) execOne(ctx context.Context, op string, q string, args ...any) error {
	tag, err := r.db.Exec(ctx, q, args...)
	if err != nil {
		return fmt.Errorf("%s: %w", op, dberr.Classify(err))
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%s: %w", op, dberr.ErrNotFound)
	}
	return nil
}

// SetStatus moves a proposal to another status.
func (r *Repository) SetStatus(ctx context.Context, id, statusID int) error {
	const q = `UPDATE proposal SET status_id = $2, last_modification_timestamp = CURRENT_TIMESTAMP WHERE id = $1`
	return r.execOne(ctx, "set proposal status", q, id, statusID)
}

// SetStream allocates a proposal to a stream; nil clears the allocation.
func (r *Repository) SetStream(ctx context.Context, id int, streamID *int) error {
	const q = `UPDATE proposal SET stream_id = $2, last_modification_timestamp = CURRENT_TIMESTAMP WHERE id = $1`
	return r.execOne(ctx, "set proposal stream", q, id, streamID)
}

// AddPresenter links a person to a proposal. Linking twice is a no-op.
func (r *Repository) AddPresenter(ctx context.Context, proposalID, personID int) error {
	const q = `INSERT INTO person_proposal_map (person_id, proposal_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`
	if _, err := r.db.Exec(ctx, q, personID, proposalID); err != nil {
		return fmt.Errorf("add presenter: %w", dberr.Classify(err))
	}
	return nil
}

// RemovePresenter unlinks a person from a proposal.
func (r *Repository) RemovePresenter(ctx context.Context, proposalID, personID int) error {
	const q = `DELETE FROM person_proposal_map WHERE person_id = $1 AND proposal_id = $2`
	return r.execOne(ctx, "remove presenter", q, personID, proposalID)
}

// ListPresenters returns the ids of the people presenting a proposal.
func (r *Repository) ListPresenters(ctx context.Context, proposalID int) ([]int, error) {
	rows, err := r.db.Query(ctx, `SELECT person_id FROM person_proposal_map WHERE proposal_id = $1 ORDER BY person_id`, proposalID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var ids []int
	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// Delete removes a proposal together with its attachments, reviews and
// presenter links. The people themselves are kept. It returns the storage
// keys of the removed attachments so their bodies can be purged.
func (r *Repository) Delete(ctx context.Context, id int) ([]string, error) {
	const q = `WITH gone AS (DELETE FROM proposal WHERE id = $1 RETURNING id)
		SELECT a.storage_key FROM gone LEFT JOIN attachment a ON a.proposal_id = gone.id`
	rows, err := r.db.Query(ctx, q, id)
	if err != nil {
		return nil, fmt.Errorf("delete proposal %d: %w", id, dberr.Classify(err))
	}
	defer rows.Close()
	found := false
	var keys []string
	for rows.Next() {
		found = true
		var key *string
		if err := rows.Scan(&key); err != nil {
			return nil, err
		}
		if key != nil {
			keys = append(keys, *key)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("delete proposal %d: %w", id, dberr.Classify(err))
	}
	if !found {
		return nil, fmt.Errorf("delete proposal %d: %w", id, dberr.ErrNotFound)
	}
	return keys, nil
}

// NextForReview picks the proposal of the given type that reviewer should
// look at next: not withdrawn, not excludeID, not already reviewed by them,
// with the fewest reviews so far and ties broken at random. ok is false when
// the reviewer has seen everything.
func (r *Repository) NextForReview(ctx context.Context, reviewerID, excludeID, typeID int) (id int, ok bool, err error) {
	const q = `SELECT p.id
		FROM (
			SELECT id FROM proposal
			WHERE id <> $1
				AND proposal_type_id = $2
				AND status_id NOT IN (SELECT id FROM proposal_status WHERE name = $3)
			EXCEPT
			SELECT proposal_id AS id FROM review WHERE reviewer_id = $4
		) AS p
		LEFT JOIN review AS r ON p.id = r.proposal_id
		GROUP BY p.id
		ORDER BY COUNT(r.reviewer_id), RANDOM()
		LIMIT 1`
	err = r.db.QueryRow(ctx, q, excludeID, typeID, models.StatusWithdrawn, reviewerID).Scan(&id)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("next proposal for review: %w", err)
	}
	return id, true, nil
}
