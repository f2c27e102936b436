package proposals

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/zookeepr/backend/internal/models"
	"github.com/zookeepr/backend/internal/reference"
	"github.com/zookeepr/backend/pkg/queue"
)

var (
	// ErrUnknownStatus is returned when a status name is not in proposal_status.
	ErrUnknownStatus = errors.New("unknown proposal status")
	// ErrUnknownType is returned when a proposal type id is not in proposal_type.
	ErrUnknownType = errors.New("unknown proposal type")
)

// Repo is the persistence the service needs.
type Repo interface {
	GetByID(ctx context.Context, id int) (*models.Proposal, error)
	Create(ctx context.Context, p *models.Proposal, presenterIDs []int) error
	SetStatus(ctx context.Context, id, statusID int) error
	Delete(ctx context.Context, id int) ([]string, error)
	NextForReview(ctx context.Context, reviewerID, excludeID, typeID int) (int, bool, error)
}

// Purger schedules removal of attachment bodies.
type Purger interface {
	EnqueueAttachmentPurge(ctx context.Context, payload queue.AttachmentPurgePayload) error
}

// SubmitInput is a new proposal as entered by its presenters.
type SubmitInput struct {
	Title                         string  `validate:"required"`
	Abstract                      string  `validate:"required"`
	TechnicalRequirements         *string
	ProposalTypeID                int     `validate:"required,gt=0"`
	TravelAssistanceTypeID        int     `validate:"required,gt=0"`
	AccommodationAssistanceTypeID int     `validate:"required,gt=0"`
	TargetAudienceID              int     `validate:"required,gt=0"`
	VideoRelease                  *bool
	SlidesRelease                 *bool
	Project                       *string
	URL                           *string `validate:"omitempty,url"`
	AbstractVideoURL              *string `validate:"omitempty,url"`
	PresenterIDs                  []int   `validate:"required,min=1,dive,gt=0"`
}

// Service runs the proposal workflow: submission, status changes and review assignment.
type Service struct {
	repo     Repo
	ref      reference.Store
	purger   Purger
	validate *validator.Validate
	logger   *zap.Logger
}

// NewService creates a proposals service.
func NewService(repo Repo, ref reference.Store, purger Purger, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{repo: repo, ref: ref, purger: purger, validate: validator.New(), logger: logger}
}

// Submit stores a new proposal in the Pending status.
func (s *Service) Submit(ctx context.Context, in SubmitInput) (*models.Proposal, error) {
	if err := s.validate.Struct(in); err != nil {
		return nil, fmt.Errorf("invalid proposal: %w", err)
	}
	typ, err := s.ref.FindByID(ctx, reference.TableProposalType, in.ProposalTypeID)
	if err != nil {
		return nil, err
	}
	if typ == nil {
		return nil, fmt.Errorf("%w: %d", ErrUnknownType, in.ProposalTypeID)
	}
	status, err := s.status(ctx, models.StatusPending)
	if err != nil {
		return nil, err
	}

	title, abstract := in.Title, in.Abstract
	p := &models.Proposal{
		Title:                         &title,
		Abstract:                      &abstract,
		TechnicalRequirements:         in.TechnicalRequirements,
		ProposalTypeID:                typ.ID,
		TravelAssistanceTypeID:        in.TravelAssistanceTypeID,
		AccommodationAssistanceTypeID: in.AccommodationAssistanceTypeID,
		StatusID:                      status.ID,
		TargetAudienceID:              in.TargetAudienceID,
		VideoRelease:                  in.VideoRelease,
		SlidesRelease:                 in.SlidesRelease,
		Project:                       in.Project,
		URL:                           in.URL,
		AbstractVideoURL:              in.AbstractVideoURL,
		TypeName:                      typ.Name,
		StatusName:                    status.Name,
	}
	if err := s.repo.Create(ctx, p, in.PresenterIDs); err != nil {
		return nil, err
	}
	s.logger.Info("proposal submitted", zap.Int("proposal_id", p.ID), zap.Ints("presenters", in.PresenterIDs))
	return p, nil
}

func (s *Service) status(ctx context.Context, name string) (*models.ReferenceItem, error) {
	status, err := s.ref.FindByName(ctx, reference.TableProposalStatus, name)
	if err != nil {
		return nil, err
	}
	if status == nil {
		return nil, fmt.Errorf("%w: %q", ErrUnknownStatus, name)
	}
	return status, nil
}

// ChangeStatus moves a proposal to the named status.
func (s *Service) ChangeStatus(ctx context.Context, id int, statusName string) error {
	status, err := s.status(ctx, statusName)
	if err != nil {
		return err
	}
	if err := s.repo.SetStatus(ctx, id, status.ID); err != nil {
		return err
	}
	s.logger.Info("proposal status changed", zap.Int("proposal_id", id), zap.String("status", status.Name))
	return nil
}

// Withdraw marks a proposal as withdrawn by its presenters.
func (s *Service) Withdraw(ctx context.Context, id int) error {
	return s.ChangeStatus(ctx, id, models.StatusWithdrawn)
}

// Accept marks a proposal as accepted into the programme.
func (s *Service) Accept(ctx context.Context, id int) error {
	return s.ChangeStatus(ctx, id, models.StatusAccepted)
}

// Reject marks a proposal as rejected.
func (s *Service) Reject(ctx context.Context, id int) error {
	return s.ChangeStatus(ctx, id, models.StatusRejected)
}

// Delete removes a proposal and schedules its attachment bodies for removal.
// A failed enqueue is logged; the rows are already gone at that point.
func (s *Service) Delete(ctx context.Context, id int) error {
	keys, err := s.repo.Delete(ctx, id)
	if err != nil {
		return err
	}
	s.logger.Info("proposal deleted", zap.Int("proposal_id", id), zap.Int("attachments", len(keys)))
	if len(keys) == 0 || s.purger == nil {
		return nil
	}
	if err := s.purger.EnqueueAttachmentPurge(ctx, queue.AttachmentPurgePayload{ProposalID: id, Keys: keys}); err != nil {
		s.logger.Error("enqueue attachment purge failed", zap.Int("proposal_id", id), zap.Strings("keys", keys), zap.Error(err))
	}
	return nil
}

// NextForReview returns the next proposal reviewerID should review, or nil
// when nothing is left.
func (s *Service) NextForReview(ctx context.Context, reviewerID, excludeID, typeID int) (*models.Proposal, error) {
	id, ok, err := s.repo.NextForReview(ctx, reviewerID, excludeID, typeID)
	if err != nil || !ok {
		return nil, err
	}
	return s.repo.GetByID(ctx, id)
}
