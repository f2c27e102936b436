package people

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/zookeepr/backend/internal/models"
	"github.com/zookeepr/backend/pkg/dberr"
	"github.com/zookeepr/backend/pkg/utils"
)

var (
	// ErrEmailTaken is returned when another account already uses the address.
	ErrEmailTaken = errors.New("email address already registered")
	// ErrInvalidCredentials is returned for an unknown email or wrong password.
	ErrInvalidCredentials = errors.New("invalid email or password")
)

// Repo is the person persistence the service needs.
type Repo interface {
	GetByID(ctx context.Context, id int) (*models.Person, error)
	FindByEmail(ctx context.Context, email string) (*models.Person, error)
	GetByURLHash(ctx context.Context, urlHash string) (*models.Person, error)
	Create(ctx context.Context, p *models.Person) error
	Update(ctx context.Context, p *models.Person) error
}

// ProposalLister lists the proposals a person presents.
type ProposalLister interface {
	ListByPerson(ctx context.Context, personID int) ([]models.Proposal, error)
}

// VolunteerFinder looks up a person's volunteer record.
type VolunteerFinder interface {
	FindVolunteerByPersonID(ctx context.Context, personID int) (*models.Volunteer, error)
}

// InvoiceLister lists invoice summaries for a person.
type InvoiceLister interface {
	ListByPerson(ctx context.Context, personID int) ([]models.Invoice, error)
}

// RegisterInput is a new account.
type RegisterInput struct {
	Email     string `validate:"required,email"`
	Password  string `validate:"required,max=72"`
	Firstname string `validate:"required"`
	Lastname  string `validate:"required"`
	Company   *string
	Phone     *string
	Mobile    *string
	URL       *string `validate:"omitempty,url"`
}

// Status holds the flags derived from a person's proposals, volunteering and invoices.
type Status struct {
	Speaker     bool `json:"speaker"`
	MiniconfOrg bool `json:"miniconf_org"`
	Volunteer   bool `json:"volunteer"`
	Paid        bool `json:"paid"`
	PaidTicket  bool `json:"paid_ticket"`
}

// Service handles account workflows.
type Service struct {
	repo       Repo
	proposals  ProposalLister
	volunteers VolunteerFinder
	invoices   InvoiceLister
	validate   *validator.Validate
	logger     *zap.Logger
}

// NewService creates a people service.
func NewService(repo Repo, proposals ProposalLister, volunteers VolunteerFinder, invoices InvoiceLister, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		repo:       repo,
		proposals:  proposals,
		volunteers: volunteers,
		invoices:   invoices,
		validate:   validator.New(),
		logger:     logger,
	}
}

func emailConflict(err error) error {
	if dberr.KindOf(err) == dberr.UniqueViolation {
		return ErrEmailTaken
	}
	return err
}

// Register creates an inactive account.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*models.Person, error) {
	if err := s.validate.Struct(in); err != nil {
		return nil, fmt.Errorf("invalid registration: %w", err)
	}
	existing, err := s.repo.FindByEmail(ctx, in.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrEmailTaken
	}

	p := NewPerson(in.Email)
	if err := SetPassword(p, in.Password); err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	p.Firstname, p.Lastname = &in.Firstname, &in.Lastname
	p.Company, p.Phone, p.Mobile, p.URL = in.Company, in.Phone, in.Mobile, in.URL

	if err := s.repo.Create(ctx, p); err != nil {
		return nil, emailConflict(err)
	}
	s.logger.Info("person registered", zap.Int("person_id", p.ID))
	return p, nil
}

// Authenticate returns the person whose email and password match. Accounts
// still on a legacy hash are moved to bcrypt on success.
func (s *Service) Authenticate(ctx context.Context, email, password string) (*models.Person, error) {
	p, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if p == nil || !CheckPassword(p, password) {
		return nil, ErrInvalidCredentials
	}
	if utils.IsLegacyHash(*p.PasswordHash) {
		if err := SetPassword(p, password); err == nil {
			if err := s.repo.Update(ctx, p); err != nil {
				s.logger.Warn("password rehash failed", zap.Int("person_id", p.ID), zap.Error(err))
			}
		}
	}
	return p, nil
}

// ChangePassword replaces the password after checking the current one.
func (s *Service) ChangePassword(ctx context.Context, id int, current, next string) error {
	if next == "" {
		return errors.New("new password is empty")
	}
	if len(next) > utils.MaxPasswordBytes {
		return utils.ErrPasswordTooLong
	}
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !CheckPassword(p, current) {
		return ErrInvalidCredentials
	}
	if err := SetPassword(p, next); err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	return s.repo.Update(ctx, p)
}

// ChangeEmail moves the account to a new address; the url hash changes with it.
func (s *Service) ChangeEmail(ctx context.Context, id int, email string) (*models.Person, error) {
	if err := s.validate.Var(email, "required,email"); err != nil {
		return nil, fmt.Errorf("invalid email: %w", err)
	}
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	SetEmail(p, email)
	if err := s.repo.Update(ctx, p); err != nil {
		return nil, emailConflict(err)
	}
	return p, nil
}

// Activate marks the account identified by a confirmation url hash as active.
func (s *Service) Activate(ctx context.Context, urlHash string) (*models.Person, error) {
	p, err := s.repo.GetByURLHash(ctx, urlHash)
	if err != nil {
		return nil, err
	}
	if p.Activated {
		return p, nil
	}
	p.Activated = true
	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	s.logger.Info("person activated", zap.Int("person_id", p.ID))
	return p, nil
}

// Status derives the person's speaker, volunteer and payment flags.
func (s *Service) Status(ctx context.Context, id int) (*Status, error) {
	proposals, err := s.proposals.ListByPerson(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("list proposals: %w", err)
	}
	volunteer, err := s.volunteers.FindVolunteerByPersonID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("find volunteer: %w", err)
	}
	invoices, err := s.invoices.ListByPerson(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("list invoices: %w", err)
	}
	return &Status{
		Speaker:     IsSpeaker(proposals),
		MiniconfOrg: IsMiniconfOrg(proposals),
		Volunteer:   IsVolunteer(volunteer),
		Paid:        Paid(invoices),
		PaidTicket:  HasPaidTicket(invoices),
	}, nil
}
