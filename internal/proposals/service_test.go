package proposals

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/zookeepr/backend/internal/models"
	"github.com/zookeepr/backend/internal/reference"
	"github.com/zookeepr/backend/pkg/dberr"
	"github.com/zookeepr/backend/pkg/queue"
)

// MockRepo is a mock implementation of Repo
type MockRepo struct {
	mock.Mock
}

func (m *MockRepo) GetByID(ctx context.Context, id int) (*models.Proposal, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Proposal), args.Error(1)
}

func (m *MockRepo) Create(ctx context.Context, p *models.Proposal, presenterIDs []int) error {
	args := m.Called(ctx, p, presenterIDs)
	return args.Error(0)
}

func (m *MockRepo) SetStatus(ctx context.Context, id, statusID int) error {
	args := m.Called(ctx, id, statusID)
	return args.Error(0)
}

func (m *MockRepo) Delete(ctx context.Context, id int) ([]string, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockRepo) NextForReview(ctx context.Context, reviewerID, excludeID, typeID int) (int, bool, error) {
	args := m.Called(ctx, reviewerID, excludeID, typeID)
	return args.Int(0), args.Bool(1), args.Error(2)
}

// MockPurger is a mock implementation of Purger
type MockPurger struct {
	mock.Mock
}

func (m *MockPurger) EnqueueAttachmentPurge(ctx context.Context, payload queue.AttachmentPurgePayload) error {
	args := m.Called(ctx, payload)
	return args.Error(0)
}

// staticStore serves fixed reference rows.
type staticStore map[reference.Table][]models.ReferenceItem

func (s staticStore) FindAll(ctx context.Context, table reference.Table) ([]models.ReferenceItem, error) {
	return s[table], nil
}

func (s staticStore) FindByID(ctx context.Context, table reference.Table, id int) (*models.ReferenceItem, error) {
	for _, item := range s[table] {
		if item.ID == id {
			return &item, nil
		}
	}
	return nil, nil
}

func (s staticStore) FindByName(ctx context.Context, table reference.Table, name string) (*models.ReferenceItem, error) {
	for _, item := range s[table] {
		if item.Name == name {
			return &item, nil
		}
	}
	return nil, nil
}

var seeded = staticStore{
	reference.TableProposalStatus: {
		{ID: 1, Name: "Accepted"}, {ID: 2, Name: "Rejected"}, {ID: 3, Name: "Pending"},
		{ID: 4, Name: "Withdrawn"}, {ID: 5, Name: "Backup"},
	},
	reference.TableProposalType: {{ID: 1, Name: "Presentation"}, {ID: 2, Name: "Miniconf"}},
}

func validInput() SubmitInput {
	return SubmitInput{
		Title:                         "Packet filtering in 2009",
		Abstract:                      "nftables before nftables.",
		ProposalTypeID:                1,
		TravelAssistanceTypeID:        1,
		AccommodationAssistanceTypeID: 1,
		TargetAudienceID:              3,
		PresenterIDs:                  []int{10},
	}
}

func TestService_Submit(t *testing.T) {
	tests := []struct {
		name        string
		input       func() SubmitInput
		setup       func(*MockRepo)
		store       reference.Store
		wantErr     bool
		expectError error
	}{
		{
			name:  "stored as pending",
			input: validInput,
			setup: func(repo *MockRepo) {
				repo.On("Create", mock.Anything, mock.MatchedBy(func(p *models.Proposal) bool {
					return p.StatusID == 3 && p.ProposalTypeID == 1 && *p.Title == "Packet filtering in 2009"
				}), []int{10}).Run(func(args mock.Arguments) {
					args.Get(1).(*models.Proposal).ID = 99
				}).Return(nil)
			},
			store: seeded,
		},
		{
			name: "no presenters",
			input: func() SubmitInput {
				in := validInput()
				in.PresenterIDs = nil
				return in
			},
			setup:   func(*MockRepo) {},
			store:   seeded,
			wantErr: true,
		},
		{
			name: "unknown type",
			input: func() SubmitInput {
				in := validInput()
				in.ProposalTypeID = 42
				return in
			},
			setup:       func(*MockRepo) {},
			store:       seeded,
			wantErr:     true,
			expectError: ErrUnknownType,
		},
		{
			name:        "statuses not seeded",
			input:       validInput,
			setup:       func(*MockRepo) {},
			store:       staticStore{reference.TableProposalType: seeded[reference.TableProposalType]},
			wantErr:     true,
			expectError: ErrUnknownStatus,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &MockRepo{}
			tt.setup(repo)
			svc := NewService(repo, tt.store, nil, nil)

			p, err := svc.Submit(context.Background(), tt.input())
			if tt.wantErr {
				assert.Error(t, err)
				if tt.expectError != nil {
					assert.ErrorIs(t, err, tt.expectError)
				}
			} else {
				require.NoError(t, err)
				assert.Equal(t, 99, p.ID)
				assert.Equal(t, models.StatusPending, p.StatusName)
				assert.False(t, p.Accepted())
			}
			repo.AssertExpectations(t)
		})
	}
}

func TestService_ChangeStatus(t *testing.T) {
	repo := &MockRepo{}
	repo.On("SetStatus", mock.Anything, 7, 4).Return(nil).Once()
	repo.On("SetStatus", mock.Anything, 7, 1).Return(nil).Once()
	repo.On("SetStatus", mock.Anything, 8, 2).Return(dberr.ErrNotFound).Once()
	svc := NewService(repo, seeded, nil, nil)
	ctx := context.Background()

	require.NoError(t, svc.Withdraw(ctx, 7))
	require.NoError(t, svc.Accept(ctx, 7))
	assert.ErrorIs(t, svc.Reject(ctx, 8), dberr.ErrNotFound)
	assert.ErrorIs(t, svc.ChangeStatus(ctx, 7, "Lost"), ErrUnknownStatus)
	repo.AssertExpectations(t)
}

func TestService_Delete(t *testing.T) {
	t.Run("enqueues purge of attachment bodies", func(t *testing.T) {
		repo, purger := &MockRepo{}, &MockPurger{}
		keys := []string{"attachments/5/a/slides.pdf"}
		repo.On("Delete", mock.Anything, 5).Return(keys, nil)
		purger.On("EnqueueAttachmentPurge", mock.Anything, queue.AttachmentPurgePayload{ProposalID: 5, Keys: keys}).Return(nil)

		require.NoError(t, NewService(repo, seeded, purger, nil).Delete(context.Background(), 5))
		repo.AssertExpectations(t)
		purger.AssertExpectations(t)
	})

	t.Run("nothing to purge", func(t *testing.T) {
		repo, purger := &MockRepo{}, &MockPurger{}
		repo.On("Delete", mock.Anything, 6).Return([]string(nil), nil)

		require.NoError(t, NewService(repo, seeded, purger, nil).Delete(context.Background(), 6))
		purger.AssertNotCalled(t, "EnqueueAttachmentPurge", mock.Anything, mock.Anything)
	})

	t.Run("enqueue failure does not fail delete", func(t *testing.T) {
		repo, purger := &MockRepo{}, &MockPurger{}
		repo.On("Delete", mock.Anything, 5).Return([]string{"k"}, nil)
		purger.On("EnqueueAttachmentPurge", mock.Anything, mock.Anything).Return(errors.New("redis down"))

		assert.NoError(t, NewService(repo, seeded, purger, nil).Delete(context.Background(), 5))
	})

	t.Run("missing proposal", func(t *testing.T) {
		repo := &MockRepo{}
		repo.On("Delete", mock.Anything, 9).Return(nil, dberr.ErrNotFound)

		assert.ErrorIs(t, NewService(repo, seeded, nil, nil).Delete(context.Background(), 9), dberr.ErrNotFound)
	})
}

func TestService_NextForReview(t *testing.T) {
	repo := &MockRepo{}
	repo.On("NextForReview", mock.Anything, 20, 5, 1).Return(8, true, nil).Once()
	repo.On("GetByID", mock.Anything, 8).Return(&models.Proposal{ID: 8}, nil).Once()
	repo.On("NextForReview", mock.Anything, 21, 5, 1).Return(0, false, nil).Once()
	svc := NewService(repo, seeded, nil, nil)

	p, err := svc.NextForReview(context.Background(), 20, 5, 1)
	require.NoError(t, err)
	assert.Equal(t, 8, p.ID)

	p, err = svc.NextForReview(context.Background(), 21, 5, 1)
	require.NoError(t, err)
	assert.Nil(t, p)
	repo.AssertExpectations(t)
}
