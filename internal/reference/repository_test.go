package reference

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zookeepr/backend/internal/models"
)

func newMockRepo(t *testing.T) (*Repository, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return NewRepository(mock), mock
}

func TestRepository_FindByID(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, name FROM proposal_status WHERE id = $1`)).
		WithArgs(3).
		WillReturnRows(pgxmock.NewRows([]string{"id", "name"}).AddRow(3, "Pending"))

	item, err := repo.FindByID(context.Background(), TableProposalStatus, 3)
	require.NoError(t, err)
	assert.Equal(t, &models.ReferenceItem{ID: 3, Name: "Pending"}, item)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_FindByName_Missing(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, name FROM target_audience WHERE name = $1`)).
		WithArgs("Kernel hackers").
		WillReturnRows(pgxmock.NewRows([]string{"id", "name"}))

	item, err := repo.FindByName(context.Background(), TableTargetAudience, "Kernel hackers")
	require.NoError(t, err)
	assert.Nil(t, item)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_FindAll(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, name FROM proposal_type ORDER BY name`)).
		WillReturnRows(pgxmock.NewRows([]string{"id", "name"}).
			AddRow(2, "Miniconf").
			AddRow(5, "Poster").
			AddRow(1, "Presentation"))

	items, err := repo.FindAll(context.Background(), TableProposalType)
	require.NoError(t, err)
	require.Len(t, items, 3)
	assert.Equal(t, "Miniconf", items[0].Name)
	assert.Equal(t, "Presentation", items[2].Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_Create(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO stream (name) VALUES ($1) ON CONFLICT (name) DO NOTHING`)).
		WithArgs("Security").
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO stream (name) VALUES ($1) ON CONFLICT (name) DO NOTHING`)).
		WithArgs("Security").
		WillReturnResult(pgxmock.NewResult("INSERT", 0))

	created, err := repo.Create(context.Background(), TableStream, "Security")
	require.NoError(t, err)
	assert.True(t, created)

	created, err = repo.Create(context.Background(), TableStream, "Security")
	require.NoError(t, err)
	assert.False(t, created)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_UnknownTable(t *testing.T) {
	repo, mock := newMockRepo(t)

	_, err := repo.FindAll(context.Background(), Table("person; DROP TABLE person"))
	assert.True(t, errors.Is(err, ErrUnknownTable))
	_, err = repo.Create(context.Background(), Table("nope"), "x")
	assert.True(t, errors.Is(err, ErrUnknownTable))
	assert.NoError(t, mock.ExpectationsWereMet())
}
