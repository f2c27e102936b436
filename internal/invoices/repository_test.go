package invoices

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRepository_ListByPerson(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	void := "duplicate"
	mock.ExpectQuery(regexp.QuoteMeta(`WHERE i.person_id = $1 GROUP BY i.id ORDER BY i.id`)).
		WithArgs(4, "Ticket").
		WillReturnRows(pgxmock.NewRows([]string{"id", "person_id", "manual", "void", "total", "amount_paid", "has_ticket"}).
			AddRow(1, 4, false, &void, 49900, 0, true).
			AddRow(2, 4, false, (*string)(nil), 49900, 49900, true))

	list, err := NewRepository(mock).ListByPerson(context.Background(), 4)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.True(t, list[0].IsVoid())
	assert.False(t, list[1].IsVoid())
	assert.True(t, list[1].Paid())
	assert.True(t, list[1].HasTicket)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_ListByPerson_Error(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery(regexp.QuoteMeta(`FROM invoice i`)).WithArgs(4, "Ticket").WillReturnError(errors.New("conn closed"))

	_, err = NewRepository(mock).ListByPerson(context.Background(), 4)
	assert.ErrorContains(t, err, "conn closed")
}
