package reference

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memCreator struct {
	rows map[Table]map[string]bool
	fail error
}

func (m *memCreator) Create(ctx context.Context, table Table, name string) (bool, error) {
	if m.fail != nil {
		return false, m.fail
	}
	if m.rows == nil {
		m.rows = map[Table]map[string]bool{}
	}
	if m.rows[table] == nil {
		m.rows[table] = map[string]bool{}
	}
	if m.rows[table][name] {
		return false, nil
	}
	m.rows[table][name] = true
	return true, nil
}

func TestSeed_Idempotent(t *testing.T) {
	repo := &memCreator{}

	n, err := Seed(context.Background(), repo, Defaults, nil)
	require.NoError(t, err)
	assert.Equal(t, 18, n)
	assert.True(t, repo.rows[TableProposalStatus]["Withdrawn"])
	assert.Len(t, repo.rows[TableProposalType], 5)
	assert.Empty(t, repo.rows[TableStream])

	n, err = Seed(context.Background(), repo, Defaults, nil)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestSeed_StopsOnError(t *testing.T) {
	boom := errors.New("boom")
	_, err := Seed(context.Background(), &memCreator{fail: boom}, Defaults, nil)
	assert.ErrorIs(t, err, boom)
}

func TestDefaults_FitColumnWidths(t *testing.T) {
	width := map[Table]int{
		TableProposalStatus:              40,
		TableProposalType:                40,
		TableTravelAssistanceType:        60,
		TableTargetAudience:              40,
		TableAccommodationAssistanceType: 120,
	}
	for _, set := range Defaults {
		for _, name := range set.Names {
			assert.LessOrEqual(t, len(name), width[set.Table], "%s: %q", set.Table, name)
		}
	}
}
