package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProposal_Status(t *testing.T) {
	p := &Proposal{StatusName: StatusAccepted, TypeName: ProposalTypeMiniconf}
	assert.True(t, p.Accepted())
	assert.False(t, p.Withdrawn())
	assert.True(t, p.Miniconf())

	p.StatusName = StatusWithdrawn
	assert.False(t, p.Accepted())
	assert.True(t, p.Withdrawn())
}

func TestInvoice_PaidAndVoid(t *testing.T) {
	inv := &Invoice{TotalCents: 5000, AmountPaid: 4999}
	assert.False(t, inv.Paid())
	assert.False(t, inv.IsVoid())

	inv.AmountPaid = 5000
	assert.True(t, inv.Paid())

	reason := "duplicate"
	inv.Void = &reason
	assert.True(t, inv.IsVoid())

	assert.True(t, (&Invoice{}).Paid(), "empty invoice is paid")
}

func TestPerson_JSONHidesSecrets(t *testing.T) {
	hash := "$2a$10$abcdefghijklmnopqrstuv"
	p := Person{ID: 1, EmailAddress: "ada@example.org", PasswordHash: &hash, URLHash: "0123456789abcdef0123456789abcdef"}

	raw, err := json.Marshal(p)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "url_hash")
	assert.NotContains(t, string(raw), p.URLHash)
	assert.NotContains(t, string(raw), hash)
	assert.Contains(t, string(raw), `"email_address":"ada@example.org"`)
}
