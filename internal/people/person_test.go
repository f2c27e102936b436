package people

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zookeepr/backend/internal/models"
	"github.com/zookeepr/backend/pkg/utils"
)

func TestNewPerson_Defaults(t *testing.T) {
	before := time.Now().Add(-time.Second)
	p := NewPerson("  Speaker@Example.ORG ")

	assert.Equal(t, "speaker@example.org", p.EmailAddress)
	assert.False(t, p.Activated)
	require.NotNil(t, p.BadgePrinted)
	assert.False(t, *p.BadgePrinted)
	assert.True(t, p.CreationTimestamp.After(before))
	assert.Len(t, p.URLHash, 32)
	assert.Nil(t, p.PasswordHash)
}

func TestURLHash_Recomputed(t *testing.T) {
	p := NewPerson("a@example.org")

	first := p.URLHash
	SetCreationTimestamp(p, time.Date(2008, 6, 1, 12, 0, 0, 0, time.UTC))
	assert.NotEqual(t, first, p.URLHash)
	assert.Equal(t, time.Date(2008, 6, 1, 12, 0, 0, 0, time.UTC), p.CreationTimestamp)

	second := p.URLHash
	SetEmail(p, "B@example.org")
	assert.Equal(t, "b@example.org", p.EmailAddress)
	assert.NotEqual(t, second, p.URLHash)

	SetCreationTimestamp(p, time.Time{})
	assert.WithinDuration(t, time.Now(), p.CreationTimestamp, time.Minute)
}

func TestCheckPassword(t *testing.T) {
	p := NewPerson("a@example.org")
	assert.False(t, CheckPassword(p, ""), "no password set")
	assert.False(t, CheckPassword(p, "password"))

	require.NoError(t, SetPassword(p, "s3cret"))
	assert.True(t, CheckPassword(p, "s3cret"))
	assert.False(t, CheckPassword(p, "S3cret"))

	legacy := utils.MD5Hex("password")
	p.PasswordHash = &legacy
	assert.True(t, CheckPassword(p, "password"))
}

func accepted(typeName string) models.Proposal {
	return models.Proposal{StatusName: models.StatusAccepted, TypeName: typeName}
}

func TestSpeakerAndMiniconf(t *testing.T) {
	pending := models.Proposal{StatusName: models.StatusPending, TypeName: "Presentation"}

	assert.False(t, IsSpeaker(nil))
	assert.False(t, IsSpeaker([]models.Proposal{pending}))
	assert.True(t, IsSpeaker([]models.Proposal{pending, accepted("Presentation")}))
	assert.False(t, IsSpeaker([]models.Proposal{accepted(models.ProposalTypeMiniconf)}))

	assert.False(t, IsMiniconfOrg([]models.Proposal{accepted("Presentation")}))
	assert.True(t, IsMiniconfOrg([]models.Proposal{accepted(models.ProposalTypeMiniconf)}))
}

func TestIsVolunteer(t *testing.T) {
	yes, no := true, false
	assert.False(t, IsVolunteer(nil))
	assert.False(t, IsVolunteer(&models.Volunteer{}))
	assert.False(t, IsVolunteer(&models.Volunteer{Accepted: &no}))
	assert.True(t, IsVolunteer(&models.Volunteer{Accepted: &yes}))
}

func TestPaid(t *testing.T) {
	void := "replaced"
	paid := models.Invoice{ID: 1, TotalCents: 100, AmountPaid: 100}
	unpaid := models.Invoice{ID: 2, TotalCents: 100}
	voided := models.Invoice{ID: 3, TotalCents: 100, Void: &void}

	tests := []struct {
		name     string
		invoices []models.Invoice
		want     bool
	}{
		{"no invoices", nil, false},
		{"only void", []models.Invoice{voided}, false},
		{"one paid", []models.Invoice{paid}, true},
		{"paid and void", []models.Invoice{voided, paid}, true},
		{"paid then unpaid", []models.Invoice{paid, unpaid}, false},
		{"unpaid first", []models.Invoice{unpaid, paid}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Paid(tt.invoices))
		})
	}
}

func TestHasPaidTicketAndValidInvoice(t *testing.T) {
	void := "cancelled"
	ticketUnpaid := models.Invoice{ID: 1, TotalCents: 500, HasTicket: true}
	ticketVoid := models.Invoice{ID: 2, Void: &void, HasTicket: true}
	manual := models.Invoice{ID: 3, Manual: true}
	ticketPaid := models.Invoice{ID: 4, TotalCents: 500, AmountPaid: 500, HasTicket: true}

	assert.False(t, HasPaidTicket([]models.Invoice{ticketUnpaid, ticketVoid}))
	assert.True(t, HasPaidTicket([]models.Invoice{ticketUnpaid, ticketPaid}))

	assert.Nil(t, ValidInvoice([]models.Invoice{ticketVoid, manual}))
	got := ValidInvoice([]models.Invoice{ticketVoid, manual, ticketUnpaid, ticketPaid})
	require.NotNil(t, got)
	assert.Equal(t, 1, got.ID)
}
