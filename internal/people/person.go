// Package people manages accounts: login details, personal information,
// roles and the derived status flags (speaker, volunteer, paid) shown
// across the conference site.
package people

import (
	"strings"
	"time"

	"github.com/zookeepr/backend/internal/models"
	"github.com/zookeepr/backend/pkg/utils"
)

// NormalizeEmail returns the canonical, lower-case form of an email address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// NewPerson returns an inactive account for email, created now.
func NewPerson(email string) *models.Person {
	badge := false
	p := &models.Person{
		EmailAddress: NormalizeEmail(email),
		Activated:    false,
		BadgePrinted: &badge,
	}
	SetCreationTimestamp(p, time.Time{})
	return p
}

// SetEmail changes the email address and recomputes the url hash.
func SetEmail(p *models.Person, email string) {
	p.EmailAddress = NormalizeEmail(email)
	updateURLHash(p)
}

// SetCreationTimestamp changes the creation timestamp and recomputes the url
// hash. The zero time means now. The value is truncated to the precision the
// database keeps.
func SetCreationTimestamp(p *models.Person, t time.Time) {
	if t.IsZero() {
		t = time.Now()
	}
	p.CreationTimestamp = t.Truncate(time.Microsecond)
	updateURLHash(p)
}

func updateURLHash(p *models.Person) {
	p.URLHash = utils.NewURLHash(p.EmailAddress, p.CreationTimestamp)
}

// SetPassword stores a hash of plain.
func SetPassword(p *models.Person, plain string) error {
	hash, err := utils.HashPassword(plain)
	if err != nil {
		return err
	}
	p.PasswordHash = &hash
	return nil
}

// CheckPassword reports whether plain matches the stored hash. A person
// without a password never matches.
func CheckPassword(p *models.Person, plain string) bool {
	if p.PasswordHash == nil {
		return false
	}
	return utils.CheckPassword(plain, *p.PasswordHash)
}

// IsSpeaker reports whether any of the person's proposals was accepted as a talk.
func IsSpeaker(proposals []models.Proposal) bool {
	for i := range proposals {
		if proposals[i].Accepted() && !proposals[i].Miniconf() {
			return true
		}
	}
	return false
}

// IsMiniconfOrg reports whether any of the person's proposals was accepted as a miniconf.
func IsMiniconfOrg(proposals []models.Proposal) bool {
	for i := range proposals {
		if proposals[i].Accepted() && proposals[i].Miniconf() {
			return true
		}
	}
	return false
}

// IsVolunteer reports whether the person's volunteer offer was accepted.
func IsVolunteer(v *models.Volunteer) bool {
	return v != nil && v.Accepted != nil && *v.Accepted
}

// Paid reports whether every non-void invoice is paid. A person without any
// non-void invoice has not paid.
func Paid(invoices []models.Invoice) bool {
	status := false
	for i := range invoices {
		if invoices[i].IsVoid() {
			continue
		}
		if !invoices[i].Paid() {
			return false
		}
		status = true
	}
	return status
}

// HasPaidTicket reports whether a paid, non-void invoice contains a ticket.
func HasPaidTicket(invoices []models.Invoice) bool {
	for i := range invoices {
		if invoices[i].Paid() && !invoices[i].IsVoid() && invoices[i].HasTicket {
			return true
		}
	}
	return false
}

// ValidInvoice returns the first invoice that is neither void nor manual, or nil.
func ValidInvoice(invoices []models.Invoice) *models.Invoice {
	for i := range invoices {
		if !invoices[i].IsVoid() && !invoices[i].Manual {
			return &invoices[i]
		}
	}
	return nil
}
