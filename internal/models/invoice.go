package models

// ProductCategoryTicket is the category name of conference tickets.
const ProductCategoryTicket = "Ticket"

// Invoice is the summary of an invoice as seen by the person model.
// Amounts are in cents.
type Invoice struct {
	ID         int     `json:"id"`
	PersonID   int     `json:"person_id"`
	Manual     bool    `json:"manual"`
	Void       *string `json:"void,omitempty"`
	TotalCents int     `json:"total"`
	AmountPaid int     `json:"amount_paid"`
	HasTicket  bool    `json:"has_ticket"`
}

// IsVoid reports whether the invoice was voided (carries a void reason).
func (i *Invoice) IsVoid() bool {
	return i.Void != nil
}

// Paid reports whether the amount paid covers the invoice total.
func (i *Invoice) Paid() bool {
	return i.TotalCents <= i.AmountPaid
}
