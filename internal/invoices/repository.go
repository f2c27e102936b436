// Package invoices is a read-only view of the invoicing tables, summarising
// each invoice the way account status checks need it.
package invoices

import (
	"context"
	"fmt"

	"github.com/zookeepr/backend/internal/models"
	"github.com/zookeepr/backend/pkg/database"
)

// Repository reads invoice summaries.
type Repository struct {
	db database.DBTX
}

// NewRepository creates an invoices repository.
func NewRepository(db database.DBTX) *Repository {
	return &Repository{db: db}
}

// ListByPerson returns the person's invoices in creation order with their
// totals and whether they include a ticket.
func (r *Repository) ListByPerson(ctx context.Context, personID int) ([]models.Invoice, error) {
	const q = `SELECT i.id, i.person_id, i.manual, i.void,
		COALESCE(SUM(ii.qty * ii.cost), 0)::int AS total,
		i.amount_paid,
		COALESCE(BOOL_OR(pc.name = $2), false) AS has_ticket
		FROM invoice i
		LEFT JOIN invoice_item ii ON ii.invoice_id = i.id
		LEFT JOIN product pr ON pr.id = ii.product_id
		LEFT JOIN product_category pc ON pc.id = pr.category_id
		WHERE i.person_id = $1
		GROUP BY i.id
		ORDER BY i.id`
	rows, err := r.db.Query(ctx, q, personID, models.ProductCategoryTicket)
	if err != nil {
		return nil, fmt.Errorf("list invoices: %w", err)
	}
	defer rows.Close()
	var list []models.Invoice
	for rows.Next() {
		var inv models.Invoice
		if err := rows.Scan(&inv.ID, &inv.PersonID, &inv.Manual, &inv.Void, &inv.TotalCents, &inv.AmountPaid, &inv.HasTicket); err != nil {
			return nil, err
		}
		list = append(list, inv)
	}
	return list, rows.Err()
}
