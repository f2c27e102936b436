package registrations

import (
	"context"
	"fmt"

	"github.com/zookeepr/backend/internal/models"
	"github.com/zookeepr/backend/pkg/dberr"
)

// CreateNote records an organiser's note against a registration.
func (r *Repository) CreateNote(ctx context.Context, n *models.RegoNote) error {
	const q = `INSERT INTO rego_note (rego_id, note, by_id) VALUES ($1, $2, $3)
		RETURNING id, creation_timestamp, last_modification_timestamp`
	err := r.db.QueryRow(ctx, q, n.RegoID, n.Note, n.ByID).Scan(&n.ID, &n.CreationTimestamp, &n.LastModificationTimestamp)
	if err != nil {
		return fmt.Errorf("create rego note: %w", dberr.Classify(err))
	}
	return nil
}

// ListNotes returns the notes of a registration, oldest first.
func (r *Repository) ListNotes(ctx context.Context, regoID int) ([]models.RegoNote, error) {
	const q = `SELECT id, rego_id, note, by_id, creation_timestamp, last_modification_timestamp
		FROM rego_note WHERE rego_id = $1 ORDER BY creation_timestamp, id`
	rows, err := r.db.Query(ctx, q, regoID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []models.RegoNote
	for rows.Next() {
		var n models.RegoNote
		if err := rows.Scan(&n.ID, &n.RegoID, &n.Note, &n.ByID, &n.CreationTimestamp, &n.LastModificationTimestamp); err != nil {
			return nil, err
		}
		list = append(list, n)
	}
	return list, rows.Err()
}

// UpdateNote replaces the text of a note.
func (r *Repository) UpdateNote(ctx context.Context, id int, note string) error {
	const q = `UPDATE rego_note SET note = $2, last_modification_timestamp = CURRENT_TIMESTAMP WHERE id = $1`
	tag, err := r.db.Exec(ctx, q, id, note)
	if err != nil {
		return fmt.Errorf("update rego note %d: %w", id, dberr.Classify(err))
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("update rego note %d: %w", id, dberr.ErrNotFound)
	}
	return nil
}
