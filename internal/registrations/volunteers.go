package registrations

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/zookeepr/backend/internal/models"
	"github.com/zookeepr/backend/pkg/dberr"
)

// EncodeAreas stores volunteer areas as a comma separated list.
func EncodeAreas(areas []string) string {
	clean := make([]string, 0, len(areas))
	for _, a := range areas {
		if a = strings.TrimSpace(a); a != "" {
			clean = append(clean, a)
		}
	}
	return strings.Join(clean, ",")
}

// DecodeAreas splits a stored comma list. Empty input gives an empty list.
func DecodeAreas(s string) []string {
	areas := []string{}
	for _, a := range strings.Split(s, ",") {
		if a = strings.TrimSpace(a); a != "" {
			areas = append(areas, a)
		}
	}
	return areas
}

const selectVolunteer = `SELECT id, person_id, areas, other, accepted, creation_timestamp, last_modification_timestamp FROM volunteer`

func scanVolunteer(row pgx.Row, v *models.Volunteer) error {
	var areas string
	if err := row.Scan(&v.ID, &v.PersonID, &areas, &v.Other, &v.Accepted, &v.CreationTimestamp, &v.LastModificationTimestamp); err != nil {
		return err
	}
	v.Areas = DecodeAreas(areas)
	return nil
}

// CreateVolunteer records a person's offer to volunteer. A person volunteers once.
func (r *Repository) CreateVolunteer(ctx context.Context, v *models.Volunteer) error {
	const q = `INSERT INTO volunteer (person_id, areas, other, accepted) VALUES ($1, $2, $3, $4)
		RETURNING id, creation_timestamp, last_modification_timestamp`
	err := r.db.QueryRow(ctx, q, v.PersonID, EncodeAreas(v.Areas), v.Other, v.Accepted).
		Scan(&v.ID, &v.CreationTimestamp, &v.LastModificationTimestamp)
	if err != nil {
		return fmt.Errorf("create volunteer: %w", dberr.Classify(err))
	}
	return nil
}

// FindVolunteerByPersonID returns the person's volunteer record, or nil.
func (r *Repository) FindVolunteerByPersonID(ctx context.Context, personID int) (*models.Volunteer, error) {
	var v models.Volunteer
	err := scanVolunteer(r.db.QueryRow(ctx, selectVolunteer+` WHERE person_id = $1`, personID), &v)
	found, err := dberr.Optional(&v, dberr.Classify(err))
	if err != nil {
		return nil, fmt.Errorf("find volunteer: %w", err)
	}
	return found, nil
}

// SetVolunteerAccepted records the organisers' decision; nil resets it to undecided.
func (r *Repository) SetVolunteerAccepted(ctx context.Context, id int, accepted *bool) error {
	const q = `UPDATE volunteer SET accepted = $2, last_modification_timestamp = CURRENT_TIMESTAMP WHERE id = $1`
	tag, err := r.db.Exec(ctx, q, id, accepted)
	if err != nil {
		return fmt.Errorf("set volunteer accepted: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("set volunteer accepted %d: %w", id, dberr.ErrNotFound)
	}
	return nil
}

// FindAllVolunteers returns every volunteer ordered by id.
func (r *Repository) FindAllVolunteers(ctx context.Context) ([]models.Volunteer, error) {
	rows, err := r.db.Query(ctx, selectVolunteer+` ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []models.Volunteer
	for rows.Next() {
		var v models.Volunteer
		if err := scanVolunteer(rows, &v); err != nil {
			return nil, err
		}
		list = append(list, v)
	}
	return list, rows.Err()
}
