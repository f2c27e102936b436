package people

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/zookeepr/backend/internal/models"
	"github.com/zookeepr/backend/pkg/database"
	"github.com/zookeepr/backend/pkg/dberr"
)

const selectPerson = `SELECT id, email_address, password_hash, _creation_timestamp, url_hash, activated,
	firstname, lastname, address1, address2, city, state, postcode, country, company, phone, mobile,
	url, experience, bio, badge_printed
	FROM person`

// Repository handles person persistence.
type Repository struct {
	db database.DBTX
}

// NewRepository creates a people repository.
func NewRepository(db database.DBTX) *Repository {
	return &Repository{db: db}
}

func scanPerson(row pgx.Row, p *models.Person) error {
	return row.Scan(&p.ID, &p.EmailAddress, &p.PasswordHash, &p.CreationTimestamp, &p.URLHash, &p.Activated,
		&p.Firstname, &p.Lastname, &p.Address1, &p.Address2, &p.City, &p.State, &p.Postcode, &p.Country,
		&p.Company, &p.Phone, &p.Mobile, &p.URL, &p.Experience, &p.Bio, &p.BadgePrinted)
}

func (r *Repository) get(ctx context.Context, what string, q string, arg any) (*models.Person, error) {
	var p models.Person
	if err := scanPerson(r.db.QueryRow(ctx, q, arg), &p); err != nil {
		return nil, fmt.Errorf("get person by %s: %w", what, dberr.Classify(err))
	}
	return &p, nil
}

// GetByEmail returns the person with the given email, compared
// case-insensitively, or dberr.ErrNotFound.
func (r *Repository) GetByEmail(ctx context.Context, email string) (*models.Person, error) {
	return r.get(ctx, "email", selectPerson+` WHERE lower(email_address) = $1`, NormalizeEmail(email))
}

// FindByEmail is GetByEmail returning nil when there is no such person.
func (r *Repository) FindByEmail(ctx context.Context, email string) (*models.Person, error) {
	return dberr.Optional(r.GetByEmail(ctx, email))
}

// GetByID returns a person by ID or dberr.ErrNotFound.
func (r *Repository) GetByID(ctx context.Context, id int) (*models.Person, error) {
	return r.get(ctx, "id", selectPerson+` WHERE id = $1`, id)
}

// FindByID is GetByID returning nil when there is no such person.
func (r *Repository) FindByID(ctx context.Context, id int) (*models.Person, error) {
	return dberr.Optional(r.GetByID(ctx, id))
}

// GetByURLHash returns the first person carrying urlHash or dberr.ErrNotFound.
func (r *Repository) GetByURLHash(ctx context.Context, urlHash string) (*models.Person, error) {
	return r.get(ctx, "url hash", selectPerson+` WHERE url_hash = $1 ORDER BY id LIMIT 1`, urlHash)
}

// FindByURLHash is GetByURLHash returning nil when there is no such person.
func (r *Repository) FindByURLHash(ctx context.Context, urlHash string) (*models.Person, error) {
	return dberr.Optional(r.GetByURLHash(ctx, urlHash))
}

// FindAll returns every person ordered by id.
func (r *Repository) FindAll(ctx context.Context) ([]models.Person, error) {
	rows, err := r.db.Query(ctx, selectPerson+` ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []models.Person
	for rows.Next() {
		var p models.Person
		if err := scanPerson(rows, &p); err != nil {
			return nil, err
		}
		list = append(list, p)
	}
	return list, rows.Err()
}

// Create inserts a person and sets its ID.
func (r *Repository) Create(ctx context.Context, p *models.Person) error {
	const q = `INSERT INTO person (email_address, password_hash, _creation_timestamp, url_hash, activated,
		firstname, lastname, address1, address2, city, state, postcode, country, company, phone, mobile,
		url, experience, bio, badge_printed)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20)
		RETURNING id`
	err := r.db.QueryRow(ctx, q, p.EmailAddress, p.PasswordHash, p.CreationTimestamp, p.URLHash, p.Activated,
		p.Firstname, p.Lastname, p.Address1, p.Address2, p.City, p.State, p.Postcode, p.Country, p.Company,
		p.Phone, p.Mobile, p.URL, p.Experience, p.Bio, p.BadgePrinted).Scan(&p.ID)
	if err != nil {
		return fmt.Errorf("create person: %w", dberr.Classify(err))
	}
	return nil
}

// Update writes every column of p.
func (r *Repository) Update(ctx context.Context, p *models.Person) error {
	const q = `UPDATE person SET email_address = $2, password_hash = $3, _creation_timestamp = $4, url_hash = $5,
		activated = $6, firstname = $7, lastname = $8, address1 = $9, address2 = $10, city = $11, state = $12,
		postcode = $13, country = $14, company = $15, phone = $16, mobile = $17, url = $18, experience = $19,
		bio = $20, badge_printed = $21
		WHERE id = $1`
	tag, err := r.db.Exec(ctx, q, p.ID, p.EmailAddress, p.PasswordHash, p.CreationTimestamp, p.URLHash, p.Activated,
		p.Firstname, p.Lastname, p.Address1, p.Address2, p.City, p.State, p.Postcode, p.Country, p.Company,
		p.Phone, p.Mobile, p.URL, p.Experience, p.Bio, p.BadgePrinted)
	if err != nil {
		return fmt.Errorf("update person %d: %w", p.ID, dberr.Classify(err))
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("update person %d: %w", p.ID, dberr.ErrNotFound)
	}
	return nil
}

// AddRole grants a role. Granting it twice is a no-op.
func (r *Repository) AddRole(ctx context.Context, personID, roleID int) error {
	const q = `INSERT INTO person_role_map (person_id, role_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`
	if _, err := r.db.Exec(ctx, q, personID, roleID); err != nil {
		return fmt.Errorf("add role: %w", dberr.Classify(err))
	}
	return nil
}

// RemoveRole revokes a role.
func (r *Repository) RemoveRole(ctx context.Context, personID, roleID int) error {
	const q = `DELETE FROM person_role_map WHERE person_id = $1 AND role_id = $2`
	if _, err := r.db.Exec(ctx, q, personID, roleID); err != nil {
		return fmt.Errorf("remove role: %w", err)
	}
	return nil
}

// ListRoles returns the names of the person's roles in name order.
func (r *Repository) ListRoles(ctx context.Context, personID int) ([]string, error) {
	const q = `SELECT r.name FROM role r JOIN person_role_map m ON m.role_id = r.id WHERE m.person_id = $1 ORDER BY r.name`
	rows, err := r.db.Query(ctx, q, personID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}
