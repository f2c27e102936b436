// Package dberr classifies PostgreSQL driver errors.
//
// Repositories pass every failed call through Classify so callers can tell a
// missing row (ErrNotFound) from a constraint violation (*ConstraintError)
// without inspecting SQLSTATE codes themselves.
package dberr

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// ErrNotFound is the "not found" signal of Get* finders. The web layer maps it to 404.
var ErrNotFound = errors.New("not found")

// Kind is the category of a constraint violation.
type Kind int

const (
	Other Kind = iota
	UniqueViolation
	ForeignKeyViolation
	NotNullViolation
	CheckViolation
	StringTooLong
)

// SQLSTATE codes, see https://www.postgresql.org/docs/current/errcodes-appendix.html
const (
	codeUniqueViolation     = "23505"
	codeForeignKeyViolation = "23503"
	codeNotNullViolation    = "23502"
	codeCheckViolation      = "23514"
	codeStringTooLong       = "22001"
)

func (k Kind) String() string {
	switch k {
	case UniqueViolation:
		return "unique violation"
	case ForeignKeyViolation:
		return "foreign key violation"
	case NotNullViolation:
		return "not null violation"
	case CheckViolation:
		return "check violation"
	case StringTooLong:
		return "value too long"
	default:
		return "database error"
	}
}

// ConstraintError is a violation of a schema invariant raised by the store.
type ConstraintError struct {
	Kind       Kind
	Table      string
	Column     string
	Constraint string
	err        *pgconn.PgError
}

func (e *ConstraintError) Error() string {
	switch {
	case e.Constraint != "":
		return fmt.Sprintf("%s on %s (%s)", e.Kind, e.Table, e.Constraint)
	case e.Column != "":
		return fmt.Sprintf("%s on %s.%s", e.Kind, e.Table, e.Column)
	default:
		return fmt.Sprintf("%s: %s", e.Kind, e.err.Message)
	}
}

func (e *ConstraintError) Unwrap() error { return e.err }

// MapCode maps a SQLSTATE to a Kind.
func MapCode(code string) Kind {
	switch code {
	case codeUniqueViolation:
		return UniqueViolation
	case codeForeignKeyViolation:
		return ForeignKeyViolation
	case codeNotNullViolation:
		return NotNullViolation
	case codeCheckViolation:
		return CheckViolation
	case codeStringTooLong:
		return StringTooLong
	default:
		return Other
	}
}

// Classify converts driver errors into ErrNotFound or *ConstraintError.
// Anything else is returned unchanged.
func Classify(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) || errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		kind := MapCode(pgErr.Code)
		if kind == Other {
			return err
		}
		return &ConstraintError{
			Kind:       kind,
			Table:      pgErr.TableName,
			Column:     pgErr.ColumnName,
			Constraint: pgErr.ConstraintName,
			err:        pgErr,
		}
	}
	return err
}

// KindOf reports the violation kind carried by err, or Other.
func KindOf(err error) Kind {
	var cerr *ConstraintError
	if errors.As(err, &cerr) {
		return cerr.Kind
	}
	return Other
}

// IsNotFound reports whether err carries ErrNotFound.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// Optional turns the "not found" signal into a nil result. Find* finders use
// it on top of their Get* counterparts.
func Optional[T any](v *T, err error) (*T, error) {
	if errors.Is(err, ErrNotFound) {
		return nil, nil
	}
	return v, err
}
