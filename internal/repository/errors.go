package repository

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// Storage-layer sentinel errors shared across repositories.
var (
	// ErrRowNotFound means a mutation matched no live row.
	ErrRowNotFound = errors.New("row not found")
	// ErrDuplicateToken means the attempt token already has a graded row.
	// Raised by the unique constraint, never by a read-then-write check.
	ErrDuplicateToken = errors.New("attempt token already graded")
)

// PostgreSQL error codes used for classification.
const (
	pgUniqueViolation = "23505"
	pgUndefinedTable  = "42P01"
)

// isUniqueViolation reports whether err is a unique-constraint violation.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation
}

// IsUndefinedTable reports whether err means a relation does not exist —
// the sync precondition failure (schema not migrated).
func IsUndefinedTable(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUndefinedTable
}
