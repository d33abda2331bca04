package dberrors

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// PostgreSQL SQLSTATE codes the catalog cares about.
const (
	CodeForeignKeyViolation = "23503"
	CodeCheckViolation      = "23514"
	CodeInvalidTextRepr     = "22P02"
)

func code(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

// IsForeignKeyViolation reports whether err is a foreign key violation, raised both
// when inserting a row that points at a missing parent and when deleting a parent
// that still has RESTRICT children.
func IsForeignKeyViolation(err error) bool {
	return code(err) == CodeForeignKeyViolation
}

// IsCheckViolation reports whether err is a CHECK constraint violation.
func IsCheckViolation(err error) bool {
	return code(err) == CodeCheckViolation
}

// IsInvalidInput reports whether the server rejected a literal, e.g. a malformed uuid.
func IsInvalidInput(err error) bool {
	return code(err) == CodeInvalidTextRepr
}
