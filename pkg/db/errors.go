package db

import (
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// PostgreSQL SQLSTATE codes the repositories care about.
const (
	codeForeignKeyViolation = "23503"
	codeUniqueViolation     = "23505"
)

// ErrorKind is a coarse classification of a driver error.
type ErrorKind string

const (
	KindNone       ErrorKind = ""
	KindNoRows     ErrorKind = "no_rows"
	KindForeignKey ErrorKind = "foreign_key_violation"
	KindUnique     ErrorKind = "unique_violation"
	KindOther      ErrorKind = "other"
)

// Classify maps a pgx error to an ErrorKind.
func Classify(err error) ErrorKind {
	if err == nil {
		return KindNone
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return KindNoRows
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case codeForeignKeyViolation:
			return KindForeignKey
		case codeUniqueViolation:
			return KindUnique
		}
	}
	return KindOther
}

// IsNoRows reports whether err is pgx.ErrNoRows.
func IsNoRows(err error) bool {
	return Classify(err) == KindNoRows
}

// IsForeignKeyViolation reports whether err is a foreign-key violation.
func IsForeignKeyViolation(err error) bool {
	return Classify(err) == KindForeignKey
}

// IsUniqueViolation reports whether err is a unique-constraint violation.
func IsUniqueViolation(err error) bool {
	return Classify(err) == KindUnique
}
