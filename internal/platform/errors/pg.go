package errors

import (
	"context"
	stderrs "errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

// SQLSTATE codes the repositories react to
const (
	sqlUniqueViolation     = "23505"
	sqlForeignKeyViolation = "23503"
	sqlNotNullViolation    = "23502"
	sqlCheckViolation      = "23514"
	sqlBadText             = "22P02"
	sqlSerialization       = "40001"
	sqlDeadlock            = "40P01"
	sqlLockNotAvailable    = "55P03"
	sqlReadOnly            = "25006"
	sqlCannotConnectNow    = "57P03"
)

func pgError(err error) (*pgconn.PgError, bool) {
	var pg *pgconn.PgError
	ok := stderrs.As(err, &pg)
	return pg, ok
}

func hasState(err error, state string) bool {
	pg, ok := pgError(err)
	return ok && pg.Code == state
}

// IsDuplicateKey reports a unique constraint violation
func IsDuplicateKey(err error) bool { return hasState(err, sqlUniqueViolation) }

// IsForeignKeyViolation reports a reference to a missing row
func IsForeignKeyViolation(err error) bool { return hasState(err, sqlForeignKeyViolation) }

// FromPostgres wraps a pgx error with the code its SQLSTATE maps to
// the offending column, when postgres names one, becomes the field
func FromPostgres(err error, msg string) error {
	if err == nil {
		return nil
	}
	pg, ok := pgError(err)
	if !ok {
		return Wrap(err, ErrorCodeDB, msg)
	}
	code := ErrorCodeDB
	switch pg.Code {
	case sqlUniqueViolation:
		code = ErrorCodeDuplicateKey
	case sqlForeignKeyViolation, sqlBadText:
		code = ErrorCodeInvalidArgument
	case sqlNotNullViolation, sqlCheckViolation:
		code = ErrorCodeValidation
	case sqlReadOnly, sqlCannotConnectNow:
		code = ErrorCodeUnavailable
	}
	out := Wrap(err, code, msg)
	if col := strings.TrimSpace(pg.ColumnName); col != "" {
		out = WithField(out, col)
	}
	return out
}

// Retryable reports contention a fresh transaction may get past
// local cancellation is never retryable
func Retryable(err error) bool {
	if err == nil || stderrs.Is(err, context.Canceled) || stderrs.Is(err, context.DeadlineExceeded) {
		return false
	}
	if pg, ok := pgError(err); ok {
		switch pg.Code {
		case sqlSerialization, sqlDeadlock, sqlLockNotAvailable:
			return true
		}
		return false
	}
	s := strings.ToLower(Root(err).Error())
	for _, frag := range []string{
		"commit unexpectedly resulted in rollback",
		"deadlock detected",
		"could not serialize access",
	} {
		if strings.Contains(s, frag) {
			return true
		}
	}
	return false
}
