package postgres

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/lucabarin/turnario/pkg/core/model"
)

// SQLSTATE codes that matter to the engines
const (
	codeUniqueViolation = "23505"
	codeCheckViolation  = "23514"

	codeLockNotAvailable    = "55P03"
	codeSerializationFailed = "40001"
	codeDeadlockDetected    = "40P01"
)

// mapConstraintErr translates constraint violations raised at insert time
// into the matching business outcome. The constraints are the final backstop
// against double booking under concurrent sessions, so the caller must see
// DuplicateBooking or CapacityExceeded, not a generic storage fault.
func mapConstraintErr(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}

	switch pgErr.Code {
	case codeUniqueViolation:
		return model.ErrDuplicateBooking
	case codeCheckViolation:
		return model.ErrCapacityExceeded
	}
	return err
}

// isLockContention reports whether the error is a transient lock-contention
// signal worth retrying. Other failure classes are not retried.
func isLockContention(err error) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}

	switch pgErr.Code {
	case codeLockNotAvailable, codeSerializationFailed, codeDeadlockDetected:
		return true
	}
	return false
}
