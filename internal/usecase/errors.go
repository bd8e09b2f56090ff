package usecase

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

// Error kinds. The delivery layer maps a kind to an HTTP status with errors.Is.
var (
	ErrValidation   = errors.New("validation failed")
	ErrNotFound     = errors.New("resource not found")
	ErrConflict     = errors.New("conflict")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrTransaction  = errors.New("transaction failed")
)

// kindError is a sentinel that reports its own message and unwraps to its kind
type kindError struct {
	kind error
	msg  string
}

func (e *kindError) Error() string { return e.msg }

func (e *kindError) Unwrap() error { return e.kind }

func newError(kind error, msg string) error {
	return &kindError{kind: kind, msg: msg}
}

// validationError builds a one-off validation failure with a field specific message
func validationError(msg string) error {
	return newError(ErrValidation, msg)
}

var (
	ErrPatientNotFound     = newError(ErrNotFound, "patient not found")
	ErrAppointmentNotFound = newError(ErrNotFound, "appointment not found")
	ErrTransactionNotFound = newError(ErrNotFound, "transaction not found")
	ErrHouseNotFound       = newError(ErrNotFound, "house not found")
	ErrAthleteNotFound     = newError(ErrNotFound, "athlete not found")
	ErrRuleNotFound        = newError(ErrNotFound, "scoring rule not found")
	ErrAuditLogNotFound    = newError(ErrNotFound, "audit log not found")
)

// isDuplicateKeyError checks if the error is a PostgreSQL unique violation
// containing the specified constraint name
func isDuplicateKeyError(err error, constraintName string) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		// PostgreSQL error code 23505 = unique_violation
		if pgErr.Code == "23505" && strings.Contains(strings.ToLower(pgErr.ConstraintName), strings.ToLower(constraintName)) {
			return true
		}
	}
	return false
}
