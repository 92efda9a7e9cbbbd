package relief

import (
	"database/sql"
	"errors"
	"fmt"

	"reliefCoordination/repository"
)

// Failure classes returned by Service. Callers test them with errors.Is.
var (
	ErrUnauthorized     = errors.New("unauthorized")
	ErrNotFound         = errors.New("not found")
	ErrConflict         = errors.New("conflict")
	ErrCapacityExceeded = errors.New("capacity exceeded")
	ErrValidation       = errors.New("validation failed")
	// ErrOutOfRange refines ErrValidation: completion refused by the proximity gate.
	ErrOutOfRange = errors.New("rescuer out of range")
)

// ValidationError describes malformed input. It matches ErrValidation and,
// when set, Err.
type ValidationError struct {
	Field  string
	Reason string
	Err    error
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return "validation failed: " + e.Reason
	}
	return fmt.Sprintf("validation failed: %s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrValidation}
	}
	return []error{ErrValidation, e.Err}
}

func invalid(field, format string, args ...any) error {
	return &ValidationError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

func notFound(what string, id int64) error {
	return fmt.Errorf("%w: %s %d", ErrNotFound, what, id)
}

// storeErr classifies persistence errors that carry domain meaning.
func storeErr(op string, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, sql.ErrNoRows):
		return fmt.Errorf("%w: %s", ErrNotFound, op)
	case errors.Is(err, repository.ErrTargetTaken), repository.IsUniqueViolation(err):
		return fmt.Errorf("%w: %s: %v", ErrConflict, op, err)
	case repository.IsForeignKeyViolation(err):
		return fmt.Errorf("%w: %s references a missing row", ErrNotFound, op)
	}
	return fmt.Errorf("%s: %w", op, err)
}
