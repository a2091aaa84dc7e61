package service

import (
	"errors"
	"fmt"

	"farmtap-backend/internal/repository"
)

var (
	ErrUnauthenticated    = errors.New("authentication required")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrForbidden          = errors.New("forbidden")
	ErrNotFound           = errors.New("not found")
	ErrConflict           = errors.New("conflict")
	ErrInvalidRange       = errors.New("end date must be on or after start date")
	ErrValidation         = errors.New("validation failed")
)

// fromRepo translates repository errors into service errors, naming the
// entity involved.
func fromRepo(err error, entity string, id any) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repository.ErrNotFound):
		return fmt.Errorf("%w: %s %v", ErrNotFound, entity, id)
	case errors.Is(err, repository.ErrDuplicate):
		return fmt.Errorf("%w: %s already exists", ErrConflict, entity)
	}
	return err
}

func validationError(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

// IsExpected reports whether err is one of the business errors above.
func IsExpected(err error) bool {
	for _, target := range []error{ErrUnauthenticated, ErrInvalidCredentials, ErrForbidden,
		ErrNotFound, ErrConflict, ErrInvalidRange, ErrValidation} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
