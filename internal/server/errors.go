package server

import (
	"errors"
	"fmt"
)

// Error kinds. Handlers map these to HTTP statuses; callers racing each other
// treat Conflict and InvalidPhase as benign losses.
var (
	ErrValidation   = errors.New("validation failed")
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrInvalidPhase = errors.New("invalid phase")
	ErrTimeout      = errors.New("phase timed out")
)

func validationError(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

func notFoundError(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrNotFound, fmt.Sprintf(format, args...))
}

func conflictError(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrConflict, fmt.Sprintf(format, args...))
}

func invalidPhaseError(current, required string) error {
	return fmt.Errorf("%w: room is in %s, action requires %s", ErrInvalidPhase, current, required)
}
