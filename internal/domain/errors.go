package domain

import (
	"errors"
	"fmt"
)

var (
	ErrValidation        = errors.New("validation failed")
	ErrNotAuthorized     = errors.New("not authorized")
	ErrInvalidTransition = errors.New("invalid transition")
	ErrAlreadyEscalated  = errors.New("already escalated")
	ErrAlreadyAssigned   = errors.New("already assigned")
	ErrNotFound          = errors.New("not found")
	ErrStorage           = errors.New("storage failure")
)

// Refinements. errors.Is matches both the refinement and its base.
var (
	ErrDeadlineExpired    = fmt.Errorf("%w: deadline expired", ErrInvalidTransition)
	ErrNotEligible        = fmt.Errorf("%w: eligibility check failed", ErrInvalidTransition)
	ErrResolutionRequired = fmt.Errorf("%w: resolution required", ErrInvalidTransition)
	ErrPhaseRegression    = fmt.Errorf("%w: phase cannot regress", ErrInvalidTransition)
	ErrWrongParty         = fmt.Errorf("%w: wrong party", ErrNotAuthorized)
	ErrNotAssignedAdmin   = fmt.Errorf("%w: not the assigned admin", ErrNotAuthorized)
	ErrInvalidDecision    = fmt.Errorf("%w: invalid decision", ErrValidation)
)

// StorageError wraps a failure of the persistence layer. Retryable marks
// serialization failures, deadlocks, lock timeouts and code collisions,
// which the transactor retries as a whole.
type StorageError struct {
	Op        string
	Retryable bool
	Err       error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage: %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

func (e *StorageError) Is(target error) bool { return target == ErrStorage }

func IsRetryable(err error) bool {
	var se *StorageError
	return errors.As(err, &se) && se.Retryable
}

var businessErrors = []error{
	ErrValidation, ErrNotAuthorized, ErrInvalidTransition,
	ErrAlreadyEscalated, ErrAlreadyAssigned, ErrNotFound,
}

// IsBusiness reports errors produced by domain rules rather than storage.
func IsBusiness(err error) bool {
	for _, target := range businessErrors {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// Kind names the error family for logs and metrics labels.
func Kind(err error) string {
	switch {
	case err == nil:
		return "none"
	case errors.Is(err, ErrValidation):
		return "validation"
	case errors.Is(err, ErrNotAuthorized):
		return "not_authorized"
	case errors.Is(err, ErrInvalidTransition):
		return "invalid_transition"
	case errors.Is(err, ErrAlreadyEscalated):
		return "already_escalated"
	case errors.Is(err, ErrAlreadyAssigned):
		return "already_assigned"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrStorage):
		return "storage"
	}
	return "internal"
}
