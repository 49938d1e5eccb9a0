package domain_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/roundbuy/backend-sub000/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestErrorRefinements(t *testing.T) {
	assert.ErrorIs(t, domain.ErrDeadlineExpired, domain.ErrInvalidTransition)
	assert.ErrorIs(t, domain.ErrNotEligible, domain.ErrInvalidTransition)
	assert.ErrorIs(t, domain.ErrPhaseRegression, domain.ErrInvalidTransition)
	assert.ErrorIs(t, domain.ErrWrongParty, domain.ErrNotAuthorized)
	assert.ErrorIs(t, domain.ErrNotAssignedAdmin, domain.ErrNotAuthorized)
	assert.ErrorIs(t, domain.ErrInvalidDecision, domain.ErrValidation)
}

func TestStorageError(t *testing.T) {
	cause := errors.New("deadlock detected")
	err := fmt.Errorf("update dispute: %w", &domain.StorageError{Op: "update", Retryable: true, Err: cause})

	assert.ErrorIs(t, err, domain.ErrStorage)
	assert.ErrorIs(t, err, cause)
	assert.True(t, domain.IsRetryable(err))
	assert.False(t, domain.IsBusiness(err))
	assert.Equal(t, "storage", domain.Kind(err))

	plain := &domain.StorageError{Op: "insert", Err: cause}
	assert.False(t, domain.IsRetryable(plain))
}

func TestKind(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{nil, "none"},
		{fmt.Errorf("x: %w", domain.ErrInvalidDecision), "validation"},
		{domain.ErrWrongParty, "not_authorized"},
		{domain.ErrResolutionRequired, "invalid_transition"},
		{domain.ErrAlreadyEscalated, "already_escalated"},
		{domain.ErrAlreadyAssigned, "already_assigned"},
		{domain.ErrNotFound, "not_found"},
		{errors.New("boom"), "internal"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, domain.Kind(tt.err))
	}
	assert.True(t, domain.IsBusiness(domain.ErrNotEligible))
}
