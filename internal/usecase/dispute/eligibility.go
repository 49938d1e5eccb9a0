package dispute

import (
	"context"
	"fmt"
	"strings"

	"github.com/roundbuy/backend-sub000/internal/domain"
	"github.com/roundbuy/backend-sub000/internal/usecase"
	disputedto "github.com/roundbuy/backend-sub000/internal/usecase/dto/dispute"
)

// RecordEligibilityChecks bulk-inserts predicate results. They are
// append-only; escalation looks at the latest result per name.
func (disputeUc *DefaultDisputeUsecase) RecordEligibilityChecks(ctx context.Context, input *disputedto.RecordEligibilityChecksInput) ([]*domain.EligibilityCheck, error) {
	const op = "record_eligibility_checks"
	if len(input.Checks) == 0 {
		return nil, disputeUc.deps.Fail(op, fmt.Errorf("%w: no checks given", domain.ErrValidation))
	}
	now := disputeUc.deps.Now()
	checks := make([]*domain.EligibilityCheck, 0, len(input.Checks))
	for _, c := range input.Checks {
		if strings.TrimSpace(c.Name) == "" {
			return nil, disputeUc.deps.Fail(op, fmt.Errorf("%w: check name is required", domain.ErrValidation))
		}
		checks = append(checks, &domain.EligibilityCheck{
			ID:        usecase.NewRowID(),
			DisputeID: input.DisputeID,
			CheckName: c.Name,
			Passed:    c.Passed,
			Reason:    c.Reason,
			CheckedAt: now,
		})
	}
	err := disputeUc.deps.Tx.WithinTx(ctx, func(tx domain.Store) error {
		if _, err := tx.Disputes().GetForUpdate(ctx, input.DisputeID); err != nil {
			return err
		}
		return tx.Disputes().AddEligibilityChecks(ctx, checks)
	})
	if err != nil {
		return nil, disputeUc.deps.Fail(op, err)
	}
	return checks, nil
}

func (disputeUc *DefaultDisputeUsecase) ListEligibilityChecks(ctx context.Context, disputeID string) ([]*domain.EligibilityCheck, error) {
	var checks []*domain.EligibilityCheck
	err := disputeUc.deps.Tx.View(ctx, func(s domain.Store) error {
		if _, err := s.Disputes().GetByID(ctx, disputeID); err != nil {
			return err
		}
		var err error
		checks, err = s.Disputes().ListEligibilityChecks(ctx, disputeID)
		return err
	})
	return checks, err
}
