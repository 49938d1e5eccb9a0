package claim

import (
	"context"
	"fmt"
	"time"

	"github.com/roundbuy/backend-sub000/internal/domain"
)

// ApplyOverdue expires an unassigned claim past its deadline and raises an
// assigned one to urgent. The decision is taken again under the lock.
func (claimUc *DefaultClaimUsecase) ApplyOverdue(ctx context.Context, claimID string, now time.Time) (domain.OverdueAction, error) {
	const op = "apply_claim_overdue"
	var (
		claim  *domain.Claim
		action domain.OverdueAction
	)
	err := claimUc.deps.Tx.WithinTx(ctx, func(tx domain.Store) error {
		var err error
		claim, err = tx.Claims().GetForUpdate(ctx, claimID)
		if err != nil {
			return err
		}
		action = claim.OverdueAction(now)
		switch action {
		case domain.OverdueExpire:
			if err := claim.Expire(now); err != nil {
				return err
			}
			if err := tx.Claims().Update(ctx, claim); err != nil {
				return fmt.Errorf("update claim: %w", err)
			}
			if err := tx.Claims().AddMessage(ctx, systemMessage(claim.ID, "Claim expired before an admin took it", now)); err != nil {
				return fmt.Errorf("claim message: %w", err)
			}
			return settleDispute(ctx, tx, claim, now)
		case domain.OverdueMarkUrgent:
			if err := claim.MarkUrgent(now); err != nil {
				return err
			}
			if err := tx.Claims().Update(ctx, claim); err != nil {
				return fmt.Errorf("update claim: %w", err)
			}
			return tx.Claims().AddMessage(ctx, systemMessage(claim.ID, "Claim deadline passed, priority raised to urgent", now))
		}
		return nil
	})
	if err != nil {
		return domain.OverdueNone, claimUc.deps.Fail(op, err)
	}
	switch action {
	case domain.OverdueExpire:
		claimUc.logTransition(op, claim)
		claimUc.notifyParties(ctx, claim, domain.EventClaimExpired, now)
	case domain.OverdueMarkUrgent:
		claimUc.logTransition(op, claim)
	}
	return action, nil
}
