package dispute

import (
	"context"
	"fmt"
	"time"

	"github.com/roundbuy/backend-sub000/internal/domain"
	"github.com/roundbuy/backend-sub000/internal/usecase"
	"github.com/roundbuy/backend-sub000/internal/usecase/escalation"
)

// ApplyOverdue performs whatever the sweeper owes the dispute at now,
// decided again under the row lock. OverdueNone means another writer got
// there first.
func (disputeUc *DefaultDisputeUsecase) ApplyOverdue(ctx context.Context, disputeID string, now time.Time) (domain.OverdueAction, error) {
	const op = "apply_dispute_overdue"
	var (
		dispute *domain.Dispute
		claim   *domain.Claim
		action  domain.OverdueAction
	)
	err := disputeUc.deps.Tx.WithinTx(ctx, func(tx domain.Store) error {
		var err error
		dispute, err = tx.Disputes().GetForUpdate(ctx, disputeID)
		if err != nil {
			return err
		}
		action = dispute.OverdueAction(now)
		switch action {
		case domain.OverdueEscalate:
			claim, err = disputeUc.engine.EscalateDisputeToClaim(ctx, tx, dispute, escalation.ClaimRequest{
				ClaimantID:      dispute.UserID,
				Reason:          "dispute deadline passed without resolution",
				SkipEligibility: true,
			}, now)
			return err
		case domain.OverdueFlagReview:
			if err := dispute.FlagNoSellerResponse(now); err != nil {
				return err
			}
			if err := tx.Disputes().Update(ctx, dispute); err != nil {
				return fmt.Errorf("update dispute: %w", err)
			}
			return tx.Disputes().AddMessage(ctx, statusMessage(dispute.ID,
				"Seller did not answer within the negotiation window, dispute sent for review", now))
		}
		return nil
	})
	if err != nil {
		return domain.OverdueNone, disputeUc.deps.Fail(op, err)
	}

	var outbox usecase.Outbox
	switch action {
	case domain.OverdueEscalate:
		disputeUc.logTransition(op, dispute)
		payload := map[string]string{
			"dispute_code": dispute.Code,
			"claim_code":   claim.Code,
		}
		outbox.Add(dispute.SellerID, domain.EventDisputeEscalated, now, payload)
		outbox.Add(dispute.UserID, domain.EventDisputeEscalated, now, payload)
	case domain.OverdueFlagReview:
		disputeUc.logTransition(op, dispute)
		payload := map[string]string{"dispute_code": dispute.Code}
		outbox.Add(dispute.SellerID, domain.EventDisputeFlagged, now, payload)
		outbox.Add(dispute.UserID, domain.EventDisputeFlagged, now, payload)
	}
	disputeUc.deps.Dispatch(ctx, outbox)
	return action, nil
}
