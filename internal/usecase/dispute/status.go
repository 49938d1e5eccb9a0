package dispute

import (
	"context"
	"errors"
	"fmt"

	"github.com/roundbuy/backend-sub000/internal/domain"
	disputedto "github.com/roundbuy/backend-sub000/internal/usecase/dto/dispute"
)

// UpdateStatus moves a dispute along the transition table on behalf of a
// party. Resolving and closing go through CreateResolution and
// CloseDispute; escalation goes through the escalation engine.
func (disputeUc *DefaultDisputeUsecase) UpdateStatus(ctx context.Context, input *disputedto.UpdateStatusInput) (*domain.Dispute, error) {
	const op = "update_dispute_status"
	now := disputeUc.deps.Now()
	var dispute *domain.Dispute
	err := disputeUc.deps.Tx.WithinTx(ctx, func(tx domain.Store) error {
		var err error
		dispute, err = lockParty(ctx, tx, input.DisputeID, input.ActingUser)
		if err != nil {
			return err
		}
		switch input.Status {
		case domain.DisputeResolved, domain.DisputeClosed:
			_, err := tx.Disputes().GetResolution(ctx, dispute.ID)
			if errors.Is(err, domain.ErrNotFound) {
				return fmt.Errorf("%w: dispute %s has no resolution", domain.ErrResolutionRequired, dispute.Code)
			}
			if err != nil {
				return err
			}
		case domain.DisputeEscalated:
			return fmt.Errorf("%w: dispute %s escalates through a claim request", domain.ErrInvalidTransition, dispute.Code)
		}
		from := dispute.Status
		if err := dispute.TransitionTo(input.Status, now); err != nil {
			return err
		}
		if err := tx.Disputes().Update(ctx, dispute); err != nil {
			return fmt.Errorf("update dispute: %w", err)
		}
		return tx.Disputes().AddMessage(ctx, statusMessage(dispute.ID,
			fmt.Sprintf("Status changed from %s to %s", from, dispute.Status), now))
	})
	if err != nil {
		return nil, disputeUc.deps.Fail(op, err)
	}
	disputeUc.logTransition(op, dispute)
	return dispute, nil
}
