package dispute

import (
	"context"
	"fmt"

	"github.com/roundbuy/backend-sub000/internal/domain"
	"github.com/roundbuy/backend-sub000/internal/usecase"
	disputedto "github.com/roundbuy/backend-sub000/internal/usecase/dto/dispute"
)

// SubmitSellerResponse takes the seller's accept or decline. Accepting
// opens negotiation, declining leaves the dispute awaiting the claimant.
// Both start the resolution window.
func (disputeUc *DefaultDisputeUsecase) SubmitSellerResponse(ctx context.Context, input *disputedto.SellerResponseInput) (*domain.Dispute, error) {
	const op = "submit_seller_response"
	now := disputeUc.deps.Now()
	var dispute *domain.Dispute
	err := disputeUc.deps.Tx.WithinTx(ctx, func(tx domain.Store) error {
		var err error
		dispute, err = tx.Disputes().GetForUpdate(ctx, input.DisputeID)
		if err != nil {
			return err
		}
		if err := dispute.RespondAsSeller(input.SellerID, input.Decision, input.Response,
			disputeUc.deps.Policy.ResolutionDeadline(now), now); err != nil {
			return err
		}
		if err := tx.Disputes().Update(ctx, dispute); err != nil {
			return fmt.Errorf("update dispute: %w", err)
		}
		return tx.Disputes().AddMessage(ctx, statusMessage(dispute.ID,
			fmt.Sprintf("Seller answered %s", input.Decision), now))
	})
	if err != nil {
		return nil, disputeUc.deps.Fail(op, err)
	}

	disputeUc.logTransition(op, dispute)
	var outbox usecase.Outbox
	outbox.Add(dispute.UserID, domain.EventDisputeResponded, now, map[string]string{
		"dispute_code": dispute.Code,
		"decision":     string(input.Decision),
	})
	disputeUc.deps.Dispatch(ctx, outbox)
	return dispute, nil
}
