package claim

import (
	"context"
	"fmt"

	"github.com/roundbuy/backend-sub000/internal/domain"
	"github.com/roundbuy/backend-sub000/internal/usecase"
	claimdto "github.com/roundbuy/backend-sub000/internal/usecase/dto/claim"
)

// SubmitAdminDecision records the binding decision. Payouts are executed
// elsewhere; this only persists the outcome.
func (claimUc *DefaultClaimUsecase) SubmitAdminDecision(ctx context.Context, input *claimdto.AdminDecisionInput) (*domain.Claim, error) {
	const op = "submit_admin_decision"
	now := claimUc.deps.Now()
	var claim *domain.Claim
	err := claimUc.deps.Tx.WithinTx(ctx, func(tx domain.Store) error {
		var err error
		claim, err = tx.Claims().GetForUpdate(ctx, input.ClaimID)
		if err != nil {
			return err
		}
		if err := claim.Decide(input.AdminID, input.Decision, input.Notes, input.Amount, now); err != nil {
			return err
		}
		if err := tx.Claims().Update(ctx, claim); err != nil {
			return fmt.Errorf("update claim: %w", err)
		}
		body := fmt.Sprintf("Admin decision: %s", input.Decision)
		if input.Amount != nil {
			body += fmt.Sprintf(" (%s)", input.Amount.StringFixed(2))
		}
		if err := tx.Claims().AddMessage(ctx, &domain.ClaimMessage{
			ID:          usecase.NewRowID(),
			ClaimID:     claim.ID,
			SenderID:    usecase.StrPtr(input.AdminID),
			MessageType: domain.MessageStatusUpdate,
			Body:        body,
			CreatedAt:   now,
		}); err != nil {
			return fmt.Errorf("decision message: %w", err)
		}
		return settleDispute(ctx, tx, claim, now)
	})
	if err != nil {
		return nil, claimUc.deps.Fail(op, err)
	}
	claimUc.logTransition(op, claim)
	claimUc.notifyParties(ctx, claim, domain.EventClaimResolved, now)
	return claim, nil
}
