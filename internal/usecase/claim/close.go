package claim

import (
	"context"
	"fmt"

	"github.com/roundbuy/backend-sub000/internal/domain"
	claimdto "github.com/roundbuy/backend-sub000/internal/usecase/dto/claim"
)

func (claimUc *DefaultClaimUsecase) CloseClaim(ctx context.Context, input *claimdto.CloseClaimInput) (*domain.Claim, error) {
	const op = "close_claim"
	now := claimUc.deps.Now()
	var claim *domain.Claim
	err := claimUc.deps.Tx.WithinTx(ctx, func(tx domain.Store) error {
		var err error
		claim, err = tx.Claims().GetForUpdate(ctx, input.ClaimID)
		if err != nil {
			return err
		}
		if err := claim.Close(input.ActingUser, now); err != nil {
			return err
		}
		if err := tx.Claims().Update(ctx, claim); err != nil {
			return fmt.Errorf("update claim: %w", err)
		}
		if err := tx.Claims().AddMessage(ctx, systemMessage(claim.ID, "Claim closed", now)); err != nil {
			return fmt.Errorf("claim message: %w", err)
		}
		return settleDispute(ctx, tx, claim, now)
	})
	if err != nil {
		return nil, claimUc.deps.Fail(op, err)
	}
	claimUc.logTransition(op, claim)
	claimUc.notifyParties(ctx, claim, domain.EventClaimClosed, now)
	return claim, nil
}
