package claim

import (
	"context"
	"fmt"

	"github.com/roundbuy/backend-sub000/internal/domain"
	claimdto "github.com/roundbuy/backend-sub000/internal/usecase/dto/claim"
)

// AssignClaim hands a pending claim to an admin. A claim is assigned once.
func (claimUc *DefaultClaimUsecase) AssignClaim(ctx context.Context, input *claimdto.AssignClaimInput) (*domain.Claim, error) {
	const op = "assign_claim"
	if input.AdminID == "" {
		return nil, claimUc.deps.Fail(op, fmt.Errorf("%w: admin is required", domain.ErrValidation))
	}
	now := claimUc.deps.Now()
	var claim *domain.Claim
	err := claimUc.deps.Tx.WithinTx(ctx, func(tx domain.Store) error {
		var err error
		claim, err = tx.Claims().GetForUpdate(ctx, input.ClaimID)
		if err != nil {
			return err
		}
		if claim.IsParty(input.AdminID) {
			return fmt.Errorf("%w: a party cannot adjudicate claim %s", domain.ErrNotAuthorized, claim.Code)
		}
		if err := claim.Assign(input.AdminID, now); err != nil {
			return err
		}
		if err := tx.Claims().Update(ctx, claim); err != nil {
			return fmt.Errorf("update claim: %w", err)
		}
		return tx.Claims().AddMessage(ctx, systemMessage(claim.ID, "Claim assigned to an admin", now))
	})
	if err != nil {
		return nil, claimUc.deps.Fail(op, err)
	}
	claimUc.logTransition(op, claim)
	claimUc.notifyParties(ctx, claim, domain.EventClaimAssigned, now)
	return claim, nil
}
