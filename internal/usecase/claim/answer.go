package claim

import (
	"context"
	"fmt"

	"github.com/roundbuy/backend-sub000/internal/domain"
	claimdto "github.com/roundbuy/backend-sub000/internal/usecase/dto/claim"
)

// SubmitPartyAnswer drives the mutual_answer mode. A concession resolves
// the claim (and settles the dispute); a second contest turns the claim
// into an admin_decision claim waiting for assignment.
func (claimUc *DefaultClaimUsecase) SubmitPartyAnswer(ctx context.Context, input *claimdto.PartyAnswerInput) (*domain.Claim, error) {
	const op = "submit_party_answer"
	now := claimUc.deps.Now()
	var (
		claim   *domain.Claim
		decided bool
	)
	err := claimUc.deps.Tx.WithinTx(ctx, func(tx domain.Store) error {
		var err error
		claim, err = tx.Claims().GetForUpdate(ctx, input.ClaimID)
		if err != nil {
			return err
		}
		decided, err = claim.Answer(input.ActingUser, input.Answer, now)
		if err != nil {
			return err
		}
		if err := tx.Claims().Update(ctx, claim); err != nil {
			return fmt.Errorf("update claim: %w", err)
		}
		body := fmt.Sprintf("A party answered: %s", input.Answer)
		if claim.ResolutionMode == domain.ModeAdminDecision {
			body += ", both parties contest, the claim goes to an admin"
		}
		if err := tx.Claims().AddMessage(ctx, systemMessage(claim.ID, body, now)); err != nil {
			return fmt.Errorf("claim message: %w", err)
		}
		if decided {
			return settleDispute(ctx, tx, claim, now)
		}
		return nil
	})
	if err != nil {
		return nil, claimUc.deps.Fail(op, err)
	}
	if decided {
		claimUc.logTransition(op, claim)
		claimUc.notifyParties(ctx, claim, domain.EventClaimResolved, now)
	}
	return claim, nil
}
