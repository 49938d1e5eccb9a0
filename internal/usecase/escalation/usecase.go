package escalation

import (
	"context"
	"fmt"
	"strings"

	"github.com/roundbuy/backend-sub000/internal/domain"
	"github.com/roundbuy/backend-sub000/internal/usecase"
	claimdto "github.com/roundbuy/backend-sub000/internal/usecase/dto/claim"
)

type EscalationUsecase interface {
	EscalateDisputeToClaim(ctx context.Context, input *claimdto.EscalateDisputeInput) (*domain.Claim, error)
}

type DefaultEscalationUsecase struct {
	deps   usecase.Deps
	engine *Engine
}

func NewDefaultEscalationUsecase(deps usecase.Deps, engine *Engine) *DefaultEscalationUsecase {
	return &DefaultEscalationUsecase{deps: deps.WithDefaults(), engine: engine}
}

// EscalateDisputeToClaim is the claimant's explicit request for an admin.
func (escalationUc *DefaultEscalationUsecase) EscalateDisputeToClaim(ctx context.Context, input *claimdto.EscalateDisputeInput) (*domain.Claim, error) {
	const op = "escalate_dispute_to_claim"
	if input.DisputeID == "" || input.ClaimantID == "" || strings.TrimSpace(input.Reason) == "" {
		return nil, escalationUc.deps.Fail(op, fmt.Errorf("%w: dispute, claimant and reason are required", domain.ErrValidation))
	}
	now := escalationUc.deps.Now()
	var (
		claim   *domain.Claim
		dispute *domain.Dispute
	)
	err := escalationUc.deps.Tx.WithinTx(ctx, func(tx domain.Store) error {
		var err error
		dispute, err = tx.Disputes().GetForUpdate(ctx, input.DisputeID)
		if err != nil {
			return err
		}
		claim, err = escalationUc.engine.EscalateDisputeToClaim(ctx, tx, dispute, ClaimRequest{
			ClaimantID:         input.ClaimantID,
			Reason:             input.Reason,
			AdditionalEvidence: input.AdditionalEvidence,
			Mode:               input.Mode,
		}, now)
		return err
	})
	if err != nil {
		return nil, escalationUc.deps.Fail(op, err)
	}

	escalationUc.deps.Metrics.RecordTransition("dispute", "escalated")
	escalationUc.deps.Logger.Info("dispute escalated to claim",
		"module", "escalation",
		"operation", op,
		"outcome", "ok",
		"dispute_id", dispute.ID,
		"claim_code", claim.Code,
	)
	var outbox usecase.Outbox
	outbox.Add(dispute.SellerID, domain.EventDisputeEscalated, now, map[string]string{
		"dispute_code": dispute.Code,
		"claim_code":   claim.Code,
	})
	escalationUc.deps.Dispatch(ctx, outbox)
	return claim, nil
}
