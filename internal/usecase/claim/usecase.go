package claim

import (
	"context"
	"fmt"
	"time"

	"github.com/roundbuy/backend-sub000/internal/domain"
	"github.com/roundbuy/backend-sub000/internal/usecase"
	claimdto "github.com/roundbuy/backend-sub000/internal/usecase/dto/claim"
)

type ClaimUsecase interface {
	AssignClaim(ctx context.Context, input *claimdto.AssignClaimInput) (*domain.Claim, error)
	SubmitAdminDecision(ctx context.Context, input *claimdto.AdminDecisionInput) (*domain.Claim, error)
	CloseClaim(ctx context.Context, input *claimdto.CloseClaimInput) (*domain.Claim, error)
	AddMessage(ctx context.Context, input *claimdto.AddMessageInput) (*domain.ClaimMessage, error)
	AddEvidence(ctx context.Context, input *claimdto.AddEvidenceInput) (*domain.ClaimEvidence, error)
	SubmitPartyAnswer(ctx context.Context, input *claimdto.PartyAnswerInput) (*domain.Claim, error)
	ApplyOverdue(ctx context.Context, claimID string, now time.Time) (domain.OverdueAction, error)
	GetClaimByID(ctx context.Context, claimID string) (*claimdto.ClaimOutput, error)
	GetClaimByCode(ctx context.Context, code string) (*claimdto.ClaimOutput, error)
	GetClaimByDisputeID(ctx context.Context, disputeID string) (*claimdto.ClaimOutput, error)
	ListClaimMessages(ctx context.Context, claimID string) ([]*domain.ClaimMessage, error)
	ListClaimEvidence(ctx context.Context, claimID string) ([]*domain.ClaimEvidence, error)
	ListClaims(ctx context.Context, input *claimdto.ListClaimsInput) (*claimdto.ListClaimsOutput, error)
}

type DefaultClaimUsecase struct {
	deps usecase.Deps
}

func NewDefaultClaimUsecase(deps usecase.Deps) *DefaultClaimUsecase {
	return &DefaultClaimUsecase{deps: deps.WithDefaults()}
}

func (claimUc *DefaultClaimUsecase) logTransition(op string, claim *domain.Claim) {
	claimUc.deps.Metrics.RecordTransition("claim", string(claim.Status))
	claimUc.deps.Logger.Info("claim transition",
		"module", "claim",
		"operation", op,
		"outcome", "ok",
		"claim_id", claim.ID,
		"claim_code", claim.Code,
		"status", claim.Status,
		"priority", claim.Priority,
	)
}

func systemMessage(claimID, body string, now time.Time) *domain.ClaimMessage {
	return &domain.ClaimMessage{
		ID:          usecase.NewRowID(),
		ClaimID:     claimID,
		MessageType: domain.MessageStatusUpdate,
		Body:        body,
		CreatedAt:   now,
	}
}

// settleDispute carries a terminal claim outcome over to the parent
// dispute inside the same transaction.
func settleDispute(ctx context.Context, tx domain.Store, claim *domain.Claim, now time.Time) error {
	dispute, err := tx.Disputes().GetForUpdate(ctx, claim.DisputeID)
	if err != nil {
		return fmt.Errorf("parent dispute: %w", err)
	}
	decided := claim.Status == domain.ClaimResolved
	if err := dispute.SettleFromClaim(decided, now); err != nil {
		return err
	}
	if err := tx.Disputes().Update(ctx, dispute); err != nil {
		return fmt.Errorf("update dispute: %w", err)
	}
	body := fmt.Sprintf("Claim %s closed", claim.Code)
	if decided {
		body = fmt.Sprintf("Claim %s resolved: %s", claim.Code, *claim.AdminDecision)
	}
	return tx.Disputes().AddMessage(ctx, &domain.DisputeMessage{
		ID:          usecase.NewRowID(),
		DisputeID:   dispute.ID,
		MessageType: domain.MessageStatusUpdate,
		Body:        body,
		CreatedAt:   now,
	})
}

func (claimUc *DefaultClaimUsecase) notifyParties(ctx context.Context, claim *domain.Claim, kind domain.EventKind, now time.Time) {
	var outbox usecase.Outbox
	payload := map[string]string{
		"claim_code": claim.Code,
		"status":     string(claim.Status),
	}
	if claim.AdminDecision != nil {
		payload["decision"] = string(*claim.AdminDecision)
	}
	if claim.ResolutionAmount != nil {
		payload["amount"] = claim.ResolutionAmount.StringFixed(2)
	}
	outbox.Add(claim.UserID, kind, now, payload)
	outbox.Add(claim.SellerID, kind, now, payload)
	claimUc.deps.Dispatch(ctx, outbox)
}
