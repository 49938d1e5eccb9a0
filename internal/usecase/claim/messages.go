package claim

import (
	"context"
	"fmt"
	"strings"

	"github.com/roundbuy/backend-sub000/internal/domain"
	"github.com/roundbuy/backend-sub000/internal/usecase"
	claimdto "github.com/roundbuy/backend-sub000/internal/usecase/dto/claim"
)

// lockParticipant loads an open claim under lock for one of its parties or
// its assigned admin.
func lockParticipant(ctx context.Context, tx domain.Store, claimID, userID string) (*domain.Claim, error) {
	claim, err := tx.Claims().GetForUpdate(ctx, claimID)
	if err != nil {
		return nil, err
	}
	if !claim.CanParticipate(userID) {
		return nil, fmt.Errorf("%w: user %s cannot act on claim %s", domain.ErrNotAuthorized, userID, claim.Code)
	}
	if claim.Status.Terminal() {
		return nil, fmt.Errorf("%w: claim %s is %s", domain.ErrInvalidTransition, claim.Code, claim.Status)
	}
	return claim, nil
}

func (claimUc *DefaultClaimUsecase) AddMessage(ctx context.Context, input *claimdto.AddMessageInput) (*domain.ClaimMessage, error) {
	const op = "add_claim_message"
	msgType := input.MessageType
	if msgType == "" {
		msgType = domain.MessageText
	}
	if !msgType.Valid() || msgType == domain.MessageStatusUpdate {
		return nil, claimUc.deps.Fail(op, fmt.Errorf("%w: cannot send %q messages", domain.ErrValidation, msgType))
	}
	if strings.TrimSpace(input.Body) == "" {
		return nil, claimUc.deps.Fail(op, fmt.Errorf("%w: message body is required", domain.ErrValidation))
	}
	now := claimUc.deps.Now()
	var msg *domain.ClaimMessage
	err := claimUc.deps.Tx.WithinTx(ctx, func(tx domain.Store) error {
		claim, err := lockParticipant(ctx, tx, input.ClaimID, input.SenderID)
		if err != nil {
			return err
		}
		msg = &domain.ClaimMessage{
			ID:          usecase.NewRowID(),
			ClaimID:     claim.ID,
			SenderID:    usecase.StrPtr(input.SenderID),
			MessageType: msgType,
			Body:        input.Body,
			CreatedAt:   now,
		}
		return tx.Claims().AddMessage(ctx, msg)
	})
	if err != nil {
		return nil, claimUc.deps.Fail(op, err)
	}
	return msg, nil
}

func (claimUc *DefaultClaimUsecase) AddEvidence(ctx context.Context, input *claimdto.AddEvidenceInput) (*domain.ClaimEvidence, error) {
	const op = "add_claim_evidence"
	if err := input.File.Validate(); err != nil {
		return nil, claimUc.deps.Fail(op, err)
	}
	now := claimUc.deps.Now()
	var evidence *domain.ClaimEvidence
	err := claimUc.deps.Tx.WithinTx(ctx, func(tx domain.Store) error {
		claim, err := lockParticipant(ctx, tx, input.ClaimID, input.UploadedBy)
		if err != nil {
			return err
		}
		evidence = &domain.ClaimEvidence{
			ID:           usecase.NewRowID(),
			ClaimID:      claim.ID,
			EvidenceFile: input.File,
			UploadedBy:   input.UploadedBy,
			UploadedAt:   now,
		}
		return tx.Claims().AddEvidence(ctx, evidence)
	})
	if err != nil {
		return nil, claimUc.deps.Fail(op, err)
	}
	return evidence, nil
}
