package dispute

import (
	"context"
	"fmt"
	"strings"

	"github.com/roundbuy/backend-sub000/internal/domain"
	"github.com/roundbuy/backend-sub000/internal/usecase"
	disputedto "github.com/roundbuy/backend-sub000/internal/usecase/dto/dispute"
)

func (disputeUc *DefaultDisputeUsecase) AddMessage(ctx context.Context, input *disputedto.AddMessageInput) (*domain.DisputeMessage, error) {
	const op = "add_dispute_message"
	msgType := input.MessageType
	if msgType == "" {
		msgType = domain.MessageText
	}
	if !msgType.Valid() || msgType == domain.MessageStatusUpdate {
		return nil, disputeUc.deps.Fail(op, fmt.Errorf("%w: parties cannot send %q messages", domain.ErrValidation, msgType))
	}
	if strings.TrimSpace(input.Body) == "" {
		return nil, disputeUc.deps.Fail(op, fmt.Errorf("%w: message body is required", domain.ErrValidation))
	}
	now := disputeUc.deps.Now()
	var (
		dispute *domain.Dispute
		msg     *domain.DisputeMessage
	)
	err := disputeUc.deps.Tx.WithinTx(ctx, func(tx domain.Store) error {
		var err error
		dispute, err = lockParty(ctx, tx, input.DisputeID, input.SenderID)
		if err != nil {
			return err
		}
		if dispute.Status.Terminal() {
			return fmt.Errorf("%w: dispute %s is %s", domain.ErrInvalidTransition, dispute.Code, dispute.Status)
		}
		msg = &domain.DisputeMessage{
			ID:          usecase.NewRowID(),
			DisputeID:   dispute.ID,
			SenderID:    usecase.StrPtr(input.SenderID),
			MessageType: msgType,
			Body:        input.Body,
			CreatedAt:   now,
		}
		return tx.Disputes().AddMessage(ctx, msg)
	})
	if err != nil {
		return nil, disputeUc.deps.Fail(op, err)
	}

	var outbox usecase.Outbox
	outbox.Add(dispute.CounterpartyOf(input.SenderID), domain.EventDisputeMessage, now, map[string]string{
		"dispute_code": dispute.Code,
		"message_type": string(msg.MessageType),
	})
	disputeUc.deps.Dispatch(ctx, outbox)
	return msg, nil
}

// UploadEvidence stores the metadata of a file the caller already put in
// file storage.
func (disputeUc *DefaultDisputeUsecase) UploadEvidence(ctx context.Context, input *disputedto.UploadEvidenceInput) (*domain.DisputeEvidence, error) {
	const op = "upload_dispute_evidence"
	if err := input.File.Validate(); err != nil {
		return nil, disputeUc.deps.Fail(op, err)
	}
	now := disputeUc.deps.Now()
	var evidence *domain.DisputeEvidence
	err := disputeUc.deps.Tx.WithinTx(ctx, func(tx domain.Store) error {
		dispute, err := lockParty(ctx, tx, input.DisputeID, input.UploadedBy)
		if err != nil {
			return err
		}
		if dispute.Status.Terminal() {
			return fmt.Errorf("%w: dispute %s is %s", domain.ErrInvalidTransition, dispute.Code, dispute.Status)
		}
		evidence = &domain.DisputeEvidence{
			ID:           usecase.NewRowID(),
			DisputeID:    dispute.ID,
			EvidenceFile: input.File,
			UploadedBy:   input.UploadedBy,
			UploadedAt:   now,
		}
		return tx.Disputes().AddEvidence(ctx, evidence)
	})
	if err != nil {
		return nil, disputeUc.deps.Fail(op, err)
	}
	return evidence, nil
}
