package dispute

import (
	"context"
	"fmt"
	"strings"

	"github.com/roundbuy/backend-sub000/internal/domain"
	"github.com/roundbuy/backend-sub000/internal/usecase"
	disputedto "github.com/roundbuy/backend-sub000/internal/usecase/dto/dispute"
)

func errNotParty(dispute *domain.Dispute, userID string) error {
	return fmt.Errorf("%w: user %s is not a party of dispute %s", domain.ErrNotAuthorized, userID, dispute.Code)
}

func validateCreate(input *disputedto.CreateDisputeInput) error {
	switch {
	case input.UserID == "" || input.SellerID == "":
		return fmt.Errorf("%w: both parties are required", domain.ErrValidation)
	case input.UserID == input.SellerID:
		return fmt.Errorf("%w: a dispute needs two different parties", domain.ErrValidation)
	case input.AdvertisementID == "":
		return fmt.Errorf("%w: advertisement is required", domain.ErrValidation)
	case !input.Category.Valid():
		return fmt.Errorf("%w: unknown dispute category %q", domain.ErrValidation, input.Category)
	case strings.TrimSpace(input.ProblemDescription) == "":
		return fmt.Errorf("%w: problem description is required", domain.ErrValidation)
	case input.Priority != "" && !input.Priority.Valid():
		return fmt.Errorf("%w: unknown priority %q", domain.ErrValidation, input.Priority)
	}
	return nil
}

// CreateDispute files a direct dispute. It gets a negotiation window for
// the seller's answer and the overall dispute window.
func (disputeUc *DefaultDisputeUsecase) CreateDispute(ctx context.Context, input *disputedto.CreateDisputeInput) (*domain.Dispute, error) {
	const op = "create_dispute"
	if err := validateCreate(input); err != nil {
		return nil, disputeUc.deps.Fail(op, err)
	}
	priority := input.Priority
	if priority == "" {
		priority = domain.PriorityMedium
	}
	now := disputeUc.deps.Now()
	negotiationDeadline := disputeUc.deps.Policy.NegotiationDeadline(now)
	disputeDeadline := disputeUc.deps.Policy.DisputeDeadline(now)

	var dispute *domain.Dispute
	err := disputeUc.deps.Tx.WithinTx(ctx, func(tx domain.Store) error {
		code, err := tx.Codes().Next(ctx, domain.CodeDispute)
		if err != nil {
			return fmt.Errorf("dispute code: %w", err)
		}
		dispute = &domain.Dispute{
			ID:                  usecase.NewID(),
			Code:                code,
			UserID:              input.UserID,
			SellerID:            input.SellerID,
			AdvertisementID:     input.AdvertisementID,
			Type:                domain.DisputeTypeDirect,
			Category:            input.Category,
			ProblemDescription:  input.ProblemDescription,
			Status:              domain.DisputePending,
			Priority:            priority,
			Phase:               domain.PhaseDispute,
			NegotiationDeadline: &negotiationDeadline,
			DisputeDeadline:     &disputeDeadline,
			CreatedAt:           now,
			UpdatedAt:           now,
		}
		if err := tx.Disputes().Create(ctx, dispute); err != nil {
			return fmt.Errorf("create dispute: %w", err)
		}
		return tx.Disputes().AddMessage(ctx, statusMessage(dispute.ID,
			fmt.Sprintf("Dispute %s opened", dispute.Code), now))
	})
	if err != nil {
		return nil, disputeUc.deps.Fail(op, err)
	}

	disputeUc.deps.Metrics.RecordCodeIssued(string(domain.CodeDispute))
	disputeUc.logTransition(op, dispute)
	var outbox usecase.Outbox
	outbox.Add(dispute.SellerID, domain.EventDisputeCreated, now, map[string]string{
		"dispute_code": dispute.Code,
		"category":     string(dispute.Category),
	})
	disputeUc.deps.Dispatch(ctx, outbox)
	return dispute, nil
}
