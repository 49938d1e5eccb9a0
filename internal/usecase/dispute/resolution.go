package dispute

import (
	"context"
	"fmt"

	"github.com/roundbuy/backend-sub000/internal/domain"
	"github.com/roundbuy/backend-sub000/internal/usecase"
	disputedto "github.com/roundbuy/backend-sub000/internal/usecase/dto/dispute"
)

// CreateResolution records the agreed outcome and resolves the dispute in
// one transaction.
func (disputeUc *DefaultDisputeUsecase) CreateResolution(ctx context.Context, input *disputedto.CreateResolutionInput) (*domain.DisputeResolution, error) {
	const op = "create_resolution"
	now := disputeUc.deps.Now()
	resolution := &domain.DisputeResolution{
		ID:         usecase.NewRowID(),
		DisputeID:  input.DisputeID,
		Type:       input.Type,
		Amount:     input.Amount,
		Details:    input.Details,
		ResolvedBy: input.ResolvedBy,
		CreatedAt:  now,
	}
	if input.Type == domain.ResolutionClosedByParty {
		return nil, disputeUc.deps.Fail(op, fmt.Errorf("%w: use CloseDispute to close a dispute", domain.ErrValidation))
	}
	if err := resolution.Validate(); err != nil {
		return nil, disputeUc.deps.Fail(op, err)
	}
	var dispute *domain.Dispute
	err := disputeUc.deps.Tx.WithinTx(ctx, func(tx domain.Store) error {
		var err error
		dispute, err = lockParty(ctx, tx, input.DisputeID, input.ResolvedBy)
		if err != nil {
			return err
		}
		if err := dispute.Resolve(now); err != nil {
			return err
		}
		if err := tx.Disputes().AddResolution(ctx, resolution); err != nil {
			return fmt.Errorf("add resolution: %w", err)
		}
		if err := tx.Disputes().Update(ctx, dispute); err != nil {
			return fmt.Errorf("update dispute: %w", err)
		}
		return tx.Disputes().AddMessage(ctx, statusMessage(dispute.ID,
			fmt.Sprintf("Dispute resolved: %s", resolution.Type), now))
	})
	if err != nil {
		return nil, disputeUc.deps.Fail(op, err)
	}

	disputeUc.logTransition(op, dispute)
	var outbox usecase.Outbox
	payload := map[string]string{
		"dispute_code":    dispute.Code,
		"resolution_type": string(resolution.Type),
	}
	outbox.Add(dispute.UserID, domain.EventDisputeResolved, now, payload)
	outbox.Add(dispute.SellerID, domain.EventDisputeResolved, now, payload)
	disputeUc.deps.Dispatch(ctx, outbox)
	return resolution, nil
}

// CloseDispute is the explicit party action that ends a dispute without an
// agreed outcome. An escalated dispute is closed through its claim.
func (disputeUc *DefaultDisputeUsecase) CloseDispute(ctx context.Context, input *disputedto.CloseDisputeInput) (*domain.Dispute, error) {
	const op = "close_dispute"
	now := disputeUc.deps.Now()
	var dispute *domain.Dispute
	err := disputeUc.deps.Tx.WithinTx(ctx, func(tx domain.Store) error {
		var err error
		dispute, err = lockParty(ctx, tx, input.DisputeID, input.ActingUser)
		if err != nil {
			return err
		}
		if dispute.Status == domain.DisputeEscalated {
			return fmt.Errorf("%w: dispute %s is handled by its claim", domain.ErrInvalidTransition, dispute.Code)
		}
		if err := dispute.Close(now); err != nil {
			return err
		}
		if err := tx.Disputes().AddResolution(ctx, &domain.DisputeResolution{
			ID:         usecase.NewRowID(),
			DisputeID:  dispute.ID,
			Type:       domain.ResolutionClosedByParty,
			Details:    input.Reason,
			ResolvedBy: input.ActingUser,
			CreatedAt:  now,
		}); err != nil {
			return fmt.Errorf("add resolution: %w", err)
		}
		if err := tx.Disputes().Update(ctx, dispute); err != nil {
			return fmt.Errorf("update dispute: %w", err)
		}
		return tx.Disputes().AddMessage(ctx, statusMessage(dispute.ID, "Dispute closed by party", now))
	})
	if err != nil {
		return nil, disputeUc.deps.Fail(op, err)
	}

	disputeUc.logTransition(op, dispute)
	var outbox usecase.Outbox
	outbox.Add(dispute.CounterpartyOf(input.ActingUser), domain.EventDisputeClosed, now, map[string]string{
		"dispute_code": dispute.Code,
	})
	disputeUc.deps.Dispatch(ctx, outbox)
	return dispute, nil
}
