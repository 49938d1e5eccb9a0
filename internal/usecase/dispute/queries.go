package dispute

import (
	"context"

	"github.com/roundbuy/backend-sub000/internal/domain"
	disputedto "github.com/roundbuy/backend-sub000/internal/usecase/dto/dispute"
	"github.com/roundbuy/backend-sub000/internal/usecase/dto/pagination"
)

func (disputeUc *DefaultDisputeUsecase) view(dispute *domain.Dispute) disputedto.DisputeOutput {
	action := dispute.OverdueAction(disputeUc.deps.Now())
	return disputedto.DisputeOutput{
		Dispute:       dispute,
		AwaitingSweep: action != domain.OverdueNone,
		PendingAction: action,
	}
}

func (disputeUc *DefaultDisputeUsecase) GetDisputeByID(ctx context.Context, disputeID string) (*disputedto.DisputeOutput, error) {
	var dispute *domain.Dispute
	err := disputeUc.deps.Tx.View(ctx, func(s domain.Store) error {
		var err error
		dispute, err = s.Disputes().GetByID(ctx, disputeID)
		return err
	})
	if err != nil {
		return nil, err
	}
	out := disputeUc.view(dispute)
	return &out, nil
}

func (disputeUc *DefaultDisputeUsecase) GetDisputeByCode(ctx context.Context, code string) (*disputedto.DisputeOutput, error) {
	var dispute *domain.Dispute
	err := disputeUc.deps.Tx.View(ctx, func(s domain.Store) error {
		var err error
		dispute, err = s.Disputes().GetByCode(ctx, code)
		return err
	})
	if err != nil {
		return nil, err
	}
	out := disputeUc.view(dispute)
	return &out, nil
}

func (disputeUc *DefaultDisputeUsecase) ListDisputeMessages(ctx context.Context, disputeID string) ([]*domain.DisputeMessage, error) {
	var msgs []*domain.DisputeMessage
	err := disputeUc.deps.Tx.View(ctx, func(s domain.Store) error {
		if _, err := s.Disputes().GetByID(ctx, disputeID); err != nil {
			return err
		}
		var err error
		msgs, err = s.Disputes().ListMessages(ctx, disputeID)
		return err
	})
	return msgs, err
}

func (disputeUc *DefaultDisputeUsecase) ListDisputeEvidence(ctx context.Context, disputeID string) ([]*domain.DisputeEvidence, error) {
	var evidence []*domain.DisputeEvidence
	err := disputeUc.deps.Tx.View(ctx, func(s domain.Store) error {
		if _, err := s.Disputes().GetByID(ctx, disputeID); err != nil {
			return err
		}
		var err error
		evidence, err = s.Disputes().ListEvidence(ctx, disputeID)
		return err
	})
	return evidence, err
}

func (disputeUc *DefaultDisputeUsecase) GetResolution(ctx context.Context, disputeID string) (*domain.DisputeResolution, error) {
	var res *domain.DisputeResolution
	err := disputeUc.deps.Tx.View(ctx, func(s domain.Store) error {
		var err error
		res, err = s.Disputes().GetResolution(ctx, disputeID)
		return err
	})
	return res, err
}

func (disputeUc *DefaultDisputeUsecase) ListDisputes(ctx context.Context, input *disputedto.ListDisputesInput) (*disputedto.ListDisputesOutput, error) {
	page := domain.Page{Page: int(input.Page), Limit: int(input.Limit)}.Normalize()
	var (
		disputes []*domain.Dispute
		total    int64
	)
	err := disputeUc.deps.Tx.View(ctx, func(s domain.Store) error {
		var err error
		disputes, total, err = s.Disputes().List(ctx, domain.DisputeFilter{
			PartyID: input.PartyID,
			Status:  input.Status,
			Phase:   input.Phase,
			Page:    page,
		})
		return err
	})
	if err != nil {
		return nil, err
	}
	out := &disputedto.ListDisputesOutput{
		Disputes:   make([]disputedto.DisputeOutput, 0, len(disputes)),
		Pagination: pagination.New(page.Page, page.Limit, total),
	}
	for _, d := range disputes {
		out.Disputes = append(out.Disputes, disputeUc.view(d))
	}
	return out, nil
}
