package claim

import (
	"context"

	"github.com/roundbuy/backend-sub000/internal/domain"
	claimdto "github.com/roundbuy/backend-sub000/internal/usecase/dto/claim"
	"github.com/roundbuy/backend-sub000/internal/usecase/dto/pagination"
)

func (claimUc *DefaultClaimUsecase) view(claim *domain.Claim) claimdto.ClaimOutput {
	return claimdto.ClaimOutput{
		Claim:         claim,
		AwaitingSweep: claim.AwaitingSweep(claimUc.deps.Now()),
	}
}

func (claimUc *DefaultClaimUsecase) getOne(ctx context.Context, get func(s domain.Store) (*domain.Claim, error)) (*claimdto.ClaimOutput, error) {
	var claim *domain.Claim
	err := claimUc.deps.Tx.View(ctx, func(s domain.Store) error {
		var err error
		claim, err = get(s)
		return err
	})
	if err != nil {
		return nil, err
	}
	out := claimUc.view(claim)
	return &out, nil
}

func (claimUc *DefaultClaimUsecase) GetClaimByID(ctx context.Context, claimID string) (*claimdto.ClaimOutput, error) {
	return claimUc.getOne(ctx, func(s domain.Store) (*domain.Claim, error) {
		return s.Claims().GetByID(ctx, claimID)
	})
}

func (claimUc *DefaultClaimUsecase) GetClaimByCode(ctx context.Context, code string) (*claimdto.ClaimOutput, error) {
	return claimUc.getOne(ctx, func(s domain.Store) (*domain.Claim, error) {
		return s.Claims().GetByCode(ctx, code)
	})
}

func (claimUc *DefaultClaimUsecase) GetClaimByDisputeID(ctx context.Context, disputeID string) (*claimdto.ClaimOutput, error) {
	return claimUc.getOne(ctx, func(s domain.Store) (*domain.Claim, error) {
		return s.Claims().GetByDisputeID(ctx, disputeID)
	})
}

func (claimUc *DefaultClaimUsecase) ListClaimMessages(ctx context.Context, claimID string) ([]*domain.ClaimMessage, error) {
	var msgs []*domain.ClaimMessage
	err := claimUc.deps.Tx.View(ctx, func(s domain.Store) error {
		if _, err := s.Claims().GetByID(ctx, claimID); err != nil {
			return err
		}
		var err error
		msgs, err = s.Claims().ListMessages(ctx, claimID)
		return err
	})
	return msgs, err
}

func (claimUc *DefaultClaimUsecase) ListClaimEvidence(ctx context.Context, claimID string) ([]*domain.ClaimEvidence, error) {
	var evidence []*domain.ClaimEvidence
	err := claimUc.deps.Tx.View(ctx, func(s domain.Store) error {
		if _, err := s.Claims().GetByID(ctx, claimID); err != nil {
			return err
		}
		var err error
		evidence, err = s.Claims().ListEvidence(ctx, claimID)
		return err
	})
	return evidence, err
}

func (claimUc *DefaultClaimUsecase) ListClaims(ctx context.Context, input *claimdto.ListClaimsInput) (*claimdto.ListClaimsOutput, error) {
	page := domain.Page{Page: int(input.Page), Limit: int(input.Limit)}.Normalize()
	var (
		claims []*domain.Claim
		total  int64
	)
	err := claimUc.deps.Tx.View(ctx, func(s domain.Store) error {
		var err error
		claims, total, err = s.Claims().List(ctx, domain.ClaimFilter{
			PartyID:  input.PartyID,
			AdminID:  input.AdminID,
			Status:   input.Status,
			Priority: input.Priority,
			Page:     page,
		})
		return err
	})
	if err != nil {
		return nil, err
	}
	out := &claimdto.ListClaimsOutput{
		Claims:     make([]claimdto.ClaimOutput, 0, len(claims)),
		Pagination: pagination.New(page.Page, page.Limit, total),
	}
	for _, c := range claims {
		out.Claims = append(out.Claims, claimUc.view(c))
	}
	return out, nil
}
