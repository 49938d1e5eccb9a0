package dispute

import (
	"context"
	"time"

	"github.com/roundbuy/backend-sub000/internal/domain"
	"github.com/roundbuy/backend-sub000/internal/usecase"
	disputedto "github.com/roundbuy/backend-sub000/internal/usecase/dto/dispute"
	"github.com/roundbuy/backend-sub000/internal/usecase/escalation"
)

type DisputeUsecase interface {
	CreateDispute(ctx context.Context, input *disputedto.CreateDisputeInput) (*domain.Dispute, error)
	AddMessage(ctx context.Context, input *disputedto.AddMessageInput) (*domain.DisputeMessage, error)
	UploadEvidence(ctx context.Context, input *disputedto.UploadEvidenceInput) (*domain.DisputeEvidence, error)
	RecordEligibilityChecks(ctx context.Context, input *disputedto.RecordEligibilityChecksInput) ([]*domain.EligibilityCheck, error)
	ListEligibilityChecks(ctx context.Context, disputeID string) ([]*domain.EligibilityCheck, error)
	SubmitSellerResponse(ctx context.Context, input *disputedto.SellerResponseInput) (*domain.Dispute, error)
	UpdateStatus(ctx context.Context, input *disputedto.UpdateStatusInput) (*domain.Dispute, error)
	CreateResolution(ctx context.Context, input *disputedto.CreateResolutionInput) (*domain.DisputeResolution, error)
	CloseDispute(ctx context.Context, input *disputedto.CloseDisputeInput) (*domain.Dispute, error)
	ApplyOverdue(ctx context.Context, disputeID string, now time.Time) (domain.OverdueAction, error)
	GetDisputeByID(ctx context.Context, disputeID string) (*disputedto.DisputeOutput, error)
	GetDisputeByCode(ctx context.Context, code string) (*disputedto.DisputeOutput, error)
	ListDisputeMessages(ctx context.Context, disputeID string) ([]*domain.DisputeMessage, error)
	ListDisputeEvidence(ctx context.Context, disputeID string) ([]*domain.DisputeEvidence, error)
	GetResolution(ctx context.Context, disputeID string) (*domain.DisputeResolution, error)
	ListDisputes(ctx context.Context, input *disputedto.ListDisputesInput) (*disputedto.ListDisputesOutput, error)
}

type DefaultDisputeUsecase struct {
	deps   usecase.Deps
	engine *escalation.Engine
}

func NewDefaultDisputeUsecase(deps usecase.Deps, engine *escalation.Engine) *DefaultDisputeUsecase {
	return &DefaultDisputeUsecase{deps: deps.WithDefaults(), engine: engine}
}

func (disputeUc *DefaultDisputeUsecase) logTransition(op string, dispute *domain.Dispute) {
	disputeUc.deps.Metrics.RecordTransition("dispute", string(dispute.Status))
	disputeUc.deps.Logger.Info("dispute transition",
		"module", "dispute",
		"operation", op,
		"outcome", "ok",
		"dispute_id", dispute.ID,
		"dispute_code", dispute.Code,
		"status", dispute.Status,
		"phase", dispute.Phase,
	)
}

func statusMessage(disputeID, body string, now time.Time) *domain.DisputeMessage {
	return &domain.DisputeMessage{
		ID:          usecase.NewRowID(),
		DisputeID:   disputeID,
		MessageType: domain.MessageStatusUpdate,
		Body:        body,
		CreatedAt:   now,
	}
}

// lockParty loads the dispute under lock and checks that user is one of
// its two parties.
func lockParty(ctx context.Context, tx domain.Store, disputeID, userID string) (*domain.Dispute, error) {
	dispute, err := tx.Disputes().GetForUpdate(ctx, disputeID)
	if err != nil {
		return nil, err
	}
	if !dispute.IsParty(userID) {
		return nil, errNotParty(dispute, userID)
	}
	return dispute, nil
}
