package escalation

import (
	"context"
	"fmt"
	"time"

	"github.com/roundbuy/backend-sub000/internal/domain"
	"github.com/roundbuy/backend-sub000/internal/usecase"
)

// Engine performs the two escalation edges. Both methods run inside the
// caller's transaction and expect the parent row to be locked already.
type Engine struct {
	policy domain.DeadlinePolicy
}

func NewEngine(policy domain.DeadlinePolicy) *Engine {
	return &Engine{policy: policy}
}

// EscalateIssueToDispute opens the dispute for a rejected issue and links
// the two. It refuses an issue that already points at a dispute.
func (e *Engine) EscalateIssueToDispute(ctx context.Context, tx domain.Store, issue *domain.Issue, now time.Time) (*domain.Dispute, error) {
	if issue.EscalatedDisputeID != nil {
		return nil, fmt.Errorf("%w: issue %s already has dispute %s", domain.ErrAlreadyEscalated, issue.Code, *issue.EscalatedDisputeID)
	}
	code, err := tx.Codes().Next(ctx, domain.CodeDispute)
	if err != nil {
		return nil, fmt.Errorf("dispute code: %w", err)
	}
	disputeDeadline := e.policy.DisputeDeadline(now)
	issueID := issue.ID
	dispute := &domain.Dispute{
		ID:                 usecase.NewID(),
		Code:               code,
		UserID:             issue.CreatedBy,
		SellerID:           issue.OtherPartyID,
		AdvertisementID:    issue.AdvertisementID,
		IssueID:            &issueID,
		Type:               domain.DisputeTypeIssueNegotiation,
		Category:           issue.Type,
		ProblemDescription: issue.Description,
		Status:             domain.DisputePending,
		Priority:           domain.PriorityMedium,
		Phase:              domain.PhaseDispute,
		DisputeDeadline:    &disputeDeadline,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	if err := tx.Disputes().Create(ctx, dispute); err != nil {
		return nil, fmt.Errorf("create dispute: %w", err)
	}

	body := fmt.Sprintf("Dispute %s opened from issue %s", dispute.Code, issue.Code)
	if issue.RejectionReason != "" {
		body += ": " + issue.RejectionReason
	}
	if err := tx.Disputes().AddMessage(ctx, &domain.DisputeMessage{
		ID:          usecase.NewRowID(),
		DisputeID:   dispute.ID,
		MessageType: domain.MessageStatusUpdate,
		Body:        body,
		CreatedAt:   now,
	}); err != nil {
		return nil, fmt.Errorf("link message: %w", err)
	}

	if err := issue.MarkEscalated(dispute.ID, now); err != nil {
		return nil, err
	}
	if err := tx.Issues().Update(ctx, issue); err != nil {
		return nil, fmt.Errorf("update issue: %w", err)
	}
	return dispute, nil
}

// ClaimRequest carries what the claimant supplies when escalating.
type ClaimRequest struct {
	ClaimantID         string
	Reason             string
	AdditionalEvidence string
	Mode               domain.ResolutionMode
	// SkipEligibility is set by the sweeper: a lapsed deadline escalates
	// regardless of the recorded checks.
	SkipEligibility bool
}

// EscalateDisputeToClaim opens a claim for the dispute and moves the
// dispute into the claim phase.
func (e *Engine) EscalateDisputeToClaim(ctx context.Context, tx domain.Store, dispute *domain.Dispute, req ClaimRequest, now time.Time) (*domain.Claim, error) {
	if req.ClaimantID != dispute.UserID {
		return nil, fmt.Errorf("%w: only the claimant of dispute %s may escalate", domain.ErrWrongParty, dispute.Code)
	}
	if dispute.Status == domain.DisputeEscalated {
		return nil, fmt.Errorf("%w: dispute %s", domain.ErrAlreadyEscalated, dispute.Code)
	}
	if dispute.Status.Terminal() {
		return nil, fmt.Errorf("%w: dispute %s is %s", domain.ErrInvalidTransition, dispute.Code, dispute.Status)
	}
	mode := req.Mode
	if mode == "" {
		mode = domain.ModeAdminDecision
	}
	if !mode.Valid() {
		return nil, fmt.Errorf("%w: unknown resolution mode %q", domain.ErrValidation, mode)
	}
	if !req.SkipEligibility {
		checks, err := tx.Disputes().ListEligibilityChecks(ctx, dispute.ID)
		if err != nil {
			return nil, fmt.Errorf("eligibility checks: %w", err)
		}
		if failed := domain.FirstFailedCheck(checks); failed != nil {
			return nil, fmt.Errorf("%w: %s: %s", domain.ErrNotEligible, failed.CheckName, failed.Reason)
		}
	}

	code, err := tx.Codes().Next(ctx, domain.CodeClaim)
	if err != nil {
		return nil, fmt.Errorf("claim code: %w", err)
	}
	claimDeadline := e.policy.ClaimDeadline(now)
	claim := &domain.Claim{
		ID:                      usecase.NewID(),
		Code:                    code,
		DisputeID:               dispute.ID,
		UserID:                  dispute.UserID,
		SellerID:                dispute.SellerID,
		AdvertisementID:         dispute.AdvertisementID,
		ClaimReason:             req.Reason,
		BuyerAdditionalEvidence: req.AdditionalEvidence,
		ResolutionMode:          mode,
		Status:                  domain.ClaimPending,
		Priority:                dispute.Priority,
		Deadline:                claimDeadline,
		CreatedAt:               now,
		UpdatedAt:               now,
	}
	if err := tx.Claims().Create(ctx, claim); err != nil {
		return nil, fmt.Errorf("create claim: %w", err)
	}

	if err := dispute.Escalate(claimDeadline, now); err != nil {
		return nil, err
	}
	if err := tx.Disputes().Update(ctx, dispute); err != nil {
		return nil, fmt.Errorf("update dispute: %w", err)
	}

	if err := tx.Disputes().AddMessage(ctx, &domain.DisputeMessage{
		ID:          usecase.NewRowID(),
		DisputeID:   dispute.ID,
		MessageType: domain.MessageStatusUpdate,
		Body:        fmt.Sprintf("Dispute escalated to claim %s", claim.Code),
		CreatedAt:   now,
	}); err != nil {
		return nil, fmt.Errorf("dispute message: %w", err)
	}
	if err := tx.Claims().AddMessage(ctx, &domain.ClaimMessage{
		ID:          usecase.NewRowID(),
		ClaimID:     claim.ID,
		MessageType: domain.MessageStatusUpdate,
		Body:        fmt.Sprintf("Claim opened from dispute %s: %s", dispute.Code, req.Reason),
		CreatedAt:   now,
	}); err != nil {
		return nil, fmt.Errorf("claim message: %w", err)
	}
	return claim, nil
}
