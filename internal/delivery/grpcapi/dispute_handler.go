package grpcapi

import (
	"context"

	"github.com/roundbuy/backend-sub000/internal/domain"
	claimdto "github.com/roundbuy/backend-sub000/internal/usecase/dto/claim"
	disputedto "github.com/roundbuy/backend-sub000/internal/usecase/dto/dispute"
	issuedto "github.com/roundbuy/backend-sub000/internal/usecase/dto/issue"
	"github.com/roundbuy/backend-sub000/internal/usecase/claim"
	"github.com/roundbuy/backend-sub000/internal/usecase/dispute"
	"github.com/roundbuy/backend-sub000/internal/usecase/escalation"
	"github.com/roundbuy/backend-sub000/internal/usecase/issue"
)

type DisputeServiceServer interface {
	CreateIssue(context.Context, *CreateIssueRequest) (*IssueReply, error)
	AcceptIssue(context.Context, *RespondIssueRequest) (*IssueReply, error)
	RejectIssue(context.Context, *RespondIssueRequest) (*RejectIssueReply, error)
	GetIssue(context.Context, *GetByCodeRequest) (*IssueReply, error)

	CreateDispute(context.Context, *CreateDisputeRequest) (*DisputeReply, error)
	SubmitSellerResponse(context.Context, *SellerResponseRequest) (*DisputeReply, error)
	CreateResolution(context.Context, *CreateResolutionRequest) (*ResolutionReply, error)
	CloseDispute(context.Context, *CloseDisputeRequest) (*DisputeReply, error)
	AddDisputeMessage(context.Context, *AddDisputeMessageRequest) (*MessageReply, error)
	GetDispute(context.Context, *GetByCodeRequest) (*DisputeReply, error)

	EscalateDispute(context.Context, *EscalateDisputeRequest) (*ClaimReply, error)
	AssignClaim(context.Context, *AssignClaimRequest) (*ClaimReply, error)
	SubmitAdminDecision(context.Context, *AdminDecisionRequest) (*ClaimReply, error)
	SubmitPartyAnswer(context.Context, *PartyAnswerRequest) (*ClaimReply, error)
	CloseClaim(context.Context, *CloseClaimRequest) (*ClaimReply, error)
	GetClaim(context.Context, *GetByCodeRequest) (*ClaimReply, error)
}

// DisputeHandler returns domain errors as is; UnaryErrorInterceptor turns
// them into status codes.
type DisputeHandler struct {
	issues     issue.IssueUsecase
	disputes   dispute.DisputeUsecase
	claims     claim.ClaimUsecase
	escalation escalation.EscalationUsecase
}

func NewDisputeHandler(
	issues issue.IssueUsecase,
	disputes dispute.DisputeUsecase,
	claims claim.ClaimUsecase,
	escalationUc escalation.EscalationUsecase,
) *DisputeHandler {
	return &DisputeHandler{
		issues:     issues,
		disputes:   disputes,
		claims:     claims,
		escalation: escalationUc,
	}
}

func (h *DisputeHandler) CreateIssue(ctx context.Context, r *CreateIssueRequest) (*IssueReply, error) {
	created, err := h.issues.CreateIssue(ctx, &issuedto.CreateIssueInput{
		CreatedBy:       r.CreatedBy,
		OtherPartyID:    r.OtherPartyID,
		AdvertisementID: r.AdvertisementID,
		IssueType:       domain.IssueType(r.IssueType),
		Description:     r.Description,
	})
	if err != nil {
		return nil, err
	}
	return ToIssueReply(created), nil
}

func (h *DisputeHandler) AcceptIssue(ctx context.Context, r *RespondIssueRequest) (*IssueReply, error) {
	accepted, err := h.issues.AcceptIssue(ctx, &issuedto.RespondIssueInput{
		IssueID:    r.IssueID,
		ActingUser: r.ActingUserID,
		Reason:     r.Reason,
	})
	if err != nil {
		return nil, err
	}
	return ToIssueReply(accepted), nil
}

func (h *DisputeHandler) RejectIssue(ctx context.Context, r *RespondIssueRequest) (*RejectIssueReply, error) {
	out, err := h.issues.RejectIssue(ctx, &issuedto.RespondIssueInput{
		IssueID:    r.IssueID,
		ActingUser: r.ActingUserID,
		Reason:     r.Reason,
	})
	if err != nil {
		return nil, err
	}
	return &RejectIssueReply{
		Issue:   ToIssueReply(out.Issue),
		Dispute: ToDisputeReply(out.Dispute),
	}, nil
}

func (h *DisputeHandler) GetIssue(ctx context.Context, r *GetByCodeRequest) (*IssueReply, error) {
	out, err := h.issues.GetIssueByCode(ctx, r.Code)
	if err != nil {
		return nil, err
	}
	return issueView(out), nil
}

func (h *DisputeHandler) CreateDispute(ctx context.Context, r *CreateDisputeRequest) (*DisputeReply, error) {
	created, err := h.disputes.CreateDispute(ctx, &disputedto.CreateDisputeInput{
		UserID:             r.UserID,
		SellerID:           r.SellerID,
		AdvertisementID:    r.AdvertisementID,
		Category:           domain.IssueType(r.Category),
		ProblemDescription: r.ProblemDescription,
		Priority:           domain.Priority(r.Priority),
	})
	if err != nil {
		return nil, err
	}
	return ToDisputeReply(created), nil
}

func (h *DisputeHandler) SubmitSellerResponse(ctx context.Context, r *SellerResponseRequest) (*DisputeReply, error) {
	updated, err := h.disputes.SubmitSellerResponse(ctx, &disputedto.SellerResponseInput{
		DisputeID: r.DisputeID,
		SellerID:  r.SellerID,
		Decision:  domain.SellerDecision(r.Decision),
		Response:  r.Response,
	})
	if err != nil {
		return nil, err
	}
	return ToDisputeReply(updated), nil
}

func (h *DisputeHandler) CreateResolution(ctx context.Context, r *CreateResolutionRequest) (*ResolutionReply, error) {
	resolution, err := h.disputes.CreateResolution(ctx, &disputedto.CreateResolutionInput{
		DisputeID:  r.DisputeID,
		Type:       domain.ResolutionType(r.Type),
		Amount:     r.Amount,
		Details:    r.Details,
		ResolvedBy: r.ResolvedBy,
	})
	if err != nil {
		return nil, err
	}
	return ToResolutionReply(resolution), nil
}

func (h *DisputeHandler) CloseDispute(ctx context.Context, r *CloseDisputeRequest) (*DisputeReply, error) {
	closed, err := h.disputes.CloseDispute(ctx, &disputedto.CloseDisputeInput{
		DisputeID:  r.DisputeID,
		ActingUser: r.ActingUserID,
		Reason:     r.Reason,
	})
	if err != nil {
		return nil, err
	}
	return ToDisputeReply(closed), nil
}

func (h *DisputeHandler) AddDisputeMessage(ctx context.Context, r *AddDisputeMessageRequest) (*MessageReply, error) {
	msg, err := h.disputes.AddMessage(ctx, &disputedto.AddMessageInput{
		DisputeID:   r.DisputeID,
		SenderID:    r.SenderID,
		MessageType: domain.MessageText,
		Body:        r.Body,
	})
	if err != nil {
		return nil, err
	}
	return ToDisputeMessageReply(msg), nil
}

func (h *DisputeHandler) GetDispute(ctx context.Context, r *GetByCodeRequest) (*DisputeReply, error) {
	out, err := h.disputes.GetDisputeByCode(ctx, r.Code)
	if err != nil {
		return nil, err
	}
	return disputeView(out), nil
}

func (h *DisputeHandler) EscalateDispute(ctx context.Context, r *EscalateDisputeRequest) (*ClaimReply, error) {
	created, err := h.escalation.EscalateDisputeToClaim(ctx, &claimdto.EscalateDisputeInput{
		DisputeID:          r.DisputeID,
		ClaimantID:         r.ClaimantID,
		Reason:             r.Reason,
		AdditionalEvidence: r.AdditionalEvidence,
		Mode:               domain.ResolutionMode(r.Mode),
	})
	if err != nil {
		return nil, err
	}
	return ToClaimReply(created), nil
}

func (h *DisputeHandler) AssignClaim(ctx context.Context, r *AssignClaimRequest) (*ClaimReply, error) {
	assigned, err := h.claims.AssignClaim(ctx, &claimdto.AssignClaimInput{
		ClaimID: r.ClaimID,
		AdminID: r.AdminID,
	})
	if err != nil {
		return nil, err
	}
	return ToClaimReply(assigned), nil
}

func (h *DisputeHandler) SubmitAdminDecision(ctx context.Context, r *AdminDecisionRequest) (*ClaimReply, error) {
	decided, err := h.claims.SubmitAdminDecision(ctx, &claimdto.AdminDecisionInput{
		ClaimID:  r.ClaimID,
		AdminID:  r.AdminID,
		Decision: domain.AdminDecision(r.Decision),
		Notes:    r.Notes,
		Amount:   r.Amount,
	})
	if err != nil {
		return nil, err
	}
	return ToClaimReply(decided), nil
}

func (h *DisputeHandler) SubmitPartyAnswer(ctx context.Context, r *PartyAnswerRequest) (*ClaimReply, error) {
	answered, err := h.claims.SubmitPartyAnswer(ctx, &claimdto.PartyAnswerInput{
		ClaimID:    r.ClaimID,
		ActingUser: r.ActingUserID,
		Answer:     domain.PartyAnswer(r.Answer),
	})
	if err != nil {
		return nil, err
	}
	return ToClaimReply(answered), nil
}

func (h *DisputeHandler) CloseClaim(ctx context.Context, r *CloseClaimRequest) (*ClaimReply, error) {
	closed, err := h.claims.CloseClaim(ctx, &claimdto.CloseClaimInput{
		ClaimID:    r.ClaimID,
		ActingUser: r.ActingUserID,
	})
	if err != nil {
		return nil, err
	}
	return ToClaimReply(closed), nil
}

func (h *DisputeHandler) GetClaim(ctx context.Context, r *GetByCodeRequest) (*ClaimReply, error) {
	out, err := h.claims.GetClaimByCode(ctx, r.Code)
	if err != nil {
		return nil, err
	}
	return claimView(out), nil
}
