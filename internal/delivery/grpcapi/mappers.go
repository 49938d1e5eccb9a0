package grpcapi

import (
	"github.com/roundbuy/backend-sub000/internal/domain"
	claimdto "github.com/roundbuy/backend-sub000/internal/usecase/dto/claim"
	disputedto "github.com/roundbuy/backend-sub000/internal/usecase/dto/dispute"
	issuedto "github.com/roundbuy/backend-sub000/internal/usecase/dto/issue"
)

func deref[T ~string](p *T) string {
	if p == nil {
		return ""
	}
	return string(*p)
}

func ToIssueReply(issue *domain.Issue) *IssueReply {
	return &IssueReply{
		ID:                 issue.ID,
		Code:               issue.Code,
		CreatedBy:          issue.CreatedBy,
		OtherPartyID:       issue.OtherPartyID,
		IssueType:          string(issue.Type),
		Status:             string(issue.Status),
		Deadline:           issue.Deadline,
		EscalatedDisputeID: deref(issue.EscalatedDisputeID),
		UpdatedAt:          issue.UpdatedAt,
	}
}

func issueView(out *issuedto.IssueOutput) *IssueReply {
	reply := ToIssueReply(out.Issue)
	reply.AwaitingSweep = out.AwaitingSweep
	return reply
}

func ToDisputeReply(d *domain.Dispute) *DisputeReply {
	return &DisputeReply{
		ID:                  d.ID,
		Code:                d.Code,
		UserID:              d.UserID,
		SellerID:            d.SellerID,
		IssueID:             deref(d.IssueID),
		DisputeType:         string(d.Type),
		Status:              string(d.Status),
		ResolutionStatus:    deref(d.ResolutionStatus),
		Priority:            string(d.Priority),
		Phase:               string(d.Phase),
		NegotiationDeadline: d.NegotiationDeadline,
		DisputeDeadline:     d.DisputeDeadline,
		ResolutionDeadline:  d.ResolutionDeadline,
		ClaimDeadline:       d.ClaimDeadline,
	}
}

func disputeView(out *disputedto.DisputeOutput) *DisputeReply {
	reply := ToDisputeReply(out.Dispute)
	reply.AwaitingSweep = out.AwaitingSweep
	reply.PendingAction = string(out.PendingAction)
	return reply
}

func ToResolutionReply(r *domain.DisputeResolution) *ResolutionReply {
	reply := &ResolutionReply{
		DisputeID: r.DisputeID,
		Type:      string(r.Type),
		Details:   r.Details,
	}
	if r.Amount != nil {
		reply.Amount = r.Amount.StringFixed(domain.MoneyScale)
	}
	return reply
}

func ToDisputeMessageReply(m *domain.DisputeMessage) *MessageReply {
	return &MessageReply{
		ID:        m.ID,
		SenderID:  deref(m.SenderID),
		Type:      string(m.MessageType),
		Body:      m.Body,
		CreatedAt: m.CreatedAt,
	}
}

func ToClaimReply(c *domain.Claim) *ClaimReply {
	reply := &ClaimReply{
		ID:             c.ID,
		Code:           c.Code,
		DisputeID:      c.DisputeID,
		UserID:         c.UserID,
		SellerID:       c.SellerID,
		ResolutionMode: string(c.ResolutionMode),
		Status:         string(c.Status),
		Priority:       string(c.Priority),
		AdminID:        deref(c.AdminID),
		AdminDecision:  deref(c.AdminDecision),
		WinnerID:       deref(c.WinnerID),
		Deadline:       c.Deadline,
	}
	if c.ResolutionAmount != nil {
		reply.Amount = c.ResolutionAmount.StringFixed(domain.MoneyScale)
	}
	return reply
}

func claimView(out *claimdto.ClaimOutput) *ClaimReply {
	reply := ToClaimReply(out.Claim)
	reply.AwaitingSweep = out.AwaitingSweep
	return reply
}
