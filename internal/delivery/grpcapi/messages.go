package grpcapi

import (
	"time"

	"github.com/shopspring/decimal"
)

// Requests carry the acting user id as authenticated by the gateway.

type CreateIssueRequest struct {
	CreatedBy       string `json:"created_by"`
	OtherPartyID    string `json:"other_party_id"`
	AdvertisementID string `json:"advertisement_id"`
	IssueType       string `json:"issue_type"`
	Description     string `json:"description"`
}

type RespondIssueRequest struct {
	IssueID      string `json:"issue_id"`
	ActingUserID string `json:"acting_user_id"`
	Reason       string `json:"reason,omitempty"`
}

type GetByCodeRequest struct {
	Code string `json:"code"`
}

type CreateDisputeRequest struct {
	UserID             string `json:"user_id"`
	SellerID           string `json:"seller_id"`
	AdvertisementID    string `json:"advertisement_id"`
	Category           string `json:"category"`
	ProblemDescription string `json:"problem_description"`
	Priority           string `json:"priority,omitempty"`
}

type SellerResponseRequest struct {
	DisputeID string `json:"dispute_id"`
	SellerID  string `json:"seller_id"`
	Decision  string `json:"decision"`
	Response  string `json:"response,omitempty"`
}

type CreateResolutionRequest struct {
	DisputeID  string           `json:"dispute_id"`
	Type       string           `json:"type"`
	Amount     *decimal.Decimal `json:"amount,omitempty"`
	Details    string           `json:"details,omitempty"`
	ResolvedBy string           `json:"resolved_by"`
}

type CloseDisputeRequest struct {
	DisputeID    string `json:"dispute_id"`
	ActingUserID string `json:"acting_user_id"`
	Reason       string `json:"reason,omitempty"`
}

type AddDisputeMessageRequest struct {
	DisputeID string `json:"dispute_id"`
	SenderID  string `json:"sender_id"`
	Body      string `json:"body"`
}

type EscalateDisputeRequest struct {
	DisputeID          string `json:"dispute_id"`
	ClaimantID         string `json:"claimant_id"`
	Reason             string `json:"reason"`
	AdditionalEvidence string `json:"additional_evidence,omitempty"`
	Mode               string `json:"mode,omitempty"`
}

type AssignClaimRequest struct {
	ClaimID string `json:"claim_id"`
	AdminID string `json:"admin_id"`
}

type AdminDecisionRequest struct {
	ClaimID  string           `json:"claim_id"`
	AdminID  string           `json:"admin_id"`
	Decision string           `json:"decision"`
	Notes    string           `json:"notes,omitempty"`
	Amount   *decimal.Decimal `json:"amount,omitempty"`
}

type PartyAnswerRequest struct {
	ClaimID      string `json:"claim_id"`
	ActingUserID string `json:"acting_user_id"`
	Answer       string `json:"answer"`
}

type CloseClaimRequest struct {
	ClaimID      string `json:"claim_id"`
	ActingUserID string `json:"acting_user_id"`
}

type IssueReply struct {
	ID                 string    `json:"id"`
	Code               string    `json:"code"`
	CreatedBy          string    `json:"created_by"`
	OtherPartyID       string    `json:"other_party_id"`
	IssueType          string    `json:"issue_type"`
	Status             string    `json:"status"`
	Deadline           time.Time `json:"deadline"`
	EscalatedDisputeID string    `json:"escalated_dispute_id,omitempty"`
	AwaitingSweep      bool      `json:"awaiting_sweep,omitempty"`
	UpdatedAt          time.Time `json:"updated_at"`
}

type RejectIssueReply struct {
	Issue   *IssueReply   `json:"issue"`
	Dispute *DisputeReply `json:"dispute"`
}

type DisputeReply struct {
	ID                  string     `json:"id"`
	Code                string     `json:"code"`
	UserID              string     `json:"user_id"`
	SellerID            string     `json:"seller_id"`
	IssueID             string     `json:"issue_id,omitempty"`
	DisputeType         string     `json:"dispute_type"`
	Status              string     `json:"status"`
	ResolutionStatus    string     `json:"resolution_status,omitempty"`
	Priority            string     `json:"priority"`
	Phase               string     `json:"phase"`
	NegotiationDeadline *time.Time `json:"negotiation_deadline,omitempty"`
	DisputeDeadline     *time.Time `json:"dispute_deadline,omitempty"`
	ResolutionDeadline  *time.Time `json:"resolution_deadline,omitempty"`
	ClaimDeadline       *time.Time `json:"claim_deadline,omitempty"`
	AwaitingSweep       bool       `json:"awaiting_sweep,omitempty"`
	PendingAction       string     `json:"pending_action,omitempty"`
}

type ResolutionReply struct {
	DisputeID string `json:"dispute_id"`
	Type      string `json:"type"`
	Amount    string `json:"amount,omitempty"`
	Details   string `json:"details,omitempty"`
}

type MessageReply struct {
	ID        string    `json:"id"`
	SenderID  string    `json:"sender_id,omitempty"`
	Type      string    `json:"type"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
}

type ClaimReply struct {
	ID             string    `json:"id"`
	Code           string    `json:"code"`
	DisputeID      string    `json:"dispute_id"`
	UserID         string    `json:"user_id"`
	SellerID       string    `json:"seller_id"`
	ResolutionMode string    `json:"resolution_mode"`
	Status         string    `json:"status"`
	Priority       string    `json:"priority"`
	AdminID        string    `json:"admin_id,omitempty"`
	AdminDecision  string    `json:"admin_decision,omitempty"`
	Amount         string    `json:"amount,omitempty"`
	WinnerID       string    `json:"winner_id,omitempty"`
	Deadline       time.Time `json:"deadline"`
	AwaitingSweep  bool      `json:"awaiting_sweep,omitempty"`
}
