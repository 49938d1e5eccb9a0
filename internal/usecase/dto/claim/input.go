package claimdto

import (
	"github.com/roundbuy/backend-sub000/internal/domain"
	"github.com/shopspring/decimal"
)

type EscalateDisputeInput struct {
	DisputeID          string
	ClaimantID         string
	Reason             string
	AdditionalEvidence string
	// Mode defaults to admin_decision.
	Mode domain.ResolutionMode
}

type AssignClaimInput struct {
	ClaimID string
	AdminID string
}

type AdminDecisionInput struct {
	ClaimID  string
	AdminID  string
	Decision domain.AdminDecision
	Notes    string
	Amount   *decimal.Decimal
}

type CloseClaimInput struct {
	ClaimID    string
	ActingUser string
}

type AddMessageInput struct {
	ClaimID     string
	SenderID    string
	MessageType domain.MessageType
	Body        string
}

type AddEvidenceInput struct {
	ClaimID    string
	UploadedBy string
	File       domain.EvidenceFile
}

type PartyAnswerInput struct {
	ClaimID    string
	ActingUser string
	Answer     domain.PartyAnswer
}

type ListClaimsInput struct {
	PartyID  *string
	AdminID  *string
	Status   *domain.ClaimStatus
	Priority *domain.Priority
	Page     int64
	Limit    int64
}
