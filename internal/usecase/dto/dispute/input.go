package disputedto

import (
	"github.com/roundbuy/backend-sub000/internal/domain"
	"github.com/shopspring/decimal"
)

// CreateDisputeInput opens a direct dispute. Disputes tied to an issue are
// only ever opened by rejecting that issue.
type CreateDisputeInput struct {
	UserID             string
	SellerID           string
	AdvertisementID    string
	Category           domain.IssueType
	ProblemDescription string
	Priority           domain.Priority
}

type AddMessageInput struct {
	DisputeID   string
	SenderID    string
	MessageType domain.MessageType
	Body        string
}

type UploadEvidenceInput struct {
	DisputeID  string
	UploadedBy string
	File       domain.EvidenceFile
}

type EligibilityCheckInput struct {
	Name   string
	Passed bool
	Reason string
}

type RecordEligibilityChecksInput struct {
	DisputeID string
	Checks    []EligibilityCheckInput
}

type SellerResponseInput struct {
	DisputeID string
	SellerID  string
	Decision  domain.SellerDecision
	Response  string
}

type UpdateStatusInput struct {
	DisputeID  string
	ActingUser string
	Status     domain.DisputeStatus
}

type CreateResolutionInput struct {
	DisputeID  string
	Type       domain.ResolutionType
	Amount     *decimal.Decimal
	Details    string
	ResolvedBy string
}

type CloseDisputeInput struct {
	DisputeID  string
	ActingUser string
	Reason     string
}

type ListDisputesInput struct {
	PartyID *string
	Status  *domain.DisputeStatus
	Phase   *domain.Phase
	Page    int64
	Limit   int64
}
