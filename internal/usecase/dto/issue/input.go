package issuedto

import "github.com/roundbuy/backend-sub000/internal/domain"

type CreateIssueInput struct {
	CreatedBy       string
	OtherPartyID    string
	AdvertisementID string
	IssueType       domain.IssueType
	Description     string
}

type RespondIssueInput struct {
	IssueID    string
	ActingUser string
	Reason     string
}

type ListIssuesInput struct {
	PartyID *string
	Status  *domain.IssueStatus
	Page    int64
	Limit   int64
}
