package mappers

import (
	"github.com/roundbuy/backend-sub000/internal/domain"
	"github.com/roundbuy/backend-sub000/internal/infrastructure/postgres/models"
)

func ToDomainIssue(model *models.IssueModel) *domain.Issue {
	return &domain.Issue{
		ID:                 model.ID,
		Code:               model.Code,
		CreatedBy:          model.CreatedBy,
		OtherPartyID:       model.OtherPartyID,
		AdvertisementID:    model.AdvertisementID,
		Type:               domain.IssueType(model.IssueType),
		Description:        model.Description,
		Status:             domain.IssueStatus(model.Status),
		Deadline:           model.Deadline.UTC(),
		AcceptedAt:         model.AcceptedAt,
		RejectedAt:         model.RejectedAt,
		EscalatedAt:        model.EscalatedAt,
		ExpiredAt:          model.ExpiredAt,
		RejectionReason:    model.RejectionReason,
		EscalatedDisputeID: model.EscalatedDisputeID,
		CreatedAt:          model.CreatedAt,
		UpdatedAt:          model.UpdatedAt,
	}
}

func ToGORMIssue(issue *domain.Issue) *models.IssueModel {
	return &models.IssueModel{
		ID:                 issue.ID,
		Code:               issue.Code,
		CreatedBy:          issue.CreatedBy,
		OtherPartyID:       issue.OtherPartyID,
		AdvertisementID:    issue.AdvertisementID,
		IssueType:          string(issue.Type),
		Description:        issue.Description,
		Status:             string(issue.Status),
		Deadline:           issue.Deadline,
		AcceptedAt:         issue.AcceptedAt,
		RejectedAt:         issue.RejectedAt,
		EscalatedAt:        issue.EscalatedAt,
		ExpiredAt:          issue.ExpiredAt,
		RejectionReason:    issue.RejectionReason,
		EscalatedDisputeID: issue.EscalatedDisputeID,
		CreatedAt:          issue.CreatedAt,
		UpdatedAt:          issue.UpdatedAt,
	}
}

func ToDomainIssueMessage(model *models.IssueMessageModel) *domain.IssueMessage {
	return &domain.IssueMessage{
		ID:          model.ID,
		IssueID:     model.IssueID,
		SenderID:    model.SenderID,
		MessageType: domain.MessageType(model.MessageType),
		Body:        model.Body,
		CreatedAt:   model.CreatedAt,
	}
}

func ToGORMIssueMessage(msg *domain.IssueMessage) *models.IssueMessageModel {
	return &models.IssueMessageModel{
		ID:          msg.ID,
		IssueID:     msg.IssueID,
		SenderID:    msg.SenderID,
		MessageType: string(msg.MessageType),
		Body:        msg.Body,
		CreatedAt:   msg.CreatedAt,
	}
}
