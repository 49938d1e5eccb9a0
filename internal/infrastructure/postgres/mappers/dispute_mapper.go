package mappers

import (
	"github.com/roundbuy/backend-sub000/internal/domain"
	"github.com/roundbuy/backend-sub000/internal/infrastructure/postgres/models"
)

func ToDomainDispute(model *models.DisputeModel) *domain.Dispute {
	return &domain.Dispute{
		ID:                  model.ID,
		Code:                model.Code,
		UserID:              model.UserID,
		SellerID:            model.SellerID,
		AdvertisementID:     model.AdvertisementID,
		IssueID:             model.IssueID,
		Type:                domain.DisputeType(model.DisputeType),
		Category:            domain.IssueType(model.Category),
		ProblemDescription:  model.ProblemDescription,
		Status:              domain.DisputeStatus(model.Status),
		ResolutionStatus:    toEnumPtr[domain.ResolutionStatus](model.ResolutionStatus),
		Priority:            domain.Priority(model.Priority),
		Phase:               domain.Phase(model.Phase),
		NegotiationDeadline: model.NegotiationDeadline,
		DisputeDeadline:     model.DisputeDeadline,
		ClaimDeadline:       model.ClaimDeadline,
		ResolutionDeadline:  model.ResolutionDeadline,
		SellerResponse:      model.SellerResponse,
		SellerDecision:      toEnumPtr[domain.SellerDecision](model.SellerDecision),
		SellerRespondedAt:   model.SellerRespondedAt,
		ClosedAt:            model.ClosedAt,
		CreatedAt:           model.CreatedAt,
		UpdatedAt:           model.UpdatedAt,
	}
}

func ToGORMDispute(dispute *domain.Dispute) *models.DisputeModel {
	return &models.DisputeModel{
		ID:                  dispute.ID,
		Code:                dispute.Code,
		UserID:              dispute.UserID,
		SellerID:            dispute.SellerID,
		AdvertisementID:     dispute.AdvertisementID,
		IssueID:             dispute.IssueID,
		DisputeType:         string(dispute.Type),
		Category:            string(dispute.Category),
		ProblemDescription:  dispute.ProblemDescription,
		Status:              string(dispute.Status),
		ResolutionStatus:    fromEnumPtr(dispute.ResolutionStatus),
		Priority:            string(dispute.Priority),
		Phase:               string(dispute.Phase),
		NegotiationDeadline: dispute.NegotiationDeadline,
		DisputeDeadline:     dispute.DisputeDeadline,
		ClaimDeadline:       dispute.ClaimDeadline,
		ResolutionDeadline:  dispute.ResolutionDeadline,
		SellerResponse:      dispute.SellerResponse,
		SellerDecision:      fromEnumPtr(dispute.SellerDecision),
		SellerRespondedAt:   dispute.SellerRespondedAt,
		ClosedAt:            dispute.ClosedAt,
		CreatedAt:           dispute.CreatedAt,
		UpdatedAt:           dispute.UpdatedAt,
	}
}

func ToDomainDisputeMessage(model *models.DisputeMessageModel) *domain.DisputeMessage {
	return &domain.DisputeMessage{
		ID:          model.ID,
		DisputeID:   model.DisputeID,
		SenderID:    model.SenderID,
		MessageType: domain.MessageType(model.MessageType),
		Body:        model.Body,
		CreatedAt:   model.CreatedAt,
	}
}

func ToGORMDisputeMessage(msg *domain.DisputeMessage) *models.DisputeMessageModel {
	return &models.DisputeMessageModel{
		ID:          msg.ID,
		DisputeID:   msg.DisputeID,
		SenderID:    msg.SenderID,
		MessageType: string(msg.MessageType),
		Body:        msg.Body,
		CreatedAt:   msg.CreatedAt,
	}
}

func ToDomainDisputeEvidence(model *models.DisputeEvidenceModel) *domain.DisputeEvidence {
	return &domain.DisputeEvidence{
		ID:        model.ID,
		DisputeID: model.DisputeID,
		EvidenceFile: domain.EvidenceFile{
			FileType:    model.FileType,
			FilePath:    model.FilePath,
			FileName:    model.FileName,
			FileSize:    model.FileSize,
			Description: model.Description,
		},
		UploadedBy: model.UploadedBy,
		UploadedAt: model.UploadedAt,
	}
}

func ToGORMDisputeEvidence(ev *domain.DisputeEvidence) *models.DisputeEvidenceModel {
	return &models.DisputeEvidenceModel{
		ID:          ev.ID,
		DisputeID:   ev.DisputeID,
		FileType:    ev.FileType,
		FilePath:    ev.FilePath,
		FileName:    ev.FileName,
		FileSize:    ev.FileSize,
		Description: ev.Description,
		UploadedBy:  ev.UploadedBy,
		UploadedAt:  ev.UploadedAt,
	}
}

func ToDomainEligibilityCheck(model *models.EligibilityCheckModel) *domain.EligibilityCheck {
	return &domain.EligibilityCheck{
		ID:        model.ID,
		DisputeID: model.DisputeID,
		CheckName: model.CheckName,
		Passed:    model.Passed,
		Reason:    model.Reason,
		CheckedAt: model.CheckedAt,
	}
}

func ToGORMEligibilityCheck(check *domain.EligibilityCheck) *models.EligibilityCheckModel {
	return &models.EligibilityCheckModel{
		ID:        check.ID,
		DisputeID: check.DisputeID,
		CheckName: check.CheckName,
		Passed:    check.Passed,
		Reason:    check.Reason,
		CheckedAt: check.CheckedAt,
	}
}

func ToDomainResolution(model *models.DisputeResolutionModel) *domain.DisputeResolution {
	return &domain.DisputeResolution{
		ID:         model.ID,
		DisputeID:  model.DisputeID,
		Type:       domain.ResolutionType(model.ResolutionType),
		Amount:     toDecimalPtr(model.Amount),
		Details:    model.Details,
		ResolvedBy: model.ResolvedBy,
		CreatedAt:  model.CreatedAt,
	}
}

func ToGORMResolution(res *domain.DisputeResolution) *models.DisputeResolutionModel {
	return &models.DisputeResolutionModel{
		ID:             res.ID,
		DisputeID:      res.DisputeID,
		ResolutionType: string(res.Type),
		Amount:         fromDecimalPtr(res.Amount),
		Details:        res.Details,
		ResolvedBy:     res.ResolvedBy,
		CreatedAt:      res.CreatedAt,
	}
}
