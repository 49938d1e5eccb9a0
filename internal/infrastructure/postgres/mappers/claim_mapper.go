package mappers

import (
	"github.com/roundbuy/backend-sub000/internal/domain"
	"github.com/roundbuy/backend-sub000/internal/infrastructure/postgres/models"
)

func ToDomainClaim(model *models.ClaimModel) *domain.Claim {
	return &domain.Claim{
		ID:                      model.ID,
		Code:                    model.Code,
		DisputeID:               model.DisputeID,
		UserID:                  model.UserID,
		SellerID:                model.SellerID,
		AdvertisementID:         model.AdvertisementID,
		ClaimReason:             model.ClaimReason,
		BuyerAdditionalEvidence: model.BuyerAdditionalEvidence,
		ResolutionMode:          domain.ResolutionMode(model.ResolutionMode),
		AdminID:                 model.AdminID,
		AdminDecision:           toEnumPtr[domain.AdminDecision](model.AdminDecision),
		AdminNotes:              model.AdminNotes,
		ResolutionAmount:        toDecimalPtr(model.ResolutionAmount),
		BuyerAnswer:             toEnumPtr[domain.PartyAnswer](model.BuyerAnswer),
		SellerAnswer:            toEnumPtr[domain.PartyAnswer](model.SellerAnswer),
		WinnerID:                model.WinnerID,
		Status:                  domain.ClaimStatus(model.Status),
		Priority:                domain.Priority(model.Priority),
		Deadline:                model.Deadline.UTC(),
		AssignedAt:              model.AssignedAt,
		ResolvedAt:              model.ResolvedAt,
		ClosedAt:                model.ClosedAt,
		CreatedAt:               model.CreatedAt,
		UpdatedAt:               model.UpdatedAt,
	}
}

func ToGORMClaim(claim *domain.Claim) *models.ClaimModel {
	return &models.ClaimModel{
		ID:                      claim.ID,
		Code:                    claim.Code,
		DisputeID:               claim.DisputeID,
		UserID:                  claim.UserID,
		SellerID:                claim.SellerID,
		AdvertisementID:         claim.AdvertisementID,
		ClaimReason:             claim.ClaimReason,
		BuyerAdditionalEvidence: claim.BuyerAdditionalEvidence,
		ResolutionMode:          string(claim.ResolutionMode),
		AdminID:                 claim.AdminID,
		AdminDecision:           fromEnumPtr(claim.AdminDecision),
		AdminNotes:              claim.AdminNotes,
		ResolutionAmount:        fromDecimalPtr(claim.ResolutionAmount),
		BuyerAnswer:             fromEnumPtr(claim.BuyerAnswer),
		SellerAnswer:            fromEnumPtr(claim.SellerAnswer),
		WinnerID:                claim.WinnerID,
		Status:                  string(claim.Status),
		Priority:                string(claim.Priority),
		Deadline:                claim.Deadline,
		AssignedAt:              claim.AssignedAt,
		ResolvedAt:              claim.ResolvedAt,
		ClosedAt:                claim.ClosedAt,
		CreatedAt:               claim.CreatedAt,
		UpdatedAt:               claim.UpdatedAt,
	}
}

func ToDomainClaimMessage(model *models.ClaimMessageModel) *domain.ClaimMessage {
	return &domain.ClaimMessage{
		ID:          model.ID,
		ClaimID:     model.ClaimID,
		SenderID:    model.SenderID,
		MessageType: domain.MessageType(model.MessageType),
		Body:        model.Body,
		CreatedAt:   model.CreatedAt,
	}
}

func ToGORMClaimMessage(msg *domain.ClaimMessage) *models.ClaimMessageModel {
	return &models.ClaimMessageModel{
		ID:          msg.ID,
		ClaimID:     msg.ClaimID,
		SenderID:    msg.SenderID,
		MessageType: string(msg.MessageType),
		Body:        msg.Body,
		CreatedAt:   msg.CreatedAt,
	}
}

func ToDomainClaimEvidence(model *models.ClaimEvidenceModel) *domain.ClaimEvidence {
	return &domain.ClaimEvidence{
		ID:      model.ID,
		ClaimID: model.ClaimID,
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

func ToGORMClaimEvidence(ev *domain.ClaimEvidence) *models.ClaimEvidenceModel {
	return &models.ClaimEvidenceModel{
		ID:          ev.ID,
		ClaimID:     ev.ClaimID,
		FileType:    ev.FileType,
		FilePath:    ev.FilePath,
		FileName:    ev.FileName,
		FileSize:    ev.FileSize,
		Description: ev.Description,
		UploadedBy:  ev.UploadedBy,
		UploadedAt:  ev.UploadedAt,
	}
}
