package repository

import (
	"context"
	"time"

	"github.com/roundbuy/backend-sub000/internal/domain"
	"github.com/roundbuy/backend-sub000/internal/infrastructure/postgres/mappers"
	"github.com/roundbuy/backend-sub000/internal/infrastructure/postgres/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type DefaultClaimRepository struct {
	db *gorm.DB
}

func NewDefaultClaimRepository(db *gorm.DB) *DefaultClaimRepository {
	return &DefaultClaimRepository{db: db}
}

func (r *DefaultClaimRepository) Create(ctx context.Context, claim *domain.Claim) error {
	if err := r.db.WithContext(ctx).Create(mappers.ToGORMClaim(claim)).Error; err != nil {
		return WrapError("create claim", err)
	}
	return nil
}

func (r *DefaultClaimRepository) Update(ctx context.Context, claim *domain.Claim) error {
	res := r.db.WithContext(ctx).
		Model(&models.ClaimModel{}).
		Where("id = ?", claim.ID).
		Select("*").Omit("id", "code", "dispute_id", "created_at").
		Updates(mappers.ToGORMClaim(claim))
	if res.Error != nil {
		return WrapError("update claim", res.Error)
	}
	if res.RowsAffected == 0 {
		return notFound("claim", claim.ID)
	}
	return nil
}

func (r *DefaultClaimRepository) get(ctx context.Context, lock bool, query string, arg any) (*domain.Claim, error) {
	db := r.db.WithContext(ctx)
	if lock {
		db = db.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	var claimModel models.ClaimModel
	if err := db.Where(query, arg).First(&claimModel).Error; err != nil {
		return nil, WrapError("get claim", err)
	}
	return mappers.ToDomainClaim(&claimModel), nil
}

func (r *DefaultClaimRepository) GetByID(ctx context.Context, claimID string) (*domain.Claim, error) {
	return r.get(ctx, false, "id = ?", claimID)
}

func (r *DefaultClaimRepository) GetForUpdate(ctx context.Context, claimID string) (*domain.Claim, error) {
	return r.get(ctx, true, "id = ?", claimID)
}

func (r *DefaultClaimRepository) GetByCode(ctx context.Context, code string) (*domain.Claim, error) {
	return r.get(ctx, false, "code = ?", code)
}

func (r *DefaultClaimRepository) GetByDisputeID(ctx context.Context, disputeID string) (*domain.Claim, error) {
	return r.get(ctx, false, "dispute_id = ?", disputeID)
}

func (r *DefaultClaimRepository) List(ctx context.Context, filter domain.ClaimFilter) ([]*domain.Claim, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.ClaimModel{})
	if filter.PartyID != nil {
		query = query.Where("user_id = ? OR seller_id = ?", *filter.PartyID, *filter.PartyID)
	}
	if filter.AdminID != nil {
		query = query.Where("admin_id = ?", *filter.AdminID)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", string(*filter.Status))
	}
	if filter.Priority != nil {
		query = query.Where("priority = ?", string(*filter.Priority))
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, WrapError("count claims", err)
	}

	page := filter.Page.Normalize()
	var claimModels []models.ClaimModel
	if err := query.Order("code DESC").Offset(page.Offset()).Limit(page.Limit).Find(&claimModels).Error; err != nil {
		return nil, 0, WrapError("list claims", err)
	}

	claims := make([]*domain.Claim, len(claimModels))
	for i := range claimModels {
		claims[i] = mappers.ToDomainClaim(&claimModels[i])
	}
	return claims, total, nil
}

func (r *DefaultClaimRepository) AddMessage(ctx context.Context, msg *domain.ClaimMessage) error {
	if err := r.db.WithContext(ctx).Create(mappers.ToGORMClaimMessage(msg)).Error; err != nil {
		return WrapError("add claim message", err)
	}
	return nil
}

func (r *DefaultClaimRepository) ListMessages(ctx context.Context, claimID string) ([]*domain.ClaimMessage, error) {
	var messageModels []models.ClaimMessageModel
	if err := r.db.WithContext(ctx).
		Where("claim_id = ?", claimID).
		Order("created_at ASC, id ASC").
		Find(&messageModels).Error; err != nil {
		return nil, WrapError("list claim messages", err)
	}
	messages := make([]*domain.ClaimMessage, len(messageModels))
	for i := range messageModels {
		messages[i] = mappers.ToDomainClaimMessage(&messageModels[i])
	}
	return messages, nil
}

func (r *DefaultClaimRepository) AddEvidence(ctx context.Context, ev *domain.ClaimEvidence) error {
	if err := r.db.WithContext(ctx).Create(mappers.ToGORMClaimEvidence(ev)).Error; err != nil {
		return WrapError("add claim evidence", err)
	}
	return nil
}

func (r *DefaultClaimRepository) ListEvidence(ctx context.Context, claimID string) ([]*domain.ClaimEvidence, error) {
	var evidenceModels []models.ClaimEvidenceModel
	if err := r.db.WithContext(ctx).
		Where("claim_id = ?", claimID).
		Order("uploaded_at ASC, id ASC").
		Find(&evidenceModels).Error; err != nil {
		return nil, WrapError("list claim evidence", err)
	}
	evidence := make([]*domain.ClaimEvidence, len(evidenceModels))
	for i := range evidenceModels {
		evidence[i] = mappers.ToDomainClaimEvidence(&evidenceModels[i])
	}
	return evidence, nil
}

func (r *DefaultClaimRepository) FindOverdue(ctx context.Context, now time.Time, limit int) ([]*domain.Claim, error) {
	var claimModels []models.ClaimModel
	err := r.db.WithContext(ctx).
		Where("deadline < ?", now).
		Where(r.db.
			Where("status = ?", string(domain.ClaimPending)).
			Or("status = ? AND priority <> ?", string(domain.ClaimUnderReview), string(domain.PriorityUrgent))).
		Order("deadline ASC").
		Limit(batchLimit(limit)).
		Find(&claimModels).Error
	if err != nil {
		return nil, WrapError("find overdue claims", err)
	}
	claims := make([]*domain.Claim, len(claimModels))
	for i := range claimModels {
		claims[i] = mappers.ToDomainClaim(&claimModels[i])
	}
	return claims, nil
}
