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

type DefaultDisputeRepository struct {
	db *gorm.DB
}

func NewDefaultDisputeRepository(db *gorm.DB) *DefaultDisputeRepository {
	return &DefaultDisputeRepository{db: db}
}

func (r *DefaultDisputeRepository) Create(ctx context.Context, dispute *domain.Dispute) error {
	if err := r.db.WithContext(ctx).Create(mappers.ToGORMDispute(dispute)).Error; err != nil {
		return WrapError("create dispute", err)
	}
	return nil
}

func (r *DefaultDisputeRepository) Update(ctx context.Context, dispute *domain.Dispute) error {
	res := r.db.WithContext(ctx).
		Model(&models.DisputeModel{}).
		Where("id = ?", dispute.ID).
		Select("*").Omit("id", "code", "created_at").
		Updates(mappers.ToGORMDispute(dispute))
	if res.Error != nil {
		return WrapError("update dispute", res.Error)
	}
	if res.RowsAffected == 0 {
		return notFound("dispute", dispute.ID)
	}
	return nil
}

func (r *DefaultDisputeRepository) get(ctx context.Context, lock bool, query string, arg any) (*domain.Dispute, error) {
	db := r.db.WithContext(ctx)
	if lock {
		db = db.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	var disputeModel models.DisputeModel
	if err := db.Where(query, arg).First(&disputeModel).Error; err != nil {
		return nil, WrapError("get dispute", err)
	}
	return mappers.ToDomainDispute(&disputeModel), nil
}

func (r *DefaultDisputeRepository) GetByID(ctx context.Context, disputeID string) (*domain.Dispute, error) {
	return r.get(ctx, false, "id = ?", disputeID)
}

func (r *DefaultDisputeRepository) GetForUpdate(ctx context.Context, disputeID string) (*domain.Dispute, error) {
	return r.get(ctx, true, "id = ?", disputeID)
}

func (r *DefaultDisputeRepository) GetByCode(ctx context.Context, code string) (*domain.Dispute, error) {
	return r.get(ctx, false, "code = ?", code)
}

func (r *DefaultDisputeRepository) List(ctx context.Context, filter domain.DisputeFilter) ([]*domain.Dispute, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.DisputeModel{})
	if filter.PartyID != nil {
		query = query.Where("user_id = ? OR seller_id = ?", *filter.PartyID, *filter.PartyID)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", string(*filter.Status))
	}
	if filter.Phase != nil {
		query = query.Where("phase = ?", string(*filter.Phase))
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, WrapError("count disputes", err)
	}

	page := filter.Page.Normalize()
	var disputeModels []models.DisputeModel
	if err := query.Order("code DESC").Offset(page.Offset()).Limit(page.Limit).Find(&disputeModels).Error; err != nil {
		return nil, 0, WrapError("list disputes", err)
	}

	disputes := make([]*domain.Dispute, len(disputeModels))
	for i := range disputeModels {
		disputes[i] = mappers.ToDomainDispute(&disputeModels[i])
	}
	return disputes, total, nil
}

func (r *DefaultDisputeRepository) AddMessage(ctx context.Context, msg *domain.DisputeMessage) error {
	if err := r.db.WithContext(ctx).Create(mappers.ToGORMDisputeMessage(msg)).Error; err != nil {
		return WrapError("add dispute message", err)
	}
	return nil
}

func (r *DefaultDisputeRepository) ListMessages(ctx context.Context, disputeID string) ([]*domain.DisputeMessage, error) {
	var messageModels []models.DisputeMessageModel
	if err := r.db.WithContext(ctx).
		Where("dispute_id = ?", disputeID).
		Order("created_at ASC, id ASC").
		Find(&messageModels).Error; err != nil {
		return nil, WrapError("list dispute messages", err)
	}
	messages := make([]*domain.DisputeMessage, len(messageModels))
	for i := range messageModels {
		messages[i] = mappers.ToDomainDisputeMessage(&messageModels[i])
	}
	return messages, nil
}

func (r *DefaultDisputeRepository) AddEvidence(ctx context.Context, ev *domain.DisputeEvidence) error {
	if err := r.db.WithContext(ctx).Create(mappers.ToGORMDisputeEvidence(ev)).Error; err != nil {
		return WrapError("add dispute evidence", err)
	}
	return nil
}

func (r *DefaultDisputeRepository) ListEvidence(ctx context.Context, disputeID string) ([]*domain.DisputeEvidence, error) {
	var evidenceModels []models.DisputeEvidenceModel
	if err := r.db.WithContext(ctx).
		Where("dispute_id = ?", disputeID).
		Order("uploaded_at ASC, id ASC").
		Find(&evidenceModels).Error; err != nil {
		return nil, WrapError("list dispute evidence", err)
	}
	evidence := make([]*domain.DisputeEvidence, len(evidenceModels))
	for i := range evidenceModels {
		evidence[i] = mappers.ToDomainDisputeEvidence(&evidenceModels[i])
	}
	return evidence, nil
}

func (r *DefaultDisputeRepository) AddEligibilityChecks(ctx context.Context, checks []*domain.EligibilityCheck) error {
	if len(checks) == 0 {
		return nil
	}
	checkModels := make([]*models.EligibilityCheckModel, len(checks))
	for i, check := range checks {
		checkModels[i] = mappers.ToGORMEligibilityCheck(check)
	}
	if err := r.db.WithContext(ctx).Create(checkModels).Error; err != nil {
		return WrapError("add eligibility checks", err)
	}
	return nil
}

func (r *DefaultDisputeRepository) ListEligibilityChecks(ctx context.Context, disputeID string) ([]*domain.EligibilityCheck, error) {
	var checkModels []models.EligibilityCheckModel
	if err := r.db.WithContext(ctx).
		Where("dispute_id = ?", disputeID).
		Order("checked_at ASC, id ASC").
		Find(&checkModels).Error; err != nil {
		return nil, WrapError("list eligibility checks", err)
	}
	checks := make([]*domain.EligibilityCheck, len(checkModels))
	for i := range checkModels {
		checks[i] = mappers.ToDomainEligibilityCheck(&checkModels[i])
	}
	return checks, nil
}

func (r *DefaultDisputeRepository) AddResolution(ctx context.Context, res *domain.DisputeResolution) error {
	if err := r.db.WithContext(ctx).Create(mappers.ToGORMResolution(res)).Error; err != nil {
		return WrapError("add resolution", err)
	}
	return nil
}

func (r *DefaultDisputeRepository) GetResolution(ctx context.Context, disputeID string) (*domain.DisputeResolution, error) {
	var resolutionModel models.DisputeResolutionModel
	if err := r.db.WithContext(ctx).Where("dispute_id = ?", disputeID).First(&resolutionModel).Error; err != nil {
		return nil, WrapError("get resolution", err)
	}
	return mappers.ToDomainResolution(&resolutionModel), nil
}

// FindOverdue preselects candidates in SQL; Dispute.OverdueAction has the
// final word once the caller holds the row lock.
func (r *DefaultDisputeRepository) FindOverdue(ctx context.Context, now time.Time, limit int) ([]*domain.Dispute, error) {
	var disputeModels []models.DisputeModel
	err := r.db.WithContext(ctx).
		Where("phase = ?", string(domain.PhaseDispute)).
		Where("status NOT IN ?", []string{
			string(domain.DisputeResolved), string(domain.DisputeClosed), string(domain.DisputeEscalated),
		}).
		Where(r.db.
			Where("dispute_deadline < ?", now).
			Or("resolution_deadline < ?", now).
			Or("status = ? AND seller_decision IS NULL AND negotiation_deadline < ?", string(domain.DisputePending), now)).
		Order("code ASC").
		Limit(batchLimit(limit)).
		Find(&disputeModels).Error
	if err != nil {
		return nil, WrapError("find overdue disputes", err)
	}
	disputes := make([]*domain.Dispute, len(disputeModels))
	for i := range disputeModels {
		disputes[i] = mappers.ToDomainDispute(&disputeModels[i])
	}
	return disputes, nil
}
