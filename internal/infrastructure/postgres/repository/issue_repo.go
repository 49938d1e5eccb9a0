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

type DefaultIssueRepository struct {
	db *gorm.DB
}

func NewDefaultIssueRepository(db *gorm.DB) *DefaultIssueRepository {
	return &DefaultIssueRepository{db: db}
}

func (r *DefaultIssueRepository) Create(ctx context.Context, issue *domain.Issue) error {
	issueModel := mappers.ToGORMIssue(issue)
	if err := r.db.WithContext(ctx).Create(issueModel).Error; err != nil {
		return WrapError("create issue", err)
	}
	return nil
}

func (r *DefaultIssueRepository) Update(ctx context.Context, issue *domain.Issue) error {
	res := r.db.WithContext(ctx).
		Model(&models.IssueModel{}).
		Where("id = ?", issue.ID).
		Select("*").Omit("id", "code", "created_at").
		Updates(mappers.ToGORMIssue(issue))
	if res.Error != nil {
		return WrapError("update issue", res.Error)
	}
	if res.RowsAffected == 0 {
		return notFound("issue", issue.ID)
	}
	return nil
}

func (r *DefaultIssueRepository) get(ctx context.Context, lock bool, query string, arg any) (*domain.Issue, error) {
	db := r.db.WithContext(ctx)
	if lock {
		db = db.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	var issueModel models.IssueModel
	if err := db.Where(query, arg).First(&issueModel).Error; err != nil {
		return nil, WrapError("get issue", err)
	}
	return mappers.ToDomainIssue(&issueModel), nil
}

func (r *DefaultIssueRepository) GetByID(ctx context.Context, issueID string) (*domain.Issue, error) {
	return r.get(ctx, false, "id = ?", issueID)
}

func (r *DefaultIssueRepository) GetForUpdate(ctx context.Context, issueID string) (*domain.Issue, error) {
	return r.get(ctx, true, "id = ?", issueID)
}

func (r *DefaultIssueRepository) GetByCode(ctx context.Context, code string) (*domain.Issue, error) {
	return r.get(ctx, false, "code = ?", code)
}

func (r *DefaultIssueRepository) List(ctx context.Context, filter domain.IssueFilter) ([]*domain.Issue, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.IssueModel{})
	if filter.PartyID != nil {
		query = query.Where("created_by = ? OR other_party_id = ?", *filter.PartyID, *filter.PartyID)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", string(*filter.Status))
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, WrapError("count issues", err)
	}

	page := filter.Page.Normalize()
	var issueModels []models.IssueModel
	if err := query.Order("code DESC").Offset(page.Offset()).Limit(page.Limit).Find(&issueModels).Error; err != nil {
		return nil, 0, WrapError("list issues", err)
	}

	issues := make([]*domain.Issue, len(issueModels))
	for i := range issueModels {
		issues[i] = mappers.ToDomainIssue(&issueModels[i])
	}
	return issues, total, nil
}

func (r *DefaultIssueRepository) AddMessage(ctx context.Context, msg *domain.IssueMessage) error {
	if err := r.db.WithContext(ctx).Create(mappers.ToGORMIssueMessage(msg)).Error; err != nil {
		return WrapError("add issue message", err)
	}
	return nil
}

func (r *DefaultIssueRepository) ListMessages(ctx context.Context, issueID string) ([]*domain.IssueMessage, error) {
	var messageModels []models.IssueMessageModel
	if err := r.db.WithContext(ctx).
		Where("issue_id = ?", issueID).
		Order("created_at ASC, id ASC").
		Find(&messageModels).Error; err != nil {
		return nil, WrapError("list issue messages", err)
	}
	messages := make([]*domain.IssueMessage, len(messageModels))
	for i := range messageModels {
		messages[i] = mappers.ToDomainIssueMessage(&messageModels[i])
	}
	return messages, nil
}

func (r *DefaultIssueRepository) FindExpired(ctx context.Context, now time.Time, limit int) ([]*domain.Issue, error) {
	var issueModels []models.IssueModel
	if err := r.db.WithContext(ctx).
		Where("status = ?", string(domain.IssuePending)).
		Where("deadline < ?", now).
		Order("deadline ASC, code ASC").
		Limit(batchLimit(limit)).
		Find(&issueModels).Error; err != nil {
		return nil, WrapError("find expired issues", err)
	}
	issues := make([]*domain.Issue, len(issueModels))
	for i := range issueModels {
		issues[i] = mappers.ToDomainIssue(&issueModels[i])
	}
	return issues, nil
}
