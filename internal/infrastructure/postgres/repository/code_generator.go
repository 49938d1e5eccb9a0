package repository

import (
	"context"

	"github.com/roundbuy/backend-sub000/internal/domain"
	"github.com/roundbuy/backend-sub000/internal/infrastructure/postgres/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// DefaultCodeGenerator bumps reference_counters inside the caller's
// transaction. The row lock serializes concurrent creators and a rollback
// hands the number back, so codes stay dense.
type DefaultCodeGenerator struct {
	db *gorm.DB
}

func NewDefaultCodeGenerator(db *gorm.DB) *DefaultCodeGenerator {
	return &DefaultCodeGenerator{db: db}
}

func (g *DefaultCodeGenerator) Next(ctx context.Context, kind domain.CodeKind) (string, error) {
	var counter models.ReferenceCounterModel
	res := g.db.WithContext(ctx).
		Model(&counter).
		Clauses(clause.Returning{Columns: []clause.Column{{Name: "kind"}, {Name: "last_value"}}}).
		Where("kind = ?", string(kind)).
		Update("last_value", gorm.Expr("last_value + 1"))
	if res.Error != nil {
		return "", WrapError("next reference code", res.Error)
	}
	if res.RowsAffected == 0 {
		return "", notFound("reference counter", string(kind))
	}
	return domain.FormatCode(kind, counter.LastValue)
}
