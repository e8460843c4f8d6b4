package repository

import (
	"context"

	"fashun-backend/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type VariantRepo interface {
	CreateBatch(ctx context.Context, variants []models.ProductVariant) error
	ListByProduct(ctx context.Context, productID uuid.UUID) ([]models.ProductVariant, error)
	UpdateStock(ctx context.Context, variantID uuid.UUID, stock int32) error
	SumStock(ctx context.Context, productID uuid.UUID) (int64, error)
}

type variantRepo struct{ db *gorm.DB }

func NewVariantRepo(db *gorm.DB) VariantRepo { return &variantRepo{db: db} }

func (r *variantRepo) CreateBatch(ctx context.Context, variants []models.ProductVariant) error {
	if len(variants) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&variants).Error
}

func (r *variantRepo) ListByProduct(ctx context.Context, productID uuid.UUID) ([]models.ProductVariant, error) {
	var list []models.ProductVariant
	err := r.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Order("size, color").
		Find(&list).Error
	return list, err
}

func (r *variantRepo) UpdateStock(ctx context.Context, variantID uuid.UUID, stock int32) error {
	return r.db.WithContext(ctx).Model(&models.ProductVariant{}).
		Where("id = ?", variantID).
		Update("stock", stock).Error
}

func (r *variantRepo) SumStock(ctx context.Context, productID uuid.UUID) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&models.ProductVariant{}).
		Where("product_id = ?", productID).
		Select("COALESCE(SUM(stock), 0)").
		Scan(&total).Error
	return total, err
}
