package repository

import (
	"context"

	"github.com/meridianscan/sales-api/internal/domain"
	"gorm.io/gorm"
)

type CatalogRepository struct {
	db *gorm.DB
}

func NewCatalogRepository(db *gorm.DB) *CatalogRepository {
	return &CatalogRepository{db: db}
}

// ListActive returns every active catalog entry, ordered by code for a
// stable snapshot. The catalog is small (hundreds of rows), so the whole
// set is loaded for the in-memory resolver.
func (r *CatalogRepository) ListActive(ctx context.Context) ([]domain.ProductSku, error) {
	var skus []domain.ProductSku
	err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("code ASC").
		Find(&skus).Error
	return skus, err
}

func (r *CatalogRepository) GetByCode(ctx context.Context, code string) (*domain.ProductSku, error) {
	var sku domain.ProductSku
	err := r.db.WithContext(ctx).
		Where("code = ?", code).
		First(&sku).Error
	if err != nil {
		return nil, err
	}
	return &sku, nil
}

func (r *CatalogRepository) List(ctx context.Context, page, pageSize int, category *domain.BuildingCategory) ([]domain.ProductSku, int64, error) {
	var skus []domain.ProductSku
	var total int64

	query := r.db.WithContext(ctx).Model(&domain.ProductSku{}).Where("is_active = ?", true)

	if category != nil {
		query = query.Where("building_category = ?", *category)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := query.Offset(offset).Limit(pageSize).Order("code ASC").Find(&skus).Error

	return skus, total, err
}
