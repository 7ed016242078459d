package repository

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/meridianscan/sales-api/internal/domain"
	"gorm.io/gorm"
)

type DealRepository struct {
	db *gorm.DB
}

func NewDealRepository(db *gorm.DB) *DealRepository {
	return &DealRepository{db: db}
}

func (r *DealRepository) Create(ctx context.Context, deal *domain.Deal) error {
	return r.db.WithContext(ctx).Create(deal).Error
}

func (r *DealRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Deal, error) {
	var deal domain.Deal
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&deal).Error
	if err != nil {
		return nil, err
	}
	return &deal, nil
}

func (r *DealRepository) Update(ctx context.Context, deal *domain.Deal) error {
	return r.db.WithContext(ctx).Save(deal).Error
}

func (r *DealRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&domain.Deal{}, "id = ?", id).Error
}

func (r *DealRepository) List(ctx context.Context, page, pageSize int, status *domain.DealStatus, ownerID *string) ([]domain.Deal, int64, error) {
	var deals []domain.Deal
	var total int64

	query := r.db.WithContext(ctx).Model(&domain.Deal{})

	if status != nil {
		query = query.Where("status = ?", *status)
	}

	if ownerID != nil {
		query = query.Where("owner_id = ?", *ownerID)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := query.Offset(offset).Limit(pageSize).Order("created_at DESC").Find(&deals).Error

	return deals, total, err
}

func (r *DealRepository) Search(ctx context.Context, searchQuery string, limit int) ([]domain.Deal, error) {
	var deals []domain.Deal
	searchPattern := "%" + strings.ToLower(searchQuery) + "%"
	err := r.db.WithContext(ctx).
		Where("LOWER(title) LIKE ? OR LOWER(customer_name) LIKE ?", searchPattern, searchPattern).
		Limit(limit).
		Find(&deals).Error
	return deals, err
}
