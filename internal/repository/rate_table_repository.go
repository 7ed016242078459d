package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/meridianscan/sales-api/internal/domain"
	"gorm.io/gorm"
)

type RateTableRepository struct {
	db *gorm.DB
}

func NewRateTableRepository(db *gorm.DB) *RateTableRepository {
	return &RateTableRepository{db: db}
}

// GetActive returns the rate table currently in effect
func (r *RateTableRepository) GetActive(ctx context.Context) (*domain.RateTable, error) {
	var record domain.RateTableRecord
	err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("version DESC").
		First(&record).Error
	if err != nil {
		return nil, err
	}
	return decodeRateTable(&record)
}

// GetByVersion returns a historical rate table snapshot
func (r *RateTableRepository) GetByVersion(ctx context.Context, version int) (*domain.RateTable, error) {
	var record domain.RateTableRecord
	err := r.db.WithContext(ctx).
		Where("version = ?", version).
		First(&record).Error
	if err != nil {
		return nil, err
	}
	return decodeRateTable(&record)
}

// ListVersions returns rate table metadata without the rate payloads
func (r *RateTableRepository) ListVersions(ctx context.Context) ([]domain.RateTableRecord, error) {
	var records []domain.RateTableRecord
	err := r.db.WithContext(ctx).
		Select("id", "version", "effective_at", "is_active", "created_at").
		Order("version DESC").
		Find(&records).Error
	return records, err
}

// Activate inserts a new rate table version and flips the active flag in
// one transaction. Existing versions are never modified.
func (r *RateTableRepository) Activate(ctx context.Context, table *domain.RateTable) error {
	data, err := json.Marshal(table)
	if err != nil {
		return fmt.Errorf("failed to encode rate table: %w", err)
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&domain.RateTableRecord{}).
			Where("is_active = ?", true).
			Update("is_active", false).Error; err != nil {
			return err
		}
		record := domain.RateTableRecord{
			Version:     table.Version,
			EffectiveAt: table.EffectiveAt,
			IsActive:    true,
			Data:        string(data),
		}
		return tx.Create(&record).Error
	})
}

func decodeRateTable(record *domain.RateTableRecord) (*domain.RateTable, error) {
	var table domain.RateTable
	if err := json.Unmarshal([]byte(record.Data), &table); err != nil {
		return nil, fmt.Errorf("failed to decode rate table version %d: %w", record.Version, err)
	}
	table.Version = record.Version
	table.EffectiveAt = record.EffectiveAt
	return &table, nil
}
