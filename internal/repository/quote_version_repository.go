package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/meridianscan/sales-api/internal/domain"
	"gorm.io/gorm"
)

// ErrSequenceTaken is returned when a concurrent writer claimed the next
// version sequence first. Callers re-read and retry.
var ErrSequenceTaken = errors.New("quote version sequence already taken")

type QuoteVersionRepository struct {
	db *gorm.DB
}

func NewQuoteVersionRepository(db *gorm.DB) *QuoteVersionRepository {
	return &QuoteVersionRepository{db: db}
}

// Append inserts the next version for a deal in a single transaction:
// allocate sequence max+1, demote the prior current version, insert the new
// one as current. The unique index on (deal_id, sequence) turns a lost race
// into a duplicate key error, reported as ErrSequenceTaken.
func (r *QuoteVersionRepository) Append(ctx context.Context, version *domain.QuoteVersion) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var maxSeq int
		if err := tx.Model(&domain.QuoteVersion{}).
			Where("deal_id = ?", version.DealID).
			Select("COALESCE(MAX(sequence), 0)").
			Scan(&maxSeq).Error; err != nil {
			return err
		}
		version.Sequence = maxSeq + 1
		version.IsCurrent = true

		if err := tx.Model(&domain.QuoteVersion{}).
			Where("deal_id = ? AND is_current = ?", version.DealID, true).
			Update("is_current", false).Error; err != nil {
			return err
		}

		return tx.Create(version).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrSequenceTaken
		}
		return err
	}
	return nil
}

func (r *QuoteVersionRepository) GetCurrent(ctx context.Context, dealID uuid.UUID) (*domain.QuoteVersion, error) {
	var version domain.QuoteVersion
	err := r.db.WithContext(ctx).
		Where("deal_id = ? AND is_current = ?", dealID, true).
		First(&version).Error
	if err != nil {
		return nil, err
	}
	return &version, nil
}

func (r *QuoteVersionRepository) GetBySequence(ctx context.Context, dealID uuid.UUID, sequence int) (*domain.QuoteVersion, error) {
	var version domain.QuoteVersion
	err := r.db.WithContext(ctx).
		Where("deal_id = ? AND sequence = ?", dealID, sequence).
		First(&version).Error
	if err != nil {
		return nil, err
	}
	return &version, nil
}

// ListByDeal returns a deal's versions newest first
func (r *QuoteVersionRepository) ListByDeal(ctx context.Context, dealID uuid.UUID) ([]domain.QuoteVersion, error) {
	var versions []domain.QuoteVersion
	err := r.db.WithContext(ctx).
		Where("deal_id = ?", dealID).
		Order("sequence DESC").
		Find(&versions).Error
	return versions, err
}

func (r *QuoteVersionRepository) CountByDeal(ctx context.Context, dealID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.QuoteVersion{}).
		Where("deal_id = ?", dealID).
		Count(&count).Error
	return count, err
}
