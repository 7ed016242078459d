package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/meridianscan/sales-api/internal/auth"
	"github.com/meridianscan/sales-api/internal/domain"
	"github.com/meridianscan/sales-api/internal/repository"
	"github.com/meridianscan/sales-api/internal/storage"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// QuoteVersionStore persists a deal's append-only version history. Append
// reports a lost sequence race as repository.ErrSequenceTaken.
// Implemented by repository.QuoteVersionRepository.
type QuoteVersionStore interface {
	Append(ctx context.Context, version *domain.QuoteVersion) error
	GetBySequence(ctx context.Context, dealID uuid.UUID, sequence int) (*domain.QuoteVersion, error)
	ListByDeal(ctx context.Context, dealID uuid.UUID) ([]domain.QuoteVersion, error)
}

// QuoteVersionService owns the append-only quote history of a deal. Every
// save prices the configuration, resolves the manifest, and freezes all
// three as one immutable version; exactly one version per deal is current.
type QuoteVersionService struct {
	dealRepo    *repository.DealRepository
	versionRepo QuoteVersionStore
	rateRepo    *repository.RateTableRepository
	pricing     *PricingService
	resolver    *SkuResolverService
	exportStore storage.ManifestStore
	logger      *zap.Logger
}

func NewQuoteVersionService(
	dealRepo *repository.DealRepository,
	versionRepo QuoteVersionStore,
	rateRepo *repository.RateTableRepository,
	pricing *PricingService,
	resolver *SkuResolverService,
	logger *zap.Logger,
) *QuoteVersionService {
	return &QuoteVersionService{
		dealRepo:    dealRepo,
		versionRepo: versionRepo,
		rateRepo:    rateRepo,
		pricing:     pricing,
		resolver:    resolver,
		logger:      logger,
	}
}

// SetManifestStore enables manifest export for downstream consumers. Each
// created version's manifest is written to the store after the version is
// committed; export failure never fails the save.
func (s *QuoteVersionService) SetManifestStore(store storage.ManifestStore) {
	s.exportStore = store
}

// Price computes the breakdown and manifest for a configuration against the
// active rate table without persisting anything.
func (s *QuoteVersionService) Price(ctx context.Context, config *domain.QuoteConfiguration) (*domain.PricingBreakdown, []domain.ProposalLineItem, error) {
	rates, err := s.activeRates(ctx)
	if err != nil {
		return nil, nil, err
	}

	breakdown, err := s.pricing.ComputeBreakdown(config, rates)
	if err != nil {
		return nil, nil, err
	}

	manifest := s.resolver.GenerateManifest(config, breakdown, rates)
	return breakdown, manifest, nil
}

// CreateVersion prices the configuration, builds the manifest, and appends
// the result as the deal's new current version. Validation and pricing
// failures happen before any write; a lost sequence race is retried once
// before surfacing as ErrVersionConflict.
func (s *QuoteVersionService) CreateVersion(ctx context.Context, dealID uuid.UUID, config *domain.QuoteConfiguration) (*domain.QuoteVersionDTO, error) {
	if _, err := s.dealRepo.GetByID(ctx, dealID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDealNotFound
		}
		return nil, err
	}

	rates, err := s.activeRates(ctx)
	if err != nil {
		return nil, err
	}

	breakdown, err := s.pricing.ComputeBreakdown(config, rates)
	if err != nil {
		return nil, err
	}
	manifest := s.resolver.GenerateManifest(config, breakdown, rates)

	configJSON, err := json.Marshal(config)
	if err != nil {
		return nil, fmt.Errorf("failed to encode configuration: %w", err)
	}
	breakdownJSON, err := json.Marshal(breakdown)
	if err != nil {
		return nil, fmt.Errorf("failed to encode breakdown: %w", err)
	}
	manifestJSON, err := json.Marshal(manifest)
	if err != nil {
		return nil, fmt.Errorf("failed to encode manifest: %w", err)
	}

	version := &domain.QuoteVersion{
		DealID:           dealID,
		Configuration:    string(configJSON),
		Breakdown:        string(breakdownJSON),
		Manifest:         string(manifestJSON),
		RateTableVersion: rates.Version,
	}
	if userCtx, ok := auth.FromContext(ctx); ok {
		version.CreatedByID = userCtx.UserID.String()
		version.CreatedByName = userCtx.DisplayName
	}

	if err := s.versionRepo.Append(ctx, version); err != nil {
		if !errors.Is(err, repository.ErrSequenceTaken) {
			return nil, err
		}
		s.logger.Warn("quote version sequence race lost, retrying",
			zap.String("deal_id", dealID.String()),
		)
		if err := s.versionRepo.Append(ctx, version); err != nil {
			if errors.Is(err, repository.ErrSequenceTaken) {
				return nil, ErrVersionConflict
			}
			return nil, err
		}
	}

	s.logger.Info("quote version created",
		zap.String("deal_id", dealID.String()),
		zap.Int("sequence", version.Sequence),
		zap.Int("rate_table_version", version.RateTableVersion),
	)

	if s.exportStore != nil {
		if path, err := storage.ExportManifest(ctx, s.exportStore, dealID, version.Sequence, manifest); err != nil {
			s.logger.Warn("manifest export failed",
				zap.String("deal_id", dealID.String()),
				zap.Int("sequence", version.Sequence),
				zap.Error(err),
			)
		} else {
			s.logger.Info("manifest exported",
				zap.String("deal_id", dealID.String()),
				zap.Int("sequence", version.Sequence),
				zap.String("path", path),
			)
		}
	}

	return toVersionDTO(version)
}

// ListVersions returns a deal's version summaries, newest first
func (s *QuoteVersionService) ListVersions(ctx context.Context, dealID uuid.UUID) ([]domain.QuoteVersionSummaryDTO, error) {
	if _, err := s.dealRepo.GetByID(ctx, dealID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDealNotFound
		}
		return nil, err
	}

	versions, err := s.versionRepo.ListByDeal(ctx, dealID)
	if err != nil {
		return nil, err
	}

	summaries := make([]domain.QuoteVersionSummaryDTO, 0, len(versions))
	for i := range versions {
		var breakdown domain.PricingBreakdown
		if err := json.Unmarshal([]byte(versions[i].Breakdown), &breakdown); err != nil {
			return nil, fmt.Errorf("failed to decode breakdown for sequence %d: %w", versions[i].Sequence, err)
		}
		summaries = append(summaries, domain.QuoteVersionSummaryDTO{
			Sequence:         versions[i].Sequence,
			Subtotal:         breakdown.Subtotal,
			TravelCost:       breakdown.TravelCost,
			Total:            breakdown.Total,
			RateTableVersion: versions[i].RateTableVersion,
			IsCurrent:        versions[i].IsCurrent,
			CreatedByName:    versions[i].CreatedByName,
			CreatedAt:        versions[i].CreatedAt,
		})
	}
	return summaries, nil
}

// GetVersion returns one full frozen version
func (s *QuoteVersionService) GetVersion(ctx context.Context, dealID uuid.UUID, sequence int) (*domain.QuoteVersionDTO, error) {
	version, err := s.versionRepo.GetBySequence(ctx, dealID, sequence)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrVersionNotFound
		}
		return nil, err
	}
	return toVersionDTO(version)
}

// RestoreVersion appends a new current version built from a historical
// version's frozen configuration. History is never mutated; the breakdown
// is recomputed against current rates, and any total divergence from the
// restored version is reported in the response.
func (s *QuoteVersionService) RestoreVersion(ctx context.Context, dealID uuid.UUID, sequence int) (*domain.RestoreVersionResponse, error) {
	historical, err := s.versionRepo.GetBySequence(ctx, dealID, sequence)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrVersionNotFound
		}
		return nil, err
	}

	var config domain.QuoteConfiguration
	if err := json.Unmarshal([]byte(historical.Configuration), &config); err != nil {
		return nil, fmt.Errorf("failed to decode configuration for sequence %d: %w", sequence, err)
	}
	var previousBreakdown domain.PricingBreakdown
	if err := json.Unmarshal([]byte(historical.Breakdown), &previousBreakdown); err != nil {
		return nil, fmt.Errorf("failed to decode breakdown for sequence %d: %w", sequence, err)
	}

	created, err := s.CreateVersion(ctx, dealID, &config)
	if err != nil {
		return nil, err
	}

	return &domain.RestoreVersionResponse{
		Version:          created,
		RestoredFrom:     sequence,
		RateTableChanged: created.RateTableVersion != historical.RateTableVersion,
		PreviousTotal:    previousBreakdown.Total,
		NewTotal:         created.Breakdown.Total,
	}, nil
}

// DiffVersions structurally compares the frozen configurations of two
// versions of the same deal
func (s *QuoteVersionService) DiffVersions(ctx context.Context, dealID uuid.UUID, seqA, seqB int) (*domain.DiffVersionsResponse, error) {
	versionA, err := s.versionRepo.GetBySequence(ctx, dealID, seqA)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrVersionNotFound
		}
		return nil, err
	}
	versionB, err := s.versionRepo.GetBySequence(ctx, dealID, seqB)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrVersionNotFound
		}
		return nil, err
	}

	var configA, configB domain.QuoteConfiguration
	if err := json.Unmarshal([]byte(versionA.Configuration), &configA); err != nil {
		return nil, fmt.Errorf("failed to decode configuration for sequence %d: %w", seqA, err)
	}
	if err := json.Unmarshal([]byte(versionB.Configuration), &configB); err != nil {
		return nil, fmt.Errorf("failed to decode configuration for sequence %d: %w", seqB, err)
	}

	return &domain.DiffVersionsResponse{
		SequenceA: seqA,
		SequenceB: seqB,
		Diff:      DiffConfigurations(&configA, &configB),
	}, nil
}

func (s *QuoteVersionService) activeRates(ctx context.Context) (*domain.RateTable, error) {
	rates, err := s.rateRepo.GetActive(ctx)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNoActiveRateTable
		}
		return nil, err
	}
	return rates, nil
}

func toVersionDTO(version *domain.QuoteVersion) (*domain.QuoteVersionDTO, error) {
	dto := &domain.QuoteVersionDTO{
		DealID:           version.DealID,
		Sequence:         version.Sequence,
		RateTableVersion: version.RateTableVersion,
		IsCurrent:        version.IsCurrent,
		CreatedByID:      version.CreatedByID,
		CreatedByName:    version.CreatedByName,
		CreatedAt:        version.CreatedAt,
	}
	if err := json.Unmarshal([]byte(version.Configuration), &dto.Configuration); err != nil {
		return nil, fmt.Errorf("failed to decode configuration: %w", err)
	}
	if err := json.Unmarshal([]byte(version.Breakdown), &dto.Breakdown); err != nil {
		return nil, fmt.Errorf("failed to decode breakdown: %w", err)
	}
	if err := json.Unmarshal([]byte(version.Manifest), &dto.Manifest); err != nil {
		return nil, fmt.Errorf("failed to decode manifest: %w", err)
	}
	return dto, nil
}
