package service

import (
	"context"
	"fmt"
	"sync"

	"github.com/meridianscan/sales-api/internal/domain"
	"github.com/meridianscan/sales-api/internal/repository"
	"go.uber.org/zap"
)

// CatalogService serves catalog reads from an in-memory snapshot. The
// catalog is consulted on every SKU resolution, is read-mostly, and is
// managed out of band, so the snapshot is refreshed on a schedule instead
// of per request.
type CatalogService struct {
	catalogRepo *repository.CatalogRepository
	logger      *zap.Logger

	mu    sync.RWMutex
	skus  []domain.ProductSku
	index map[string]*domain.ProductSku
}

func NewCatalogService(catalogRepo *repository.CatalogRepository, logger *zap.Logger) *CatalogService {
	return &CatalogService{
		catalogRepo: catalogRepo,
		logger:      logger,
		index:       map[string]*domain.ProductSku{},
	}
}

// Refresh reloads the active catalog into the in-memory snapshot
func (s *CatalogService) Refresh(ctx context.Context) error {
	skus, err := s.catalogRepo.ListActive(ctx)
	if err != nil {
		return fmt.Errorf("failed to load catalog: %w", err)
	}

	index := make(map[string]*domain.ProductSku, len(skus))
	for i := range skus {
		sku := &skus[i]
		index[catalogKey(sku.BuildingCategory, sku.Discipline, sku.LODLevel, sku.Scope)] = sku
	}

	s.mu.Lock()
	s.skus = skus
	s.index = index
	s.mu.Unlock()

	s.logger.Info("catalog snapshot refreshed", zap.Int("sku_count", len(skus)))
	return nil
}

// Lookup finds the catalog entry matching the exact attribute combination.
// Nil discipline or scope matches entries that declare no such attribute.
func (s *CatalogService) Lookup(cat domain.BuildingCategory, disc *domain.Discipline, lod domain.LODLevel, scope *domain.Scope) (*domain.ProductSku, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sku, ok := s.index[catalogKey(cat, disc, lod, scope)]
	return sku, ok
}

// GetByCode reads a single catalog entry straight from storage
func (s *CatalogService) GetByCode(ctx context.Context, code string) (*domain.ProductSku, error) {
	return s.catalogRepo.GetByCode(ctx, code)
}

// List returns a paginated view of the active catalog from storage
func (s *CatalogService) List(ctx context.Context, page, pageSize int, category *domain.BuildingCategory) ([]domain.ProductSku, int64, error) {
	return s.catalogRepo.List(ctx, page, pageSize, category)
}

// SnapshotSize reports how many entries the current snapshot holds
func (s *CatalogService) SnapshotSize() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.skus)
}

func catalogKey(cat domain.BuildingCategory, disc *domain.Discipline, lod domain.LODLevel, scope *domain.Scope) string {
	d := ""
	if disc != nil {
		d = string(*disc)
	}
	sc := ""
	if scope != nil {
		sc = string(*scope)
	}
	return fmt.Sprintf("%s|%s|%d|%s", cat, d, lod, sc)
}
