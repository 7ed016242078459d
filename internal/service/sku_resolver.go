package service

import (
	"fmt"

	"github.com/meridianscan/sales-api/internal/domain"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// SkuResolverService maps pricing attributes to catalog entries and builds
// proposal manifests from priced configurations.
type SkuResolverService struct {
	catalog *CatalogService
	logger  *zap.Logger
}

func NewSkuResolverService(catalog *CatalogService, logger *zap.Logger) *SkuResolverService {
	return &SkuResolverService{catalog: catalog, logger: logger}
}

// Resolve finds the best-matching catalog entry for an attribute set.
// It tries an exact match first, then relaxes attributes in a fixed
// priority, scope before discipline, down to the {buildingCategory, lod}
// baseline. A dropped attribute stays dropped on later rungs. It never
// fabricates an entry: when the relaxation order is exhausted the second
// return value is false and the line needs manual catalog assignment.
func (s *SkuResolverService) Resolve(cat domain.BuildingCategory, disc *domain.Discipline, lod domain.LODLevel, scope *domain.Scope) (*domain.ProductSku, bool) {
	type candidate struct {
		disc  *domain.Discipline
		scope *domain.Scope
	}

	candidates := []candidate{{disc, scope}}
	if scope != nil {
		candidates = append(candidates, candidate{disc, nil})
	}
	if disc != nil {
		candidates = append(candidates, candidate{nil, nil})
	}

	for _, c := range candidates {
		if sku, ok := s.catalog.Lookup(cat, c.disc, lod, c.scope); ok {
			return sku, true
		}
	}
	return nil, false
}

// GenerateManifest builds the ordered billable line item list for a priced
// configuration. Order is: areas in declared order, each contributing its
// primary line then its remaining discipline lines in declared order; then
// one modifier line per risk flag; then the travel line when travel cost is
// nonzero. The breakdown must have been computed from the same
// configuration and rate table.
func (s *SkuResolverService) GenerateManifest(config *domain.QuoteConfiguration, breakdown *domain.PricingBreakdown, rates *domain.RateTable) []domain.ProposalLineItem {
	items := []domain.ProposalLineItem{}

	for i := range config.Areas {
		area := &config.Areas[i]
		cost := &breakdown.Areas[i]
		primary := area.PrimaryDiscipline()
		sqft := decimal.NewFromInt(int64(area.SquareFootage))

		items = append(items, s.buildLine(
			area, primary, cost.ScanningCost, sqft, domain.LineCategoryPrimary,
		))

		for _, d := range area.Disciplines {
			if d == primary {
				continue
			}
			category := domain.LineCategoryDiscipline
			if d == domain.DisciplineSite {
				category = domain.LineCategoryService
			}
			items = append(items, s.buildLine(
				area, d, cost.ModelingCosts[d], sqft, category,
			))
		}
	}

	for _, flag := range config.RiskFlags {
		pct, err := rates.RiskSurchargePercent(flag)
		if err != nil {
			continue
		}
		amount := decimal.Zero
		for i := range breakdown.Areas {
			amount = amount.Add(breakdown.Areas[i].Subtotal().Mul(pct).Round(2))
		}
		items = append(items, domain.ProposalLineItem{
			DisplayName: fmt.Sprintf("Site risk surcharge: %s (%s%%)", flag, pct.Mul(decimal.NewFromInt(100)).String()),
			Quantity:    decimal.NewFromInt(1),
			UnitRate:    amount,
			Amount:      amount,
			Category:    domain.LineCategoryModifier,
		})
	}

	if !breakdown.TravelCost.IsZero() {
		items = append(items, domain.ProposalLineItem{
			DisplayName: fmt.Sprintf("Travel from %s dispatch", config.DispatchOrigin),
			Quantity:    decimal.NewFromInt(1),
			UnitRate:    breakdown.TravelCost,
			Amount:      breakdown.TravelCost,
			Category:    domain.LineCategoryTravel,
		})
	}

	return items
}

func (s *SkuResolverService) buildLine(area *domain.ProjectArea, d domain.Discipline, amount, sqft decimal.Decimal, category domain.LineItemCategory) domain.ProposalLineItem {
	scope := area.Scope
	sku, found := s.Resolve(area.BuildingCategory, &d, area.LODFor(d), &scope)

	line := domain.ProposalLineItem{
		AreaName: area.Name,
		Quantity: sqft,
		UnitRate: amount.Div(sqft).Round(4),
		Amount:   amount,
		Category: category,
	}

	if found {
		line.SkuCode = sku.Code
		line.DisplayName = fmt.Sprintf("%s: %s", area.Name, sku.Name)
	} else {
		line.DisplayName = fmt.Sprintf("%s: %s %s LOD %d %s", area.Name, area.BuildingCategory, d, area.LODFor(d), area.Scope)
		line.RequiresManualPricing = true
		s.logger.Warn("no catalog entry reachable for line",
			zap.String("area", area.Name),
			zap.String("building_category", string(area.BuildingCategory)),
			zap.String("discipline", string(d)),
			zap.Int("lod", int(area.LODFor(d))),
			zap.String("scope", string(area.Scope)),
		)
	}

	return line
}
