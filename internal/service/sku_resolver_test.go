package service_test

import (
	"context"
	"testing"

	"github.com/meridianscan/sales-api/internal/domain"
	"github.com/meridianscan/sales-api/internal/repository"
	"github.com/meridianscan/sales-api/internal/service"
	"github.com/meridianscan/sales-api/internal/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func seedSku(t *testing.T, db *gorm.DB, code, name string, cat domain.BuildingCategory, disc *domain.Discipline, lod domain.LODLevel, scope *domain.Scope) {
	testutil.CreateTestSku(t, db, code, name, cat, disc, lod, scope)
}

func discPtr(d domain.Discipline) *domain.Discipline { return &d }
func scopePtr(s domain.Scope) *domain.Scope          { return &s }

// buildResolver seeds a small catalog and returns a resolver backed by it
func buildResolver(t *testing.T) *service.SkuResolverService {
	db := testutil.SetupTestDB(t)

	seedSku(t, db, "SCAN-COM-ARCH-300-FL", "Commercial Architecture Scan LOD 300 Full",
		domain.BuildingCommercial, discPtr(domain.DisciplineArchitecture), domain.LOD300, scopePtr(domain.ScopeFull))
	seedSku(t, db, "MOD-COM-MECH-300", "Commercial Mechanical Model LOD 300",
		domain.BuildingCommercial, discPtr(domain.DisciplineMechanical), domain.LOD300, nil)
	seedSku(t, db, "SCAN-COM-300-INT", "Commercial Interior Scan LOD 300",
		domain.BuildingCommercial, nil, domain.LOD300, scopePtr(domain.ScopeInterior))
	seedSku(t, db, "SCAN-COM-300", "Commercial Scan LOD 300",
		domain.BuildingCommercial, nil, domain.LOD300, nil)
	seedSku(t, db, "SCAN-IND-300", "Industrial Scan LOD 300",
		domain.BuildingIndustrial, nil, domain.LOD300, nil)

	catalog := service.NewCatalogService(repository.NewCatalogRepository(db), zap.NewNop())
	require.NoError(t, catalog.Refresh(context.Background()))
	require.Equal(t, 5, catalog.SnapshotSize())

	return service.NewSkuResolverService(catalog, zap.NewNop())
}

func TestResolve_ExactMatch(t *testing.T) {
	resolver := buildResolver(t)

	sku, found := resolver.Resolve(domain.BuildingCommercial,
		discPtr(domain.DisciplineArchitecture), domain.LOD300, scopePtr(domain.ScopeFull))
	require.True(t, found)
	assert.Equal(t, "SCAN-COM-ARCH-300-FL", sku.Code)
}

func TestResolve_RelaxesScopeFirst(t *testing.T) {
	resolver := buildResolver(t)

	// No mechanical entry with an interior scope exists; the scope is
	// dropped before the discipline.
	sku, found := resolver.Resolve(domain.BuildingCommercial,
		discPtr(domain.DisciplineMechanical), domain.LOD300, scopePtr(domain.ScopeInterior))
	require.True(t, found)
	assert.Equal(t, "MOD-COM-MECH-300", sku.Code)
}

func TestResolve_DroppedScopeStaysDropped(t *testing.T) {
	resolver := buildResolver(t)

	// No electrical entry at all. Once the scope rung is passed, the
	// discipline rung does not re-add it, so the scope-specific category
	// entry is skipped in favor of the bare baseline.
	sku, found := resolver.Resolve(domain.BuildingCommercial,
		discPtr(domain.DisciplineElectrical), domain.LOD300, scopePtr(domain.ScopeInterior))
	require.True(t, found)
	assert.Equal(t, "SCAN-COM-300", sku.Code)
}

func TestResolve_ScopeSpecificCategoryEntry(t *testing.T) {
	resolver := buildResolver(t)

	// With no discipline given, a scope-specific category entry is an
	// exact match.
	sku, found := resolver.Resolve(domain.BuildingCommercial,
		nil, domain.LOD300, scopePtr(domain.ScopeInterior))
	require.True(t, found)
	assert.Equal(t, "SCAN-COM-300-INT", sku.Code)
}

func TestResolve_FallsBackToBaseline(t *testing.T) {
	resolver := buildResolver(t)

	sku, found := resolver.Resolve(domain.BuildingCommercial,
		discPtr(domain.DisciplinePlumbing), domain.LOD300, scopePtr(domain.ScopeExterior))
	require.True(t, found)
	assert.Equal(t, "SCAN-COM-300", sku.Code)
}

func TestResolve_NeverFabricates(t *testing.T) {
	resolver := buildResolver(t)

	sku, found := resolver.Resolve(domain.BuildingHealthcare,
		discPtr(domain.DisciplineArchitecture), domain.LOD300, scopePtr(domain.ScopeFull))
	assert.False(t, found)
	assert.Nil(t, sku)
}

func TestResolve_Idempotent(t *testing.T) {
	resolver := buildResolver(t)

	first, foundFirst := resolver.Resolve(domain.BuildingCommercial,
		discPtr(domain.DisciplineArchitecture), domain.LOD300, scopePtr(domain.ScopeFull))
	second, foundSecond := resolver.Resolve(domain.BuildingCommercial,
		discPtr(domain.DisciplineArchitecture), domain.LOD300, scopePtr(domain.ScopeFull))

	require.True(t, foundFirst)
	require.True(t, foundSecond)
	assert.Equal(t, first.Code, second.Code)
}

func TestGenerateManifest_TwoDisciplinesTwoLines(t *testing.T) {
	resolver := buildResolver(t)
	pricing := service.NewPricingService(zap.NewNop())
	rates := testRateTable(t)

	config := singleAreaConfig(10000, domain.DisciplineArchitecture, domain.DisciplineMechanical)
	breakdown, err := pricing.ComputeBreakdown(config, rates)
	require.NoError(t, err)

	manifest := resolver.GenerateManifest(config, breakdown, rates)

	// One primary line and one mechanical add-on, never a third
	// architecture line.
	require.Len(t, manifest, 2)
	assert.Equal(t, domain.LineCategoryPrimary, manifest[0].Category)
	assert.Equal(t, "SCAN-COM-ARCH-300-FL", manifest[0].SkuCode)
	assert.True(t, manifest[0].Amount.Equal(breakdown.Areas[0].ScanningCost))
	assert.Equal(t, domain.LineCategoryDiscipline, manifest[1].Category)
	assert.Equal(t, "MOD-COM-MECH-300", manifest[1].SkuCode)
	assert.True(t, manifest[1].Amount.Equal(breakdown.Areas[0].ModelingCosts[domain.DisciplineMechanical]))
}

func TestGenerateManifest_LineOrderFollowsAreaOrder(t *testing.T) {
	resolver := buildResolver(t)
	pricing := service.NewPricingService(zap.NewNop())
	rates := testRateTable(t)

	config := &domain.QuoteConfiguration{
		Areas: []domain.ProjectArea{
			{
				Name:             "Warehouse",
				BuildingCategory: domain.BuildingIndustrial,
				SquareFootage:    3000,
				Scope:            domain.ScopeFull,
				Disciplines:      []domain.Discipline{domain.DisciplineMechanical},
				DefaultLOD:       domain.LOD300,
			},
			{
				Name:             "Office",
				BuildingCategory: domain.BuildingCommercial,
				SquareFootage:    5000,
				Scope:            domain.ScopeFull,
				Disciplines:      []domain.Discipline{domain.DisciplineArchitecture, domain.DisciplineSite},
				DefaultLOD:       domain.LOD300,
			},
		},
		RiskFlags:           []domain.RiskFlag{domain.RiskOccupied},
		DispatchOrigin:      domain.DispatchDenver,
		TravelDistanceMiles: 20,
		PaymentTerms:        domain.TermsNet30,
	}

	breakdown, err := pricing.ComputeBreakdown(config, rates)
	require.NoError(t, err)

	manifest := resolver.GenerateManifest(config, breakdown, rates)
	require.Len(t, manifest, 5)

	assert.Equal(t, "Warehouse", manifest[0].AreaName)
	assert.Equal(t, domain.LineCategoryPrimary, manifest[0].Category)
	assert.Equal(t, "Office", manifest[1].AreaName)
	assert.Equal(t, domain.LineCategoryPrimary, manifest[1].Category)
	assert.Equal(t, domain.LineCategoryService, manifest[2].Category, "site lines are tagged as service")
	assert.Equal(t, domain.LineCategoryModifier, manifest[3].Category)
	assert.Equal(t, domain.LineCategoryTravel, manifest[4].Category)
	assert.True(t, manifest[4].Amount.Equal(breakdown.TravelCost))
}

func TestGenerateManifest_RiskModifierMatchesBreakdown(t *testing.T) {
	resolver := buildResolver(t)
	pricing := service.NewPricingService(zap.NewNop())
	rates := testRateTable(t)

	config := singleAreaConfig(15000, domain.DisciplineArchitecture)
	config.RiskFlags = []domain.RiskFlag{domain.RiskOccupied}

	breakdown, err := pricing.ComputeBreakdown(config, rates)
	require.NoError(t, err)

	manifest := resolver.GenerateManifest(config, breakdown, rates)
	require.Len(t, manifest, 2)
	assert.Equal(t, domain.LineCategoryModifier, manifest[1].Category)
	assert.True(t, manifest[1].Amount.Equal(breakdown.RiskSurchargeTotal),
		"modifier line %s != surcharge total %s", manifest[1].Amount, breakdown.RiskSurchargeTotal)
}

func TestGenerateManifest_UnresolvedLineFlaggedForManualPricing(t *testing.T) {
	resolver := buildResolver(t)
	pricing := service.NewPricingService(zap.NewNop())
	rates := testRateTable(t)

	// Industrial structure has a rate but no reachable catalog entry
	// beyond the industrial baseline, which only covers LOD 300; force a
	// miss by pricing mechanical at a LOD with no baseline entry.
	config := singleAreaConfig(10000, domain.DisciplineArchitecture, domain.DisciplineMechanical)
	config.Areas[0].LODOverrides = map[domain.Discipline]domain.LODLevel{
		domain.DisciplineMechanical: domain.LOD200,
	}

	breakdown, err := pricing.ComputeBreakdown(config, rates)
	require.NoError(t, err)

	manifest := resolver.GenerateManifest(config, breakdown, rates)
	require.Len(t, manifest, 2)

	mechanical := manifest[1]
	assert.True(t, mechanical.RequiresManualPricing)
	assert.Empty(t, mechanical.SkuCode)
	assert.False(t, mechanical.Amount.IsZero(), "unresolved lines keep their priced amount")
}

func TestGenerateManifest_UnitRateDerivedFromAmount(t *testing.T) {
	resolver := buildResolver(t)
	pricing := service.NewPricingService(zap.NewNop())
	rates := testRateTable(t)

	config := singleAreaConfig(10000, domain.DisciplineArchitecture)
	breakdown, err := pricing.ComputeBreakdown(config, rates)
	require.NoError(t, err)

	manifest := resolver.GenerateManifest(config, breakdown, rates)
	require.Len(t, manifest, 1)
	assert.True(t, manifest[0].Quantity.Equal(decimal.NewFromInt(10000)))
	assert.True(t, manifest[0].UnitRate.Equal(dec(t, "0.65")))
}
