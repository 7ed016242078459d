package service_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/meridianscan/sales-api/internal/domain"
	"github.com/meridianscan/sales-api/internal/repository"
	"github.com/meridianscan/sales-api/internal/service"
	"github.com/meridianscan/sales-api/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type quoteServiceFixture struct {
	db          *gorm.DB
	service     *service.QuoteVersionService
	dealRepo    *repository.DealRepository
	versionRepo *repository.QuoteVersionRepository
	rateRepo    *repository.RateTableRepository
	pricing     *service.PricingService
	resolver    *service.SkuResolverService
	deal        *domain.Deal
}

func setupQuoteServiceTest(t *testing.T) *quoteServiceFixture {
	db := testutil.SetupTestDB(t)

	testutil.SeedRateTable(t, db, 1, true)
	seedSku(t, db, "SCAN-COM-300", "Commercial Scan LOD 300",
		domain.BuildingCommercial, nil, domain.LOD300, nil)
	seedSku(t, db, "SCAN-IND-300", "Industrial Scan LOD 300",
		domain.BuildingIndustrial, nil, domain.LOD300, nil)

	catalog := service.NewCatalogService(repository.NewCatalogRepository(db), zap.NewNop())
	require.NoError(t, catalog.Refresh(context.Background()))

	dealRepo := repository.NewDealRepository(db)
	versionRepo := repository.NewQuoteVersionRepository(db)
	rateRepo := repository.NewRateTableRepository(db)
	pricing := service.NewPricingService(zap.NewNop())
	resolver := service.NewSkuResolverService(catalog, zap.NewNop())

	svc := service.NewQuoteVersionService(dealRepo, versionRepo, rateRepo, pricing, resolver, zap.NewNop())

	return &quoteServiceFixture{
		db:          db,
		service:     svc,
		dealRepo:    dealRepo,
		versionRepo: versionRepo,
		rateRepo:    rateRepo,
		pricing:     pricing,
		resolver:    resolver,
		deal:        testutil.CreateTestDeal(t, db, "Campus Scan"),
	}
}

// withVersionStore builds a second service over the same repositories with
// the version store swapped out
func (f *quoteServiceFixture) withVersionStore(store service.QuoteVersionStore) *service.QuoteVersionService {
	return service.NewQuoteVersionService(f.dealRepo, store, f.rateRepo, f.pricing, f.resolver, zap.NewNop())
}

// racingVersionStore loses the sequence race on the first `races` appends
type racingVersionStore struct {
	service.QuoteVersionStore
	races int
}

func (s *racingVersionStore) Append(ctx context.Context, version *domain.QuoteVersion) error {
	if s.races > 0 {
		s.races--
		return repository.ErrSequenceTaken
	}
	return s.QuoteVersionStore.Append(ctx, version)
}

func TestCreateVersion_FirstVersion(t *testing.T) {
	f := setupQuoteServiceTest(t)

	config := singleAreaConfig(15000, domain.DisciplineArchitecture)
	version, err := f.service.CreateVersion(context.Background(), f.deal.ID, config)
	require.NoError(t, err)

	assert.Equal(t, 1, version.Sequence)
	assert.True(t, version.IsCurrent)
	assert.Equal(t, 1, version.RateTableVersion)
	assert.True(t, version.Breakdown.Total.Equal(dec(t, "9750")))
	assert.NotEmpty(t, version.Manifest)
}

func TestCreateVersion_SequencesAreGapFree(t *testing.T) {
	f := setupQuoteServiceTest(t)
	ctx := context.Background()

	for i := 1; i <= 4; i++ {
		version, err := f.service.CreateVersion(ctx, f.deal.ID, singleAreaConfig(1000*i, domain.DisciplineArchitecture))
		require.NoError(t, err)
		assert.Equal(t, i, version.Sequence)
	}

	versions, err := f.versionRepo.ListByDeal(ctx, f.deal.ID)
	require.NoError(t, err)
	require.Len(t, versions, 4)

	currentCount := 0
	for _, v := range versions {
		if v.IsCurrent {
			currentCount++
			assert.Equal(t, 4, v.Sequence, "only the newest version may be current")
		}
	}
	assert.Equal(t, 1, currentCount)
}

func TestCreateVersion_RetriesLostSequenceRace(t *testing.T) {
	f := setupQuoteServiceTest(t)

	svc := f.withVersionStore(&racingVersionStore{QuoteVersionStore: f.versionRepo, races: 1})

	version, err := svc.CreateVersion(context.Background(), f.deal.ID, singleAreaConfig(1000, domain.DisciplineArchitecture))
	require.NoError(t, err, "a single lost race is absorbed by the retry")
	assert.Equal(t, 1, version.Sequence)
	assert.True(t, version.IsCurrent)
}

func TestCreateVersion_ConflictAfterRetrySurfaces(t *testing.T) {
	f := setupQuoteServiceTest(t)
	ctx := context.Background()

	svc := f.withVersionStore(&racingVersionStore{QuoteVersionStore: f.versionRepo, races: 2})

	_, err := svc.CreateVersion(ctx, f.deal.ID, singleAreaConfig(1000, domain.DisciplineArchitecture))
	assert.ErrorIs(t, err, service.ErrVersionConflict)

	count, err := f.versionRepo.CountByDeal(ctx, f.deal.ID)
	require.NoError(t, err)
	assert.Zero(t, count, "a conflicted save persists nothing")
}

func TestCreateVersion_UnknownDeal(t *testing.T) {
	f := setupQuoteServiceTest(t)

	_, err := f.service.CreateVersion(context.Background(), uuid.New(), singleAreaConfig(1000, domain.DisciplineArchitecture))
	assert.ErrorIs(t, err, service.ErrDealNotFound)
}

func TestCreateVersion_InvalidConfigurationWritesNothing(t *testing.T) {
	f := setupQuoteServiceTest(t)
	ctx := context.Background()

	config := singleAreaConfig(1000, domain.DisciplineArchitecture)
	config.Areas[0].SquareFootage = 0

	_, err := f.service.CreateVersion(ctx, f.deal.ID, config)
	var configErr *domain.ConfigValidationError
	require.ErrorAs(t, err, &configErr)

	count, err := f.versionRepo.CountByDeal(ctx, f.deal.ID)
	require.NoError(t, err)
	assert.Zero(t, count, "no partial version may be persisted")
}

func TestCreateVersion_NoActiveRateTable(t *testing.T) {
	f := setupQuoteServiceTest(t)
	require.NoError(t, f.db.Exec("DELETE FROM rate_table_records").Error)

	_, err := f.service.CreateVersion(context.Background(), f.deal.ID, singleAreaConfig(1000, domain.DisciplineArchitecture))
	assert.ErrorIs(t, err, service.ErrNoActiveRateTable)
}

func TestGetVersion_NotFound(t *testing.T) {
	f := setupQuoteServiceTest(t)

	_, err := f.service.GetVersion(context.Background(), f.deal.ID, 7)
	assert.ErrorIs(t, err, service.ErrVersionNotFound)
}

func TestListVersions_NewestFirst(t *testing.T) {
	f := setupQuoteServiceTest(t)
	ctx := context.Background()

	for i := 1; i <= 3; i++ {
		_, err := f.service.CreateVersion(ctx, f.deal.ID, singleAreaConfig(1000*i, domain.DisciplineArchitecture))
		require.NoError(t, err)
	}

	summaries, err := f.service.ListVersions(ctx, f.deal.ID)
	require.NoError(t, err)
	require.Len(t, summaries, 3)
	assert.Equal(t, 3, summaries[0].Sequence)
	assert.True(t, summaries[0].IsCurrent)
	assert.Equal(t, 1, summaries[2].Sequence)
	assert.False(t, summaries[2].IsCurrent)
}

func TestRestoreVersion_RoundTrip(t *testing.T) {
	f := setupQuoteServiceTest(t)
	ctx := context.Background()

	original := singleAreaConfig(15000, domain.DisciplineArchitecture)
	_, err := f.service.CreateVersion(ctx, f.deal.ID, original)
	require.NoError(t, err)

	modified := singleAreaConfig(8000, domain.DisciplineArchitecture, domain.DisciplineMechanical)
	modified.RiskFlags = []domain.RiskFlag{domain.RiskOccupied}
	_, err = f.service.CreateVersion(ctx, f.deal.ID, modified)
	require.NoError(t, err)

	restored, err := f.service.RestoreVersion(ctx, f.deal.ID, 1)
	require.NoError(t, err)

	assert.Equal(t, 3, restored.Version.Sequence, "restore appends, it never rewrites history")
	assert.Equal(t, 1, restored.RestoredFrom)
	assert.False(t, restored.RateTableChanged)
	assert.True(t, restored.PreviousTotal.Equal(restored.NewTotal))

	// The new current version's configuration matches the restored one
	diff, err := f.service.DiffVersions(ctx, f.deal.ID, 1, 3)
	require.NoError(t, err)
	assert.True(t, diff.Diff.IsEmpty(), "restored configuration must diff clean against its source")
}

func TestRestoreVersion_SurfacesRateTableChange(t *testing.T) {
	f := setupQuoteServiceTest(t)
	ctx := context.Background()

	_, err := f.service.CreateVersion(ctx, f.deal.ID, singleAreaConfig(15000, domain.DisciplineArchitecture))
	require.NoError(t, err)

	// Activate a new rate table between the save and the restore
	require.NoError(t, f.db.Exec("UPDATE rate_table_records SET is_active = 0").Error)
	testutil.SeedRateTable(t, f.db, 2, true)

	restored, err := f.service.RestoreVersion(ctx, f.deal.ID, 1)
	require.NoError(t, err)

	assert.True(t, restored.RateTableChanged)
	assert.Equal(t, 2, restored.Version.RateTableVersion)
}

func TestRestoreVersion_NotFound(t *testing.T) {
	f := setupQuoteServiceTest(t)

	_, err := f.service.RestoreVersion(context.Background(), f.deal.ID, 99)
	assert.ErrorIs(t, err, service.ErrVersionNotFound)
}

func TestDiffVersions_ReportsChanges(t *testing.T) {
	f := setupQuoteServiceTest(t)
	ctx := context.Background()

	first := singleAreaConfig(15000, domain.DisciplineArchitecture)
	_, err := f.service.CreateVersion(ctx, f.deal.ID, first)
	require.NoError(t, err)

	second := singleAreaConfig(12000, domain.DisciplineArchitecture, domain.DisciplineMechanical)
	second.RiskFlags = []domain.RiskFlag{domain.RiskOccupied}
	second.DispatchOrigin = domain.DispatchDenver
	second.TravelDistanceMiles = 80
	_, err = f.service.CreateVersion(ctx, f.deal.ID, second)
	require.NoError(t, err)

	resp, err := f.service.DiffVersions(ctx, f.deal.ID, 1, 2)
	require.NoError(t, err)

	require.Len(t, resp.Diff.ChangedAreas, 1)
	assert.ElementsMatch(t, []string{"squareFootage", "disciplines"}, resp.Diff.ChangedAreas[0].ChangedFields)
	assert.Equal(t, []domain.RiskFlag{domain.RiskOccupied}, resp.Diff.AddedRiskFlags)
	assert.True(t, resp.Diff.DispatchOriginChanged)
	assert.True(t, resp.Diff.TravelDistanceChanged)
}
