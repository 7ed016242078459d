package repository_test

import (
	"context"
	"testing"

	"github.com/meridianscan/sales-api/internal/domain"
	"github.com/meridianscan/sales-api/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestDealRepository_CreateAndGet(t *testing.T) {
	db := setupTestDB(t)
	repo := repository.NewDealRepository(db)
	deal := createTestDeal(t, db, "Campus Scan")

	found, err := repo.GetByID(context.Background(), deal.ID)
	require.NoError(t, err)
	assert.Equal(t, "Campus Scan", found.Title)
	assert.Equal(t, domain.DealStatusLead, found.Status)
	assert.Equal(t, "user-123", found.OwnerID)
}

func TestDealRepository_GetByIDNotFound(t *testing.T) {
	db := setupTestDB(t)
	repo := repository.NewDealRepository(db)
	deal := createTestDeal(t, db, "Campus Scan")

	require.NoError(t, repo.Delete(context.Background(), deal.ID))

	_, err := repo.GetByID(context.Background(), deal.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestDealRepository_Update(t *testing.T) {
	db := setupTestDB(t)
	repo := repository.NewDealRepository(db)
	deal := createTestDeal(t, db, "Campus Scan")

	deal.Title = "Campus Scan Phase 2"
	deal.Status = domain.DealStatusQuoting
	require.NoError(t, repo.Update(context.Background(), deal))

	found, err := repo.GetByID(context.Background(), deal.ID)
	require.NoError(t, err)
	assert.Equal(t, "Campus Scan Phase 2", found.Title)
	assert.Equal(t, domain.DealStatusQuoting, found.Status)
}

func TestDealRepository_ListFilters(t *testing.T) {
	db := setupTestDB(t)
	repo := repository.NewDealRepository(db)
	ctx := context.Background()

	createTestDeal(t, db, "Lead Deal")
	quoting := createTestDeal(t, db, "Quoting Deal")
	quoting.Status = domain.DealStatusQuoting
	require.NoError(t, repo.Update(ctx, quoting))

	status := domain.DealStatusQuoting
	deals, total, err := repo.List(ctx, 1, 20, &status, nil)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, deals, 1)
	assert.Equal(t, "Quoting Deal", deals[0].Title)

	deals, total, err = repo.List(ctx, 1, 20, nil, nil)
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	assert.Len(t, deals, 2)
}

func TestDealRepository_Search(t *testing.T) {
	db := setupTestDB(t)
	repo := repository.NewDealRepository(db)
	ctx := context.Background()

	createTestDeal(t, db, "Hospital Wing Scan")
	createTestDeal(t, db, "Warehouse Survey")

	deals, err := repo.Search(ctx, "hospital", 10)
	require.NoError(t, err)
	require.Len(t, deals, 1)
	assert.Equal(t, "Hospital Wing Scan", deals[0].Title)

	deals, err = repo.Search(ctx, "customer", 10)
	require.NoError(t, err)
	assert.Len(t, deals, 2, "search also matches customer names")
}
