package repository_test

import (
	"testing"

	"github.com/meridianscan/sales-api/internal/domain"
	"github.com/meridianscan/sales-api/internal/testutil"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	return testutil.SetupTestDB(t)
}

func createTestDeal(t *testing.T, db *gorm.DB, title string) *domain.Deal {
	return testutil.CreateTestDeal(t, db, title)
}
