// Package testutil provides shared database fixtures for tests. Tests run
// against an in-memory SQLite database with the same table and index names
// the migrations create in PostgreSQL.
package testutil

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/meridianscan/sales-api/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var schema = []string{
	`CREATE TABLE deals (
		id TEXT PRIMARY KEY,
		created_at DATETIME,
		updated_at DATETIME,
		title TEXT NOT NULL,
		customer_name TEXT NOT NULL DEFAULT '',
		status TEXT NOT NULL DEFAULT 'lead',
		owner_id TEXT NOT NULL DEFAULT '',
		owner_name TEXT,
		tags TEXT,
		notes TEXT
	)`,
	`CREATE TABLE quote_versions (
		id TEXT PRIMARY KEY DEFAULT (lower(hex(randomblob(16)))),
		deal_id TEXT NOT NULL,
		sequence INTEGER NOT NULL,
		configuration TEXT NOT NULL,
		breakdown TEXT NOT NULL,
		manifest TEXT NOT NULL,
		rate_table_version INTEGER NOT NULL,
		is_current BOOLEAN NOT NULL DEFAULT 0,
		created_by_id TEXT NOT NULL DEFAULT '',
		created_by_name TEXT,
		created_at DATETIME
	)`,
	`CREATE UNIQUE INDEX idx_quote_versions_deal_seq ON quote_versions (deal_id, sequence)`,
	`CREATE TABLE product_skus (
		id TEXT PRIMARY KEY,
		created_at DATETIME,
		updated_at DATETIME,
		code TEXT NOT NULL UNIQUE,
		name TEXT NOT NULL,
		building_category TEXT NOT NULL,
		discipline TEXT,
		lod_level INTEGER NOT NULL,
		scope TEXT,
		unit_rate NUMERIC NOT NULL DEFAULT 0,
		is_active BOOLEAN NOT NULL DEFAULT 1
	)`,
	`CREATE TABLE rate_table_records (
		id TEXT PRIMARY KEY,
		version INTEGER NOT NULL UNIQUE,
		effective_at DATETIME NOT NULL,
		is_active BOOLEAN NOT NULL DEFAULT 0,
		data TEXT NOT NULL,
		created_at DATETIME
	)`,
}

// SetupTestDB opens an in-memory database with the engine's schema
func SetupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	for _, stmt := range schema {
		require.NoError(t, db.Exec(stmt).Error)
	}
	return db
}

// CreateTestDeal inserts a deal with sensible defaults
func CreateTestDeal(t *testing.T, db *gorm.DB, title string) *domain.Deal {
	deal := &domain.Deal{
		BaseModel:    domain.BaseModel{ID: uuid.New()},
		Title:        title,
		CustomerName: "Test Customer",
		Status:       domain.DealStatusLead,
		OwnerID:      "user-123",
		OwnerName:    "Test User",
	}
	require.NoError(t, db.Create(deal).Error)
	return deal
}

// CreateTestSku inserts an active catalog entry
func CreateTestSku(t *testing.T, db *gorm.DB, code, name string, cat domain.BuildingCategory, disc *domain.Discipline, lod domain.LODLevel, scope *domain.Scope) *domain.ProductSku {
	sku := &domain.ProductSku{
		BaseModel:        domain.BaseModel{ID: uuid.New()},
		Code:             code,
		Name:             name,
		BuildingCategory: cat,
		Discipline:       disc,
		LODLevel:         lod,
		Scope:            scope,
		UnitRate:         decimal.RequireFromString("0.65"),
		IsActive:         true,
	}
	require.NoError(t, db.Create(sku).Error)
	return sku
}

// SampleRateTable returns a rate table covering the combinations the tests
// price against. The values mirror the seeded version 1 rates.
func SampleRateTable() *domain.RateTable {
	d := decimal.RequireFromString
	return &domain.RateTable{
		Version:     1,
		EffectiveAt: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		ScanRates: map[domain.BuildingCategory]map[domain.LODLevel]map[domain.Scope]decimal.Decimal{
			domain.BuildingCommercial: {
				domain.LOD200: {
					domain.ScopeFull:     d("0.45"),
					domain.ScopeInterior: d("0.35"),
				},
				domain.LOD300: {
					domain.ScopeFull:     d("0.65"),
					domain.ScopeInterior: d("0.50"),
					domain.ScopeExterior: d("0.35"),
				},
			},
			domain.BuildingIndustrial: {
				domain.LOD300: {
					domain.ScopeFull: d("0.70"),
				},
			},
		},
		DisciplineRates: map[domain.Discipline]map[domain.LODLevel]decimal.Decimal{
			domain.DisciplineArchitecture: {
				domain.LOD200: d("0.20"),
				domain.LOD300: d("0.28"),
			},
			domain.DisciplineStructure: {
				domain.LOD300: d("0.22"),
			},
			domain.DisciplineMechanical: {
				domain.LOD200: d("0.18"),
				domain.LOD300: d("0.25"),
			},
			domain.DisciplineElectrical: {
				domain.LOD300: d("0.20"),
			},
			domain.DisciplineSite: {
				domain.LOD200: d("0.10"),
				domain.LOD300: d("0.15"),
			},
		},
		RiskSurcharges: map[domain.RiskFlag]decimal.Decimal{
			domain.RiskOccupied:           d("0.15"),
			domain.RiskHazardousMaterials: d("0.20"),
			domain.RiskFastTrack:          d("0.25"),
		},
		TravelFees: map[domain.DispatchOrigin]domain.TravelFeePolicy{
			domain.DispatchDenver: {
				Model:       domain.TravelModelPerMile,
				RatePerMile: d("2.50"),
			},
			domain.DispatchSaltLake: {
				Model: domain.TravelModelTieredFlat,
				Tiers: []domain.TravelTier{
					{UpToMiles: 50, Fee: d("150")},
					{UpToMiles: 100, Fee: d("300")},
					{UpToMiles: 0, Fee: d("600")},
				},
				WaiverSquareFootage: 10000,
			},
		},
	}
}

// SeedRateTable inserts a rate table record holding the sample rates
func SeedRateTable(t *testing.T, db *gorm.DB, version int, active bool) {
	rates := SampleRateTable()
	rates.Version = version
	data, err := json.Marshal(rates)
	require.NoError(t, err)

	record := &domain.RateTableRecord{
		ID:          uuid.New(),
		Version:     version,
		EffectiveAt: rates.EffectiveAt,
		IsActive:    active,
		Data:        string(data),
	}
	require.NoError(t, db.Create(record).Error)
}
