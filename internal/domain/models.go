package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

// Base model with common fields
type BaseModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// DealStatus represents where a deal sits in the sales pipeline
type DealStatus string

const (
	DealStatusLead     DealStatus = "lead"
	DealStatusQuoting  DealStatus = "quoting"
	DealStatusProposed DealStatus = "proposed"
	DealStatusWon      DealStatus = "won"
	DealStatusLost     DealStatus = "lost"
)

// IsValid checks if the DealStatus is a valid enum value
func (s DealStatus) IsValid() bool {
	switch s {
	case DealStatusLead, DealStatusQuoting, DealStatusProposed, DealStatusWon, DealStatusLost:
		return true
	}
	return false
}

// Deal is the anchor record quote versions attach to. Full CRM handling of
// deals (stages, activities, documents) lives in other systems; the sales
// API only needs enough of the record to own a quote history.
type Deal struct {
	BaseModel
	Title        string         `gorm:"type:varchar(200);not null;index"`
	CustomerName string         `gorm:"type:varchar(200);not null;column:customer_name"`
	Status       DealStatus     `gorm:"type:varchar(50);not null;default:'lead';index"`
	OwnerID      string         `gorm:"type:varchar(100);not null;column:owner_id"`
	OwnerName    string         `gorm:"type:varchar(200);column:owner_name"`
	Tags         pq.StringArray `gorm:"type:text[]"`
	Notes        string         `gorm:"type:text"`
	Versions     []QuoteVersion `gorm:"foreignKey:DealID;constraint:OnDelete:CASCADE"`
}

// ProductSku is a catalog entry: a priced, billable service line identified
// by code. Discipline and Scope are optional matching attributes; entries
// with both unset are the guaranteed baseline for their category and LOD.
// Catalog rows are managed out of band and read-only to the pricing engine.
type ProductSku struct {
	BaseModel
	Code             string           `gorm:"type:varchar(50);not null;uniqueIndex"`
	Name             string           `gorm:"type:varchar(200);not null"`
	BuildingCategory BuildingCategory `gorm:"type:varchar(50);not null;index;column:building_category"`
	Discipline       *Discipline      `gorm:"type:varchar(50);index"`
	LODLevel         LODLevel         `gorm:"not null;index;column:lod_level"`
	Scope            *Scope           `gorm:"type:varchar(50)"`
	UnitRate         decimal.Decimal  `gorm:"type:decimal(12,4);not null;column:unit_rate"`
	IsActive         bool             `gorm:"not null;default:true;column:is_active;index"`
}

// QuoteVersion is an immutable snapshot of a quote: the configuration it
// was priced from, the breakdown and manifest computed for it, and the rate
// table version in effect at creation. Versions are append-only; exactly
// one per deal is current at any time.
type QuoteVersion struct {
	ID               uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	DealID           uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_quote_versions_deal_seq;column:deal_id"`
	Deal             *Deal     `gorm:"foreignKey:DealID"`
	Sequence         int       `gorm:"not null;uniqueIndex:idx_quote_versions_deal_seq"`
	Configuration    string    `gorm:"type:jsonb;not null"`
	Breakdown        string    `gorm:"type:jsonb;not null"`
	Manifest         string    `gorm:"type:jsonb;not null"`
	RateTableVersion int       `gorm:"not null;column:rate_table_version"`
	IsCurrent        bool      `gorm:"not null;default:false;index;column:is_current"`
	CreatedByID      string    `gorm:"type:varchar(100);not null;column:created_by_id"`
	CreatedByName    string    `gorm:"type:varchar(200);column:created_by_name"`
	CreatedAt        time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// RateTableRecord stores a versioned rate table as a jsonb snapshot.
// Exactly one record is active at a time; a rate change is an insert of the
// next version plus a flag flip, never an update of existing data.
type RateTableRecord struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	Version     int       `gorm:"not null;uniqueIndex"`
	EffectiveAt time.Time `gorm:"not null;column:effective_at"`
	IsActive    bool      `gorm:"not null;default:false;index;column:is_active"`
	Data        string    `gorm:"type:jsonb;not null"`
	CreatedAt   time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// UserRoleType represents a role a user can have
type UserRoleType string

const (
	RoleAdmin      UserRoleType = "admin"
	RoleEstimator  UserRoleType = "estimator"
	RoleSales      UserRoleType = "sales"
	RoleViewer     UserRoleType = "viewer"
	RoleAPIService UserRoleType = "api_service"
)

// IsValid checks if the UserRoleType is a valid enum value
func (r UserRoleType) IsValid() bool {
	switch r {
	case RoleAdmin, RoleEstimator, RoleSales, RoleViewer, RoleAPIService:
		return true
	}
	return false
}
