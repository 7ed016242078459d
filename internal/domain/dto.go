package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PaginatedResponse wraps list responses with paging metadata
type PaginatedResponse struct {
	Data       interface{} `json:"data"`
	Total      int64       `json:"total"`
	Page       int         `json:"page"`
	PageSize   int         `json:"pageSize"`
	TotalPages int         `json:"totalPages"`
}

// ResolveSkuRequest is the attribute set for a single-line SKU lookup
type ResolveSkuRequest struct {
	BuildingCategory BuildingCategory `json:"buildingCategory" validate:"required"`
	Discipline       *Discipline      `json:"discipline,omitempty"`
	LOD              LODLevel         `json:"lod" validate:"required"`
	Scope            *Scope           `json:"scope,omitempty"`
}

// ProductSkuDTO is the API shape of a catalog entry
type ProductSkuDTO struct {
	Code             string           `json:"code"`
	Name             string           `json:"name"`
	BuildingCategory BuildingCategory `json:"buildingCategory"`
	Discipline       *Discipline      `json:"discipline,omitempty"`
	LOD              LODLevel         `json:"lod"`
	Scope            *Scope           `json:"scope,omitempty"`
	UnitRate         decimal.Decimal  `json:"unitRate"`
	IsActive         bool             `json:"isActive"`
}

// NewProductSkuDTO maps a catalog row to its API shape
func NewProductSkuDTO(sku *ProductSku) *ProductSkuDTO {
	if sku == nil {
		return nil
	}
	return &ProductSkuDTO{
		Code:             sku.Code,
		Name:             sku.Name,
		BuildingCategory: sku.BuildingCategory,
		Discipline:       sku.Discipline,
		LOD:              sku.LODLevel,
		Scope:            sku.Scope,
		UnitRate:         sku.UnitRate,
		IsActive:         sku.IsActive,
	}
}

// ResolveSkuResponse reports the outcome of a SKU resolution. Found is
// false when the relaxation order was exhausted; such lines need manual
// catalog assignment and must not be treated as zero-cost.
type ResolveSkuResponse struct {
	Sku     *string        `json:"sku"`
	Found   bool           `json:"found"`
	Product *ProductSkuDTO `json:"product,omitempty"`
}

// CreateDealRequest creates the anchor record quotes attach to
type CreateDealRequest struct {
	Title        string     `json:"title" validate:"required,max=200"`
	CustomerName string     `json:"customerName" validate:"required,max=200"`
	Status       DealStatus `json:"status,omitempty"`
	OwnerID      string     `json:"ownerId" validate:"required,max=100"`
	OwnerName    string     `json:"ownerName,omitempty" validate:"max=200"`
	Tags         []string   `json:"tags,omitempty"`
	Notes        string     `json:"notes,omitempty"`
}

// DealDTO is the API shape of a deal
type DealDTO struct {
	ID           uuid.UUID  `json:"id"`
	Title        string     `json:"title"`
	CustomerName string     `json:"customerName"`
	Status       DealStatus `json:"status"`
	OwnerID      string     `json:"ownerId"`
	OwnerName    string     `json:"ownerName,omitempty"`
	Tags         []string   `json:"tags,omitempty"`
	Notes        string     `json:"notes,omitempty"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
}

// NewDealDTO maps a deal to its API shape
func NewDealDTO(deal *Deal) *DealDTO {
	return &DealDTO{
		ID:           deal.ID,
		Title:        deal.Title,
		CustomerName: deal.CustomerName,
		Status:       deal.Status,
		OwnerID:      deal.OwnerID,
		OwnerName:    deal.OwnerName,
		Tags:         deal.Tags,
		Notes:        deal.Notes,
		CreatedAt:    deal.CreatedAt,
		UpdatedAt:    deal.UpdatedAt,
	}
}

// QuoteVersionDTO is the full frozen snapshot of one quote version
type QuoteVersionDTO struct {
	DealID           uuid.UUID          `json:"dealId"`
	Sequence         int                `json:"sequence"`
	Configuration    QuoteConfiguration `json:"configuration"`
	Breakdown        PricingBreakdown   `json:"breakdown"`
	Manifest         []ProposalLineItem `json:"manifest"`
	RateTableVersion int                `json:"rateTableVersion"`
	IsCurrent        bool               `json:"isCurrent"`
	CreatedByID      string             `json:"createdById"`
	CreatedByName    string             `json:"createdByName,omitempty"`
	CreatedAt        time.Time          `json:"createdAt"`
}

// QuoteVersionSummaryDTO is the list-view shape of a quote version
type QuoteVersionSummaryDTO struct {
	Sequence         int             `json:"sequence"`
	Subtotal         decimal.Decimal `json:"subtotal"`
	TravelCost       decimal.Decimal `json:"travelCost"`
	Total            decimal.Decimal `json:"total"`
	RateTableVersion int             `json:"rateTableVersion"`
	IsCurrent        bool            `json:"isCurrent"`
	CreatedByName    string          `json:"createdByName,omitempty"`
	CreatedAt        time.Time       `json:"createdAt"`
}

// RestoreVersionResponse is returned when a historical version is restored.
// The breakdown is recomputed against current rates, so the new total can
// legitimately differ from the restored version's total; that divergence is
// surfaced here rather than hidden.
type RestoreVersionResponse struct {
	Version          *QuoteVersionDTO `json:"version"`
	RestoredFrom     int              `json:"restoredFrom"`
	RateTableChanged bool             `json:"rateTableChanged"`
	PreviousTotal    decimal.Decimal  `json:"previousTotal"`
	NewTotal         decimal.Decimal  `json:"newTotal"`
}

// DiffVersionsResponse is the structural comparison of two versions
type DiffVersionsResponse struct {
	SequenceA int         `json:"sequenceA"`
	SequenceB int         `json:"sequenceB"`
	Diff      *ConfigDiff `json:"diff"`
}
