package domain

import "github.com/shopspring/decimal"

// AreaCost holds the priced result for a single project area
type AreaCost struct {
	AreaName      string                         `json:"areaName"`
	ScanningCost  decimal.Decimal                `json:"scanningCost"`
	ModelingCosts map[Discipline]decimal.Decimal `json:"modelingCosts"`
	RiskSurcharge decimal.Decimal                `json:"riskSurcharge"`
}

// ModelingTotal sums the per-discipline modeling costs for the area
func (a *AreaCost) ModelingTotal() decimal.Decimal {
	total := decimal.Zero
	for _, c := range a.ModelingCosts {
		total = total.Add(c)
	}
	return total
}

// Subtotal returns scanning plus modeling cost, before risk surcharges
func (a *AreaCost) Subtotal() decimal.Decimal {
	return a.ScanningCost.Add(a.ModelingTotal())
}

// PricingBreakdown is the derived pricing result for a configuration. It is
// exactly reproducible from its QuoteConfiguration plus the rate table
// version recorded on it, and is never stored outside a quote version.
type PricingBreakdown struct {
	Areas              []AreaCost      `json:"areas"`
	RiskSurchargeTotal decimal.Decimal `json:"riskSurchargeTotal"`
	TravelCost         decimal.Decimal `json:"travelCost"`
	Subtotal           decimal.Decimal `json:"subtotal"`
	Total              decimal.Decimal `json:"total"`
	RateTableVersion   int             `json:"rateTableVersion"`
}

// LineItemCategory tags a proposal line item by its pricing role
type LineItemCategory string

const (
	LineCategoryPrimary    LineItemCategory = "primary"
	LineCategoryDiscipline LineItemCategory = "discipline"
	LineCategoryService    LineItemCategory = "service"
	LineCategoryModifier   LineItemCategory = "modifier"
	LineCategoryTravel     LineItemCategory = "travel"
)

// IsValid checks if the LineItemCategory is a valid enum value
func (c LineItemCategory) IsValid() bool {
	switch c {
	case LineCategoryPrimary, LineCategoryDiscipline, LineCategoryService,
		LineCategoryModifier, LineCategoryTravel:
		return true
	}
	return false
}

// ProposalLineItem is one billable line in a quote manifest. Line items are
// rebuilt on every manifest request and frozen only inside a persisted
// quote version snapshot.
type ProposalLineItem struct {
	SkuCode               string           `json:"skuCode,omitempty"`
	DisplayName           string           `json:"displayName"`
	AreaName              string           `json:"areaName,omitempty"`
	Quantity              decimal.Decimal  `json:"quantity"`
	UnitRate              decimal.Decimal  `json:"unitRate"`
	Amount                decimal.Decimal  `json:"amount"`
	Category              LineItemCategory `json:"category"`
	RequiresManualPricing bool             `json:"requiresManualPricing,omitempty"`
}

// AreaChange describes how a named area differs between two configurations
type AreaChange struct {
	AreaName      string   `json:"areaName"`
	ChangedFields []string `json:"changedFields"`
}

// ConfigDiff is the structural comparison of two frozen configurations.
// It is purely informational and never mutates either side.
type ConfigDiff struct {
	AddedAreas            []string     `json:"addedAreas"`
	RemovedAreas          []string     `json:"removedAreas"`
	ChangedAreas          []AreaChange `json:"changedAreas"`
	AddedRiskFlags        []RiskFlag   `json:"addedRiskFlags"`
	RemovedRiskFlags      []RiskFlag   `json:"removedRiskFlags"`
	DispatchOriginChanged bool         `json:"dispatchOriginChanged"`
	PaymentTermsChanged   bool         `json:"paymentTermsChanged"`
	TravelDistanceChanged bool         `json:"travelDistanceChanged"`
}

// IsEmpty reports whether the diff contains no differences at all
func (d *ConfigDiff) IsEmpty() bool {
	return len(d.AddedAreas) == 0 &&
		len(d.RemovedAreas) == 0 &&
		len(d.ChangedAreas) == 0 &&
		len(d.AddedRiskFlags) == 0 &&
		len(d.RemovedRiskFlags) == 0 &&
		!d.DispatchOriginChanged &&
		!d.PaymentTermsChanged &&
		!d.TravelDistanceChanged
}
