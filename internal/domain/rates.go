package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// TravelFeeModel selects how travel cost is derived for a dispatch origin
type TravelFeeModel string

const (
	TravelModelPerMile    TravelFeeModel = "per_mile"
	TravelModelTieredFlat TravelFeeModel = "tiered_flat"
)

// IsValid checks if the TravelFeeModel is a valid enum value
func (m TravelFeeModel) IsValid() bool {
	switch m {
	case TravelModelPerMile, TravelModelTieredFlat:
		return true
	}
	return false
}

// TravelTier is one step of a tiered flat travel fee: the fee applies to
// any distance up to and including UpToMiles. A zero UpToMiles on the last
// tier means "no upper bound".
type TravelTier struct {
	UpToMiles int             `json:"upToMiles"`
	Fee       decimal.Decimal `json:"fee"`
}

// TravelFeePolicy captures the fee model for a single dispatch origin.
// For the per-mile model only RatePerMile is used. For the tiered flat
// model the fee comes from Tiers, and is waived entirely when the quote's
// total square footage reaches WaiverSquareFootage (0 disables the waiver).
type TravelFeePolicy struct {
	Model               TravelFeeModel  `json:"model"`
	RatePerMile         decimal.Decimal `json:"ratePerMile,omitempty"`
	Tiers               []TravelTier    `json:"tiers,omitempty"`
	WaiverSquareFootage int             `json:"waiverSquareFootage,omitempty"`
}

// RateTable is the versioned pricing configuration passed into the
// calculator. Every quote version records the table version it was priced
// against so a breakdown can be replayed deterministically; rate tables are
// never mutated after activation, a new version is written instead.
type RateTable struct {
	Version         int                                                         `json:"version"`
	EffectiveAt     time.Time                                                   `json:"effectiveAt"`
	ScanRates       map[BuildingCategory]map[LODLevel]map[Scope]decimal.Decimal `json:"scanRates"`
	DisciplineRates map[Discipline]map[LODLevel]decimal.Decimal                 `json:"disciplineRates"`
	RiskSurcharges  map[RiskFlag]decimal.Decimal                                `json:"riskSurcharges"`
	TravelFees      map[DispatchOrigin]TravelFeePolicy                          `json:"travelFees"`
}

// RateNotFoundError signals that the rate table has no entry for the
// requested attribute combination. Pricing fails closed on this error
// instead of defaulting to a zero rate.
type RateNotFoundError struct {
	Kind string
	Key  string
}

// Error implements the error interface
func (e *RateNotFoundError) Error() string {
	return fmt.Sprintf("no %s rate for %s", e.Kind, e.Key)
}

// BaseScanRate returns the per-square-foot scanning rate for a building
// category, LOD and scope combination.
func (t *RateTable) BaseScanRate(cat BuildingCategory, lod LODLevel, scope Scope) (decimal.Decimal, error) {
	byLOD, ok := t.ScanRates[cat]
	if !ok {
		return decimal.Zero, &RateNotFoundError{Kind: "scan", Key: string(cat)}
	}
	byScope, ok := byLOD[lod]
	if !ok {
		return decimal.Zero, &RateNotFoundError{Kind: "scan", Key: fmt.Sprintf("%s/LOD%d", cat, lod)}
	}
	rate, ok := byScope[scope]
	if !ok {
		return decimal.Zero, &RateNotFoundError{Kind: "scan", Key: fmt.Sprintf("%s/LOD%d/%s", cat, lod, scope)}
	}
	return rate, nil
}

// DisciplineRate returns the per-square-foot modeling rate for a
// discipline at a given LOD.
func (t *RateTable) DisciplineRate(d Discipline, lod LODLevel) (decimal.Decimal, error) {
	byLOD, ok := t.DisciplineRates[d]
	if !ok {
		return decimal.Zero, &RateNotFoundError{Kind: "discipline", Key: string(d)}
	}
	rate, ok := byLOD[lod]
	if !ok {
		return decimal.Zero, &RateNotFoundError{Kind: "discipline", Key: fmt.Sprintf("%s/LOD%d", d, lod)}
	}
	return rate, nil
}

// RiskSurchargePercent returns the percentage surcharge for a risk flag
func (t *RateTable) RiskSurchargePercent(flag RiskFlag) (decimal.Decimal, error) {
	pct, ok := t.RiskSurcharges[flag]
	if !ok {
		return decimal.Zero, &RateNotFoundError{Kind: "risk surcharge", Key: string(flag)}
	}
	return pct, nil
}

// TravelPolicy returns the fee policy for a dispatch origin
func (t *RateTable) TravelPolicy(origin DispatchOrigin) (TravelFeePolicy, error) {
	policy, ok := t.TravelFees[origin]
	if !ok {
		return TravelFeePolicy{}, &RateNotFoundError{Kind: "travel fee", Key: string(origin)}
	}
	return policy, nil
}
