package service

import (
	"github.com/meridianscan/sales-api/internal/domain"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// PricingService computes pricing breakdowns from quote configurations.
// ComputeBreakdown is pure: it touches no storage and no clock, so the same
// configuration and rate table always reproduce the same breakdown.
type PricingService struct {
	logger *zap.Logger
}

func NewPricingService(logger *zap.Logger) *PricingService {
	return &PricingService{logger: logger}
}

// ComputeBreakdown prices a configuration against a rate table.
//
// Per area, the scanning cost covers capture plus the primary discipline's
// model (architecture when declared). The remaining disciplines are summed
// as modeling add-ons; the primary is excluded from that sum because it is
// already priced into the scanning line. Risk surcharges apply per area so
// multi-area quotes with a subset of affected areas price correctly.
//
// Every monetary line is rounded to cents as it is produced and the totals
// are sums of rounded lines, so replaying a version reproduces the stored
// amounts exactly.
func (s *PricingService) ComputeBreakdown(config *domain.QuoteConfiguration, rates *domain.RateTable) (*domain.PricingBreakdown, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	breakdown := &domain.PricingBreakdown{
		Areas:              make([]domain.AreaCost, 0, len(config.Areas)),
		RiskSurchargeTotal: decimal.Zero,
		Subtotal:           decimal.Zero,
		RateTableVersion:   rates.Version,
	}

	for _, area := range config.Areas {
		cost, err := s.priceArea(&area, config.RiskFlags, rates)
		if err != nil {
			return nil, err
		}
		breakdown.Areas = append(breakdown.Areas, *cost)
		breakdown.Subtotal = breakdown.Subtotal.Add(cost.Subtotal()).Add(cost.RiskSurcharge)
		breakdown.RiskSurchargeTotal = breakdown.RiskSurchargeTotal.Add(cost.RiskSurcharge)
	}

	travelCost, err := s.computeTravelCost(config, rates)
	if err != nil {
		return nil, err
	}
	breakdown.TravelCost = travelCost
	breakdown.Total = breakdown.Subtotal.Add(travelCost)

	return breakdown, nil
}

func (s *PricingService) priceArea(area *domain.ProjectArea, flags []domain.RiskFlag, rates *domain.RateTable) (*domain.AreaCost, error) {
	sqft := decimal.NewFromInt(int64(area.SquareFootage))
	primary := area.PrimaryDiscipline()

	scanRate, err := rates.BaseScanRate(area.BuildingCategory, area.LODFor(primary), area.Scope)
	if err != nil {
		return nil, err
	}

	cost := &domain.AreaCost{
		AreaName:      area.Name,
		ScanningCost:  sqft.Mul(scanRate).Round(2),
		ModelingCosts: map[domain.Discipline]decimal.Decimal{},
		RiskSurcharge: decimal.Zero,
	}

	for _, d := range area.Disciplines {
		if d == primary {
			continue
		}
		rate, err := rates.DisciplineRate(d, area.LODFor(d))
		if err != nil {
			return nil, err
		}
		cost.ModelingCosts[d] = sqft.Mul(rate).Round(2)
	}

	subtotal := cost.Subtotal()
	for _, flag := range flags {
		pct, err := rates.RiskSurchargePercent(flag)
		if err != nil {
			return nil, err
		}
		cost.RiskSurcharge = cost.RiskSurcharge.Add(subtotal.Mul(pct).Round(2))
	}

	return cost, nil
}

func (s *PricingService) computeTravelCost(config *domain.QuoteConfiguration, rates *domain.RateTable) (decimal.Decimal, error) {
	policy, err := rates.TravelPolicy(config.DispatchOrigin)
	if err != nil {
		return decimal.Zero, err
	}

	distance := decimal.NewFromInt(int64(config.TravelDistanceMiles))

	switch policy.Model {
	case domain.TravelModelPerMile:
		return policy.RatePerMile.Mul(distance).Round(2), nil

	case domain.TravelModelTieredFlat:
		if policy.WaiverSquareFootage > 0 && config.TotalSquareFootage() >= policy.WaiverSquareFootage {
			return decimal.Zero, nil
		}
		for _, tier := range policy.Tiers {
			if tier.UpToMiles == 0 || config.TravelDistanceMiles <= tier.UpToMiles {
				return tier.Fee.Round(2), nil
			}
		}
		return decimal.Zero, &domain.RateNotFoundError{
			Kind: "travel fee",
			Key:  string(config.DispatchOrigin),
		}

	default:
		return decimal.Zero, &domain.RateNotFoundError{
			Kind: "travel fee",
			Key:  string(config.DispatchOrigin),
		}
	}
}
