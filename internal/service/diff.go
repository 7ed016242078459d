package service

import (
	"github.com/meridianscan/sales-api/internal/domain"
)

// DiffConfigurations structurally compares two frozen configurations.
// Areas are matched by name; a renamed area reports as one removal and one
// addition. The comparison is purely informational.
func DiffConfigurations(a, b *domain.QuoteConfiguration) *domain.ConfigDiff {
	diff := &domain.ConfigDiff{
		AddedAreas:       []string{},
		RemovedAreas:     []string{},
		ChangedAreas:     []domain.AreaChange{},
		AddedRiskFlags:   []domain.RiskFlag{},
		RemovedRiskFlags: []domain.RiskFlag{},
	}

	areasA := map[string]*domain.ProjectArea{}
	for i := range a.Areas {
		areasA[a.Areas[i].Name] = &a.Areas[i]
	}
	areasB := map[string]*domain.ProjectArea{}
	for i := range b.Areas {
		areasB[b.Areas[i].Name] = &b.Areas[i]
	}

	for i := range b.Areas {
		name := b.Areas[i].Name
		if _, ok := areasA[name]; !ok {
			diff.AddedAreas = append(diff.AddedAreas, name)
		}
	}
	for i := range a.Areas {
		name := a.Areas[i].Name
		areaB, ok := areasB[name]
		if !ok {
			diff.RemovedAreas = append(diff.RemovedAreas, name)
			continue
		}
		if fields := changedAreaFields(&a.Areas[i], areaB); len(fields) > 0 {
			diff.ChangedAreas = append(diff.ChangedAreas, domain.AreaChange{
				AreaName:      name,
				ChangedFields: fields,
			})
		}
	}

	flagsA := map[domain.RiskFlag]bool{}
	for _, f := range a.RiskFlags {
		flagsA[f] = true
	}
	flagsB := map[domain.RiskFlag]bool{}
	for _, f := range b.RiskFlags {
		flagsB[f] = true
	}
	for _, f := range b.RiskFlags {
		if !flagsA[f] {
			diff.AddedRiskFlags = append(diff.AddedRiskFlags, f)
		}
	}
	for _, f := range a.RiskFlags {
		if !flagsB[f] {
			diff.RemovedRiskFlags = append(diff.RemovedRiskFlags, f)
		}
	}

	diff.DispatchOriginChanged = a.DispatchOrigin != b.DispatchOrigin
	diff.PaymentTermsChanged = a.PaymentTerms != b.PaymentTerms
	diff.TravelDistanceChanged = a.TravelDistanceMiles != b.TravelDistanceMiles

	return diff
}

func changedAreaFields(a, b *domain.ProjectArea) []string {
	fields := []string{}

	if a.BuildingCategory != b.BuildingCategory {
		fields = append(fields, "buildingCategory")
	}
	if a.SquareFootage != b.SquareFootage {
		fields = append(fields, "squareFootage")
	}
	if a.Scope != b.Scope {
		fields = append(fields, "scope")
	}
	if !equalDisciplines(a.Disciplines, b.Disciplines) {
		fields = append(fields, "disciplines")
	}
	if a.DefaultLOD != b.DefaultLOD {
		fields = append(fields, "defaultLod")
	}
	if !equalOverrides(a.LODOverrides, b.LODOverrides) {
		fields = append(fields, "lodOverrides")
	}
	if a.AssumptionNotes != b.AssumptionNotes {
		fields = append(fields, "assumptionNotes")
	}

	return fields
}

func equalDisciplines(a, b []domain.Discipline) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func equalOverrides(a, b map[domain.Discipline]domain.LODLevel) bool {
	if len(a) != len(b) {
		return false
	}
	for d, lod := range a {
		if other, ok := b[d]; !ok || other != lod {
			return false
		}
	}
	return true
}
