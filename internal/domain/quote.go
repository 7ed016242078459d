package domain

import (
	"fmt"
	"strconv"
)

// Discipline represents a modeled trade or system
type Discipline string

const (
	DisciplineArchitecture Discipline = "architecture"
	DisciplineStructure    Discipline = "structure"
	DisciplineMechanical   Discipline = "mechanical"
	DisciplineElectrical   Discipline = "electrical"
	DisciplinePlumbing     Discipline = "plumbing"
	DisciplineSite         Discipline = "site"
)

// IsValid checks if the Discipline is a valid enum value
func (d Discipline) IsValid() bool {
	switch d {
	case DisciplineArchitecture, DisciplineStructure, DisciplineMechanical,
		DisciplineElectrical, DisciplinePlumbing, DisciplineSite:
		return true
	}
	return false
}

// Scope represents which parts of an area are scanned and modeled
type Scope string

const (
	ScopeFull     Scope = "full"
	ScopeInterior Scope = "interior"
	ScopeExterior Scope = "exterior"
)

// IsValid checks if the Scope is a valid enum value
func (s Scope) IsValid() bool {
	switch s {
	case ScopeFull, ScopeInterior, ScopeExterior:
		return true
	}
	return false
}

// LODLevel represents a level-of-development tier.
// Higher tiers carry more geometric and informational detail and cost
// more per square foot.
type LODLevel int

const (
	LOD100 LODLevel = 100
	LOD200 LODLevel = 200
	LOD300 LODLevel = 300
	LOD350 LODLevel = 350
	LOD400 LODLevel = 400
)

// IsValid checks if the LODLevel is a recognized tier
func (l LODLevel) IsValid() bool {
	switch l {
	case LOD100, LOD200, LOD300, LOD350, LOD400:
		return true
	}
	return false
}

func (l LODLevel) String() string {
	return strconv.Itoa(int(l))
}

// BuildingCategory classifies the kind of structure an area belongs to
type BuildingCategory string

const (
	BuildingCommercial  BuildingCategory = "commercial"
	BuildingResidential BuildingCategory = "residential"
	BuildingIndustrial  BuildingCategory = "industrial"
	BuildingHealthcare  BuildingCategory = "healthcare"
	BuildingEducation   BuildingCategory = "education"
	BuildingCivic       BuildingCategory = "civic"
)

// IsValid checks if the BuildingCategory is a valid enum value
func (b BuildingCategory) IsValid() bool {
	switch b {
	case BuildingCommercial, BuildingResidential, BuildingIndustrial,
		BuildingHealthcare, BuildingEducation, BuildingCivic:
		return true
	}
	return false
}

// RiskFlag represents a site condition that carries a percentage surcharge
type RiskFlag string

const (
	RiskOccupied           RiskFlag = "occupied"
	RiskHazardousMaterials RiskFlag = "hazardous_materials"
	RiskNoPower            RiskFlag = "no_power"
	RiskFastTrack          RiskFlag = "fast_track"
	RiskRemoteLocation     RiskFlag = "remote_location"
	RiskConfinedAccess     RiskFlag = "confined_access"
)

// IsValid checks if the RiskFlag is a valid enum value
func (r RiskFlag) IsValid() bool {
	switch r {
	case RiskOccupied, RiskHazardousMaterials, RiskNoPower,
		RiskFastTrack, RiskRemoteLocation, RiskConfinedAccess:
		return true
	}
	return false
}

// DispatchOrigin identifies the depot travel cost is calculated from
type DispatchOrigin string

const (
	DispatchDenver   DispatchOrigin = "denver"
	DispatchSaltLake DispatchOrigin = "salt_lake"
)

// IsValid checks if the DispatchOrigin is a valid enum value
func (d DispatchOrigin) IsValid() bool {
	switch d {
	case DispatchDenver, DispatchSaltLake:
		return true
	}
	return false
}

// PaymentTerms represents the payment schedule offered on a quote
type PaymentTerms string

const (
	TermsNet15      PaymentTerms = "net15"
	TermsNet30      PaymentTerms = "net30"
	TermsNet45      PaymentTerms = "net45"
	TermsFiftyFifty PaymentTerms = "fifty_fifty"
)

// IsValid checks if the PaymentTerms is a valid enum value
func (p PaymentTerms) IsValid() bool {
	switch p {
	case TermsNet15, TermsNet30, TermsNet45, TermsFiftyFifty:
		return true
	}
	return false
}

// ProjectArea represents one physically distinct scanning zone within a quote
type ProjectArea struct {
	Name             string                  `json:"name" validate:"required,max=200"`
	BuildingCategory BuildingCategory        `json:"buildingCategory" validate:"required"`
	SquareFootage    int                     `json:"squareFootage" validate:"required,gt=0"`
	Scope            Scope                   `json:"scope" validate:"required"`
	Disciplines      []Discipline            `json:"disciplines" validate:"required,min=1"`
	DefaultLOD       LODLevel                `json:"defaultLod" validate:"required"`
	LODOverrides     map[Discipline]LODLevel `json:"lodOverrides,omitempty"`
	AssumptionNotes  string                  `json:"assumptionNotes,omitempty"`
}

// LODFor resolves the level of development for a discipline, falling back
// to the area default when no override is declared.
func (a *ProjectArea) LODFor(d Discipline) LODLevel {
	if lod, ok := a.LODOverrides[d]; ok {
		return lod
	}
	return a.DefaultLOD
}

// HasDiscipline reports whether the area declares the given discipline
func (a *ProjectArea) HasDiscipline(d Discipline) bool {
	for _, ad := range a.Disciplines {
		if ad == d {
			return true
		}
	}
	return false
}

// PrimaryDiscipline returns the discipline priced into the area's scanning
// line: architecture when declared, otherwise the first declared discipline.
func (a *ProjectArea) PrimaryDiscipline() Discipline {
	if a.HasDiscipline(DisciplineArchitecture) {
		return DisciplineArchitecture
	}
	return a.Disciplines[0]
}

// QuoteConfiguration describes the full structured input to a pricing run.
// Area order is meaningful: it becomes line item order in the manifest.
// Configurations are replaced whole once versioned, never edited in place.
type QuoteConfiguration struct {
	Areas               []ProjectArea  `json:"areas" validate:"required,min=1"`
	RiskFlags           []RiskFlag     `json:"riskFlags"`
	DispatchOrigin      DispatchOrigin `json:"dispatchOrigin" validate:"required"`
	TravelDistanceMiles int            `json:"travelDistanceMiles" validate:"gte=0"`
	PaymentTerms        PaymentTerms   `json:"paymentTerms" validate:"required"`
}

// TotalSquareFootage sums square footage across all areas
func (c *QuoteConfiguration) TotalSquareFootage() int {
	total := 0
	for _, a := range c.Areas {
		total += a.SquareFootage
	}
	return total
}

// Validate checks the structural invariants of the configuration. It
// returns a *ConfigValidationError listing every violation found, so the
// caller can report all problems in one response.
func (c *QuoteConfiguration) Validate() error {
	issues := map[string]string{}

	if len(c.Areas) == 0 {
		issues["areas"] = "at least one area is required"
	}
	if !c.DispatchOrigin.IsValid() {
		issues["dispatchOrigin"] = fmt.Sprintf("unknown dispatch origin %q", c.DispatchOrigin)
	}
	if !c.PaymentTerms.IsValid() {
		issues["paymentTerms"] = fmt.Sprintf("unknown payment terms %q", c.PaymentTerms)
	}
	if c.TravelDistanceMiles < 0 {
		issues["travelDistanceMiles"] = "travel distance cannot be negative"
	}
	for i, flag := range c.RiskFlags {
		if !flag.IsValid() {
			issues[fmt.Sprintf("riskFlags[%d]", i)] = fmt.Sprintf("unknown risk flag %q", flag)
		}
	}
	seenNames := map[string]bool{}
	for i, area := range c.Areas {
		prefix := fmt.Sprintf("areas[%d]", i)
		if area.Name == "" {
			issues[prefix+".name"] = "area name is required"
		} else if seenNames[area.Name] {
			issues[prefix+".name"] = fmt.Sprintf("duplicate area name %q", area.Name)
		}
		seenNames[area.Name] = true

		if area.SquareFootage <= 0 {
			issues[prefix+".squareFootage"] = "square footage must be positive"
		}
		if !area.BuildingCategory.IsValid() {
			issues[prefix+".buildingCategory"] = fmt.Sprintf("unknown building category %q", area.BuildingCategory)
		}
		if !area.Scope.IsValid() {
			issues[prefix+".scope"] = fmt.Sprintf("unknown scope %q", area.Scope)
		}
		if len(area.Disciplines) == 0 {
			issues[prefix+".disciplines"] = "at least one discipline is required"
		}
		seenDisciplines := map[Discipline]bool{}
		for j, d := range area.Disciplines {
			if !d.IsValid() {
				issues[fmt.Sprintf("%s.disciplines[%d]", prefix, j)] = fmt.Sprintf("unknown discipline %q", d)
				continue
			}
			if seenDisciplines[d] {
				issues[fmt.Sprintf("%s.disciplines[%d]", prefix, j)] = fmt.Sprintf("duplicate discipline %q", d)
			}
			seenDisciplines[d] = true
			if !area.LODFor(d).IsValid() {
				issues[fmt.Sprintf("%s.disciplines[%d]", prefix, j)] = fmt.Sprintf("no resolvable LOD for discipline %q", d)
			}
		}
		for d, lod := range area.LODOverrides {
			if !d.IsValid() {
				issues[prefix+".lodOverrides"] = fmt.Sprintf("override for unknown discipline %q", d)
			} else if !lod.IsValid() {
				issues[prefix+".lodOverrides"] = fmt.Sprintf("unknown LOD %d for discipline %q", lod, d)
			}
		}
		if !area.DefaultLOD.IsValid() {
			issues[prefix+".defaultLod"] = fmt.Sprintf("unknown LOD %d", area.DefaultLOD)
		}
	}

	if len(issues) > 0 {
		return &ConfigValidationError{Issues: issues}
	}
	return nil
}

// ConfigValidationError reports every structural violation in a
// QuoteConfiguration keyed by field path.
type ConfigValidationError struct {
	Issues map[string]string
}

// Error implements the error interface
func (e *ConfigValidationError) Error() string {
	return fmt.Sprintf("invalid quote configuration (%d issues)", len(e.Issues))
}
