package estimator

import (
	"fmt"
	"maps"
	"slices"

	"github.com/mamadbah2/fencequote/internal/domain/models"
)

// FenceSpec holds the construction constants of one fence type.
type FenceSpec struct {
	Label             string             `json:"label"`
	PostSpacing       float64            `json:"post_spacing"`
	RailsPerSection   int                `json:"rails_per_section"`
	ConcretePerPost   float64            `json:"concrete_per_post"`
	LaborHoursPerFoot float64            `json:"labor_hours_per_ft"`
	AvailableHeights  []float64          `json:"available_heights"`
	DefaultHeight     float64            `json:"default_height"`
	Infill            models.InfillStyle `json:"infill"`
	PicketsPerFoot    float64            `json:"pickets_per_foot,omitempty"`
}

// GateHours are the flat labor hours added per gate.
type GateHours struct {
	Standard float64 `json:"standard"`
	Large    float64 `json:"large"`
}

// Coefficients is the reference data the estimator prices against. It is passed
// to New rather than read from package state so callers can substitute tables.
type Coefficients struct {
	Fences              map[models.FenceType]FenceSpec `json:"fences"`
	TerrainMultipliers  map[models.Terrain]float64     `json:"terrain_multipliers"`
	GateHours           GateHours                      `json:"gate_hours"`
	RemovalHoursPerFoot float64                        `json:"removal_hours_per_ft"`
	MarkupModifiers     map[models.VariantType]float64 `json:"variant_markup_modifiers"`
}

// DefaultCoefficients returns a fresh copy of the built-in tables.
func DefaultCoefficients() Coefficients {
	return Coefficients{
		Fences: map[models.FenceType]FenceSpec{
			models.FenceWoodPrivacy: {
				Label:             "Wood Privacy",
				PostSpacing:       8,
				RailsPerSection:   3,
				ConcretePerPost:   1,
				LaborHoursPerFoot: 0.15,
				AvailableHeights:  []float64{4, 5, 6, 8},
				DefaultHeight:     6,
				Infill:            models.InfillPickets,
				PicketsPerFoot:    2.2,
			},
			models.FenceWoodPicket: {
				Label:             "Wood Picket",
				PostSpacing:       8,
				RailsPerSection:   2,
				ConcretePerPost:   1,
				LaborHoursPerFoot: 0.12,
				AvailableHeights:  []float64{3, 4, 5},
				DefaultHeight:     4,
				Infill:            models.InfillPickets,
				PicketsPerFoot:    1.7,
			},
			models.FenceChainLink: {
				Label:             "Chain Link",
				PostSpacing:       10,
				RailsPerSection:   1,
				ConcretePerPost:   1,
				LaborHoursPerFoot: 0.1,
				AvailableHeights:  []float64{4, 5, 6},
				DefaultHeight:     4,
				Infill:            models.InfillFabric,
			},
			models.FenceVinyl: {
				Label:             "Vinyl",
				PostSpacing:       8,
				ConcretePerPost:   1,
				LaborHoursPerFoot: 0.12,
				AvailableHeights:  []float64{4, 5, 6},
				DefaultHeight:     6,
				Infill:            models.InfillPanels,
			},
			models.FenceAluminum: {
				Label:             "Aluminum",
				PostSpacing:       6,
				ConcretePerPost:   0.5,
				LaborHoursPerFoot: 0.12,
				AvailableHeights:  []float64{4, 5, 6},
				DefaultHeight:     4,
				Infill:            models.InfillPanels,
			},
		},
		TerrainMultipliers: map[models.Terrain]float64{
			models.TerrainFlat:   1.0,
			models.TerrainSloped: 1.25,
			models.TerrainRocky:  1.5,
		},
		GateHours:           GateHours{Standard: 1.5, Large: 2.5},
		RemovalHoursPerFoot: 0.05,
		MarkupModifiers: map[models.VariantType]float64{
			models.VariantBudget:   -5,
			models.VariantStandard: 0,
			models.VariantPremium:  10,
		},
	}
}

// Clone returns a deep copy of c. Nothing in the copy is shared with c.
func (c Coefficients) Clone() Coefficients {
	out := c
	out.Fences = make(map[models.FenceType]FenceSpec, len(c.Fences))
	for t, spec := range c.Fences {
		spec.AvailableHeights = slices.Clone(spec.AvailableHeights)
		out.Fences[t] = spec
	}
	out.TerrainMultipliers = maps.Clone(c.TerrainMultipliers)
	out.MarkupModifiers = maps.Clone(c.MarkupModifiers)
	return out
}

// Spec returns the fence spec for t.
func (c Coefficients) Spec(t models.FenceType) (FenceSpec, error) {
	spec, ok := c.Fences[t]
	if !ok {
		return FenceSpec{}, fmt.Errorf("%w: %q", ErrUnknownFenceType, t)
	}
	return spec, nil
}

// Validate checks the table invariants the estimator depends on.
func (c Coefficients) Validate() error {
	if len(c.Fences) == 0 {
		return fmt.Errorf("coefficients: no fence specs")
	}
	for t, spec := range c.Fences {
		if spec.PostSpacing <= 0 {
			return fmt.Errorf("coefficients: %s post spacing must be positive", t)
		}
		if spec.RailsPerSection < 0 || spec.ConcretePerPost < 0 || spec.LaborHoursPerFoot < 0 {
			return fmt.Errorf("coefficients: %s has a negative constant", t)
		}
		if len(spec.AvailableHeights) == 0 {
			return fmt.Errorf("coefficients: %s has no available heights", t)
		}
		if !slices.Contains(spec.AvailableHeights, spec.DefaultHeight) {
			return fmt.Errorf("coefficients: %s default height %v is not selectable", t, spec.DefaultHeight)
		}
		switch spec.Infill {
		case models.InfillPickets:
			if spec.PicketsPerFoot <= 0 {
				return fmt.Errorf("coefficients: %s needs pickets per foot", t)
			}
		case models.InfillPanels, models.InfillFabric:
		default:
			return fmt.Errorf("coefficients: %s has unknown infill %q", t, spec.Infill)
		}
	}
	for _, terrain := range models.Terrains {
		if m, ok := c.TerrainMultipliers[terrain]; !ok || m <= 0 {
			return fmt.Errorf("coefficients: missing terrain multiplier for %s", terrain)
		}
	}
	for _, vt := range models.VariantTypes {
		if _, ok := c.MarkupModifiers[vt]; !ok {
			return fmt.Errorf("coefficients: missing markup modifier for %s", vt)
		}
	}
	if c.GateHours.Standard < 0 || c.GateHours.Large < 0 || c.RemovalHoursPerFoot < 0 {
		return fmt.Errorf("coefficients: negative gate or removal hours")
	}
	return nil
}
