package estimator

import (
	"fmt"
	"math"

	"github.com/mamadbah2/fencequote/internal/domain/models"
)

// ceilSlack absorbs float noise so that e.g. 96/8 never rounds up to 13 sections.
const ceilSlack = 1e-9

// Input limits. The request validator enforces the same bounds; the engine
// repeats them so counts stay within int range for any caller.
const (
	MaxLength = 100000
	MaxHeight = 20
	MaxGates  = 50
)

// Takeoff is the physical quantity estimate for one job.
type Takeoff struct {
	Sections     int     `json:"sections"`
	Posts        int     `json:"posts"`
	Rails        int     `json:"rails"`
	ConcreteBags int     `json:"concrete_bags"`
	Pickets      int     `json:"pickets"`
	Panels       int     `json:"panels"`
	FabricFeet   int     `json:"fabric_feet"`
	Gates        int     `json:"gates"`
	InstallHours float64 `json:"install_hours"`
	GateHours    float64 `json:"gate_hours"`
	RemovalHours float64 `json:"removal_hours"`
}

// LaborHours is the total of installation, gate and removal hours.
func (t Takeoff) LaborHours() float64 {
	return t.InstallHours + t.GateHours + t.RemovalHours
}

// Takeoff converts job inputs into physical quantities. Gates are side costs and do
// not change the post, rail or concrete counts of the run.
func (e *Engine) Takeoff(in models.QuoteInputs) (Takeoff, error) {
	if err := checkInputs(in); err != nil {
		return Takeoff{}, err
	}
	spec, err := e.tables.Spec(in.FenceType)
	if err != nil {
		return Takeoff{}, err
	}
	multiplier, ok := e.tables.TerrainMultipliers[in.Terrain]
	if !ok {
		return Takeoff{}, invalid("terrain", "unknown terrain "+string(in.Terrain))
	}

	sections := ceilCount(in.Length / spec.PostSpacing)
	posts := sections + 1

	t := Takeoff{
		Sections:     sections,
		Posts:        posts,
		Rails:        sections * spec.RailsPerSection,
		ConcreteBags: ceilCount(float64(posts) * spec.ConcretePerPost),
		Gates:        in.GatesStandard + in.GatesLarge,
		InstallHours: in.Length * spec.LaborHoursPerFoot * multiplier,
		GateHours:    float64(in.GatesStandard)*e.tables.GateHours.Standard + float64(in.GatesLarge)*e.tables.GateHours.Large,
	}

	switch spec.Infill {
	case models.InfillPickets:
		t.Pickets = ceilCount(in.Length * spec.PicketsPerFoot)
	case models.InfillPanels:
		t.Panels = sections
	case models.InfillFabric:
		t.FabricFeet = ceilCount(in.Length)
	}

	if in.RemoveOld {
		t.RemovalHours = in.Length * e.tables.RemovalHoursPerFoot
	}

	return t, nil
}

func checkInputs(in models.QuoteInputs) error {
	switch {
	case math.IsNaN(in.Length) || math.IsInf(in.Length, 0):
		return invalid("length", "must be a finite number")
	case in.Length <= 0:
		return invalid("length", "must be greater than zero")
	case in.Length > MaxLength:
		return invalid("length", fmt.Sprintf("must be at most %d", MaxLength))
	case math.IsNaN(in.Height) || math.IsInf(in.Height, 0):
		return invalid("height", "must be a finite number")
	case in.Height < 0:
		return invalid("height", "must not be negative")
	case in.Height > MaxHeight:
		return invalid("height", fmt.Sprintf("must be at most %d", MaxHeight))
	case in.GatesStandard < 0:
		return invalid("gates_standard", "must not be negative")
	case in.GatesStandard > MaxGates:
		return invalid("gates_standard", fmt.Sprintf("must be at most %d", MaxGates))
	case in.GatesLarge < 0:
		return invalid("gates_large", "must not be negative")
	case in.GatesLarge > MaxGates:
		return invalid("gates_large", fmt.Sprintf("must be at most %d", MaxGates))
	}
	return nil
}

func ceilCount(v float64) int {
	if v <= 0 {
		return 0
	}
	return int(math.Ceil(v - ceilSlack))
}
