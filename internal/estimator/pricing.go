package estimator

import (
	"cmp"
	"fmt"
	"math"
	"slices"

	"github.com/mamadbah2/fencequote/internal/domain/models"
)

const hourUnit = "hr"

// Engine prices fence jobs against a fixed set of coefficient tables.
type Engine struct {
	tables Coefficients
}

// New validates the tables and returns an engine bound to a private copy of them.
// Later changes to tables do not reach the engine.
func New(tables Coefficients) (*Engine, error) {
	if err := tables.Validate(); err != nil {
		return nil, err
	}
	return &Engine{tables: tables.Clone()}, nil
}

// Tables returns a copy of the coefficient tables the engine prices against.
func (e *Engine) Tables() Coefficients {
	return e.tables.Clone()
}

// Estimate is the full result of pricing one job.
type Estimate struct {
	Takeoff  Takeoff               `json:"takeoff"`
	Variants []models.QuoteVariant `json:"variants"`
}

// Price runs the takeoff and returns the budget, standard and premium variants, in
// that order. The variants share line items and subtotal and differ only in markup,
// tax and total.
func (e *Engine) Price(in models.QuoteInputs, materials []models.MaterialRecord, settings models.CalculatorSettings) (Estimate, error) {
	if err := checkSettings(settings); err != nil {
		return Estimate{}, err
	}
	takeoff, err := e.Takeoff(in)
	if err != nil {
		return Estimate{}, err
	}
	spec, err := e.tables.Spec(in.FenceType)
	if err != nil {
		return Estimate{}, err
	}

	catalog := indexCatalog(in.FenceType, materials)
	materialItems, err := materialLines(in, spec, takeoff, catalog)
	if err != nil {
		return Estimate{}, err
	}

	items := make([]models.QuoteItem, 0, len(materialItems)+3)
	items = append(items, materialItems...)
	items = append(items, laborLines(takeoff, settings.HourlyRate)...)

	variants := make([]models.QuoteVariant, 0, len(models.VariantTypes))
	for _, vt := range models.VariantTypes {
		markup := math.Max(0, settings.DefaultMarkupPercent+e.tables.MarkupModifiers[vt])
		tax := settings.TaxPercent
		v := models.QuoteVariant{
			Type:          vt,
			MarkupPercent: markup,
			TaxPercent:    &tax,
			Items:         slices.Clone(items),
		}
		variants = append(variants, Recompose(v, nil))
	}

	return Estimate{Takeoff: takeoff, Variants: variants}, nil
}

type catalogIndex struct {
	fenceType  models.FenceType
	byCategory map[models.MaterialCategory][]models.MaterialRecord
}

func indexCatalog(fenceType models.FenceType, materials []models.MaterialRecord) catalogIndex {
	idx := catalogIndex{fenceType: fenceType, byCategory: make(map[models.MaterialCategory][]models.MaterialRecord)}
	for _, m := range materials {
		if !m.IsActive || m.FenceType != fenceType {
			continue
		}
		idx.byCategory[m.Category] = append(idx.byCategory[m.Category], m)
	}
	for _, records := range idx.byCategory {
		slices.SortStableFunc(records, func(a, b models.MaterialRecord) int {
			return cmp.Or(cmp.Compare(a.SortOrder, b.SortOrder), cmp.Compare(a.Name, b.Name))
		})
	}
	return idx
}

// lookup returns the n-th active record of a category, falling back to the first.
func (c catalogIndex) lookup(category models.MaterialCategory, n int) (models.MaterialRecord, error) {
	records := c.byCategory[category]
	if len(records) == 0 {
		return models.MaterialRecord{}, &MissingMaterialError{FenceType: c.fenceType, Category: category}
	}
	if n < len(records) {
		return records[n], nil
	}
	return records[0], nil
}

func materialLines(in models.QuoteInputs, spec FenceSpec, t Takeoff, catalog catalogIndex) ([]models.QuoteItem, error) {
	var items []models.QuoteItem
	add := func(category models.MaterialCategory, n int, qty float64) error {
		record, err := catalog.lookup(category, n)
		if err != nil {
			return err
		}
		if qty > 0 {
			items = append(items, lineItem(record.Name, qty, record.Unit, record.UnitPrice, models.ItemMaterial))
		}
		return nil
	}

	for _, category := range models.MaterialCategories {
		var err error
		switch category {
		case models.MaterialPost:
			err = add(category, 0, float64(t.Posts))
		case models.MaterialRail:
			if spec.RailsPerSection > 0 {
				err = add(category, 0, float64(t.Rails))
			}
		case models.MaterialPanel:
			err = add(category, 0, float64(t.Pickets+t.Panels+t.FabricFeet))
		case models.MaterialConcrete:
			if spec.ConcretePerPost > 0 {
				err = add(category, 0, float64(t.ConcreteBags))
			}
		case models.MaterialGate:
			if in.GatesStandard > 0 {
				err = add(category, 0, float64(in.GatesStandard))
			}
			if err == nil && in.GatesLarge > 0 {
				err = add(category, 1, float64(in.GatesLarge))
			}
		case models.MaterialHardware:
			if t.Gates > 0 {
				err = add(category, 0, float64(t.Gates))
			}
		default:
			err = fmt.Errorf("unhandled material category %q", category)
		}
		if err != nil {
			return nil, err
		}
	}
	return items, nil
}

func laborLines(t Takeoff, rate models.Cents) []models.QuoteItem {
	items := []models.QuoteItem{
		lineItem("Fence installation", t.InstallHours, hourUnit, rate, models.ItemLabor),
	}
	if t.GateHours > 0 {
		items = append(items, lineItem("Gate installation", t.GateHours, hourUnit, rate, models.ItemLabor))
	}
	if t.RemovalHours > 0 {
		items = append(items, lineItem("Old fence removal", t.RemovalHours, hourUnit, rate, models.ItemRemoval))
	}
	return items
}

func lineItem(name string, qty float64, unit string, price models.Cents, category models.ItemCategory) models.QuoteItem {
	return models.QuoteItem{
		Name:      name,
		Quantity:  qty,
		Unit:      unit,
		UnitPrice: price,
		Total:     price.Mul(qty),
		Category:  category,
	}
}

func checkSettings(s models.CalculatorSettings) error {
	switch {
	case s.HourlyRate <= 0:
		return invalid("hourly_rate", "must be greater than zero")
	case !finite(s.DefaultMarkupPercent):
		return invalid("default_markup_percent", "must be a finite number")
	case !finite(s.TaxPercent):
		return invalid("tax_percent", "must be a finite number")
	case s.TaxPercent < 0:
		return invalid("tax_percent", "must not be negative")
	}
	return nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
