package estimator

import (
	"fmt"

	"github.com/mamadbah2/fencequote/internal/domain/models"
)

// NewCustomItem prices a manually entered line.
func NewCustomItem(name string, qty float64, unitPrice models.Cents) models.CustomItem {
	return models.CustomItem{
		Name:      name,
		Quantity:  qty,
		UnitPrice: unitPrice,
		Total:     unitPrice.Mul(qty),
	}
}

// Recompose recomputes every aggregate of v from its items, the given custom items,
// its markup percent and its tax rate. Non-custom items are left untouched.
func Recompose(v models.QuoteVariant, customs []models.CustomItem) models.QuoteVariant {
	rate := TaxRate(v)
	out := v
	out.MaterialsTotal, out.LaborTotal, out.RemovalTotal = 0, 0, 0
	for _, item := range v.Items {
		switch item.Category {
		case models.ItemMaterial:
			out.MaterialsTotal += item.Total
		case models.ItemLabor:
			out.LaborTotal += item.Total
		case models.ItemRemoval:
			out.RemovalTotal += item.Total
		case models.ItemCustom:
		}
	}
	out.CustomTotal = 0
	for _, c := range customs {
		out.CustomTotal += c.Total
	}
	return applyRates(out, out.MaterialsTotal+out.LaborTotal+out.RemovalTotal+out.CustomTotal, rate)
}

// AddCustomItem folds a new custom item into a priced variant without repricing
// its items.
func AddCustomItem(v models.QuoteVariant, item models.CustomItem) models.QuoteVariant {
	rate := TaxRate(v)
	out := v
	out.CustomTotal += item.Total
	return applyRates(out, v.Subtotal+item.Total, rate)
}

// RemoveCustomItem recomputes v after a custom item was removed; remaining are the
// custom items still on the quote.
func RemoveCustomItem(v models.QuoteVariant, remaining []models.CustomItem) models.QuoteVariant {
	return Recompose(v, remaining)
}

// TaxRate returns the tax percent that produced v. Variants persisted without an
// explicit rate use tax / (subtotal + markup); an empty base yields 0.
func TaxRate(v models.QuoteVariant) float64 {
	if v.TaxPercent != nil {
		return *v.TaxPercent
	}
	base := v.Subtotal + v.MarkupAmount
	if base == 0 {
		return 0
	}
	return float64(v.TaxAmount) / float64(base) * 100
}

func applyRates(v models.QuoteVariant, subtotal models.Cents, taxPercent float64) models.QuoteVariant {
	v.Subtotal = subtotal
	v.MarkupAmount = subtotal.Percent(v.MarkupPercent)
	v.TaxAmount = (subtotal + v.MarkupAmount).Percent(taxPercent)
	v.Total = subtotal + v.MarkupAmount + v.TaxAmount
	rate := taxPercent
	v.TaxPercent = &rate
	return v
}

// Verify rejects variant sets that must never be persisted: anything other than one
// variant per type, non-finite rates or quantities, or totals that do not add up.
func Verify(variants []models.QuoteVariant) error {
	if len(variants) != len(models.VariantTypes) {
		return fmt.Errorf("%w: want %d variants, got %d", ErrInvalidVariants, len(models.VariantTypes), len(variants))
	}
	seen := make(map[models.VariantType]bool, len(variants))
	for _, v := range variants {
		if !v.Type.Valid() {
			return fmt.Errorf("%w: unknown variant type %q", ErrInvalidVariants, v.Type)
		}
		if seen[v.Type] {
			return fmt.Errorf("%w: duplicate variant type %q", ErrInvalidVariants, v.Type)
		}
		seen[v.Type] = true

		if !finite(v.MarkupPercent) || (v.TaxPercent != nil && !finite(*v.TaxPercent)) {
			return fmt.Errorf("%w: %s has a non-finite rate", ErrInvalidVariants, v.Type)
		}
		for _, item := range v.Items {
			if !finite(item.Quantity) || item.Quantity < 0 {
				return fmt.Errorf("%w: %s item %q has invalid quantity", ErrInvalidVariants, v.Type, item.Name)
			}
		}
		if v.Subtotal != v.MaterialsTotal+v.LaborTotal+v.RemovalTotal+v.CustomTotal {
			return fmt.Errorf("%w: %s subtotal does not match its parts", ErrInvalidVariants, v.Type)
		}
		if v.Total != v.Subtotal+v.MarkupAmount+v.TaxAmount {
			return fmt.Errorf("%w: %s total does not match its parts", ErrInvalidVariants, v.Type)
		}
	}
	return nil
}
