package validation

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/mamadbah2/fencequote/internal/domain/models"
)

// ErrNotANumber is returned for strings that are not plain decimal numbers.
var ErrNotANumber = errors.New("not a decimal number")

// ParseDecimal parses a locale-agnostic decimal string such as "12", "-3.5" or
// "1e3". Thousands separators, NaN and infinities are rejected.
func ParseDecimal(raw string) (decimal.Decimal, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return decimal.Zero, ErrNotANumber
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrNotANumber, raw)
	}
	return d, nil
}

// ParseFloat parses raw and returns it as a float64.
func ParseFloat(raw string) (float64, error) {
	d, err := ParseDecimal(raw)
	if err != nil {
		return 0, err
	}
	return d.InexactFloat64(), nil
}

// ParseCents parses a major-unit amount into minor units, rounding half away from zero.
func ParseCents(raw string) (models.Cents, error) {
	d, err := ParseDecimal(raw)
	if err != nil {
		return 0, err
	}
	return models.Cents(d.Shift(2).Round(0).IntPart()), nil
}

// ParseCount parses a whole, non-negative count.
func ParseCount(raw string) (int, error) {
	d, err := ParseDecimal(raw)
	if err != nil {
		return 0, err
	}
	if !d.IsInteger() || d.IsNegative() {
		return 0, fmt.Errorf("%w: %q is not a whole count", ErrNotANumber, raw)
	}
	return int(d.IntPart()), nil
}
