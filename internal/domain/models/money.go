package models

import (
	"fmt"
	"math"
)

// Cents is a currency amount in minor units.
type Cents int64

// CentsFromFloat converts a major-unit amount, rounding half away from zero.
func CentsFromFloat(v float64) Cents {
	return Cents(math.Round(v * 100))
}

// Mul multiplies the amount by a real factor and rounds to the nearest cent.
func (c Cents) Mul(factor float64) Cents {
	return Cents(math.Round(float64(c) * factor))
}

// Percent returns pct percent of the amount, rounded to the nearest cent.
func (c Cents) Percent(pct float64) Cents {
	return Cents(math.Round(float64(c) * pct / 100))
}

// Float returns the amount in major units.
func (c Cents) Float() float64 {
	return float64(c) / 100
}

// String renders the amount with two decimals and no currency symbol.
func (c Cents) String() string {
	sign := ""
	v := int64(c)
	if v < 0 {
		sign = "-"
		v = -v
	}
	return fmt.Sprintf("%s%d.%02d", sign, v/100, v%100)
}
