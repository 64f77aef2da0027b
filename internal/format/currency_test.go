package format

import (
	"testing"

	"github.com/mamadbah2/fencequote/internal/domain/models"
)

func TestCurrency(t *testing.T) {
	tests := []struct {
		symbol string
		in     models.Cents
		want   string
	}{
		{"$", 0, "$0.00"},
		{"$", 5, "$0.05"},
		{"$", 74250, "$742.50"},
		{"$", 294775, "$2,947.75"},
		{"$", 123456789, "$1,234,567.89"},
		{"$", -1050, "-$10.50"},
		{"€", 100, "€1.00"},
	}
	for _, tt := range tests {
		if got := Currency(tt.symbol, tt.in); got != tt.want {
			t.Errorf("Currency(%q, %d) = %q, want %q", tt.symbol, tt.in, got, tt.want)
		}
	}
}

func TestQuantityAndPercent(t *testing.T) {
	// Operands are variables so the products carry float error at runtime.
	length, rate, slope := 37.0, 0.12, 1.25
	short, perFoot, flat := 3.0, 0.1, 1.0

	tests := []struct {
		in   float64
		want string
	}{
		{16.5, "16.5"},
		{14, "14"},
		{length * rate * slope, "5.55"},
		{short * perFoot * flat, "0.3"},
		{2.0 / 3.0, "0.67"},
		{-0.001, "0"},
	}
	for _, tt := range tests {
		if got := Quantity(tt.in); got != tt.want {
			t.Errorf("Quantity(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}

	if got := Percent(7.25); got != "7.25%" {
		t.Errorf("Percent(7.25) = %q", got)
	}
	if got := Percent(100.0 / 3.0); got != "33.33%" {
		t.Errorf("Percent(100/3) = %q", got)
	}
}
