package models

import "time"

// CalculatorSettings are the per-user rates read at calculation time.
type CalculatorSettings struct {
	UserID               string    `bson:"_id" json:"-"`
	HourlyRate           Cents     `bson:"hourly_rate" json:"hourly_rate_cents"`
	DefaultMarkupPercent float64   `bson:"default_markup_percent" json:"default_markup_percent"`
	TaxPercent           float64   `bson:"tax_percent" json:"tax_percent"`
	TermsTemplate        string    `bson:"terms_template,omitempty" json:"terms_template,omitempty"`
	UpdatedAt            time.Time `bson:"updated_at" json:"updated_at"`
}

// DefaultSettings are handed out to users who never saved their own.
func DefaultSettings(userID string) CalculatorSettings {
	return CalculatorSettings{
		UserID:               userID,
		HourlyRate:           4500,
		DefaultMarkupPercent: 20,
		TaxPercent:           0,
	}
}
