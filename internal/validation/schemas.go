package validation

import (
	"encoding/json"
	"strings"

	"github.com/mamadbah2/fencequote/internal/domain/models"
)

// Maximum lengths of free-text fields.
const (
	MaxClientName    = 100
	MaxAddress       = 200
	MaxNotes         = 2000
	MaxTermsTemplate = 5000
	MaxItemName      = 120
	MaxUnitLabel     = 20
)

// ClientForm carries the client contact block of a quote.
type ClientForm struct {
	Name    string `json:"name" validate:"required,max=100"`
	Email   string `json:"email" validate:"omitempty,email,max=254"`
	Phone   string `json:"phone" validate:"omitempty,phone"`
	Address string `json:"address" validate:"max=200"`
}

// Normalize sanitizes the free-text fields.
func (f *ClientForm) Normalize() {
	f.Name = SanitizeText(f.Name, false)
	f.Email = strings.ToLower(strings.TrimSpace(f.Email))
	f.Phone = strings.TrimSpace(f.Phone)
	f.Address = SanitizeText(f.Address, false)
}

// Client converts a validated form.
func (f ClientForm) Client() models.ClientInfo {
	return models.ClientInfo{Name: f.Name, Email: f.Email, Phone: f.Phone, Address: f.Address}
}

// QuoteInputsForm carries the job measurements. Numbers may arrive as JSON numbers
// or decimal strings.
type QuoteInputsForm struct {
	FenceType     string      `json:"fence_type" validate:"required,fence_type"`
	Length        json.Number `json:"length" validate:"required,decimal,dgt=0,dmax=100000"`
	Height        json.Number `json:"height" validate:"required,decimal,dgt=0,dmax=20"`
	GatesStandard json.Number `json:"gates_standard" validate:"omitempty,count,dmax=50"`
	GatesLarge    json.Number `json:"gates_large" validate:"omitempty,count,dmax=50"`
	RemoveOld     bool        `json:"remove_old"`
	Terrain       string      `json:"terrain" validate:"required,terrain"`
	Notes         string      `json:"notes" validate:"max=2000"`
}

// Normalize sanitizes the free-text fields.
func (f *QuoteInputsForm) Normalize() {
	f.FenceType = strings.TrimSpace(f.FenceType)
	f.Terrain = strings.TrimSpace(f.Terrain)
	if f.Terrain == "" {
		f.Terrain = string(models.TerrainFlat)
	}
	f.Notes = SanitizeText(f.Notes, true)
}

// Inputs converts a validated form.
func (f QuoteInputsForm) Inputs() models.QuoteInputs {
	length, _ := ParseFloat(f.Length.String())
	height, _ := ParseFloat(f.Height.String())
	return models.QuoteInputs{
		FenceType:     models.FenceType(f.FenceType),
		Length:        length,
		Height:        height,
		GatesStandard: optionalCount(f.GatesStandard),
		GatesLarge:    optionalCount(f.GatesLarge),
		RemoveOld:     f.RemoveOld,
		Terrain:       models.Terrain(f.Terrain),
		Notes:         f.Notes,
	}
}

// NewQuoteForm is the body of a quote creation request.
type NewQuoteForm struct {
	Client ClientForm      `json:"client"`
	Inputs QuoteInputsForm `json:"inputs"`
}

// Normalize sanitizes both nested forms.
func (f *NewQuoteForm) Normalize() {
	f.Client.Normalize()
	f.Inputs.Normalize()
}

// CustomItemForm carries a manually entered line.
type CustomItemForm struct {
	Name      string      `json:"name" validate:"required,max=120"`
	Quantity  json.Number `json:"qty" validate:"required,decimal,dgt=0,dmax=100000"`
	UnitPrice json.Number `json:"unit_price" validate:"required,decimal,dmin=0,dmax=100000"`
}

// Normalize sanitizes the item name.
func (f *CustomItemForm) Normalize() {
	f.Name = SanitizeText(f.Name, false)
}

// Values converts a validated form into name, quantity and unit price.
func (f CustomItemForm) Values() (string, float64, models.Cents) {
	qty, _ := ParseFloat(f.Quantity.String())
	price, _ := ParseCents(f.UnitPrice.String())
	return f.Name, qty, price
}

// MaterialForm carries one price-list entry.
type MaterialForm struct {
	FenceType string      `json:"fence_type" validate:"required,fence_type"`
	Name      string      `json:"name" validate:"required,max=120"`
	Unit      string      `json:"unit" validate:"required,max=20"`
	UnitPrice json.Number `json:"unit_price" validate:"required,decimal,dmin=0,dmax=100000"`
	Category  string      `json:"category" validate:"required,material_category"`
	SortOrder int         `json:"sort_order" validate:"min=0,max=10000"`
	IsActive  *bool       `json:"is_active"`
}

// Normalize sanitizes the free-text fields.
func (f *MaterialForm) Normalize() {
	f.FenceType = strings.TrimSpace(f.FenceType)
	f.Name = SanitizeText(f.Name, false)
	f.Unit = SanitizeText(f.Unit, false)
	f.Category = strings.TrimSpace(f.Category)
}

// Material converts a validated form. Entries are active unless stated otherwise.
func (f MaterialForm) Material() models.MaterialRecord {
	price, _ := ParseCents(f.UnitPrice.String())
	active := true
	if f.IsActive != nil {
		active = *f.IsActive
	}
	return models.MaterialRecord{
		FenceType: models.FenceType(f.FenceType),
		Name:      f.Name,
		Unit:      f.Unit,
		UnitPrice: price,
		Category:  models.MaterialCategory(f.Category),
		SortOrder: f.SortOrder,
		IsActive:  active,
	}
}

// SettingsForm carries the calculator rates and quote terms.
type SettingsForm struct {
	HourlyRate           json.Number `json:"hourly_rate" validate:"required,decimal,dgt=0,dmax=1000"`
	DefaultMarkupPercent json.Number `json:"default_markup_percent" validate:"required,decimal,dmin=0,dmax=100"`
	TaxPercent           json.Number `json:"tax_percent" validate:"required,decimal,dmin=0,dmax=50"`
	TermsTemplate        string      `json:"terms_template" validate:"max=5000"`
}

// Normalize sanitizes the terms template.
func (f *SettingsForm) Normalize() {
	f.TermsTemplate = SanitizeText(f.TermsTemplate, true)
}

// Settings converts a validated form.
func (f SettingsForm) Settings(userID string) models.CalculatorSettings {
	rate, _ := ParseCents(f.HourlyRate.String())
	markup, _ := ParseFloat(f.DefaultMarkupPercent.String())
	tax, _ := ParseFloat(f.TaxPercent.String())
	return models.CalculatorSettings{
		UserID:               userID,
		HourlyRate:           rate,
		DefaultMarkupPercent: markup,
		TaxPercent:           tax,
		TermsTemplate:        f.TermsTemplate,
	}
}

// SelectionForm picks the variant presented to the client.
type SelectionForm struct {
	Variant string `json:"variant" validate:"required,variant_type"`
}

// StatusForm moves a quote through the pipeline.
type StatusForm struct {
	Status string `json:"status" validate:"required,quote_status"`
}

// SMSDestination validates a number handed to the SMS function.
type SMSDestination struct {
	To string `json:"to" validate:"required,sms_e164"`
}

// EmailDestination validates an address handed to the email function.
type EmailDestination struct {
	To string `json:"to" validate:"required,email"`
}

func optionalCount(n json.Number) int {
	if n == "" {
		return 0
	}
	c, _ := ParseCount(n.String())
	return c
}
