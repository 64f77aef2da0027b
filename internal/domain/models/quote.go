package models

import "time"

// QuoteInputs are the raw job measurements a quote is priced from.
type QuoteInputs struct {
	FenceType     FenceType `bson:"fence_type" json:"fence_type"`
	Length        float64   `bson:"length" json:"length"`
	Height        float64   `bson:"height" json:"height"`
	GatesStandard int       `bson:"gates_standard" json:"gates_standard"`
	GatesLarge    int       `bson:"gates_large" json:"gates_large"`
	RemoveOld     bool      `bson:"remove_old" json:"remove_old"`
	Terrain       Terrain   `bson:"terrain" json:"terrain"`
	Notes         string    `bson:"notes,omitempty" json:"notes,omitempty"`
}

// ItemCategory groups quote lines for totals and rendering.
type ItemCategory string

const (
	ItemMaterial ItemCategory = "material"
	ItemLabor    ItemCategory = "labor"
	ItemRemoval  ItemCategory = "removal"
	ItemCustom   ItemCategory = "custom"
)

// QuoteItem is one priced line of a variant.
type QuoteItem struct {
	Name      string       `bson:"name" json:"name"`
	Quantity  float64      `bson:"qty" json:"qty"`
	Unit      string       `bson:"unit" json:"unit"`
	UnitPrice Cents        `bson:"unit_price" json:"unit_price_cents"`
	Total     Cents        `bson:"total" json:"total_cents"`
	Category  ItemCategory `bson:"category" json:"category"`
}

// VariantType names one of the three proposals priced for every job.
type VariantType string

const (
	VariantBudget   VariantType = "budget"
	VariantStandard VariantType = "standard"
	VariantPremium  VariantType = "premium"
)

// VariantTypes lists the variant types in price order.
var VariantTypes = []VariantType{VariantBudget, VariantStandard, VariantPremium}

// Valid reports whether v is a known variant type.
func (v VariantType) Valid() bool {
	switch v {
	case VariantBudget, VariantStandard, VariantPremium:
		return true
	}
	return false
}

// QuoteVariant is one priced proposal. Every amount is reproducible from Items,
// MarkupPercent and TaxPercent.
type QuoteVariant struct {
	Type           VariantType `bson:"type" json:"type"`
	MarkupPercent  float64     `bson:"markup_percent" json:"markup_percent"`
	TaxPercent     *float64    `bson:"tax_percent,omitempty" json:"tax_percent,omitempty"`
	Items          []QuoteItem `bson:"items" json:"items"`
	MaterialsTotal Cents       `bson:"materials_total" json:"materials_total_cents"`
	LaborTotal     Cents       `bson:"labor_total" json:"labor_total_cents"`
	RemovalTotal   Cents       `bson:"removal_total" json:"removal_total_cents"`
	CustomTotal    Cents       `bson:"custom_total" json:"custom_total_cents"`
	Subtotal       Cents       `bson:"subtotal" json:"subtotal_cents"`
	MarkupAmount   Cents       `bson:"markup_amount" json:"markup_amount_cents"`
	TaxAmount      Cents       `bson:"tax_amount" json:"tax_amount_cents"`
	Total          Cents       `bson:"total" json:"total_cents"`
}

// CustomItem is a manually entered line added after pricing.
type CustomItem struct {
	ID        string  `bson:"id" json:"id"`
	Name      string  `bson:"name" json:"name"`
	Quantity  float64 `bson:"qty" json:"qty"`
	UnitPrice Cents   `bson:"unit_price" json:"unit_price_cents"`
	Total     Cents   `bson:"total" json:"total_cents"`
}

// QuoteStatus tracks where a quote is in the sales pipeline.
type QuoteStatus string

const (
	QuoteDraft    QuoteStatus = "draft"
	QuoteSent     QuoteStatus = "sent"
	QuoteAccepted QuoteStatus = "accepted"
	QuoteDeclined QuoteStatus = "declined"
)

// QuoteStatuses lists every pipeline status.
var QuoteStatuses = []QuoteStatus{QuoteDraft, QuoteSent, QuoteAccepted, QuoteDeclined}

// Valid reports whether s is a known status.
func (s QuoteStatus) Valid() bool {
	switch s {
	case QuoteDraft, QuoteSent, QuoteAccepted, QuoteDeclined:
		return true
	}
	return false
}

// ClientInfo identifies who the quote is addressed to.
type ClientInfo struct {
	Name    string `bson:"name" json:"name"`
	Email   string `bson:"email,omitempty" json:"email,omitempty"`
	Phone   string `bson:"phone,omitempty" json:"phone,omitempty"`
	Address string `bson:"address,omitempty" json:"address,omitempty"`
}

// Quote is the persisted aggregate consuming the estimator output.
type Quote struct {
	ID              string         `bson:"_id" json:"id"`
	UserID          string         `bson:"user_id" json:"-"`
	Client          ClientInfo     `bson:"client" json:"client"`
	Inputs          QuoteInputs    `bson:"inputs" json:"inputs"`
	Variants        []QuoteVariant `bson:"variants" json:"variants"`
	SelectedVariant VariantType    `bson:"selected_variant" json:"selected_variant"`
	CustomItems     []CustomItem   `bson:"custom_items" json:"custom_items"`
	Status          QuoteStatus    `bson:"status" json:"status"`
	Version         int            `bson:"version" json:"version"`
	// Denormalized from the selected variant for list views.
	Subtotal  Cents     `bson:"subtotal" json:"subtotal_cents"`
	Total     Cents     `bson:"total" json:"total_cents"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// Variant returns the variant of the given type.
func (q *Quote) Variant(t VariantType) (QuoteVariant, bool) {
	for _, v := range q.Variants {
		if v.Type == t {
			return v, true
		}
	}
	return QuoteVariant{}, false
}

// SyncSelectedTotals copies the selected variant's totals onto the quote.
func (q *Quote) SyncSelectedTotals() {
	if v, ok := q.Variant(q.SelectedVariant); ok {
		q.Subtotal = v.Subtotal
		q.Total = v.Total
	}
}
