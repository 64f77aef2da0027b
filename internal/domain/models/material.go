package models

import "time"

// MaterialCategory tags a price-list entry with the takeoff quantity it prices.
type MaterialCategory string

const (
	MaterialPost     MaterialCategory = "post"
	MaterialRail     MaterialCategory = "rail"
	MaterialPanel    MaterialCategory = "panel"
	MaterialConcrete MaterialCategory = "concrete"
	MaterialHardware MaterialCategory = "hardware"
	MaterialGate     MaterialCategory = "gate"
)

// MaterialCategories lists the categories in the order material lines are emitted.
var MaterialCategories = []MaterialCategory{
	MaterialPost, MaterialRail, MaterialPanel, MaterialConcrete, MaterialGate, MaterialHardware,
}

// Valid reports whether c is a known material category.
func (c MaterialCategory) Valid() bool {
	for _, known := range MaterialCategories {
		if c == known {
			return true
		}
	}
	return false
}

// MaterialRecord is one entry of a user's price list.
type MaterialRecord struct {
	ID        string           `bson:"_id" json:"id"`
	UserID    string           `bson:"user_id" json:"user_id"`
	FenceType FenceType        `bson:"fence_type" json:"fence_type"`
	Name      string           `bson:"name" json:"name"`
	Unit      string           `bson:"unit" json:"unit"`
	UnitPrice Cents            `bson:"unit_price" json:"unit_price_cents"`
	Category  MaterialCategory `bson:"category" json:"category"`
	SortOrder int              `bson:"sort_order" json:"sort_order"`
	IsActive  bool             `bson:"is_active" json:"is_active"`
	CreatedAt time.Time        `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time        `bson:"updated_at" json:"updated_at"`
}
