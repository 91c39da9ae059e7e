package entity

import (
	"time"

	"github.com/google/uuid"
)

type Product struct {
	Id           uuid.UUID
	SKU          string
	Name         string
	Variant      string
	Price        float64
	QtyAvailable int
	Categories   []string
	ImageURL     string
	Active       bool
	CreatedAt    time.Time
	UpdatedAt    *time.Time
}

// PricingRule discounts every product of Category. Position fixes the order
// in which rules stack.
type PricingRule struct {
	Id          uuid.UUID
	Name        string
	Category    string
	DiscountPct float64
	Position    int
	Active      bool
}
