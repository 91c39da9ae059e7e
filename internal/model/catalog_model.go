package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Product struct {
	Id           uuid.UUID                   `gorm:"type:uuid;primaryKey"`
	SKU          string                      `gorm:"column:sku;size:64;not null;uniqueIndex"`
	Name         string                      `gorm:"size:255;not null"`
	Variant      string                      `gorm:"size:255"`
	Price        float64                     `gorm:"not null;default:0"`
	QtyAvailable int                         `gorm:"not null;default:0"`
	Categories   datatypes.JSONSlice[string] `gorm:"type:jsonb"`
	ImageURL     string                      `gorm:"column:image_url;type:text"`
	Active       bool                        `gorm:"not null;index"`
	CreatedAt    time.Time                   `gorm:"autoCreateTime"`
	UpdatedAt    time.Time                   `gorm:"autoUpdateTime"`
}

func (Product) TableName() string {
	return "products"
}

func (m *Product) BeforeCreate(*gorm.DB) error {
	assignID(&m.Id)
	return nil
}

type PricingRule struct {
	Id          uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name        string    `gorm:"size:100;not null;uniqueIndex"`
	Category    string    `gorm:"size:100;not null"`
	DiscountPct float64   `gorm:"not null"`
	Position    int       `gorm:"not null;default:0;index"`
	Active      bool      `gorm:"not null"`
}

func (PricingRule) TableName() string {
	return "pricing_rules"
}

func (m *PricingRule) BeforeCreate(*gorm.DB) error {
	assignID(&m.Id)
	return nil
}
