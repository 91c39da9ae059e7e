package mapper

import (
	"time"

	"github.com/molinerisit/wa-bot-sheets/internal/entity"
	"github.com/molinerisit/wa-bot-sheets/internal/model"
)

type CatalogMapper struct{}

func NewCatalogMapper() *CatalogMapper {
	return &CatalogMapper{}
}

func (m *CatalogMapper) ProductToEntity(e *model.Product) *entity.Product {
	if e == nil {
		return nil
	}

	var updatedAt *time.Time
	if !e.UpdatedAt.IsZero() {
		t := e.UpdatedAt
		updatedAt = &t
	}

	return &entity.Product{
		Id:           e.Id,
		SKU:          e.SKU,
		Name:         e.Name,
		Variant:      e.Variant,
		Price:        e.Price,
		QtyAvailable: e.QtyAvailable,
		Categories:   []string(e.Categories),
		ImageURL:     e.ImageURL,
		Active:       e.Active,
		CreatedAt:    e.CreatedAt,
		UpdatedAt:    updatedAt,
	}
}

func (m *CatalogMapper) ProductToModel(e *entity.Product) *model.Product {
	if e == nil {
		return nil
	}

	var updatedAt time.Time
	if e.UpdatedAt != nil {
		updatedAt = *e.UpdatedAt
	}

	return &model.Product{
		Id:           e.Id,
		SKU:          e.SKU,
		Name:         e.Name,
		Variant:      e.Variant,
		Price:        e.Price,
		QtyAvailable: e.QtyAvailable,
		Categories:   e.Categories,
		ImageURL:     e.ImageURL,
		Active:       e.Active,
		CreatedAt:    e.CreatedAt,
		UpdatedAt:    updatedAt,
	}
}

func (m *CatalogMapper) RuleToEntity(e *model.PricingRule) *entity.PricingRule {
	if e == nil {
		return nil
	}
	return &entity.PricingRule{
		Id:          e.Id,
		Name:        e.Name,
		Category:    e.Category,
		DiscountPct: e.DiscountPct,
		Position:    e.Position,
		Active:      e.Active,
	}
}

func (m *CatalogMapper) RuleToModel(e *entity.PricingRule) *model.PricingRule {
	if e == nil {
		return nil
	}
	return &model.PricingRule{
		Id:          e.Id,
		Name:        e.Name,
		Category:    e.Category,
		DiscountPct: e.DiscountPct,
		Position:    e.Position,
		Active:      e.Active,
	}
}
