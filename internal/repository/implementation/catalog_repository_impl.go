package implementation

import (
	"context"
	"errors"

	"github.com/molinerisit/wa-bot-sheets/internal/entity"
	"github.com/molinerisit/wa-bot-sheets/internal/mapper"
	"github.com/molinerisit/wa-bot-sheets/internal/model"
	"github.com/molinerisit/wa-bot-sheets/internal/repository/contract"
	"github.com/molinerisit/wa-bot-sheets/internal/repository/specification"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ProductRepositoryImpl struct {
	*crudRepository[entity.Product, model.Product]
	mapper *mapper.CatalogMapper
}

func NewProductRepository(db *gorm.DB) contract.ProductRepository {
	m := mapper.NewCatalogMapper()
	return &ProductRepositoryImpl{
		crudRepository: &crudRepository[entity.Product, model.Product]{
			db: db, toEntity: m.ProductToEntity, toModel: m.ProductToModel,
			defaultOrder: specification.OrderBy{Field: "name"},
		},
		mapper: m,
	}
}

func (r *ProductRepositoryImpl) FindBySKU(ctx context.Context, sku string) (*entity.Product, error) {
	var m model.Product
	if err := r.db.WithContext(ctx).Where("sku = ?", sku).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ProductToEntity(&m), nil
}

func (r *ProductRepositoryImpl) UpsertBySKU(ctx context.Context, p *entity.Product) error {
	m := r.mapper.ProductToModel(p)
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "sku"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"name", "variant", "price", "qty_available", "categories", "image_url", "active", "updated_at",
		}),
	}).Create(m).Error
	if err != nil {
		return err
	}
	var stored model.Product
	if err := r.db.WithContext(ctx).Where("sku = ?", m.SKU).First(&stored).Error; err != nil {
		return err
	}
	*p = *r.mapper.ProductToEntity(&stored)
	return nil
}

func NewPricingRuleRepository(db *gorm.DB) contract.PricingRuleRepository {
	m := mapper.NewCatalogMapper()
	return &crudRepository[entity.PricingRule, model.PricingRule]{
		db: db, toEntity: m.RuleToEntity, toModel: m.RuleToModel,
		defaultOrder: specification.ByPosition{},
	}
}
