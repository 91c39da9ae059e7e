package contract

import (
	"context"

	"github.com/molinerisit/wa-bot-sheets/internal/entity"
)

type ProductRepository interface {
	CrudRepository[entity.Product]
	FindBySKU(ctx context.Context, sku string) (*entity.Product, error)
	// UpsertBySKU inserts the product or overwrites the row with the same SKU.
	UpsertBySKU(ctx context.Context, p *entity.Product) error
}

type PricingRuleRepository interface {
	CrudRepository[entity.PricingRule]
}
