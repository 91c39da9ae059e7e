package service

import (
	"context"
	"fmt"

	"github.com/molinerisit/wa-bot-sheets/internal/pkg/logger"
	"github.com/molinerisit/wa-bot-sheets/internal/repository/specification"
	"github.com/molinerisit/wa-bot-sheets/internal/repository/unitofwork"
	"github.com/molinerisit/wa-bot-sheets/pkg/catalog"
	"github.com/molinerisit/wa-bot-sheets/pkg/externaldb"
)

// ProductSource serves the active rows of the products table.
type ProductSource struct {
	uowFactory unitofwork.RepositoryFactory
}

var _ catalog.Source = &ProductSource{}

func NewProductSource(uowFactory unitofwork.RepositoryFactory) *ProductSource {
	return &ProductSource{uowFactory: uowFactory}
}

func (s *ProductSource) Name() string { return "products" }

func (s *ProductSource) Items(ctx context.Context) ([]catalog.Item, error) {
	products, err := s.uowFactory.NewUnitOfWork(ctx).ProductRepository().FindAll(ctx, specification.ActiveOnly{})
	if err != nil {
		return nil, fmt.Errorf("load products: %w", err)
	}
	items := make([]catalog.Item, 0, len(products))
	for _, p := range products {
		items = append(items, catalog.Item{
			SKU:          p.SKU,
			Name:         p.Name,
			Variant:      p.Variant,
			Price:        p.Price,
			QtyAvailable: p.QtyAvailable,
			Categories:   p.Categories,
			ImageURL:     p.ImageURL,
		})
	}
	return items, nil
}

// NewCatalogSource chains the external database, the products table and the
// CSV file, in that order. A nil external source or an empty CSV path is
// left out of the chain.
func NewCatalogSource(external *externaldb.Source, products *ProductSource, csvPath string, log logger.ILogger) *catalog.ChainSource {
	var sources []catalog.Source
	if external != nil {
		sources = append(sources, external)
	}
	if products != nil {
		sources = append(sources, products)
	}
	if csvPath != "" {
		sources = append(sources, catalog.CSVSource{Path: csvPath})
	}
	return catalog.NewChainSource(log, sources...)
}
