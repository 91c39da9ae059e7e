package catalog

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/molinerisit/wa-bot-sheets/internal/pkg/logger"
)

// Source loads the full catalog. Implementations are read on every request.
type Source interface {
	Name() string
	Items(ctx context.Context) ([]Item, error)
}

// StaticSource serves a fixed list of items.
type StaticSource struct {
	Label string
	List  []Item
}

func (s StaticSource) Name() string {
	if s.Label == "" {
		return "static"
	}
	return s.Label
}

func (s StaticSource) Items(ctx context.Context) ([]Item, error) {
	return s.List, nil
}

// ChainSource returns the items of the first source that yields a non-empty
// catalog. Failing sources are logged and skipped.
type ChainSource struct {
	sources []Source
	log     logger.ILogger
}

func NewChainSource(log logger.ILogger, sources ...Source) *ChainSource {
	if log == nil {
		log = logger.NewNopLogger()
	}
	return &ChainSource{sources: sources, log: log}
}

func (c *ChainSource) Name() string {
	names := make([]string, len(c.sources))
	for i, s := range c.sources {
		names[i] = s.Name()
	}
	return "chain(" + strings.Join(names, ",") + ")"
}

func (c *ChainSource) Items(ctx context.Context) ([]Item, error) {
	var errs []error
	for _, src := range c.sources {
		items, err := src.Items(ctx)
		if err != nil {
			c.log.Warn("Catalog", "Catalog source failed, trying next", map[string]interface{}{
				"source": src.Name(),
				"error":  err.Error(),
			})
			errs = append(errs, err)
			continue
		}
		if len(items) > 0 {
			c.log.Debug("Catalog", "Catalog loaded", map[string]interface{}{
				"source": src.Name(),
				"count":  len(items),
			})
			return sanitize(items), nil
		}
	}
	if len(errs) == len(c.sources) && len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	c.log.Warn("Catalog", "Catalog is empty in every source", nil)
	return nil, nil
}

// CSVSource reads "sku,name,variant,price,qty_available,categories,image_url"
// rows from a local file. Categories are separated by "|" or ";".
type CSVSource struct {
	Path string
}

func (s CSVSource) Name() string { return "csv" }

func (s CSVSource) Items(ctx context.Context) ([]Item, error) {
	f, err := os.Open(s.Path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("catalog: open csv %s: %w", s.Path, err)
	}
	defer f.Close()
	return ReadCSV(f)
}

// ReadCSV parses a catalog CSV with a header row. Unknown columns are ignored.
func ReadCSV(r io.Reader) ([]Item, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("catalog: read csv header: %w", err)
	}

	idx := make(map[string]int, len(header))
	for i, h := range header {
		idx[strings.ToLower(strings.TrimSpace(h))] = i
	}
	get := func(row []string, key string) string {
		i, ok := idx[key]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	var items []Item
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("catalog: read csv row: %w", err)
		}
		price, _ := strconv.ParseFloat(get(row, "price"), 64)
		qty, _ := strconv.Atoi(get(row, "qty_available"))
		items = append(items, Item{
			SKU:          get(row, "sku"),
			Name:         get(row, "name"),
			Variant:      get(row, "variant"),
			Price:        price,
			QtyAvailable: qty,
			Categories:   SplitCategories(get(row, "categories")),
			ImageURL:     get(row, "image_url"),
		})
	}
	return items, nil
}

// SplitCategories splits a category cell on "|", ";" or ",".
func SplitCategories(cell string) []string {
	parts := strings.FieldsFunc(cell, func(r rune) bool {
		return r == '|' || r == ';' || r == ','
	})
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
