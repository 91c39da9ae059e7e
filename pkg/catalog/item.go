// Package catalog resolves free-text product queries against the catalog and
// prices the candidates with the active promotion rules.
package catalog

import "strings"

// Item is one sellable product variant as read from a catalog source.
type Item struct {
	SKU          string   `json:"sku"`
	Name         string   `json:"name"`
	Variant      string   `json:"variant,omitempty"`
	Price        float64  `json:"price"`
	QtyAvailable int      `json:"qty_available"`
	Categories   []string `json:"categories,omitempty"`
	ImageURL     string   `json:"image_url,omitempty"`
}

func (i Item) InStock() bool {
	return i.QtyAvailable > 0
}

// DisplayName renders "Name (Variant)" or just the name.
func (i Item) DisplayName() string {
	if strings.TrimSpace(i.Variant) == "" {
		return i.Name
	}
	return i.Name + " (" + i.Variant + ")"
}

// sanitize clamps stock at zero so out of stock is never confused with absent.
func sanitize(items []Item) []Item {
	out := make([]Item, 0, len(items))
	for _, it := range items {
		if strings.TrimSpace(it.Name) == "" {
			continue
		}
		if it.QtyAvailable < 0 {
			it.QtyAvailable = 0
		}
		out = append(out, it)
	}
	return out
}
