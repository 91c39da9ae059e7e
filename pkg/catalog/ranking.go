package catalog

import (
	"sort"

	"github.com/molinerisit/wa-bot-sheets/pkg/nlp"
)

// Rank orders in-stock items before out-of-stock ones and by ascending price
// within each bucket. Equal items keep their source order.
func Rank(items []Item) []Item {
	out := make([]Item, len(items))
	copy(out, items)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].InStock() != out[j].InStock() {
			return out[i].InStock()
		}
		return out[i].Price < out[j].Price
	})
	return out
}

// PinRule forces the item named Pinned to the front whenever a query token
// equals Family, regardless of stock or price.
type PinRule struct {
	Family string `json:"family" yaml:"family"`
	Pinned string `json:"pinned" yaml:"pinned"`
}

// PinningTable is evaluated in order; the first rule that applies wins.
type PinningTable []PinRule

// Apply returns a copy of ranked with the pinned item moved first.
func (p PinningTable) Apply(ranked []Item, queryTokens []string, norm *nlp.Normalizer) []Item {
	if len(p) == 0 || len(ranked) == 0 {
		return ranked
	}
	if norm == nil {
		norm = nlp.NewNormalizer(nil)
	}

	tokens := make(map[string]struct{}, len(queryTokens))
	for _, t := range queryTokens {
		tokens[t] = struct{}{}
	}

	for _, rule := range p {
		family := norm.Normalize(rule.Family)
		if _, ok := tokens[family]; !ok || family == "" {
			continue
		}
		pinned := norm.Normalize(rule.Pinned)
		for i, it := range ranked {
			if norm.Normalize(it.Name) != pinned && norm.Normalize(it.DisplayName()) != pinned && it.SKU != rule.Pinned {
				continue
			}
			out := make([]Item, 0, len(ranked))
			out = append(out, it)
			out = append(out, ranked[:i]...)
			out = append(out, ranked[i+1:]...)
			return out
		}
	}
	return ranked
}
