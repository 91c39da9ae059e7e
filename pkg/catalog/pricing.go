package catalog

import (
	"math"
	"slices"

	"github.com/molinerisit/wa-bot-sheets/pkg/nlp"
)

// Rule is a promotion: when an item belongs to Condition.Category, take
// Action.DiscountPct off its price.
type Rule struct {
	Name      string        `json:"name"`
	Condition RuleCondition `json:"when"`
	Action    RuleAction    `json:"action"`
}

type RuleCondition struct {
	Category string `json:"category"`
}

type RuleAction struct {
	DiscountPct float64 `json:"discount_pct"`
}

// PricedItem is a scratch copy of an item with the rules applied.
type PricedItem struct {
	Item
	ListPrice  float64   `json:"list_price"`
	FinalPrice float64   `json:"final_price"`
	Discounts  []float64 `json:"discounts,omitempty"`
	RuleNames  []string  `json:"rules,omitempty"`
}

func (p PricedItem) Discounted() bool {
	return len(p.Discounts) > 0
}

// ApplyRules applies every matching rule, in declaration order, on top of the
// price left by the previous one. The input items are not modified.
func ApplyRules(items []Item, rules []Rule) []PricedItem {
	out := make([]PricedItem, len(items))
	for i, it := range items {
		it.Categories = slices.Clone(it.Categories)
		out[i] = PricedItem{Item: it, ListPrice: it.Price, FinalPrice: it.Price}
	}

	for _, rule := range rules {
		pct := rule.Action.DiscountPct
		if pct <= 0 || pct > 100 {
			continue
		}
		for i := range out {
			if !rule.matches(out[i].Item) {
				continue
			}
			out[i].FinalPrice = roundCents(out[i].FinalPrice * (100 - pct) / 100)
			out[i].Discounts = append(out[i].Discounts, pct)
			out[i].RuleNames = append(out[i].RuleNames, rule.Name)
		}
	}
	return out
}

func (r Rule) matches(it Item) bool {
	want := nlp.Fold(r.Condition.Category)
	if want == "" {
		return false
	}
	for _, c := range it.Categories {
		if nlp.Fold(c) == want {
			return true
		}
	}
	return false
}

func roundCents(v float64) float64 {
	return math.Round(v*100) / 100
}
