package catalog

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/molinerisit/wa-bot-sheets/internal/pkg/logger"
	"github.com/molinerisit/wa-bot-sheets/pkg/nlp"
)

// MinFuzzyTokenLen is the shortest query token compared by edit distance.
const MinFuzzyTokenLen = 4

// KeywordExtractor reduces a free-text message to one product or category keyword.
type KeywordExtractor interface {
	ExtractKeyword(ctx context.Context, text string) (string, error)
}

// Resolver turns a query into a ranked candidate list.
type Resolver struct {
	source   Source
	norm     *nlp.Normalizer
	keywords KeywordExtractor
	pinning  PinningTable
	log      logger.ILogger
}

type ResolverOption func(*Resolver)

func WithKeywordExtractor(k KeywordExtractor) ResolverOption {
	return func(r *Resolver) { r.keywords = k }
}

func WithPinning(p PinningTable) ResolverOption {
	return func(r *Resolver) { r.pinning = p }
}

func WithLogger(l logger.ILogger) ResolverOption {
	return func(r *Resolver) { r.log = l }
}

func NewResolver(source Source, norm *nlp.Normalizer, opts ...ResolverOption) *Resolver {
	r := &Resolver{
		source: source,
		norm:   norm,
		log:    logger.NewNopLogger(),
	}
	if r.norm == nil {
		r.norm = nlp.NewNormalizer(nil)
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

type indexedItem struct {
	item       Item
	name       string
	variant    string
	categories []string
	tokens     []string
}

// Resolve runs the literal, fuzzy and keyword tiers in order and ranks the
// first non-empty result. No match is an empty list, not an error.
func (r *Resolver) Resolve(ctx context.Context, query, category string) ([]Item, error) {
	items, err := r.source.Items(ctx)
	if err != nil {
		return nil, fmt.Errorf("catalog: load items: %w", err)
	}
	if len(items) == 0 {
		return nil, nil
	}

	index := r.index(sanitize(items))
	q := r.norm.Normalize(query)
	cat := r.norm.Normalize(category)
	if q == "" && cat == "" {
		return nil, nil
	}

	tier := "literal"
	found := literalMatches(index, q, cat)

	if len(found) == 0 && q != "" {
		tier = "fuzzy"
		found = fuzzyMatches(index, strings.Fields(q))
	}

	if len(found) == 0 && r.keywords != nil && strings.TrimSpace(query) != "" {
		tier = "keyword"
		found = r.keywordMatches(ctx, index, query)
	}

	if len(found) == 0 {
		return nil, nil
	}

	r.log.Debug("Catalog", "Resolved query", map[string]interface{}{
		"query":   query,
		"tier":    tier,
		"matches": len(found),
	})
	return r.pinning.Apply(Rank(found), strings.Fields(q), r.norm), nil
}

func (r *Resolver) index(items []Item) []indexedItem {
	out := make([]indexedItem, len(items))
	for i, it := range items {
		e := indexedItem{
			item:    it,
			name:    r.norm.Normalize(it.Name),
			variant: r.norm.Normalize(it.Variant),
		}
		e.tokens = append(e.tokens, strings.Fields(e.name)...)
		e.tokens = append(e.tokens, strings.Fields(e.variant)...)
		for _, c := range it.Categories {
			nc := r.norm.Normalize(c)
			if nc == "" {
				continue
			}
			e.categories = append(e.categories, nc)
			e.tokens = append(e.tokens, strings.Fields(nc)...)
		}
		out[i] = e
	}
	return out
}

func literalMatches(index []indexedItem, q, cat string) []Item {
	var out []Item
	for _, e := range index {
		if e.literalHit(q, cat) {
			out = append(out, e.item)
		}
	}
	return out
}

func (e indexedItem) literalHit(q, cat string) bool {
	if q != "" {
		if strings.Contains(e.name, q) || (e.variant != "" && strings.Contains(e.variant, q)) {
			return true
		}
	}
	for _, c := range e.categories {
		if cat != "" && strings.Contains(c, cat) {
			return true
		}
		if q != "" && c == q {
			return true
		}
	}
	return false
}

func fuzzyMatches(index []indexedItem, queryTokens []string) []Item {
	var out []Item
	for _, e := range index {
		if e.fuzzyHit(queryTokens) {
			out = append(out, e.item)
		}
	}
	return out
}

func (e indexedItem) fuzzyHit(queryTokens []string) bool {
	for _, qt := range queryTokens {
		if utf8.RuneCountInString(qt) < MinFuzzyTokenLen {
			continue
		}
		for _, tok := range e.tokens {
			if utf8.RuneCountInString(tok) < 3 {
				continue
			}
			if nlp.FuzzyMatch(qt, tok) {
				return true
			}
		}
	}
	return false
}

// keywordMatches is advisory: a failing or unmatched keyword yields nothing.
func (r *Resolver) keywordMatches(ctx context.Context, index []indexedItem, query string) []Item {
	kw, err := r.keywords.ExtractKeyword(ctx, query)
	if err != nil {
		r.log.Warn("Catalog", "Keyword extraction failed", map[string]interface{}{"error": err.Error()})
		return nil
	}
	k := r.norm.Normalize(kw)
	if k == "" {
		return nil
	}
	found := literalMatches(index, k, k)
	if len(found) > 0 {
		r.log.Info("Catalog", "Keyword tier suggested a match", map[string]interface{}{
			"query":   query,
			"keyword": k,
		})
	}
	return found
}
