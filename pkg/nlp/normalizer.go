// Package nlp holds the text normalization and fuzzy matching used to compare
// customer messages with catalog entries.
package nlp

import (
	"sort"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Synonym maps a list of variants to one canonical term.
type Synonym struct {
	Canonical string   `json:"canonical" yaml:"canonical"`
	Variants  []string `json:"variants" yaml:"variants"`
}

// DefaultStopWords are the filler words dropped from customer queries.
var DefaultStopWords = []string{
	"tenes", "tienes", "quiero", "quisiera", "hay", "mostrame", "muestrame", "mostra",
	"decime", "necesito", "me", "para", "la", "el", "de", "unas", "unos", "un", "una",
	"los", "las",
}

type synonymEntry struct {
	canonical []string
	variants  [][]string // longest first
}

// Normalizer turns free text into its canonical form. It is safe for
// concurrent use once built.
type Normalizer struct {
	entries   []synonymEntry
	stopWords map[string]struct{}
}

// NewNormalizer builds a normalizer for the given synonym table. Declaration
// order matters: on overlapping variants the first canonical wins.
func NewNormalizer(synonyms []Synonym) *Normalizer {
	n := &Normalizer{stopWords: make(map[string]struct{}, len(DefaultStopWords))}
	for _, w := range DefaultStopWords {
		n.stopWords[w] = struct{}{}
	}

	for _, s := range synonyms {
		canonical := tokenize(Fold(s.Canonical))
		if len(canonical) == 0 {
			continue
		}
		entry := synonymEntry{canonical: canonical}
		for _, v := range s.Variants {
			if toks := tokenize(Fold(v)); len(toks) > 0 {
				entry.variants = append(entry.variants, toks)
			}
		}
		sort.SliceStable(entry.variants, func(i, j int) bool {
			return len(entry.variants[i]) > len(entry.variants[j])
		})
		n.entries = append(n.entries, entry)
	}
	return n
}

// Normalize lowercases, strips diacritics and punctuation, replaces synonym
// variants with their canonical form, trims naive plurals and drops stop words.
func (n *Normalizer) Normalize(text string) string {
	tokens := n.canonicalize(tokenize(Fold(text)))

	out := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		trimmed := singular(tok)
		if n.isStopWord(tok) || n.isStopWord(trimmed) {
			continue
		}
		out = append(out, trimmed)
	}
	return strings.Join(out, " ")
}

// Tokens is Normalize split on spaces.
func (n *Normalizer) Tokens(text string) []string {
	return strings.Fields(n.Normalize(text))
}

func (n *Normalizer) isStopWord(tok string) bool {
	_, ok := n.stopWords[tok]
	return ok
}

func (n *Normalizer) canonicalize(tokens []string) []string {
	if len(n.entries) == 0 {
		return tokens
	}

	out := make([]string, 0, len(tokens))
	for i := 0; i < len(tokens); {
		matched := false
		for _, e := range n.entries {
			for _, v := range e.variants {
				if hasPrefixTokens(tokens[i:], v) {
					out = append(out, e.canonical...)
					i += len(v)
					matched = true
					break
				}
			}
			if matched {
				break
			}
		}
		if !matched {
			out = append(out, tokens[i])
			i++
		}
	}
	return out
}

func hasPrefixTokens(tokens, prefix []string) bool {
	if len(prefix) > len(tokens) {
		return false
	}
	for i := range prefix {
		if tokens[i] != prefix[i] {
			return false
		}
	}
	return true
}

// numerals end in "s" without being plurals.
var numerals = map[string]struct{}{
	"tres": {}, "seis": {}, "dieciseis": {}, "veintitres": {}, "veintiseis": {},
}

// singular drops one trailing "s" from words longer than three letters,
// leaving "ss" endings and numerals alone so the result is stable.
func singular(tok string) string {
	if len(tok) <= 3 || !strings.HasSuffix(tok, "s") || strings.HasSuffix(tok, "ss") {
		return tok
	}
	if _, ok := numerals[tok]; ok {
		return tok
	}
	return tok[:len(tok)-1]
}

// Fold lowercases the text and removes combining diacritical marks.
func Fold(text string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, text)
	if err != nil {
		folded = text
	}
	return strings.ToLower(folded)
}

func tokenize(text string) []string {
	return strings.FieldsFunc(text, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

// Words folds text and splits it into letter/digit runs, without synonyms,
// plural trimming or stop-word removal.
func Words(text string) []string {
	return tokenize(Fold(text))
}
