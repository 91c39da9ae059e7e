package nlp

import "strings"

// MaxEditDistance is the largest Levenshtein distance still accepted as a
// match. Two absorbs typos and regional spellings without pairing unrelated
// words; tune it together with the resolver's minimum token length.
const MaxEditDistance = 2

// FuzzyMatch reports whether two normalized tokens refer to the same term:
// one contains the other, or they are within MaxEditDistance edits.
func FuzzyMatch(a, b string) bool {
	if a == "" || b == "" {
		return false
	}
	if strings.Contains(a, b) || strings.Contains(b, a) {
		return true
	}
	return Levenshtein(a, b) <= MaxEditDistance
}

// Levenshtein returns the edit distance between a and b, counted in runes.
func Levenshtein(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	if len(ra) == 0 {
		return len(rb)
	}
	if len(rb) == 0 {
		return len(ra)
	}

	prev := make([]int, len(rb)+1)
	curr := make([]int, len(rb)+1)
	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(ra); i++ {
		curr[0] = i
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			curr[j] = min(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}
	return prev[len(rb)]
}
