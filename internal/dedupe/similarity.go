package dedupe

import (
	"strings"

	"github.com/pmezard/go-difflib/difflib"
)

// Similarity scores the lexical likeness of two strings in [0.0, 1.0].
//
// Both inputs are lower-cased, then compared with a longest-matching-block
// ratio (difflib's SequenceMatcher semantics): twice the matched rune count
// over the combined length. Unlike plain edit distance or token-set overlap
// this stays sensitive to substring overlap and ordering, which matters for
// titles that differ only by punctuation or a parenthetical
// ("Song (Live)" vs "Song").
//
// The raw matcher is order-dependent (its greedy block selection can find
// different matches depending on which operand anchors the recursion), so
// the operands are put in lexicographic order first. That makes
// Similarity(a, b) == Similarity(b, a) hold for every pair.
func Similarity(a, b string) float64 {
	x, y := strings.ToLower(a), strings.ToLower(b)
	if x > y {
		x, y = y, x
	}
	return difflib.NewMatcher(splitRunes(x), splitRunes(y)).Ratio()
}

// splitRunes expands s into single-rune sequence elements so the matcher
// compares characters rather than lines.
func splitRunes(s string) []string {
	out := make([]string, 0, len(s))
	for _, r := range s {
		out = append(out, string(r))
	}
	return out
}
