// Package textbreak finds the longest word-bounded prefix of a text run that
// fits a height budget. The search is a binary search over candidate cut
// lengths; each probe costs one measurement of the rebuilt enclosing node, so
// a run of n runes needs O(log n) measurements. The search itself is pure:
// all side effects live in the injected evaluator.
package textbreak

import "unicode"

// MinUnbreakable is the minimum prefix length accepted without a space
// boundary. Shorter space-less prefixes reject the run entirely so the split
// falls back to a coarser boundary.
const MinUnbreakable = 7

// Evaluator rebuilds the enclosing node with a candidate prefix of the given
// rune length and returns its rendered height.
type Evaluator func(prefixLen int) float64

// Search returns the rune offset of the longest prefix of text whose
// evaluated height fits the budget, trimmed back to the nearest preceding
// space. It returns 0 when no non-trivial prefix fits. Monotonicity is
// assumed: a shorter prefix never renders taller.
func Search(text []rune, budget float64, eval Evaluator) int {
	n := len(text)
	if n == 0 {
		return 0
	}

	// Largest L in [0, n] with eval(L) <= budget.
	lo, hi := 0, n
	for lo < hi {
		mid := (lo + hi + 1) / 2
		if eval(mid) <= budget {
			lo = mid
		} else {
			hi = mid - 1
		}
	}
	fit := lo
	if fit <= 0 {
		return 0
	}
	if fit == n {
		return n
	}

	// Already at a word boundary.
	if unicode.IsSpace(text[fit]) || unicode.IsSpace(text[fit-1]) {
		return fit
	}

	// Trim back to the preceding space.
	for i := fit - 1; i > 0; i-- {
		if unicode.IsSpace(text[i]) {
			return i + 1
		}
	}

	// A space at the very start would trim to an empty candidate; fall back
	// to a single rune rather than produce an empty text node.
	if unicode.IsSpace(text[0]) {
		return 1
	}

	// No space anywhere in the prefix: accept a mid-token cut only past the
	// minimum unbreakable length.
	if fit >= MinUnbreakable {
		return fit
	}
	return 0
}
