package match

// Levenshtein computes the edit distance between two strings: the minimum
// number of single byte insertions, deletions or substitutions required to
// transform one into the other.
func Levenshtein(a, b string) int {
	if a == b {
		return 0
	}

	if len(a) == 0 {
		return len(b)
	}

	if len(b) == 0 {
		return len(a)
	}

	// Keep the shorter string in a so the rows stay small
	if len(a) > len(b) {
		a, b = b, a
	}

	prev := make([]int, len(a)+1)
	curr := make([]int, len(a)+1)

	for i := range prev {
		prev[i] = i
	}

	for j := 1; j <= len(b); j++ {
		curr[0] = j

		for i := 1; i <= len(a); i++ {
			cost := 0
			if a[i-1] != b[j-1] {
				cost = 1
			}

			curr[i] = min(
				prev[i]+1,      // deletion
				curr[i-1]+1,    // insertion
				prev[i-1]+cost, // substitution
			)
		}

		prev, curr = curr, prev
	}

	return prev[len(a)]
}

// Similarity returns 1 - distance/max(len(a), len(b)): 1.0 for identical
// strings, 0.0 for strings with nothing in common.
func Similarity(a, b string) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 1.0
	}

	return 1.0 - float64(Levenshtein(a, b))/float64(max(len(a), len(b)))
}

// NameSimilarity compares two type names after normalisation, with and
// without mixin affixes, and returns the better score.
func NameSimilarity(a, b string) float64 {
	plain := Similarity(NormalizeIdent(a), NormalizeIdent(b))
	stripped := Similarity(NormalizeIdentWithAffixStrip(a), NormalizeIdentWithAffixStrip(b))

	return max(plain, stripped)
}
