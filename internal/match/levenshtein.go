package match

// Levenshtein computes the Levenshtein distance (edit distance) between two strings.
// The distance is the minimum number of single-rune edits (insertions, deletions,
// or substitutions) required to transform one string into the other. Runes,
// not bytes, are compared so non-Latin bone names are measured correctly.
//
// Time complexity: O(len(a) * len(b))
// Space complexity: O(min(len(a), len(b))).
func Levenshtein(a, b string) int {
	if a == b {
		return 0
	}

	ra, rb := []rune(a), []rune(b)

	if len(ra) == 0 {
		return len(rb)
	}

	if len(rb) == 0 {
		return len(ra)
	}

	// Keep ra the shorter slice; only two rows of the matrix are live.
	if len(ra) > len(rb) {
		ra, rb = rb, ra
	}

	prev := make([]int, len(ra)+1)
	curr := make([]int, len(ra)+1)

	for i := range prev {
		prev[i] = i
	}

	for j := 1; j <= len(rb); j++ {
		curr[0] = j

		for i := 1; i <= len(ra); i++ {
			cost := 0
			if ra[i-1] != rb[j-1] {
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

	return prev[len(ra)]
}

// LevenshteinNormalized computes a normalized similarity score between 0 and 1.
// 1.0 means identical strings, 0.0 means completely different.
// The score is: 1 - (distance / max(runes(a), runes(b))).
func LevenshteinNormalized(a, b string) float64 {
	la, lb := len([]rune(a)), len([]rune(b))
	if la == 0 && lb == 0 {
		return 1.0
	}

	return 1.0 - float64(Levenshtein(a, b))/float64(max(la, lb))
}

// sideMismatchPenalty scales the name score of a left/right mismatch.
const sideMismatchPenalty = 0.5

// NameScore is the similarity of two node names in [0, 1].
//
// Identical names score 1. Otherwise the better of the normalized and the
// canonical (prefix and side stripped) similarity is used, halved when the
// names carry opposite or missing side markers.
func NameScore(a, b string) float64 {
	if a == b {
		return 1.0
	}

	score := LevenshteinNormalized(NormalizeName(a), NormalizeName(b))

	ka, kb := CanonicalName(a), CanonicalName(b)
	if ka.Base != "" && kb.Base != "" {
		if canonical := LevenshteinNormalized(ka.Base, kb.Base); canonical > score {
			score = canonical
		}
	}

	if ka.Side != kb.Side {
		score *= sideMismatchPenalty
	}

	return score
}
