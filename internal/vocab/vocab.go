// Package vocab maps classifier output indices onto the recognizable
// alphabet: A-Z plus the trailing special tokens of the 29-class model.
package vocab

// Distribution is a per-class probability vector. Index i corresponds to the
// letter LetterFromIndex(i).
type Distribution []float64

// Special tokens occupying the indices after Z, in declared order.
const (
	TokenSpace   = "SPACE"
	TokenDelete  = "DELETE"
	TokenNothing = "NOTHING"
)

var specialTokens = []string{TokenSpace, TokenDelete, TokenNothing}

// FallbackLetter is reported for out-of-range indices and empty distributions.
const FallbackLetter = "A"

// LetterFromIndex converts a class index to its letter or special token.
// Indices 0-25 map to A-Z, 26-28 to SPACE/DELETE/NOTHING. Anything else falls
// back to "A".
func LetterFromIndex(index int) string {
	if index >= 0 && index <= 25 {
		return string(rune('A' + index))
	}
	if special := index - 26; special >= 0 && special < len(specialTokens) {
		return specialTokens[special]
	}
	return FallbackLetter
}

// IndexFromLetter converts a single letter A-Z (case-insensitive) to its
// class index. Special tokens map to their trailing indices.
func IndexFromLetter(letter string) int {
	for i, token := range specialTokens {
		if letter == token {
			return 26 + i
		}
	}
	if len(letter) != 1 {
		return -1
	}
	ch := letter[0]
	if ch >= 'a' && ch <= 'z' {
		ch -= 'a' - 'A'
	}
	if ch < 'A' || ch > 'Z' {
		return -1
	}
	return int(ch - 'A')
}

// ExtractMetrics returns the arg-max letter of a distribution together with
// the probability to report: the target letter's probability when a target is
// set, otherwise the arg-max probability itself (free-practice mode).
func ExtractMetrics(dist Distribution, targetLetter string) (string, float64) {
	if len(dist) == 0 {
		return FallbackLetter, 0.0
	}

	maxIndex := 0
	for i := 1; i < len(dist); i++ {
		if dist[i] > dist[maxIndex] {
			maxIndex = i
		}
	}
	maxLetter := LetterFromIndex(maxIndex)

	if targetLetter == "" {
		return maxLetter, dist[maxIndex]
	}

	targetIndex := IndexFromLetter(targetLetter)
	if targetIndex < 0 || targetIndex >= len(dist) {
		return maxLetter, 0.0
	}
	return maxLetter, dist[targetIndex]
}
