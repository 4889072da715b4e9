package cloze

import "strings"

// Placeholder replaces every hidden character.
const Placeholder = '_'

// Mask hides part of every whitespace separated token in phrase and joins the
// tokens back together with single spaces.
func Mask(phrase string) string {
	tokens := strings.Fields(phrase)
	for i, token := range tokens {
		tokens[i] = MaskWord(token)
	}
	return strings.Join(tokens, " ")
}

// MaskWord hides the middle of a single token. The result has the same
// number of runes as the input.
func MaskWord(word string) string {
	runes := []rune(word)
	n := len(runes)

	switch {
	case n <= 1:
		return word
	case n == 2:
		return string([]rune{runes[0], Placeholder})
	}

	maxHide := n * 4 / 10
	minKeep := 2
	if n <= 3 {
		minKeep = n
	}
	keepCount := max(minKeep, n-maxHide)
	keepFromStart := keepCount / 2
	keepFromEnd := keepCount - keepFromStart

	out := make([]rune, n)
	for i, r := range runes {
		if isPunctuation(r) || i < keepFromStart || i >= n-keepFromEnd {
			out[i] = r
			continue
		}
		out[i] = Placeholder
	}
	return string(out)
}

// Apostrophes and hyphens stay readable and never consume the keep budget.
func isPunctuation(r rune) bool {
	return r == '\'' || r == '-'
}
