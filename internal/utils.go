package internal

import (
	"strings"
	"unicode"
)

// SanitizeFilename creates a safe filename from a string. Letters of any
// script, digits, '-' and '_' are kept; everything else becomes '_'.
func SanitizeFilename(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '-' || r == '_' {
			b.WriteRune(r)
		} else {
			b.WriteRune('_')
		}
	}
	return b.String()
}

// PackageName returns the default file name of an Anki package for deck.
func PackageName(deck string) string {
	name := strings.Trim(SanitizeFilename(strings.TrimSpace(deck)), "_")
	if name == "" {
		name = "ankivn"
	}
	return name + ".apkg"
}
