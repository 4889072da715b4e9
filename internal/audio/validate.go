package audio

import (
	"fmt"
	"strings"
	"unicode"
)

// ValidateWord checks that text looks like an English word or phrase.
func ValidateWord(text string) error {
	if strings.TrimSpace(text) == "" {
		return fmt.Errorf("text cannot be empty")
	}

	for _, r := range text {
		if unicode.In(r, unicode.Latin) {
			return nil
		}
	}
	return fmt.Errorf("text must contain Latin letters")
}
