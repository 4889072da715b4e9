package batch

import (
	"fmt"
	"os"
	"strings"
)

// Entry is one line of a word list.
type Entry struct {
	Word    string
	Meaning string // empty asks for the automatic translation
}

// ReadBatchFile reads the word list in filename.
// Supports formats:
// - English word only: "running" (translated automatically)
// - With meaning: "running = chạy" (the given meaning is used)
// Blank lines, lines starting with '#' and lines with nothing left of '='
// are skipped.
func ReadBatchFile(filename string) ([]Entry, error) {
	content, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read batch file: %w", err)
	}
	return Parse(string(content)), nil
}

// Parse reads a word list from its text.
func Parse(content string) []Entry {
	var entries []Entry

	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		word, meaning, _ := strings.Cut(line, "=")
		word = strings.TrimSpace(word)
		if word == "" {
			continue
		}
		entries = append(entries, Entry{Word: word, Meaning: strings.TrimSpace(meaning)})
	}

	return entries
}
