package config

import (
	"errors"
	"strings"
)

var (
	ErrEmptyKey  = errors.New("API key must not be empty.")
	ErrNoKeys    = errors.New("Please enter at least one Gemini API Key!")
	ErrBadMode   = errors.New("translation mode must be split or combined")
	ErrBadSource = errors.New("translation provider must be gemini or openai")
)

// Validate checks settings before they are saved and returns the cleaned
// copy: keys and deck trimmed, a blank deck replaced with the default.
// A config holding only the single legacy key is moved into the pool.
func Validate(s Settings) (Settings, error) {
	pool := s.Gemini.APIKeyPool
	if len(pool) == 0 && strings.TrimSpace(s.Gemini.APIKey) != "" {
		pool = []string{s.Gemini.APIKey}
	}

	keys := make([]string, 0, len(pool))
	for _, key := range pool {
		key = strings.TrimSpace(key)
		if key == "" {
			return s, ErrEmptyKey
		}
		keys = append(keys, key)
	}
	if len(keys) == 0 && s.Translation.Provider != "openai" {
		return s, ErrNoKeys
	}

	switch s.Translation.Provider {
	case "", "gemini", "openai":
	default:
		return s, ErrBadSource
	}
	switch s.Translation.Mode {
	case "", "split", "combined":
	default:
		return s, ErrBadMode
	}

	s.Gemini.APIKeyPool = keys
	s.Gemini.APIKey = ""
	if s.Gemini.Model == "" {
		s.Gemini.Model = DefaultGeminiModel
	}

	s.Anki.DeckName = strings.TrimSpace(s.Anki.DeckName)
	if s.Anki.DeckName == "" {
		s.Anki.DeckName = DefaultDeckName
	}
	return s, nil
}
