package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name     string
		settings Settings
		wantErr  error
		wantPool []string
		wantDeck string
	}{
		{
			name:     "trims keys and deck",
			settings: Settings{Gemini: GeminiSettings{APIKeyPool: []string{" a ", "b"}}, Anki: AnkiSettings{DeckName: " Words "}},
			wantPool: []string{"a", "b"},
			wantDeck: "Words",
		},
		{
			name:     "blank deck falls back",
			settings: Settings{Gemini: GeminiSettings{APIKeyPool: []string{"a"}}},
			wantPool: []string{"a"},
			wantDeck: DefaultDeckName,
		},
		{
			name:     "legacy key moves into pool",
			settings: Settings{Gemini: GeminiSettings{APIKey: "legacy"}},
			wantPool: []string{"legacy"},
			wantDeck: DefaultDeckName,
		},
		{
			name:     "blank key",
			settings: Settings{Gemini: GeminiSettings{APIKeyPool: []string{"a", "  "}}},
			wantErr:  ErrEmptyKey,
		},
		{
			name:     "no keys",
			settings: Settings{},
			wantErr:  ErrNoKeys,
		},
		{
			name:     "openai needs no gemini key",
			settings: Settings{Translation: TranslationSettings{Provider: "openai"}},
			wantPool: []string{},
			wantDeck: DefaultDeckName,
		},
		{
			name: "unknown mode",
			settings: Settings{
				Gemini:      GeminiSettings{APIKeyPool: []string{"a"}},
				Translation: TranslationSettings{Mode: "parallel"},
			},
			wantErr: ErrBadMode,
		},
		{
			name: "unknown provider",
			settings: Settings{
				Gemini:      GeminiSettings{APIKeyPool: []string{"a"}},
				Translation: TranslationSettings{Provider: "claude"},
			},
			wantErr: ErrBadSource,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Validate(tt.settings)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantPool, got.Gemini.APIKeyPool)
			assert.Equal(t, tt.wantDeck, got.Anki.DeckName)
			assert.Equal(t, DefaultGeminiModel, got.Gemini.Model)
			assert.Empty(t, got.Gemini.APIKey)
		})
	}
}

func TestValidateMessages(t *testing.T) {
	assert.Equal(t, "API key must not be empty.", ErrEmptyKey.Error())
	assert.Equal(t, "Please enter at least one Gemini API Key!", ErrNoKeys.Error())
}

func TestSettingsKeys(t *testing.T) {
	s := Settings{Gemini: GeminiSettings{APIKeyPool: []string{"p"}, APIKey: "legacy"}}
	assert.Equal(t, []string{"p"}, s.Keys())

	s.Gemini.APIKeyPool = nil
	assert.Equal(t, []string{"legacy"}, s.Keys())
}
