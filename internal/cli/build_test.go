package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codeberg.org/snonux/ankivn/internal/config"
	"codeberg.org/snonux/ankivn/internal/testutil"
)

func TestBuildGemini(t *testing.T) {
	settings := config.Settings{}
	settings.Gemini.APIKeyPool = []string{"k1", " ", "k2"}
	settings.Gemini.KeyCursor = 5

	c, err := Build(settings, nil, NewFlags(), testutil.QuietLogger())
	require.NoError(t, err)

	assert.Equal(t, 2, c.Pool.Len())
	assert.Equal(t, uint64(1), c.Pool.Cursor())
	assert.NotNil(t, c.Anki)
	assert.Nil(t, c.Package)
	assert.Equal(t, config.DefaultDeckName, c.Pipeline.Deck())
}

func TestBuildLegacyKey(t *testing.T) {
	settings := config.Settings{}
	settings.Gemini.APIKey = "legacy"

	c, err := Build(settings, nil, nil, testutil.QuietLogger())
	require.NoError(t, err)
	assert.Equal(t, 1, c.Pool.Len())
}

func TestBuildOpenAI(t *testing.T) {
	settings := config.Settings{}
	settings.Translation.Provider = "OpenAI"
	settings.Gemini.APIKeyPool = []string{"unused"}

	c, err := Build(settings, nil, NewFlags(), testutil.QuietLogger())
	require.NoError(t, err)
	assert.True(t, c.Pool.Empty(), "the openai provider only uses the OpenAI key")

	settings.OpenAI.APIKey = "sk-test"
	c, err = Build(settings, nil, NewFlags(), testutil.QuietLogger())
	require.NoError(t, err)
	assert.Equal(t, 1, c.Pool.Len())
}

func TestBuildPackage(t *testing.T) {
	flags := NewFlags()
	flags.APKG = "out.apkg"
	flags.NoAudio = true

	settings := config.Settings{}
	settings.Anki.DeckName = "  Travel  "

	c, err := Build(settings, nil, flags, testutil.QuietLogger())
	require.NoError(t, err)
	assert.Nil(t, c.Anki)
	require.NotNil(t, c.Package)
	assert.Equal(t, 0, c.Package.Len())
	assert.Equal(t, "Travel", c.Pipeline.Deck())
}

func TestBuildErrors(t *testing.T) {
	tests := []struct {
		name     string
		provider string
		mode     string
	}{
		{"unknown provider", "claude", ""},
		{"unknown mode", "gemini", "parallel"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			settings := config.Settings{}
			settings.Translation.Provider = tt.provider
			settings.Translation.Mode = tt.mode

			_, err := Build(settings, nil, NewFlags(), testutil.QuietLogger())
			assert.Error(t, err)
		})
	}
}

func TestNewResolverWithoutOpenAIKey(t *testing.T) {
	settings := config.Settings{}
	settings.Audio.TTSFallback = true
	settings.Audio.DictionaryURL = "http://dict.test/"

	// The missing key only disables the fallback
	assert.NotNil(t, newResolver(settings, testutil.QuietLogger()))
}
