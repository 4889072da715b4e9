package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codeberg.org/snonux/ankivn/internal/testutil"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "ankivn.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestConfigureDefaults(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")
	v := viper.New()
	require.NoError(t, Configure(v, filepath.Join(t.TempDir(), "missing.yaml")))

	settings, err := NewStore(v).Load()
	require.NoError(t, err)

	assert.Equal(t, DefaultGeminiModel, settings.Gemini.Model)
	assert.Equal(t, DefaultDeckName, settings.Anki.DeckName)
	assert.Equal(t, DefaultServerAddr, settings.Server.Addr)
	assert.Equal(t, "split", settings.Translation.Mode)
	assert.Equal(t, "info", settings.Log.Level)
	assert.Empty(t, settings.Keys())
}

func TestConfigureReadsFile(t *testing.T) {
	path := writeConfig(t, `
gemini:
  api_key_pool: [k1, k2]
  model: gemini-2.0-flash
  key_cursor: 7
anki:
  deck_name: Từ vựng
translation:
  mode: combined
`)
	v := viper.New()
	require.NoError(t, Configure(v, path))

	settings, err := NewStore(v).Load()
	require.NoError(t, err)

	assert.Equal(t, []string{"k1", "k2"}, settings.Keys())
	assert.Equal(t, "gemini-2.0-flash", settings.Gemini.Model)
	assert.Equal(t, uint64(7), settings.Gemini.KeyCursor)
	assert.Equal(t, "Từ vựng", settings.Anki.DeckName)
	assert.Equal(t, "combined", settings.Translation.Mode)
}

func TestConfigureEnvironmentWins(t *testing.T) {
	path := writeConfig(t, "gemini:\n  api_key: from-file\n")
	t.Setenv("ANKIVN_GEMINI_API_KEY", "from-env")
	t.Setenv("ANKIVN_ANKI_DECK_NAME", "Env Deck")

	v := viper.New()
	require.NoError(t, Configure(v, path))

	settings, err := NewStore(v).Load()
	require.NoError(t, err)
	assert.Equal(t, []string{"from-env"}, settings.Keys())
	assert.Equal(t, "Env Deck", settings.Anki.DeckName)
}

func TestConfigureUnprefixedKeys(t *testing.T) {
	tests := []struct {
		name     string
		env      map[string]string
		wantKeys []string
		wantAI   string
	}{
		{
			name:     "unprefixed only",
			env:      map[string]string{"GEMINI_API_KEY": "plain", "OPENAI_API_KEY": "sk-plain"},
			wantKeys: []string{"plain"},
			wantAI:   "sk-plain",
		},
		{
			name: "prefixed wins",
			env: map[string]string{
				"GEMINI_API_KEY":        "plain",
				"ANKIVN_GEMINI_API_KEY": "prefixed",
				"OPENAI_API_KEY":        "sk-plain",
				"ANKIVN_OPENAI_API_KEY": "sk-prefixed",
			},
			wantKeys: []string{"prefixed"},
			wantAI:   "sk-prefixed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, name := range []string{"GEMINI_API_KEY", "ANKIVN_GEMINI_API_KEY", "OPENAI_API_KEY", "ANKIVN_OPENAI_API_KEY"} {
				t.Setenv(name, tt.env[name])
			}

			v := viper.New()
			require.NoError(t, Configure(v, filepath.Join(t.TempDir(), "missing.yaml")))
			settings, err := NewStore(v).Load()
			require.NoError(t, err)

			assert.Equal(t, tt.wantKeys, settings.Keys())
			assert.Equal(t, tt.wantAI, settings.OpenAI.APIKey)
		})
	}
}

func TestConfigureBrokenFile(t *testing.T) {
	path := writeConfig(t, "gemini: [unterminated\n")
	assert.Error(t, Configure(viper.New(), path))
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	envFile := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(envFile, []byte("ANKIVN_TEST_DOTENV=loaded\n"), 0644))
	t.Cleanup(func() { os.Unsetenv("ANKIVN_TEST_DOTENV") })

	require.NoError(t, LoadDotEnv(filepath.Join(dir, "missing.env"), envFile))
	assert.Equal(t, "loaded", os.Getenv("ANKIVN_TEST_DOTENV"))
}

func TestSaveWritesValidatedSettings(t *testing.T) {
	path := writeConfig(t, "log:\n  level: debug\n")
	v := viper.New()
	require.NoError(t, Configure(v, path))
	store := NewStore(v)

	settings, err := store.Load()
	require.NoError(t, err)
	settings.Gemini.APIKeyPool = []string{" k1 ", "k2"}
	settings.Anki.DeckName = "   "

	saved, err := store.Save(settings)
	require.NoError(t, err)
	assert.Equal(t, []string{"k1", "k2"}, saved.Gemini.APIKeyPool)
	assert.Equal(t, DefaultDeckName, saved.Anki.DeckName)

	reread := viper.New()
	require.NoError(t, Configure(reread, path))
	loaded, err := NewStore(reread).Load()
	require.NoError(t, err)
	assert.Equal(t, []string{"k1", "k2"}, loaded.Gemini.APIKeyPool)
	assert.Equal(t, "debug", loaded.Log.Level)
}

func TestSaveRejectsInvalid(t *testing.T) {
	path := writeConfig(t, "gemini:\n  model: gemini-2.5-flash\n")
	v := viper.New()
	require.NoError(t, Configure(v, path))
	store := NewStore(v)

	settings, err := store.Load()
	require.NoError(t, err)
	settings.Gemini.APIKeyPool = []string{"k1", ""}

	_, err = store.Save(settings)
	assert.ErrorIs(t, err, ErrEmptyKey)

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(content), "k1")
}

func TestSaveKeyCursor(t *testing.T) {
	path := writeConfig(t, "gemini:\n  api_key_pool: [a, b, c]\n")
	v := viper.New()
	require.NoError(t, Configure(v, path))

	require.NoError(t, NewStore(v).SaveKeyCursor(4))

	reread := viper.New()
	require.NoError(t, Configure(reread, path))
	settings, err := NewStore(reread).Load()
	require.NoError(t, err)
	assert.Equal(t, uint64(4), settings.Gemini.KeyCursor)
}

func TestSaveKeyCursorWithoutFile(t *testing.T) {
	v := viper.New()
	SetDefaults(v)
	assert.NoError(t, NewStore(v).SaveKeyCursor(3))
	assert.Equal(t, uint64(3), v.GetUint64("gemini.key_cursor"))
}

func TestSaveKeyCursorWritesOnlyFileContents(t *testing.T) {
	path := writeConfig(t, "gemini:\n  api_key_pool: [filekey]\n")
	t.Setenv("ANKIVN_GEMINI_API_KEY", "SECRET-FROM-ENV")
	t.Setenv("ANKIVN_OPENAI_API_KEY", "SK-FROM-ENV")

	v := viper.New()
	require.NoError(t, Configure(v, path))
	v.Set("anki.deck_name", "OneOffDeck")

	require.NoError(t, NewStore(v).SaveKeyCursor(1))

	testutil.AssertFileContains(t, path, "filekey")
	testutil.AssertFileContains(t, path, "key_cursor: 1")
	content, err := os.ReadFile(path)
	require.NoError(t, err)
	for _, leaked := range []string{"SECRET-FROM-ENV", "SK-FROM-ENV", "OneOffDeck", DefaultGeminiModel, DefaultServerAddr} {
		assert.NotContains(t, string(content), leaked)
	}
}

func TestSaveIgnoresEnvironmentAndFlags(t *testing.T) {
	path := writeConfig(t, "log:\n  level: debug\n")
	t.Setenv("ANKIVN_OPENAI_API_KEY", "SK-FROM-ENV")

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("mode", "split", "")
	require.NoError(t, flags.Set("mode", "combined"))

	v := viper.New()
	require.NoError(t, Configure(v, path))
	require.NoError(t, v.BindPFlag("translation.mode", flags.Lookup("mode")))
	store := NewStore(v)

	settings, err := store.LoadFile()
	require.NoError(t, err)
	assert.Equal(t, "split", settings.Translation.Mode, "the file view ignores flags")
	assert.Empty(t, settings.OpenAI.APIKey, "the file view ignores the environment")

	settings.Gemini.APIKeyPool = []string{"k1"}
	_, err = store.Save(settings)
	require.NoError(t, err)

	testutil.AssertFileContains(t, path, "k1")
	testutil.AssertFileContains(t, path, "level: debug")
	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(content), "SK-FROM-ENV")
	assert.NotContains(t, string(content), "combined")
}

func TestSaveClearsLegacyKey(t *testing.T) {
	path := writeConfig(t, "gemini:\n  api_key: legacy\n")
	v := viper.New()
	require.NoError(t, Configure(v, path))
	store := NewStore(v)

	settings, err := store.LoadFile()
	require.NoError(t, err)
	_, err = store.Save(settings)
	require.NoError(t, err)

	reread := viper.New()
	require.NoError(t, Configure(reread, path))
	loaded, err := NewStore(reread).Load()
	require.NoError(t, err)
	assert.Equal(t, []string{"legacy"}, loaded.Gemini.APIKeyPool)
	assert.Empty(t, loaded.Gemini.APIKey)
}
