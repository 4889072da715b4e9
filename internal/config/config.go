package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	// EnvPrefix prefixes every environment variable, e.g. ANKIVN_GEMINI_API_KEY.
	EnvPrefix = "ANKIVN"

	// DefaultDeckName is used when no deck is configured.
	DefaultDeckName = "English Vocabulary"

	DefaultGeminiModel = "gemini-2.5-flash"
	DefaultServerAddr  = "127.0.0.1:8766"

	configName = ".ankivn"
)

// Settings holds all configuration for ankivn.
type Settings struct {
	Gemini      GeminiSettings      `mapstructure:"gemini"`
	Translation TranslationSettings `mapstructure:"translation"`
	OpenAI      OpenAISettings      `mapstructure:"openai"`
	Anki        AnkiSettings        `mapstructure:"anki"`
	Audio       AudioSettings       `mapstructure:"audio"`
	Log         LogSettings         `mapstructure:"log"`
	Server      ServerSettings      `mapstructure:"server"`
}

// GeminiSettings configures the Gemini generator and its key pool.
type GeminiSettings struct {
	APIKeyPool []string `mapstructure:"api_key_pool"`
	APIKey     string   `mapstructure:"api_key"` // single key of older configs
	Model      string   `mapstructure:"model"`
	BaseURL    string   `mapstructure:"base_url"`
	KeyCursor  uint64   `mapstructure:"key_cursor"`
}

// TranslationSettings selects the generator and the request layout.
type TranslationSettings struct {
	Provider string `mapstructure:"provider"` // gemini or openai
	Mode     string `mapstructure:"mode"`     // split or combined
}

// OpenAISettings configures the OpenAI compatible generator and speech.
type OpenAISettings struct {
	APIKey  string `mapstructure:"api_key"`
	BaseURL string `mapstructure:"base_url"`
	Model   string `mapstructure:"model"`
}

type AnkiSettings struct {
	DeckName string `mapstructure:"deck_name"`
	URL      string `mapstructure:"url"`
}

type AudioSettings struct {
	DictionaryURL string `mapstructure:"dictionary_url"`
	TTSFallback   bool   `mapstructure:"tts_fallback"`
	CacheDir      string `mapstructure:"cache_dir"`
}

type LogSettings struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type ServerSettings struct {
	Addr string `mapstructure:"addr"`
}

// Keys returns the Gemini keys in rotation order, the pool if one is
// configured and the single legacy key otherwise.
func (s Settings) Keys() []string {
	if len(s.Gemini.APIKeyPool) > 0 {
		return s.Gemini.APIKeyPool
	}
	if s.Gemini.APIKey != "" {
		return []string{s.Gemini.APIKey}
	}
	return nil
}

// SetDefaults registers the default of every key. Keys unknown to viper are
// not looked up in the environment, so all of them are registered here.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("gemini.api_key_pool", []string{})
	v.SetDefault("gemini.api_key", "")
	v.SetDefault("gemini.model", DefaultGeminiModel)
	v.SetDefault("gemini.base_url", "")
	v.SetDefault("gemini.key_cursor", 0)

	v.SetDefault("translation.provider", "gemini")
	v.SetDefault("translation.mode", "split")

	v.SetDefault("openai.api_key", "")
	v.SetDefault("openai.base_url", "")
	v.SetDefault("openai.model", "")

	v.SetDefault("anki.deck_name", DefaultDeckName)
	v.SetDefault("anki.url", "http://127.0.0.1:8765")

	v.SetDefault("audio.dictionary_url", "https://dictionary.cambridge.org")
	v.SetDefault("audio.tts_fallback", false)
	v.SetDefault("audio.cache_dir", "")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	v.SetDefault("server.addr", DefaultServerAddr)
}

// Configure points v at cfgFile, or at $HOME/.ankivn.yaml when cfgFile is
// empty, sets up the environment and reads the file. A missing file is not
// an error.
func Configure(v *viper.Viper, cfgFile string) error {
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("error getting home directory: %w", err)
		}
		v.AddConfigPath(home)
		v.AddConfigPath(".")
		v.SetConfigType("yaml")
		v.SetConfigName(configName)
	}

	SetDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	// The usual unprefixed variables of the SDKs work too; the prefixed
	// ones win when both are set.
	_ = v.BindEnv("gemini.api_key", EnvPrefix+"_GEMINI_API_KEY", "GEMINI_API_KEY")
	_ = v.BindEnv("openai.api_key", EnvPrefix+"_OPENAI_API_KEY", "OPENAI_API_KEY")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) || errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("error reading config file: %w", err)
	}
	return nil
}

// LoadDotEnv loads environment variables from the given files, ".env" by
// default. Variables already set win and missing files are skipped.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, file := range files {
		if err := godotenv.Load(file); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("failed to load %s: %w", file, err)
		}
	}
	return nil
}

// DefaultPath is where settings are written when no config file was read.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, configName+".yaml"), nil
}
