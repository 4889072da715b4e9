package cli

import (
	"fmt"
	"strings"

	"github.com/samber/lo"
	"github.com/sirupsen/logrus"

	"codeberg.org/snonux/ankivn/internal/anki"
	"codeberg.org/snonux/ankivn/internal/audio"
	"codeberg.org/snonux/ankivn/internal/config"
	"codeberg.org/snonux/ankivn/internal/keypool"
	"codeberg.org/snonux/ankivn/internal/processor"
	"codeberg.org/snonux/ankivn/internal/translation"
)

// Components is the wired application.
type Components struct {
	Settings config.Settings
	Pool     *keypool.Pool
	Pipeline *processor.Pipeline

	// Anki is nil when notes go to a package file.
	Anki *anki.Client
	// Package is set when flags.APKG is.
	Package *anki.PackageWriter
}

// Build wires the pipeline from settings. store may be nil, in which case
// the key cursor is not persisted.
func Build(settings config.Settings, store *config.Store, flags *Flags, log logrus.FieldLogger) (*Components, error) {
	mode, err := translation.ParseMode(settings.Translation.Mode)
	if err != nil {
		return nil, err
	}

	provider := strings.ToLower(strings.TrimSpace(settings.Translation.Provider))
	var (
		pool *keypool.Pool
		gen  translation.Generator
	)
	switch provider {
	case "", "gemini":
		provider = "gemini"
		pool = keypool.New(settings.Gemini.APIKeyPool, settings.Gemini.APIKey).
			WithCursor(settings.Gemini.KeyCursor)
		model := lo.Ternary(settings.Gemini.Model != "", settings.Gemini.Model, config.DefaultGeminiModel)
		gen = translation.NewGeminiGenerator(model, settings.Gemini.BaseURL, nil)
	case "openai":
		pool = keypool.New(nil, settings.OpenAI.APIKey)
		// an empty model selects translation.DefaultOpenAIModel
		gen = translation.NewOpenAIGenerator(settings.OpenAI.Model, settings.OpenAI.BaseURL, nil)
	default:
		return nil, fmt.Errorf("unknown translation provider %q (want gemini or openai)", settings.Translation.Provider)
	}

	translator := translation.NewClient(pool, gen, mode, log).WithCache(translation.NewCache())

	c := &Components{Settings: settings, Pool: pool}

	var gateway processor.Gateway
	if flags != nil && flags.APKG != "" {
		c.Package = anki.NewPackageWriter()
		gateway = c.Package
	} else {
		c.Anki = anki.NewClient(settings.Anki.URL, log)
		gateway = c.Anki
	}

	// An untyped nil keeps the pipeline from calling a disabled resolver.
	var resolver processor.AudioResolver
	if flags == nil || !flags.NoAudio {
		resolver = newResolver(settings, log)
	}

	deck := strings.TrimSpace(settings.Anki.DeckName)
	if deck == "" {
		deck = config.DefaultDeckName
	}

	c.Pipeline = processor.New(gateway, translator, resolver, pool, deck, log)
	if store != nil && provider == "gemini" {
		c.Pipeline.WithCursorStore(store)
	}
	return c, nil
}

func newResolver(settings config.Settings, log logrus.FieldLogger) *audio.Resolver {
	cfg := audio.DefaultConfig()
	if settings.Audio.DictionaryURL != "" {
		cfg.DictionaryURL = strings.TrimRight(settings.Audio.DictionaryURL, "/")
	}
	resolver := audio.NewResolver(cfg, log)

	if !settings.Audio.TTSFallback {
		return resolver
	}
	synthCfg := audio.DefaultSynthConfig()
	synthCfg.APIKey = settings.OpenAI.APIKey
	synthCfg.BaseURL = settings.OpenAI.BaseURL
	synthCfg.CacheDir = settings.Audio.CacheDir
	synth, err := audio.NewOpenAISynthesizer(synthCfg)
	if err != nil {
		log.WithError(err).Warn("Speech synthesis fallback disabled")
		return resolver
	}
	return resolver.WithSynthesizer(synth)
}
