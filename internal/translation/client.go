package translation

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"codeberg.org/snonux/ankivn/internal/keypool"
)

// ErrNoAPIKey is logged when the key pool is empty.
var ErrNoAPIKey = errors.New("no API key configured")

// Result holds everything the model knows about a word. Fields are empty
// when a lookup fails, never missing.
type Result struct {
	Translation string
	Example     string
	ExampleVN   string
	IPA         string
	WordType    string
	Syllables   string
}

// Mode selects the request shape used by Lookup.
type Mode string

const (
	// ModeSplit translates first and asks for metadata in a second request
	// that carries the translation as context.
	ModeSplit Mode = "split"
	// ModeCombined asks for translation and metadata in one request.
	ModeCombined Mode = "combined"
)

// ParseMode converts a config value into a Mode. Empty selects ModeSplit.
func ParseMode(s string) (Mode, error) {
	switch m := Mode(strings.ToLower(strings.TrimSpace(s))); m {
	case "", ModeSplit:
		return ModeSplit, nil
	case ModeCombined:
		return ModeCombined, nil
	default:
		return "", fmt.Errorf("unknown translation mode %q (want split or combined)", s)
	}
}

// Client turns words into translation Results. It never returns errors;
// failures are logged and yield empty fields.
type Client struct {
	pool  *keypool.Pool
	gen   Generator
	mode  Mode
	cache *Cache
	log   logrus.FieldLogger
}

// NewClient creates a client drawing keys from pool for every request.
func NewClient(pool *keypool.Pool, gen Generator, mode Mode, log logrus.FieldLogger) *Client {
	if mode == "" {
		mode = ModeSplit
	}
	return &Client{pool: pool, gen: gen, mode: mode, log: log}
}

// WithCache makes Lookup remember successful results per word.
func (c *Client) WithCache(cache *Cache) *Client {
	c.cache = cache
	return c
}

// Mode returns the request shape used by Lookup.
func (c *Client) Mode() Mode {
	return c.mode
}

// Translate returns the lower-cased Vietnamese translation of word, or an
// empty string.
func (c *Client) Translate(ctx context.Context, word string) string {
	p, err := c.ask(ctx, translatePrompt(word))
	if err != nil {
		c.log.WithField("word", word).WithError(err).Warn("Translation failed")
		return ""
	}
	return p.result().Translation
}

// Enrich asks for the card metadata of word given its translation. The
// returned Result carries translation unchanged apart from trimming.
func (c *Client) Enrich(ctx context.Context, word, translation string) Result {
	r, _ := c.enrich(ctx, word, translation)
	return r
}

func (c *Client) enrich(ctx context.Context, word, translation string) (Result, error) {
	translation = strings.TrimSpace(translation)

	p, err := c.ask(ctx, enrichPrompt(word, translation))
	if err != nil {
		c.log.WithField("word", word).WithError(err).Warn("Word info lookup failed")
		return Result{Translation: translation}, err
	}

	r := p.result()
	r.Translation = translation
	return r, nil
}

// TranslateAndEnrich fetches translation and metadata in a single request.
func (c *Client) TranslateAndEnrich(ctx context.Context, word string) Result {
	r, _ := c.translateAndEnrich(ctx, word)
	return r
}

func (c *Client) translateAndEnrich(ctx context.Context, word string) (Result, error) {
	p, err := c.ask(ctx, combinedPrompt(word))
	if err != nil {
		c.log.WithField("word", word).WithError(err).Warn("Combined lookup failed")
		return Result{}, err
	}
	return p.result(), nil
}

// Lookup returns translation and metadata for word using the configured
// request shape. Only complete answers are cached, a failed enrichment is
// asked again next time.
func (c *Client) Lookup(ctx context.Context, word string) Result {
	if c.cache != nil {
		if r, ok := c.cache.Get(word); ok {
			c.log.WithField("word", word).Debug("Using cached translation")
			return r
		}
	}

	var (
		r   Result
		err error
	)
	switch c.mode {
	case ModeCombined:
		r, err = c.translateAndEnrich(ctx, word)
	default:
		r, err = c.enrich(ctx, word, c.Translate(ctx, word))
	}

	if c.cache != nil && err == nil && r.Translation != "" {
		c.cache.Add(word, r)
	}
	return r
}

func (c *Client) ask(ctx context.Context, prompt string) (payload, error) {
	key := c.pool.Next()
	if key == "" {
		return payload{}, ErrNoAPIKey
	}

	text, err := c.gen.Generate(ctx, key, prompt)
	if err != nil {
		return payload{}, err
	}
	c.log.WithField("reply", text).Debug("Model reply")

	return decodePayload(text)
}
