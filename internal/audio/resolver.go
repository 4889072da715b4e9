package audio

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
)

// ErrNoAudio is returned when no candidate produced a recording.
var ErrNoAudio = errors.New("no pronunciation audio found")

// Asset is a downloaded recording ready to be stored as card media.
type Asset struct {
	SourceURL string
	Data      []byte
	Filename  string
}

// Config holds the hosts queried for recordings.
type Config struct {
	DictionaryURL string
	GStaticURL    string
	VocabURL      string
	MaxSizeBytes  int64
	Timeout       time.Duration
}

// DefaultConfig returns the public hosts.
func DefaultConfig() *Config {
	return &Config{
		DictionaryURL: "https://dictionary.cambridge.org",
		GStaticURL:    "https://ssl.gstatic.com",
		VocabURL:      "https://audio.vocab.com",
		MaxSizeBytes:  5 * 1024 * 1024,
		Timeout:       15 * time.Second,
	}
}

// Resolver locates and downloads pronunciation audio.
type Resolver struct {
	config *Config
	client *http.Client
	synth  Synthesizer
	log    logrus.FieldLogger
}

// NewResolver creates a resolver. A nil config selects DefaultConfig.
func NewResolver(config *Config, log logrus.FieldLogger) *Resolver {
	if config == nil {
		config = DefaultConfig()
	}
	if config.MaxSizeBytes <= 0 {
		config.MaxSizeBytes = DefaultConfig().MaxSizeBytes
	}
	return &Resolver{
		config: config,
		client: &http.Client{Timeout: config.Timeout},
		log:    log,
	}
}

// WithHTTPClient replaces the HTTP client used for all requests.
func (r *Resolver) WithHTTPClient(client *http.Client) *Resolver {
	r.client = client
	return r
}

// WithSynthesizer enables synthesized speech when every download fails.
func (r *Resolver) WithSynthesizer(s Synthesizer) *Resolver {
	r.synth = s
	return r
}

// Candidates returns the recording URLs for word in the order they are
// tried. The fallback list is appended whatever the dictionary lookup said.
func (r *Resolver) Candidates(ctx context.Context, word string) []string {
	lookup := r.LookupDictionary(ctx, word)

	entry := r.log.WithField("word", word).WithField("dictionary", lookup.Kind.String())
	if lookup.Err != nil {
		entry = entry.WithError(lookup.Err)
	}
	entry.Debug("Dictionary lookup finished")

	var candidates []string
	if lookup.Kind == Found {
		candidates = append(candidates, lookup.URL)
	}
	return append(candidates, r.FallbackURLs(word)...)
}

// Resolve downloads the first recording available for word. It returns
// ErrNoAudio when every candidate failed.
func (r *Resolver) Resolve(ctx context.Context, word string) (*Asset, error) {
	for _, candidate := range r.Candidates(ctx, word) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		data, err := r.download(ctx, candidate)
		if err != nil {
			r.log.WithField("url", candidate).WithError(err).Debug("Audio candidate failed")
			continue
		}

		r.log.WithField("word", word).WithField("url", candidate).Info("Downloaded pronunciation audio")
		return &Asset{SourceURL: candidate, Data: data, Filename: Filename(word)}, nil
	}

	if r.synth != nil {
		data, err := r.synth.Synthesize(ctx, word)
		if err == nil {
			return &Asset{SourceURL: r.synth.Source(), Data: data, Filename: Filename(word)}, nil
		}
		r.log.WithField("word", word).WithError(err).Warn("Speech synthesis failed")
	}

	return nil, ErrNoAudio
}

func (r *Resolver) download(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", browserUserAgent)

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, r.config.MaxSizeBytes+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read body: %w", err)
	}
	if int64(len(data)) > r.config.MaxSizeBytes {
		return nil, fmt.Errorf("recording exceeds %d bytes", r.config.MaxSizeBytes)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("empty body")
	}
	return data, nil
}
