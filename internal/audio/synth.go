package audio

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/sashabaranov/go-openai"
)

// Synthesizer produces mp3 speech for text when no recording exists.
type Synthesizer interface {
	Synthesize(ctx context.Context, text string) ([]byte, error)
	// Source identifies the synthesizer in Asset.SourceURL.
	Source() string
}

// SynthConfig configures OpenAI text-to-speech.
type SynthConfig struct {
	APIKey      string
	BaseURL     string
	Model       string  // "tts-1", "tts-1-hd" or "gpt-4o-mini-tts"
	Voice       string  // "alloy", "ash", "coral", "nova", ...
	Speed       float64 // 0.25 to 4.0
	Instruction string  // only honoured by gpt-4o-mini-tts
	CacheDir    string  // empty disables the on-disk cache
}

// DefaultSynthConfig returns settings tuned for single word pronunciation.
func DefaultSynthConfig() *SynthConfig {
	return &SynthConfig{
		Model:       "gpt-4o-mini-tts",
		Voice:       "alloy",
		Speed:       0.9,
		Instruction: "Pronounce the English word clearly in a neutral American accent, slowly enough for language learners.",
	}
}

// OpenAISynthesizer implements Synthesizer with the OpenAI speech endpoint.
type OpenAISynthesizer struct {
	client *openai.Client
	config *SynthConfig
}

// NewOpenAISynthesizer creates a synthesizer. It fails without an API key.
func NewOpenAISynthesizer(config *SynthConfig) (*OpenAISynthesizer, error) {
	if config == nil || config.APIKey == "" {
		return nil, fmt.Errorf("OpenAI API key is required")
	}

	clientConfig := openai.DefaultConfig(config.APIKey)
	if config.BaseURL != "" {
		clientConfig.BaseURL = config.BaseURL
	}

	if config.CacheDir != "" {
		if err := os.MkdirAll(config.CacheDir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create cache directory: %w", err)
		}
	}

	return &OpenAISynthesizer{
		client: openai.NewClientWithConfig(clientConfig),
		config: config,
	}, nil
}

// Source implements Synthesizer.
func (s *OpenAISynthesizer) Source() string {
	return fmt.Sprintf("tts:openai/%s/%s", s.config.Model, s.config.Voice)
}

// Synthesize implements Synthesizer.
func (s *OpenAISynthesizer) Synthesize(ctx context.Context, text string) ([]byte, error) {
	text = cleanSpeechText(text)
	if text == "" {
		return nil, fmt.Errorf("nothing to synthesize")
	}

	cacheFile := s.cacheFilePath(text)
	if cacheFile != "" {
		if data, err := os.ReadFile(cacheFile); err == nil && len(data) > 0 {
			return data, nil
		}
	}

	req := openai.CreateSpeechRequest{
		Model:          openai.SpeechModel(s.config.Model),
		Input:          text,
		Voice:          openai.SpeechVoice(s.config.Voice),
		Speed:          s.config.Speed,
		ResponseFormat: openai.SpeechResponseFormatMp3,
	}
	if s.config.Instruction != "" && s.config.Model == "gpt-4o-mini-tts" {
		req.Instructions = s.config.Instruction
	}

	response, err := s.client.CreateSpeech(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("OpenAI TTS API error: %w", err)
	}
	defer response.Close()

	data, err := io.ReadAll(response)
	if err != nil {
		return nil, fmt.Errorf("failed to read audio: %w", err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("no audio data received from OpenAI")
	}

	if cacheFile != "" {
		_ = writeCacheFile(cacheFile, data) // a cache miss next time is harmless
	}
	return data, nil
}

func (s *OpenAISynthesizer) cacheFilePath(text string) string {
	if s.config.CacheDir == "" {
		return ""
	}

	h := md5.New()
	h.Write([]byte(text))
	h.Write([]byte(s.config.Model))
	h.Write([]byte(s.config.Voice))
	h.Write([]byte(fmt.Sprintf("%.2f", s.config.Speed)))
	if s.config.Model == "gpt-4o-mini-tts" {
		h.Write([]byte(s.config.Instruction))
	}
	hash := hex.EncodeToString(h.Sum(nil))

	return filepath.Join(s.config.CacheDir, hash[:2], hash[2:]+".mp3")
}

func writeCacheFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// cleanSpeechText drops punctuation the engine would read out loud.
// Apostrophes and hyphens inside words are kept.
func cleanSpeechText(text string) string {
	text = strings.TrimSpace(text)
	for _, punct := range []string{"!", "?", ".", ",", ";", ":", "\"", "(", ")", "[", "]", "{", "}", "—", "–"} {
		text = strings.ReplaceAll(text, punct, "")
	}
	return strings.TrimSpace(text)
}
