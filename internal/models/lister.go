package models

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"slices"
	"strings"

	"github.com/sashabaranov/go-openai"
	"google.golang.org/genai"
)

// Lister returns the names of models usable for translation.
type Lister interface {
	List(ctx context.Context) ([]string, error)
}

// GeminiLister lists Gemini models that support content generation.
type GeminiLister struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// NewGeminiLister creates a lister. An empty baseURL selects the public
// endpoint.
func NewGeminiLister(apiKey, baseURL string, httpClient *http.Client) *GeminiLister {
	return &GeminiLister{apiKey: apiKey, baseURL: baseURL, httpClient: httpClient}
}

// List implements Lister.
func (l *GeminiLister) List(ctx context.Context) ([]string, error) {
	if l.apiKey == "" {
		return nil, fmt.Errorf("Gemini API key not found. Set ANKIVN_GEMINI_API_KEY_POOL or configure gemini.api_key_pool in .ankivn.yaml")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:      l.apiKey,
		Backend:     genai.BackendGeminiAPI,
		HTTPClient:  l.httpClient,
		HTTPOptions: genai.HTTPOptions{BaseURL: l.baseURL},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	page, err := client.Models.List(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to list models: %w", err)
	}

	var names []string
	for _, m := range page.Items {
		if !slices.Contains(m.SupportedActions, "generateContent") {
			continue
		}
		names = append(names, strings.TrimPrefix(m.Name, "models/"))
	}
	slices.Sort(names)
	return names, nil
}

// OpenAILister lists the chat models of an OpenAI compatible endpoint.
type OpenAILister struct {
	apiKey string
	client *openai.Client
}

// NewOpenAILister creates a lister. An empty baseURL selects api.openai.com.
func NewOpenAILister(apiKey, baseURL string, httpClient *http.Client) *OpenAILister {
	config := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		config.BaseURL = baseURL
	}
	if httpClient != nil {
		config.HTTPClient = httpClient
	}
	return &OpenAILister{apiKey: apiKey, client: openai.NewClientWithConfig(config)}
}

// List implements Lister.
func (l *OpenAILister) List(ctx context.Context) ([]string, error) {
	if l.apiKey == "" {
		return nil, fmt.Errorf("OpenAI API key not found. Set ANKIVN_OPENAI_API_KEY or configure openai.api_key in .ankivn.yaml")
	}

	models, err := l.client.ListModels(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list models: %w", err)
	}

	var names []string
	for _, model := range models.Models {
		id := model.ID
		if strings.Contains(id, "tts") || strings.Contains(id, "audio") ||
			strings.Contains(id, "dall-e") || strings.Contains(id, "embedding") {
			continue
		}
		if strings.Contains(id, "gpt") || strings.Contains(id, "chat") {
			names = append(names, id)
		}
	}
	slices.Sort(names)
	return names, nil
}

// Print writes the models under title, marking current.
func Print(w io.Writer, title string, names []string, current string) {
	fmt.Fprintf(w, "%s:\n", title)
	if len(names) == 0 {
		fmt.Fprintln(w, "  No models found")
		return
	}
	for _, name := range names {
		marker := " "
		if name == current {
			marker = "*"
		}
		fmt.Fprintf(w, "%s %s\n", marker, name)
	}
}
