package translation

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/sashabaranov/go-openai"
	"google.golang.org/genai"
)

// DefaultGeminiModel is used when no model is configured.
const DefaultGeminiModel = "gemini-2.5-flash"

// DefaultOpenAIModel is used by the OpenAI compatible backend when no model
// is configured.
const DefaultOpenAIModel = openai.GPT4oMini

// Generator sends a single prompt to a language model and returns its raw
// text reply.
type Generator interface {
	Generate(ctx context.Context, apiKey, prompt string) (string, error)
}

// GeminiGenerator talks to the Gemini generateContent endpoint.
type GeminiGenerator struct {
	model      string
	baseURL    string
	httpClient *http.Client
}

// NewGeminiGenerator creates a Gemini backed generator. An empty baseURL
// selects the public endpoint.
func NewGeminiGenerator(model, baseURL string, httpClient *http.Client) *GeminiGenerator {
	if model == "" {
		model = DefaultGeminiModel
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &GeminiGenerator{model: model, baseURL: baseURL, httpClient: httpClient}
}

// Model returns the configured model name.
func (g *GeminiGenerator) Model() string {
	return g.model
}

// Generate implements Generator. The SDK client is cheap to build and the key
// changes between calls, so one is created per request.
func (g *GeminiGenerator) Generate(ctx context.Context, apiKey, prompt string) (string, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:      apiKey,
		Backend:     genai.BackendGeminiAPI,
		HTTPClient:  g.httpClient,
		HTTPOptions: genai.HTTPOptions{BaseURL: g.baseURL},
	})
	if err != nil {
		return "", fmt.Errorf("failed to create Gemini client: %w", err)
	}

	resp, err := client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
	})
	if err != nil {
		return "", fmt.Errorf("Gemini API error: %w", err)
	}

	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return "", fmt.Errorf("no content returned by %s", g.model)
	}
	return text, nil
}

// OpenAIGenerator talks to any OpenAI compatible chat completion endpoint.
type OpenAIGenerator struct {
	model      string
	baseURL    string
	httpClient *http.Client
}

// NewOpenAIGenerator creates a chat completion backed generator. An empty
// baseURL selects api.openai.com.
func NewOpenAIGenerator(model, baseURL string, httpClient *http.Client) *OpenAIGenerator {
	if model == "" {
		model = DefaultOpenAIModel
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &OpenAIGenerator{model: model, baseURL: baseURL, httpClient: httpClient}
}

// Model returns the configured model name.
func (g *OpenAIGenerator) Model() string {
	return g.model
}

// Generate implements Generator.
func (g *OpenAIGenerator) Generate(ctx context.Context, apiKey, prompt string) (string, error) {
	cfg := openai.DefaultConfig(apiKey)
	if g.baseURL != "" {
		cfg.BaseURL = g.baseURL
	}
	cfg.HTTPClient = g.httpClient
	client := openai.NewClientWithConfig(cfg)

	req := openai.ChatCompletionRequest{
		Model: g.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		MaxTokens:   400,
		Temperature: 0.3,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	}

	resp, err := client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", fmt.Errorf("OpenAI API error: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no choices returned by %s", g.model)
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}
