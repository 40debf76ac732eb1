package oracle

import (
	"context"
	"fmt"
	"os"

	"google.golang.org/genai"
)

// Gemini provider configuration.
const (
	ProviderGemini = "gemini"

	DefaultGeminiModel = "gemini-2.0-flash"
)

// GeminiTransport calls the Gemini API via the genai SDK.
type GeminiTransport struct {
	client *genai.Client
	model  string
}

// GeminiConfig configures a GeminiTransport.
type GeminiConfig struct {
	APIKey string
	Model  string
}

// NewGeminiTransport creates a Gemini oracle transport.
func NewGeminiTransport(ctx context.Context, cfg GeminiConfig) (*GeminiTransport, error) {
	if cfg.APIKey == "" {
		cfg.APIKey = os.Getenv("GEMINI_API_KEY")
	}
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%w: GEMINI_API_KEY not set", ErrNoProviderEnabled)
	}
	if cfg.Model == "" {
		cfg.Model = DefaultGeminiModel
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: cfg.APIKey})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}

	return &GeminiTransport{
		client: client,
		model:  cfg.Model,
	}, nil
}

// Call sends the prompt as user content and returns the response
// text. Rate-limit errors surface with their API message intact so
// classification can match on "429".
func (t *GeminiTransport) Call(ctx context.Context, prompt string) (string, error) {
	if prompt == "" {
		return "", ErrEmptyPrompt
	}

	contents := []*genai.Content{
		genai.NewContentFromText(prompt, genai.RoleUser),
	}

	result, err := t.client.Models.GenerateContent(ctx, t.model, contents, nil)
	if err != nil {
		return "", fmt.Errorf("genai call: %w", err)
	}

	text := result.Text()
	if text == "" {
		return "", fmt.Errorf("empty response from model")
	}
	return text, nil
}

// Name returns the provider name.
func (t *GeminiTransport) Name() string {
	return ProviderGemini
}

// Close releases client resources. The genai client holds no
// long-lived connections that need explicit shutdown.
func (t *GeminiTransport) Close() error {
	return nil
}
