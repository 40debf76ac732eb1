package oracle

import (
	"context"
	"fmt"
	"os"
	"strings"
)

// TransportConfig holds explicit transport configuration.
type TransportConfig struct {
	Provider string
	APIKey   string
	Model    string
	BaseURL  string // OpenAI-compatible endpoints only
}

// NewTransport creates a transport with explicit configuration.
func NewTransport(ctx context.Context, cfg TransportConfig) (Transport, error) {
	switch strings.ToLower(cfg.Provider) {
	case ProviderOpenAI:
		return NewOpenAITransport(OpenAIConfig{
			APIKey:  cfg.APIKey,
			BaseURL: cfg.BaseURL,
			Model:   cfg.Model,
		})
	case ProviderGemini:
		return NewGeminiTransport(ctx, GeminiConfig{
			APIKey: cfg.APIKey,
			Model:  cfg.Model,
		})
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedModel, cfg.Provider)
	}
}

// NewTransportFromEnv creates a transport based on environment
// variables. Priority:
//  1. CODELORE_ORACLE_PROVIDER (openai, gemini)
//  2. Auto-detect from OPENAI_API_KEY, then GEMINI_API_KEY
func NewTransportFromEnv(ctx context.Context) (Transport, error) {
	provider := os.Getenv("CODELORE_ORACLE_PROVIDER")
	model := os.Getenv("CODELORE_ORACLE_MODEL")

	if provider != "" {
		return NewTransport(ctx, TransportConfig{Provider: provider, Model: model})
	}

	if os.Getenv("OPENAI_API_KEY") != "" {
		return NewOpenAITransport(OpenAIConfig{Model: model})
	}
	if os.Getenv("GEMINI_API_KEY") != "" {
		return NewGeminiTransport(ctx, GeminiConfig{Model: model})
	}

	return nil, fmt.Errorf("%w: set OPENAI_API_KEY or GEMINI_API_KEY", ErrNoProviderEnabled)
}
