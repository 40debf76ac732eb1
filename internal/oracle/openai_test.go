package oracle

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func newChatServer(t *testing.T, handler http.HandlerFunc) (*httptest.Server, *OpenAITransport) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	transport, err := NewOpenAITransport(OpenAIConfig{
		APIKey:  "test-key",
		BaseURL: server.URL,
	})
	require.NoError(t, err)
	return server, transport
}

func TestOpenAITransportCall(t *testing.T) {
	t.Run("successful call", func(t *testing.T) {
		_, transport := newChatServer(t, func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, "POST", r.Method)
			require.Equal(t, "/chat/completions", r.URL.Path)
			require.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

			var req chatRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			require.Len(t, req.Messages, 1)
			require.Equal(t, "user", req.Messages[0].Role)

			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(map[string]any{
				"choices": []map[string]any{
					{"message": map[string]any{"content": `{"overview":"ok"}`}},
				},
			})
		})

		out, err := transport.Call(context.Background(), "analyze this")
		require.NoError(t, err)
		require.Equal(t, `{"overview":"ok"}`, out)
	})

	t.Run("http 429 is classified as rate limited", func(t *testing.T) {
		_, transport := newChatServer(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusTooManyRequests)
			_, _ = w.Write([]byte(`{"error":{"message":"slow down"}}`))
		})

		_, err := transport.Call(context.Background(), "prompt")
		require.Error(t, err)
		require.True(t, IsRateLimited(err), "429 responses must classify as transient")
	})

	t.Run("api error in body", func(t *testing.T) {
		_, transport := newChatServer(t, func(w http.ResponseWriter, r *http.Request) {
			_ = json.NewEncoder(w).Encode(map[string]any{
				"error": map[string]any{"message": "bad model", "type": "invalid_request_error"},
			})
		})

		_, err := transport.Call(context.Background(), "prompt")
		require.Error(t, err)
		require.False(t, IsRateLimited(err))
	})

	t.Run("empty choices", func(t *testing.T) {
		_, transport := newChatServer(t, func(w http.ResponseWriter, r *http.Request) {
			_ = json.NewEncoder(w).Encode(map[string]any{"choices": []any{}})
		})

		_, err := transport.Call(context.Background(), "prompt")
		require.Error(t, err)
	})

	t.Run("empty prompt rejected", func(t *testing.T) {
		_, transport := newChatServer(t, func(w http.ResponseWriter, r *http.Request) {})
		_, err := transport.Call(context.Background(), "")
		require.ErrorIs(t, err, ErrEmptyPrompt)
	})
}

func TestNewOpenAITransport(t *testing.T) {
	t.Run("missing api key", func(t *testing.T) {
		t.Setenv("OPENAI_API_KEY", "")
		_, err := NewOpenAITransport(OpenAIConfig{})
		require.ErrorIs(t, err, ErrNoProviderEnabled)
	})

	t.Run("defaults applied", func(t *testing.T) {
		transport, err := NewOpenAITransport(OpenAIConfig{APIKey: "k"})
		require.NoError(t, err)
		require.Equal(t, DefaultOpenAIBaseURL, transport.baseURL)
		require.Equal(t, DefaultOpenAIModel, transport.model)
		require.Equal(t, ProviderOpenAI, transport.Name())
	})
}

func TestNewTransport(t *testing.T) {
	t.Run("unknown provider", func(t *testing.T) {
		_, err := NewTransport(context.Background(), TransportConfig{Provider: "mystery"})
		require.ErrorIs(t, err, ErrUnsupportedModel)
	})

	t.Run("openai by name", func(t *testing.T) {
		transport, err := NewTransport(context.Background(), TransportConfig{
			Provider: ProviderOpenAI,
			APIKey:   "k",
		})
		require.NoError(t, err)
		require.Equal(t, ProviderOpenAI, transport.Name())
	})
}
