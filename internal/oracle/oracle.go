package oracle

import (
	"context"
	"errors"
	"strings"
)

// Common errors.
var (
	ErrNoProviderEnabled = errors.New("no oracle provider configured")
	ErrUnsupportedModel  = errors.New("unsupported provider")
	ErrEmptyPrompt       = errors.New("prompt cannot be empty")
)

// Transport is the single external oracle function: one blocking call
// that either returns the raw oracle text or fails with an error.
type Transport interface {
	// Call sends a prompt to the oracle and returns its raw text
	// response.
	Call(ctx context.Context, prompt string) (string, error)

	// Name returns the provider name.
	Name() string

	// Close releases any resources held by the transport.
	Close() error
}

// rateLimitMarkers are the error-message substrings classified as
// transient. All three map to one transient class with one backoff
// policy; no finer-grained retry tuning is applied per marker.
var rateLimitMarkers = []string{"rate limit", "429", "rate_limit_exceeded"}

// IsRateLimited reports whether err indicates transient rate limiting.
func IsRateLimited(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	for _, marker := range rateLimitMarkers {
		if strings.Contains(msg, marker) {
			return true
		}
	}
	return false
}
