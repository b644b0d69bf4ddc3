package onemin

import (
	"net/http"
	"time"
)

// DefaultBaseURL is the public 1min.ai API endpoint.
const DefaultBaseURL = "https://api.1min.ai"

// Config holds configuration for the 1min.ai client.
type Config struct {
	// BaseURL is the API server URL. Defaults to DefaultBaseURL.
	BaseURL string

	// APIKey is sent in the API-KEY header on every request.
	APIKey string

	// CreateTimeout bounds conversation creation. Defaults to 30s.
	CreateTimeout time.Duration

	// PromptTimeout bounds prompt submission, which waits for inference.
	// Defaults to 60s.
	PromptTimeout time.Duration

	// RequestTimeout bounds delete, list and get calls. Defaults to 30s.
	RequestTimeout time.Duration

	// Transport overrides the HTTP transport. The client always wraps it
	// with metrics instrumentation.
	Transport http.RoundTripper
}

// DefaultConfig returns a Config with the standard endpoint and timeouts.
func DefaultConfig(apiKey string) Config {
	return Config{
		BaseURL:        DefaultBaseURL,
		APIKey:         apiKey,
		CreateTimeout:  30 * time.Second,
		PromptTimeout:  60 * time.Second,
		RequestTimeout: 30 * time.Second,
	}
}
