package provider

import (
	"context"
	"encoding/json"
)

// Provider abstracts the hosted inference API. Every call is a single
// HTTP attempt; failures are returned as *api.Error values and never
// retried.
//
// Implementations must be safe for concurrent use by multiple goroutines.
type Provider interface {
	// Name returns the provider identifier (e.g., "1min").
	Name() string

	// CreateConversation opens a remote conversation and returns its UUID.
	CreateConversation(ctx context.Context, title, conversationType, model string) (string, error)

	// SubmitPrompt sends one prompt and returns the model's answer as text.
	SubmitPrompt(ctx context.Context, req *FeatureRequest) (string, error)

	// DeleteConversation removes a remote conversation. It returns true
	// when the conversation no longer exists afterwards.
	DeleteConversation(ctx context.Context, uuid string) (bool, error)

	// ListConversations returns the conversations known to the provider.
	ListConversations(ctx context.Context) ([]Conversation, error)

	// GetConversation returns the raw conversation document.
	GetConversation(ctx context.Context, uuid string) (json.RawMessage, error)

	// Close releases provider resources (HTTP clients, connections).
	Close() error
}
