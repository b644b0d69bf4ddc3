package onemin

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rhuss/llm-1min/pkg/api"
	"github.com/rhuss/llm-1min/pkg/debug"
	"github.com/rhuss/llm-1min/pkg/observability"
	"github.com/rhuss/llm-1min/pkg/provider"
)

// maxBodySize caps how much of a response body is read.
const maxBodySize = 8 << 20

// Client implements provider.Provider against the 1min.ai REST API.
type Client struct {
	cfg    Config
	client *http.Client
}

// Ensure Client implements provider.Provider at compile time.
var _ provider.Provider = (*Client)(nil)

// New creates a new Client with the given configuration.
// Returns an error if the configuration is invalid.
func New(cfg Config) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("onemin: API key is required")
	}
	def := DefaultConfig(cfg.APIKey)
	if cfg.BaseURL == "" {
		cfg.BaseURL = def.BaseURL
	}

	// Normalize: remove trailing slash from base URL.
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")

	if cfg.CreateTimeout == 0 {
		cfg.CreateTimeout = def.CreateTimeout
	}
	if cfg.PromptTimeout == 0 {
		cfg.PromptTimeout = def.PromptTimeout
	}
	if cfg.RequestTimeout == 0 {
		cfg.RequestTimeout = def.RequestTimeout
	}

	// Per-call timeouts are applied through the request context, so the
	// shared client has none of its own.
	client := &http.Client{
		Transport: observability.NewTransport(cfg.Transport),
	}

	return &Client{cfg: cfg, client: client}, nil
}

// Name returns the provider identifier.
func (c *Client) Name() string {
	return "1min"
}

// CreateConversation opens a remote conversation and returns its UUID.
// Every failure, including an unusable response body, is reported as a
// conversation_creation error wrapping the cause.
func (c *Client) CreateConversation(ctx context.Context, title, conversationType, model string) (id string, err error) {
	defer observe("create_conversation", time.Now(), &err)

	reqBody := provider.CreateConversationRequest{
		Title: title,
		Type:  conversationType,
		Model: model,
	}

	status, data, err := c.do(ctx, http.MethodPost, "/api/conversations", c.cfg.CreateTimeout, reqBody)
	if err != nil {
		return "", api.NewConversationCreationError(err)
	}
	if !isSuccess(status) {
		return "", api.NewConversationCreationError(mapHTTPError(statusResponse(status, data)))
	}

	var created struct {
		Conversation provider.Conversation `json:"conversation"`
	}
	if err := json.Unmarshal(data, &created); err != nil {
		return "", api.NewConversationCreationError(
			api.NewResponseParseError("failed to parse conversation response", err))
	}
	if created.Conversation.UUID == "" {
		return "", api.NewConversationCreationError(
			api.NewResponseParseError("conversation response has no uuid", nil))
	}

	debug.Log("providers", "conversation created", "uuid", created.Conversation.UUID, "model", model, "type", conversationType)
	return created.Conversation.UUID, nil
}

// SubmitPrompt posts a prompt to the features endpoint and returns the
// model's answer rendered as text.
func (c *Client) SubmitPrompt(ctx context.Context, req *provider.FeatureRequest) (text string, err error) {
	defer observe("submit_prompt", time.Now(), &err)

	status, data, err := c.do(ctx, http.MethodPost, "/api/features", c.cfg.PromptTimeout, req)
	if err != nil {
		return "", err
	}
	if !isSuccess(status) {
		return "", mapHTTPError(statusResponse(status, data))
	}

	text, strategy, err := extractText(data)
	if err != nil {
		return "", api.NewResponseParseError("failed to parse API response", err)
	}

	debug.Log("providers", "prompt answered", "model", req.Model, "conversation", req.ConversationID, "strategy", strategy, "chars", len(text))
	if debug.TraceIsEnabled("providers") {
		debug.Trace("providers", "response body", "body", debug.Truncate(string(data), 2000))
	}
	return text, nil
}

// DeleteConversation deletes a remote conversation. 200, 204 and 404 all
// count as success. Any other status returns false with the mapped error;
// a transport failure returns false with a request_failed error.
func (c *Client) DeleteConversation(ctx context.Context, id string) (ok bool, err error) {
	defer observe("delete_conversation", time.Now(), &err)

	status, data, err := c.do(ctx, http.MethodDelete, "/api/conversations/"+url.PathEscape(id), c.cfg.RequestTimeout, nil)
	if err != nil {
		return false, err
	}

	switch status {
	case http.StatusOK, http.StatusNoContent, http.StatusNotFound:
		debug.Log("providers", "conversation deleted", "uuid", id, "status", status)
		return true, nil
	default:
		return false, mapHTTPError(statusResponse(status, data))
	}
}

// ListConversations returns the conversations the API key owns.
func (c *Client) ListConversations(ctx context.Context) (convs []provider.Conversation, err error) {
	defer observe("list_conversations", time.Now(), &err)

	status, data, err := c.do(ctx, http.MethodGet, "/api/conversations", c.cfg.RequestTimeout, nil)
	if err != nil {
		return nil, err
	}
	if !isSuccess(status) {
		return nil, mapHTTPError(statusResponse(status, data))
	}

	var list struct {
		Conversations []provider.Conversation `json:"conversations"`
	}
	if err := json.Unmarshal(data, &list); err != nil {
		return nil, api.NewResponseParseError("failed to parse conversation list", err)
	}
	if list.Conversations == nil {
		list.Conversations = []provider.Conversation{}
	}
	return list.Conversations, nil
}

// GetConversation returns the raw JSON document for one conversation.
func (c *Client) GetConversation(ctx context.Context, id string) (doc json.RawMessage, err error) {
	defer observe("get_conversation", time.Now(), &err)

	status, data, err := c.do(ctx, http.MethodGet, "/api/conversations/"+url.PathEscape(id), c.cfg.RequestTimeout, nil)
	if err != nil {
		return nil, err
	}
	if !isSuccess(status) {
		return nil, mapHTTPError(statusResponse(status, data))
	}
	if !json.Valid(data) {
		return nil, api.NewResponseParseError("conversation response is not JSON", nil)
	}
	return json.RawMessage(data), nil
}

// Close releases idle connections.
func (c *Client) Close() error {
	c.client.CloseIdleConnections()
	return nil
}

// do sends one request with the API key header and returns the status and
// the full body. Only transport failures produce an error; status handling
// is left to the caller.
func (c *Client) do(ctx context.Context, method, path string, timeout time.Duration, body any) (int, []byte, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return 0, nil, api.NewRequestFailedError(fmt.Sprintf("failed to marshal request: %s", err.Error()), 0, err)
		}
		reader = bytes.NewReader(encoded)
	}

	target := c.cfg.BaseURL + path
	httpReq, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return 0, nil, api.NewRequestFailedError(fmt.Sprintf("failed to create HTTP request: %s", err.Error()), 0, err)
	}
	httpReq.Header.Set("API-KEY", c.cfg.APIKey)
	httpReq.Header.Set("Accept", "application/json")
	if body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}

	debug.Log("providers", "request", "method", method, "url", target, "api_key", debug.Redact(c.cfg.APIKey), "timeout", timeout)

	httpResp, err := c.client.Do(httpReq)
	if err != nil {
		return 0, nil, mapNetworkError(err)
	}
	defer httpResp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(httpResp.Body, maxBodySize))
	if err != nil {
		return 0, nil, mapNetworkError(err)
	}

	debug.Log("providers", "response", "method", method, "url", target, "status", httpResp.StatusCode, "bytes", len(data))
	return httpResp.StatusCode, data, nil
}

func isSuccess(status int) bool {
	return status >= 200 && status < 300
}

// statusResponse rebuilds a minimal response so mapHTTPError can inspect
// the already-read body.
func statusResponse(status int, data []byte) *http.Response {
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(bytes.NewReader(data)),
	}
}

func observe(operation string, start time.Time, err *error) {
	observability.ProviderLatency.WithLabelValues(operation).Observe(time.Since(start).Seconds())
	observability.ProviderRequestsTotal.WithLabelValues(operation, statusLabel(*err)).Inc()
}
