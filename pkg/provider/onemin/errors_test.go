package onemin

import (
	"bytes"
	"errors"
	"io"
	"net/http"
	"testing"

	"github.com/rhuss/llm-1min/pkg/api"
)

func makeResponse(statusCode int, body string) *http.Response {
	return &http.Response{
		StatusCode: statusCode,
		Body:       io.NopCloser(bytes.NewBufferString(body)),
	}
}

func TestMapHTTPError(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		body        string
		wantType    api.ErrorType
		wantMessage string
	}{
		{"401 default message", 401, "", api.ErrorTypeAuthentication, "Authentication failed. Please check your API key."},
		{"401 body message", 401, `{"message":"Invalid API key"}`, api.ErrorTypeAuthentication, "Invalid API key"},
		{"429", 429, "", api.ErrorTypeRateLimit, "Rate limit exceeded. Please try again later."},
		{"400 nested error", 400, `{"error":{"message":"model not supported"}}`, api.ErrorTypeRequestFailed, "API request failed (HTTP 400): model not supported"},
		{"403 string error", 403, `{"error":"insufficient credits"}`, api.ErrorTypeRequestFailed, "API request failed (HTTP 403): insufficient credits"},
		{"500 no body", 500, "", api.ErrorTypeRequestFailed, "API request failed (HTTP 500)"},
		{"502 html body", 502, "<html>bad gateway</html>", api.ErrorTypeRequestFailed, "API request failed (HTTP 502)"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			apiErr := mapHTTPError(makeResponse(tt.status, tt.body))
			if apiErr.Type != tt.wantType {
				t.Errorf("Type = %q, want %q", apiErr.Type, tt.wantType)
			}
			if apiErr.Message != tt.wantMessage {
				t.Errorf("Message = %q, want %q", apiErr.Message, tt.wantMessage)
			}
			if apiErr.StatusCode != tt.status {
				t.Errorf("StatusCode = %d, want %d", apiErr.StatusCode, tt.status)
			}
		})
	}
}

func TestMapNetworkError(t *testing.T) {
	cause := errors.New("dial tcp: connection refused")
	apiErr := mapNetworkError(cause)

	if apiErr.Type != api.ErrorTypeRequestFailed {
		t.Errorf("Type = %q, want request_failed", apiErr.Type)
	}
	if !errors.Is(apiErr, cause) {
		t.Error("network cause should be wrapped")
	}
}

func TestStatusLabel(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{nil, "ok"},
		{api.NewAuthenticationError("x"), "auth_error"},
		{api.NewConversationCreationError(api.NewRateLimitError("x")), "rate_limited"},
		{api.NewResponseParseError("x", nil), "parse_error"},
		{api.NewRequestFailedError("x", 500, nil), "error"},
	}
	for _, tt := range tests {
		if got := statusLabel(tt.err); got != tt.want {
			t.Errorf("statusLabel(%v) = %q, want %q", tt.err, got, tt.want)
		}
	}
}
