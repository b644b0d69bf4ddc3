package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"testing"
)

func TestErrorInterface(t *testing.T) {
	var _ error = &Error{}
}

func TestErrorString(t *testing.T) {
	tests := []struct {
		name string
		err  *Error
		want string
	}{
		{
			"with param",
			&Error{Type: ErrorTypeValidation, Param: "num_of_site", Message: "must be between 1 and 10"},
			"validation: must be between 1 and 10 (param: num_of_site)",
		},
		{
			"without param",
			&Error{Type: ErrorTypeRateLimit, Message: "rate limit exceeded"},
			"rate_limit: rate limit exceeded",
		},
		{
			"with cause",
			&Error{Type: ErrorTypeRequestFailed, Message: "request failed", Cause: io.ErrUnexpectedEOF},
			"request_failed: request failed: unexpected EOF",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestErrorConstructors(t *testing.T) {
	cause := errors.New("boom")
	tests := []struct {
		name       string
		err        *Error
		wantType   ErrorType
		wantParam  string
		wantStatus int
	}{
		{"config io", NewConfigIOError("failed to save config", cause), ErrorTypeConfigIO, "", 0},
		{"validation", NewValidationError("conversation_type", "bad"), ErrorTypeValidation, "conversation_type", 0},
		{"conversation creation", NewConversationCreationError(cause), ErrorTypeConversationCreation, "", 0},
		{"authentication", NewAuthenticationError("bad key"), ErrorTypeAuthentication, "", 401},
		{"rate limit", NewRateLimitError("slow down"), ErrorTypeRateLimit, "", 429},
		{"request failed", NewRequestFailedError("HTTP 500", 500, nil), ErrorTypeRequestFailed, "", 500},
		{"response parse", NewResponseParseError("bad json", cause), ErrorTypeResponseParse, "", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err.Type != tt.wantType {
				t.Errorf("Type = %q, want %q", tt.err.Type, tt.wantType)
			}
			if tt.err.Param != tt.wantParam {
				t.Errorf("Param = %q, want %q", tt.err.Param, tt.wantParam)
			}
			if tt.err.StatusCode != tt.wantStatus {
				t.Errorf("StatusCode = %d, want %d", tt.err.StatusCode, tt.wantStatus)
			}
		})
	}
}

func TestErrorUnwrap(t *testing.T) {
	cause := errors.New("connection refused")
	err := NewConversationCreationError(NewRequestFailedError("backend connection error", 0, cause))

	if !errors.Is(err, cause) {
		t.Error("errors.Is should find the root cause")
	}
	if !IsType(err, ErrorTypeConversationCreation) {
		t.Error("expected conversation_creation type")
	}
	if !IsType(err, ErrorTypeRequestFailed) {
		t.Error("expected nested request_failed type to be found")
	}
	if IsType(err, ErrorTypeAuthentication) {
		t.Error("authentication type should not match")
	}
}

func TestIsTypeWrapped(t *testing.T) {
	err := fmt.Errorf("prompt: %w", NewAuthenticationError("Authentication failed"))
	if !IsType(err, ErrorTypeAuthentication) {
		t.Error("IsType should see through fmt.Errorf wrapping")
	}
	if IsType(nil, ErrorTypeAuthentication) {
		t.Error("IsType(nil) should be false")
	}
	if IsType(errors.New("plain"), ErrorTypeAuthentication) {
		t.Error("IsType on a plain error should be false")
	}
}

func TestErrorJSON(t *testing.T) {
	err := NewValidationError("num_of_site", "must be between 1 and 10")
	data, mErr := json.Marshal(err)
	if mErr != nil {
		t.Fatalf("marshal: %v", mErr)
	}

	var m map[string]any
	json.Unmarshal(data, &m)
	if m["type"] != "validation" {
		t.Errorf("type = %v, want validation", m["type"])
	}
	if m["param"] != "num_of_site" {
		t.Errorf("param = %v, want num_of_site", m["param"])
	}
	if _, ok := m["status_code"]; ok {
		t.Error("status_code should be omitted when zero")
	}
}
