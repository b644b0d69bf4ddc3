package onemin

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/rhuss/llm-1min/pkg/api"
)

// mapHTTPError converts a non-2xx response into an *api.Error. The body is
// inspected for a provider message to make the error more descriptive.
func mapHTTPError(resp *http.Response) *api.Error {
	message := extractErrorMessage(resp.Body)

	switch resp.StatusCode {
	case http.StatusUnauthorized:
		if message == "" {
			message = "Authentication failed. Please check your API key."
		}
		return api.NewAuthenticationError(message)

	case http.StatusTooManyRequests:
		if message == "" {
			message = "Rate limit exceeded. Please try again later."
		}
		return api.NewRateLimitError(message)

	default:
		if message == "" {
			message = fmt.Sprintf("API request failed (HTTP %d)", resp.StatusCode)
		} else {
			message = fmt.Sprintf("API request failed (HTTP %d): %s", resp.StatusCode, message)
		}
		return api.NewRequestFailedError(message, resp.StatusCode, nil)
	}
}

// mapNetworkError converts a transport-level failure (connection refused,
// timeout, DNS resolution) into a request_failed error.
func mapNetworkError(err error) *api.Error {
	return api.NewRequestFailedError("API request failed: connection error", 0, err)
}

// extractErrorMessage looks for a message in the common error body shapes
// ({"message": ...}, {"error": "..."} and {"error": {"message": ...}}).
func extractErrorMessage(body io.Reader) string {
	if body == nil {
		return ""
	}

	data, err := io.ReadAll(io.LimitReader(body, 4096))
	if err != nil || len(data) == 0 {
		return ""
	}

	var errResp struct {
		Message string          `json:"message"`
		Error   json.RawMessage `json:"error"`
	}
	if err := json.Unmarshal(data, &errResp); err != nil {
		return ""
	}
	if errResp.Message != "" {
		return errResp.Message
	}
	if len(errResp.Error) == 0 {
		return ""
	}

	var s string
	if json.Unmarshal(errResp.Error, &s) == nil {
		return strings.TrimSpace(s)
	}
	var nested struct {
		Message string `json:"message"`
	}
	if json.Unmarshal(errResp.Error, &nested) == nil {
		return nested.Message
	}
	return ""
}

// statusLabel returns the metrics label for an error returned by a call.
func statusLabel(err error) string {
	switch {
	case err == nil:
		return "ok"
	case api.IsType(err, api.ErrorTypeAuthentication):
		return "auth_error"
	case api.IsType(err, api.ErrorTypeRateLimit):
		return "rate_limited"
	case api.IsType(err, api.ErrorTypeResponseParse):
		return "parse_error"
	default:
		return "error"
	}
}
