package api

import (
	"errors"
	"fmt"
)

// ErrorType represents the category of an error surfaced to callers.
type ErrorType string

const (
	ErrorTypeConfigIO             ErrorType = "config_io"
	ErrorTypeValidation           ErrorType = "validation"
	ErrorTypeConversationCreation ErrorType = "conversation_creation"
	ErrorTypeAuthentication       ErrorType = "authentication"
	ErrorTypeRateLimit            ErrorType = "rate_limit"
	ErrorTypeRequestFailed        ErrorType = "request_failed"
	ErrorTypeResponseParse        ErrorType = "response_parse"
)

// Error is a structured error with a type, an optional offending parameter,
// the HTTP status that produced it (if any) and the underlying cause.
type Error struct {
	Type       ErrorType `json:"type"`
	Param      string    `json:"param,omitempty"`
	Message    string    `json:"message"`
	StatusCode int       `json:"status_code,omitempty"`
	Cause      error     `json:"-"`
}

// Error implements the error interface.
func (e *Error) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Type, e.Message)
	if e.Param != "" {
		msg = fmt.Sprintf("%s (param: %s)", msg, e.Param)
	}
	if e.Cause != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Cause)
	}
	return msg
}

// Unwrap returns the underlying cause so errors.Is and errors.As can
// inspect it.
func (e *Error) Unwrap() error {
	return e.Cause
}

// IsType reports whether err, or any error it wraps, is an *Error of type t.
func IsType(err error, t ErrorType) bool {
	var apiErr *Error
	for err != nil {
		if !errors.As(err, &apiErr) {
			return false
		}
		if apiErr.Type == t {
			return true
		}
		err = apiErr.Cause
	}
	return false
}

// NewConfigIOError creates an Error for a failed configuration read or write.
func NewConfigIOError(message string, cause error) *Error {
	return &Error{
		Type:    ErrorTypeConfigIO,
		Message: message,
		Cause:   cause,
	}
}

// NewValidationError creates an Error for an option value that was rejected.
func NewValidationError(param, message string) *Error {
	return &Error{
		Type:    ErrorTypeValidation,
		Param:   param,
		Message: message,
	}
}

// NewConversationCreationError creates an Error for a failed remote
// conversation creation.
func NewConversationCreationError(cause error) *Error {
	return &Error{
		Type:    ErrorTypeConversationCreation,
		Message: "failed to create conversation",
		Cause:   cause,
	}
}

// NewAuthenticationError creates an Error for a rejected API key (HTTP 401).
func NewAuthenticationError(message string) *Error {
	return &Error{
		Type:       ErrorTypeAuthentication,
		Message:    message,
		StatusCode: 401,
	}
}

// NewRateLimitError creates an Error for rate limiting (HTTP 429).
func NewRateLimitError(message string) *Error {
	return &Error{
		Type:       ErrorTypeRateLimit,
		Message:    message,
		StatusCode: 429,
	}
}

// NewRequestFailedError creates an Error for any other non-2xx status or a
// transport-level failure. statusCode is zero for transport failures.
func NewRequestFailedError(message string, statusCode int, cause error) *Error {
	return &Error{
		Type:       ErrorTypeRequestFailed,
		Message:    message,
		StatusCode: statusCode,
		Cause:      cause,
	}
}

// NewResponseParseError creates an Error for a provider body that could not
// be decoded.
func NewResponseParseError(message string, cause error) *Error {
	return &Error{
		Type:    ErrorTypeResponseParse,
		Message: message,
		Cause:   cause,
	}
}
