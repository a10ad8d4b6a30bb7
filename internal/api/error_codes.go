package api

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/thinkglobalschool/spot-cli/internal/config"
	"github.com/thinkglobalschool/spot-cli/internal/formdata"
)

// ErrorCode represents machine-readable error codes for scripted callers.
type ErrorCode string

const (
	// ErrConfiguration indicates the endpoint or API key is missing or invalid.
	ErrConfiguration ErrorCode = "configuration"
	// ErrSignedOut indicates the access token was rejected (status -20).
	ErrSignedOut ErrorCode = "signed_out"
	// ErrNotLoggedIn indicates no access token is stored.
	ErrNotLoggedIn ErrorCode = "not_logged_in"
	// ErrRejected indicates Spot answered with a failing status.
	ErrRejected ErrorCode = "rejected"
	// ErrUnreachable indicates the server could not be reached.
	ErrUnreachable ErrorCode = "unreachable"
	// ErrTimeout indicates the request timed out.
	ErrTimeout ErrorCode = "timeout"
	// ErrBadResponse indicates the server answered with something other than an envelope.
	ErrBadResponse ErrorCode = "bad_response"
	// ErrAttachment indicates a local attachment could not be read.
	ErrAttachment ErrorCode = "attachment_unreadable"
	// ErrValidation indicates input validation failed.
	ErrValidation ErrorCode = "validation_failed"
	// ErrUnknown indicates an unknown or unclassified error.
	ErrUnknown ErrorCode = "unknown"
)

// IsRetryable returns true if errors with this code may succeed if the user
// tries again. Nothing is retried automatically.
func (c ErrorCode) IsRetryable() bool {
	switch c {
	case ErrUnreachable, ErrTimeout:
		return true
	default:
		return false
	}
}

// Suggestion returns a human-readable suggestion for resolving this error.
func (c ErrorCode) Suggestion() string {
	switch c {
	case ErrConfiguration:
		return "Set SPOT_API_ENDPOINT and SPOT_API_KEY or edit the config file"
	case ErrSignedOut:
		return "Incorrect login credentials. Run 'spot auth login' to sign in again"
	case ErrNotLoggedIn:
		return "Run 'spot auth login' to sign in"
	case ErrUnreachable:
		return "Check network connectivity and the API endpoint"
	case ErrTimeout:
		return "The request timed out; check network connectivity and retry"
	case ErrBadResponse:
		return "Check that the API endpoint points at a Spot server"
	case ErrAttachment:
		return "Check the file path and permissions"
	case ErrValidation:
		return "Check the input values"
	default:
		return ""
	}
}

// StructuredError provides machine-readable error information.
type StructuredError struct {
	Code       ErrorCode      `json:"code"`
	Message    string         `json:"message"`
	Retryable  bool           `json:"retryable"`
	Suggestion string         `json:"suggestion,omitempty"`
	Context    map[string]any `json:"context,omitempty"`
}

// Error implements the error interface.
func (e *StructuredError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// MarshalJSON implements custom JSON marshaling.
func (e *StructuredError) MarshalJSON() ([]byte, error) {
	type Alias StructuredError
	return json.Marshal((*Alias)(e))
}

// NewStructuredError creates a StructuredError from an ErrorCode and message.
func NewStructuredError(code ErrorCode, message string) *StructuredError {
	return &StructuredError{
		Code:       code,
		Message:    message,
		Retryable:  code.IsRetryable(),
		Suggestion: code.Suggestion(),
	}
}

// StructuredErrorFromError converts any error to a StructuredError.
func StructuredErrorFromError(err error) *StructuredError {
	if err == nil {
		return nil
	}

	var se *StructuredError
	if errors.As(err, &se) {
		return se
	}

	var cfgErr *ConfigurationError
	if errors.As(err, &cfgErr) {
		se := NewStructuredError(ErrConfiguration, cfgErr.Error())
		if cfgErr.Field != "" {
			se.Context = map[string]any{"field": cfgErr.Field}
		}
		return se
	}

	var apiErr *APIError
	if errors.As(err, &apiErr) {
		code := ErrRejected
		if apiErr.SignOut() {
			code = ErrSignedOut
		}
		se := NewStructuredError(code, apiErr.Error())
		se.Context = map[string]any{
			"method": apiErr.Method.String(),
			"status": apiErr.Status,
		}
		return se
	}

	var tErr *TransportError
	if errors.As(err, &tErr) {
		code := ErrUnreachable
		switch tErr.Code {
		case TransportTimeout:
			code = ErrTimeout
		case TransportBadResponse, TransportHTTPStatus:
			code = ErrBadResponse
		case TransportCanceled, TransportFailed:
			code = ErrUnknown
		}
		se := NewStructuredError(code, tErr.Error())
		if tErr.StatusCode != 0 {
			se.Context = map[string]any{"status_code": tErr.StatusCode}
		}
		return se
	}

	if errors.Is(err, config.ErrNotLoggedIn) {
		return NewStructuredError(ErrNotLoggedIn, err.Error())
	}

	var attErr *formdata.AttachmentUnreadableError
	if errors.As(err, &attErr) {
		se := NewStructuredError(ErrAttachment, attErr.Error())
		se.Context = map[string]any{"path": attErr.Path}
		return se
	}

	return &StructuredError{
		Code:    ErrUnknown,
		Message: err.Error(),
	}
}
