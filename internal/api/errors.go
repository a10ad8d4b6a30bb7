package api

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/url"
)

// StatusSignedOut is the envelope status Spot returns when the access token
// is no longer accepted.
const StatusSignedOut = -20

// ConfigurationError reports a request that cannot be built because the
// client is missing configuration.
type ConfigurationError struct {
	Field  string
	Reason string
}

func (e *ConfigurationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("configuration error: %s", e.Reason)
	}
	return fmt.Sprintf("configuration error: %s %s", e.Field, e.Reason)
}

// Transport error codes.
const (
	TransportUnreachable = "unreachable"
	TransportTimeout     = "timeout"
	TransportCanceled    = "canceled"
	TransportHTTPStatus  = "http_status"
	TransportBadResponse = "bad_response"
	TransportFailed      = "failed"
)

// TransportError reports a failed HTTP exchange: no connectivity, DNS
// failure, timeout, a non-2xx response or a body that is not an envelope.
type TransportError struct {
	Code        string
	Description string
	StatusCode  int
	Err         error
}

func (e *TransportError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("transport error (%s): %s: %v", e.Code, e.Description, e.Err)
	}
	return fmt.Sprintf("transport error (%s): %s", e.Code, e.Description)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// APIError is an envelope with a failing status in an otherwise successful
// HTTP exchange.
type APIError struct {
	Method  Method
	Status  int
	Message string
}

func (e *APIError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = "request rejected"
	}
	return fmt.Sprintf("%s failed (status %d): %s", e.Method, e.Status, msg)
}

// SignOut reports whether the error means the access token was rejected.
func (e *APIError) SignOut() bool {
	return e.Status == StatusSignedOut
}

// IsConfigurationError checks if the error is a configuration error.
func IsConfigurationError(err error) bool {
	var e *ConfigurationError
	return errors.As(err, &e)
}

// IsTransportError checks if the error is a transport error.
func IsTransportError(err error) bool {
	var e *TransportError
	return errors.As(err, &e)
}

// IsAPIError checks if the error is an API envelope error.
func IsAPIError(err error) bool {
	var e *APIError
	return errors.As(err, &e)
}

// IsSignOutError checks if the error means the user must sign in again.
func IsSignOutError(err error) bool {
	var e *APIError
	return errors.As(err, &e) && e.SignOut()
}

// newTransportError classifies an error returned by http.Client.Do.
func newTransportError(err error) *TransportError {
	switch {
	case errors.Is(err, context.Canceled):
		return &TransportError{Code: TransportCanceled, Description: "request canceled", Err: err}
	case errors.Is(err, context.DeadlineExceeded):
		return &TransportError{Code: TransportTimeout, Description: "request timed out", Err: err}
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return &TransportError{Code: TransportTimeout, Description: "request timed out", Err: err}
	}

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return &TransportError{Code: TransportUnreachable, Description: "can't find Spot server", Err: err}
	}
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return &TransportError{Code: TransportUnreachable, Description: "can't connect to Spot server", Err: err}
	}

	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return &TransportError{Code: TransportFailed, Description: "request failed", Err: urlErr.Err}
	}
	return &TransportError{Code: TransportFailed, Description: "request failed", Err: err}
}
