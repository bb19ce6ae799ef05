package hootsweet

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/florianilch/hootsweet/tokensource"
)

// Token endpoint failures are defined by the tokensource package.
type (
	// AuthExchangeError is returned when the authorization-code exchange fails.
	AuthExchangeError = tokensource.AuthExchangeError
	// TokenRefreshError is returned when the refresh-token grant is rejected.
	// The client does not retry; restart the authorization-code flow.
	TokenRefreshError = tokensource.TokenRefreshError
)

// Status classes for APIError, matched with errors.Is.
var (
	ErrStatusBadRequest      = errors.New("bad request")
	ErrStatusUnauthorized    = errors.New("unauthorized")
	ErrStatusForbidden       = errors.New("forbidden")
	ErrStatusNotFound        = errors.New("not found")
	ErrStatusTooManyRequests = errors.New("too many requests")
	ErrStatusServerError     = errors.New("server error")
)

// UnauthorizedError is returned when a request is attempted without a token.
type UnauthorizedError struct{}

func (e *UnauthorizedError) Error() string {
	return "no token set: complete the authorization flow or provide a token"
}

func (e *UnauthorizedError) Unwrap() error {
	return tokensource.ErrNoToken
}

// NetworkError is returned when the request could not be completed at the
// transport level (DNS, connection, timeout). It is not retried.
type NetworkError struct {
	Method string
	URL    string
	Err    error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Method, e.URL, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// ErrorDetail is one entry of the "errors" array Hootsuite returns with a failed request.
type ErrorDetail struct {
	Code     int            `json:"code"`
	Message  string         `json:"message"`
	ID       string         `json:"id,omitempty"`
	Resource *ErrorResource `json:"resource,omitempty"`
}

// ErrorResource identifies the resource an ErrorDetail refers to.
type ErrorResource struct {
	Type string `json:"type"`
	ID   string `json:"id"`
}

// APIError is returned when Hootsuite responds with a status of 400 or above.
type APIError struct {
	StatusCode int
	// Body is the response body exactly as received.
	Body []byte
	// Details is parsed from Body when it carries Hootsuite's error envelope.
	Details []ErrorDetail
}

func newAPIError(status int, body []byte) *APIError {
	e := &APIError{StatusCode: status, Body: body}

	var envelope struct {
		Errors []ErrorDetail `json:"errors"`
	}
	if json.Unmarshal(body, &envelope) == nil {
		e.Details = envelope.Errors
	}

	return e
}

func (e *APIError) Error() string {
	if len(e.Details) > 0 {
		return fmt.Sprintf("hootsuite api: status %d: %d - %s", e.StatusCode, e.Details[0].Code, e.Details[0].Message)
	}
	if body := strings.TrimSpace(string(e.Body)); body != "" {
		return fmt.Sprintf("hootsuite api: status %d: %s", e.StatusCode, body)
	}
	return fmt.Sprintf("hootsuite api: status %d", e.StatusCode)
}

// Is matches the status class sentinels. Unclassified 4xx statuses count as bad requests.
func (e *APIError) Is(target error) bool {
	switch target {
	case ErrStatusUnauthorized:
		return e.StatusCode == http.StatusUnauthorized
	case ErrStatusForbidden:
		return e.StatusCode == http.StatusForbidden
	case ErrStatusNotFound:
		return e.StatusCode == http.StatusNotFound
	case ErrStatusTooManyRequests:
		return e.StatusCode == http.StatusTooManyRequests
	case ErrStatusServerError:
		return e.StatusCode >= http.StatusInternalServerError
	case ErrStatusBadRequest:
		switch e.StatusCode {
		case http.StatusUnauthorized, http.StatusForbidden, http.StatusNotFound, http.StatusTooManyRequests:
			return false
		}
		return e.StatusCode >= http.StatusBadRequest && e.StatusCode < http.StatusInternalServerError
	}
	return false
}

// ResponseFormatError is returned when a successful response does not carry
// the JSON body the endpoint is expected to return.
type ResponseFormatError struct {
	StatusCode int
	Body       []byte
	Err        error
}

func (e *ResponseFormatError) Error() string {
	return fmt.Sprintf("unexpected response (status %d): %v", e.StatusCode, e.Err)
}

func (e *ResponseFormatError) Unwrap() error {
	return e.Err
}
