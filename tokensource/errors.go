package tokensource

import (
	"errors"
	"fmt"

	"golang.org/x/oauth2"
)

// ErrNoToken is returned when an operation needs a token and none is set.
var ErrNoToken = errors.New("no token set")

// ErrNoRefreshToken is returned when the current token cannot be refreshed.
var ErrNoRefreshToken = errors.New("token has no refresh token")

// grantFailure carries the provider's rejection details of a token endpoint call.
type grantFailure struct {
	// StatusCode is the HTTP status of the token endpoint, 0 when no response was received.
	StatusCode int
	// ErrorCode is the RFC 6749 error code, e.g. "invalid_grant".
	ErrorCode string
	// Body is the raw token endpoint response body.
	Body []byte
	Err  error
}

func newGrantFailure(err error) grantFailure {
	f := grantFailure{Err: err}

	var retrieveErr *oauth2.RetrieveError
	if errors.As(err, &retrieveErr) {
		f.ErrorCode = retrieveErr.ErrorCode
		f.Body = retrieveErr.Body
		if retrieveErr.Response != nil {
			f.StatusCode = retrieveErr.Response.StatusCode
		}
	}

	return f
}

func (f grantFailure) describe(op string) string {
	switch {
	case f.ErrorCode != "":
		return fmt.Sprintf("%s failed with status %d: %s", op, f.StatusCode, f.ErrorCode)
	case f.StatusCode != 0:
		return fmt.Sprintf("%s failed with status %d", op, f.StatusCode)
	default:
		return fmt.Sprintf("%s failed: %v", op, f.Err)
	}
}

// AuthExchangeError is returned when the authorization-code exchange fails,
// either because the provider rejected it or because the token payload was malformed.
type AuthExchangeError struct {
	grantFailure
}

func (e *AuthExchangeError) Error() string {
	return e.describe("authorization code exchange")
}

func (e *AuthExchangeError) Unwrap() error {
	return e.Err
}

// TokenRefreshError is returned when the refresh-token grant is rejected. It is
// never retried; callers should restart the authorization-code flow.
type TokenRefreshError struct {
	grantFailure
}

func (e *TokenRefreshError) Error() string {
	return e.describe("token refresh")
}

func (e *TokenRefreshError) Unwrap() error {
	return e.Err
}
