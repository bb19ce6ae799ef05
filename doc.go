// Package hootsweet is a client for the Hootsuite REST API v1.
//
// A Client owns one OAuth2 token. It is created either from a persisted token or
// empty, in which case the authorization-code flow provides the first token:
//
//	client, err := hootsweet.New(hootsweet.Config{
//		ClientID:     clientID,
//		ClientSecret: clientSecret,
//		RedirectURI:  "http://localhost:8000/",
//	})
//	authURL, state := client.AuthorizationURL() // Save state, compare it on redirect
//	// After the user authorizes, Hootsuite redirects with ?code=...&state=...
//	token, err := client.FetchToken(ctx, code)
//
// # Token Refresh
//
// Every call checks the token expiry first and refreshes an expired token with
// the refresh-token grant. Config.OnRefresh receives each new token so it can
// be persisted; its error aborts the call that triggered the refresh:
//
//	client, err := hootsweet.New(hootsweet.Config{
//		ClientID:     clientID,
//		ClientSecret: clientSecret,
//		Token:        &saved,
//		OnRefresh: func(ctx context.Context, tok tokensource.Token) error {
//			return store.Write(ctx, tok)
//		},
//	})
//
// # Errors
//
// Every failure is returned to the caller and nothing is retried:
//   - *UnauthorizedError: no token set
//   - *AuthExchangeError: the authorization code was rejected
//   - *TokenRefreshError: the refresh token was rejected; authorize again
//   - *NetworkError: the request did not complete; safe to retry
//   - *APIError: Hootsuite answered with status >= 400; body kept verbatim
//   - *ResponseFormatError: a success response without the expected JSON body
//
// APIError matches ErrStatusNotFound, ErrStatusTooManyRequests and the other
// status classes with errors.Is.
package hootsweet
