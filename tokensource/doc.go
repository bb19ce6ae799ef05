// Package tokensource manages the Hootsuite OAuth2 token lifecycle: obtaining a
// token through the authorization-code grant and renewing it through the
// refresh-token grant.
//
// Hootsuite's OAuth2 implementation needs only a few adjustments:
//   - The token endpoint authenticates clients with HTTP Basic credentials
//   - The "offline" scope must be requested to receive a refresh token
//
// # OAuth2 Authorization Flow
//
// Use Authorizer for the initial flow:
//
//	store := tokensource.NewStore(nil)
//	auth := tokensource.NewAuthorizer(creds, store)
//	authURL, state := auth.AuthCodeURL() // Save state, compare it on redirect
//	// After the user authorizes, Hootsuite redirects with ?code=...&state=...
//	token, err := auth.Exchange(ctx, code)
//
// # Refresh
//
// Use Refresher to renew tokens. The callback receives every new token so the
// host can persist it:
//
//	refresher := tokensource.NewRefresher(creds, store, func(ctx context.Context, tok tokensource.Token) error {
//		return saveToken(ctx, tok)
//	})
//	if refresher.IsExpired(token, tokensource.DefaultExpirySkew) {
//		token, err = refresher.Refresh(ctx)
//	}
package tokensource
