package tokensource

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"golang.org/x/oauth2"
)

// Authorizer handles the OAuth2 authorization-code flow for Hootsuite.
type Authorizer struct {
	config *oauth2.Config
	client *http.Client
	store  *Store
	logger *slog.Logger
	now    func() time.Time

	mu    sync.Mutex
	state string
}

// NewAuthorizer creates a Hootsuite OAuth authorizer that writes exchanged tokens to store.
func NewAuthorizer(creds Credentials, store *Store, opts ...Option) *Authorizer {
	o := newOptions(opts)

	return &Authorizer{
		config: creds.oauthConfig(o.endpoint),
		client: o.client,
		store:  store,
		logger: o.logger,
		now:    o.now,
	}
}

// AuthCodeURL generates the authorization URL together with a fresh random state.
// Caller must persist state and compare it with the value echoed on the redirect;
// Exchange does not check it.
func (a *Authorizer) AuthCodeURL(opts ...oauth2.AuthCodeOption) (authURL string, state string) {
	state = oauth2.GenerateVerifier()
	return a.AuthCodeURLWithState(state, opts...), state
}

// AuthCodeURLWithState generates the authorization URL for a caller-chosen state.
func (a *Authorizer) AuthCodeURLWithState(state string, opts ...oauth2.AuthCodeOption) string {
	a.mu.Lock()
	a.state = state
	a.mu.Unlock()

	return a.config.AuthCodeURL(state, opts...)
}

// PendingState returns the state embedded in the most recent authorization URL.
func (a *Authorizer) PendingState() string {
	a.mu.Lock()
	defer a.mu.Unlock()

	return a.state
}

// Exchange completes the OAuth2 flow by exchanging an authorization code for a token.
// On success the token replaces the one in the store; on failure the store is
// untouched. Every failure, including a done ctx, is an *AuthExchangeError.
func (a *Authorizer) Exchange(ctx context.Context, code string) (Token, error) {
	if err := ctx.Err(); err != nil {
		return Token{}, &AuthExchangeError{grantFailure{Err: err}}
	}

	if code == "" {
		return Token{}, &AuthExchangeError{grantFailure{Err: errors.New("authorization code cannot be empty")}}
	}

	a.logger.DebugContext(ctx, "exchanging authorization code", "token_url", a.config.Endpoint.TokenURL)

	issued := a.now()
	tok, err := a.config.Exchange(context.WithValue(ctx, oauth2.HTTPClient, a.client), code)
	if err != nil {
		return Token{}, &AuthExchangeError{newGrantFailure(err)}
	}

	token := fromOAuth2(tok, issued)
	a.store.Set(token)

	a.mu.Lock()
	a.state = ""
	a.mu.Unlock()

	return token, nil
}
