package tokensource

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/oauth2"
)

// DefaultExpirySkew is subtracted from a token's lifetime so that a token about
// to expire is refreshed before a request goes out with it.
const DefaultExpirySkew = 30 * time.Second

// RefreshFunc persists a freshly refreshed token. An error it returns is handed
// back unchanged to whoever triggered the refresh.
type RefreshFunc func(ctx context.Context, tok Token) error

// Refresher exchanges refresh tokens for new access tokens.
type Refresher struct {
	config    *oauth2.Config
	client    *http.Client
	store     *Store
	onRefresh RefreshFunc
	logger    *slog.Logger
	now       func() time.Time
}

// NewRefresher creates a Refresher operating on store. onRefresh may be nil.
func NewRefresher(creds Credentials, store *Store, onRefresh RefreshFunc, opts ...Option) *Refresher {
	o := newOptions(opts)

	return &Refresher{
		config:    creds.oauthConfig(o.endpoint),
		client:    o.client,
		store:     store,
		onRefresh: onRefresh,
		logger:    o.logger,
		now:       o.now,
	}
}

// IsExpired reports whether now + skew has reached the token's expiry.
// A token without a known expiry counts as expired.
func (r *Refresher) IsExpired(tok Token, skew time.Duration) bool {
	if tok.ExpiresAt.IsZero() {
		return true
	}
	return !r.now().Add(skew).Before(tok.ExpiresAt)
}

// Refresh performs the refresh-token grant unconditionally, replaces the stored
// token and then invokes the refresh callback with the new token.
//
// A rejected grant yields *TokenRefreshError and leaves the stored token as it was.
func (r *Refresher) Refresh(ctx context.Context) (Token, error) {
	current, ok := r.store.Token()
	if !ok {
		return Token{}, &TokenRefreshError{grantFailure{Err: ErrNoToken}}
	}
	if !current.CanRefresh() {
		return Token{}, &TokenRefreshError{grantFailure{Err: ErrNoRefreshToken}}
	}

	r.logger.DebugContext(ctx, "refreshing access token", "token_url", r.config.Endpoint.TokenURL)

	issued := r.now()
	src := r.config.TokenSource(
		context.WithValue(ctx, oauth2.HTTPClient, r.client),
		&oauth2.Token{RefreshToken: current.RefreshToken},
	)
	tok, err := src.Token()
	if err != nil {
		return Token{}, &TokenRefreshError{newGrantFailure(err)}
	}

	next := fromOAuth2(tok, issued)
	r.store.Set(next)

	if r.onRefresh == nil {
		return next, nil
	}

	r.logger.DebugContext(ctx, "calling refresh callback")
	if err := r.onRefresh(ctx, next); err != nil {
		return next, err
	}

	return next, nil
}
