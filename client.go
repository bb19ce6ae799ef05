package hootsweet

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"golang.org/x/oauth2"

	"github.com/florianilch/hootsweet/tokensource"
)

// APIVersion is the versioned root all resource paths are resolved against.
const APIVersion = "v1"

// Config holds the construction parameters of a Client.
type Config struct {
	ClientID     string `validate:"required"`
	ClientSecret string `validate:"required"`
	// RedirectURI is required for the authorization-code flow only.
	RedirectURI string `validate:"omitempty,url"`
	// Scopes defaults to "offline", which makes Hootsuite issue refresh tokens.
	Scopes []string

	// Token seeds the client with a previously persisted token, skipping the
	// authorization-code flow.
	Token *tokensource.Token
	// OnRefresh is called with every refreshed token, before the request that
	// triggered the refresh is sent.
	OnRefresh tokensource.RefreshFunc
}

// Client is a Hootsuite REST API client.
//
// Every API call goes through Request, which refreshes an expired token before
// dispatching. A Client may be shared between goroutines; concurrent callers
// that observe the same expired token may each refresh it, and the last
// refreshed token wins.
type Client struct {
	apiURL     string
	httpClient *http.Client
	skew       time.Duration
	logger     *slog.Logger

	store      *tokensource.Store
	authorizer *tokensource.Authorizer
	refresher  *tokensource.Refresher
}

type options struct {
	baseURL    string
	httpClient *http.Client
	skew       time.Duration
	logger     *slog.Logger
	now        func() time.Time
}

// Option configures a Client.
type Option func(*options)

// WithBaseURL points the client at a different platform root; both the OAuth2
// endpoints and the API root are derived from it.
func WithBaseURL(baseURL string) Option {
	return func(o *options) {
		o.baseURL = strings.TrimSuffix(baseURL, "/")
	}
}

// WithHTTPClient sets the HTTP client used for token and API requests.
// Timeouts, proxies and connection pooling are configured on it.
func WithHTTPClient(client *http.Client) Option {
	return func(o *options) {
		if client != nil {
			o.httpClient = client
		}
	}
}

// WithExpirySkew sets how long before its expiry a token is already treated as expired.
func WithExpirySkew(skew time.Duration) Option {
	return func(o *options) {
		o.skew = skew
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithClock overrides the time source used for expiry checks.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		if now != nil {
			o.now = now
		}
	}
}

// New creates a Client.
func New(cfg Config, opts ...Option) (*Client, error) {
	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid client config: %w", err)
	}

	o := options{
		baseURL: tokensource.BaseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		skew:   tokensource.DefaultExpirySkew,
		logger: slog.Default(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(&o)
	}

	creds := tokensource.Credentials{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		RedirectURI:  cfg.RedirectURI,
		Scopes:       cfg.Scopes,
	}
	tsOpts := []tokensource.Option{
		tokensource.WithEndpoint(tokensource.NewEndpoint(o.baseURL)),
		tokensource.WithHTTPClient(o.httpClient),
		tokensource.WithLogger(o.logger),
		tokensource.WithClock(o.now),
	}
	store := tokensource.NewStore(cfg.Token)

	return &Client{
		apiURL:     o.baseURL + "/" + APIVersion,
		httpClient: o.httpClient,
		skew:       o.skew,
		logger:     o.logger,
		store:      store,
		authorizer: tokensource.NewAuthorizer(creds, store, tsOpts...),
		refresher:  tokensource.NewRefresher(creds, store, cfg.OnRefresh, tsOpts...),
	}, nil
}

// AuthorizationURL returns the Hootsuite authorization URL and the state
// embedded in it. No network call is made.
func (c *Client) AuthorizationURL(opts ...oauth2.AuthCodeOption) (authURL string, state string) {
	return c.authorizer.AuthCodeURL(opts...)
}

// FetchToken exchanges an authorization code for a token and makes it the
// client's current token.
func (c *Client) FetchToken(ctx context.Context, code string) (tokensource.Token, error) {
	return c.authorizer.Exchange(ctx, code)
}

// RefreshToken unconditionally refreshes the current token and invokes the
// refresh callback.
func (c *Client) RefreshToken(ctx context.Context) (tokensource.Token, error) {
	return c.refresher.Refresh(ctx)
}

// Token returns a copy of the current token.
func (c *Client) Token() (tokensource.Token, bool) {
	return c.store.Token()
}

// IsExpired reports whether tok is expired or expires within the configured skew.
func (c *Client) IsExpired(tok tokensource.Token) bool {
	return c.refresher.IsExpired(tok, c.skew)
}
