package tokensource

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"golang.org/x/oauth2"
)

const (
	// BaseURL is the Hootsuite platform root serving both OAuth2 and API endpoints.
	BaseURL = "https://platform.hootsuite.com"

	// DefaultScope is requested when Credentials.Scopes is empty.
	DefaultScope = "offline"
)

// Endpoint is the Hootsuite OAuth2 endpoint. Clients authenticate to the token
// endpoint with HTTP Basic credentials.
var Endpoint = NewEndpoint(BaseURL)

// NewEndpoint returns the OAuth2 endpoint rooted at baseURL.
func NewEndpoint(baseURL string) oauth2.Endpoint {
	baseURL = strings.TrimSuffix(baseURL, "/")
	return oauth2.Endpoint{
		AuthURL:   baseURL + "/oauth2/auth",
		TokenURL:  baseURL + "/oauth2/token",
		AuthStyle: oauth2.AuthStyleInHeader,
	}
}

// Credentials identifies the registered Hootsuite application.
type Credentials struct {
	ClientID     string
	ClientSecret string
	RedirectURI  string
	Scopes       []string
}

func (c Credentials) oauthConfig(endpoint oauth2.Endpoint) *oauth2.Config {
	scopes := c.Scopes
	if len(scopes) == 0 {
		scopes = []string{DefaultScope}
	}

	return &oauth2.Config{
		ClientID:     c.ClientID,
		ClientSecret: c.ClientSecret,
		RedirectURL:  c.RedirectURI,
		Scopes:       scopes,
		Endpoint:     endpoint,
	}
}

type options struct {
	endpoint oauth2.Endpoint
	client   *http.Client
	logger   *slog.Logger
	now      func() time.Time
}

func newOptions(opts []Option) options {
	o := options{
		endpoint: Endpoint,
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger: slog.Default(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Option configures an Authorizer or Refresher.
type Option func(*options)

// WithEndpoint overrides the OAuth2 endpoint.
func WithEndpoint(endpoint oauth2.Endpoint) Option {
	return func(o *options) {
		o.endpoint = endpoint
	}
}

// WithHTTPClient sets the HTTP client used for token endpoint requests.
func WithHTTPClient(client *http.Client) Option {
	return func(o *options) {
		if client != nil {
			o.client = client
		}
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

// WithClock overrides the time source used for expiry decisions.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		if now != nil {
			o.now = now
		}
	}
}
