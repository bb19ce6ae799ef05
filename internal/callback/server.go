// Package callback captures the OAuth2 redirect of the Hootsuite
// authorization-code flow on a local HTTP server.
package callback

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/florianilch/hootsweet/internal/observability/middleware"
)

// ErrStateMismatch is returned when the redirect carries a state other than
// the one embedded in the authorization URL.
var ErrStateMismatch = errors.New("oauth state mismatch")

// AuthorizationError is returned when Hootsuite redirects back with an error
// instead of an authorization code, e.g. because the user denied access.
type AuthorizationError struct {
	Code        string
	Description string
}

func (e *AuthorizationError) Error() string {
	if e.Description == "" {
		return fmt.Sprintf("authorization denied: %s", e.Code)
	}
	return fmt.Sprintf("authorization denied: %s: %s", e.Code, e.Description)
}

// ExchangeFunc redeems the authorization code received on the redirect.
type ExchangeFunc func(ctx context.Context, code string) error

// Server serves the redirect URI of a single login attempt.
type Server struct {
	addr     string
	state    string
	exchange ExchangeFunc

	server *http.Server
	ln     net.Listener

	once sync.Once
	done chan error
}

// New creates a server listening on the host and port of redirectURI. Only
// requests to the redirect path carrying state are accepted.
func New(redirectURI, state string, exchange ExchangeFunc, logger *slog.Logger) (*Server, error) {
	u, err := url.Parse(redirectURI)
	if err != nil {
		return nil, fmt.Errorf("invalid redirect uri: %w", err)
	}
	if u.Scheme != "http" {
		return nil, fmt.Errorf("redirect uri %q must use http to be served locally", redirectURI)
	}
	if u.Port() == "" {
		return nil, fmt.Errorf("redirect uri %q must include a port", redirectURI)
	}
	if state == "" {
		return nil, errors.New("state cannot be empty")
	}
	if logger == nil {
		logger = slog.Default()
	}

	s := &Server{
		addr:     u.Host,
		state:    state,
		exchange: exchange,
		done:     make(chan error, 1),
	}

	pattern := "GET " + u.Path
	if u.Path == "" || u.Path == "/" {
		pattern = "GET /{$}"
	}
	mux := http.NewServeMux()
	mux.HandleFunc(pattern, s.handleRedirect)

	s.server = &http.Server{
		Handler: applyMiddlewares(mux,
			middleware.RequestIDGeneration,
			middleware.Logging(logger, "code", "state"),
			middleware.RequestIDPropagation,
			middleware.TraceContextExtraction,
			Recovery,
			NoStore,
		),
		ReadHeaderTimeout: 10 * time.Second,
	}

	return s, nil
}

// Start binds the listener and serves in the background. The returned channel
// reports serve errors; it is closed when the server stops.
func (s *Server) Start(ctx context.Context) (<-chan error, error) {
	var lc net.ListenConfig
	ln, err := lc.Listen(ctx, "tcp", s.addr)
	if err != nil {
		return nil, fmt.Errorf("failed to listen on %s: %w", s.addr, err)
	}
	s.ln = ln

	errCh := make(chan error, 1)
	go func() {
		defer close(errCh)
		if err := s.server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	slog.InfoContext(ctx, "waiting for authorization redirect", "addr", ln.Addr().String())
	return errCh, nil
}

// Addr returns the listening address once started.
func (s *Server) Addr() string {
	if s.ln == nil {
		return s.addr
	}
	return s.ln.Addr().String()
}

// Done delivers the outcome of the first redirect: nil once the code was
// exchanged, otherwise the reason the login failed.
func (s *Server) Done() <-chan error {
	return s.done
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

func (s *Server) finish(err error) {
	s.once.Do(func() {
		s.done <- err
	})
}

func (s *Server) handleRedirect(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	query := r.URL.Query()

	if query.Get("state") != s.state {
		middleware.SetLogAttrs(ctx, slog.String("oauth_error", "state_mismatch"))
		writeHTML(ctx, w, failurePage, failure{
			Error:       "state_mismatch",
			Description: "The 'state' parameter does not belong to this login attempt.",
			Hint:        "Start the login again.",
		}, http.StatusBadRequest)
		s.finish(ErrStateMismatch)
		return
	}

	if code := query.Get("error"); code != "" {
		middleware.SetLogAttrs(ctx, slog.String("oauth_error", code))
		writeHTML(ctx, w, failurePage, failure{
			Error:       code,
			Description: query.Get("error_description"),
			Hint:        query.Get("error_hint"),
		}, http.StatusOK)
		s.finish(&AuthorizationError{Code: code, Description: query.Get("error_description")})
		return
	}

	code := query.Get("code")
	if code == "" {
		writeHTML(ctx, w, failurePage, failure{
			Error:       "invalid_request",
			Description: "The redirect carries neither a code nor an error.",
			Hint:        "Start the login again.",
		}, http.StatusBadRequest)
		s.finish(errors.New("redirect carries no authorization code"))
		return
	}

	if err := s.exchange(ctx, code); err != nil {
		slog.ErrorContext(ctx, "authorization code exchange failed", "error", err)
		writeHTML(ctx, w, failurePage, exchangeFailure(err), http.StatusOK)
		s.finish(err)
		return
	}

	writeHTML(ctx, w, successPage, nil, http.StatusOK)
	s.finish(nil)
}
