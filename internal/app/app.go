// Package app wires configuration, token persistence and the Hootsuite client
// together for the command-line interface.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/florianilch/hootsweet"
	"github.com/florianilch/hootsweet/internal/callback"
	"github.com/florianilch/hootsweet/internal/tokenstorage"
	"github.com/florianilch/hootsweet/tokensource"
)

// shutdownTimeout bounds how long the redirect server may take to stop.
const shutdownTimeout = 5 * time.Second

// App holds the client and the token store it persists refreshed tokens to.
type App struct {
	cfg    *Config
	store  tokenstorage.Store
	client *hootsweet.Client
}

// New creates an App. A previously stored token seeds the client; every token
// the client refreshes is written back to the store.
func New(ctx context.Context, cfg *Config) (*App, error) {
	store, err := cfg.Auth.NewTokenStore()
	if err != nil {
		return nil, fmt.Errorf("failed to create token store: %w", err)
	}

	var seed *tokensource.Token
	tok, err := store.Read(ctx)
	switch {
	case err == nil:
		seed = &tok
	case errors.Is(err, tokenstorage.ErrNotFound):
		slog.DebugContext(ctx, "no stored token", "storage", cfg.Auth.Storage)
	default:
		return nil, fmt.Errorf("failed to read token: %w", err)
	}

	client, err := hootsweet.New(hootsweet.Config{
		ClientID:     cfg.Client.ID,
		ClientSecret: cfg.Client.Secret,
		RedirectURI:  cfg.Client.RedirectURI,
		Scopes:       cfg.Client.Scopes,
		Token:        seed,
		OnRefresh:    store.Write,
	},
		hootsweet.WithBaseURL(cfg.Client.BaseURL),
		hootsweet.WithHTTPClient(&http.Client{Timeout: cfg.Client.Timeout}),
		hootsweet.WithExpirySkew(cfg.Client.ExpirySkew),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create client: %w", err)
	}

	return &App{
		cfg:    cfg,
		store:  store,
		client: client,
	}, nil
}

// Client returns the Hootsuite client.
func (a *App) Client() *hootsweet.Client {
	return a.client
}

// Store returns the token store.
func (a *App) Store() tokenstorage.Store {
	return a.store
}

// AuthorizationURL starts a login that is completed with LoginWithCode.
func (a *App) AuthorizationURL() string {
	authURL, _ := a.client.AuthorizationURL()
	return authURL
}

// LoginWithCode exchanges a code copied from the redirect by hand and stores the token.
func (a *App) LoginWithCode(ctx context.Context, code string) (tokensource.Token, error) {
	tok, err := a.client.FetchToken(ctx, code)
	if err != nil {
		return tokensource.Token{}, err
	}
	if err := a.store.Write(ctx, tok); err != nil {
		return tokensource.Token{}, fmt.Errorf("failed to write token: %w", err)
	}
	return tok, nil
}

// Login runs the authorization-code flow: it serves the redirect URI locally,
// hands the authorization URL to open and blocks until the redirect arrives,
// the server fails or ctx is cancelled.
func (a *App) Login(ctx context.Context, open func(ctx context.Context, authURL string) error) (tokensource.Token, error) {
	authURL, state := a.client.AuthorizationURL()

	var token tokensource.Token
	exchange := func(ctx context.Context, code string) error {
		tok, err := a.LoginWithCode(ctx, code)
		if err != nil {
			return err
		}
		token = tok
		return nil
	}

	server, err := callback.New(a.cfg.Client.RedirectURI, state, exchange, slog.Default())
	if err != nil {
		return tokensource.Token{}, fmt.Errorf("failed to create redirect server: %w", err)
	}

	g, gCtx := errgroup.WithContext(ctx)

	var shutdownFuncs []func(context.Context) error

	serverErrCh, err := server.Start(gCtx)
	if err != nil {
		return tokensource.Token{}, fmt.Errorf("redirect server startup failed: %w", err)
	}
	shutdownFuncs = append(shutdownFuncs, server.Shutdown)

	// Monitor the redirect outcome - errgroup cancels context on first error
	g.Go(func() error {
		select {
		case err := <-serverErrCh:
			if err != nil {
				slog.ErrorContext(gCtx, "redirect server runtime error", "error", err)
				return fmt.Errorf("redirect server: %w", err)
			}
			return errors.New("redirect server stopped unexpectedly")
		case err := <-server.Done():
			return err
		case <-gCtx.Done():
			return gCtx.Err()
		}
	})

	g.Go(func() error {
		return open(gCtx, authURL)
	})

	loginErr := g.Wait()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	var errs []error
	if loginErr != nil {
		errs = append(errs, loginErr)
	}

	for i := len(shutdownFuncs) - 1; i >= 0; i-- {
		if err := shutdownFuncs[i](shutdownCtx); err != nil {
			slog.ErrorContext(shutdownCtx, "redirect server shutdown failed", "error", err)
			errs = append(errs, err)
		}
	}

	if len(errs) > 0 {
		return tokensource.Token{}, errors.Join(errs...)
	}

	return token, nil
}
