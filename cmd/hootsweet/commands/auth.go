package commands

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"
	"golang.org/x/term"

	"github.com/florianilch/hootsweet/internal/app"
	"github.com/florianilch/hootsweet/internal/tokenstorage"
)

// authCommand returns the 'auth' subcommand for managing Hootsuite authentication.
func authCommand() *cli.Command {
	return &cli.Command{
		Name:  "auth",
		Usage: "Manage Hootsuite authentication",
		Commands: []*cli.Command{
			authLoginCommand(),
			authLogoutCommand(),
			authTokenCommand(),
			authRefreshCommand(),
		},
	}
}

// authLoginCommand returns the 'auth login' subcommand.
func authLoginCommand() *cli.Command {
	return &cli.Command{
		Name:  "login",
		Usage: "Login to Hootsuite and save the token",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "manual",
				Usage: "paste the authorization code instead of capturing the redirect",
			},
		},
		Action: withApp(authLoginAction),
	}
}

// authLogoutCommand returns the 'auth logout' subcommand.
func authLogoutCommand() *cli.Command {
	return &cli.Command{
		Name:   "logout",
		Usage:  "Clear the stored Hootsuite token",
		Action: withApp(authLogoutAction),
	}
}

// authTokenCommand returns the 'auth token' subcommand.
func authTokenCommand() *cli.Command {
	return &cli.Command{
		Name:   "token",
		Usage:  "Print the stored token",
		Action: withApp(authTokenAction),
	}
}

// authRefreshCommand returns the 'auth refresh' subcommand.
func authRefreshCommand() *cli.Command {
	return &cli.Command{
		Name:   "refresh",
		Usage:  "Refresh the stored token now",
		Action: withApp(authRefreshAction),
	}
}

// authLoginAction implements the OAuth login flow for Hootsuite.
func authLoginAction(ctx context.Context, cmd *cli.Command, a *app.App) error {
	if _, ok := a.Store().(*tokenstorage.EnvStore); ok {
		return fmt.Errorf("cannot login with env storage (read-only). Configure file or keyring storage")
	}

	out := cmd.Root().Writer
	fmt.Fprintln(out, "=== Hootsuite OAuth Login ===")
	fmt.Fprintln(out)

	var err error
	if cmd.Bool("manual") {
		err = loginManually(ctx, cmd, a)
	} else {
		_, err = a.Login(ctx, func(ctx context.Context, authURL string) error {
			fmt.Fprintf(out, "1. Visit this URL in your browser:\n   %s\n\n", authURL)
			fmt.Fprintln(out, "2. Authorize the application")
			fmt.Fprintln(out, "3. Wait for the redirect to complete")
			return nil
		})
	}
	if err != nil {
		return fmt.Errorf("oauth login failed: %w", err)
	}

	me, err := a.Client().GetMe(ctx)
	if err != nil {
		return fmt.Errorf("token stored but the API rejected it: %w", err)
	}

	fmt.Fprintln(out)
	fmt.Fprintln(out, "=== Login Successful ===")
	fmt.Fprintln(out, "Token saved to configured storage")
	if member, ok := me.Data().(map[string]any); ok {
		fmt.Fprintf(out, "You can access the Hootsuite API as %v\n", member["fullName"])
	}

	return nil
}

// loginManually prints the authorization URL and reads the code from the terminal.
func loginManually(ctx context.Context, cmd *cli.Command, a *app.App) error {
	out := cmd.Root().Writer
	fmt.Fprintf(out, "1. Visit this URL in your browser:\n   %s\n\n", a.AuthorizationURL())
	fmt.Fprintln(out, "2. Authorize the application")
	fmt.Fprintln(out, "3. Paste the 'code' parameter of the page you are redirected to")

	code, err := readSecureInput(ctx, "\nEnter authorization code: ")
	if err != nil {
		return err
	}

	_, err = a.LoginWithCode(ctx, code)
	return err
}

// authLogoutAction implements the logout flow for Hootsuite.
func authLogoutAction(ctx context.Context, cmd *cli.Command, a *app.App) error {
	if err := a.Store().Clear(ctx); err != nil {
		if errors.Is(err, tokenstorage.ErrReadOnly) {
			return fmt.Errorf("cannot logout with env storage (read-only). Configure file or keyring storage")
		}
		return fmt.Errorf("failed to clear token: %w", err)
	}

	out := cmd.Root().Writer
	fmt.Fprintln(out)
	fmt.Fprintln(out, "=== Logout Successful ===")
	fmt.Fprintln(out, "Credentials cleared from configured storage")

	return nil
}

// authTokenAction prints the stored token.
func authTokenAction(ctx context.Context, cmd *cli.Command, a *app.App) error {
	tok, err := a.Store().Read(ctx)
	if err != nil {
		return fmt.Errorf("failed to read token: %w", err)
	}
	return printJSON(cmd, tok)
}

// authRefreshAction refreshes the token; the client persists it through the store.
func authRefreshAction(ctx context.Context, cmd *cli.Command, a *app.App) error {
	tok, err := a.Client().RefreshToken(ctx)
	if err != nil {
		return fmt.Errorf("failed to refresh token: %w", err)
	}
	return printJSON(cmd, tok)
}

// readSecureInput reads user input with hidden display and context cancellation support.
// Goroutine+select pattern required because term.ReadPassword has no native context support.
func readSecureInput(ctx context.Context, prompt string) (string, error) {
	fmt.Print(prompt)
	defer fmt.Println()

	type result struct {
		value string
		err   error
	}
	resultCh := make(chan result, 1)

	go func() {
		inputBytes, err := term.ReadPassword(int(os.Stdin.Fd()))
		resultCh <- result{value: string(inputBytes), err: err}
	}()

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case res := <-resultCh:
		if res.err != nil {
			return "", fmt.Errorf("failed to read input: %w", res.err)
		}
		return res.value, nil
	}
}
