package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/florianilch/hootsweet/internal/app"
	"github.com/florianilch/hootsweet/internal/observability"
)

// Execute runs the root command with the given context and arguments.
func Execute(ctx context.Context, args []string, version, commit string) error {
	return newRootCommand(version, commit).Run(ctx, args)
}

func newRootCommand(version, commit string) *cli.Command {
	return &cli.Command{
		Name:    "hootsweet",
		Usage:   "Hootsuite REST API client",
		Version: fmt.Sprintf("%s (%s)", version, commit),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "config",
				Usage: "path to the TOML config file",
				Value: app.DefaultConfigPath(),
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "log level (debug|info|warn|error)",
				Value: "info",
			},
			&cli.StringFlag{
				Name:  "log-format",
				Usage: "log format (text|json)",
				Value: "text",
			},
		},
		Commands: []*cli.Command{
			authCommand(),
			meCommand(),
			profilesCommand(),
			messagesCommand(),
			mediaCommand(),
		},
	}
}

// appAction is an action that needs a configured App.
type appAction func(ctx context.Context, cmd *cli.Command, a *app.App) error

// withApp loads the config, sets up observability and creates the App before
// running fn.
func withApp(fn appAction) cli.ActionFunc {
	return func(ctx context.Context, cmd *cli.Command) (err error) {
		cfg, err := loadConfig(cmd, os.Environ)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		level, err := observability.ParseLevel(cfg.Log.Level)
		if err != nil {
			return err
		}

		// Set up observability before creating app
		shutdown, err := observability.Instrument(ctx, observability.Options{
			Level:    level,
			Format:   cfg.Log.Format,
			Exporter: cfg.Log.Exporter,
			Endpoint: cfg.Log.Endpoint,
			Output:   os.Stderr,
		})
		if err != nil {
			return fmt.Errorf("failed to set up observability layer: %w", err)
		}
		defer func() {
			if shutdownErr := shutdown(context.WithoutCancel(ctx)); shutdownErr != nil && err == nil {
				err = fmt.Errorf("failed to flush logs: %w", shutdownErr)
			}
		}()

		application, err := app.New(ctx, cfg)
		if err != nil {
			return fmt.Errorf("failed to create app: %w", err)
		}

		return fn(ctx, cmd, application)
	}
}

// loadConfig loads the config file named by --config, layering explicitly
// set global flags on top.
func loadConfig(cmd *cli.Command, environ func() []string) (*app.Config, error) {
	overrides := map[string]any{}
	if cmd.IsSet("log-level") {
		overrides["log.level"] = strings.ToLower(cmd.String("log-level"))
	}
	if cmd.IsSet("log-format") {
		overrides["log.format"] = cmd.String("log-format")
	}

	path := cmd.String("config")
	if !cmd.IsSet("config") {
		// The default path is optional.
		path = ""
	}

	return app.LoadConfig(path, overrides, environ)
}

// printJSON writes v as indented JSON to the command's output.
func printJSON(cmd *cli.Command, v any) error {
	enc := json.NewEncoder(cmd.Root().Writer)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// requireArg returns the first positional argument or an error naming it.
func requireArg(cmd *cli.Command, name string) (string, error) {
	arg := cmd.Args().First()
	if arg == "" {
		return "", fmt.Errorf("missing argument <%s>", name)
	}
	return arg, nil
}
