package commands

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/florianilch/hootsweet/internal/app"
)

func meCommand() *cli.Command {
	return &cli.Command{
		Name:  "me",
		Usage: "Show the authenticated member",
		Action: withApp(func(ctx context.Context, cmd *cli.Command, a *app.App) error {
			resp, err := a.Client().GetMe(ctx)
			if err != nil {
				return err
			}
			return printJSON(cmd, resp)
		}),
	}
}

func profilesCommand() *cli.Command {
	return &cli.Command{
		Name:  "profiles",
		Usage: "Inspect social profiles",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List the social profiles the member can access",
				Action: withApp(func(ctx context.Context, cmd *cli.Command, a *app.App) error {
					resp, err := a.Client().GetSocialProfiles(ctx)
					if err != nil {
						return err
					}
					return printJSON(cmd, resp)
				}),
			},
			{
				Name:      "get",
				Usage:     "Show a social profile",
				ArgsUsage: "<profile-id>",
				Action: withApp(func(ctx context.Context, cmd *cli.Command, a *app.App) error {
					id, err := requireArg(cmd, "profile-id")
					if err != nil {
						return err
					}
					resp, err := a.Client().GetSocialProfile(ctx, id)
					if err != nil {
						return err
					}
					return printJSON(cmd, resp)
				}),
			},
		},
	}
}
