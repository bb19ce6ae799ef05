package commands

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/florianilch/hootsweet"
	"github.com/florianilch/hootsweet/internal/app"
)

func mediaCommand() *cli.Command {
	return &cli.Command{
		Name:  "media",
		Usage: "Upload media for messages",
		Commands: []*cli.Command{
			{
				Name:  "upload-url",
				Usage: "Create an upload URL for a media file",
				Flags: []cli.Flag{
					&cli.Int64Flag{Name: "size", Usage: "file size in bytes", Required: true},
					&cli.StringFlag{Name: "mime-type", Usage: "video/mp4, image/gif, image/jpeg or image/png", Required: true},
				},
				Action: withApp(func(ctx context.Context, cmd *cli.Command, a *app.App) error {
					resp, err := a.Client().CreateMediaUploadURL(ctx, hootsweet.MediaUploadRequest{
						SizeBytes: cmd.Int64("size"),
						MimeType:  cmd.String("mime-type"),
					})
					if err != nil {
						return err
					}
					return printJSON(cmd, resp)
				}),
			},
			{
				Name:      "status",
				Usage:     "Show the upload status of a media file",
				ArgsUsage: "<media-id>",
				Action: withApp(func(ctx context.Context, cmd *cli.Command, a *app.App) error {
					id, err := requireArg(cmd, "media-id")
					if err != nil {
						return err
					}
					resp, err := a.Client().GetMediaUploadStatus(ctx, id)
					if err != nil {
						return err
					}
					return printJSON(cmd, resp)
				}),
			},
		},
	}
}
